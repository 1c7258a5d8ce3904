package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/orderdesk/orderdesk/internal/domain"
	"github.com/orderdesk/orderdesk/internal/filter"
	"github.com/orderdesk/orderdesk/internal/i18n"
)

// DefaultBatchSize is how many rows one export fetch pulls.
const DefaultBatchSize = 5000

// TimeLayout is the creation-timestamp format of exported rows.
const TimeLayout = "2006-01-02 15:04:05"

// BatchSource produces descending-id order batches below lastID.
type BatchSource interface {
	ExportBatch(ctx context.Context, c filter.Criteria, lastID int64, batchSize int) ([]domain.Order, error)
}

// Exporter streams a filtered order set to a writer as CSV. It walks the set
// with the same keyset technique the listing uses, so batch cost does not
// grow with export depth, and it writes each batch through before fetching
// the next, keeping memory bounded for arbitrarily large exports.
type Exporter struct {
	src       BatchSource
	catalog   *i18n.Catalog
	batchSize int
}

func NewExporter(src BatchSource, catalog *i18n.Catalog, batchSize int) *Exporter {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Exporter{src: src, catalog: catalog, batchSize: batchSize}
}

// Export writes the header row and then every matching order. A failed
// write aborts the export: bytes already sent cannot be taken back, so
// there is no retry. Context cancellation stops the walk between batches.
func (e *Exporter) Export(ctx context.Context, c filter.Criteria, w io.Writer) error {
	out := csv.NewWriter(w)

	if err := out.Write(e.catalog.CSVHeaders()); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	lastID := int64(math.MaxInt64)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		batch, err := e.src.ExportBatch(ctx, c, lastID, e.batchSize)
		if err != nil {
			return fmt.Errorf("fetch export batch: %w", err)
		}

		for _, order := range batch {
			if err := out.Write(e.formatRow(order)); err != nil {
				return fmt.Errorf("write csv row: %w", err)
			}
			lastID = order.ID
		}

		out.Flush()
		if err := out.Error(); err != nil {
			return fmt.Errorf("flush csv: %w", err)
		}

		// A short batch means the set is exhausted; only a full batch
		// can have rows behind it.
		if len(batch) < e.batchSize {
			return nil
		}
	}
}

func (e *Exporter) formatRow(o domain.Order) []string {
	created := ""
	if !o.CreatedAt.IsZero() {
		created = o.CreatedAt.Format(TimeLayout)
	}

	return []string{
		strconv.FormatInt(o.ID, 10),
		o.UserFullName(),
		o.Link,
		strconv.Itoa(o.Quantity),
		o.ServiceName,
		e.catalog.T(o.Status.LabelKey()),
		e.catalog.T(o.Mode.LabelKey()),
		created,
	}
}
