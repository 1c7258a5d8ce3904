package pg

import (
	"context"
	"fmt"
	"strconv"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/orderdesk/orderdesk/internal/domain"
	"github.com/orderdesk/orderdesk/internal/filter"
	"github.com/orderdesk/orderdesk/pkg/pagination"
)

var psql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// OrderRepository answers the listing, facet-count and export queries over
// the orders store. Criteria are assumed pre-validated; malformed values are
// a programming error, not a recoverable one.
type OrderRepository struct {
	db *pgxpool.Pool
}

func NewOrderRepository(pool *ConnectionPool) *OrderRepository {
	return &OrderRepository{db: pool.GetConn()}
}

// ServiceCount is one row of the per-service facet.
type ServiceCount struct {
	ServiceID int64  `json:"serviceId"`
	Name      string `json:"name"`
	Count     int64  `json:"count"`
}

func baseSelect() sq.SelectBuilder {
	return psql.
		Select(
			"o.id",
			"o.user_id",
			"o.link",
			"o.quantity",
			"o.service_id",
			"o.status",
			"o.mode",
			"o.created_at",
			"COALESCE(u.first_name, '') AS first_name",
			"COALESCE(u.last_name, '') AS last_name",
			"COALESCE(s.name, '') AS service_name",
		).
		From("orders o").
		LeftJoin("users u ON o.user_id = u.id").
		LeftJoin("services s ON o.service_id = s.id")
}

func applyFilters(q sq.SelectBuilder, c filter.Criteria, exclude FilterSet) sq.SelectBuilder {
	if !exclude.Has(FilterStatus) && c.Status != nil {
		q = q.Where(sq.Eq{"o.status": int(*c.Status)})
	}
	if !exclude.Has(FilterMode) && c.Mode != nil {
		q = q.Where(sq.Eq{"o.mode": int(*c.Mode)})
	}
	if !exclude.Has(FilterService) && c.ServiceID != nil {
		q = q.Where(sq.Eq{"o.service_id": *c.ServiceID})
	}
	if !exclude.Has(FilterSearch) && c.HasSearch() {
		q = applySearch(q, c)
	}
	return q
}

func applySearch(q sq.SelectBuilder, c filter.Criteria) sq.SelectBuilder {
	switch c.SearchType {
	case domain.SearchByID:
		id, err := strconv.ParseInt(c.Search, 10, 64)
		if err != nil {
			panic("pg: by-id search term is not numeric: " + c.Search)
		}
		return q.Where(sq.Eq{"o.id": id})
	case domain.SearchByLink:
		return q.Where(sq.Expr("o.link ILIKE ?", like(c.Search)))
	case domain.SearchByUsername:
		pattern := like(c.Search)
		return q.Where(sq.Or{
			sq.Expr("u.first_name ILIKE ?", pattern),
			sq.Expr("u.last_name ILIKE ?", pattern),
			sq.Expr("(u.first_name || ' ' || u.last_name) ILIKE ?", pattern),
		})
	default:
		panic(fmt.Sprintf("pg: unknown search type %d", c.SearchType))
	}
}

func like(term string) string {
	return "%" + term + "%"
}

// usersJoinNeeded reports whether a count query has to pull in the users
// table; only a by-username search references it.
func usersJoinNeeded(c filter.Criteria, exclude FilterSet) bool {
	return c.HasSearch() && c.SearchType == domain.SearchByUsername && !exclude.Has(FilterSearch)
}

// WindowKeyset fetches one page bounded by the cursor id, plus one extra row
// so the caller can detect whether more rows exist in the fetched direction.
// Rows come back ordered descending by id for both directions: a prev fetch
// runs ascending and is reversed here.
func (r *OrderRepository) WindowKeyset(
	ctx context.Context,
	c filter.Criteria,
	cursor *int64,
	direction pagination.Direction,
	limit int,
) ([]domain.Order, error) {
	q, reversed := keysetQuery(c, cursor, direction, limit)

	orders, err := r.selectOrders(ctx, q)
	if err != nil {
		return nil, err
	}

	if reversed {
		reverse(orders)
	}
	return orders, nil
}

func keysetQuery(c filter.Criteria, cursor *int64, direction pagination.Direction, limit int) (sq.SelectBuilder, bool) {
	q := applyFilters(baseSelect(), c, 0)

	reversed := false
	if cursor != nil {
		if direction == pagination.DirectionPrev {
			q = q.Where(sq.Gt{"o.id": *cursor})
			reversed = true
		} else {
			q = q.Where(sq.Lt{"o.id": *cursor})
		}
	}

	if reversed {
		q = q.OrderBy("o.id ASC")
	} else {
		q = q.OrderBy("o.id DESC")
	}
	return q.Limit(uint64(limit + 1)), reversed
}

// WindowOffset fetches one page by page number. Used only when the caller
// jumped to an explicit page; never combined with a cursor bound.
func (r *OrderRepository) WindowOffset(
	ctx context.Context,
	c filter.Criteria,
	page int,
	pageSize int,
) ([]domain.Order, error) {
	q := applyFilters(baseSelect(), c, 0).
		OrderBy("o.id DESC").
		Offset(uint64((page - 1) * pageSize)).
		Limit(uint64(pageSize))

	return r.selectOrders(ctx, q)
}

// ExportBatch fetches the next descending-id batch below lastID. Plain
// LIMIT, no offset, so batch cost does not depend on export depth.
func (r *OrderRepository) ExportBatch(
	ctx context.Context,
	c filter.Criteria,
	lastID int64,
	batchSize int,
) ([]domain.Order, error) {
	q := applyFilters(baseSelect(), c, 0).
		Where(sq.Lt{"o.id": lastID}).
		OrderBy("o.id DESC").
		Limit(uint64(batchSize))

	return r.selectOrders(ctx, q)
}

// Count returns the number of orders matching the criteria, minus any
// excluded filter kinds.
func (r *OrderRepository) Count(ctx context.Context, c filter.Criteria, exclude FilterSet) (int64, error) {
	q := psql.Select("COUNT(o.id)").From("orders o")
	if usersJoinNeeded(c, exclude) {
		q = q.LeftJoin("users u ON o.user_id = u.id")
	}
	q = applyFilters(q, c, exclude)

	sql, args, err := q.ToSql()
	if err != nil {
		return 0, fmt.Errorf("build count query: %w", err)
	}

	var n int64
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count orders: %w", err)
	}
	return n, nil
}

// ModeCounts returns order counts per mode, with the excluded filters
// removed from the WHERE clause.
func (r *OrderRepository) ModeCounts(ctx context.Context, c filter.Criteria, exclude FilterSet) (map[domain.Mode]int64, error) {
	q := psql.Select("o.mode", "COUNT(o.id)").From("orders o")
	if usersJoinNeeded(c, exclude) {
		q = q.LeftJoin("users u ON o.user_id = u.id")
	}
	q = applyFilters(q, c, exclude).GroupBy("o.mode")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build mode counts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query mode counts: %w", err)
	}
	defer rows.Close()

	counts := make(map[domain.Mode]int64)
	for rows.Next() {
		var (
			mode  int
			count int64
		)
		if err := rows.Scan(&mode, &count); err != nil {
			return nil, err
		}
		counts[domain.Mode(mode)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

// ServiceCounts returns order counts per service, most-ordered first.
func (r *OrderRepository) ServiceCounts(ctx context.Context, c filter.Criteria, exclude FilterSet) ([]ServiceCount, error) {
	q := psql.
		Select("o.service_id", "COALESCE(s.name, '')", "COUNT(o.id) AS cnt").
		From("orders o").
		LeftJoin("services s ON o.service_id = s.id")
	if usersJoinNeeded(c, exclude) {
		q = q.LeftJoin("users u ON o.user_id = u.id")
	}
	q = applyFilters(q, c, exclude).
		GroupBy("o.service_id", "s.name").
		OrderBy("cnt DESC")

	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build service counts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query service counts: %w", err)
	}
	defer rows.Close()

	var counts []ServiceCount
	for rows.Next() {
		var sc ServiceCount
		if err := rows.Scan(&sc.ServiceID, &sc.Name, &sc.Count); err != nil {
			return nil, err
		}
		counts = append(counts, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *OrderRepository) selectOrders(ctx context.Context, q sq.SelectBuilder) ([]domain.Order, error) {
	sql, args, err := q.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build orders query: %w", err)
	}

	dbRows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("query orders: %w", err)
	}
	defer dbRows.Close()

	var orders []domain.Order
	for dbRows.Next() {
		order, err := scanOrder(dbRows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := dbRows.Err(); err != nil {
		return nil, err
	}
	return orders, nil
}

func scanOrder(row pgx.Row) (domain.Order, error) {
	var (
		o      domain.Order
		status int
		mode   int
	)
	if err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.Link,
		&o.Quantity,
		&o.ServiceID,
		&status,
		&mode,
		&o.CreatedAt,
		&o.UserFirstName,
		&o.UserLastName,
		&o.ServiceName,
	); err != nil {
		return domain.Order{}, err
	}
	o.Status = domain.Status(status)
	o.Mode = domain.Mode(mode)
	return o, nil
}

func reverse(orders []domain.Order) {
	for i, j := 0, len(orders)-1; i < j; i, j = i+1, j-1 {
		orders[i], orders[j] = orders[j], orders[i]
	}
}
