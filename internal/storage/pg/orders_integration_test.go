package pg

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"

	"github.com/orderdesk/orderdesk/internal/domain"
	"github.com/orderdesk/orderdesk/internal/filter"
	pkgtesting "github.com/orderdesk/orderdesk/pkg/testing"
	"github.com/orderdesk/orderdesk/pkg/pagination"
)

var (
	testCtx  context.Context
	testPool *ConnectionPool
	testRepo *OrderRepository
)

func TestMain(m *testing.M) {
	testCtx = context.Background()

	pg, err := pkgtesting.NewPGContainer(testCtx, pkgtesting.PGConfig{
		Database: "orders_test_db",
		Username: "test",
		Password: "test",
	})
	if err != nil {
		// No container runtime: run only the tests that build SQL.
		slog.Warn("postgres container unavailable, skipping repository integration tests", "error", err)
		os.Exit(m.Run())
	}
	defer testcontainers.TerminateContainer(pg.Container)

	testPool, err = NewConnectionPool(testCtx, PoolConfig{ConnStr: pg.ConnString})
	if err != nil {
		panic(err)
	}
	defer testPool.Close()

	testRepo = NewOrderRepository(testPool)

	os.Exit(m.Run())
}

func requireDB(t *testing.T) {
	t.Helper()
	if testRepo == nil {
		t.Skip("postgres container unavailable")
	}
}

// seedOrders inserts n orders with sequential ids starting at 1,
// alternating over two users, two services and both modes.
func seedOrders(t *testing.T, n int) {
	t.Helper()
	conn := testPool.GetConn()

	_, err := conn.Exec(testCtx, "TRUNCATE TABLE orders, users, services RESTART IDENTITY CASCADE")
	require.NoError(t, err)

	_, err = conn.Exec(testCtx, `
		INSERT INTO users (first_name, last_name) VALUES ('John', 'Smith'), ('Jane', 'Doe');
		INSERT INTO services (name) VALUES ('Likes'), ('Followers');
	`)
	require.NoError(t, err)

	for i := 1; i <= n; i++ {
		_, err = conn.Exec(testCtx, `
			INSERT INTO orders (user_id, link, quantity, service_id, status, mode)
			VALUES ($1, $2, $3, $4, $5, $6)`,
			int64(i%2+1),
			fmt.Sprintf("https://example.com/%d", i),
			i*10,
			int64(i%2+1),
			i%5,
			i%2,
		)
		require.NoError(t, err)
	}
}

func orderIDs(orders []domain.Order) []int64 {
	ids := make([]int64, len(orders))
	for i, o := range orders {
		ids[i] = o.ID
	}
	return ids
}

func TestWindowKeyset_FirstPage(t *testing.T) {
	requireDB(t)
	seedOrders(t, 25)

	orders, err := testRepo.WindowKeyset(testCtx, filter.Criteria{}, nil, pagination.DirectionNext, 10)
	require.NoError(t, err)

	require.Len(t, orders, 11, "keyset fetch returns limit+1 rows when more exist")
	assert.Equal(t, int64(25), orders[0].ID)
	assert.Equal(t, int64(15), orders[10].ID)
}

func TestWindowKeyset_NextThenPrevRoundTrip(t *testing.T) {
	requireDB(t)
	seedOrders(t, 25)

	cursor := int64(16)
	next, err := testRepo.WindowKeyset(testCtx, filter.Criteria{}, &cursor, pagination.DirectionNext, 10)
	require.NoError(t, err)
	require.Len(t, next, 11)
	assert.Equal(t, int64(15), next[0].ID, "next page starts right below the cursor")

	back, err := testRepo.WindowKeyset(testCtx, filter.Criteria{}, &cursor, pagination.DirectionPrev, 10)
	require.NoError(t, err)
	require.NotEmpty(t, back)

	// Rows must come back descending even though the prev fetch ran ascending.
	ids := orderIDs(back)
	for i := 1; i < len(ids); i++ {
		assert.Greater(t, ids[i-1], ids[i])
	}
	for _, id := range ids {
		assert.Greater(t, id, cursor)
	}
}

func TestWindowOffset(t *testing.T) {
	requireDB(t)
	seedOrders(t, 25)

	orders, err := testRepo.WindowOffset(testCtx, filter.Criteria{}, 2, 10)
	require.NoError(t, err)

	require.Len(t, orders, 10)
	assert.Equal(t, int64(15), orders[0].ID)
	assert.Equal(t, int64(6), orders[9].ID)
}

func TestWindow_JoinedDisplayFields(t *testing.T) {
	requireDB(t)
	seedOrders(t, 2)

	orders, err := testRepo.WindowKeyset(testCtx, filter.Criteria{}, nil, pagination.DirectionNext, 10)
	require.NoError(t, err)
	require.Len(t, orders, 2)

	assert.NotEmpty(t, orders[0].ServiceName)
	assert.NotEmpty(t, orders[0].UserFullName())
}

func TestCount_MatchesFilter(t *testing.T) {
	requireDB(t)
	seedOrders(t, 25)

	total, err := testRepo.Count(testCtx, filter.Criteria{}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(25), total)

	pending := domain.StatusPending
	n, err := testRepo.Count(testCtx, filter.Criteria{Status: &pending}, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n, "ids 5,10,15,20,25 have status 0")

	// Excluding the status filter restores the full count.
	n, err = testRepo.Count(testCtx, filter.Criteria{Status: &pending}, Exclude(FilterStatus))
	require.NoError(t, err)
	assert.Equal(t, int64(25), n)
}

func TestCount_ByIDSearch(t *testing.T) {
	requireDB(t)
	seedOrders(t, 25)

	c := filter.Criteria{Search: "12", SearchType: domain.SearchByID}
	n, err := testRepo.Count(testCtx, c, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	orders, err := testRepo.WindowKeyset(testCtx, c, nil, pagination.DirectionNext, 10)
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, int64(12), orders[0].ID)
}

func TestCount_ByUsernameSearch(t *testing.T) {
	requireDB(t)
	seedOrders(t, 10)

	c := filter.Criteria{Search: "smith", SearchType: domain.SearchByUsername}
	n, err := testRepo.Count(testCtx, c, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n, "John Smith owns the even-id half")
}

func TestModeCounts(t *testing.T) {
	requireDB(t)
	seedOrders(t, 10)

	counts, err := testRepo.ModeCounts(testCtx, filter.Criteria{}, 0)
	require.NoError(t, err)

	assert.Equal(t, int64(5), counts[domain.ModeManual])
	assert.Equal(t, int64(5), counts[domain.ModeAuto])
}

func TestModeCounts_ExcludesOwnFilter(t *testing.T) {
	requireDB(t)
	seedOrders(t, 10)

	auto := domain.ModeAuto
	counts, err := testRepo.ModeCounts(testCtx, filter.Criteria{Mode: &auto}, Exclude(FilterMode))
	require.NoError(t, err)

	// Both facets stay visible even though the auto filter is active.
	assert.Len(t, counts, 2)
}

func TestServiceCounts_OrderedByCountDesc(t *testing.T) {
	requireDB(t)
	seedOrders(t, 9)

	counts, err := testRepo.ServiceCounts(testCtx, filter.Criteria{}, 0)
	require.NoError(t, err)
	require.Len(t, counts, 2)

	assert.GreaterOrEqual(t, counts[0].Count, counts[1].Count)
	assert.NotEmpty(t, counts[0].Name)
}

func TestExportBatch_KeysetWalk(t *testing.T) {
	requireDB(t)
	seedOrders(t, 25)

	var (
		lastID = int64(1<<62 - 1)
		seen   []int64
	)
	for {
		batch, err := testRepo.ExportBatch(testCtx, filter.Criteria{}, lastID, 10)
		require.NoError(t, err)
		for _, o := range batch {
			seen = append(seen, o.ID)
			lastID = o.ID
		}
		if len(batch) < 10 {
			break
		}
	}

	require.Len(t, seen, 25, "every row exported exactly once")
	for i := 1; i < len(seen); i++ {
		assert.Greater(t, seen[i-1], seen[i])
	}
}
