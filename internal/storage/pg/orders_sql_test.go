package pg

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/orderdesk/orderdesk/internal/domain"
	"github.com/orderdesk/orderdesk/internal/filter"
	"github.com/orderdesk/orderdesk/pkg/pagination"
)

func statusPtr(s domain.Status) *domain.Status { return &s }
func modePtr(m domain.Mode) *domain.Mode       { return &m }
func i64(v int64) *int64                       { return &v }

func TestKeysetQuery_FirstPage(t *testing.T) {
	q, reversed := keysetQuery(filter.Criteria{}, nil, pagination.DirectionNext, 100)
	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.False(t, reversed)
	assert.Contains(t, sql, "ORDER BY o.id DESC")
	assert.Contains(t, sql, "LIMIT 101", "keyset mode over-fetches one row")
	assert.NotContains(t, sql, "OFFSET")
	assert.Empty(t, args)
}

func TestKeysetQuery_NextBound(t *testing.T) {
	q, reversed := keysetQuery(filter.Criteria{}, i64(151), pagination.DirectionNext, 100)
	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.False(t, reversed)
	assert.Contains(t, sql, "o.id < $1")
	assert.Contains(t, sql, "ORDER BY o.id DESC")
	assert.Equal(t, []interface{}{int64(151)}, args)
}

func TestKeysetQuery_PrevBoundFlipsOrdering(t *testing.T) {
	q, reversed := keysetQuery(filter.Criteria{}, i64(150), pagination.DirectionPrev, 100)
	sql, args, err := q.ToSql()
	require.NoError(t, err)

	assert.True(t, reversed, "prev fetch must be reversed before use")
	assert.Contains(t, sql, "o.id > $1")
	assert.Contains(t, sql, "ORDER BY o.id ASC")
	assert.Equal(t, []interface{}{int64(150)}, args)
}

func TestApplyFilters_AllFilters(t *testing.T) {
	c := filter.Criteria{
		Status:    statusPtr(domain.StatusPending),
		Mode:      modePtr(domain.ModeAuto),
		ServiceID: i64(7),
	}

	sql, args, err := applyFilters(baseSelect(), c, 0).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "o.status = $")
	assert.Contains(t, sql, "o.mode = $")
	assert.Contains(t, sql, "o.service_id = $")
	assert.Len(t, args, 3)
}

func TestApplyFilters_Exclusion(t *testing.T) {
	c := filter.Criteria{
		Status:    statusPtr(domain.StatusPending),
		Mode:      modePtr(domain.ModeAuto),
		ServiceID: i64(7),
	}

	sql, args, err := applyFilters(baseSelect(), c, Exclude(FilterMode, FilterService)).ToSql()
	require.NoError(t, err)

	assert.Contains(t, sql, "o.status = $")
	assert.NotContains(t, sql, "o.mode = $")
	assert.NotContains(t, sql, "o.service_id = $")
	assert.Len(t, args, 1)
}

func TestApplyFilters_SearchVariants(t *testing.T) {
	tests := []struct {
		name       string
		criteria   filter.Criteria
		wantInSQL  string
		wantArgLen int
	}{
		{
			name:       "by id is an exact match",
			criteria:   filter.Criteria{Search: "12", SearchType: domain.SearchByID},
			wantInSQL:  "o.id = $1",
			wantArgLen: 1,
		},
		{
			name:       "by link is a contains match",
			criteria:   filter.Criteria{Search: "example.com", SearchType: domain.SearchByLink},
			wantInSQL:  "o.link ILIKE $1",
			wantArgLen: 1,
		},
		{
			name:       "by username matches either name or the full name",
			criteria:   filter.Criteria{Search: "smith", SearchType: domain.SearchByUsername},
			wantInSQL:  "u.first_name ILIKE $1 OR u.last_name ILIKE $2 OR (u.first_name || ' ' || u.last_name) ILIKE $3",
			wantArgLen: 3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := applyFilters(baseSelect(), tt.criteria, 0).ToSql()
			require.NoError(t, err)
			assert.Contains(t, sql, tt.wantInSQL)
			assert.Len(t, args, tt.wantArgLen)
		})
	}
}

func TestApplySearch_PanicsOnUnvalidatedInput(t *testing.T) {
	assert.Panics(t, func() {
		applySearch(baseSelect(), filter.Criteria{Search: "abc", SearchType: domain.SearchByID})
	})
	assert.Panics(t, func() {
		applySearch(baseSelect(), filter.Criteria{Search: "x", SearchType: domain.SearchType(9)})
	})
}

func TestUsersJoinNeeded(t *testing.T) {
	byUsername := filter.Criteria{Search: "smith", SearchType: domain.SearchByUsername}

	assert.True(t, usersJoinNeeded(byUsername, 0))
	assert.False(t, usersJoinNeeded(byUsername, Exclude(FilterSearch)))
	assert.False(t, usersJoinNeeded(filter.Criteria{Search: "12", SearchType: domain.SearchByID}, 0))
	assert.False(t, usersJoinNeeded(filter.Criteria{}, 0))
}

func TestFilterSet(t *testing.T) {
	s := Exclude(FilterMode, FilterSearch)

	assert.True(t, s.Has(FilterMode))
	assert.True(t, s.Has(FilterSearch))
	assert.False(t, s.Has(FilterStatus))
	assert.False(t, s.Has(FilterService))
}
