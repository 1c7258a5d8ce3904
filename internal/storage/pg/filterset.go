package pg

// Filter names one kind of listing filter. Count queries exclude their own
// facet's filter so the UI can show "what the count would be without it".
type Filter uint8

const (
	FilterStatus Filter = 1 << iota
	FilterMode
	FilterService
	FilterSearch
)

// FilterSet is a set of filter kinds to leave out of a WHERE clause.
type FilterSet uint8

func Exclude(filters ...Filter) FilterSet {
	var s FilterSet
	for _, f := range filters {
		s |= FilterSet(f)
	}
	return s
}

func (s FilterSet) Has(f Filter) bool {
	return s&FilterSet(f) != 0
}
