package domain

// SearchType selects which field a search term matches against.
type SearchType int

const (
	SearchByID SearchType = iota + 1
	SearchByLink
	SearchByUsername
)

func (t SearchType) Valid() bool {
	return t >= SearchByID && t <= SearchByUsername
}

func SearchTypeFromValue(v int) (SearchType, bool) {
	t := SearchType(v)
	return t, t.Valid()
}
