package pagination

// PageDefaultSize is the default page size if not specified
const PageDefaultSize = 100

// Direction of keyset navigation relative to the cursor row.
type Direction string

const (
	DirectionNext Direction = "next"
	DirectionPrev Direction = "prev"
)

func ParseDirection(s string) (Direction, bool) {
	switch s {
	case "", string(DirectionNext):
		return DirectionNext, true
	case string(DirectionPrev):
		return DirectionPrev, true
	}
	return "", false
}
