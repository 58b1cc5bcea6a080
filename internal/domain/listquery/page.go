package listquery

// Page is the list envelope. Length is the number of results after filtering,
// GroupLength the number returned in Items, and ResultKey names the items when
// rendered.
type Page[T any] struct {
	Length      int
	GroupLength int
	ResultKey   string
	Items       []T
}

// NewPage wraps items that were not paginated: Length equals GroupLength.
func NewPage[T any](key string, items []T) Page[T] {
	return Page[T]{Length: len(items), GroupLength: len(items), ResultKey: key, Items: items}
}

// MapPage converts the items of p, keeping its counts and key.
func MapPage[T, U any](p Page[T], f func(T) (U, error)) (Page[U], error) {
	items := make([]U, 0, len(p.Items))
	for _, it := range p.Items {
		u, err := f(it)
		if err != nil {
			return Page[U]{}, err
		}
		items = append(items, u)
	}
	return Page[U]{Length: p.Length, GroupLength: p.GroupLength, ResultKey: p.ResultKey, Items: items}, nil
}
