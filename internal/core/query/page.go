package query

// Page is the envelope returned by every paginated query. An empty Items
// slice is a valid result; callers decide whether emptiness is exceptional.
type Page[T any] struct {
	Items         []T
	PageIndex     int
	PageSize      int
	TotalPages    int
	TotalElements int64
}

// NewPage assembles a Page from one page of items plus the total match count.
func NewPage[T any](items []T, index, size int, total int64) *Page[T] {
	pages := 0
	if size > 0 {
		pages = int((total + int64(size) - 1) / int64(size))
	}
	return &Page[T]{
		Items:         items,
		PageIndex:     index,
		PageSize:      size,
		TotalPages:    pages,
		TotalElements: total,
	}
}
