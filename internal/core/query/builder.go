// Package query provides a small, store-agnostic builder for task queries.
// Filters are accumulated as data-driven predicates (field, operator, value)
// and always combined with logical AND; the persistence layer owns the
// translation into its native query language.
package query

import (
	"strings"
	"time"
)

// Op identifies how a predicate compares its field against its value.
type Op string

const (
	// OpEquals matches the field exactly.
	OpEquals Op = "eq"
	// OpContains matches a case-sensitive substring.
	OpContains Op = "contains"
	// OpOnDate matches the date component only; time-of-day is ignored.
	OpOnDate Op = "on_date"
)

// Field names understood by the task store.
const (
	FieldID        = "id"
	FieldTitle     = "title"
	FieldStartDate = "start_date"
	FieldDueDate   = "due_date"
	FieldStatus    = "status"
	FieldOwner     = "user_id"
)

// sortable is the allow-list of fields a caller may sort by. Anything else
// falls back to FieldID rather than being passed through to the store.
var sortable = map[string]struct{}{
	FieldID:        {},
	FieldTitle:     {},
	FieldStartDate: {},
	FieldDueDate:   {},
	FieldStatus:    {},
}

const (
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Predicate is a single filter condition.
type Predicate struct {
	Field string
	Op    Op
	Value any
}

// Direction is a sort direction token.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// ParseDirection interprets a direction token case-insensitively.
// Unrecognized tokens default to descending.
func ParseDirection(s string) Direction {
	if strings.EqualFold(s, string(Asc)) {
		return Asc
	}
	return Desc
}

// Sort holds the single sort key applied to a query. Stores must append a
// deterministic secondary key (id ascending) so that pagination is stable
// when the primary key ties.
type Sort struct {
	Field     string
	Direction Direction
}

// PageRequest holds zero-based pagination parameters.
type PageRequest struct {
	Index int
	Size  int
}

// Query is the fully composed filter handed to the store.
type Query struct {
	Predicates []Predicate
	Sort       Sort
	Page       PageRequest
}

// Builder accumulates predicates, sort, and page parameters.
// The zero value is not usable; call NewBuilder.
type Builder struct {
	q Query
}

func NewBuilder() *Builder {
	return &Builder{q: Query{
		Sort: Sort{Field: FieldID, Direction: Desc},
		Page: PageRequest{Index: 0, Size: DefaultPageSize},
	}}
}

// OwnedBy adds the mandatory owner predicate.
func (b *Builder) OwnedBy(userID string) *Builder {
	b.q.Predicates = append(b.q.Predicates, Predicate{Field: FieldOwner, Op: OpEquals, Value: userID})
	return b
}

// TitleContains adds a case-sensitive substring filter on the title.
// A blank value means "not provided" and adds nothing.
func (b *Builder) TitleContains(title string) *Builder {
	if strings.TrimSpace(title) == "" {
		return b
	}
	b.q.Predicates = append(b.q.Predicates, Predicate{Field: FieldTitle, Op: OpContains, Value: title})
	return b
}

// DueOn filters on the due date's date component. The time-of-day of both the
// argument and the stored value is irrelevant to the match.
func (b *Builder) DueOn(t time.Time) *Builder {
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	b.q.Predicates = append(b.q.Predicates, Predicate{Field: FieldDueDate, Op: OpOnDate, Value: day})
	return b
}

// StatusIs adds an exact status filter.
func (b *Builder) StatusIs(status string) *Builder {
	b.q.Predicates = append(b.q.Predicates, Predicate{Field: FieldStatus, Op: OpEquals, Value: status})
	return b
}

// SortBy sets the sort key. Fields outside the allow-list fall back to id;
// the direction token is parsed case-insensitively, defaulting to descending.
func (b *Builder) SortBy(field, direction string) *Builder {
	if _, ok := sortable[field]; !ok {
		field = FieldID
	}
	b.q.Sort = Sort{Field: field, Direction: ParseDirection(direction)}
	return b
}

// Paginate sets the zero-based page index and the page size. Negative indexes
// become 0; sizes are clamped to [1, MaxPageSize], with DefaultPageSize used
// when no positive size is given.
func (b *Builder) Paginate(index, size int) *Builder {
	if index < 0 {
		index = 0
	}
	if size <= 0 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	b.q.Page = PageRequest{Index: index, Size: size}
	return b
}

// Build returns the composed query.
func (b *Builder) Build() Query {
	return b.q
}
