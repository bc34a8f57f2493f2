package model

// SortKey names a sortable meal attribute.
type SortKey string

const (
	// SortByName sorts lexicographically by meal name.
	SortByName SortKey = "name"
	// SortByLastEaten sorts chronologically; meals without a date sort last.
	SortByLastEaten SortKey = "last_eaten"
	// SortByRating sorts numerically by rating.
	SortByRating SortKey = "rating"
)

// Valid reports whether the key names a sortable attribute. The empty key
// is valid and preserves cache order.
func (k SortKey) Valid() bool {
	switch k {
	case "", SortByName, SortByLastEaten, SortByRating:
		return true
	}
	return false
}

const (
	// Ascending is used for ordering in ascending order.
	Ascending = "asc"
	// Descending is used for ordering in descending order.
	Descending = "desc"
)

// ListOptions carries the server-side ordering parameters for a full fetch.
type ListOptions struct {
	SortBy  SortKey
	OrderBy string // Ascending or Descending
}

// Projection carries the client-side view parameters derived from user input.
type Projection struct {
	Filter    string
	SortBy    SortKey
	Direction string // Ascending or Descending; Ascending when empty
}
