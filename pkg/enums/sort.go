package enums

// SortKey selects the comparator applied to the filtered catalog.
type SortKey string

const (
	SortKeyName   SortKey = "name"
	SortKeyPrice  SortKey = "price"
	SortKeyRating SortKey = "rating"
	SortKeyNewest SortKey = "newest"
)

func (k SortKey) IsValid() bool {
	switch k {
	case SortKeyName, SortKeyPrice, SortKeyRating, SortKeyNewest:
		return true
	}
	return false
}

// SortDirection orders the comparator output.
type SortDirection string

const (
	SortAscending  SortDirection = "asc"
	SortDescending SortDirection = "desc"
)

func (d SortDirection) IsValid() bool {
	return d == SortAscending || d == SortDescending
}
