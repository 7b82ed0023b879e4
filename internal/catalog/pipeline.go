package catalog

import (
	"sort"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/agimports/storefront-backend/pkg/enums"
)

// Criteria holds every catalog filter. Zero-valued fields are skipped, the
// set ones are AND-combined.
type Criteria struct {
	Hidden             map[uuid.UUID]struct{}
	Search             string
	LeagueName         string
	NationalityName    string
	Season             string
	SpecialEditionOnly bool
	MinPrice           *decimal.Decimal
	MaxPrice           *decimal.Decimal
}

// SortSpec names the sort key and direction. The zero value falls back to
// newest/desc.
type SortSpec struct {
	Key       enums.SortKey
	Direction enums.SortDirection
}

func (s SortSpec) normalized() SortSpec {
	if !s.Key.IsValid() {
		s.Key = enums.SortKeyNewest
	}
	if !s.Direction.IsValid() {
		s.Direction = enums.SortDescending
	}
	return s
}

// WindowStep is how many items each load-more click reveals.
const WindowStep = 12

// Window is the load-more paging cursor. It grows in fixed steps and resets
// whenever the criteria or sort change.
type Window struct {
	limit int
}

// NewWindow returns a window showing the first step of results.
func NewWindow() Window {
	return Window{limit: WindowStep}
}

// Limit reports how many items the window currently reveals.
func (w Window) Limit() int {
	if w.limit <= 0 {
		return WindowStep
	}
	return w.limit
}

// Grow widens the window by one step.
func (w Window) Grow() Window {
	return Window{limit: w.Limit() + WindowStep}
}

// Reset snaps the window back to the first step.
func (w Window) Reset() Window {
	return NewWindow()
}

// Matches reports whether one product satisfies every set criterion.
func (c Criteria) Matches(p ProductView) bool {
	if _, hidden := c.Hidden[p.ID]; hidden {
		return false
	}
	if search := strings.ToLower(strings.TrimSpace(c.Search)); search != "" {
		description := ""
		if p.Description != nil {
			description = *p.Description
		}
		if !strings.Contains(strings.ToLower(p.Name), search) &&
			!strings.Contains(strings.ToLower(p.TeamName), search) &&
			!strings.Contains(strings.ToLower(description), search) {
			return false
		}
	}
	if c.LeagueName != "" && p.LeagueName != c.LeagueName {
		return false
	}
	if c.NationalityName != "" && p.NationalityName != c.NationalityName {
		return false
	}
	if c.Season != "" {
		if p.Season == nil || *p.Season != c.Season {
			return false
		}
	}
	if c.SpecialEditionOnly && !p.SpecialEdition {
		return false
	}
	if c.MinPrice != nil && p.Price.LessThan(*c.MinPrice) {
		return false
	}
	if c.MaxPrice != nil && p.Price.GreaterThan(*c.MaxPrice) {
		return false
	}
	return true
}

// Filter returns the products matching the criteria, preserving input order.
func Filter(products []ProductView, criteria Criteria) []ProductView {
	matched := make([]ProductView, 0, len(products))
	for _, p := range products {
		if criteria.Matches(p) {
			matched = append(matched, p)
		}
	}
	return matched
}

// Sort orders the slice in place. The sort is stable so products that compare
// equal keep their relative order.
func Sort(products []ProductView, spec SortSpec) {
	spec = spec.normalized()
	less := lessFunc(spec.Key)
	if spec.Direction == enums.SortDescending {
		inner := less
		less = func(a, b ProductView) bool { return inner(b, a) }
	}
	sort.SliceStable(products, func(i, j int) bool {
		return less(products[i], products[j])
	})
}

func lessFunc(key enums.SortKey) func(a, b ProductView) bool {
	switch key {
	case enums.SortKeyName:
		collator := collate.New(language.BrazilianPortuguese, collate.IgnoreCase)
		return func(a, b ProductView) bool {
			return collator.CompareString(a.Name, b.Name) < 0
		}
	case enums.SortKeyPrice:
		return func(a, b ProductView) bool {
			return a.Price.LessThan(b.Price)
		}
	case enums.SortKeyRating:
		return func(a, b ProductView) bool {
			return a.Rating < b.Rating
		}
	default:
		// recency proxy: lexically larger ID string counts as newer
		return func(a, b ProductView) bool {
			return a.ID.String() < b.ID.String()
		}
	}
}

// Paginate slices the sorted results down to the window, capped at the
// result length.
func Paginate(products []ProductView, window Window) []ProductView {
	limit := window.Limit()
	if limit >= len(products) {
		return products
	}
	return products[:limit]
}

// Run applies filter, sort, and window in order and reports the total match
// count before paging.
func Run(products []ProductView, criteria Criteria, spec SortSpec, window Window) ([]ProductView, int) {
	matched := Filter(products, criteria)
	Sort(matched, spec)
	return Paginate(matched, window), len(matched)
}
