package catalog

import (
	"sort"
	"strings"
)

// SortOrder catalogue ordering
type SortOrder string

const (
	SortByName      SortOrder = "name"
	SortByNameDesc  SortOrder = "name-desc"
	SortByPriceLow  SortOrder = "price-low"
	SortByPriceHigh SortOrder = "price-high"
)

// ParseSortOrder falls back to SortByName for unknown values.
func ParseSortOrder(s string) SortOrder {
	switch SortOrder(s) {
	case SortByNameDesc, SortByPriceLow, SortByPriceHigh:
		return SortOrder(s)
	default:
		return SortByName
	}
}

// MaxSuggestions is how many search suggestions the search box shows.
const MaxSuggestions = 6

// Filter is the catalogue view state. MaxPrice <= 0 means no upper bound.
type Filter struct {
	Query    string
	Category string
	MinPrice float64
	MaxPrice float64
	Sort     SortOrder
}

// DefaultFilter shows everything, sorted by name.
func DefaultFilter() Filter {
	return Filter{Category: AllCategories, Sort: SortByName}
}

func (f Filter) matches(p Product) bool {
	if f.Category != "" && f.Category != AllCategories && p.Category != f.Category {
		return false
	}
	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" && !strings.Contains(strings.ToLower(p.Name), q) {
		return false
	}
	if p.Price < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && p.Price > f.MaxPrice {
		return false
	}
	return true
}

// Apply returns the products visible under f, in f.Sort order. The input is not modified.
func (f Filter) Apply(products []Product) []Product {
	out := make([]Product, 0, len(products))
	for _, p := range products {
		if f.matches(p) {
			out = append(out, p)
		}
	}

	var less func(a, b Product) bool
	switch f.Sort {
	case SortByNameDesc:
		less = func(a, b Product) bool { return strings.ToLower(a.Name) > strings.ToLower(b.Name) }
	case SortByPriceLow:
		less = func(a, b Product) bool { return a.Price < b.Price }
	case SortByPriceHigh:
		less = func(a, b Product) bool { return a.Price > b.Price }
	default:
		less = func(a, b Product) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	}
	sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	return out
}

// Suggestion is one search-box completion.
type Suggestion struct {
	Name  string `json:"name"`
	Image string `json:"image"`
}

// Suggest returns up to MaxSuggestions distinct product names containing query,
// in catalogue order.
func Suggest(products []Product, query string) []Suggestion {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	seen := make(map[string]struct{})
	var out []Suggestion
	for _, p := range products {
		if !strings.Contains(strings.ToLower(p.Name), q) {
			continue
		}
		if _, dup := seen[p.Name]; dup {
			continue
		}
		seen[p.Name] = struct{}{}
		out = append(out, Suggestion{Name: p.Name, Image: p.Image})
		if len(out) == MaxSuggestions {
			break
		}
	}
	return out
}
