package repository

import (
	"strconv"
	"strings"
)

// Sort modes accepted by the composer. Anything else falls back to
// rating order, which is the defined default rather than an error.
const (
	SortByRating      = "Rating"
	SortByReviewCount = "Review"
)

// SearchCriteria carries the optional filters and the sort mode for a
// restaurant listing. Zero values mean "absent" and are skipped when
// the query is composed. Price accepts either an integer tier ("2") or
// a run of "$" symbols whose length encodes the tier ("$$").
type SearchCriteria struct {
	Category string
	City     string
	Price    string
	Sort     string
	Limit    int
}

// ComposedQuery is the result of folding a SearchCriteria over an empty
// query: a list of equality predicates with their arguments and exactly
// one ordering clause. It is a plain value and carries no connection
// state, so composing is free of side effects.
type ComposedQuery struct {
	Conds   []string
	Args    []any
	OrderBy string
}

// Compose builds the filtered, sorted listing query for the given
// criteria without executing it. Each present filter contributes one
// equality predicate; absent or unparseable options are skipped.
func Compose(c SearchCriteria) ComposedQuery {
	var q ComposedQuery
	if c.Category != "" {
		q.Conds = append(q.Conds, "category = ?")
		q.Args = append(q.Args, c.Category)
	}
	if c.City != "" {
		q.Conds = append(q.Conds, "city = ?")
		q.Args = append(q.Args, c.City)
	}
	if tier := PriceTier(c.Price); tier > 0 {
		q.Conds = append(q.Conds, "price = ?")
		q.Args = append(q.Args, tier)
	}
	switch c.Sort {
	case SortByReviewCount:
		q.OrderBy = "num_ratings DESC"
	default:
		q.OrderBy = "avg_rating DESC"
	}
	return q
}

// PriceTier converts a price filter value into an integer tier. A run
// of "$" symbols maps to its length, so "$$" filters on tier 2; plain
// integers are accepted as-is. Values outside 1..4 and empty strings
// yield 0, meaning the filter is absent.
func PriceTier(s string) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	tier := 0
	if strings.Count(s, "$") == len(s) {
		tier = len(s)
	} else if n, err := strconv.Atoi(s); err == nil {
		tier = n
	}
	if tier < 1 || tier > 4 {
		return 0
	}
	return tier
}
