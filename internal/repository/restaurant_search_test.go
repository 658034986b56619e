package repository

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComposeCategoryWithReviewSort(t *testing.T) {
	q := Compose(SearchCriteria{Category: "Indian", Sort: SortByReviewCount})

	assert.Equal(t, []string{"category = ?"}, q.Conds)
	assert.Equal(t, []any{"Indian"}, q.Args)
	assert.Equal(t, "num_ratings DESC", q.OrderBy)
}

func TestComposeEmptyCriteriaUsesDefaultOrder(t *testing.T) {
	q := Compose(SearchCriteria{})

	assert.Empty(t, q.Conds)
	assert.Empty(t, q.Args)
	assert.Equal(t, "avg_rating DESC", q.OrderBy)
}

func TestComposePriceSymbolFiltersOnIntegerTier(t *testing.T) {
	q := Compose(SearchCriteria{Price: "$$"})

	assert.Equal(t, []string{"price = ?"}, q.Conds)
	assert.Equal(t, []any{2}, q.Args)
}

func TestComposeUnrecognizedSortFallsBackToRating(t *testing.T) {
	q := Compose(SearchCriteria{Sort: "Alphabetical"})

	assert.Equal(t, "avg_rating DESC", q.OrderBy)
}

func TestComposeAllFilters(t *testing.T) {
	q := Compose(SearchCriteria{Category: "Brunch", City: "Oslo", Price: "3", Sort: SortByReviewCount})

	assert.Equal(t, []string{"category = ?", "city = ?", "price = ?"}, q.Conds)
	assert.Equal(t, []any{"Brunch", "Oslo", 3}, q.Args)
	assert.Equal(t, "num_ratings DESC", q.OrderBy)
}

func TestPriceTier(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"", 0},
		{"$", 1},
		{"$$", 2},
		{"$$$$", 4},
		{"$$$$$", 0}, // out of range
		{"2", 2},
		{"7", 0},  // out of range
		{"$2", 0}, // mixed, unparseable
		{" $$ ", 2},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, PriceTier(tc.in), "input %q", tc.in)
	}
}
