package storefront

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ids(products []*RawProduct) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		if p == nil {
			out = append(out, "<nil>")
			continue
		}
		out = append(out, p.ID)
	}
	return out
}

func TestFilterProducts(t *testing.T) {
	products := []*RawProduct{
		{ID: "1", Title: "Red Chair", Tags: []string{"furniture"}},
		nil,
		{ID: "2", Title: "Blue Lamp", Description: "A lamp for the desk"},
		{ID: "3", Title: "Red Lamp", Tags: []string{"lighting"}},
	}

	assert.Equal(t, []string{"1", "2", "3"}, ids(FilterProducts(products, "")))
	assert.Equal(t, []string{"1", "3"}, ids(FilterProducts(products, "red")))
	assert.Equal(t, []string{"3"}, ids(FilterProducts(products, "RED lamp")))
	assert.Equal(t, []string{"2"}, ids(FilterProducts(products, "desk")))
	assert.Equal(t, []string{"1"}, ids(FilterProducts(products, "furniture")))
	assert.Empty(t, FilterProducts(products, "sofa"))
}

func TestSortProducts(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	build := func() []*RawProduct {
		return []*RawProduct{
			{ID: "b", Title: "beta", CreatedAt: base.Add(2 * time.Hour), PriceRange: PriceRange{MinVariantPrice: Money{Amount: "9.50"}}},
			{ID: "a", Title: "Alpha", CreatedAt: base.Add(3 * time.Hour), PriceRange: PriceRange{MinVariantPrice: Money{Amount: "100.00"}}},
			nil,
			{ID: "c", Title: "gamma", CreatedAt: base.Add(1 * time.Hour), PriceRange: PriceRange{MinVariantPrice: Money{Amount: "10"}}},
		}
	}

	tests := []struct {
		name    string
		sortKey string
		reverse bool
		want    []string
	}{
		{name: "title", sortKey: SortTitle, want: []string{"a", "b", "c", "<nil>"}},
		{name: "price compares decimals", sortKey: SortPrice, want: []string{"b", "c", "a", "<nil>"}},
		{name: "price reversed", sortKey: SortPrice, reverse: true, want: []string{"<nil>", "a", "c", "b"}},
		{name: "created at", sortKey: SortCreatedAt, want: []string{"c", "b", "a", "<nil>"}},
		{name: "created alias lower case", sortKey: "created", want: []string{"c", "b", "a", "<nil>"}},
		{name: "relevance keeps order", sortKey: SortRelevance, want: []string{"b", "a", "<nil>", "c"}},
		{name: "unknown reversed", sortKey: "WHATEVER", reverse: true, want: []string{"c", "<nil>", "a", "b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products := build()
			SortProducts(products, tt.sortKey, tt.reverse)
			require.Len(t, products, 4)
			assert.Equal(t, tt.want, ids(products))
		})
	}
}
