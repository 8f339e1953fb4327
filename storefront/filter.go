package storefront

import (
	"cmp"
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Product sort keys understood by SortProducts.
const (
	SortRelevance   = "RELEVANCE"
	SortBestSelling = "BEST_SELLING"
	SortTitle       = "TITLE"
	SortPrice       = "PRICE"
	SortCreatedAt   = "CREATED_AT"
	SortCreated     = "CREATED"
	SortUpdatedAt   = "UPDATED_AT"
	SortID          = "ID"
)

// FilterProducts keeps the products matching query, for backends without a
// native search. Every whitespace separated term must occur, case
// insensitively, in the title, the description or one of the tags. An empty
// query keeps everything. Nil entries are dropped.
func FilterProducts(products []*RawProduct, query string) []*RawProduct {
	terms := strings.Fields(strings.ToLower(query))
	out := make([]*RawProduct, 0, len(products))
	for _, p := range products {
		if p == nil {
			continue
		}
		if matchesTerms(p, terms) {
			out = append(out, p)
		}
	}
	return out
}

func matchesTerms(p *RawProduct, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	haystack := strings.ToLower(p.Title + "\n" + p.Description + "\n" + strings.Join(p.Tags, "\n"))
	for _, term := range terms {
		if !strings.Contains(haystack, term) {
			return false
		}
	}
	return true
}

// SortProducts orders products in place by sortKey. Unknown keys, RELEVANCE
// and BEST_SELLING keep the source order, which reverse still flips. Nil
// entries sort last.
func SortProducts(products []*RawProduct, sortKey string, reverse bool) {
	compare := productComparator(strings.ToUpper(sortKey))
	if compare != nil {
		slices.SortStableFunc(products, func(a, b *RawProduct) int {
			switch {
			case a == nil && b == nil:
				return 0
			case a == nil:
				return 1
			case b == nil:
				return -1
			}
			return compare(a, b)
		})
	}
	if reverse {
		slices.Reverse(products)
	}
}

func productComparator(sortKey string) func(a, b *RawProduct) int {
	switch sortKey {
	case SortTitle:
		return func(a, b *RawProduct) int {
			return cmp.Compare(strings.ToLower(a.Title), strings.ToLower(b.Title))
		}
	case SortPrice:
		return func(a, b *RawProduct) int {
			return minPrice(a).Cmp(minPrice(b))
		}
	case SortCreatedAt, SortCreated:
		return func(a, b *RawProduct) int {
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	case SortUpdatedAt:
		return func(a, b *RawProduct) int {
			return a.UpdatedAt.Compare(b.UpdatedAt)
		}
	case SortID:
		return func(a, b *RawProduct) int {
			return cmp.Compare(a.ID, b.ID)
		}
	default:
		return nil
	}
}

// minPrice parses the minimum variant price; unparsable amounts count as zero.
func minPrice(p *RawProduct) decimal.Decimal {
	d, err := decimal.NewFromString(p.PriceRange.MinVariantPrice.Amount)
	if err != nil {
		return decimal.Zero
	}
	return d
}
