// Package memory serves a seeded catalog from process memory and keeps carts
// in a map. It backs local development and tests.
package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/goliatone/go-storefront/connection"
	"github.com/goliatone/go-storefront/storefront"
)

var (
	_ storefront.Source     = (*Source)(nil)
	_ storefront.CartSource = (*Source)(nil)
)

const (
	defaultCurrency       = "USD"
	maxRecommendations    = 10
	defaultCheckoutDomain = "https://checkout.example.com"
)

type variantRef struct {
	product *storefront.RawProduct
	variant storefront.ProductVariant
}

// Source is an in-memory storefront.Source and storefront.CartSource.
// Catalog data is read only after New; carts are guarded by a mutex.
type Source struct {
	collections map[string]*storefront.RawCollection
	sorted      []*storefront.RawCollection
	products    map[string]*storefront.RawProduct
	ordered     []*storefront.RawProduct
	byID        map[string]*storefront.RawProduct
	variants    map[string]variantRef
	memberships map[string][]string
	menus       map[string][]storefront.RawMenuItem
	pages       map[string]*storefront.Page
	pageOrder   []*storefront.Page

	currency       string
	checkoutDomain string

	mu    sync.Mutex
	carts map[string]*cart
}

type Option func(*Source)

// WithCurrency sets the currency reported by empty carts.
func WithCurrency(code string) Option {
	return func(s *Source) {
		if code != "" {
			s.currency = code
		}
	}
}

// WithCheckoutDomain sets the host used to build cart checkout URLs.
func WithCheckoutDomain(domain string) Option {
	return func(s *Source) {
		if domain != "" {
			s.checkoutDomain = domain
		}
	}
}

// New indexes catalog. The catalog is copied; later changes to it are not
// observed.
func New(catalog *storefront.Catalog, opts ...Option) *Source {
	s := &Source{
		collections:    map[string]*storefront.RawCollection{},
		products:       map[string]*storefront.RawProduct{},
		byID:           map[string]*storefront.RawProduct{},
		variants:       map[string]variantRef{},
		memberships:    map[string][]string{},
		menus:          map[string][]storefront.RawMenuItem{},
		pages:          map[string]*storefront.Page{},
		currency:       defaultCurrency,
		checkoutDomain: defaultCheckoutDomain,
		carts:          map[string]*cart{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if catalog == nil {
		return s
	}

	for i := range catalog.Collections {
		c := catalog.Collections[i]
		s.collections[c.Handle] = &c
		s.sorted = append(s.sorted, &c)
	}
	slices.SortStableFunc(s.sorted, func(a, b *storefront.RawCollection) int {
		return cmp.Compare(a.Title, b.Title)
	})

	for i := range catalog.Products {
		p := catalog.Products[i]
		s.products[p.Handle] = &p
		s.byID[p.ID] = &p
		s.ordered = append(s.ordered, &p)
		for _, v := range connection.Unwrap(p.Variants) {
			s.variants[v.ID] = variantRef{product: &p, variant: v}
		}
	}

	for handle, members := range catalog.Memberships {
		s.memberships[handle] = slices.Clone(members)
	}
	for handle, items := range catalog.Menus {
		s.menus[handle] = slices.Clone(items)
	}
	for i := range catalog.Pages {
		p := catalog.Pages[i]
		s.pages[p.Handle] = &p
		s.pageOrder = append(s.pageOrder, &p)
	}
	return s
}

// Load reads a JSON catalog from path and indexes it.
func Load(path string, opts ...Option) (*Source, error) {
	catalog, err := storefront.LoadCatalog(path)
	if err != nil {
		return nil, err
	}
	return New(catalog, opts...), nil
}

func (s *Source) Collection(_ context.Context, handle string) (*storefront.RawCollection, error) {
	c, ok := s.collections[handle]
	if !ok {
		return nil, storefront.NotFound("collection", handle)
	}
	out := *c
	return &out, nil
}

// Collections lists collections ordered by title.
func (s *Source) Collections(context.Context) ([]*storefront.RawCollection, error) {
	out := make([]*storefront.RawCollection, 0, len(s.sorted))
	for _, c := range s.sorted {
		cp := *c
		out = append(out, &cp)
	}
	return out, nil
}

func (s *Source) CollectionProducts(_ context.Context, q storefront.CollectionProductsQuery) ([]*storefront.RawProduct, error) {
	if _, ok := s.collections[q.Collection]; !ok {
		return nil, storefront.NotFound("collection", q.Collection)
	}
	members := s.memberships[q.Collection]
	out := make([]*storefront.RawProduct, 0, len(members))
	for _, handle := range members {
		if p, ok := s.products[handle]; ok {
			out = append(out, copyProduct(p))
		}
	}
	storefront.SortProducts(out, q.SortKey, q.Reverse)
	return out, nil
}

func (s *Source) Product(_ context.Context, handle string) (*storefront.RawProduct, error) {
	p, ok := s.products[handle]
	if !ok {
		return nil, storefront.NotFound("product", handle)
	}
	return copyProduct(p), nil
}

func (s *Source) Products(_ context.Context, q storefront.ProductsQuery) ([]*storefront.RawProduct, error) {
	out := storefront.FilterProducts(s.ordered, q.Query)
	for i, p := range out {
		out[i] = copyProduct(p)
	}
	storefront.SortProducts(out, q.SortKey, q.Reverse)
	return out, nil
}

// ProductRecommendations returns up to ten products sharing a tag with the
// product identified by productID. An unknown product has no recommendations.
func (s *Source) ProductRecommendations(_ context.Context, productID string) ([]*storefront.RawProduct, error) {
	self, ok := s.byID[productID]
	if !ok {
		return []*storefront.RawProduct{}, nil
	}

	out := make([]*storefront.RawProduct, 0, maxRecommendations)
	for _, p := range s.ordered {
		if len(out) == maxRecommendations {
			break
		}
		if p.ID == self.ID || !sharesTag(p.Tags, self.Tags) {
			continue
		}
		out = append(out, copyProduct(p))
	}
	return out, nil
}

func (s *Source) Menu(_ context.Context, handle string) ([]storefront.RawMenuItem, error) {
	items, ok := s.menus[handle]
	if !ok {
		return nil, storefront.NotFound("menu", handle)
	}
	return slices.Clone(items), nil
}

func (s *Source) Page(_ context.Context, handle string) (*storefront.Page, error) {
	p, ok := s.pages[handle]
	if !ok {
		return nil, storefront.NotFound("page", handle)
	}
	out := *p
	return &out, nil
}

func (s *Source) Pages(context.Context) ([]*storefront.Page, error) {
	out := make([]*storefront.Page, 0, len(s.pageOrder))
	for _, p := range s.pageOrder {
		cp := *p
		out = append(out, &cp)
	}
	return out, nil
}

func copyProduct(p *storefront.RawProduct) *storefront.RawProduct {
	out := *p
	out.Tags = slices.Clone(p.Tags)
	return &out
}

func sharesTag(a, b []string) bool {
	for _, tag := range a {
		if slices.Contains(b, tag) {
			return true
		}
	}
	return false
}
