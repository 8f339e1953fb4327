package storefront

import (
	"context"
	"log/slog"
	"strings"
	"time"
)

// Service reads storefront entities from a Source and reshapes them for
// rendering. Missing entities come back as nil or empty slices, never as
// errors, so pages render empty states instead of failing.
type Service struct {
	source      Source
	carts       CartSource
	reshaper    Reshaper
	storeDomain string
	logger      *slog.Logger
	now         func() time.Time
}

// Option configures a Service.
type Option func(*Service)

// WithCartSource enables the cart operations.
func WithCartSource(carts CartSource) Option {
	return func(s *Service) {
		s.carts = carts
	}
}

// WithHiddenProductTag overrides DefaultHiddenProductTag.
func WithHiddenProductTag(tag string) Option {
	return func(s *Service) {
		if tag != "" {
			s.reshaper.HiddenTag = tag
		}
	}
}

// WithStoreDomain sets the domain stripped from menu URLs.
func WithStoreDomain(domain string) Option {
	return func(s *Service) {
		s.storeDomain = domain
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService builds a Service over source. When source also implements
// CartSource it is used for carts unless WithCartSource says otherwise.
func NewService(source Source, opts ...Option) *Service {
	s := &Service{
		source:   source,
		reshaper: DefaultReshaper,
		logger:   slog.Default(),
		now:      time.Now,
	}
	if carts, ok := source.(CartSource); ok {
		s.carts = carts
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCollection returns the collection with handle, or nil when it does not exist.
func (s *Service) GetCollection(ctx context.Context, handle string) (*Collection, error) {
	raw, err := s.source.Collection(ctx, handle)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, UpstreamError(err, "get collection")
	}
	return ReshapeCollection(raw), nil
}

// GetCollectionProducts lists the visible products of a collection. An
// unknown collection yields an empty list.
func (s *Service) GetCollectionProducts(ctx context.Context, q CollectionProductsQuery) ([]Product, error) {
	raws, err := s.source.CollectionProducts(ctx, q)
	if err != nil {
		if IsNotFound(err) {
			s.logger.InfoContext(ctx, "no collection found", "collection", q.Collection)
			return []Product{}, nil
		}
		return nil, UpstreamError(err, "get collection products")
	}
	return s.reshaper.Products(raws), nil
}

// GetCollections lists the collections shown to end users: a synthetic "All"
// entry first, then every collection whose handle is not hidden.
func (s *Service) GetCollections(ctx context.Context) ([]Collection, error) {
	raws, err := s.source.Collections(ctx)
	if err != nil && !IsNotFound(err) {
		return nil, UpstreamError(err, "get collections")
	}

	all := Collection{
		Handle:      "",
		Title:       "All",
		Description: "All products",
		SEO: SEO{
			Title:       "All",
			Description: "All products",
		},
		Path:      "/search",
		UpdatedAt: s.now().UTC(),
	}

	visible := VisibleCollections(ReshapeCollections(raws))
	out := make([]Collection, 0, len(visible)+1)
	out = append(out, all)
	return append(out, visible...), nil
}

// GetMenu returns the menu items of handle with storefront relative paths.
func (s *Service) GetMenu(ctx context.Context, handle string) ([]MenuItem, error) {
	items, err := s.source.Menu(ctx, handle)
	if err != nil {
		if IsNotFound(err) {
			return []MenuItem{}, nil
		}
		return nil, UpstreamError(err, "get menu")
	}

	out := make([]MenuItem, 0, len(items))
	for _, item := range items {
		out = append(out, MenuItem{
			Title: item.Title,
			Path:  s.menuPath(item.URL),
		})
	}
	return out, nil
}

// menuPath strips the store domain and maps upstream routes onto storefront
// routes. Each rewrite applies to the first occurrence only.
func (s *Service) menuPath(rawURL string) string {
	path := rawURL
	if s.storeDomain != "" {
		path = strings.Replace(path, s.storeDomain, "", 1)
	}
	path = strings.Replace(path, "/collections", "/search", 1)
	return strings.Replace(path, "/pages", "", 1)
}

// GetPage returns the page with handle, or nil when it does not exist.
func (s *Service) GetPage(ctx context.Context, handle string) (*Page, error) {
	page, err := s.source.Page(ctx, handle)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, UpstreamError(err, "get page")
	}
	return page, nil
}

func (s *Service) GetPages(ctx context.Context) ([]Page, error) {
	pages, err := s.source.Pages(ctx)
	if err != nil && !IsNotFound(err) {
		return nil, UpstreamError(err, "get pages")
	}
	out := make([]Page, 0, len(pages))
	for _, p := range pages {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, nil
}

// GetProduct returns the product with handle. Hidden products are returned
// too so direct links keep working.
func (s *Service) GetProduct(ctx context.Context, handle string) (*Product, error) {
	raw, err := s.source.Product(ctx, handle)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, UpstreamError(err, "get product")
	}
	return s.reshaper.Product(raw, false), nil
}

func (s *Service) GetProductRecommendations(ctx context.Context, productID string) ([]Product, error) {
	raws, err := s.source.ProductRecommendations(ctx, productID)
	if err != nil {
		if IsNotFound(err) {
			return []Product{}, nil
		}
		return nil, UpstreamError(err, "get product recommendations")
	}
	return s.reshaper.Products(raws), nil
}

func (s *Service) GetProducts(ctx context.Context, q ProductsQuery) ([]Product, error) {
	raws, err := s.source.Products(ctx, q)
	if err != nil {
		if IsNotFound(err) {
			return []Product{}, nil
		}
		return nil, UpstreamError(err, "get products")
	}
	return s.reshaper.Products(raws), nil
}
