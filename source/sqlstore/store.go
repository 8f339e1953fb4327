package sqlstore

import (
	"context"
	"strings"
	"time"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/storefront"
)

var (
	_ storefront.Source     = (*Store)(nil)
	_ storefront.CartSource = (*Store)(nil)
)

const (
	maxRecommendations    = 10
	defaultCurrency       = "USD"
	defaultCheckoutDomain = "https://checkout.example.com"
)

// Store implements storefront.Source and storefront.CartSource on a bun.DB.
type Store struct {
	db *bun.DB

	collections repository.Repository[*collectionRow]
	products    repository.Repository[*productRow]
	memberships repository.Repository[*membershipRow]
	variants    repository.Repository[*variantRow]
	menuItems   repository.Repository[*menuItemRow]
	pages       repository.Repository[*pageRow]
	carts       repository.Repository[*cartRow]
	cartLines   repository.Repository[*cartLineRow]

	currency       string
	checkoutDomain string
	now            func() time.Time
}

type Option func(*Store)

// WithCurrency sets the currency reported by empty carts.
func WithCurrency(code string) Option {
	return func(s *Store) {
		if code != "" {
			s.currency = code
		}
	}
}

// WithCheckoutDomain sets the host used to build cart checkout URLs.
func WithCheckoutDomain(domain string) Option {
	return func(s *Store) {
		if domain != "" {
			s.checkoutDomain = domain
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		if now != nil {
			s.now = now
		}
	}
}

// New builds the repositories over db. Call CreateSchema before first use on
// an empty database.
func New(db *bun.DB, opts ...Option) *Store {
	s := &Store{
		db: db,
		collections: repository.NewRepository(db, handlers(
			func() *collectionRow { return &collectionRow{} },
			func(r *collectionRow) *uuid.UUID { return &r.ID },
			"handle",
		)),
		products: repository.NewRepository(db, handlers(
			func() *productRow { return &productRow{} },
			func(r *productRow) *uuid.UUID { return &r.ID },
			"handle",
		)),
		memberships: repository.NewRepository(db, handlers(
			func() *membershipRow { return &membershipRow{} },
			func(r *membershipRow) *uuid.UUID { return &r.ID },
			"product_handle",
		)),
		variants: repository.NewRepository(db, handlers(
			func() *variantRow { return &variantRow{} },
			func(r *variantRow) *uuid.UUID { return &r.ID },
			"variant_id",
		)),
		menuItems: repository.NewRepository(db, handlers(
			func() *menuItemRow { return &menuItemRow{} },
			func(r *menuItemRow) *uuid.UUID { return &r.ID },
			"menu_handle",
		)),
		pages: repository.NewRepository(db, handlers(
			func() *pageRow { return &pageRow{} },
			func(r *pageRow) *uuid.UUID { return &r.ID },
			"handle",
		)),
		carts: repository.NewRepository(db, handlers(
			func() *cartRow { return &cartRow{} },
			func(r *cartRow) *uuid.UUID { return &r.ID },
			"cart_id",
		)),
		cartLines: repository.NewRepository(db, handlers(
			func() *cartLineRow { return &cartLineRow{} },
			func(r *cartLineRow) *uuid.UUID { return &r.ID },
			"line_id",
		)),
		currency:       defaultCurrency,
		checkoutDomain: defaultCheckoutDomain,
		now:            time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateSchema creates the storefront tables when they do not exist.
func (s *Store) CreateSchema(ctx context.Context) error {
	for _, model := range models() {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "sqlstore: create schema")
		}
	}
	return nil
}

// Close closes the database pool.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) Collection(ctx context.Context, handle string) (*storefront.RawCollection, error) {
	row, err := s.collections.GetByIdentifier(ctx, handle)
	if err != nil {
		return nil, lookupError(err, "collection", handle)
	}
	return row.raw(), nil
}

func (s *Store) Collections(ctx context.Context) ([]*storefront.RawCollection, error) {
	rows, _, err := s.collections.List(ctx, orderBy("c.title ASC"))
	if err != nil {
		return nil, queryError(err, "list collections")
	}
	out := make([]*storefront.RawCollection, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.raw())
	}
	return out, nil
}

// CollectionProducts keeps the stored membership order unless a sort key is
// given.
func (s *Store) CollectionProducts(ctx context.Context, q storefront.CollectionProductsQuery) ([]*storefront.RawProduct, error) {
	if _, err := s.Collection(ctx, q.Collection); err != nil {
		return nil, err
	}

	rows, _, err := s.products.List(ctx, func(sq *bun.SelectQuery) *bun.SelectQuery {
		return sq.
			Join("JOIN storefront_collection_products AS cp ON cp.product_handle = p.handle").
			Where("cp.collection_handle = ?", q.Collection).
			OrderExpr("cp.position ASC")
	})
	if err != nil {
		return nil, queryError(err, "list collection products")
	}
	out := rawProducts(rows)
	storefront.SortProducts(out, q.SortKey, q.Reverse)
	return out, nil
}

func (s *Store) Product(ctx context.Context, handle string) (*storefront.RawProduct, error) {
	row, err := s.products.GetByIdentifier(ctx, handle)
	if err != nil {
		return nil, lookupError(err, "product", handle)
	}
	return row.raw(), nil
}

// Products matches every search term against the lowercased title,
// description and tags.
func (s *Store) Products(ctx context.Context, q storefront.ProductsQuery) ([]*storefront.RawProduct, error) {
	criteria := []repository.SelectCriteria{orderBy("p.position ASC")}
	for _, term := range strings.Fields(strings.ToLower(q.Query)) {
		criteria = append(criteria, where("p.search_text LIKE ?", "%"+term+"%"))
	}

	rows, _, err := s.products.List(ctx, criteria...)
	if err != nil {
		return nil, queryError(err, "list products")
	}
	out := rawProducts(rows)
	storefront.SortProducts(out, q.SortKey, q.Reverse)
	return out, nil
}

// ProductRecommendations returns up to ten products sharing a tag with the
// product identified by productID. An unknown product has no recommendations.
func (s *Store) ProductRecommendations(ctx context.Context, productID string) ([]*storefront.RawProduct, error) {
	self, err := s.products.Get(ctx, where("p.external_id = ?", productID))
	if err != nil {
		if isNoRows(err) {
			return []*storefront.RawProduct{}, nil
		}
		return nil, queryError(err, "get product "+productID)
	}
	if len(self.Tags) == 0 {
		return []*storefront.RawProduct{}, nil
	}

	rows, _, err := s.products.List(ctx,
		where("p.external_id <> ?", productID),
		func(sq *bun.SelectQuery) *bun.SelectQuery {
			return sq.WhereGroup(" AND ", func(g *bun.SelectQuery) *bun.SelectQuery {
				for _, tag := range self.Tags {
					g = g.WhereOr("p.tag_list LIKE ?", "%,"+tag+",%")
				}
				return g
			})
		},
		orderBy("p.position ASC"),
		limit(maxRecommendations),
	)
	if err != nil {
		return nil, queryError(err, "list recommendations")
	}
	return rawProducts(rows), nil
}

// Menu reports a menu without items as not found.
func (s *Store) Menu(ctx context.Context, handle string) ([]storefront.RawMenuItem, error) {
	rows, _, err := s.menuItems.List(ctx, where("mi.menu_handle = ?", handle), orderBy("mi.position ASC"))
	if err != nil {
		return nil, queryError(err, "list menu "+handle)
	}
	if len(rows) == 0 {
		return nil, storefront.NotFound("menu", handle)
	}
	out := make([]storefront.RawMenuItem, 0, len(rows))
	for _, row := range rows {
		out = append(out, storefront.RawMenuItem{Title: row.Title, URL: row.URL})
	}
	return out, nil
}

func (s *Store) Page(ctx context.Context, handle string) (*storefront.Page, error) {
	row, err := s.pages.GetByIdentifier(ctx, handle)
	if err != nil {
		return nil, lookupError(err, "page", handle)
	}
	return row.page(), nil
}

func (s *Store) Pages(ctx context.Context) ([]*storefront.Page, error) {
	rows, _, err := s.pages.List(ctx, orderBy("pg.position ASC"))
	if err != nil {
		return nil, queryError(err, "list pages")
	}
	out := make([]*storefront.Page, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.page())
	}
	return out, nil
}

func rawProducts(rows []*productRow) []*storefront.RawProduct {
	out := make([]*storefront.RawProduct, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.raw())
	}
	return out
}

func where(cond string, args ...any) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where(cond, args...)
	}
}

func orderBy(expr string) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.OrderExpr(expr)
	}
}

func limit(n int) repository.SelectCriteria {
	return func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Limit(n)
	}
}

func isNoRows(err error) bool {
	return repository.IsRecordNotFound(err) || goerrors.IsCategory(err, goerrors.CategoryNotFound)
}

func lookupError(err error, kind, key string) error {
	if isNoRows(err) {
		return storefront.NotFound(kind, key)
	}
	return queryError(err, "get "+kind+" "+key)
}

func queryError(err error, op string) error {
	return goerrors.Wrap(err, goerrors.CategoryExternal, "sqlstore: "+op)
}
