// Package httpapi exposes the storefront reads, carts and the revalidation
// webhook over HTTP.
package httpapi

import (
	"context"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/goliatone/go-storefront/storefront"
)

// Storefront is the read and cart surface served by the router.
// *storefront.Service implements it.
type Storefront interface {
	GetCollection(ctx context.Context, handle string) (*storefront.Collection, error)
	GetCollections(ctx context.Context) ([]storefront.Collection, error)
	GetCollectionProducts(ctx context.Context, q storefront.CollectionProductsQuery) ([]storefront.Product, error)
	GetProduct(ctx context.Context, handle string) (*storefront.Product, error)
	GetProducts(ctx context.Context, q storefront.ProductsQuery) ([]storefront.Product, error)
	GetProductRecommendations(ctx context.Context, productID string) ([]storefront.Product, error)
	GetMenu(ctx context.Context, handle string) ([]storefront.MenuItem, error)
	GetPage(ctx context.Context, handle string) (*storefront.Page, error)
	GetPages(ctx context.Context) ([]storefront.Page, error)

	CreateCart(ctx context.Context) (*storefront.Cart, error)
	GetCart(ctx context.Context, cartID string) (*storefront.Cart, error)
	AddToCart(ctx context.Context, cartID string, lines []storefront.CartLineInput) (*storefront.Cart, error)
	RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*storefront.Cart, error)
	UpdateCart(ctx context.Context, cartID string, lines []storefront.CartLineUpdate) (*storefront.Cart, error)
}

var _ Storefront = (*storefront.Service)(nil)

type api struct {
	store  Storefront
	logger *slog.Logger
}

type Option func(*api)

func WithLogger(logger *slog.Logger) Option {
	return func(a *api) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewRouter mounts the JSON API under /api. revalidation serves
// POST /api/revalidate and may be nil.
func NewRouter(store Storefront, revalidation http.Handler, opts ...Option) chi.Router {
	a := &api{store: store, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api", func(r chi.Router) {
		if revalidation != nil {
			r.Method(http.MethodPost, "/revalidate", revalidation)
		}

		r.Get("/collections", a.collections)
		r.Get("/collections/{handle}", a.collection)
		r.Get("/collections/{handle}/products", a.collectionProducts)

		r.Get("/products", a.products)
		r.Get("/products/{handle}", a.product)
		r.Get("/products/{id}/recommendations", a.recommendations)

		r.Get("/menus/{handle}", a.menu)
		r.Get("/pages", a.pages)
		r.Get("/pages/{handle}", a.page)

		r.Post("/cart", a.createCart)
		r.Get("/cart/{id}", a.cart)
		r.Post("/cart/{id}/lines", a.addToCart)
		r.Patch("/cart/{id}/lines", a.updateCart)
		r.Delete("/cart/{id}/lines", a.removeFromCart)
	})

	return r
}

func (a *api) collections(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.GetCollections(r.Context())
	a.respond(w, r, out, err)
}

func (a *api) collection(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.GetCollection(r.Context(), chi.URLParam(r, "handle"))
	a.respond(w, r, out, err)
}

func (a *api) collectionProducts(w http.ResponseWriter, r *http.Request) {
	sortKey, reverse := sortParams(r)
	out, err := a.store.GetCollectionProducts(r.Context(), storefront.CollectionProductsQuery{
		Collection: chi.URLParam(r, "handle"),
		SortKey:    sortKey,
		Reverse:    reverse,
	})
	a.respond(w, r, out, err)
}

func (a *api) products(w http.ResponseWriter, r *http.Request) {
	sortKey, reverse := sortParams(r)
	out, err := a.store.GetProducts(r.Context(), storefront.ProductsQuery{
		Query:   r.URL.Query().Get("q"),
		SortKey: sortKey,
		Reverse: reverse,
	})
	a.respond(w, r, out, err)
}

func (a *api) product(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.GetProduct(r.Context(), chi.URLParam(r, "handle"))
	a.respond(w, r, out, err)
}

func (a *api) recommendations(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.GetProductRecommendations(r.Context(), pathID(r))
	a.respond(w, r, out, err)
}

func (a *api) menu(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.GetMenu(r.Context(), chi.URLParam(r, "handle"))
	a.respond(w, r, out, err)
}

func (a *api) pages(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.GetPages(r.Context())
	a.respond(w, r, out, err)
}

func (a *api) page(w http.ResponseWriter, r *http.Request) {
	out, err := a.store.GetPage(r.Context(), chi.URLParam(r, "handle"))
	a.respond(w, r, out, err)
}

// sortParams reads ?sort= and ?reverse=. An unparsable reverse is false.
func sortParams(r *http.Request) (string, bool) {
	q := r.URL.Query()
	reverse, _ := strconv.ParseBool(q.Get("reverse"))
	return q.Get("sort"), reverse
}

// pathID returns the {id} parameter unescaped. Shopify ids contain slashes
// and arrive percent-encoded.
func pathID(r *http.Request) string {
	raw := chi.URLParam(r, "id")
	if id, err := url.PathUnescape(raw); err == nil {
		return id
	}
	return raw
}
