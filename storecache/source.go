package storecache

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"

	"github.com/puzpuzpuz/xsync/v3"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/storefront"
)

// Interface assertion to ensure CachedSource implements storefront.Source.
var _ storefront.Source = (*CachedSource)(nil)

// CachedSource decorates a storefront.Source with tagged read-through caching.
type CachedSource struct {
	base          storefront.Source
	cache         cache.CacheService
	keySerializer cache.KeySerializer
	logger        *slog.Logger
	// tagIndex maps a tag to the set of keys registered under it.
	tagIndex *xsync.MapOf[string, *xsync.MapOf[string, struct{}]]
}

// Option configures a CachedSource.
type Option func(*CachedSource)

// WithKeySerializer replaces the default serializer, which namespaces keys
// by the wrapped source type.
func WithKeySerializer(serializer cache.KeySerializer) Option {
	return func(c *CachedSource) {
		if serializer != nil {
			c.keySerializer = serializer
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(c *CachedSource) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New wraps base with cacheService.
func New(base storefront.Source, cacheService cache.CacheService, opts ...Option) *CachedSource {
	c := &CachedSource{
		base:          base,
		cache:         cacheService,
		keySerializer: cache.NewNamespacedKeySerializer(namespaceFor(base)),
		logger:        slog.Default(),
		tagIndex:      xsync.NewMapOf[string, *xsync.MapOf[string, struct{}]](),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func namespaceFor(base any) string {
	if base == nil {
		return "storefront"
	}
	if ns := toSnake(reflect.TypeOf(base).String()); ns != "" {
		return ns
	}
	return "storefront"
}

func (c *CachedSource) Collection(ctx context.Context, handle string) (*storefront.RawCollection, error) {
	return cachedRead(ctx, c, "collection", handle, []string{storefront.TagCollections},
		func(ctx context.Context) (*storefront.RawCollection, error) {
			return c.base.Collection(ctx, handle)
		}, "Collection", handle)
}

func (c *CachedSource) Collections(ctx context.Context) ([]*storefront.RawCollection, error) {
	return cachedRead(ctx, c, "collections", "", []string{storefront.TagCollections},
		c.base.Collections, "Collections")
}

func (c *CachedSource) CollectionProducts(ctx context.Context, q storefront.CollectionProductsQuery) ([]*storefront.RawProduct, error) {
	return cachedRead(ctx, c, "collection", q.Collection, []string{storefront.TagCollections, storefront.TagProducts},
		func(ctx context.Context) ([]*storefront.RawProduct, error) {
			return c.base.CollectionProducts(ctx, q)
		}, "CollectionProducts", q)
}

func (c *CachedSource) Product(ctx context.Context, handle string) (*storefront.RawProduct, error) {
	return cachedRead(ctx, c, "product", handle, []string{storefront.TagProducts},
		func(ctx context.Context) (*storefront.RawProduct, error) {
			return c.base.Product(ctx, handle)
		}, "Product", handle)
}

func (c *CachedSource) Products(ctx context.Context, q storefront.ProductsQuery) ([]*storefront.RawProduct, error) {
	return cachedRead(ctx, c, "products", q.Query, []string{storefront.TagProducts},
		func(ctx context.Context) ([]*storefront.RawProduct, error) {
			return c.base.Products(ctx, q)
		}, "Products", q)
}

func (c *CachedSource) ProductRecommendations(ctx context.Context, productID string) ([]*storefront.RawProduct, error) {
	return cachedRead(ctx, c, "product", productID, []string{storefront.TagProducts},
		func(ctx context.Context) ([]*storefront.RawProduct, error) {
			return c.base.ProductRecommendations(ctx, productID)
		}, "ProductRecommendations", productID)
}

func (c *CachedSource) Menu(ctx context.Context, handle string) ([]storefront.RawMenuItem, error) {
	return cachedRead(ctx, c, "menu", handle, []string{storefront.TagCollections},
		func(ctx context.Context) ([]storefront.RawMenuItem, error) {
			return c.base.Menu(ctx, handle)
		}, "Menu", handle)
}

// Page passes through to the wrapped source.
func (c *CachedSource) Page(ctx context.Context, handle string) (*storefront.Page, error) {
	return c.base.Page(ctx, handle)
}

// Pages passes through to the wrapped source.
func (c *CachedSource) Pages(ctx context.Context) ([]*storefront.Page, error) {
	return c.base.Pages(ctx)
}

// InvalidateTag drops every cached read registered under tag. Unknown tags
// are a no-op. Delete failures are logged, never returned.
func (c *CachedSource) InvalidateTag(ctx context.Context, tag string) {
	keys, ok := c.tagIndex.LoadAndDelete(tag)
	if !ok {
		return
	}

	var toDelete []string
	keys.Range(func(key string, _ struct{}) bool {
		toDelete = append(toDelete, key)
		return true
	})
	if len(toDelete) == 0 {
		return
	}

	if err := c.cache.InvalidateKeys(ctx, toDelete); err != nil {
		c.logger.WarnContext(ctx, "cache invalidation failed", "tag", tag, "keys", len(toDelete), "error", err)
		return
	}
	c.logger.DebugContext(ctx, "cache invalidated", "tag", tag, "keys", len(toDelete))
}

// TaggedKeys returns the number of keys registered under tag.
func (c *CachedSource) TaggedKeys(tag string) int {
	keys, ok := c.tagIndex.Load(tag)
	if !ok {
		return 0
	}
	return keys.Size()
}

// trackKey registers key under tags plus any tags carried by ctx.
func (c *CachedSource) trackKey(ctx context.Context, key string, tags []string) {
	all := dedupeStrings(append(cacheTagsFromContext(ctx), tags...))
	for _, tag := range all {
		set, _ := c.tagIndex.LoadOrCompute(tag, func() *xsync.MapOf[string, struct{}] {
			return xsync.NewMapOf[string, struct{}]()
		})
		set.Store(key, struct{}{})
	}
}

// cachedRead serves a read through the cache. kind and id name the entity in
// not found errors; method and args build the cache key.
func cachedRead[T any](
	ctx context.Context,
	c *CachedSource,
	kind, id string,
	tags []string,
	fetch cache.FetchFn[T],
	method string,
	args ...any,
) (T, error) {
	key := c.keySerializer.SerializeKey(method, args...)
	c.trackKey(ctx, key, tags)

	result, err := cache.GetOrFetch(ctx, c.cache, key, func(ctx context.Context) (T, error) {
		v, err := fetch(ctx)
		if storefront.IsNotFound(err) {
			return v, fmt.Errorf("%w: %w", cache.ErrNotFound, err)
		}
		return v, err
	})

	// An invalidation racing the fetch may have dropped the registration.
	c.trackKey(ctx, key, tags)

	if errors.Is(err, cache.ErrNotFound) {
		var zero T
		return zero, storefront.NotFound(kind, id)
	}
	return result, err
}
