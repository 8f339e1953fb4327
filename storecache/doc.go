// Package storecache adds read-through caching to a storefront.Source.
//
// # Overview
//
// CachedSource wraps any storefront.Source and serves catalogue reads from a
// cache.CacheService. Every cached read is registered under one or more
// invalidation tags:
//
//   - collections: Collection, Collections, Menu
//   - products: Product, Products, ProductRecommendations
//   - collections and products: CollectionProducts
//   - cart: Cart (through Carts)
//
// Pages are not cached.
//
// # Invalidation
//
// InvalidateTag drops every key registered under a tag. It satisfies
// revalidate.Invalidator, so the Shopify webhook endpoint can flush the
// catalogue when upstream data changes:
//
//	cached := storecache.New(source, cacheService)
//	handler := revalidate.NewHandler(secret, cached)
//
// Callers can attach extra tags to a read with WithCacheTags:
//
//	ctx = storecache.WithCacheTags(ctx, "homepage")
//	products, err := cached.CollectionProducts(ctx, q)
//
// # Misses
//
// A read that fails with storefront.ErrNotFound is passed to the cache as
// cache.ErrNotFound, so backends with missing record storage remember it
// until the next invalidation of its tags. Callers always get an error that
// satisfies storefront.IsNotFound back.
//
// # Carts
//
// Carts returns a CartSource when the wrapped source has one. Cart reads are
// cached per cart id and every mutation drops the cached cart it touched.
package storecache
