// Package cache defines the read-through cache used in front of storefront
// sources, and the key serializer that names cached reads.
//
// CacheService is implemented by the sturdyc backend in internal/cacheinfra;
// NewCacheService builds it from a Config:
//
//	svc, err := cache.NewCacheService(cache.ConfigWith(5000, time.Minute))
//	serializer := cache.NewNamespacedKeySerializer("storefront:shopify")
//	key := serializer.SerializeKey("Product", "acme-chair")
//
//	product, err := cache.GetOrFetch(ctx, svc, key, func(ctx context.Context) (*storefront.RawProduct, error) {
//		return source.Product(ctx, "acme-chair")
//	})
//
// # Misses
//
// A fetch that returns ErrNotFound (or an error wrapping it) is remembered by
// the backend, so repeated lookups for a missing handle do not reach the
// source until the entry expires or is invalidated. GetOrFetch returns
// ErrNotFound for remembered misses as well.
//
// # Keys
//
// The default serializer renders the method name and each argument with
// reflection: scalars directly, slices element by element, maps with sorted
// keys, structs as exported name:value pairs, and functions by pointer. Values
// it cannot render fall back to JSON, then to their type name. Query structs
// such as storefront.ProductsQuery therefore produce stable keys, while
// closures only do so within one process.
//
// A namespace prefix keeps keys from different sources apart and lets
// DeleteByPrefix drop everything one source cached.
//
// Tag based invalidation lives one layer up, in the storecache package.
package cache
