// Package storefront is the data access layer of the storefront: it reads
// products, collections, carts, menus and pages from an upstream Source and
// reshapes them into the flat entities rendered by the site.
//
// # Reshaping
//
// Upstream entities (RawProduct, RawCollection, RawCart) arrive with their
// lists wrapped in edge/node connections. The reshapers are pure functions
// producing new values:
//
//   - ReshapeProduct flattens images and variants, synthesizes missing image
//     alt text and, unless told otherwise, drops products tagged hidden.
//   - ReshapeCollection derives the "/search/{handle}" path.
//   - ReshapeCart flattens the lines and guarantees a tax amount.
//   - ReshapeProducts and ReshapeCollections compact lists, skipping nil and
//     filtered entries while keeping input order.
//
// Collections whose handle begins with "hidden" are kept by
// ReshapeCollections. Dropping them is a listing convention applied by
// VisibleCollections, which Service.GetCollections uses.
//
// # Sources
//
// Source abstracts the upstream system. The source/ tree provides a Shopify
// Storefront GraphQL client, a Firestore reader, a SQL mirror built on
// go-repository-bun and an in-memory catalog. Any of them can be wrapped by
// storecache.CachedSource for tagged read-through caching.
//
// # Errors
//
// A lookup that finds nothing returns an error matching IsNotFound. Service
// turns those into nil results or empty slices. Every other upstream failure
// is returned wrapped as a go-errors external error.
package storefront
