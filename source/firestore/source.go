package firestore

import (
	"cmp"
	"context"
	"errors"
	"slices"

	"cloud.google.com/go/firestore"
	goerrors "github.com/goliatone/go-errors"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/goliatone/go-storefront/storefront"
)

var _ storefront.Source = (*Source)(nil)

// array-contains-any accepts at most ten values.
const (
	maxTagFilter       = 10
	maxRecommendations = 10
)

// Source implements storefront.Source over a Firestore client. It does not
// hold carts.
type Source struct {
	client *firestore.Client
}

func NewSource(client *firestore.Client) *Source {
	return &Source{client: client}
}

// Close releases the underlying client.
func (s *Source) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}

func (s *Source) col(name string) *firestore.CollectionRef {
	return s.client.Collection(name)
}

func (s *Source) Collection(ctx context.Context, handle string) (*storefront.RawCollection, error) {
	var doc collectionDoc
	if err := s.get(ctx, CollectionsCollection, handle, &doc); err != nil {
		return nil, err
	}
	if doc.Handle == "" {
		doc.Handle = handle
	}
	return doc.raw(), nil
}

func (s *Source) Collections(ctx context.Context) ([]*storefront.RawCollection, error) {
	q := s.col(CollectionsCollection).OrderBy("title", firestore.Asc)
	return collect(ctx, q, func(snap *firestore.DocumentSnapshot) (*storefront.RawCollection, error) {
		var doc collectionDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		return doc.raw(), nil
	})
}

// CollectionProducts keeps the stored collection order unless a sort key is
// given.
func (s *Source) CollectionProducts(ctx context.Context, q storefront.CollectionProductsQuery) ([]*storefront.RawProduct, error) {
	if _, err := s.Collection(ctx, q.Collection); err != nil {
		return nil, err
	}

	docs, err := collect(ctx, s.col(ProductsCollection).Where("collections", "array-contains", q.Collection), decodeProduct)
	if err != nil {
		return nil, err
	}
	slices.SortStableFunc(docs, func(a, b productDoc) int {
		return cmp.Compare(a.Positions[q.Collection], b.Positions[q.Collection])
	})

	out := rawProducts(docs)
	storefront.SortProducts(out, q.SortKey, q.Reverse)
	return out, nil
}

func (s *Source) Product(ctx context.Context, handle string) (*storefront.RawProduct, error) {
	var doc productDoc
	if err := s.get(ctx, ProductsCollection, handle, &doc); err != nil {
		return nil, err
	}
	return doc.raw(), nil
}

func (s *Source) Products(ctx context.Context, q storefront.ProductsQuery) ([]*storefront.RawProduct, error) {
	docs, err := collect(ctx, s.col(ProductsCollection).Query, decodeProduct)
	if err != nil {
		return nil, err
	}
	out := storefront.FilterProducts(rawProducts(docs), q.Query)
	storefront.SortProducts(out, q.SortKey, q.Reverse)
	return out, nil
}

// ProductRecommendations returns products sharing one of the first ten tags
// of the product with productID. An unknown product has no recommendations.
func (s *Source) ProductRecommendations(ctx context.Context, productID string) ([]*storefront.RawProduct, error) {
	self, err := collect(ctx, s.col(ProductsCollection).Where("id", "==", productID).Limit(1), decodeProduct)
	if err != nil {
		return nil, err
	}
	if len(self) == 0 || len(self[0].Tags) == 0 {
		return []*storefront.RawProduct{}, nil
	}

	tags := self[0].Tags
	if len(tags) > maxTagFilter {
		tags = tags[:maxTagFilter]
	}
	q := s.col(ProductsCollection).
		Where("tags", "array-contains-any", tags).
		Limit(maxRecommendations + 1)
	docs, err := collect(ctx, q, decodeProduct)
	if err != nil {
		return nil, err
	}

	docs = slices.DeleteFunc(docs, func(d productDoc) bool { return d.ID == productID })
	if len(docs) > maxRecommendations {
		docs = docs[:maxRecommendations]
	}
	return rawProducts(docs), nil
}

func (s *Source) Menu(ctx context.Context, handle string) ([]storefront.RawMenuItem, error) {
	var doc menuDoc
	if err := s.get(ctx, MenusCollection, handle, &doc); err != nil {
		return nil, err
	}
	return doc.Items, nil
}

func (s *Source) Page(ctx context.Context, handle string) (*storefront.Page, error) {
	var doc pageDoc
	if err := s.get(ctx, PagesCollection, handle, &doc); err != nil {
		return nil, err
	}
	return doc.page(), nil
}

func (s *Source) Pages(ctx context.Context) ([]*storefront.Page, error) {
	return collect(ctx, s.col(PagesCollection).Query, func(snap *firestore.DocumentSnapshot) (*storefront.Page, error) {
		var doc pageDoc
		if err := snap.DataTo(&doc); err != nil {
			return nil, err
		}
		return doc.page(), nil
	})
}

// get decodes the document id of collection into dest. A missing document
// is reported as storefront not found.
func (s *Source) get(ctx context.Context, collection, id string, dest any) error {
	if id == "" {
		return storefront.NotFound(collection, id)
	}
	snap, err := s.col(collection).Doc(id).Get(ctx)
	if err != nil {
		if status.Code(err) == codes.NotFound {
			return storefront.NotFound(collection, id)
		}
		return goerrors.Wrap(err, goerrors.CategoryExternal, "firestore: get "+collection+"/"+id)
	}
	if err := snap.DataTo(dest); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "firestore: decode "+collection+"/"+id)
	}
	return nil
}

func collect[T any](ctx context.Context, q firestore.Query, decode func(*firestore.DocumentSnapshot) (T, error)) ([]T, error) {
	it := q.Documents(ctx)
	defer it.Stop()

	var out []T
	for {
		snap, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "firestore: query")
		}
		v, err := decode(snap)
		if err != nil {
			return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "firestore: decode "+snap.Ref.ID)
		}
		out = append(out, v)
	}
	return out, nil
}

func decodeProduct(snap *firestore.DocumentSnapshot) (productDoc, error) {
	var doc productDoc
	err := snap.DataTo(&doc)
	return doc, err
}

func rawProducts(docs []productDoc) []*storefront.RawProduct {
	out := make([]*storefront.RawProduct, 0, len(docs))
	for _, d := range docs {
		out = append(out, d.raw())
	}
	return out
}

// Seed writes catalog through the source's client.
func (s *Source) Seed(ctx context.Context, catalog *storefront.Catalog) error {
	return Seed(ctx, s.client, catalog)
}
