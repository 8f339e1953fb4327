package shopify

import (
	"context"
	"strings"

	"github.com/goliatone/go-storefront/connection"
	"github.com/goliatone/go-storefront/storefront"
)

// Interface assertions.
var (
	_ storefront.Source     = (*Source)(nil)
	_ storefront.CartSource = (*Source)(nil)
)

// Source implements storefront.Source and storefront.CartSource over the
// Storefront API. Null entities in responses become not found errors.
type Source struct {
	client *Client
}

// NewSource wraps client.
func NewSource(client *Client) *Source {
	return &Source{client: client}
}

func (s *Source) Collection(ctx context.Context, handle string) (*storefront.RawCollection, error) {
	var data struct {
		Collection *storefront.RawCollection `json:"collection"`
	}
	if err := s.client.Do(ctx, getCollectionQuery, map[string]any{"handle": handle}, &data); err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return nil, storefront.NotFound("collection", handle)
	}
	return data.Collection, nil
}

func (s *Source) Collections(ctx context.Context) ([]*storefront.RawCollection, error) {
	var data struct {
		Collections connection.Connection[storefront.RawCollection] `json:"collections"`
	}
	if err := s.client.Do(ctx, getCollectionsQuery, nil, &data); err != nil {
		return nil, err
	}
	return connection.UnwrapRefs(data.Collections), nil
}

// CollectionProducts maps the CREATED_AT product sort key onto CREATED, the
// spelling collection product listings use.
func (s *Source) CollectionProducts(ctx context.Context, q storefront.CollectionProductsQuery) ([]*storefront.RawProduct, error) {
	vars := map[string]any{
		"handle":  q.Collection,
		"reverse": q.Reverse,
	}
	if sortKey := collectionSortKey(q.SortKey); sortKey != "" {
		vars["sortKey"] = sortKey
	}

	var data struct {
		Collection *struct {
			Products connection.Connection[storefront.RawProduct] `json:"products"`
		} `json:"collection"`
	}
	if err := s.client.Do(ctx, getCollectionProductsQuery, vars, &data); err != nil {
		return nil, err
	}
	if data.Collection == nil {
		return nil, storefront.NotFound("collection", q.Collection)
	}
	return connection.UnwrapRefs(data.Collection.Products), nil
}

func collectionSortKey(sortKey string) string {
	key := strings.ToUpper(sortKey)
	if key == storefront.SortCreatedAt {
		return storefront.SortCreated
	}
	return key
}

func (s *Source) Product(ctx context.Context, handle string) (*storefront.RawProduct, error) {
	var data struct {
		Product *storefront.RawProduct `json:"product"`
	}
	if err := s.client.Do(ctx, getProductQuery, map[string]any{"handle": handle}, &data); err != nil {
		return nil, err
	}
	if data.Product == nil {
		return nil, storefront.NotFound("product", handle)
	}
	return data.Product, nil
}

func (s *Source) Products(ctx context.Context, q storefront.ProductsQuery) ([]*storefront.RawProduct, error) {
	vars := map[string]any{"reverse": q.Reverse}
	if q.Query != "" {
		vars["query"] = q.Query
	}
	if q.SortKey != "" {
		vars["sortKey"] = strings.ToUpper(q.SortKey)
	}

	var data struct {
		Products connection.Connection[storefront.RawProduct] `json:"products"`
	}
	if err := s.client.Do(ctx, getProductsQuery, vars, &data); err != nil {
		return nil, err
	}
	return connection.UnwrapRefs(data.Products), nil
}

func (s *Source) ProductRecommendations(ctx context.Context, productID string) ([]*storefront.RawProduct, error) {
	var data struct {
		ProductRecommendations []*storefront.RawProduct `json:"productRecommendations"`
	}
	if err := s.client.Do(ctx, getProductRecommendationsQuery, map[string]any{"productId": productID}, &data); err != nil {
		return nil, err
	}
	return data.ProductRecommendations, nil
}

func (s *Source) Menu(ctx context.Context, handle string) ([]storefront.RawMenuItem, error) {
	var data struct {
		Menu *struct {
			Items []storefront.RawMenuItem `json:"items"`
		} `json:"menu"`
	}
	if err := s.client.Do(ctx, getMenuQuery, map[string]any{"handle": handle}, &data); err != nil {
		return nil, err
	}
	if data.Menu == nil {
		return nil, storefront.NotFound("menu", handle)
	}
	return data.Menu.Items, nil
}

func (s *Source) Page(ctx context.Context, handle string) (*storefront.Page, error) {
	var data struct {
		PageByHandle *storefront.Page `json:"pageByHandle"`
	}
	if err := s.client.Do(ctx, getPageQuery, map[string]any{"handle": handle}, &data); err != nil {
		return nil, err
	}
	if data.PageByHandle == nil {
		return nil, storefront.NotFound("page", handle)
	}
	return data.PageByHandle, nil
}

func (s *Source) Pages(ctx context.Context) ([]*storefront.Page, error) {
	var data struct {
		Pages connection.Connection[storefront.Page] `json:"pages"`
	}
	if err := s.client.Do(ctx, getPagesQuery, nil, &data); err != nil {
		return nil, err
	}
	return connection.UnwrapRefs(data.Pages), nil
}
