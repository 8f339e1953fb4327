package shopify

import (
	"context"
	"net/http"
	"testing"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storefront/pkg/testsupport"
	"github.com/goliatone/go-storefront/storefront"
)

func newTestSource(t *testing.T) (*Source, *testsupport.GraphQLStub) {
	t.Helper()
	stub := testsupport.NewGraphQLStub(t)
	return NewSource(NewClient(stub.URL, "storefront-token")), stub
}

func TestClient_SendsAccessToken(t *testing.T) {
	src, stub := newTestSource(t)
	stub.RespondFixture(t, "getProduct", "product.json")

	_, err := src.Product(context.Background(), "acme-chair")
	require.NoError(t, err)

	calls := stub.Calls()
	require.Len(t, calls, 1)
	assert.Equal(t, "getProduct", calls[0].Operation)
	assert.Equal(t, "storefront-token", calls[0].Header.Get(AccessTokenHeader))
	assert.Equal(t, "application/json", calls[0].Header.Get("Content-Type"))
	assert.Equal(t, "acme-chair", calls[0].Variables["handle"])
}

func TestSource_Product(t *testing.T) {
	src, stub := newTestSource(t)
	stub.RespondFixture(t, "getProduct", "product.json")

	raw, err := src.Product(context.Background(), "acme-chair")
	require.NoError(t, err)
	require.NotNil(t, raw)

	assert.Equal(t, "gid://shopify/Product/1", raw.ID)
	assert.Equal(t, "100.00", raw.PriceRange.MinVariantPrice.Amount)
	assert.Len(t, raw.Variants.Edges, 3)
	assert.Contains(t, raw.Tags, "nextjs-frontend-hidden")

	product := storefront.ReshapeProduct(raw, false)
	require.NotNil(t, product)
	assert.Len(t, product.Variants, 2)
	require.Len(t, product.Images, 2)
	assert.Equal(t, "Front", product.Images[0].AltText)
	assert.Equal(t, "Acme Chair - chair-side.v2", product.Images[1].AltText)

	assert.Nil(t, storefront.ReshapeProduct(raw, true))
}

func TestSource_NullEntitiesAreNotFound(t *testing.T) {
	ctx := context.Background()
	src, stub := newTestSource(t)
	stub.RespondFixture(t, "getProduct", "product_missing.json")
	stub.RespondFixture(t, "getCollection", "collection_missing.json")
	stub.RespondFixture(t, "getCollectionProducts", "collection_missing.json")
	stub.RespondFixture(t, "getCart", "cart_missing.json")
	stub.Respond("getMenu", []byte(`{"data":{"menu":null}}`))
	stub.Respond("getPage", []byte(`{"data":{"pageByHandle":null}}`))

	_, err := src.Product(ctx, "missing")
	assert.True(t, storefront.IsNotFound(err), "product: %v", err)

	_, err = src.Collection(ctx, "missing")
	assert.True(t, storefront.IsNotFound(err), "collection: %v", err)

	_, err = src.CollectionProducts(ctx, storefront.CollectionProductsQuery{Collection: "missing"})
	assert.True(t, storefront.IsNotFound(err), "collection products: %v", err)

	_, err = src.Menu(ctx, "missing")
	assert.True(t, storefront.IsNotFound(err), "menu: %v", err)

	_, err = src.Page(ctx, "missing")
	assert.True(t, storefront.IsNotFound(err), "page: %v", err)

	_, err = src.Cart(ctx, "gid://shopify/Cart/gone")
	assert.True(t, storefront.IsNotFound(err), "cart: %v", err)
}

func TestSource_Collections(t *testing.T) {
	src, stub := newTestSource(t)
	stub.RespondFixture(t, "getCollections", "collections.json")

	raws, err := src.Collections(context.Background())
	require.NoError(t, err)
	require.Len(t, raws, 3)
	assert.Equal(t, "hidden-homepage-carousel", raws[0].Handle)
	assert.Equal(t, "winter", raws[2].Handle)
}

func TestSource_CollectionProducts_SortKey(t *testing.T) {
	tests := []struct {
		name    string
		sortKey string
		want    any
	}{
		{name: "created at becomes created", sortKey: "CREATED_AT", want: "CREATED"},
		{name: "lowercase is normalized", sortKey: "price", want: "PRICE"},
		{name: "empty is omitted", sortKey: "", want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, stub := newTestSource(t)
			stub.RespondFixture(t, "getCollectionProducts", "collection_products.json")

			raws, err := src.CollectionProducts(context.Background(), storefront.CollectionProductsQuery{
				Collection: "summer",
				SortKey:    tt.sortKey,
				Reverse:    true,
			})
			require.NoError(t, err)
			assert.Len(t, raws, 2)

			calls := stub.Calls()
			require.Len(t, calls, 1)
			assert.Equal(t, "summer", calls[0].Variables["handle"])
			assert.Equal(t, true, calls[0].Variables["reverse"])
			assert.Equal(t, tt.want, calls[0].Variables["sortKey"])
		})
	}
}

func TestSource_Products_Variables(t *testing.T) {
	src, stub := newTestSource(t)
	stub.RespondFixture(t, "getProducts", "products.json")

	raws, err := src.Products(context.Background(), storefront.ProductsQuery{Query: "lamp", SortKey: "title"})
	require.NoError(t, err)
	assert.Len(t, raws, 2)

	_, err = src.Products(context.Background(), storefront.ProductsQuery{})
	require.NoError(t, err)

	calls := stub.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "lamp", calls[0].Variables["query"])
	assert.Equal(t, "TITLE", calls[0].Variables["sortKey"])
	assert.NotContains(t, calls[1].Variables, "query")
	assert.NotContains(t, calls[1].Variables, "sortKey")
	assert.Equal(t, false, calls[1].Variables["reverse"])
}

func TestSource_ProductRecommendations(t *testing.T) {
	src, stub := newTestSource(t)
	stub.RespondFixture(t, "getProductRecommendations", "recommendations.json")

	raws, err := src.ProductRecommendations(context.Background(), "gid://shopify/Product/1")
	require.NoError(t, err)
	require.Len(t, raws, 1)
	assert.Equal(t, "rug", raws[0].Handle)
	assert.Equal(t, "gid://shopify/Product/1", stub.Calls()[0].Variables["productId"])
}

func TestSource_PagesAndMenu(t *testing.T) {
	ctx := context.Background()
	src, stub := newTestSource(t)
	stub.RespondFixture(t, "getPage", "page.json")
	stub.RespondFixture(t, "getPages", "pages.json")
	stub.RespondFixture(t, "getMenu", "menu.json")

	page, err := src.Page(ctx, "about")
	require.NoError(t, err)
	assert.Equal(t, "About", page.Title)
	require.NotNil(t, page.SEO)
	assert.Equal(t, "About us", page.SEO.Description)

	pages, err := src.Pages(ctx)
	require.NoError(t, err)
	assert.Len(t, pages, 2)

	items, err := src.Menu(ctx, "main-menu")
	require.NoError(t, err)
	require.Len(t, items, 3)
	assert.Equal(t, "https://shop.example.com/collections/shirts", items[1].URL)
}

func TestSource_ThroughService(t *testing.T) {
	ctx := context.Background()
	src, stub := newTestSource(t)
	stub.RespondFixture(t, "getCollections", "collections.json")
	stub.RespondFixture(t, "getMenu", "menu.json")
	stub.RespondFixture(t, "getProducts", "products.json")

	svc := storefront.NewService(src, storefront.WithStoreDomain("https://shop.example.com"))

	collections, err := svc.GetCollections(ctx)
	require.NoError(t, err)
	require.Len(t, collections, 3)
	assert.Equal(t, "All", collections[0].Title)
	assert.Equal(t, "/search/summer", collections[1].Path)
	assert.Equal(t, "/search/winter", collections[2].Path)

	menu, err := svc.GetMenu(ctx, "main-menu")
	require.NoError(t, err)
	require.Len(t, menu, 3)
	assert.Equal(t, "/search", menu[0].Path)
	assert.Equal(t, "/search/shirts", menu[1].Path)
	assert.Equal(t, "/about", menu[2].Path)

	products, err := svc.GetProducts(ctx, storefront.ProductsQuery{})
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, "lamp", products[0].Handle)
}

func TestClient_GraphQLErrors(t *testing.T) {
	src, stub := newTestSource(t)
	stub.Respond("getProduct", []byte(`{"data":null,"errors":[{"message":"Throttled"},{"message":"Try again"}]}`))

	_, err := src.Product(context.Background(), "acme-chair")
	require.Error(t, err)
	assert.False(t, storefront.IsNotFound(err))
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryExternal))
	assert.Contains(t, err.Error(), "Throttled; Try again")
}

func TestClient_UnknownOperation(t *testing.T) {
	src, _ := newTestSource(t)

	_, err := src.Pages(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no stub for operation getPages")
}

func TestClient_HTTPStatus(t *testing.T) {
	src, stub := newTestSource(t)
	stub.RespondStatus("getCollections", http.StatusInternalServerError, []byte(`upstream exploded`))

	_, err := src.Collections(context.Background())
	require.Error(t, err)
	assert.True(t, goerrors.IsCategory(err, goerrors.CategoryExternal))
	assert.Contains(t, err.Error(), "status 500")
	assert.Contains(t, err.Error(), "upstream exploded")
}

func TestSource_Carts(t *testing.T) {
	ctx := context.Background()
	src, stub := newTestSource(t)
	stub.RespondFixture(t, "createCart", "cart_create.json")
	stub.RespondFixture(t, "addToCart", "cart_lines_add.json")

	created, err := src.CreateCart(ctx)
	require.NoError(t, err)
	assert.Equal(t, "gid://shopify/Cart/abc", created.ID)
	assert.Nil(t, created.Cost.TotalTaxAmount)

	cart := storefront.ReshapeCart(created)
	assert.Equal(t, storefront.Money{Amount: "0.0", CurrencyCode: "EUR"}, cart.Cost.TotalTaxAmount)

	updated, err := src.AddToCart(ctx, created.ID, []storefront.CartLineInput{
		{MerchandiseID: "gid://shopify/ProductVariant/11", Quantity: 2},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, updated.TotalQuantity)

	reshaped := storefront.ReshapeCart(updated)
	require.Len(t, reshaped.Lines, 1)
	assert.Equal(t, "acme-chair", reshaped.Lines[0].Merchandise.Product.Handle)
	assert.Equal(t, "38.00", reshaped.Cost.TotalTaxAmount.Amount)

	calls := stub.Calls()
	require.Len(t, calls, 2)
	assert.Equal(t, "addToCart", calls[1].Operation)
	assert.Equal(t, created.ID, calls[1].Variables["cartId"])
	lines, ok := calls[1].Variables["lines"].([]any)
	require.True(t, ok)
	require.Len(t, lines, 1)
	line := lines[0].(map[string]any)
	assert.Equal(t, "gid://shopify/ProductVariant/11", line["merchandiseId"])
	assert.Equal(t, float64(2), line["quantity"])
}

func TestOperationName(t *testing.T) {
	tests := []struct {
		query string
		want  string
	}{
		{getProductQuery, "getProduct"},
		{getCollectionsQuery, "getCollections"},
		{addToCartMutation, "addToCart"},
		{"{ shop { name } }", "anonymous"},
	}
	for _, tt := range tests {
		if got := operationName(tt.query); got != tt.want {
			t.Errorf("operationName() = %q, want %q", got, tt.want)
		}
	}
}
