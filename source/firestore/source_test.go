package firestore

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storefront/pkg/testsupport"
	"github.com/goliatone/go-storefront/storefront"
)

// newEmulatorSource seeds a fresh emulator project. The tests skip unless
// FIRESTORE_EMULATOR_HOST is set.
func newEmulatorSource(t *testing.T) *Source {
	t.Helper()
	if os.Getenv("FIRESTORE_EMULATOR_HOST") == "" {
		t.Skip("FIRESTORE_EMULATOR_HOST not set")
	}

	ctx := context.Background()
	client, err := NewClient(ctx, "storefront-test-"+uuid.NewString()[:8], "")
	require.NoError(t, err)

	src := NewSource(client)
	t.Cleanup(func() { _ = src.Close() })

	require.NoError(t, Seed(ctx, client, testsupport.SampleCatalog()))
	return src
}

func productHandles(products []*storefront.RawProduct) []string {
	out := make([]string, 0, len(products))
	for _, p := range products {
		out = append(out, p.Handle)
	}
	return out
}

func TestSource_Emulator(t *testing.T) {
	src := newEmulatorSource(t)
	ctx := context.Background()

	t.Run("collection", func(t *testing.T) {
		c, err := src.Collection(ctx, "summer")
		require.NoError(t, err)
		assert.Equal(t, "Summer", c.Title)

		_, err = src.Collection(ctx, "autumn")
		assert.True(t, storefront.IsNotFound(err))
	})

	t.Run("collections ordered by title", func(t *testing.T) {
		cs, err := src.Collections(ctx)
		require.NoError(t, err)
		require.Len(t, cs, 2)
		assert.Equal(t, "Homepage", cs[0].Title)
	})

	t.Run("collection products keep stored order", func(t *testing.T) {
		ps, err := src.CollectionProducts(ctx, storefront.CollectionProductsQuery{Collection: "summer"})
		require.NoError(t, err)
		assert.Equal(t, []string{"lamp", "acme-chair"}, productHandles(ps))

		_, err = src.CollectionProducts(ctx, storefront.CollectionProductsQuery{Collection: "autumn"})
		assert.True(t, storefront.IsNotFound(err))
	})

	t.Run("product", func(t *testing.T) {
		p, err := src.Product(ctx, "acme-chair")
		require.NoError(t, err)
		assert.Len(t, p.Variants.Edges, 1)

		_, err = src.Product(ctx, "sofa")
		assert.True(t, storefront.IsNotFound(err))
	})

	t.Run("products search", func(t *testing.T) {
		ps, err := src.Products(ctx, storefront.ProductsQuery{Query: "lamp", SortKey: "TITLE"})
		require.NoError(t, err)
		assert.Equal(t, []string{"lamp"}, productHandles(ps))
	})

	t.Run("recommendations", func(t *testing.T) {
		ps, err := src.ProductRecommendations(ctx, "gid://shopify/Product/2")
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"acme-chair", "prototype"}, productHandles(ps))
	})

	t.Run("menu and pages", func(t *testing.T) {
		items, err := src.Menu(ctx, "main-menu")
		require.NoError(t, err)
		assert.Len(t, items, 2)

		_, err = src.Page(ctx, "missing")
		assert.True(t, storefront.IsNotFound(err))

		pages, err := src.Pages(ctx)
		require.NoError(t, err)
		assert.Len(t, pages, 1)
	})
}
