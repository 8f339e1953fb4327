package httpapi

import (
	"context"
	"net/http"
	"net/url"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-storefront/config"
	"github.com/goliatone/go-storefront/pkg/di"
)

func newContainerRouter(t *testing.T) http.Handler {
	t.Helper()
	container, err := di.NewContainer(context.Background(), config.Config{
		Source:           config.SourceMemory,
		MemorySeedFile:   "../../storefront/testdata/catalog.json",
		StoreDomain:      "https://shop.example.com",
		RevalidateSecret: "s3cret",
		CacheTTL:         time.Minute,
		CacheCapacity:    100,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })
	return NewRouter(container.Service(), container.RevalidateHandler())
}

func TestContainerRouter_MissingEntitiesRenderEmpty(t *testing.T) {
	h := newContainerRouter(t)

	tests := []struct {
		target string
		want   string
	}{
		{"/api/products/unknown", "null"},
		{"/api/collections/unknown", "null"},
		{"/api/collections/unknown/products", "[]"},
		{"/api/menus/unknown", "[]"},
		{"/api/pages/unknown", "null"},
		{"/api/cart/" + url.PathEscape("gid://storefront/Cart/unknown"), "null"},
	}
	for _, tt := range tests {
		t.Run(tt.target, func(t *testing.T) {
			// The second request is served from the remembered miss.
			for i := 0; i < 2; i++ {
				rec := do(t, h, http.MethodGet, tt.target, nil)
				require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
				assert.JSONEq(t, tt.want, rec.Body.String())
			}
		})
	}
}

func TestContainerRouter_KnownProduct(t *testing.T) {
	h := newContainerRouter(t)

	for i := 0; i < 2; i++ {
		rec := do(t, h, http.MethodGet, "/api/products/acme-chair", nil)
		require.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "Acme Chair", decodeBody[map[string]any](t, rec)["title"])
	}
}
