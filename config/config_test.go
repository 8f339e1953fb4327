package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	goerrors "github.com/goliatone/go-errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lookupFrom(env map[string]string) func(string) (string, bool) {
	return func(key string) (string, bool) {
		v, ok := env[key]
		return v, ok
	}
}

func TestFromLookup_ShopifyDefaults(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"SHOPIFY_STORE_DOMAIN":            "shop.example.com/",
		"SHOPIFY_STOREFRONT_ACCESS_TOKEN": "token",
		"SHOPIFY_REVALIDATION_SECRET":     "secret",
	}))
	require.NoError(t, err)

	assert.Equal(t, SourceShopify, cfg.Source)
	assert.Equal(t, "https://shop.example.com", cfg.StoreDomain)
	assert.Equal(t, DefaultAPIVersion, cfg.APIVersion)
	assert.Equal(t, DefaultHTTPAddr, cfg.HTTPAddr)
	assert.Equal(t, "https://shop.example.com/api/2023-01/graphql.json", cfg.Endpoint())
	assert.Zero(t, cfg.CacheTTL)
}

func TestFromLookup_Overrides(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"STOREFRONT_SOURCE":           "Memory",
		"SHOPIFY_REVALIDATION_SECRET": "secret",
		"SHOPIFY_STORE_DOMAIN":        "http://shop.example.com",
		"SHOPIFY_API_VERSION":         "2024-04",
		"CACHE_TTL":                   "90s",
		"CACHE_CAPACITY":              "500",
		"HTTP_ADDR":                   " :8080 ",
		"HIDDEN_PRODUCT_TAG":          "draft",
	}))
	require.NoError(t, err)

	assert.Equal(t, SourceMemory, cfg.Source)
	assert.Equal(t, "https://shop.example.com", cfg.StoreDomain)
	assert.Equal(t, "2024-04", cfg.APIVersion)
	assert.Equal(t, 90*time.Second, cfg.CacheTTL)
	assert.Equal(t, 500, cfg.CacheCapacity)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "draft", cfg.HiddenProductTag)
}

func TestFromLookup_Invalid(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{name: "missing revalidation secret", env: map[string]string{"STOREFRONT_SOURCE": "memory"}},
		{name: "unknown source", env: map[string]string{"STOREFRONT_SOURCE": "mongo", "SHOPIFY_REVALIDATION_SECRET": "s"}},
		{name: "shopify without token", env: map[string]string{"SHOPIFY_REVALIDATION_SECRET": "s", "SHOPIFY_STORE_DOMAIN": "x"}},
		{name: "firestore without project", env: map[string]string{"STOREFRONT_SOURCE": "firestore", "SHOPIFY_REVALIDATION_SECRET": "s"}},
		{name: "sql without dsn", env: map[string]string{"STOREFRONT_SOURCE": "sql", "SHOPIFY_REVALIDATION_SECRET": "s"}},
		{name: "sql unknown driver", env: map[string]string{"STOREFRONT_SOURCE": "sql", "SQL_DRIVER": "oracle", "SQL_DSN": "x", "SHOPIFY_REVALIDATION_SECRET": "s"}},
		{name: "bad ttl", env: map[string]string{"STOREFRONT_SOURCE": "memory", "SHOPIFY_REVALIDATION_SECRET": "s", "CACHE_TTL": "soon"}},
		{name: "bad capacity", env: map[string]string{"STOREFRONT_SOURCE": "memory", "SHOPIFY_REVALIDATION_SECRET": "s", "CACHE_CAPACITY": "many"}},
		{name: "negative capacity", env: map[string]string{"STOREFRONT_SOURCE": "memory", "SHOPIFY_REVALIDATION_SECRET": "s", "CACHE_CAPACITY": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromLookup(lookupFrom(tt.env))
			require.Error(t, err)
			assert.True(t, goerrors.IsCategory(err, goerrors.CategoryValidation), "got %v", err)
		})
	}
}

func TestFromLookup_SQLAndFirestore(t *testing.T) {
	cfg, err := FromLookup(lookupFrom(map[string]string{
		"STOREFRONT_SOURCE":           "sql",
		"SQL_DSN":                     "file::memory:?cache=shared",
		"SHOPIFY_REVALIDATION_SECRET": "s",
	}))
	require.NoError(t, err)
	assert.Equal(t, DriverSQLite, cfg.SQLDriver)

	cfg, err = FromLookup(lookupFrom(map[string]string{
		"STOREFRONT_SOURCE":           "firestore",
		"FIRESTORE_PROJECT_ID":        "demo",
		"SHOPIFY_REVALIDATION_SECRET": "s",
	}))
	require.NoError(t, err)
	assert.Equal(t, "demo", cfg.FirestoreProjectID)
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("STOREFRONT_SOURCE=memory\nSHOPIFY_REVALIDATION_SECRET=from-file\n"), 0o600))

	t.Setenv("STOREFRONT_SOURCE", "")
	t.Setenv("SHOPIFY_REVALIDATION_SECRET", "")
	os.Unsetenv("STOREFRONT_SOURCE")
	os.Unsetenv("SHOPIFY_REVALIDATION_SECRET")

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, SourceMemory, cfg.Source)
	assert.Equal(t, "from-file", cfg.RevalidateSecret)

	_, err = Load(filepath.Join(dir, "missing.env"))
	assert.Error(t, err)
}

func TestEnsureStartsWith(t *testing.T) {
	assert.Equal(t, "https://a.com", ensureStartsWith("a.com", "https://"))
	assert.Equal(t, "https://a.com", ensureStartsWith("https://a.com", "https://"))
	assert.Equal(t, "https://a.com", ensureStartsWith("http://a.com", "https://"))
}
