// Package config loads the storefront configuration from the environment.
package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	goerrors "github.com/goliatone/go-errors"
	"github.com/joho/godotenv"
)

// Source backends.
const (
	SourceShopify   = "shopify"
	SourceFirestore = "firestore"
	SourceSQL       = "sql"
	SourceMemory    = "memory"
)

// SQL drivers accepted by SQL_DRIVER.
const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

const (
	DefaultAPIVersion = "2023-01"
	DefaultHTTPAddr   = ":3000"
)

// Config holds every recognized setting. It is loaded once at startup and
// passed to the components that need it.
type Config struct {
	Source string

	StoreDomain      string
	StorefrontToken  string
	APIVersion       string
	RevalidateSecret string
	WebhookSecret    string
	HiddenProductTag string

	FirestoreProjectID       string
	FirestoreCredentialsFile string

	SQLDriver string
	SQLDSN    string

	MemorySeedFile string

	CacheTTL      time.Duration
	CacheCapacity int

	HTTPAddr string
}

// Endpoint returns the Storefront GraphQL endpoint for the configured store.
func (c Config) Endpoint() string {
	return c.StoreDomain + "/api/" + c.APIVersion + "/graphql.json"
}

// Load reads .env files (when present) and the process environment, then
// validates the result. Explicitly named files must exist.
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, goerrors.Wrap(err, goerrors.CategoryValidation, "config: read .env")
		}
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, goerrors.Wrap(err, goerrors.CategoryValidation, "config: read env file")
	}
	return FromLookup(os.LookupEnv)
}

// FromLookup builds a Config from lookup, which reports environment values.
func FromLookup(lookup func(string) (string, bool)) (Config, error) {
	get := func(key, def string) string {
		if v, ok := lookup(key); ok && strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
		return def
	}

	cfg := Config{
		Source:                   strings.ToLower(get("STOREFRONT_SOURCE", SourceShopify)),
		StoreDomain:              get("SHOPIFY_STORE_DOMAIN", ""),
		StorefrontToken:          get("SHOPIFY_STOREFRONT_ACCESS_TOKEN", ""),
		APIVersion:               get("SHOPIFY_API_VERSION", DefaultAPIVersion),
		RevalidateSecret:         get("SHOPIFY_REVALIDATION_SECRET", ""),
		WebhookSecret:            get("SHOPIFY_WEBHOOK_SECRET", ""),
		HiddenProductTag:         get("HIDDEN_PRODUCT_TAG", ""),
		FirestoreProjectID:       get("FIRESTORE_PROJECT_ID", ""),
		FirestoreCredentialsFile: get("FIRESTORE_CREDENTIALS_FILE", ""),
		SQLDriver:                get("SQL_DRIVER", DriverSQLite),
		SQLDSN:                   get("SQL_DSN", ""),
		MemorySeedFile:           get("MEMORY_SEED_FILE", ""),
		HTTPAddr:                 get("HTTP_ADDR", DefaultHTTPAddr),
	}

	if cfg.StoreDomain != "" {
		cfg.StoreDomain = strings.TrimRight(ensureStartsWith(cfg.StoreDomain, "https://"), "/")
	}

	if v := get("CACHE_TTL", ""); v != "" {
		ttl, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, invalid("CACHE_TTL", err)
		}
		cfg.CacheTTL = ttl
	}
	if v := get("CACHE_CAPACITY", ""); v != "" {
		capacity, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, invalid("CACHE_CAPACITY", err)
		}
		cfg.CacheCapacity = capacity
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks required and conditionally required fields.
func (c Config) Validate() error {
	err := validation.ValidateStruct(&c,
		validation.Field(&c.Source, validation.Required,
			validation.In(SourceShopify, SourceFirestore, SourceSQL, SourceMemory)),
		validation.Field(&c.RevalidateSecret, validation.Required),
		validation.Field(&c.StoreDomain, validation.When(c.Source == SourceShopify, validation.Required)),
		validation.Field(&c.StorefrontToken, validation.When(c.Source == SourceShopify, validation.Required)),
		validation.Field(&c.APIVersion, validation.Required),
		validation.Field(&c.FirestoreProjectID, validation.When(c.Source == SourceFirestore, validation.Required)),
		validation.Field(&c.SQLDriver, validation.When(c.Source == SourceSQL,
			validation.Required, validation.In(DriverSQLite, DriverPostgres))),
		validation.Field(&c.SQLDSN, validation.When(c.Source == SourceSQL, validation.Required)),
		validation.Field(&c.CacheTTL, validation.Min(time.Duration(0))),
		validation.Field(&c.CacheCapacity, validation.Min(0)),
		validation.Field(&c.HTTPAddr, validation.Required),
	)
	if err != nil {
		return goerrors.Wrap(err, goerrors.CategoryValidation, "config: invalid configuration").
			WithTextCode("INVALID_CONFIG")
	}
	return nil
}

func invalid(key string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "config: invalid "+key).
		WithTextCode("INVALID_CONFIG")
}

func ensureStartsWith(s, prefix string) string {
	if strings.HasPrefix(s, prefix) {
		return s
	}
	return prefix + strings.TrimPrefix(s, "http://")
}
