package di

import (
	"context"
	"errors"
	"log/slog"

	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/config"
	"github.com/goliatone/go-storefront/revalidate"
	fssource "github.com/goliatone/go-storefront/source/firestore"
	"github.com/goliatone/go-storefront/source/memory"
	"github.com/goliatone/go-storefront/source/shopify"
	"github.com/goliatone/go-storefront/source/sqlstore"
	"github.com/goliatone/go-storefront/storecache"
	"github.com/goliatone/go-storefront/storefront"
)

// ErrSeedUnsupported is returned by Seed when the configured source has no
// writable catalogue.
var ErrSeedUnsupported = goerrors.New("di: source cannot be seeded", goerrors.CategoryValidation).
	WithTextCode("SEED_UNSUPPORTED")

// Seeder is implemented by sources that can load a catalogue.
type Seeder interface {
	Seed(ctx context.Context, catalog *storefront.Catalog) error
}

// Container wires the storefront components from a config.Config. It owns
// singleton instances of the cache service, key serializer, cached source,
// reshaping service and revalidation handler.
type Container struct {
	config        config.Config
	logger        *slog.Logger
	cacheService  cache.CacheService
	keySerializer cache.KeySerializer
	source        storefront.Source
	cached        *storecache.CachedSource
	service       *storefront.Service
	revalidation  *revalidate.Handler
	closers       []func() error
}

// Option configures a Container.
type Option func(*Container)

func WithLogger(logger *slog.Logger) Option {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithSource skips building a backend from the configuration and uses src.
func WithSource(src storefront.Source) Option {
	return func(c *Container) {
		c.source = src
	}
}

// NewContainer builds the source selected by cfg.Source, wraps it with the
// cache and exposes the service and revalidation handler on top.
func NewContainer(ctx context.Context, cfg config.Config, opts ...Option) (*Container, error) {
	c := &Container{
		config: cfg,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.source == nil {
		src, err := c.newSource(ctx)
		if err != nil {
			_ = c.Close()
			return nil, err
		}
		c.source = src
	}

	cacheService, err := cache.NewCacheService(cache.ConfigWith(cfg.CacheCapacity, cfg.CacheTTL))
	if err != nil {
		_ = c.Close()
		return nil, err
	}
	c.cacheService = cacheService
	c.keySerializer = cache.NewNamespacedKeySerializer(namespace(cfg.Source))

	c.cached = storecache.New(c.source, c.cacheService,
		storecache.WithKeySerializer(c.keySerializer),
		storecache.WithLogger(c.logger),
	)

	serviceOpts := []storefront.Option{
		storefront.WithStoreDomain(cfg.StoreDomain),
		storefront.WithHiddenProductTag(cfg.HiddenProductTag),
		storefront.WithLogger(c.logger),
	}
	if carts := c.cached.Carts(); carts != nil {
		serviceOpts = append(serviceOpts, storefront.WithCartSource(carts))
	}
	c.service = storefront.NewService(c.cached, serviceOpts...)

	c.revalidation = revalidate.NewHandler(cfg.RevalidateSecret, c.cached,
		revalidate.WithSigningSecret(cfg.WebhookSecret),
		revalidate.WithLogger(c.logger),
	)

	return c, nil
}

func (c *Container) newSource(ctx context.Context) (storefront.Source, error) {
	cfg := c.config
	switch cfg.Source {
	case config.SourceShopify:
		client := shopify.NewClient(cfg.Endpoint(), cfg.StorefrontToken, shopify.WithLogger(c.logger))
		return shopify.NewSource(client), nil

	case config.SourceFirestore:
		client, err := fssource.NewClient(ctx, cfg.FirestoreProjectID, cfg.FirestoreCredentialsFile)
		if err != nil {
			return nil, err
		}
		src := fssource.NewSource(client)
		c.closers = append(c.closers, src.Close)
		return src, nil

	case config.SourceSQL:
		db, err := sqlstore.Open(cfg.SQLDriver, cfg.SQLDSN)
		if err != nil {
			return nil, err
		}
		store := sqlstore.New(db, sqlstore.WithCheckoutDomain(cfg.StoreDomain))
		c.closers = append(c.closers, store.Close)
		if err := store.CreateSchema(ctx); err != nil {
			return nil, err
		}
		if cfg.MemorySeedFile != "" {
			catalog, err := storefront.LoadCatalog(cfg.MemorySeedFile)
			if err != nil {
				return nil, err
			}
			if err := store.Seed(ctx, catalog); err != nil {
				return nil, err
			}
		}
		return store, nil

	case config.SourceMemory:
		if cfg.MemorySeedFile != "" {
			return memory.Load(cfg.MemorySeedFile, memory.WithCheckoutDomain(cfg.StoreDomain))
		}
		return memory.New(&storefront.Catalog{}, memory.WithCheckoutDomain(cfg.StoreDomain)), nil
	}

	return nil, goerrors.New("di: unknown source "+cfg.Source, goerrors.CategoryValidation).
		WithTextCode("UNKNOWN_SOURCE")
}

func namespace(source string) string {
	if source == "" {
		return "storefront"
	}
	return "storefront:" + source
}

// Seed loads catalog into the source and drops the cached catalogue reads.
func (c *Container) Seed(ctx context.Context, catalog *storefront.Catalog) error {
	seeder, ok := c.source.(Seeder)
	if !ok {
		return ErrSeedUnsupported
	}
	if err := seeder.Seed(ctx, catalog); err != nil {
		return err
	}
	c.cached.InvalidateTag(ctx, storefront.TagCollections)
	c.cached.InvalidateTag(ctx, storefront.TagProducts)
	return nil
}

// Close releases backend connections. It is safe to call more than once.
func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}

// Config returns the configuration the container was built from.
func (c *Container) Config() config.Config {
	return c.config
}

func (c *Container) Logger() *slog.Logger {
	return c.logger
}

// CacheService returns the singleton cache service instance.
func (c *Container) CacheService() cache.CacheService {
	return c.cacheService
}

// KeySerializer returns the serializer used by the cached source.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.keySerializer
}

// Source returns the cached source. Reads through it are cached and tagged.
func (c *Container) Source() *storecache.CachedSource {
	return c.cached
}

// Service returns the storefront reshaping service.
func (c *Container) Service() *storefront.Service {
	return c.service
}

// RevalidateHandler returns the webhook handler bound to the cache.
func (c *Container) RevalidateHandler() *revalidate.Handler {
	return c.revalidation
}
