package cache

import (
	"time"

	"github.com/goliatone/go-storefront/internal/cacheinfra"
)

// Config tunes the default in-process cache backend.
type Config = cacheinfra.Config

// EarlyRefreshConfig controls background refreshes of hot entries.
type EarlyRefreshConfig = cacheinfra.EarlyRefreshConfig

// DefaultConfig returns the backend defaults: 10k entries, 256 shards, five
// minute TTL, early refreshes and missing record storage enabled.
func DefaultConfig() Config {
	return cacheinfra.DefaultConfig()
}

// ConfigWith returns DefaultConfig with capacity and ttl overridden when set.
func ConfigWith(capacity int, ttl time.Duration) Config {
	cfg := DefaultConfig()
	if capacity > 0 {
		cfg.Capacity = capacity
	}
	if ttl > 0 {
		cfg.TTL = ttl
		if cfg.EarlyRefresh != nil && cfg.EarlyRefresh.SyncRefreshTime >= ttl {
			cfg.EarlyRefresh = nil
		}
	}
	return cfg
}

// NewCacheService constructs the default cache service implementation using the provided configuration.
func NewCacheService(cfg Config) (CacheService, error) {
	svc, err := cacheinfra.NewSturdycService(cfg)
	if err != nil {
		return nil, err
	}
	return svc, nil
}
