package cacheinfra

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/viccon/sturdyc"
)

// ErrNotFound is the miss sentinel shared with the public cache package. A
// fetch returning it is remembered as a missing record when
// MissingRecordStorage is enabled.
var ErrNotFound = errors.New("cache: record not found")

// Config holds the configuration for the sturdyc cache adapter.
type Config struct {
	// Capacity is the maximum number of entries. Must be greater than 0.
	Capacity int

	// NumShards splits the cache for concurrent access. Must be greater than 0.
	NumShards int

	// TTL is how long an entry is served before it is fetched again.
	TTL time.Duration

	// EvictionPercentage is the share of entries dropped when Capacity is
	// reached. Must be between 1 and 100.
	EvictionPercentage int

	// EarlyRefresh refreshes hot entries in the background before they
	// expire. Nil disables it.
	EarlyRefresh *EarlyRefreshConfig

	// MissingRecordStorage caches misses so unknown handles do not hit the
	// source on every request.
	MissingRecordStorage bool

	// EvictionInterval sets how often expired entries are swept. Zero keeps
	// the sturdyc default.
	EvictionInterval time.Duration
}

// EarlyRefreshConfig mirrors sturdyc.WithEarlyRefreshes.
type EarlyRefreshConfig struct {
	MinAsyncRefreshTime time.Duration
	MaxAsyncRefreshTime time.Duration
	SyncRefreshTime     time.Duration
	RetryBaseDelay      time.Duration
}

// DefaultConfig returns a Config with sensible defaults for a storefront.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
		EarlyRefresh: &EarlyRefreshConfig{
			MinAsyncRefreshTime: 10 * time.Second,
			MaxAsyncRefreshTime: 20 * time.Second,
			SyncRefreshTime:     30 * time.Second,
			RetryBaseDelay:      100 * time.Millisecond,
		},
		MissingRecordStorage: true,
	}
}

// ToSturdycOptions maps the optional settings onto sturdyc options. Capacity,
// NumShards, TTL and EvictionPercentage go to sturdyc.New directly.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EarlyRefresh != nil {
		options = append(options, sturdyc.WithEarlyRefreshes(
			c.EarlyRefresh.MinAsyncRefreshTime,
			c.EarlyRefresh.MaxAsyncRefreshTime,
			c.EarlyRefresh.SyncRefreshTime,
			c.EarlyRefresh.RetryBaseDelay,
		))
	}
	if c.MissingRecordStorage {
		options = append(options, sturdyc.WithMissingRecordStorage())
	}
	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

type check struct {
	field   string
	invalid bool
	message string
}

// Validate returns a *ConfigError for the first invalid field.
func (c Config) Validate() error {
	checks := []check{
		{"Capacity", c.Capacity <= 0, "must be greater than 0"},
		{"NumShards", c.NumShards <= 0, "must be greater than 0"},
		{"TTL", c.TTL <= 0, "must be greater than 0"},
		{"EvictionPercentage", c.EvictionPercentage < 1 || c.EvictionPercentage > 100, "must be between 1 and 100"},
		{"EvictionInterval", c.EvictionInterval < 0, "must be non-negative"},
	}
	if er := c.EarlyRefresh; er != nil {
		checks = append(checks,
			check{"EarlyRefresh.MinAsyncRefreshTime", er.MinAsyncRefreshTime < 0, "must be non-negative"},
			check{"EarlyRefresh.MaxAsyncRefreshTime", er.MaxAsyncRefreshTime < er.MinAsyncRefreshTime, "must not be lower than MinAsyncRefreshTime"},
			check{"EarlyRefresh.SyncRefreshTime", er.SyncRefreshTime < 0, "must be non-negative"},
			check{"EarlyRefresh.RetryBaseDelay", er.RetryBaseDelay < 0, "must be non-negative"},
		)
	}

	for _, ch := range checks {
		if ch.invalid {
			return &ConfigError{Field: ch.field, Message: ch.message}
		}
	}
	return nil
}

// ConfigError represents a configuration validation error.
type ConfigError struct {
	Field   string
	Message string
}

func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}

// sturdycService adapts a sturdyc client to cache.CacheService.
type sturdycService struct {
	client *sturdyc.Client[any]
}

// NewSturdycService validates cfg and builds the sturdyc client.
func NewSturdycService(cfg Config) (*sturdycService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	client := sturdyc.New[any](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &sturdycService{client: client}, nil
}

var (
	contextType = reflect.TypeOf((*context.Context)(nil)).Elem()
	errorType   = reflect.TypeOf((*error)(nil)).Elem()
)

// fetcher turns fetchFn, any func(context.Context) (T, error), into the
// untyped form sturdyc stores.
func fetcher(fetchFn any) (func(context.Context) (any, error), error) {
	if fetchFn == nil {
		return nil, &ConfigError{Field: "fetchFn", Message: "cannot be nil"}
	}
	if fn, ok := fetchFn.(func(context.Context) (any, error)); ok {
		return fn, nil
	}

	fnValue := reflect.ValueOf(fetchFn)
	fnType := fnValue.Type()
	switch {
	case fnType.Kind() != reflect.Func:
		return nil, &ConfigError{Field: "fetchFn", Message: "must be a function"}
	case fnType.NumIn() != 1 || fnType.NumOut() != 2:
		return nil, &ConfigError{Field: "fetchFn", Message: "must have signature func(context.Context) (T, error)"}
	case !fnType.In(0).Implements(contextType):
		return nil, &ConfigError{Field: "fetchFn", Message: "first parameter must be context.Context"}
	case !fnType.Out(1).Implements(errorType):
		return nil, &ConfigError{Field: "fetchFn", Message: "second return value must be error"}
	}

	return func(ctx context.Context) (any, error) {
		out := fnValue.Call([]reflect.Value{reflect.ValueOf(ctx)})
		var err error
		if errValue := out[1]; !errValue.IsNil() {
			err = errValue.Interface().(error)
		}
		return out[0].Interface(), err
	}, nil
}

// noValue stands in for a nil result inside sturdyc, which rejects nil
// interface values with ErrInvalidType.
type noValue struct{}

// GetOrFetch serves key from the cache or calls fetchFn and stores its
// result. Errors other than ErrNotFound are returned without being cached.
func (s *sturdycService) GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error) {
	fetch, err := fetcher(fetchFn)
	if err != nil {
		return nil, err
	}

	value, err := s.client.GetOrFetch(ctx, key, func(ctx context.Context) (any, error) {
		v, err := fetch(ctx)
		if errors.Is(err, ErrNotFound) {
			return noValue{}, sturdyc.ErrNotFound
		}
		if v == nil {
			return noValue{}, err
		}
		return v, err
	})
	if errors.Is(err, sturdyc.ErrNotFound) || errors.Is(err, sturdyc.ErrMissingRecord) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if _, ok := value.(noValue); ok {
		return nil, nil
	}
	return value, nil
}

func (s *sturdycService) Delete(ctx context.Context, key string) error {
	s.client.Delete(key)
	return nil
}

// DeleteByPrefix removes every cached key starting with prefix.
func (s *sturdycService) DeleteByPrefix(ctx context.Context, prefix string) error {
	for _, key := range s.client.ScanKeys() {
		if strings.HasPrefix(key, prefix) {
			s.client.Delete(key)
		}
	}
	return nil
}

func (s *sturdycService) InvalidateKeys(ctx context.Context, keys []string) error {
	for _, key := range keys {
		s.client.Delete(key)
	}
	return nil
}

// Size reports the number of stored entries, missing records included.
func (s *sturdycService) Size() int {
	return s.client.Size()
}
