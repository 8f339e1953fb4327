package cache

import (
	"context"
	"errors"
	"fmt"

	"github.com/goliatone/go-storefront/internal/cacheinfra"
)

var (
	// ErrNotFound marks a fetch whose record does not exist upstream. Fetch
	// functions return it (or an error wrapping it) so the backend can
	// remember the miss; GetOrFetch returns it for remembered misses too.
	ErrNotFound = cacheinfra.ErrNotFound

	// ErrInvalidResultType is returned by GetOrFetch when the cached value
	// does not have the requested type, usually because two readers share a key.
	ErrInvalidResultType = errors.New("cache: cached value has unexpected type")
)

// KeySerializer builds a cache key from a method name + arbitrary args.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(method string, args ...any) string
}

// FetchFn is the function signature CacheService expects when fetching from the source of truth.
type FetchFn[T any] func(ctx context.Context) (T, error)

// CacheService exposes the read-through operations used to decorate a
// storefront source.
type CacheService interface {
	GetOrFetch(ctx context.Context, key string, fetchFn any) (any, error)
	Delete(ctx context.Context, key string) error
	DeleteByPrefix(ctx context.Context, prefix string) error
	InvalidateKeys(ctx context.Context, keys []string) error
}

// GetOrFetch is the typed form of CacheService.GetOrFetch.
func GetOrFetch[T any](ctx context.Context, service CacheService, key string, fetchFn FetchFn[T]) (T, error) {
	var zero T

	result, err := service.GetOrFetch(ctx, key, fetchFn)
	if err != nil {
		return zero, err
	}
	if result == nil {
		return zero, nil
	}

	typed, ok := result.(T)
	if !ok {
		return zero, fmt.Errorf("%w: key %q holds %T, want %T", ErrInvalidResultType, key, result, zero)
	}
	return typed, nil
}
