package storefront

import (
	"errors"
	"fmt"

	goerrors "github.com/goliatone/go-errors"
)

var (
	// ErrNotFound signals that an entity is absent upstream. It is never
	// surfaced to end users as a failure; readers turn it into "no value".
	ErrNotFound = goerrors.New("storefront: entity not found", goerrors.CategoryNotFound).
			WithTextCode("NOT_FOUND")

	// ErrCartUnsupported is returned by cart operations when the configured
	// source has no cart capability.
	ErrCartUnsupported = goerrors.New("storefront: source does not support carts", goerrors.CategoryInternal).
				WithTextCode("CART_UNSUPPORTED")
)

// NotFound returns an error wrapping ErrNotFound that names the missing entity.
func NotFound(kind, key string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, kind, key)
}

// IsNotFound reports whether err means the entity is absent upstream.
func IsNotFound(err error) bool {
	if err == nil {
		return false
	}
	return errors.Is(err, ErrNotFound) || goerrors.IsCategory(err, goerrors.CategoryNotFound)
}

// UpstreamError wraps a failure talking to the external data source.
func UpstreamError(err error, op string) error {
	if err == nil {
		return nil
	}
	return goerrors.Wrap(err, goerrors.CategoryExternal, "storefront: "+op+" failed").
		WithTextCode("UPSTREAM_FAILURE")
}
