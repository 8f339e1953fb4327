package storefront

import (
	"context"
	"strings"

	goerrors "github.com/goliatone/go-errors"
)

func (s *Service) CreateCart(ctx context.Context) (*Cart, error) {
	if s.carts == nil {
		return nil, ErrCartUnsupported
	}
	raw, err := s.carts.CreateCart(ctx)
	if err != nil {
		return nil, UpstreamError(err, "create cart")
	}
	return ReshapeCart(raw), nil
}

// GetCart returns the cart with cartID. An empty id, or a cart that no
// longer exists (carts vanish after checkout), yields nil.
func (s *Service) GetCart(ctx context.Context, cartID string) (*Cart, error) {
	if s.carts == nil {
		return nil, ErrCartUnsupported
	}
	if strings.TrimSpace(cartID) == "" {
		return nil, nil
	}
	raw, err := s.carts.Cart(ctx, cartID)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, UpstreamError(err, "get cart")
	}
	return ReshapeCart(raw), nil
}

func (s *Service) AddToCart(ctx context.Context, cartID string, lines []CartLineInput) (*Cart, error) {
	if s.carts == nil {
		return nil, ErrCartUnsupported
	}
	raw, err := s.carts.AddToCart(ctx, cartID, lines)
	if err != nil {
		return nil, cartError(err, "add to cart")
	}
	return ReshapeCart(raw), nil
}

func (s *Service) RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*Cart, error) {
	if s.carts == nil {
		return nil, ErrCartUnsupported
	}
	raw, err := s.carts.RemoveFromCart(ctx, cartID, lineIDs)
	if err != nil {
		return nil, cartError(err, "remove from cart")
	}
	return ReshapeCart(raw), nil
}

func (s *Service) UpdateCart(ctx context.Context, cartID string, lines []CartLineUpdate) (*Cart, error) {
	if s.carts == nil {
		return nil, ErrCartUnsupported
	}
	raw, err := s.carts.UpdateCart(ctx, cartID, lines)
	if err != nil {
		return nil, cartError(err, "update cart")
	}
	return ReshapeCart(raw), nil
}

// cartError keeps not found and invalid input errors recognizable so callers
// can drop a stale cart id or report the bad line.
func cartError(err error, op string) error {
	if IsNotFound(err) || goerrors.IsCategory(err, goerrors.CategoryValidation) {
		return err
	}
	return UpstreamError(err, op)
}
