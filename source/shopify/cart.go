package shopify

import (
	"context"

	"github.com/goliatone/go-storefront/storefront"
)

type cartPayload struct {
	Cart *storefront.RawCart `json:"cart"`
}

func (s *Source) CreateCart(ctx context.Context) (*storefront.RawCart, error) {
	var data struct {
		CartCreate cartPayload `json:"cartCreate"`
	}
	if err := s.client.Do(ctx, createCartMutation, nil, &data); err != nil {
		return nil, err
	}
	return cartOrNotFound(data.CartCreate.Cart, "")
}

func (s *Source) Cart(ctx context.Context, cartID string) (*storefront.RawCart, error) {
	var data struct {
		Cart *storefront.RawCart `json:"cart"`
	}
	if err := s.client.Do(ctx, getCartQuery, map[string]any{"cartId": cartID}, &data); err != nil {
		return nil, err
	}
	return cartOrNotFound(data.Cart, cartID)
}

func (s *Source) AddToCart(ctx context.Context, cartID string, lines []storefront.CartLineInput) (*storefront.RawCart, error) {
	var data struct {
		CartLinesAdd cartPayload `json:"cartLinesAdd"`
	}
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := s.client.Do(ctx, addToCartMutation, vars, &data); err != nil {
		return nil, err
	}
	return cartOrNotFound(data.CartLinesAdd.Cart, cartID)
}

func (s *Source) RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*storefront.RawCart, error) {
	var data struct {
		CartLinesRemove cartPayload `json:"cartLinesRemove"`
	}
	vars := map[string]any{"cartId": cartID, "lineIds": lineIDs}
	if err := s.client.Do(ctx, removeFromCartMutation, vars, &data); err != nil {
		return nil, err
	}
	return cartOrNotFound(data.CartLinesRemove.Cart, cartID)
}

func (s *Source) UpdateCart(ctx context.Context, cartID string, lines []storefront.CartLineUpdate) (*storefront.RawCart, error) {
	var data struct {
		CartLinesUpdate cartPayload `json:"cartLinesUpdate"`
	}
	vars := map[string]any{"cartId": cartID, "lines": lines}
	if err := s.client.Do(ctx, editCartItemsMutation, vars, &data); err != nil {
		return nil, err
	}
	return cartOrNotFound(data.CartLinesUpdate.Cart, cartID)
}

// cartOrNotFound treats a null cart as gone. Carts disappear once they are
// checked out.
func cartOrNotFound(cart *storefront.RawCart, cartID string) (*storefront.RawCart, error) {
	if cart == nil {
		return nil, storefront.NotFound("cart", cartID)
	}
	return cart, nil
}
