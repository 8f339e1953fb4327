package storecache

import (
	"context"

	"github.com/goliatone/go-storefront/storefront"
)

// cachedCarts caches cart reads per id under storefront.TagCart.
type cachedCarts struct {
	owner *CachedSource
	base  storefront.CartSource
}

// Carts returns a cart source sharing this cache, or nil when the wrapped
// source cannot hold carts.
func (c *CachedSource) Carts() storefront.CartSource {
	base, ok := c.base.(storefront.CartSource)
	if !ok {
		return nil
	}
	return &cachedCarts{owner: c, base: base}
}

func (cc *cachedCarts) cartKey(cartID string) string {
	return cc.owner.keySerializer.SerializeKey("Cart", cartID)
}

func (cc *cachedCarts) CreateCart(ctx context.Context) (*storefront.RawCart, error) {
	return cc.base.CreateCart(ctx)
}

func (cc *cachedCarts) Cart(ctx context.Context, cartID string) (*storefront.RawCart, error) {
	return cachedRead(ctx, cc.owner, "cart", cartID, []string{storefront.TagCart},
		func(ctx context.Context) (*storefront.RawCart, error) {
			return cc.base.Cart(ctx, cartID)
		}, "Cart", cartID)
}

func (cc *cachedCarts) AddToCart(ctx context.Context, cartID string, lines []storefront.CartLineInput) (*storefront.RawCart, error) {
	defer cc.drop(ctx, cartID)
	return cc.base.AddToCart(ctx, cartID, lines)
}

func (cc *cachedCarts) RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*storefront.RawCart, error) {
	defer cc.drop(ctx, cartID)
	return cc.base.RemoveFromCart(ctx, cartID, lineIDs)
}

func (cc *cachedCarts) UpdateCart(ctx context.Context, cartID string, lines []storefront.CartLineUpdate) (*storefront.RawCart, error) {
	defer cc.drop(ctx, cartID)
	return cc.base.UpdateCart(ctx, cartID, lines)
}

func (cc *cachedCarts) drop(ctx context.Context, cartID string) {
	key := cc.cartKey(cartID)
	if err := cc.owner.cache.Delete(ctx, key); err != nil {
		cc.owner.logger.WarnContext(ctx, "cart cache delete failed", "cart", cartID, "error", err)
	}
}
