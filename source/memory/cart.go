package memory

import (
	"context"
	"slices"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"

	"github.com/goliatone/go-storefront/internal/cartprice"
	"github.com/goliatone/go-storefront/storefront"
)

const (
	cartIDPrefix = "gid://storefront/Cart/"
	lineIDPrefix = "gid://storefront/CartLine/"
)

type cart struct {
	id    string
	token string
	lines []cartLine
}

type cartLine struct {
	id            string
	merchandiseID string
	quantity      int
}

// ErrInvalidCartInput is returned for unknown merchandise, unknown lines or
// quantities below zero.
var ErrInvalidCartInput = goerrors.New("memory: invalid cart input", goerrors.CategoryValidation).
	WithTextCode("INVALID_CART_INPUT")

func (s *Source) CreateCart(context.Context) (*storefront.RawCart, error) {
	token := uuid.NewString()
	c := &cart{id: cartIDPrefix + token, token: token}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.carts[c.id] = c
	return s.rawCart(c), nil
}

func (s *Source) Cart(_ context.Context, cartID string) (*storefront.RawCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return nil, storefront.NotFound("cart", cartID)
	}
	return s.rawCart(c), nil
}

// AddToCart merges lines into the cart. Merchandise already in the cart has
// its quantity increased.
func (s *Source) AddToCart(_ context.Context, cartID string, lines []storefront.CartLineInput) (*storefront.RawCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return nil, storefront.NotFound("cart", cartID)
	}
	for _, in := range lines {
		if _, ok := s.variants[in.MerchandiseID]; !ok {
			return nil, invalidInput("unknown merchandise " + in.MerchandiseID)
		}
		if in.Quantity < 1 {
			return nil, invalidInput("quantity must be positive")
		}
	}

	for _, in := range lines {
		idx := slices.IndexFunc(c.lines, func(l cartLine) bool { return l.merchandiseID == in.MerchandiseID })
		if idx >= 0 {
			c.lines[idx].quantity += in.Quantity
			continue
		}
		c.lines = append(c.lines, cartLine{
			id:            lineIDPrefix + uuid.NewString(),
			merchandiseID: in.MerchandiseID,
			quantity:      in.Quantity,
		})
	}
	return s.rawCart(c), nil
}

// RemoveFromCart drops the lines with the given ids. Unknown ids are ignored.
func (s *Source) RemoveFromCart(_ context.Context, cartID string, lineIDs []string) (*storefront.RawCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return nil, storefront.NotFound("cart", cartID)
	}
	c.lines = slices.DeleteFunc(c.lines, func(l cartLine) bool {
		return slices.Contains(lineIDs, l.id)
	})
	return s.rawCart(c), nil
}

// UpdateCart rewrites existing lines. A quantity of zero removes the line.
func (s *Source) UpdateCart(_ context.Context, cartID string, lines []storefront.CartLineUpdate) (*storefront.RawCart, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.carts[cartID]
	if !ok {
		return nil, storefront.NotFound("cart", cartID)
	}

	next := slices.Clone(c.lines)
	for _, up := range lines {
		idx := slices.IndexFunc(next, func(l cartLine) bool { return l.id == up.ID })
		if idx < 0 {
			return nil, invalidInput("unknown cart line " + up.ID)
		}
		if up.Quantity < 0 {
			return nil, invalidInput("quantity must not be negative")
		}
		if up.MerchandiseID != "" {
			if _, ok := s.variants[up.MerchandiseID]; !ok {
				return nil, invalidInput("unknown merchandise " + up.MerchandiseID)
			}
			next[idx].merchandiseID = up.MerchandiseID
		}
		next[idx].quantity = up.Quantity
	}
	c.lines = slices.DeleteFunc(next, func(l cartLine) bool { return l.quantity == 0 })
	return s.rawCart(c), nil
}

// rawCart prices c from the catalog. Callers hold s.mu.
func (s *Source) rawCart(c *cart) *storefront.RawCart {
	lines := make([]cartprice.Line, 0, len(c.lines))
	for _, l := range c.lines {
		ref := s.variants[l.merchandiseID]
		lines = append(lines, cartprice.Line{
			ID:       l.id,
			Quantity: l.quantity,
			Variant:  ref.variant,
			Product:  cartprice.ProductOf(ref.product),
		})
	}
	return cartprice.Build(cartprice.Cart{
		ID:          c.id,
		CheckoutURL: s.checkoutDomain + "/cart/c/" + c.token,
		Currency:    s.currency,
	}, lines)
}

func invalidInput(msg string) error {
	return goerrors.Wrap(ErrInvalidCartInput, goerrors.CategoryValidation, "memory: "+msg)
}
