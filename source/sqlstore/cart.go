package sqlstore

import (
	"context"
	"slices"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/internal/cartprice"
	"github.com/goliatone/go-storefront/storefront"
)

const (
	cartIDPrefix = "gid://storefront/Cart/"
	lineIDPrefix = "gid://storefront/CartLine/"
)

// ErrInvalidCartInput is returned for unknown merchandise, unknown lines or
// quantities below zero.
var ErrInvalidCartInput = goerrors.New("sqlstore: invalid cart input", goerrors.CategoryValidation).
	WithTextCode("INVALID_CART_INPUT")

func (s *Store) CreateCart(ctx context.Context) (*storefront.RawCart, error) {
	now := s.now().UTC()
	token := uuid.NewString()
	row := &cartRow{
		ID:        uuid.New(),
		CartID:    cartIDPrefix + token,
		Token:     token,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if _, err := s.carts.Create(ctx, row); err != nil {
		return nil, queryError(err, "create cart")
	}
	return s.price(ctx, s.db, row)
}

func (s *Store) Cart(ctx context.Context, cartID string) (*storefront.RawCart, error) {
	row, err := s.carts.GetByIdentifier(ctx, cartID)
	if err != nil {
		return nil, lookupError(err, "cart", cartID)
	}
	return s.price(ctx, s.db, row)
}

// AddToCart merges lines into the cart. Merchandise already in the cart has
// its quantity increased.
func (s *Store) AddToCart(ctx context.Context, cartID string, lines []storefront.CartLineInput) (*storefront.RawCart, error) {
	return s.mutate(ctx, cartID, func(tx bun.Tx, cart *cartRow, current []*cartLineRow) error {
		for _, in := range lines {
			if in.Quantity < 1 {
				return invalidInput("quantity must be positive")
			}
			if err := s.requireVariant(ctx, tx, in.MerchandiseID); err != nil {
				return err
			}
		}

		for _, in := range lines {
			idx := slices.IndexFunc(current, func(l *cartLineRow) bool { return l.MerchandiseID == in.MerchandiseID })
			if idx >= 0 {
				current[idx].Quantity += in.Quantity
				if _, err := s.cartLines.UpdateTx(ctx, tx, current[idx]); err != nil {
					return queryError(err, "update cart line")
				}
				continue
			}
			line := &cartLineRow{
				ID:            uuid.New(),
				LineID:        lineIDPrefix + uuid.NewString(),
				CartID:        cart.CartID,
				MerchandiseID: in.MerchandiseID,
				Quantity:      in.Quantity,
				Position:      nextPosition(current),
			}
			if _, err := s.cartLines.CreateTx(ctx, tx, line); err != nil {
				return queryError(err, "create cart line")
			}
			current = append(current, line)
		}
		return nil
	})
}

// RemoveFromCart drops the lines with the given ids. Unknown ids are ignored.
func (s *Store) RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*storefront.RawCart, error) {
	return s.mutate(ctx, cartID, func(tx bun.Tx, cart *cartRow, _ []*cartLineRow) error {
		if len(lineIDs) == 0 {
			return nil
		}
		err := s.cartLines.DeleteWhereTx(ctx, tx, func(q *bun.DeleteQuery) *bun.DeleteQuery {
			return q.Where("cart_id = ?", cart.CartID).Where("line_id IN (?)", bun.In(lineIDs))
		})
		if err != nil {
			return queryError(err, "delete cart lines")
		}
		return nil
	})
}

// UpdateCart rewrites existing lines. A quantity of zero removes the line.
func (s *Store) UpdateCart(ctx context.Context, cartID string, lines []storefront.CartLineUpdate) (*storefront.RawCart, error) {
	return s.mutate(ctx, cartID, func(tx bun.Tx, _ *cartRow, current []*cartLineRow) error {
		for _, up := range lines {
			idx := slices.IndexFunc(current, func(l *cartLineRow) bool { return l.LineID == up.ID })
			if idx < 0 {
				return invalidInput("unknown cart line " + up.ID)
			}
			if up.Quantity < 0 {
				return invalidInput("quantity must not be negative")
			}
			line := current[idx]

			if up.Quantity == 0 {
				if err := s.cartLines.ForceDeleteTx(ctx, tx, line); err != nil {
					return queryError(err, "delete cart line")
				}
				continue
			}
			if up.MerchandiseID != "" {
				if err := s.requireVariant(ctx, tx, up.MerchandiseID); err != nil {
					return err
				}
				line.MerchandiseID = up.MerchandiseID
			}
			line.Quantity = up.Quantity
			if _, err := s.cartLines.UpdateTx(ctx, tx, line); err != nil {
				return queryError(err, "update cart line")
			}
		}
		return nil
	})
}

// mutate runs fn in a transaction with the cart and its lines loaded, then
// touches the cart and returns it priced. A failing fn rolls back every write.
func (s *Store) mutate(ctx context.Context, cartID string, fn func(tx bun.Tx, cart *cartRow, lines []*cartLineRow) error) (*storefront.RawCart, error) {
	var out *storefront.RawCart
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		cart, err := s.carts.GetByIdentifierTx(ctx, tx, cartID)
		if err != nil {
			return lookupError(err, "cart", cartID)
		}
		lines, err := s.lines(ctx, tx, cart.CartID)
		if err != nil {
			return err
		}
		if err := fn(tx, cart, lines); err != nil {
			return err
		}

		cart.UpdatedAt = s.now().UTC()
		if _, err := s.carts.UpdateTx(ctx, tx, cart); err != nil {
			return queryError(err, "touch cart")
		}
		out, err = s.price(ctx, tx, cart)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) lines(ctx context.Context, db bun.IDB, cartID string) ([]*cartLineRow, error) {
	rows, _, err := s.cartLines.ListTx(ctx, db,
		where("cl.cart_id = ?", cartID),
		orderBy("cl.position ASC"),
	)
	if err != nil {
		return nil, queryError(err, "list cart lines")
	}
	return rows, nil
}

func (s *Store) requireVariant(ctx context.Context, db bun.IDB, merchandiseID string) error {
	if _, err := s.variants.GetByIdentifierTx(ctx, db, merchandiseID); err != nil {
		if isNoRows(err) {
			return invalidInput("unknown merchandise " + merchandiseID)
		}
		return queryError(err, "get variant "+merchandiseID)
	}
	return nil
}

// price loads the variants and products behind the cart lines and totals
// them.
func (s *Store) price(ctx context.Context, db bun.IDB, cart *cartRow) (*storefront.RawCart, error) {
	rows, err := s.lines(ctx, db, cart.CartID)
	if err != nil {
		return nil, err
	}

	lines := make([]cartprice.Line, 0, len(rows))
	for _, row := range rows {
		v, err := s.variants.GetByIdentifierTx(ctx, db, row.MerchandiseID)
		if err != nil {
			return nil, lookupError(err, "variant", row.MerchandiseID)
		}
		var product storefront.CartProduct
		p, err := s.products.GetByIdentifierTx(ctx, db, v.ProductHandle)
		switch {
		case err == nil:
			product = cartprice.ProductOf(p.raw())
		case !isNoRows(err):
			return nil, queryError(err, "get product "+v.ProductHandle)
		}
		lines = append(lines, cartprice.Line{
			ID:       row.LineID,
			Quantity: row.Quantity,
			Variant:  v.variant(),
			Product:  product,
		})
	}

	return cartprice.Build(cartprice.Cart{
		ID:          cart.CartID,
		CheckoutURL: s.checkoutDomain + "/cart/c/" + cart.Token,
		Currency:    s.currency,
	}, lines), nil
}

func nextPosition(lines []*cartLineRow) int {
	next := 0
	for _, l := range lines {
		if l.Position >= next {
			next = l.Position + 1
		}
	}
	return next
}

func invalidInput(msg string) error {
	return goerrors.Wrap(ErrInvalidCartInput, goerrors.CategoryValidation, "sqlstore: "+msg)
}
