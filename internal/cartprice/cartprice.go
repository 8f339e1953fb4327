// Package cartprice totals cart lines with exact decimal arithmetic for the
// backends that price carts themselves.
package cartprice

import (
	"slices"

	"github.com/shopspring/decimal"

	"github.com/goliatone/go-storefront/connection"
	"github.com/goliatone/go-storefront/storefront"
)

// Line is one priced cart line.
type Line struct {
	ID       string
	Quantity int
	Variant  storefront.ProductVariant
	Product  storefront.CartProduct
}

// Cart identifies the cart being priced.
type Cart struct {
	ID          string
	CheckoutURL string
	// Currency is reported when no line carries one.
	Currency string
}

// Build prices lines into a raw cart. Amounts are formatted with two
// decimals; unparsable prices count as zero. Tax is left unset so readers
// apply their default.
func Build(c Cart, lines []Line) *storefront.RawCart {
	currency := c.Currency
	for _, l := range lines {
		if l.Variant.Price.CurrencyCode != "" {
			currency = l.Variant.Price.CurrencyCode
			break
		}
	}

	subtotal := decimal.Zero
	quantity := 0
	items := make([]storefront.CartItem, 0, len(lines))
	for _, l := range lines {
		price, err := decimal.NewFromString(l.Variant.Price.Amount)
		if err != nil {
			price = decimal.Zero
		}
		lineTotal := price.Mul(decimal.NewFromInt(int64(l.Quantity)))
		subtotal = subtotal.Add(lineTotal)
		quantity += l.Quantity

		items = append(items, storefront.CartItem{
			ID:       l.ID,
			Quantity: l.Quantity,
			Cost: storefront.CartLineCost{
				TotalAmount: storefront.Money{Amount: lineTotal.StringFixed(2), CurrencyCode: currency},
			},
			Merchandise: storefront.Merchandise{
				ID:              l.Variant.ID,
				Title:           l.Variant.Title,
				SelectedOptions: slices.Clone(l.Variant.SelectedOptions),
				Product:         l.Product,
			},
		})
	}

	total := storefront.Money{Amount: subtotal.StringFixed(2), CurrencyCode: currency}
	return &storefront.RawCart{
		ID:          c.ID,
		CheckoutURL: c.CheckoutURL,
		Cost: storefront.RawCartCost{
			SubtotalAmount: total,
			TotalAmount:    total,
		},
		Lines:         connection.FromNodes(items),
		TotalQuantity: quantity,
	}
}

// ProductOf returns the cart summary of p.
func ProductOf(p *storefront.RawProduct) storefront.CartProduct {
	if p == nil {
		return storefront.CartProduct{}
	}
	return storefront.CartProduct{
		ID:            p.ID,
		Handle:        p.Handle,
		Title:         p.Title,
		FeaturedImage: p.FeaturedImage,
	}
}
