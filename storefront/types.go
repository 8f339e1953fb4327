package storefront

import (
	"time"

	"github.com/goliatone/go-storefront/connection"
)

// Money is a decimal amount paired with an ISO 4217 currency code.
// Amounts stay strings end to end; they are never converted to floats.
type Money struct {
	Amount       string `json:"amount" firestore:"amount"`
	CurrencyCode string `json:"currencyCode" firestore:"currencyCode"`
}

// SEO holds the search engine title and description of an entity.
type SEO struct {
	Title       string `json:"title" firestore:"title"`
	Description string `json:"description" firestore:"description"`
}

// Image is a product or variant image. AltText is synthesized when empty.
type Image struct {
	URL     string `json:"url" firestore:"url"`
	AltText string `json:"altText" firestore:"altText"`
	Width   int    `json:"width" firestore:"width"`
	Height  int    `json:"height" firestore:"height"`
}

// ProductOption is a configurable axis such as size or colour.
type ProductOption struct {
	ID     string   `json:"id" firestore:"id"`
	Name   string   `json:"name" firestore:"name"`
	Values []string `json:"values" firestore:"values"`
}

// SelectedOption is the value a variant takes for one option.
type SelectedOption struct {
	Name  string `json:"name" firestore:"name"`
	Value string `json:"value" firestore:"value"`
}

// ProductVariant is one purchasable combination of option values.
type ProductVariant struct {
	ID               string           `json:"id" firestore:"id"`
	Title            string           `json:"title" firestore:"title"`
	AvailableForSale bool             `json:"availableForSale" firestore:"availableForSale"`
	SelectedOptions  []SelectedOption `json:"selectedOptions" firestore:"selectedOptions"`
	Price            Money            `json:"price" firestore:"price"`
}

// PriceRange bounds the prices of a product's variants.
type PriceRange struct {
	MaxVariantPrice Money `json:"maxVariantPrice" firestore:"maxVariantPrice"`
	MinVariantPrice Money `json:"minVariantPrice" firestore:"minVariantPrice"`
}

// RawProduct is a product as delivered by the upstream, with images and
// variants still wrapped in connections.
type RawProduct struct {
	ID               string                                `json:"id"`
	Handle           string                                `json:"handle"`
	AvailableForSale bool                                  `json:"availableForSale"`
	Title            string                                `json:"title"`
	Description      string                                `json:"description"`
	DescriptionHTML  string                                `json:"descriptionHtml"`
	Options          []ProductOption                       `json:"options"`
	PriceRange       PriceRange                            `json:"priceRange"`
	Variants         connection.Connection[ProductVariant] `json:"variants"`
	FeaturedImage    Image                                 `json:"featuredImage"`
	Images           connection.Connection[Image]          `json:"images"`
	SEO              SEO                                   `json:"seo"`
	Tags             []string                              `json:"tags"`
	CreatedAt        time.Time                             `json:"createdAt"`
	UpdatedAt        time.Time                             `json:"updatedAt"`
}

// Product is the flattened product handed to rendering collaborators.
type Product struct {
	ID               string           `json:"id"`
	Handle           string           `json:"handle"`
	AvailableForSale bool             `json:"availableForSale"`
	Title            string           `json:"title"`
	Description      string           `json:"description"`
	DescriptionHTML  string           `json:"descriptionHtml"`
	Options          []ProductOption  `json:"options"`
	PriceRange       PriceRange       `json:"priceRange"`
	Variants         []ProductVariant `json:"variants"`
	FeaturedImage    Image            `json:"featuredImage"`
	Images           []Image          `json:"images"`
	SEO              SEO              `json:"seo"`
	Tags             []string         `json:"tags"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// RawCollection is a collection as delivered by the upstream.
type RawCollection struct {
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SEO         SEO       `json:"seo"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Collection adds the storefront search path derived from the handle.
type Collection struct {
	Handle      string    `json:"handle"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	SEO         SEO       `json:"seo"`
	UpdatedAt   time.Time `json:"updatedAt"`
	Path        string    `json:"path"`
}

// CartProduct is the product summary carried by a cart line.
type CartProduct struct {
	ID            string `json:"id"`
	Handle        string `json:"handle"`
	Title         string `json:"title"`
	FeaturedImage Image  `json:"featuredImage"`
}

// Merchandise is the variant a cart line refers to.
type Merchandise struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	SelectedOptions []SelectedOption `json:"selectedOptions"`
	Product         CartProduct      `json:"product"`
}

// CartLineCost is the total of one cart line.
type CartLineCost struct {
	TotalAmount Money `json:"totalAmount"`
}

// CartItem is one line of a cart.
type CartItem struct {
	ID          string       `json:"id"`
	Quantity    int          `json:"quantity"`
	Cost        CartLineCost `json:"cost"`
	Merchandise Merchandise  `json:"merchandise"`
}

// RawCartCost is the upstream cost breakdown. TotalTaxAmount may be absent.
type RawCartCost struct {
	SubtotalAmount Money  `json:"subtotalAmount"`
	TotalAmount    Money  `json:"totalAmount"`
	TotalTaxAmount *Money `json:"totalTaxAmount"`
}

// CartCost is the reshaped cost breakdown; TotalTaxAmount is always set.
type CartCost struct {
	SubtotalAmount Money `json:"subtotalAmount"`
	TotalAmount    Money `json:"totalAmount"`
	TotalTaxAmount Money `json:"totalTaxAmount"`
}

// RawCart is a cart as delivered by the upstream, lines still wrapped.
type RawCart struct {
	ID            string                          `json:"id"`
	CheckoutURL   string                          `json:"checkoutUrl"`
	Cost          RawCartCost                     `json:"cost"`
	Lines         connection.Connection[CartItem] `json:"lines"`
	TotalQuantity int                             `json:"totalQuantity"`
}

// Cart is the cart handed to renderers, with lines flattened.
type Cart struct {
	ID            string     `json:"id"`
	CheckoutURL   string     `json:"checkoutUrl"`
	Cost          CartCost   `json:"cost"`
	Lines         []CartItem `json:"lines"`
	TotalQuantity int        `json:"totalQuantity"`
}

// CartLineInput adds merchandise to a cart.
type CartLineInput struct {
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// CartLineUpdate changes the merchandise or quantity of an existing line.
type CartLineUpdate struct {
	ID            string `json:"id"`
	MerchandiseID string `json:"merchandiseId"`
	Quantity      int    `json:"quantity"`
}

// RawMenuItem is a menu entry with its absolute upstream URL.
type RawMenuItem struct {
	Title string `json:"title" firestore:"title"`
	URL   string `json:"url" firestore:"url"`
}

// MenuItem is a menu entry with a storefront-relative path.
type MenuItem struct {
	Title string `json:"title"`
	Path  string `json:"path"`
}

// Page is a content page.
type Page struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Handle      string    `json:"handle"`
	Body        string    `json:"body"`
	BodySummary string    `json:"bodySummary"`
	SEO         *SEO      `json:"seo,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}
