package storefront

import (
	"regexp"
	"slices"
	"strings"

	"github.com/goliatone/go-storefront/connection"
)

const (
	// DefaultHiddenProductTag marks products excluded from listings.
	DefaultHiddenProductTag = "nextjs-frontend-hidden"

	// HiddenCollectionPrefix marks collections excluded from end user listings.
	HiddenCollectionPrefix = "hidden"

	// SearchPathPrefix is prepended to a collection handle to build its path.
	SearchPathPrefix = "/search/"
)

// filenamePattern captures the text between the last slash and the last dot.
var filenamePattern = regexp.MustCompile(`.*/(.*)\..*`)

// Reshaper converts upstream entities into storefront entities.
// The zero value filters on DefaultHiddenProductTag.
type Reshaper struct {
	HiddenTag string
}

// DefaultReshaper backs the package level Reshape helpers.
var DefaultReshaper = Reshaper{HiddenTag: DefaultHiddenProductTag}

func (r Reshaper) hiddenTag() string {
	if r.HiddenTag == "" {
		return DefaultHiddenProductTag
	}
	return r.HiddenTag
}

// Product flattens raw. It returns nil when raw is nil, or when filterHidden
// is set and raw carries the hidden tag.
func (r Reshaper) Product(raw *RawProduct, filterHidden bool) *Product {
	if raw == nil {
		return nil
	}
	if filterHidden && slices.Contains(raw.Tags, r.hiddenTag()) {
		return nil
	}

	return &Product{
		ID:               raw.ID,
		Handle:           raw.Handle,
		AvailableForSale: raw.AvailableForSale,
		Title:            raw.Title,
		Description:      raw.Description,
		DescriptionHTML:  raw.DescriptionHTML,
		Options:          slices.Clone(raw.Options),
		PriceRange:       raw.PriceRange,
		Variants:         connection.Unwrap(raw.Variants),
		FeaturedImage:    raw.FeaturedImage,
		Images:           ReshapeImages(raw.Images, raw.Title),
		SEO:              raw.SEO,
		Tags:             slices.Clone(raw.Tags),
		CreatedAt:        raw.CreatedAt,
		UpdatedAt:        raw.UpdatedAt,
	}
}

// Products reshapes each entry with hidden filtering, dropping nil inputs and
// filtered products. Input order is kept.
func (r Reshaper) Products(raws []*RawProduct) []Product {
	out := make([]Product, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		if p := r.Product(raw, true); p != nil {
			out = append(out, *p)
		}
	}
	return out
}

// ReshapeProduct uses DefaultReshaper.
func ReshapeProduct(raw *RawProduct, filterHidden bool) *Product {
	return DefaultReshaper.Product(raw, filterHidden)
}

// ReshapeProducts uses DefaultReshaper.
func ReshapeProducts(raws []*RawProduct) []Product {
	return DefaultReshaper.Products(raws)
}

// ReshapeImages flattens images and fills in blank alt text as
// "{productTitle} - {filename}".
func ReshapeImages(images connection.Connection[Image], productTitle string) []Image {
	flat := connection.Unwrap(images)
	for i := range flat {
		if flat[i].AltText == "" {
			flat[i].AltText = productTitle + " - " + FilenameFromURL(flat[i].URL)
		}
	}
	return flat
}

// FilenameFromURL returns the last path segment of rawURL without its
// extension. When nothing can be extracted it returns "undefined", which ends
// up verbatim in synthesized alt text.
func FilenameFromURL(rawURL string) string {
	m := filenamePattern.FindStringSubmatch(rawURL)
	if m == nil {
		return "undefined"
	}
	return m[1]
}

// ReshapeCollection derives the search path of raw. It returns nil for nil input.
func ReshapeCollection(raw *RawCollection) *Collection {
	if raw == nil {
		return nil
	}
	return &Collection{
		Handle:      raw.Handle,
		Title:       raw.Title,
		Description: raw.Description,
		SEO:         raw.SEO,
		UpdatedAt:   raw.UpdatedAt,
		Path:        SearchPathPrefix + raw.Handle,
	}
}

// ReshapeCollections reshapes each non-nil entry, keeping input order.
// It does not apply the hidden prefix convention; see VisibleCollections.
func ReshapeCollections(raws []*RawCollection) []Collection {
	out := make([]Collection, 0, len(raws))
	for _, raw := range raws {
		if raw == nil {
			continue
		}
		if c := ReshapeCollection(raw); c != nil {
			out = append(out, *c)
		}
	}
	return out
}

// VisibleCollections drops collections whose handle starts with
// HiddenCollectionPrefix. Listings shown to end users apply it on top of
// ReshapeCollections.
func VisibleCollections(collections []Collection) []Collection {
	out := make([]Collection, 0, len(collections))
	for _, c := range collections {
		if strings.HasPrefix(c.Handle, HiddenCollectionPrefix) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// ReshapeCart flattens the cart lines and guarantees a tax amount, defaulting
// to zero in the currency of the total. raw is left untouched.
func ReshapeCart(raw *RawCart) *Cart {
	if raw == nil {
		return nil
	}

	tax := Money{Amount: "0.0", CurrencyCode: raw.Cost.TotalAmount.CurrencyCode}
	if raw.Cost.TotalTaxAmount != nil {
		tax = *raw.Cost.TotalTaxAmount
	}

	return &Cart{
		ID:          raw.ID,
		CheckoutURL: raw.CheckoutURL,
		Cost: CartCost{
			SubtotalAmount: raw.Cost.SubtotalAmount,
			TotalAmount:    raw.Cost.TotalAmount,
			TotalTaxAmount: tax,
		},
		Lines:         connection.Unwrap(raw.Lines),
		TotalQuantity: raw.TotalQuantity,
	}
}
