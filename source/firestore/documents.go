package firestore

import (
	"time"

	"github.com/goliatone/go-storefront/connection"
	"github.com/goliatone/go-storefront/storefront"
)

type collectionDoc struct {
	Handle      string         `firestore:"handle"`
	Title       string         `firestore:"title"`
	Description string         `firestore:"description"`
	SEO         storefront.SEO `firestore:"seo"`
	UpdatedAt   time.Time      `firestore:"updatedAt"`
}

func (d collectionDoc) raw() *storefront.RawCollection {
	return &storefront.RawCollection{
		Handle:      d.Handle,
		Title:       d.Title,
		Description: d.Description,
		SEO:         d.SEO,
		UpdatedAt:   d.UpdatedAt,
	}
}

func newCollectionDoc(c storefront.RawCollection) collectionDoc {
	return collectionDoc{
		Handle:      c.Handle,
		Title:       c.Title,
		Description: c.Description,
		SEO:         c.SEO,
		UpdatedAt:   c.UpdatedAt,
	}
}

// productDoc stores variants and images as plain arrays.
type productDoc struct {
	ID               string                      `firestore:"id"`
	Handle           string                      `firestore:"handle"`
	AvailableForSale bool                        `firestore:"availableForSale"`
	Title            string                      `firestore:"title"`
	Description      string                      `firestore:"description"`
	DescriptionHTML  string                      `firestore:"descriptionHtml"`
	Options          []storefront.ProductOption  `firestore:"options"`
	PriceRange       storefront.PriceRange       `firestore:"priceRange"`
	Variants         []storefront.ProductVariant `firestore:"variants"`
	FeaturedImage    storefront.Image            `firestore:"featuredImage"`
	Images           []storefront.Image          `firestore:"images"`
	SEO              storefront.SEO              `firestore:"seo"`
	Tags             []string                    `firestore:"tags"`
	Collections      []string                    `firestore:"collections"`
	Positions        map[string]int              `firestore:"positions"`
	CreatedAt        time.Time                   `firestore:"createdAt"`
	UpdatedAt        time.Time                   `firestore:"updatedAt"`
}

func (d productDoc) raw() *storefront.RawProduct {
	return &storefront.RawProduct{
		ID:               d.ID,
		Handle:           d.Handle,
		AvailableForSale: d.AvailableForSale,
		Title:            d.Title,
		Description:      d.Description,
		DescriptionHTML:  d.DescriptionHTML,
		Options:          d.Options,
		PriceRange:       d.PriceRange,
		Variants:         connection.FromNodes(d.Variants),
		FeaturedImage:    d.FeaturedImage,
		Images:           connection.FromNodes(d.Images),
		SEO:              d.SEO,
		Tags:             d.Tags,
		CreatedAt:        d.CreatedAt,
		UpdatedAt:        d.UpdatedAt,
	}
}

// newProductDoc flattens p and records its position in each collection of
// memberships that lists it.
func newProductDoc(p storefront.RawProduct, memberships map[string][]string) productDoc {
	doc := productDoc{
		ID:               p.ID,
		Handle:           p.Handle,
		AvailableForSale: p.AvailableForSale,
		Title:            p.Title,
		Description:      p.Description,
		DescriptionHTML:  p.DescriptionHTML,
		Options:          p.Options,
		PriceRange:       p.PriceRange,
		Variants:         connection.Unwrap(p.Variants),
		FeaturedImage:    p.FeaturedImage,
		Images:           connection.Unwrap(p.Images),
		SEO:              p.SEO,
		Tags:             p.Tags,
		Collections:      []string{},
		Positions:        map[string]int{},
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
	for collection, members := range memberships {
		for i, handle := range members {
			if handle == p.Handle {
				doc.Collections = append(doc.Collections, collection)
				doc.Positions[collection] = i
				break
			}
		}
	}
	return doc
}

type menuDoc struct {
	Items []storefront.RawMenuItem `firestore:"items"`
}

type pageDoc struct {
	ID          string          `firestore:"id"`
	Title       string          `firestore:"title"`
	Handle      string          `firestore:"handle"`
	Body        string          `firestore:"body"`
	BodySummary string          `firestore:"bodySummary"`
	SEO         *storefront.SEO `firestore:"seo"`
	CreatedAt   time.Time       `firestore:"createdAt"`
	UpdatedAt   time.Time       `firestore:"updatedAt"`
}

func (d pageDoc) page() *storefront.Page {
	return &storefront.Page{
		ID:          d.ID,
		Title:       d.Title,
		Handle:      d.Handle,
		Body:        d.Body,
		BodySummary: d.BodySummary,
		SEO:         d.SEO,
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

func newPageDoc(p storefront.Page) pageDoc {
	return pageDoc{
		ID:          p.ID,
		Title:       p.Title,
		Handle:      p.Handle,
		Body:        p.Body,
		BodySummary: p.BodySummary,
		SEO:         p.SEO,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}
