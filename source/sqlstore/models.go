package sqlstore

import (
	"strings"
	"time"

	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/connection"
	"github.com/goliatone/go-storefront/storefront"
)

type collectionRow struct {
	bun.BaseModel `bun:"table:storefront_collections,alias:c"`

	ID          uuid.UUID      `bun:"id,pk,type:uuid"`
	Handle      string         `bun:"handle,notnull,unique"`
	Title       string         `bun:"title,notnull"`
	Description string         `bun:"description"`
	SEO         storefront.SEO `bun:"seo"`
	UpdatedAt   time.Time      `bun:"updated_at,notnull"`
}

func (r *collectionRow) raw() *storefront.RawCollection {
	return &storefront.RawCollection{
		Handle:      r.Handle,
		Title:       r.Title,
		Description: r.Description,
		SEO:         r.SEO,
		UpdatedAt:   r.UpdatedAt,
	}
}

// productRow keeps TagList as ",tag1,tag2," and SearchText lowercased so tag
// and term matching are plain LIKE filters on every dialect.
type productRow struct {
	bun.BaseModel `bun:"table:storefront_products,alias:p"`

	ID               uuid.UUID                   `bun:"id,pk,type:uuid"`
	ExternalID       string                      `bun:"external_id,notnull,unique"`
	Handle           string                      `bun:"handle,notnull,unique"`
	Position         int                         `bun:"position,notnull"`
	AvailableForSale bool                        `bun:"available_for_sale"`
	Title            string                      `bun:"title,notnull"`
	Description      string                      `bun:"description"`
	DescriptionHTML  string                      `bun:"description_html"`
	Options          []storefront.ProductOption  `bun:"options"`
	PriceRange       storefront.PriceRange       `bun:"price_range"`
	Variants         []storefront.ProductVariant `bun:"variants"`
	FeaturedImage    storefront.Image            `bun:"featured_image"`
	Images           []storefront.Image          `bun:"images"`
	SEO              storefront.SEO              `bun:"seo"`
	Tags             []string                    `bun:"tags"`
	TagList          string                      `bun:"tag_list"`
	SearchText       string                      `bun:"search_text"`
	CreatedAt        time.Time                   `bun:"created_at,notnull"`
	UpdatedAt        time.Time                   `bun:"updated_at,notnull"`
}

func newProductRow(p storefront.RawProduct, position int) *productRow {
	return &productRow{
		ID:               uuid.New(),
		ExternalID:       p.ID,
		Handle:           p.Handle,
		Position:         position,
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
		TagList:          tagList(p.Tags),
		SearchText:       strings.ToLower(p.Title + "\n" + p.Description + "\n" + strings.Join(p.Tags, "\n")),
		CreatedAt:        p.CreatedAt,
		UpdatedAt:        p.UpdatedAt,
	}
}

func (r *productRow) raw() *storefront.RawProduct {
	return &storefront.RawProduct{
		ID:               r.ExternalID,
		Handle:           r.Handle,
		AvailableForSale: r.AvailableForSale,
		Title:            r.Title,
		Description:      r.Description,
		DescriptionHTML:  r.DescriptionHTML,
		Options:          r.Options,
		PriceRange:       r.PriceRange,
		Variants:         connection.FromNodes(r.Variants),
		FeaturedImage:    r.FeaturedImage,
		Images:           connection.FromNodes(r.Images),
		SEO:              r.SEO,
		Tags:             r.Tags,
		CreatedAt:        r.CreatedAt,
		UpdatedAt:        r.UpdatedAt,
	}
}

func tagList(tags []string) string {
	if len(tags) == 0 {
		return ""
	}
	return "," + strings.Join(tags, ",") + ","
}

type membershipRow struct {
	bun.BaseModel `bun:"table:storefront_collection_products,alias:cp"`

	ID               uuid.UUID `bun:"id,pk,type:uuid"`
	CollectionHandle string    `bun:"collection_handle,notnull"`
	ProductHandle    string    `bun:"product_handle,notnull"`
	Position         int       `bun:"position,notnull"`
}

// variantRow indexes variants for cart pricing.
type variantRow struct {
	bun.BaseModel `bun:"table:storefront_variants,alias:v"`

	ID              uuid.UUID                   `bun:"id,pk,type:uuid"`
	VariantID       string                      `bun:"variant_id,notnull,unique"`
	ProductHandle   string                      `bun:"product_handle,notnull"`
	Title           string                      `bun:"title"`
	Price           storefront.Money            `bun:"price"`
	SelectedOptions []storefront.SelectedOption `bun:"selected_options"`
}

func (r *variantRow) variant() storefront.ProductVariant {
	return storefront.ProductVariant{
		ID:               r.VariantID,
		Title:            r.Title,
		AvailableForSale: true,
		SelectedOptions:  r.SelectedOptions,
		Price:            r.Price,
	}
}

type menuItemRow struct {
	bun.BaseModel `bun:"table:storefront_menu_items,alias:mi"`

	ID         uuid.UUID `bun:"id,pk,type:uuid"`
	MenuHandle string    `bun:"menu_handle,notnull"`
	Position   int       `bun:"position,notnull"`
	Title      string    `bun:"title"`
	URL        string    `bun:"url"`
}

type pageRow struct {
	bun.BaseModel `bun:"table:storefront_pages,alias:pg"`

	ID          uuid.UUID       `bun:"id,pk,type:uuid"`
	ExternalID  string          `bun:"external_id"`
	Handle      string          `bun:"handle,notnull,unique"`
	Position    int             `bun:"position,notnull"`
	Title       string          `bun:"title"`
	Body        string          `bun:"body"`
	BodySummary string          `bun:"body_summary"`
	SEO         *storefront.SEO `bun:"seo"`
	CreatedAt   time.Time       `bun:"created_at,notnull"`
	UpdatedAt   time.Time       `bun:"updated_at,notnull"`
}

func (r *pageRow) page() *storefront.Page {
	return &storefront.Page{
		ID:          r.ExternalID,
		Title:       r.Title,
		Handle:      r.Handle,
		Body:        r.Body,
		BodySummary: r.BodySummary,
		SEO:         r.SEO,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

type cartRow struct {
	bun.BaseModel `bun:"table:storefront_carts,alias:ct"`

	ID        uuid.UUID `bun:"id,pk,type:uuid"`
	CartID    string    `bun:"cart_id,notnull,unique"`
	Token     string    `bun:"token,notnull"`
	CreatedAt time.Time `bun:"created_at,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

type cartLineRow struct {
	bun.BaseModel `bun:"table:storefront_cart_lines,alias:cl"`

	ID            uuid.UUID `bun:"id,pk,type:uuid"`
	LineID        string    `bun:"line_id,notnull,unique"`
	CartID        string    `bun:"cart_id,notnull"`
	MerchandiseID string    `bun:"merchandise_id,notnull"`
	Quantity      int       `bun:"quantity,notnull"`
	Position      int       `bun:"position,notnull"`
}

// models lists every table in creation order.
func models() []any {
	return []any{
		(*collectionRow)(nil),
		(*productRow)(nil),
		(*membershipRow)(nil),
		(*variantRow)(nil),
		(*menuItemRow)(nil),
		(*pageRow)(nil),
		(*cartRow)(nil),
		(*cartLineRow)(nil),
	}
}

// handlers builds the go-repository-bun model handlers for a row type whose
// natural key lives in identifier.
func handlers[T any](newRecord func() T, id func(T) *uuid.UUID, identifier string) repository.ModelHandlers[T] {
	return repository.ModelHandlers[T]{
		NewRecord: newRecord,
		GetID: func(record T) uuid.UUID {
			return *id(record)
		},
		SetID: func(record T, v uuid.UUID) {
			*id(record) = v
		},
		GetIdentifier: func() string {
			return identifier
		},
	}
}
