package testsupport

import (
	"strconv"
	"time"

	"github.com/goliatone/go-storefront/connection"
	"github.com/goliatone/go-storefront/storefront"
)

// SampleCatalog returns a small store shared by the backend tests: two
// collections (one hidden), three products (one tagged hidden), a menu and a
// page.
func SampleCatalog() *storefront.Catalog {
	day := func(d int) time.Time { return time.Date(2023, 1, d, 0, 0, 0, 0, time.UTC) }
	usd := func(amount string) storefront.Money {
		return storefront.Money{Amount: amount, CurrencyCode: "USD"}
	}
	product := func(n int, handle, title, price string, tags ...string) storefront.RawProduct {
		return storefront.RawProduct{
			ID:               "gid://shopify/Product/" + strconv.Itoa(n),
			Handle:           handle,
			AvailableForSale: true,
			Title:            title,
			Description:      title + " description",
			PriceRange:       storefront.PriceRange{MinVariantPrice: usd(price), MaxVariantPrice: usd(price)},
			Variants: connection.FromNodes([]storefront.ProductVariant{{
				ID:               "gid://shopify/ProductVariant/" + strconv.Itoa(n),
				Title:            "Default",
				AvailableForSale: true,
				Price:            usd(price),
			}}),
			FeaturedImage: storefront.Image{URL: "https://cdn.example.com/" + handle + ".jpg", Width: 800, Height: 600},
			Images:        connection.FromNodes([]storefront.Image{{URL: "https://cdn.example.com/" + handle + ".jpg", Width: 800, Height: 600}}),
			SEO:           storefront.SEO{Title: title, Description: title},
			Tags:          tags,
			CreatedAt:     day(n),
			UpdatedAt:     day(n + 10),
		}
	}

	return &storefront.Catalog{
		Collections: []storefront.RawCollection{
			{Handle: "summer", Title: "Summer", Description: "Summer picks", SEO: storefront.SEO{Title: "Summer", Description: "Summer picks"}, UpdatedAt: day(5)},
			{Handle: "hidden-homepage", Title: "Homepage", UpdatedAt: day(6)},
		},
		Products: []storefront.RawProduct{
			product(1, "acme-chair", "Acme Chair", "100.00", "furniture", "oak"),
			product(2, "lamp", "Desk Lamp", "20.00", "lighting", "furniture"),
			product(3, "prototype", "Prototype", "5.00", "nextjs-frontend-hidden", "furniture"),
		},
		Memberships: map[string][]string{
			"summer":          {"lamp", "acme-chair"},
			"hidden-homepage": {"acme-chair"},
		},
		Menus: map[string][]storefront.RawMenuItem{
			"main-menu": {
				{Title: "Summer", URL: "https://shop.example.com/collections/summer"},
				{Title: "About", URL: "https://shop.example.com/pages/about"},
			},
		},
		Pages: []storefront.Page{
			{ID: "page-1", Title: "About", Handle: "about", Body: "<p>About us</p>", BodySummary: "About us", SEO: &storefront.SEO{Title: "About", Description: "About us"}, CreatedAt: day(1), UpdatedAt: day(2)},
		},
	}
}
