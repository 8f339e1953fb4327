package storefront

import "context"

// Cache tags used to partition cached reads for invalidation.
const (
	TagCollections = "collections"
	TagProducts    = "products"
	TagCart        = "cart"
)

// CollectionProductsQuery lists the products of one collection.
type CollectionProductsQuery struct {
	Collection string `json:"collection"`
	SortKey    string `json:"sortKey,omitempty"`
	Reverse    bool   `json:"reverse,omitempty"`
}

// ProductsQuery lists products matching an optional search query.
type ProductsQuery struct {
	Query   string `json:"query,omitempty"`
	SortKey string `json:"sortKey,omitempty"`
	Reverse bool   `json:"reverse,omitempty"`
}

// Source is the read side of the external commerce system. Lookups return an
// error satisfying IsNotFound when the entity does not exist. List results
// may contain nil entries; readers skip them.
type Source interface {
	Collection(ctx context.Context, handle string) (*RawCollection, error)
	Collections(ctx context.Context) ([]*RawCollection, error)
	CollectionProducts(ctx context.Context, q CollectionProductsQuery) ([]*RawProduct, error)
	Product(ctx context.Context, handle string) (*RawProduct, error)
	Products(ctx context.Context, q ProductsQuery) ([]*RawProduct, error)
	ProductRecommendations(ctx context.Context, productID string) ([]*RawProduct, error)
	Menu(ctx context.Context, handle string) ([]RawMenuItem, error)
	Page(ctx context.Context, handle string) (*Page, error)
	Pages(ctx context.Context) ([]*Page, error)
}

// CartSource is implemented by sources that can hold carts.
type CartSource interface {
	CreateCart(ctx context.Context) (*RawCart, error)
	Cart(ctx context.Context, cartID string) (*RawCart, error)
	AddToCart(ctx context.Context, cartID string, lines []CartLineInput) (*RawCart, error)
	RemoveFromCart(ctx context.Context, cartID string, lineIDs []string) (*RawCart, error)
	UpdateCart(ctx context.Context, cartID string, lines []CartLineUpdate) (*RawCart, error)
}
