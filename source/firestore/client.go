// Package firestore reads the storefront catalogue from Cloud Firestore.
//
// Documents are keyed by handle in four collections: "collections",
// "products", "menus" and "pages". Product documents carry the handles of the
// collections they belong to, plus their position within each one, so
// collection listings are a single array-contains query. Search and sorting
// run in process with storefront.FilterProducts and storefront.SortProducts.
//
// Seed writes a storefront.Catalog in that layout.
package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	goerrors "github.com/goliatone/go-errors"
	"google.golang.org/api/option"
)

// Collection names.
const (
	CollectionsCollection = "collections"
	ProductsCollection    = "products"
	MenusCollection       = "menus"
	PagesCollection       = "pages"
)

// NewClient connects to projectID. An empty credentialsFile uses Application
// Default Credentials; FIRESTORE_EMULATOR_HOST is honoured by the SDK.
func NewClient(ctx context.Context, projectID, credentialsFile string) (*firestore.Client, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := firestore.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryExternal, "firestore: create client").
			WithTextCode("FIRESTORE_CONNECT")
	}
	return client, nil
}
