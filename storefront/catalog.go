package storefront

import (
	"encoding/json"
	"io"
	"os"
	"slices"

	goerrors "github.com/goliatone/go-errors"
)

// Catalog is a portable snapshot of a store, used to seed the backends that
// keep their own copy of the data (memory, SQL, Firestore). Products keep the
// upstream connection shape so a Storefront API export can be loaded as is.
type Catalog struct {
	Collections []RawCollection `json:"collections"`
	Products    []RawProduct    `json:"products"`
	// Memberships maps a collection handle to the handles of its products,
	// in display order.
	Memberships map[string][]string      `json:"memberships"`
	Menus       map[string][]RawMenuItem `json:"menus"`
	Pages       []Page                   `json:"pages"`
}

// DecodeCatalog reads a JSON catalog from r.
func DecodeCatalog(r io.Reader) (*Catalog, error) {
	var c Catalog
	if err := json.NewDecoder(r).Decode(&c); err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryValidation, "storefront: decode catalog").
			WithTextCode("INVALID_CATALOG")
	}
	return &c, nil
}

// LoadCatalog reads a JSON catalog from path.
func LoadCatalog(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, goerrors.Wrap(err, goerrors.CategoryInternal, "storefront: open catalog "+path)
	}
	defer f.Close()
	return DecodeCatalog(f)
}

// CollectionsOf returns the handles of the collections listing productHandle,
// sorted.
func (c *Catalog) CollectionsOf(productHandle string) []string {
	var out []string
	for collection, members := range c.Memberships {
		if slices.Contains(members, productHandle) {
			out = append(out, collection)
		}
	}
	slices.Sort(out)
	return out
}
