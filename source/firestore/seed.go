package firestore

import (
	"context"

	"cloud.google.com/go/firestore"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-storefront/storefront"
)

// Seed writes catalog into the storefront collections, overwriting documents
// with the same handles. Documents not in catalog are left alone.
func Seed(ctx context.Context, client *firestore.Client, catalog *storefront.Catalog) error {
	bw := client.BulkWriter(ctx)

	var jobs []*firestore.BulkWriterJob
	set := func(collection, id string, data any) error {
		job, err := bw.Set(client.Collection(collection).Doc(id), data)
		if err != nil {
			return goerrors.Wrap(err, goerrors.CategoryExternal, "firestore: enqueue "+collection+"/"+id)
		}
		jobs = append(jobs, job)
		return nil
	}

	for _, c := range catalog.Collections {
		if err := set(CollectionsCollection, c.Handle, newCollectionDoc(c)); err != nil {
			return err
		}
	}
	for _, p := range catalog.Products {
		if err := set(ProductsCollection, p.Handle, newProductDoc(p, catalog.Memberships)); err != nil {
			return err
		}
	}
	for handle, items := range catalog.Menus {
		if err := set(MenusCollection, handle, menuDoc{Items: items}); err != nil {
			return err
		}
	}
	for _, p := range catalog.Pages {
		if err := set(PagesCollection, p.Handle, newPageDoc(p)); err != nil {
			return err
		}
	}
	bw.End()

	for _, job := range jobs {
		if _, err := job.Results(); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryExternal, "firestore: seed write")
		}
	}
	return nil
}
