package sqlstore

import (
	"context"
	"slices"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/connection"
	"github.com/goliatone/go-storefront/storefront"
)

// Seed replaces the catalogue tables with catalog in one transaction.
// Carts are kept.
func (s *Store) Seed(ctx context.Context, catalog *storefront.Catalog) error {
	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if err := s.clearCatalog(ctx, tx); err != nil {
			return err
		}

		collections := make([]*collectionRow, 0, len(catalog.Collections))
		for _, c := range catalog.Collections {
			collections = append(collections, &collectionRow{
				ID:          uuid.New(),
				Handle:      c.Handle,
				Title:       c.Title,
				Description: c.Description,
				SEO:         c.SEO,
				UpdatedAt:   c.UpdatedAt,
			})
		}

		products := make([]*productRow, 0, len(catalog.Products))
		var variants []*variantRow
		for i, p := range catalog.Products {
			products = append(products, newProductRow(p, i))
			for _, v := range connection.Unwrap(p.Variants) {
				variants = append(variants, &variantRow{
					ID:              uuid.New(),
					VariantID:       v.ID,
					ProductHandle:   p.Handle,
					Title:           v.Title,
					Price:           v.Price,
					SelectedOptions: v.SelectedOptions,
				})
			}
		}

		var memberships []*membershipRow
		for _, collection := range sortedKeys(catalog.Memberships) {
			for i, handle := range catalog.Memberships[collection] {
				memberships = append(memberships, &membershipRow{
					ID:               uuid.New(),
					CollectionHandle: collection,
					ProductHandle:    handle,
					Position:         i,
				})
			}
		}

		var menuItems []*menuItemRow
		for _, menu := range sortedKeys(catalog.Menus) {
			for i, item := range catalog.Menus[menu] {
				menuItems = append(menuItems, &menuItemRow{
					ID:         uuid.New(),
					MenuHandle: menu,
					Position:   i,
					Title:      item.Title,
					URL:        item.URL,
				})
			}
		}

		pages := make([]*pageRow, 0, len(catalog.Pages))
		for i, p := range catalog.Pages {
			pages = append(pages, &pageRow{
				ID:          uuid.New(),
				ExternalID:  p.ID,
				Handle:      p.Handle,
				Position:    i,
				Title:       p.Title,
				Body:        p.Body,
				BodySummary: p.BodySummary,
				SEO:         p.SEO,
				CreatedAt:   p.CreatedAt,
				UpdatedAt:   p.UpdatedAt,
			})
		}

		if err := createMany(ctx, tx, s.collections.CreateManyTx, collections); err != nil {
			return err
		}
		if err := createMany(ctx, tx, s.products.CreateManyTx, products); err != nil {
			return err
		}
		if err := createMany(ctx, tx, s.variants.CreateManyTx, variants); err != nil {
			return err
		}
		if err := createMany(ctx, tx, s.memberships.CreateManyTx, memberships); err != nil {
			return err
		}
		if err := createMany(ctx, tx, s.menuItems.CreateManyTx, menuItems); err != nil {
			return err
		}
		return createMany(ctx, tx, s.pages.CreateManyTx, pages)
	})
}

func (s *Store) clearCatalog(ctx context.Context, tx bun.Tx) error {
	var all repository.DeleteCriteria = func(q *bun.DeleteQuery) *bun.DeleteQuery {
		return q.Where("1 = 1")
	}
	steps := []func(context.Context, bun.IDB, ...repository.DeleteCriteria) error{
		s.memberships.DeleteWhereTx,
		s.menuItems.DeleteWhereTx,
		s.variants.DeleteWhereTx,
		s.products.DeleteWhereTx,
		s.collections.DeleteWhereTx,
		s.pages.DeleteWhereTx,
	}
	for _, deleteAll := range steps {
		if err := deleteAll(ctx, tx, all); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryInternal, "sqlstore: clear catalogue")
		}
	}
	return nil
}

func createMany[T any](ctx context.Context, tx bun.Tx, create func(context.Context, bun.IDB, []T, ...repository.InsertCriteria) ([]T, error), records []T) error {
	if len(records) == 0 {
		return nil
	}
	if _, err := create(ctx, tx, records); err != nil {
		return goerrors.Wrap(err, goerrors.CategoryInternal, "sqlstore: seed")
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
