package sqlstore

import (
	"context"
	"encoding/json"
	"os"

	goerrors "github.com/goliatone/go-errors"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/catalog"
)

// SeedStats counts the records written by Seed.
type SeedStats struct {
	Categories int `json:"categories"`
	Products   int `json:"products"`
	Locations  int `json:"locations"`
}

// Seed validates seed and replaces the catalog contents with it in one
// transaction.
func (s *Store) Seed(ctx context.Context, seed catalog.Seed) (SeedStats, error) {
	if err := seed.Validate(); err != nil {
		return SeedStats{}, err
	}

	var stats SeedStats
	err := s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		for _, model := range []any{(*productRow)(nil), (*categoryRow)(nil), (*locationRow)(nil)} {
			if _, err := tx.NewDelete().Model(model).Where("1 = 1").Exec(ctx); err != nil {
				return err
			}
		}

		categoryIDs := make(map[int64]uuid.UUID, len(seed.Categories))
		for _, c := range seed.Categories {
			row, err := s.categories.CreateTx(ctx, tx, categoryFromCatalog(c))
			if err != nil {
				return err
			}
			categoryIDs[c.ID] = row.ID
			stats.Categories++
		}
		for _, p := range seed.Products {
			if _, err := s.products.CreateTx(ctx, tx, productFromCatalog(p, categoryIDs[p.Category.ID])); err != nil {
				return err
			}
			stats.Products++
		}
		for _, l := range seed.Locations {
			if _, err := s.locations.CreateTx(ctx, tx, locationFromCatalog(l)); err != nil {
				return err
			}
			stats.Locations++
		}
		return nil
	})
	if err != nil {
		return SeedStats{}, goerrors.Wrap(err, goerrors.CategoryOperation, "seed catalog")
	}

	s.logger.Info("catalog seeded", "categories", stats.Categories, "products", stats.Products, "locations", stats.Locations)
	return stats, nil
}

// LoadSeed reads a JSON catalog snapshot from path.
func LoadSeed(path string) (catalog.Seed, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.Seed{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "read seed file")
	}
	var seed catalog.Seed
	if err := json.Unmarshal(data, &seed); err != nil {
		return catalog.Seed{}, goerrors.Wrap(err, goerrors.CategoryBadInput, "decode seed file").
			WithTextCode(catalog.ErrCodeDecode)
	}
	return seed, nil
}
