package sqlstore

import (
	"context"
	"log/slog"

	goerrors "github.com/goliatone/go-errors"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/goliatone/go-storefront/catalog"
)

const (
	// RelatedLimit caps RelatedProducts.
	RelatedLimit = 10
	// listLimit caps every other list query.
	listLimit = 500
)

var _ catalog.Service = (*Store)(nil)

// Store implements catalog.Service on bun repositories.
type Store struct {
	db         *bun.DB
	categories repository.Repository[*categoryRow]
	products   repository.Repository[*productRow]
	locations  repository.Repository[*locationRow]
	logger     *slog.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the query logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New wraps an open database. Call Migrate before the first read.
func New(db *bun.DB, opts ...Option) *Store {
	s := &Store{
		db: db,
		categories: repository.NewRepository[*categoryRow](db, repository.ModelHandlers[*categoryRow]{
			NewRecord:     func() *categoryRow { return &categoryRow{} },
			GetID:         func(r *categoryRow) uuid.UUID { return r.ID },
			SetID:         func(r *categoryRow, id uuid.UUID) { r.ID = id },
			GetIdentifier: func() string { return "slug" },
		}),
		products: repository.NewRepository[*productRow](db, repository.ModelHandlers[*productRow]{
			NewRecord:     func() *productRow { return &productRow{} },
			GetID:         func(r *productRow) uuid.UUID { return r.ID },
			SetID:         func(r *productRow, id uuid.UUID) { r.ID = id },
			GetIdentifier: func() string { return "slug" },
		}),
		locations: repository.NewRepository[*locationRow](db, repository.ModelHandlers[*locationRow]{
			NewRecord:     func() *locationRow { return &locationRow{} },
			GetID:         func(r *locationRow) uuid.UUID { return r.ID },
			SetID:         func(r *locationRow, id uuid.UUID) { r.ID = id },
			GetIdentifier: func() string { return "name" },
		}),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DB exposes the underlying database.
func (s *Store) DB() *bun.DB {
	return s.db
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Migrate creates the catalog tables when missing.
func (s *Store) Migrate(ctx context.Context) error {
	models := []any{(*categoryRow)(nil), (*productRow)(nil), (*locationRow)(nil)}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return goerrors.Wrap(err, goerrors.CategoryOperation, "migrate catalog tables")
		}
	}
	return nil
}

func withCategory(q *bun.SelectQuery) *bun.SelectQuery {
	return q.Relation("Category")
}

func (s *Store) ListProducts(ctx context.Context, query catalog.ProductQuery) ([]catalog.Product, error) {
	criteria := []repository.SelectCriteria{
		withCategory,
		func(q *bun.SelectQuery) *bun.SelectQuery {
			if query.CategoryID != 0 {
				q = q.Where("category.ref = ?", query.CategoryID)
			}
			if query.CategorySlug != "" {
				q = q.Where("category.slug = ?", query.CategorySlug)
			}
			return q.Order("p.ref ASC").Limit(listLimit)
		},
	}
	rows, _, err := s.products.List(ctx, criteria...)
	if err != nil {
		return nil, s.readError(err, "list products")
	}
	return productsToCatalog(rows), nil
}

func (s *Store) ProductBySlug(ctx context.Context, slug string) (catalog.Product, error) {
	row, err := s.productBySlug(ctx, slug)
	if err != nil {
		return catalog.Product{}, err
	}
	return row.toCatalog(), nil
}

func (s *Store) productBySlug(ctx context.Context, slug string) (*productRow, error) {
	rows, _, err := s.products.List(ctx, withCategory, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Where("p.slug = ?", slug).Limit(1)
	})
	if err != nil {
		return nil, s.readError(err, "get product")
	}
	if len(rows) == 0 {
		return nil, catalog.NotFound("product", slug)
	}
	return rows[0], nil
}

// RelatedProducts returns up to RelatedLimit products of the same category,
// excluding the product itself.
func (s *Store) RelatedProducts(ctx context.Context, slug string) ([]catalog.Product, error) {
	product, err := s.productBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	rows, _, err := s.products.List(ctx, withCategory, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.
			Where("p.category_id = ?", product.CategoryID).
			Where("p.id != ?", product.ID).
			Order("p.ref ASC").
			Limit(RelatedLimit)
	})
	if err != nil {
		return nil, s.readError(err, "list related products")
	}
	return productsToCatalog(rows), nil
}

func (s *Store) ListCategories(ctx context.Context) ([]catalog.Category, error) {
	rows, _, err := s.categories.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("cat.ref ASC").Limit(listLimit)
	})
	if err != nil {
		return nil, s.readError(err, "list categories")
	}
	out := make([]catalog.Category, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toCatalog())
	}
	return out, nil
}

func (s *Store) ListLocations(ctx context.Context, origin string) ([]catalog.Location, error) {
	rows, _, err := s.locations.List(ctx, func(q *bun.SelectQuery) *bun.SelectQuery {
		return q.Order("loc.ref ASC").Limit(listLimit)
	})
	if err != nil {
		return nil, s.readError(err, "list locations")
	}
	out := make([]catalog.Location, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toCatalog())
	}
	return catalog.SortByDistance(out, origin), nil
}

func (s *Store) readError(err error, op string) error {
	s.logger.Error("catalog query failed", "op", op, "error", err)
	return goerrors.Wrap(err, goerrors.CategoryOperation, op).WithTextCode(catalog.ErrCodeUpstream)
}

func productsToCatalog(rows []*productRow) []catalog.Product {
	out := make([]catalog.Product, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toCatalog())
	}
	return out
}
