package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/catalog/sqlstore"
	"github.com/goliatone/go-storefront/resource"
)

// NewSeedCommand replaces the SQL catalog with a JSON snapshot.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <catalog.json>",
		Short: "Load a catalog snapshot into the SQL store",
		Long: `Validate a JSON snapshot of categories, products and locations and
replace the SQL catalog with it. Requires catalog.source: sql.

Example:
  storefront --config storefront.yaml seed ./catalog.json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := sqlstore.LoadSeed(args[0])
			if err != nil {
				return WrapExitError(ExitCommandError, "failed to read seed", err)
			}
			c, err := opts.container(cmd.Context())
			if err != nil {
				return err
			}
			defer closeContainer(c, c.Logger())

			store, ok := c.SQLStore()
			if !ok {
				return NewExitError(ExitCommandError, "seed needs catalog.source: sql")
			}
			stats, err := store.Seed(cmd.Context(), seed)
			if err != nil {
				return opts.output().Failure("seed failed", err)
			}
			return opts.output().Success(stats, func(w io.Writer) {
				fmt.Fprintf(w, "categories\t%d\n", stats.Categories)
				fmt.Fprintf(w, "products\t%d\n", stats.Products)
				fmt.Fprintf(w, "locations\t%d\n", stats.Locations)
			})
		},
	}
}

// NewCategoriesCommand lists the categories.
func NewCategoriesCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List product categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.container(cmd.Context())
			if err != nil {
				return err
			}
			defer closeContainer(c, c.Logger())

			page := c.NewListPage()
			defer page.Destroy()
			if err := opts.settle(cmd.Context(), c); err != nil {
				return err
			}
			if page.Categories.Status() == resource.Error {
				return opts.output().Failure("failed to list categories", page.Categories.Err())
			}
			categories := page.Categories.Value()
			return opts.output().Success(categories, func(w io.Writer) {
				fmt.Fprintln(w, "ID\tSLUG\tNAME")
				for _, cat := range categories {
					fmt.Fprintf(w, "%d\t%s\t%s\n", cat.ID, cat.Slug, cat.Name)
				}
			})
		},
	}
}

// ProductsOptions holds the products flags.
type ProductsOptions struct {
	*RootOptions
	Category string
	Filter   string
	Search   string
}

// NewProductsCommand lists products, optionally by category and filter.
func NewProductsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ProductsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "products",
		Short: "List products",
		Long: `List products, optionally of one category. --filter takes a boolean
expression over id, title, slug, description, price, category and images.

Example:
  storefront products --category electronics --filter 'price < 500'`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.container(cmd.Context())
			if err != nil {
				return err
			}
			defer closeContainer(c, c.Logger())

			page := c.NewListPage()
			defer page.Destroy()
			if opts.Category != "" {
				page.SetSlug(opts.Category)
			}
			page.SetFilter(opts.Filter)
			page.SetSearch(opts.Search)
			if err := opts.settle(cmd.Context(), c); err != nil {
				return err
			}

			if page.Products.Status() == resource.Error {
				return opts.output().Failure("failed to list products", page.Products.Err())
			}
			view := page.Visible()
			if view.Err != nil {
				return WrapExitError(ExitCommandError, "invalid --filter", view.Err)
			}
			return opts.output().Success(view.Products, func(w io.Writer) {
				renderProducts(w, view.Products)
			})
		},
	}

	cmd.Flags().StringVar(&opts.Category, "category", "", "category slug")
	cmd.Flags().StringVar(&opts.Filter, "filter", "", "expr-lang boolean filter")
	cmd.Flags().StringVar(&opts.Search, "search", "", "case-insensitive title search")
	return cmd
}

type productDetail struct {
	Product catalog.Product   `json:"product"`
	Cover   string            `json:"cover"`
	Related []catalog.Product `json:"related"`
}

// NewProductCommand shows one product and its related products.
func NewProductCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "product <slug>",
		Short: "Show a product with related products",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.container(cmd.Context())
			if err != nil {
				return err
			}
			defer closeContainer(c, c.Logger())

			detail := c.NewDetailPage()
			related := c.NewRelatedWidget()
			defer detail.Destroy()
			defer related.Destroy()

			detail.SetSlug(args[0])
			related.SetSlug(args[0])
			if err := opts.settle(cmd.Context(), c); err != nil {
				return err
			}
			if detail.Product.Status() == resource.Error {
				return opts.output().Failure("failed to load product", detail.Product.Err())
			}

			out := productDetail{
				Product: detail.Product.Value(),
				Cover:   detail.Cover(),
				Related: related.Related.Value(),
			}
			if related.Related.Status() == resource.Error {
				c.Logger().Warn("related products unavailable", "slug", args[0], "error", related.Related.Err())
			}
			return opts.output().Success(out, func(w io.Writer) {
				p := out.Product
				fmt.Fprintf(w, "title\t%s\n", p.Title)
				fmt.Fprintf(w, "slug\t%s\n", p.Slug)
				fmt.Fprintf(w, "price\t%s\n", formatPrice(p.Price))
				fmt.Fprintf(w, "category\t%s\n", p.Category.Name)
				fmt.Fprintf(w, "cover\t%s\n", out.Cover)
				if p.Description != "" {
					fmt.Fprintf(w, "description\t%s\n", p.Description)
				}
				if len(out.Related) > 0 {
					fmt.Fprintln(w, "\nRELATED")
					renderProducts(w, out.Related)
				}
			})
		},
	}
}

type cartSummary struct {
	Items []catalog.Product `json:"items"`
	Count int               `json:"count"`
	Total float64           `json:"total"`
}

// NewCartCommand adds products to an in-process cart and prints it.
func NewCartCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "cart <slug>...",
		Short: "Add products to a cart and print the total",
		Long: `Add each product to a fresh cart, in order, and print the lines and
the total. Repeating a slug adds the product again.

Example:
  storefront cart laptop phone phone`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.container(cmd.Context())
			if err != nil {
				return err
			}
			defer closeContainer(c, c.Logger())

			detail := c.NewDetailPage()
			defer detail.Destroy()
			header := c.NewHeader()
			defer header.Destroy()

			for _, slug := range args {
				detail.SetSlug(slug)
				if err := opts.settle(cmd.Context(), c); err != nil {
					return err
				}
				if !detail.AddToCart() {
					return opts.output().Failure("failed to add "+slug, detail.Product.Err())
				}
				// Re-adding the same slug keeps the key, so no refetch happens.
			}

			out := cartSummary{Items: header.Items(), Count: header.Count(), Total: header.Total()}
			return opts.output().Success(out, func(w io.Writer) {
				fmt.Fprintln(w, "#\tSLUG\tPRICE")
				for i, p := range out.Items {
					fmt.Fprintf(w, "%d\t%s\t%s\n", i+1, p.Slug, formatPrice(p.Price))
				}
				fmt.Fprintf(w, "\tTOTAL\t%s\n", formatPrice(out.Total))
			})
		},
	}
}

// LocationsOptions holds the locations flags.
type LocationsOptions struct {
	*RootOptions
	Lat float64
	Lng float64
}

// NewLocationsCommand lists stores nearest first.
func NewLocationsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &LocationsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "locations",
		Short: "List stores nearest to a position",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := opts.container(cmd.Context())
			if err != nil {
				return err
			}
			defer closeContainer(c, c.Logger())

			page := c.NewLocationsPage()
			defer page.Destroy()
			page.SetOrigin(opts.Lat, opts.Lng)
			if err := opts.settle(cmd.Context(), c); err != nil {
				return err
			}
			if page.Locations.Status() == resource.Error {
				return opts.output().Failure("failed to list locations", page.Locations.Err())
			}

			locations := page.Locations.Value()
			return opts.output().Success(locations, func(w io.Writer) {
				fmt.Fprintln(w, "NAME\tKM")
				for _, loc := range locations {
					km := catalog.DistanceKm(opts.Lat, opts.Lng, loc.Latitude, loc.Longitude)
					fmt.Fprintf(w, "%s\t%s\n", loc.Name, strconv.FormatFloat(km, 'f', 1, 64))
				}
			})
		},
	}

	cmd.Flags().Float64Var(&opts.Lat, "lat", 0, "latitude")
	cmd.Flags().Float64Var(&opts.Lng, "lng", 0, "longitude")
	cmd.MarkFlagsRequiredTogether("lat", "lng")
	_ = cmd.MarkFlagRequired("lat")
	return cmd
}

func renderProducts(w io.Writer, products []catalog.Product) {
	fmt.Fprintln(w, "ID\tSLUG\tTITLE\tPRICE\tCATEGORY")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", p.ID, p.Slug, strings.TrimSpace(p.Title), formatPrice(p.Price), p.Category.Slug)
	}
}

func formatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
