package pages

import (
	"strings"

	exprlang "github.com/expr-lang/expr"
	exprvm "github.com/expr-lang/expr/vm"
	goerrors "github.com/goliatone/go-errors"

	"github.com/goliatone/go-storefront/catalog"
)

// CodeInvalidFilter marks filter expressions that fail to compile or run.
const CodeInvalidFilter = "PAGES_INVALID_FILTER"

// productEnv is what a filter expression sees, e.g.
// `price > 100 && category == "electronics"`.
type productEnv struct {
	ID          int64   `expr:"id"`
	Title       string  `expr:"title"`
	Slug        string  `expr:"slug"`
	Description string  `expr:"description"`
	Price       float64 `expr:"price"`
	Category    string  `expr:"category"`
	Images      int     `expr:"images"`
}

func envFor(p catalog.Product) productEnv {
	return productEnv{
		ID:          p.ID,
		Title:       p.Title,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category.Slug,
		Images:      len(p.Images),
	}
}

// compiledFilter is a compiled boolean expression. A nil program matches
// everything.
type compiledFilter struct {
	source  string
	program *exprvm.Program
	err     error
}

func compileFilter(source string) compiledFilter {
	source = strings.TrimSpace(source)
	if source == "" {
		return compiledFilter{}
	}
	program, err := exprlang.Compile(source, exprlang.Env(productEnv{}), exprlang.AsBool())
	if err != nil {
		return compiledFilter{source: source, err: filterError(source, err)}
	}
	return compiledFilter{source: source, program: program}
}

func (f compiledFilter) apply(products []catalog.Product, search string) ([]catalog.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	search = strings.ToLower(strings.TrimSpace(search))
	out := make([]catalog.Product, 0, len(products))
	for _, p := range products {
		if search != "" && !strings.Contains(strings.ToLower(p.Title), search) {
			continue
		}
		if f.program != nil {
			result, err := exprlang.Run(f.program, envFor(p))
			if err != nil {
				return nil, filterError(f.source, err)
			}
			if match, _ := result.(bool); !match {
				continue
			}
		}
		out = append(out, p)
	}
	return out, nil
}

func filterError(source string, err error) error {
	return goerrors.Wrap(err, goerrors.CategoryValidation, "invalid product filter "+source).
		WithTextCode(CodeInvalidFilter)
}
