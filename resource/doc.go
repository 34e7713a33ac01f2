// Package resource binds an asynchronous fetch to a reactive key.
//
// A Resource watches a key function through an effect. Whenever the key
// changes it starts a new generation, moves to Loading and runs the fetch
// on the runtime's goroutine pool. The result is applied on the owner
// goroutine only if its generation is still the latest one issued, so under
// rapid key churn the last key always wins:
//
//	slug := reactive.NewCell(rt, "electronics")
//	products := resource.New(rt,
//		func() (string, bool) { return slug.Get(), slug.Get() != "" },
//		func(ctx context.Context, slug string) ([]catalog.Product, error) {
//			return svc.ListProducts(ctx, catalog.ProductQuery{CategorySlug: slug})
//		},
//	)
//
//	slug.Set("clothing") // the electronics result is discarded when it lands
//	_ = rt.Wait(ctx)
//
// Superseded fetches also get their context cancelled, but correctness
// relies on the generation check alone.
package resource
