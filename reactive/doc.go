// Package reactive provides the state primitives used by the storefront:
// cells, derived values and effects bound to an explicit dependency graph.
//
// # Overview
//
// A Runtime owns an arena of graph nodes. Every Cell, Derived and Effect is a
// node; edges are node indices recorded while a computation runs:
//
//	rt := reactive.NewRuntime()
//
//	price := reactive.NewCell(rt, 10.0)
//	qty := reactive.NewCell(rt, 2)
//
//	subtotal := reactive.NewDerived(rt, func() float64 {
//		return price.Get() * float64(qty.Get())
//	})
//
//	reactive.NewEffect(rt, func() {
//		fmt.Println("subtotal", subtotal.Get())
//	})
//
//	qty.Set(3) // prints "subtotal 30"
//
// # Propagation
//
// A write marks every dependent stale. Derived values are pulled: they are
// recomputed on the next Get and return their cached value otherwise. Effects
// are pushed: they are queued and run once the write (or the outermost Batch)
// completes, so an effect never observes a half-applied update.
//
// # Scheduling
//
// The runtime is cooperative and single-owner. Graph reads and writes happen
// on the goroutine that owns the runtime. Asynchronous work started with Go
// runs on its own goroutine and hands back a continuation, which is applied
// on the owner goroutine by Drain or Wait:
//
//	rt.Go(ctx, func(ctx context.Context) func() {
//		products, err := fetch(ctx)
//		return func() { apply(products, err) }
//	})
//
//	if err := rt.Wait(ctx); err != nil { ... }
//
// # Usage errors
//
// Writing a cell from inside a derived computation, a derived value reading
// itself, and effects that keep re-triggering each other are programming
// errors. They panic with a *goerrors.Error carrying one of the Code*
// text codes.
package reactive
