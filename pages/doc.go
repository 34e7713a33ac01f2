// Package pages holds the controllers behind each storefront screen.
//
// A controller owns reactive cells for its inputs (route slugs, form
// fields), resources keyed by those cells, and the actions a view can
// invoke. Controllers are created on a reactive.Runtime and must only be
// used from the goroutine that owns it. Destroy tears a controller down:
// its resources stop fetching and late results are dropped.
package pages
