package pages

import (
	"github.com/goliatone/go-storefront/catalog"
	"github.com/goliatone/go-storefront/reactive"
)

// Header holds the menu toggles and the cart badge.
type Header struct {
	cart         CartSummary
	showMenu     *reactive.Cell[bool]
	hideSideMenu *reactive.Cell[bool]
}

// NewHeader creates the header with the menu closed and the side menu hidden.
func NewHeader(rt *reactive.Runtime, c CartSummary) *Header {
	return &Header{
		cart:         c,
		showMenu:     reactive.NewCell(rt, false, reactive.WithName[bool]("header.show_menu")),
		hideSideMenu: reactive.NewCell(rt, true, reactive.WithName[bool]("header.hide_side_menu")),
	}
}

// ToggleMenu opens or closes the mobile menu.
func (h *Header) ToggleMenu() {
	h.showMenu.Update(func(v bool) bool { return !v })
}

// ToggleSideMenu shows or hides the cart side menu.
func (h *Header) ToggleSideMenu() {
	h.hideSideMenu.Update(func(v bool) bool { return !v })
}

// ShowMenu reports whether the mobile menu is open.
func (h *Header) ShowMenu() bool {
	return h.showMenu.Get()
}

// HideSideMenu reports whether the cart side menu is closed.
func (h *Header) HideSideMenu() bool {
	return h.hideSideMenu.Get()
}

// Items lists the cart contents.
func (h *Header) Items() []catalog.Product {
	return h.cart.Cart()
}

// Count is the cart badge.
func (h *Header) Count() int {
	return h.cart.Count()
}

// Total is the cart total shown in the side menu.
func (h *Header) Total() float64 {
	return h.cart.Total()
}

// Destroy releases the menu toggles.
func (h *Header) Destroy() {
	h.showMenu.Dispose()
	h.hideSideMenu.Dispose()
}
