// Package model contains domain models passed between layers.
package model

import (
	"fmt"
	"strings"
)

// Category is a garment slot. A combination holds at most one garment per category.
type Category int

// Categories in layering order, outermost first.
const (
	CategoryUnknown Category = iota
	CategoryJacket
	CategoryShirt
	CategoryUndershirt
	CategoryPants
	CategoryShoes
	CategoryBelt
	CategoryWatch
	categoryEnd
)

var categoryKeys = [...]string{
	CategoryUnknown:    "",
	CategoryJacket:     "jacket",
	CategoryShirt:      "shirt",
	CategoryUndershirt: "undershirt",
	CategoryPants:      "pants",
	CategoryShoes:      "shoes",
	CategoryBelt:       "belt",
	CategoryWatch:      "watch",
}

var categoryNames = [...]string{
	CategoryUnknown:    "Unknown",
	CategoryJacket:     "Jacket/Overshirt",
	CategoryShirt:      "Shirt",
	CategoryUndershirt: "Undershirt",
	CategoryPants:      "Pants",
	CategoryShoes:      "Shoes",
	CategoryBelt:       "Belt",
	CategoryWatch:      "Watch",
}

// Categories returns every valid category in layering order.
func Categories() []Category {
	out := make([]Category, 0, categoryEnd-1)
	for c := CategoryJacket; c < categoryEnd; c++ {
		out = append(out, c)
	}
	return out
}

// Valid reports whether c names a real slot.
func (c Category) Valid() bool {
	return c > CategoryUnknown && c < categoryEnd
}

// Key is the stable lowercase identifier used in wire formats and cache keys.
func (c Category) Key() string {
	if !c.Valid() {
		return ""
	}
	return categoryKeys[c]
}

// String returns the display name.
func (c Category) String() string {
	if !c.Valid() {
		return categoryNames[CategoryUnknown]
	}
	return categoryNames[c]
}

// ParseCategory accepts a key ("pants") or a display name ("Jacket/Overshirt"),
// case-insensitively. "jacket", "overshirt" and "jacket/overshirt" all map to the outer layer.
func ParseCategory(s string) (Category, error) {
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "overshirt" {
		return CategoryJacket, nil
	}
	for c := CategoryJacket; c < categoryEnd; c++ {
		if v == categoryKeys[c] || v == strings.ToLower(categoryNames[c]) {
			return c, nil
		}
	}
	return CategoryUnknown, fmt.Errorf("%w: %q", ErrUnknownCategory, s)
}

// MarshalText implements encoding.TextMarshaler.
func (c Category) MarshalText() ([]byte, error) {
	if !c.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownCategory, int(c))
	}
	return []byte(c.Key()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(b []byte) error {
	parsed, err := ParseCategory(string(b))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
