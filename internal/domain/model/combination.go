package model

import (
	"sort"
	"strconv"
	"strings"
)

// Style is an optional presentation flag. It never affects scoring or matching.
type Style string

// Known styles.
const (
	StyleNone     Style = ""
	StyleTucked   Style = "tucked"
	StyleUntucked Style = "untucked"
)

// Combination maps each category to at most one garment. Any subset of slots may
// be filled, including none. Treat values as immutable: use With to derive a
// modified copy.
type Combination struct {
	Jacket     *Garment `json:"jacket,omitempty"`
	Shirt      *Garment `json:"shirt,omitempty"`
	Undershirt *Garment `json:"undershirt,omitempty"`
	Pants      *Garment `json:"pants,omitempty"`
	Shoes      *Garment `json:"shoes,omitempty"`
	Belt       *Garment `json:"belt,omitempty"`
	Watch      *Garment `json:"watch,omitempty"`
	Style      Style    `json:"style,omitempty"`
}

// slot returns the field backing cat, or nil for an invalid category.
func (c *Combination) slot(cat Category) **Garment {
	switch cat {
	case CategoryJacket:
		return &c.Jacket
	case CategoryShirt:
		return &c.Shirt
	case CategoryUndershirt:
		return &c.Undershirt
	case CategoryPants:
		return &c.Pants
	case CategoryShoes:
		return &c.Shoes
	case CategoryBelt:
		return &c.Belt
	case CategoryWatch:
		return &c.Watch
	default:
		return nil
	}
}

// Get returns the garment in cat, or nil when the slot is empty or cat is invalid.
func (c Combination) Get(cat Category) *Garment {
	p := c.slot(cat)
	if p == nil {
		return nil
	}
	return *p
}

// Has reports whether cat is filled.
func (c Combination) Has(cat Category) bool {
	return c.Get(cat) != nil
}

// With returns a copy of c with cat set to g. A nil g clears the slot.
// Invalid categories leave the copy unchanged.
func (c Combination) With(cat Category, g *Garment) Combination {
	if p := c.slot(cat); p != nil {
		*p = g
	}
	return c
}

// Filled returns the filled categories in layering order.
func (c Combination) Filled() []Category {
	var out []Category
	for _, cat := range Categories() {
		if c.Has(cat) {
			out = append(out, cat)
		}
	}
	return out
}

// Len returns the number of filled slots.
func (c Combination) Len() int {
	return len(c.Filled())
}

// IsEmpty reports whether no slot is filled.
func (c Combination) IsEmpty() bool {
	return c.Len() == 0
}

// Key builds the normalized partial key: sorted category_key=item_id pairs for
// every filled slot. Style is excluded. IDs are quoted so distinct partials never
// collide.
func (c Combination) Key() string {
	pairs := make([]string, 0, categoryEnd)
	for _, cat := range c.Filled() {
		pairs = append(pairs, cat.Key()+"="+strconv.Quote(c.Get(cat).ID))
	}
	sort.Strings(pairs)
	return strings.Join(pairs, ";")
}

// Matches reports whether every filled slot of partial holds a garment with the
// same id in c. Style is ignored.
func (c Combination) Matches(partial Combination) bool {
	for _, cat := range partial.Filled() {
		want := partial.Get(cat)
		got := c.Get(cat)
		if got == nil || got.ID != want.ID {
			return false
		}
	}
	return true
}
