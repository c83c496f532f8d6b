package model

// CuratedCombination is a pre-authored combination referencing garments by id.
type CuratedCombination struct {
	ID       string   `json:"id,omitempty"`
	ItemIDs  []string `json:"item_ids"`
	Style    Style    `json:"style,omitempty"`
	Favorite bool     `json:"favorite,omitempty"`
}

// Catalog is a complete snapshot supplied by the host. The core never mutates it.
type Catalog struct {
	Garments     []Garment            `json:"garments"`
	Combinations []CuratedCombination `json:"combinations"`
}

// GarmentIndex returns the garments keyed by id. Later duplicates win.
func (c *Catalog) GarmentIndex() map[string]*Garment {
	if c == nil {
		return map[string]*Garment{}
	}
	idx := make(map[string]*Garment, len(c.Garments))
	for i := range c.Garments {
		idx[c.Garments[i].ID] = &c.Garments[i]
	}
	return idx
}
