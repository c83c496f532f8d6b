package model

// Formality bounds. 1 is very casual, 10 is very formal.
const (
	MinFormality = 1
	MaxFormality = 10
)

// Garment is a catalog entry. Brand, Color and Image are descriptive only and
// never participate in scoring or matching.
type Garment struct {
	ID        string   `json:"id" validate:"required"`
	Name      string   `json:"name" validate:"required"`
	Category  Category `json:"category" validate:"required"`
	Formality *int     `json:"formality,omitempty"`
	Brand     string   `json:"brand,omitempty"`
	Color     string   `json:"color,omitempty"`
	Image     string   `json:"image,omitempty"`
}

// ScorableFormality returns the formality value when it is present and within
// [MinFormality, MaxFormality].
func (g *Garment) ScorableFormality() (int, bool) {
	if g == nil || g.Formality == nil {
		return 0, false
	}
	v := *g.Formality
	if v < MinFormality || v > MaxFormality {
		return 0, false
	}
	return v, true
}

// Formality is a helper for building garments in code and tests.
func Formality(v int) *int { return &v }
