// Package scoring turns a combination into a formality score with a per-item
// breakdown. Every function here is pure: the same combination always yields the
// same Breakdown.
package scoring

import (
	"math"

	"github.com/okian/outfit/internal/domain/model"
)

// Score shares and normalization constants.
const (
	formalityShare   = 0.93
	consistencyShare = 0.07
	percentScale     = 100
	formalityScale   = model.MaxFormality

	// VarianceCeiling is the population variance treated as fully inconsistent.
	// Tuned empirically; it has no derivation beyond "roughly the spread of a 1
	// next to a 10".
	VarianceCeiling = 25.0

	// MaxFormalityScore and MaxConsistencyBonus bound the two components.
	MaxFormalityScore   = 93
	MaxConsistencyBonus = 7
	MaxTotal            = 100
)

// Default layer weights.
const (
	VisibleWeight            = 1.0
	DefaultCoveredMidWeight  = 0.7
	DefaultCoveredBaseWeight = 0.3
	DefaultAccessoryWeight   = 0.8
)

// Reason explains the weight applied to an item.
type Reason string

// Weight reasons.
const (
	ReasonVisible   Reason = "visible"
	ReasonCovered   Reason = "covered"
	ReasonAccessory Reason = "accessory"
)

// LayerAdjustment records how one item contributed to the formality component.
type LayerAdjustment struct {
	ItemID        string         `json:"item_id"`
	Name          string         `json:"name"`
	Category      model.Category `json:"category"`
	Formality     int            `json:"formality"`
	Weight        float64        `json:"weight"`
	AdjustedScore float64        `json:"adjusted_score"`
	Reason        Reason         `json:"reason"`
}

// Breakdown is the full scoring result.
type Breakdown struct {
	FormalityScore   int               `json:"formality_score"`
	ConsistencyBonus int               `json:"consistency_bonus"`
	Total            int               `json:"total"`
	Adjustments      []LayerAdjustment `json:"adjustments"`
}

// Percentage returns the total clamped to 100.
func (b Breakdown) Percentage() int {
	return min(b.Total, MaxTotal)
}

// Weights holds the conditional layer weights. Visible items always weigh 1.0.
type Weights struct {
	CoveredMid  float64
	CoveredBase float64
	Accessory   float64
}

// DefaultWeights returns the standard layering weights.
func DefaultWeights() Weights {
	return Weights{
		CoveredMid:  DefaultCoveredMidWeight,
		CoveredBase: DefaultCoveredBaseWeight,
		Accessory:   DefaultAccessoryWeight,
	}
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights overrides individual layer weights. Values outside (0, 1] are
// ignored and the default is kept.
func WithWeights(w Weights) Option {
	return func(s *Scorer) {
		if validWeight(w.CoveredMid) {
			s.weights.CoveredMid = w.CoveredMid
		}
		if validWeight(w.CoveredBase) {
			s.weights.CoveredBase = w.CoveredBase
		}
		if validWeight(w.Accessory) {
			s.weights.Accessory = w.Accessory
		}
	}
}

func validWeight(w float64) bool {
	return w > 0 && w <= 1 && !math.IsNaN(w)
}

// Scorer computes breakdowns with a fixed set of weights. The zero value is not
// usable; construct with NewScorer.
type Scorer struct {
	weights Weights
}

// NewScorer creates a scorer with default weights and the given options.
func NewScorer(opts ...Option) *Scorer {
	s := &Scorer{weights: DefaultWeights()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns the weights in effect.
func (s *Scorer) Weights() Weights {
	return s.weights
}

var defaultScorer = NewScorer()

// Score computes a breakdown with the default weights.
func Score(c model.Combination) Breakdown {
	return defaultScorer.Score(c)
}

// Score computes the breakdown for c. Garments without a scorable formality are
// skipped silently.
func (s *Scorer) Score(c model.Combination) Breakdown {
	adjustments := make([]LayerAdjustment, 0, len(model.Categories()))
	values := make([]float64, 0, len(model.Categories()))
	var weightedSum, weightTotal float64

	for _, cat := range model.Categories() {
		g := c.Get(cat)
		formality, ok := g.ScorableFormality()
		if !ok {
			continue
		}
		weight, reason := s.layerWeight(c, cat)
		adjusted := float64(formality) * weight
		weightedSum += adjusted
		weightTotal += weight
		values = append(values, float64(formality))
		adjustments = append(adjustments, LayerAdjustment{
			ItemID:        g.ID,
			Name:          g.Name,
			Category:      cat,
			Formality:     formality,
			Weight:        weight,
			AdjustedScore: adjusted,
			Reason:        reason,
		})
	}

	formalityScore := 0
	if weightTotal > 0 {
		average := weightedSum / weightTotal
		formalityScore = int(math.Round(average / formalityScale * percentScale * formalityShare))
	}
	consistency := consistencyBonus(values)

	return Breakdown{
		FormalityScore:   formalityScore,
		ConsistencyBonus: consistency,
		Total:            formalityScore + consistency,
		Adjustments:      adjustments,
	}
}

// layerWeight applies the covering rules: a jacket covers the shirt, and either
// a jacket or a shirt covers the undershirt.
func (s *Scorer) layerWeight(c model.Combination, cat model.Category) (float64, Reason) {
	switch cat {
	case model.CategoryShirt:
		if c.Has(model.CategoryJacket) {
			return s.weights.CoveredMid, ReasonCovered
		}
	case model.CategoryUndershirt:
		if c.Has(model.CategoryJacket) || c.Has(model.CategoryShirt) {
			return s.weights.CoveredBase, ReasonCovered
		}
	case model.CategoryBelt, model.CategoryWatch:
		return s.weights.Accessory, ReasonAccessory
	}
	return VisibleWeight, ReasonVisible
}

// consistencyBonus rewards a tight spread of formality values. Fewer than two
// values earn nothing.
func consistencyBonus(values []float64) int {
	if len(values) < 2 {
		return 0
	}
	ratio := 1 - populationVariance(values)/VarianceCeiling
	ratio = math.Max(0, math.Min(1, ratio))
	return int(math.Round(ratio * percentScale * consistencyShare))
}

func populationVariance(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / float64(len(values))
	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return sq / float64(len(values))
}
