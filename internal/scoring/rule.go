package scoring

import (
	"errors"
	"fmt"
	"math"

	"surveystudio/internal/model"
)

// Default authored thresholds, in percent, applied when a new attribute is
// selected.
const (
	DefaultMinRangePercent = 65 // 3-state: novice/journeyman boundary
	DefaultMaxRangePercent = 85 // 3-state: journeyman/expert boundary
	DefaultSplitPercent    = 50 // 2-state: low/high boundary
)

// ErrBadThresholds is returned when a threshold edit does not match the
// attribute's state count or is not ascending within [0, 100].
var ErrBadThresholds = errors.New("thresholds must be ascending percentages matching the attribute's levels")

// Rule maps one learner-state attribute to its score band thresholds. Two
// representations of the rule coexist: the percentage values the author
// typed, and the absolute point conditions persisted on the survey. The
// percentage values are authoritative while editing; absolute conditions are
// re-derived (round half up) whenever thresholds or the point pool change.
// The reverse, absolute to percentage, happens only on load and on the
// explicit show-points toggle, so an author's percentage intent never drifts
// because an unrelated question's weight changed.
type Rule struct {
	scorer      *model.AttributeScorer
	totalPoints float64
	showPoints  bool

	// pct holds the authored band boundaries ascending, excluding the lowest
	// band's fixed 0: one value for a 2-state attribute, two for 3-state.
	pct []float64
}

// NewRule creates the default rule for a newly selected attribute: scored on
// the survey total, with thresholds (65, 85)% for 3-state attributes and 50%
// for 2-state.
func NewRule(attr model.Attribute) *Rule {
	r := &Rule{
		scorer: &model.AttributeScorer{
			Attribute:     attr,
			ScoredOnTotal: true,
		},
		pct: defaultPercentages(attr),
	}
	r.syncConditions()
	return r
}

// LoadRule wraps a persisted scorer, deriving the displayed percentages from
// its absolute conditions against the given point pool. Rules persisted with
// a malformed condition list are reset to the attribute defaults.
func LoadRule(scorer *model.AttributeScorer, totalPoints float64) *Rule {
	r := &Rule{scorer: scorer, totalPoints: totalPoints}
	if len(scorer.Conditions) != scorer.Attribute.StateCount() {
		r.pct = defaultPercentages(scorer.Attribute)
		r.syncConditions()
		return r
	}
	r.pct = r.percentagesFromConditions()
	return r
}

func defaultPercentages(attr model.Attribute) []float64 {
	if attr.StateCount() == 3 {
		return []float64{DefaultMinRangePercent, DefaultMaxRangePercent}
	}
	return []float64{DefaultSplitPercent}
}

// Attribute returns the learner-state attribute this rule scores.
func (r *Rule) Attribute() model.Attribute { return r.scorer.Attribute }

// Scorer returns the persisted scorer backing this rule.
func (r *Rule) Scorer() *model.AttributeScorer { return r.scorer }

// ScoredOnTotal reports whether the rule is evaluated against the survey's
// overall point total rather than its attribute-specific pool.
func (r *Rule) ScoredOnTotal() bool { return r.scorer.ScoredOnTotal }

// TotalPoints returns the point pool the rule currently converts against.
func (r *Rule) TotalPoints() float64 { return r.totalPoints }

// ShowPoints reports whether the rule is displayed in points rather than
// percentages.
func (r *Rule) ShowPoints() bool { return r.showPoints }

// Percentages returns the authored band boundaries ascending, excluding the
// fixed 0 of the lowest band.
func (r *Rule) Percentages() []float64 {
	out := make([]float64, len(r.pct))
	copy(out, r.pct)
	return out
}

// Absolutes returns the band boundaries in points, ascending, excluding the
// fixed 0, derived from the authored percentages and the current pool.
func (r *Rule) Absolutes() []float64 {
	return r.toAbsolute(r.totalPoints)
}

// Conditions returns the persisted threshold conditions, sorted descending by
// value with the lowest band fixed at 0.
func (r *Rule) Conditions() []model.ThresholdCondition {
	out := make([]model.ThresholdCondition, len(r.scorer.Conditions))
	copy(out, r.scorer.Conditions)
	return out
}

// SetThresholdPercents replaces the authored percentages (ascending,
// excluding the fixed 0) and re-derives the absolute conditions.
func (r *Rule) SetThresholdPercents(values ...float64) error {
	if len(values) != r.scorer.Attribute.StateCount()-1 {
		return fmt.Errorf("%w: got %d values for %s", ErrBadThresholds, len(values), r.scorer.Attribute)
	}
	prev := 0.0
	for _, v := range values {
		if v < 0 || v > 100 || v < prev {
			return ErrBadThresholds
		}
		prev = v
	}
	r.pct = append([]float64(nil), values...)
	r.syncConditions()
	return nil
}

// SetTotalPoints updates the point pool. The displayed percentages stay
// exactly as authored; only the derived absolute conditions move.
func (r *Rule) SetTotalPoints(total float64) {
	r.totalPoints = total
	r.syncConditions()
}

// SetShowPoints toggles between the points and percentage views. Entering the
// points view re-derives absolutes from the authored percentages against the
// live pool; leaving it converts the stored absolutes back into percentages.
// These toggles and the initial load are the only places the absolute to
// percentage conversion runs.
func (r *Rule) SetShowPoints(show bool) {
	if r.showPoints == show {
		return
	}
	r.showPoints = show
	if show {
		r.syncConditions()
	} else {
		r.pct = r.percentagesFromConditions()
	}
}

// RefreshPercentages forces the absolute to percentage conversion, replacing
// the authored values. Callers use this on explicit reload only.
func (r *Rule) RefreshPercentages() {
	r.pct = r.percentagesFromConditions()
}

// toAbsolute converts the authored percentages into points against the given
// pool, round half up.
func (r *Rule) toAbsolute(total float64) []float64 {
	out := make([]float64, len(r.pct))
	for i, p := range r.pct {
		out[i] = roundHalfUp(p * total / 100)
	}
	return out
}

// percentagesFromConditions derives ascending percentages from the persisted
// conditions. A zero pool would divide by zero; the stored absolute values
// are then treated as if they were already percentages. That degenerate
// fallback is intentional, not an error.
func (r *Rule) percentagesFromConditions() []float64 {
	n := len(r.scorer.Conditions)
	out := make([]float64, 0, n-1)
	// conditions are descending; skip the last (the fixed 0 band)
	for i := n - 2; i >= 0; i-- {
		v := r.scorer.Conditions[i].Value
		if r.totalPoints != 0 {
			v = roundHalfUp(v / r.totalPoints * 100)
		}
		out = append(out, v)
	}
	return out
}

// syncConditions rebuilds the persisted conditions from the authored
// percentages: GTE thresholds sorted descending by value, one per level,
// lowest fixed at 0.
func (r *Rule) syncConditions() {
	levels := r.scorer.Attribute.Levels()
	abs := r.toAbsolute(r.totalPoints)
	conditions := make([]model.ThresholdCondition, 0, len(levels))
	for i := len(levels) - 1; i >= 1; i-- {
		conditions = append(conditions, model.ThresholdCondition{
			Operator: model.OperatorGTE,
			Value:    abs[i-1],
			Level:    levels[i],
		})
	}
	conditions = append(conditions, model.ThresholdCondition{
		Operator: model.OperatorGTE,
		Value:    0,
		Level:    levels[0],
	})
	r.scorer.Conditions = conditions
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
