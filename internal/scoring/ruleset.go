package scoring

import (
	"sort"

	"github.com/google/uuid"

	"surveystudio/internal/model"
)

// RuleSet owns the attribute rules active for one survey and keeps three
// things mutually consistent: the attribute picklist selection, the rule per
// selected attribute, and the survey's two persisted scorer collections
// (total scorers and same-attribute scorers). Each rule's ScoredOnTotal flag
// is the source of truth; the collections are projections rebuilt from it, so
// a rule is a member of exactly one collection at all times and membership
// survives save/load cycles that replace the underlying objects.
type RuleSet struct {
	scorer     *model.SurveyScorer
	rules      map[model.Attribute]*Rule
	elementIDs map[model.Attribute]string
	notifier   Notifier
}

// NewRuleSet builds the rule set over a survey's persisted scorer, creating
// one rule per attribute found in either collection (duplicates collapse to
// the first occurrence, total scorers winning). Percentage displays are
// derived from the persisted absolute conditions against the pool each rule
// is scored on: the overall total for total scorers, the attribute's own
// pool for same-attribute scorers. This is the one place that conversion
// runs outside the show-points toggle.
func NewRuleSet(scorer *model.SurveyScorer, totals Totals, notifier Notifier) *RuleSet {
	if scorer == nil {
		scorer = model.NewSurveyScorer()
	}
	if notifier == nil {
		notifier = NopNotifier{}
	}
	rs := &RuleSet{
		scorer:     scorer,
		rules:      make(map[model.Attribute]*Rule),
		elementIDs: make(map[model.Attribute]string),
		notifier:   notifier,
	}
	for _, as := range scorer.TotalScorer.AttributeScorers {
		rs.adopt(as, true, totals.TotalPoints)
	}
	for _, as := range scorer.AttributeScorers {
		rs.adopt(as, false, totals.PerAttribute[as.Attribute])
	}
	rs.rebuildProjections()
	return rs
}

func (rs *RuleSet) adopt(as *model.AttributeScorer, scoredOnTotal bool, totalPoints float64) {
	if !as.Attribute.Valid() {
		return
	}
	if _, exists := rs.rules[as.Attribute]; exists {
		return
	}
	as.ScoredOnTotal = scoredOnTotal
	rs.rules[as.Attribute] = LoadRule(as, totalPoints)
	rs.elementIDs[as.Attribute] = uuid.New().String()
}

// Rule returns the rule for the attribute, if selected.
func (rs *RuleSet) Rule(attr model.Attribute) (*Rule, bool) {
	r, ok := rs.rules[attr]
	return r, ok
}

// Rules returns every active rule sorted by attribute display name, the
// order the editor lists them in.
func (rs *RuleSet) Rules() []*Rule {
	out := make([]*Rule, 0, len(rs.rules))
	for _, r := range rs.rules {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Attribute() < out[j].Attribute()
	})
	return out
}

// SelectedAttributes returns the attributes with an active rule, sorted.
func (rs *RuleSet) SelectedAttributes() []model.Attribute {
	out := make([]model.Attribute, 0, len(rs.rules))
	for attr := range rs.rules {
		out = append(out, attr)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// ElementID returns the UI element id registered for the attribute's rule,
// used for scroll-into-view requests.
func (rs *RuleSet) ElementID(attr model.Attribute) string {
	return rs.elementIDs[attr]
}

// OnSelectionChanged reconciles the rule set against the picklist's new
// selection. Rules for de-selected attributes are removed from whichever
// scorer collection held them; newly selected attributes get a default rule
// (scored on total) and the first one created is scrolled into view. Calling
// it twice with the same selection is a no-op.
func (rs *RuleSet) OnSelectionChanged(selected []model.Attribute) {
	want := make(map[model.Attribute]bool, len(selected))
	for _, attr := range selected {
		if attr.Valid() {
			want[attr] = true
		}
	}

	changed := false
	for attr := range rs.rules {
		if !want[attr] {
			delete(rs.rules, attr)
			delete(rs.elementIDs, attr)
			changed = true
		}
	}

	var firstCreated model.Attribute
	for _, attr := range selected {
		if !want[attr] {
			continue
		}
		if _, exists := rs.rules[attr]; exists {
			continue
		}
		rs.rules[attr] = NewRule(attr)
		rs.elementIDs[attr] = uuid.New().String()
		if firstCreated == "" {
			firstCreated = attr
		}
		changed = true
	}

	if changed {
		rs.rebuildProjections()
	}
	if firstCreated != "" {
		rs.notifier.ScrollToElement(rs.elementIDs[firstCreated])
	}
}

// OnScoredOnToggle moves the attribute's rule between the total-scorer and
// same-attribute collections. The flag flips and both projections are rebuilt
// in one step, so callers never observe a rule in zero or two collections.
func (rs *RuleSet) OnScoredOnToggle(attr model.Attribute, scoredOnTotal bool) {
	r, ok := rs.rules[attr]
	if !ok || r.scorer.ScoredOnTotal == scoredOnTotal {
		return
	}
	r.scorer.ScoredOnTotal = scoredOnTotal
	rs.rebuildProjections()
}

// SetTotalPoints pushes the survey-wide point pool into every rule scored on
// total.
func (rs *RuleSet) SetTotalPoints(total float64) {
	for _, r := range rs.rules {
		if r.ScoredOnTotal() {
			r.SetTotalPoints(total)
		}
	}
}

// SetTotalPointsPerAttribute pushes each attribute-specific pool into the
// rules scored on their own attribute. Attributes missing from the map fall
// back to a zero pool.
func (rs *RuleSet) SetTotalPointsPerAttribute(perAttribute map[model.Attribute]float64) {
	for attr, r := range rs.rules {
		if !r.ScoredOnTotal() {
			r.SetTotalPoints(perAttribute[attr])
		}
	}
}

// rebuildProjections rewrites both persisted collections from the rules'
// ScoredOnTotal flags, in display order.
func (rs *RuleSet) rebuildProjections() {
	total := make([]*model.AttributeScorer, 0, len(rs.rules))
	perAttr := make([]*model.AttributeScorer, 0)
	for _, r := range rs.Rules() {
		if r.ScoredOnTotal() {
			total = append(total, r.scorer)
		} else {
			perAttr = append(perAttr, r.scorer)
		}
	}
	rs.scorer.TotalScorer.AttributeScorers = total
	rs.scorer.AttributeScorers = perAttr
}

// Scorer returns the persisted scorer the rule set maintains.
func (rs *RuleSet) Scorer() *model.SurveyScorer { return rs.scorer }
