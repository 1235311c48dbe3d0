package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveystudio/internal/model"
)

type recordingNotifier struct {
	scoreChanges int
	scrolls      []string
}

func (n *recordingNotifier) ScoreValueChanged()        { n.scoreChanges++ }
func (n *recordingNotifier) ScrollToElement(id string) { n.scrolls = append(n.scrolls, id) }

func scorerAttrs(scorers []*model.AttributeScorer) []model.Attribute {
	out := make([]model.Attribute, len(scorers))
	for i, s := range scorers {
		out[i] = s.Attribute
	}
	return out
}

func TestNewRuleSetAdoptsBothCollections(t *testing.T) {
	scorer := model.NewSurveyScorer()
	scorer.TotalScorer.AttributeScorers = []*model.AttributeScorer{
		{Attribute: model.AttributeKnowledge},
	}
	scorer.AttributeScorers = []*model.AttributeScorer{
		{Attribute: model.AttributeAnxiety},
		{Attribute: model.AttributeKnowledge}, // duplicate, total wins
	}

	rs := NewRuleSet(scorer, Totals{TotalPoints: 100}, nil)

	assert.Equal(t, []model.Attribute{model.AttributeAnxiety, model.AttributeKnowledge}, rs.SelectedAttributes())

	knowledge, ok := rs.Rule(model.AttributeKnowledge)
	require.True(t, ok)
	assert.True(t, knowledge.ScoredOnTotal())

	anxiety, ok := rs.Rule(model.AttributeAnxiety)
	require.True(t, ok)
	assert.False(t, anxiety.ScoredOnTotal())

	// the duplicate is gone from the rebuilt collections
	assert.Equal(t, []model.Attribute{model.AttributeKnowledge}, scorerAttrs(scorer.TotalScorer.AttributeScorers))
	assert.Equal(t, []model.Attribute{model.AttributeAnxiety}, scorerAttrs(scorer.AttributeScorers))
}

func TestNewRuleSetConvertsAgainstRulePool(t *testing.T) {
	scorer := model.NewSurveyScorer()
	scorer.AttributeScorers = []*model.AttributeScorer{{
		Attribute: model.AttributeAnxiety,
		Conditions: []model.ThresholdCondition{
			{Operator: model.OperatorGTE, Value: 34, Level: "High"},
			{Operator: model.OperatorGTE, Value: 20, Level: "Medium"},
			{Operator: model.OperatorGTE, Value: 0, Level: "Low"},
		},
	}}

	rs := NewRuleSet(scorer, Totals{
		TotalPoints:  100,
		PerAttribute: map[model.Attribute]float64{model.AttributeAnxiety: 40},
	}, nil)

	// percentages derive from the anxiety pool, not the survey total
	anxiety, ok := rs.Rule(model.AttributeAnxiety)
	require.True(t, ok)
	assert.Equal(t, []float64{50, 85}, anxiety.Percentages())
	assert.Equal(t, 40.0, anxiety.TotalPoints())

	// pushing the same pools back in leaves the persisted values alone
	rs.SetTotalPoints(100)
	rs.SetTotalPointsPerAttribute(map[model.Attribute]float64{model.AttributeAnxiety: 40})
	conditions := anxiety.Conditions()
	require.Len(t, conditions, 3)
	assert.Equal(t, 34.0, conditions[0].Value)
	assert.Equal(t, 20.0, conditions[1].Value)
	assert.Equal(t, 0.0, conditions[2].Value)
}

func TestOnSelectionChanged(t *testing.T) {
	notifier := &recordingNotifier{}
	scorer := model.NewSurveyScorer()
	rs := NewRuleSet(scorer, Totals{TotalPoints: 100}, notifier)

	rs.OnSelectionChanged([]model.Attribute{model.AttributeKnowledge, model.AttributeAttention})
	assert.Equal(t, []model.Attribute{model.AttributeAttention, model.AttributeKnowledge}, rs.SelectedAttributes())

	// new rules start at the defaults, scored on total
	knowledge, _ := rs.Rule(model.AttributeKnowledge)
	assert.Equal(t, []float64{65, 85}, knowledge.Percentages())
	assert.True(t, knowledge.ScoredOnTotal())

	// the first created rule is scrolled into view
	require.Len(t, notifier.scrolls, 1)
	assert.Equal(t, rs.ElementID(model.AttributeKnowledge), notifier.scrolls[0])

	// de-selecting removes the rule and its scorer
	rs.OnSelectionChanged([]model.Attribute{model.AttributeAttention})
	_, ok := rs.Rule(model.AttributeKnowledge)
	assert.False(t, ok)
	assert.Equal(t, []model.Attribute{model.AttributeAttention}, scorerAttrs(scorer.TotalScorer.AttributeScorers))

	// repeating the same selection changes nothing and scrolls nowhere
	rs.OnSelectionChanged([]model.Attribute{model.AttributeAttention})
	assert.Len(t, notifier.scrolls, 1)
	assert.Equal(t, []model.Attribute{model.AttributeAttention}, rs.SelectedAttributes())
}

func TestOnSelectionChangedReselectKeepsEditedRule(t *testing.T) {
	rs := NewRuleSet(model.NewSurveyScorer(), Totals{TotalPoints: 100}, nil)
	rs.OnSelectionChanged([]model.Attribute{model.AttributeKnowledge})

	r, _ := rs.Rule(model.AttributeKnowledge)
	require.NoError(t, r.SetThresholdPercents(40, 70))

	rs.OnSelectionChanged([]model.Attribute{model.AttributeKnowledge, model.AttributeAnxiety})

	kept, _ := rs.Rule(model.AttributeKnowledge)
	assert.Same(t, r, kept)
	assert.Equal(t, []float64{40, 70}, kept.Percentages())
}

func TestOnScoredOnToggleMovesBetweenCollections(t *testing.T) {
	scorer := model.NewSurveyScorer()
	rs := NewRuleSet(scorer, Totals{TotalPoints: 100}, nil)
	rs.OnSelectionChanged([]model.Attribute{model.AttributeKnowledge, model.AttributeAnxiety})

	require.Len(t, scorer.TotalScorer.AttributeScorers, 2)
	require.Empty(t, scorer.AttributeScorers)

	rs.OnScoredOnToggle(model.AttributeAnxiety, false)

	assert.Equal(t, []model.Attribute{model.AttributeKnowledge}, scorerAttrs(scorer.TotalScorer.AttributeScorers))
	assert.Equal(t, []model.Attribute{model.AttributeAnxiety}, scorerAttrs(scorer.AttributeScorers))

	// each rule sits in exactly one collection
	assert.Len(t, scorer.AllAttributeScorers(), 2)

	// toggling back restores total membership
	rs.OnScoredOnToggle(model.AttributeAnxiety, true)
	assert.Len(t, scorer.TotalScorer.AttributeScorers, 2)
	assert.Empty(t, scorer.AttributeScorers)
}

func TestSetTotalPointsRoutesByMembership(t *testing.T) {
	rs := NewRuleSet(model.NewSurveyScorer(), Totals{}, nil)
	rs.OnSelectionChanged([]model.Attribute{model.AttributeKnowledge, model.AttributeAnxiety})
	rs.OnScoredOnToggle(model.AttributeAnxiety, false)

	rs.SetTotalPoints(100)
	rs.SetTotalPointsPerAttribute(map[model.Attribute]float64{
		model.AttributeAnxiety: 40,
	})

	knowledge, _ := rs.Rule(model.AttributeKnowledge)
	anxiety, _ := rs.Rule(model.AttributeAnxiety)
	assert.Equal(t, 100.0, knowledge.TotalPoints())
	assert.Equal(t, 40.0, anxiety.TotalPoints())

	// an attribute missing from the per-attribute map falls back to zero
	rs.SetTotalPointsPerAttribute(map[model.Attribute]float64{})
	assert.Equal(t, 0.0, anxiety.TotalPoints())
	assert.Equal(t, 100.0, knowledge.TotalPoints())
}
