package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveystudio/internal/model"
)

func TestNewRuleDefaults(t *testing.T) {
	tests := []struct {
		attr model.Attribute
		pct  []float64
	}{
		{model.AttributeKnowledge, []float64{65, 85}},
		{model.AttributeAnxiety, []float64{65, 85}},
		{model.AttributeAttention, []float64{50}},
		{model.AttributeArousal, []float64{50}},
	}

	for _, tt := range tests {
		t.Run(string(tt.attr), func(t *testing.T) {
			r := NewRule(tt.attr)
			assert.Equal(t, tt.pct, r.Percentages())
			assert.True(t, r.ScoredOnTotal())
			assert.False(t, r.ShowPoints())
		})
	}
}

func TestRuleConditionsDescendingWithFixedZero(t *testing.T) {
	r := NewRule(model.AttributeKnowledge)
	r.SetTotalPoints(100)

	conditions := r.Conditions()
	require.Len(t, conditions, 3)
	assert.Equal(t, model.ThresholdCondition{Operator: model.OperatorGTE, Value: 85, Level: model.LevelExpert}, conditions[0])
	assert.Equal(t, model.ThresholdCondition{Operator: model.OperatorGTE, Value: 65, Level: model.LevelJourneyman}, conditions[1])
	assert.Equal(t, model.ThresholdCondition{Operator: model.OperatorGTE, Value: 0, Level: model.LevelNovice}, conditions[2])
}

func TestRuleTwoStateConditions(t *testing.T) {
	r := NewRule(model.AttributeAttention)
	r.SetTotalPoints(10)

	conditions := r.Conditions()
	require.Len(t, conditions, 2)
	assert.Equal(t, model.ThresholdCondition{Operator: model.OperatorGTE, Value: 5, Level: model.LevelHigh}, conditions[0])
	assert.Equal(t, model.ThresholdCondition{Operator: model.OperatorGTE, Value: 0, Level: model.LevelLow}, conditions[1])
}

func TestPercentagesSurviveTotalChanges(t *testing.T) {
	r := NewRule(model.AttributeKnowledge)
	r.SetTotalPoints(100)
	require.Equal(t, []float64{65, 85}, r.Percentages())
	require.Equal(t, []float64{65, 85}, r.Absolutes())

	// shrinking the pool moves only the derived absolutes, round half up:
	// 32.5 -> 33, 42.5 -> 43
	r.SetTotalPoints(50)
	assert.Equal(t, []float64{65, 85}, r.Percentages())
	assert.Equal(t, []float64{33, 43}, r.Absolutes())

	conditions := r.Conditions()
	assert.Equal(t, 43.0, conditions[0].Value)
	assert.Equal(t, 33.0, conditions[1].Value)

	// growing it back restores the original absolutes exactly
	r.SetTotalPoints(100)
	assert.Equal(t, []float64{65, 85}, r.Absolutes())
}

func TestSetThresholdPercents(t *testing.T) {
	r := NewRule(model.AttributeKnowledge)
	r.SetTotalPoints(200)

	require.NoError(t, r.SetThresholdPercents(40, 70))
	assert.Equal(t, []float64{40, 70}, r.Percentages())
	assert.Equal(t, []float64{80, 140}, r.Absolutes())

	assert.ErrorIs(t, r.SetThresholdPercents(40), ErrBadThresholds)
	assert.ErrorIs(t, r.SetThresholdPercents(70, 40), ErrBadThresholds)
	assert.ErrorIs(t, r.SetThresholdPercents(-1, 40), ErrBadThresholds)
	assert.ErrorIs(t, r.SetThresholdPercents(40, 101), ErrBadThresholds)

	// a rejected edit leaves the rule untouched
	assert.Equal(t, []float64{40, 70}, r.Percentages())
}

func TestSetShowPointsConvertsOnceEachWay(t *testing.T) {
	r := NewRule(model.AttributeKnowledge)
	r.SetTotalPoints(50)

	r.SetShowPoints(true)
	assert.Equal(t, []float64{33, 43}, r.Absolutes())

	// the stored absolutes convert back: 33/50 -> 66%, 43/50 -> 86%
	r.SetShowPoints(false)
	assert.Equal(t, []float64{66, 86}, r.Percentages())

	// toggling to the current view is a no-op
	r.SetShowPoints(false)
	assert.Equal(t, []float64{66, 86}, r.Percentages())
}

func TestLoadRuleDerivesPercentages(t *testing.T) {
	scorer := &model.AttributeScorer{
		Attribute: model.AttributeKnowledge,
		Conditions: []model.ThresholdCondition{
			{Operator: model.OperatorGTE, Value: 85, Level: model.LevelExpert},
			{Operator: model.OperatorGTE, Value: 65, Level: model.LevelJourneyman},
			{Operator: model.OperatorGTE, Value: 0, Level: model.LevelNovice},
		},
	}

	r := LoadRule(scorer, 100)
	assert.Equal(t, []float64{65, 85}, r.Percentages())
}

func TestLoadRuleZeroTotalTreatsValuesAsPercentages(t *testing.T) {
	scorer := &model.AttributeScorer{
		Attribute: model.AttributeAttention,
		Conditions: []model.ThresholdCondition{
			{Operator: model.OperatorGTE, Value: 50, Level: model.LevelHigh},
			{Operator: model.OperatorGTE, Value: 0, Level: model.LevelLow},
		},
	}

	r := LoadRule(scorer, 0)
	assert.Equal(t, []float64{50}, r.Percentages())
}

func TestLoadRuleMalformedConditionsResetToDefaults(t *testing.T) {
	scorer := &model.AttributeScorer{
		Attribute: model.AttributeKnowledge,
		Conditions: []model.ThresholdCondition{
			{Operator: model.OperatorGTE, Value: 85, Level: model.LevelExpert},
		},
	}

	r := LoadRule(scorer, 100)
	assert.Equal(t, []float64{65, 85}, r.Percentages())
	assert.Len(t, r.Conditions(), 3)
}
