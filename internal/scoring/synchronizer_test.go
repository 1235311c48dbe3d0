package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveystudio/internal/model"
)

type fakeQuestion struct {
	points float64
	attrs  []model.Attribute
}

func (q fakeQuestion) PossibleTotalPoints() float64         { return q.points }
func (q fakeQuestion) ScoringAttributes() []model.Attribute { return q.attrs }

func TestAggregate(t *testing.T) {
	totals := Aggregate([]QuestionSource{
		fakeQuestion{points: 10, attrs: []model.Attribute{model.AttributeKnowledge}},
		fakeQuestion{points: 5, attrs: []model.Attribute{model.AttributeKnowledge, model.AttributeAnxiety}},
		fakeQuestion{points: 0, attrs: []model.Attribute{model.AttributeAnxiety}},
		fakeQuestion{points: 3},
	})

	assert.Equal(t, 18.0, totals.TotalPoints)
	assert.Equal(t, map[model.Attribute]float64{
		model.AttributeKnowledge: 15,
		model.AttributeAnxiety:   5,
	}, totals.PerAttribute)
}

func TestAggregateZeroPointQuestionSkipsAttributes(t *testing.T) {
	totals := Aggregate([]QuestionSource{
		fakeQuestion{points: 0, attrs: []model.Attribute{model.AttributeKnowledge}},
	})

	assert.Equal(t, 0.0, totals.TotalPoints)
	assert.Empty(t, totals.PerAttribute)
}

func TestRecomputePipeline(t *testing.T) {
	notifier := &recordingNotifier{}
	rules := NewRuleSet(model.NewSurveyScorer(), Totals{}, NopNotifier{})
	rules.OnSelectionChanged([]model.Attribute{model.AttributeKnowledge, model.AttributeAnxiety})
	rules.OnScoredOnToggle(model.AttributeAnxiety, false)

	questions := []QuestionSource{
		fakeQuestion{points: 60, attrs: []model.Attribute{model.AttributeAnxiety}},
		fakeQuestion{points: 40},
	}
	rangeSet := NewRangeSet(model.ResponseNumeric)
	incomplete := rangeSet.AddCondition()

	sync := NewSynchronizer(
		func() []QuestionSource { return questions },
		func() []*RangeSet { return []*RangeSet{rangeSet} },
		rules,
		notifier,
	)

	totals := sync.Recompute()

	assert.Equal(t, 100.0, totals.TotalPoints)
	assert.Equal(t, 1, notifier.scoreChanges, "exactly one notification per recompute")

	knowledge, _ := rules.Rule(model.AttributeKnowledge)
	anxiety, _ := rules.Rule(model.AttributeAnxiety)
	assert.Equal(t, 100.0, knowledge.TotalPoints())
	assert.Equal(t, 60.0, anxiety.TotalPoints())
	assert.True(t, incomplete.Invalid())

	// removing a question reroutes both pools on the next pass
	questions = questions[1:]
	totals = sync.Recompute()
	assert.Equal(t, 60.0, totals.TotalPoints)
	assert.Equal(t, 2, notifier.scoreChanges)
	assert.Equal(t, 60.0, knowledge.TotalPoints())
	assert.Equal(t, 60.0, anxiety.TotalPoints())
}

func TestRecomputeKeepsAuthoredPercentages(t *testing.T) {
	rules := NewRuleSet(model.NewSurveyScorer(), Totals{}, NopNotifier{})
	rules.OnSelectionChanged([]model.Attribute{model.AttributeKnowledge})

	questions := []QuestionSource{fakeQuestion{points: 100}}
	sync := NewSynchronizer(
		func() []QuestionSource { return questions },
		func() []*RangeSet { return nil },
		rules,
		nil,
	)

	sync.Recompute()
	r, ok := rules.Rule(model.AttributeKnowledge)
	require.True(t, ok)
	require.Equal(t, []float64{65, 85}, r.Absolutes())

	// halving the pool must not move the authored thresholds
	questions = []QuestionSource{fakeQuestion{points: 50}}
	sync.Recompute()
	assert.Equal(t, []float64{65, 85}, r.Percentages())
	assert.Equal(t, []float64{33, 43}, r.Absolutes())

	// the points view shows the derived absolutes for the live pool
	r.SetShowPoints(true)
	assert.Equal(t, []float64{33, 43}, r.Absolutes())
}
