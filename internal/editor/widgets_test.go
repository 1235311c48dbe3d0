package editor

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"surveystudio/internal/model"
)

func TestLoadWidgetTypeMismatch(t *testing.T) {
	el := &model.Element{ID: "q1", Type: model.ElementEssay}
	w := &FreeResponseWidget{baseWidget: baseWidget{id: "w", elementType: model.ElementFreeResponse}}

	err := w.Load(el)
	var le *LoadError
	require.ErrorAs(t, err, &le)
	assert.Equal(t, "q1", le.ElementID)
	assert.Equal(t, model.ElementFreeResponse, le.Expected)
}

func TestLoadWidgetUnknownType(t *testing.T) {
	_, err := LoadWidget(&model.Element{ID: "q1", Type: "HOLOGRAM"})
	var le *LoadError
	require.ErrorAs(t, err, &le)
}

func TestFreeResponseWidgetLoadSave(t *testing.T) {
	el := &model.Element{
		ID:   "q1",
		Type: model.ElementFreeResponse,
		Text: "How many hours did you sleep?",
		Properties: model.ItemProperties{
			model.PropResponseFieldTypes: []string{"NUMERIC", "FREE_TEXT"},
			model.PropAnswerWeights: [][][]float64{
				{{2, 1, 5}, {0}},
				{},
			},
			model.PropScoringAttributes: []string{"Anxiety"},
		},
	}

	w, err := LoadWidget(el)
	require.NoError(t, err)
	fr, ok := w.(*FreeResponseWidget)
	require.True(t, ok)

	assert.Equal(t, "q1", fr.ID())
	assert.Equal(t, []model.Attribute{model.AttributeAnxiety}, fr.ScoringAttributes())
	assert.Equal(t, 2.0, fr.PossibleTotalPoints())

	numeric, err := fr.RangeSet(0)
	require.NoError(t, err)
	assert.Equal(t, model.ResponseNumeric, numeric.ResponseType())
	require.Len(t, numeric.Conditions(), 2)

	text, err := fr.RangeSet(1)
	require.NoError(t, err)
	assert.Equal(t, model.ResponseFreeText, text.ResponseType())

	var saved model.Element
	w.Save(&saved)
	assert.Equal(t, "q1", saved.ID)
	assert.Equal(t, model.ElementFreeResponse, saved.Type)
	assert.Equal(t, el.Text, saved.Text)
	assert.Equal(t, []string{"NUMERIC", "FREE_TEXT"}, saved.Properties.GetStringSlice(model.PropResponseFieldTypes))
	assert.Equal(t, [][][]float64{
		{{2, 1, 5}, {0}},
		{},
	}, saved.Properties.GetWeightTable(model.PropAnswerWeights))
}

func TestWidgetSaveKeepsUnmodeledProperties(t *testing.T) {
	el := &model.Element{
		ID:   "q1",
		Type: model.ElementFreeResponse,
		Properties: model.ItemProperties{
			model.PropResponseFieldTypes: []string{"NUMERIC"},
			model.PropAnswerWeights:      [][][]float64{{{5, 1, 10}, {0}}},
			model.PropResponsesPerLine:   2,
			"displayHint":                "compact",
		},
	}

	w, err := LoadWidget(el)
	require.NoError(t, err)
	w.SetText("updated")

	var saved model.Element
	w.Save(&saved)

	// keys the widget does not model survive an edit/save round trip
	assert.Equal(t, 2, saved.Properties.GetInt(model.PropResponsesPerLine, 0))
	assert.Equal(t, "compact", saved.Properties.GetString("displayHint", ""))
	assert.Equal(t, "updated", saved.Text)

	// the loaded bag is not aliased: saving does not touch the source element
	saved.Properties.Set("displayHint", "wide")
	assert.Equal(t, "compact", el.Properties.GetString("displayHint", ""))
}

func TestFreeResponseWidgetSaveDropsInvalidField(t *testing.T) {
	w, err := NewWidget(model.ElementFreeResponse)
	require.NoError(t, err)
	fr := w.(*FreeResponseWidget)
	require.NoError(t, fr.SetFieldType(0, model.ResponseNumeric))

	rs, err := fr.RangeSet(0)
	require.NoError(t, err)
	c := rs.AddCondition()
	require.NoError(t, rs.SetPoints(c.ID(), "4"))
	// min never entered: the live set stays, the saved weights drop to empty

	var saved model.Element
	fr.Save(&saved)
	table := saved.Properties.GetWeightTable(model.PropAnswerWeights)
	require.Len(t, table, 1)
	assert.Len(t, table[0], 0)

	require.Len(t, rs.Conditions(), 2, "session keeps the incomplete condition")
}

func TestFreeResponseWidgetFieldTypeSwitch(t *testing.T) {
	w, _ := NewWidget(model.ElementFreeResponse)
	fr := w.(*FreeResponseWidget)
	require.NoError(t, fr.SetFieldType(0, model.ResponseNumeric))

	rs, _ := fr.RangeSet(0)
	rs.AddCondition()
	require.Len(t, rs.Conditions(), 2)

	require.NoError(t, fr.SetFieldType(0, model.ResponseFreeText))
	assert.Len(t, rs.Conditions(), 1)
	assert.Equal(t, 0.0, fr.PossibleTotalPoints())
}

func TestMultipleChoiceWidget(t *testing.T) {
	el := &model.Element{
		ID:   "q2",
		Type: model.ElementMultipleChoice,
		Properties: model.ItemProperties{
			model.PropReplyOptions:  []string{"a", "b", "c"},
			model.PropAnswerWeights: []float64{5, 3, -2},
			model.PropMinSelections: 1,
			model.PropMaxSelections: 2,
		},
	}

	w, err := LoadWidget(el)
	require.NoError(t, err)
	assert.Equal(t, 8.0, w.PossibleTotalPoints())

	mc := w.(*MultipleChoiceWidget)
	require.NoError(t, mc.SetWeights([][]float64{{1, 1, 1}}))
	assert.Equal(t, 2.0, w.PossibleTotalPoints())

	assert.ErrorIs(t, mc.SetWeights([][]float64{{1, 1}}), ErrNotScored)
}

func TestMatrixWidget(t *testing.T) {
	w, _ := NewWidget(model.ElementMatrixOfChoices)
	m := w.(*MatrixWidget)
	m.SetGrid([]string{"r1", "r2"}, []string{"c1", "c2"})
	require.NoError(t, m.SetWeights([][]float64{{1, 4}, {2, 0}}))
	assert.Equal(t, 6.0, m.PossibleTotalPoints())

	var saved model.Element
	m.Save(&saved)
	assert.Equal(t, [][]float64{{1, 4}, {2, 0}}, saved.Properties.GetWeightRows(model.PropAnswerWeights))
}

func TestUnscoredWidgets(t *testing.T) {
	for _, typ := range []model.ElementType{model.ElementInfoText, model.ElementEssay} {
		w, err := NewWidget(typ)
		require.NoError(t, err)
		assert.Equal(t, 0.0, w.PossibleTotalPoints(), string(typ))
	}
}

func TestTrueFalseAndRatingScaleWidgets(t *testing.T) {
	tf, _ := NewWidget(model.ElementTrueFalse)
	require.NoError(t, tf.(*TrueFalseWidget).SetWeights([][]float64{{1, 0}}))
	assert.Equal(t, 1.0, tf.PossibleTotalPoints())

	rs, _ := NewWidget(model.ElementRatingScale)
	rating := rs.(*RatingScaleWidget)
	rating.SetOptions([]string{"1", "2", "3"})
	require.NoError(t, rating.SetWeights([][]float64{{0, 1, 2}}))
	assert.Equal(t, 2.0, rs.PossibleTotalPoints())
}

func TestSetScoringAttributesDropsUnknown(t *testing.T) {
	w, _ := NewWidget(model.ElementMultipleChoice)
	w.SetScoringAttributes([]model.Attribute{model.AttributeKnowledge, "Charisma"})
	assert.Equal(t, []model.Attribute{model.AttributeKnowledge}, w.ScoringAttributes())
}
