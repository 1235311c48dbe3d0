package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPropertiesAbsentKeysFallBack(t *testing.T) {
	p := NewItemProperties()

	assert.Equal(t, "x", p.GetString("k", "x"))
	assert.Equal(t, 3, p.GetInt("k", 3))
	assert.Equal(t, 1.5, p.GetFloat("k", 1.5))
	assert.True(t, p.GetBool("k", true))
	assert.Nil(t, p.GetStringSlice("k"))
	assert.Nil(t, p.GetWeights("k"))
	assert.Nil(t, p.GetWeightRows("k"))
	assert.Nil(t, p.GetWeightTable("k"))
}

func TestPropertiesNumericWidening(t *testing.T) {
	// values as a JSON or BSON decoder would hand them back
	p := ItemProperties{
		"count":   float64(4),
		"limit":   int32(7),
		"weights": []interface{}{float64(1), int(2), int64(3)},
		"rows": []interface{}{
			[]interface{}{float64(1), float64(2)},
			[]interface{}{float64(3)},
		},
		"table": []interface{}{
			[]interface{}{
				[]interface{}{float64(5), float64(1), float64(10)},
				[]interface{}{float64(0)},
			},
			[]interface{}{},
		},
		"labels": []interface{}{"a", "b"},
	}

	assert.Equal(t, 4, p.GetInt("count", 0))
	assert.Equal(t, 7, p.GetInt("limit", 0))
	assert.Equal(t, []float64{1, 2, 3}, p.GetWeights("weights"))
	assert.Equal(t, [][]float64{{1, 2}, {3}}, p.GetWeightRows("rows"))
	assert.Equal(t, [][][]float64{
		{{5, 1, 10}, {0}},
		{},
	}, p.GetWeightTable("table"))
	assert.Equal(t, []string{"a", "b"}, p.GetStringSlice("labels"))
}

func TestPropertiesNativeShapes(t *testing.T) {
	p := ItemProperties{
		"weights": []float64{2, 4},
		"rows":    [][]float64{{1, 0}},
		"table":   [][][]float64{{{3, 1}}},
		"labels":  []string{"yes", "no"},
	}

	assert.Equal(t, []float64{2, 4}, p.GetWeights("weights"))
	assert.Equal(t, [][]float64{{1, 0}}, p.GetWeightRows("rows"))
	assert.Equal(t, [][][]float64{{{3, 1}}}, p.GetWeightTable("table"))
	assert.Equal(t, []string{"yes", "no"}, p.GetStringSlice("labels"))
}

func TestPropertiesSetDelete(t *testing.T) {
	p := NewItemProperties()
	p.Set("k", "v")
	assert.True(t, p.Has("k"))
	assert.Equal(t, "v", p.GetString("k", ""))

	p.Delete("k")
	assert.False(t, p.Has("k"))
}

func TestAttributeLevels(t *testing.T) {
	assert.Equal(t, []string{LevelNovice, LevelJourneyman, LevelExpert}, AttributeKnowledge.Levels())
	assert.Equal(t, []string{LevelLow, LevelHigh}, AttributeAttention.Levels())
	assert.Equal(t, 3, AttributeAnxiety.StateCount())
	assert.Equal(t, 2, AttributeArousal.StateCount())

	_, err := ParseAttribute("Charisma")
	assert.Error(t, err)

	a, err := ParseAttribute("Motivation")
	assert.NoError(t, err)
	assert.Equal(t, AttributeMotivation, a)
}
