package model

// Well-known property keys. Absent keys always fall back to the documented
// defaults in the typed getters below, so older persisted surveys load
// without migration.
const (
	PropAnswerWeights      = "answerWeights"
	PropResponseFieldTypes = "responseFieldTypes"
	PropResponsesPerLine   = "responsesPerLine"
	PropReplyOptions       = "replyOptions"
	PropMatrixRowLabels    = "matrixRowLabels"
	PropMatrixColumnLabels = "matrixColumnLabels"
	PropMinSelections      = "minSelectionsRequired"
	PropMaxSelections      = "maxSelectionsAllowed"
	PropSliderMinValue     = "sliderMinValue"
	PropSliderMaxValue     = "sliderMaxValue"
	PropScoringAttributes  = "scoringAttributes"
)

// ItemProperties is the persisted key/value bag attached to every survey
// element. Values are plain JSON/BSON shapes; the typed getters tolerate the
// numeric widening both codecs apply on round trip.
type ItemProperties map[string]interface{}

// NewItemProperties returns an empty property bag.
func NewItemProperties() ItemProperties {
	return make(ItemProperties)
}

// Clone returns a shallow copy of the bag. Cloning a nil bag returns an
// empty one.
func (p ItemProperties) Clone() ItemProperties {
	out := make(ItemProperties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Has reports whether the key is present.
func (p ItemProperties) Has(key string) bool {
	_, ok := p[key]
	return ok
}

// Set stores a value under the key.
func (p ItemProperties) Set(key string, value interface{}) {
	p[key] = value
}

// Delete removes the key if present.
func (p ItemProperties) Delete(key string) {
	delete(p, key)
}

// GetString returns the string stored under key, or def when absent or of
// another type.
func (p ItemProperties) GetString(key, def string) string {
	if v, ok := p[key].(string); ok {
		return v
	}
	return def
}

// GetInt returns the integer stored under key, or def when absent.
func (p ItemProperties) GetInt(key string, def int) int {
	switch v := p[key].(type) {
	case int:
		return v
	case int32:
		return int(v)
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return def
}

// GetFloat returns the number stored under key, or def when absent.
func (p ItemProperties) GetFloat(key string, def float64) float64 {
	if f, ok := asFloat(p[key]); ok {
		return f
	}
	return def
}

// GetBool returns the bool stored under key, or def when absent.
func (p ItemProperties) GetBool(key string, def bool) bool {
	if v, ok := p[key].(bool); ok {
		return v
	}
	return def
}

// GetStringSlice returns the string list stored under key, or nil when
// absent.
func (p ItemProperties) GetStringSlice(key string) []string {
	switch v := p[key].(type) {
	case []string:
		out := make([]string, len(v))
		copy(out, v)
		return out
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// GetWeights returns a flat weight list, or nil when absent.
func (p ItemProperties) GetWeights(key string) []float64 {
	return asFloats(p[key])
}

// GetWeightRows returns a two-level weight list (e.g. matrix rows), or nil
// when absent.
func (p ItemProperties) GetWeightRows(key string) [][]float64 {
	items, ok := asSlice(p[key])
	if !ok {
		return nil
	}
	out := make([][]float64, 0, len(items))
	for _, item := range items {
		out = append(out, asFloats(item))
	}
	return out
}

// GetWeightTable returns a three-level weight list (free response reply
// weights: field -> condition -> values), or nil when absent.
func (p ItemProperties) GetWeightTable(key string) [][][]float64 {
	items, ok := asSlice(p[key])
	if !ok {
		return nil
	}
	out := make([][][]float64, 0, len(items))
	for _, item := range items {
		rows, _ := asSlice(item)
		field := make([][]float64, 0, len(rows))
		for _, row := range rows {
			field = append(field, asFloats(row))
		}
		out = append(out, field)
	}
	return out
}

func asSlice(v interface{}) ([]interface{}, bool) {
	switch s := v.(type) {
	case []interface{}:
		return s, true
	case [][]float64:
		out := make([]interface{}, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	case [][][]float64:
		out := make([]interface{}, len(s))
		for i := range s {
			out[i] = s[i]
		}
		return out, true
	}
	return nil, false
}

func asFloats(v interface{}) []float64 {
	switch s := v.(type) {
	case []float64:
		out := make([]float64, len(s))
		copy(out, s)
		return out
	case []interface{}:
		out := make([]float64, 0, len(s))
		for _, item := range s {
			if f, ok := asFloat(item); ok {
				out = append(out, f)
			}
		}
		return out
	}
	return nil
}

func asFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
