package editor

import (
	"log"

	"github.com/google/uuid"

	"surveystudio/internal/model"
	"surveystudio/internal/scoring"
)

// Widget is the editor-side half of one survey element: it owns the
// element's typed state while the survey is open, computes its possible
// points, and loads/saves the persisted element document. The scoring core
// treats all widgets polymorphically through this contract.
type Widget interface {
	ID() string
	Type() model.ElementType
	Text() string
	SetText(text string)

	PossibleTotalPoints() float64
	ScoringAttributes() []model.Attribute
	SetScoringAttributes(attrs []model.Attribute)

	// Refresh re-derives any cached display state.
	Refresh()
	Load(el *model.Element) error
	Save(el *model.Element)
}

// WeightEditable is implemented by widgets whose scoring is a plain weight
// grid (one row for single-pick types, one row per matrix row). Free
// response widgets are edited through their range sets instead.
type WeightEditable interface {
	SetWeights(rows [][]float64) error
}

// NewWidget builds the widget for an element type. The switch is exhaustive
// over the editor's closed set of element types.
func NewWidget(t model.ElementType) (Widget, error) {
	base := baseWidget{id: uuid.New().String(), elementType: t}
	switch t {
	case model.ElementInfoText:
		return &InfoTextWidget{baseWidget: base}, nil
	case model.ElementEssay:
		return &EssayWidget{baseWidget: base}, nil
	case model.ElementFreeResponse:
		w := &FreeResponseWidget{baseWidget: base}
		w.SetFieldCount(1, model.ResponseFreeText)
		return w, nil
	case model.ElementMultipleChoice:
		return &MultipleChoiceWidget{baseWidget: base}, nil
	case model.ElementMatrixOfChoices:
		return &MatrixWidget{baseWidget: base}, nil
	case model.ElementSliderBar:
		return &SliderWidget{baseWidget: base, minValue: 0, maxValue: 100}, nil
	case model.ElementTrueFalse:
		return &TrueFalseWidget{baseWidget: base}, nil
	case model.ElementRatingScale:
		return &RatingScaleWidget{baseWidget: base}, nil
	}
	return nil, &LoadError{Expected: t, Reason: "unknown element type"}
}

// LoadWidget builds the widget for an element and loads it, returning a
// LoadError when the element's data does not fit its declared type.
func LoadWidget(el *model.Element) (Widget, error) {
	w, err := NewWidget(el.Type)
	if err != nil {
		return nil, err
	}
	if err := w.Load(el); err != nil {
		return nil, err
	}
	return w, nil
}

type baseWidget struct {
	id          string
	elementType model.ElementType
	text        string
	attrs       []model.Attribute

	// props holds the property bag as loaded, so keys this widget does not
	// model survive an edit/save round trip.
	props model.ItemProperties
}

func (w *baseWidget) ID() string              { return w.id }
func (w *baseWidget) Type() model.ElementType { return w.elementType }
func (w *baseWidget) Text() string            { return w.text }
func (w *baseWidget) SetText(text string)     { w.text = text }
func (w *baseWidget) Refresh()                {}

func (w *baseWidget) ScoringAttributes() []model.Attribute {
	out := make([]model.Attribute, len(w.attrs))
	copy(out, w.attrs)
	return out
}

func (w *baseWidget) SetScoringAttributes(attrs []model.Attribute) {
	w.attrs = w.attrs[:0]
	for _, a := range attrs {
		if a.Valid() {
			w.attrs = append(w.attrs, a)
		}
	}
}

func (w *baseWidget) loadBase(el *model.Element) error {
	if el.Type != w.elementType {
		return &LoadError{ElementID: el.ID, Expected: w.elementType, Reason: "element data is of type " + string(el.Type)}
	}
	if el.ID != "" {
		w.id = el.ID
	}
	w.text = el.Text
	w.props = el.Properties.Clone()
	w.attrs = w.attrs[:0]
	for _, s := range el.Properties.GetStringSlice(model.PropScoringAttributes) {
		attr, err := model.ParseAttribute(s)
		if err != nil {
			log.Printf("element %s: skipping %v", w.id, err)
			continue
		}
		w.attrs = append(w.attrs, attr)
	}
	return nil
}

func (w *baseWidget) saveBase(el *model.Element) {
	el.ID = w.id
	el.Type = w.elementType
	el.Text = w.text
	el.Properties = w.props.Clone()
	if len(w.attrs) > 0 {
		attrs := make([]string, len(w.attrs))
		for i, a := range w.attrs {
			attrs[i] = string(a)
		}
		el.Properties.Set(model.PropScoringAttributes, attrs)
	} else {
		el.Properties.Delete(model.PropScoringAttributes)
	}
}

// InfoTextWidget is a block of informative text. It is never scored.
type InfoTextWidget struct {
	baseWidget
}

func (w *InfoTextWidget) PossibleTotalPoints() float64 { return 0 }

func (w *InfoTextWidget) Load(el *model.Element) error { return w.loadBase(el) }
func (w *InfoTextWidget) Save(el *model.Element)       { w.saveBase(el) }

// EssayWidget is a long-form free text question. Essays are graded outside
// the authoring tool, so their possible points are always zero here.
type EssayWidget struct {
	baseWidget
}

func (w *EssayWidget) PossibleTotalPoints() float64 { return 0 }

func (w *EssayWidget) Load(el *model.Element) error { return w.loadBase(el) }
func (w *EssayWidget) Save(el *model.Element)       { w.saveBase(el) }

// FreeResponseWidget is a question with one or more typed response fields,
// each owning a scoring range set. Numeric fields score through their range
// conditions; free text fields carry a single empty catch-all and never
// score.
type FreeResponseWidget struct {
	baseWidget
	fieldTypes []model.ResponseType
	rangeSets  []*scoring.RangeSet
}

// SetFieldCount repopulates the response fields wholesale. Existing range
// sets are kept for surviving field indexes; new fields start with the given
// type and a fresh range set.
func (w *FreeResponseWidget) SetFieldCount(n int, defaultType model.ResponseType) {
	if n < 1 {
		n = 1
	}
	for len(w.fieldTypes) > n {
		w.fieldTypes = w.fieldTypes[:len(w.fieldTypes)-1]
		w.rangeSets = w.rangeSets[:len(w.rangeSets)-1]
	}
	for len(w.fieldTypes) < n {
		w.fieldTypes = append(w.fieldTypes, defaultType)
		w.rangeSets = append(w.rangeSets, scoring.NewRangeSet(defaultType))
	}
}

// SetFieldType switches one field's response type. The range set enforces the
// forced catch-all when switching to free text.
func (w *FreeResponseWidget) SetFieldType(field int, t model.ResponseType) error {
	if field < 0 || field >= len(w.fieldTypes) {
		return ErrNoSuchElement
	}
	w.fieldTypes[field] = t
	w.rangeSets[field].SetResponseType(t)
	return nil
}

// RangeSets returns the live range sets, one per response field.
func (w *FreeResponseWidget) RangeSets() []*scoring.RangeSet {
	out := make([]*scoring.RangeSet, len(w.rangeSets))
	copy(out, w.rangeSets)
	return out
}

// RangeSet returns the range set for one response field.
func (w *FreeResponseWidget) RangeSet(field int) (*scoring.RangeSet, error) {
	if field < 0 || field >= len(w.rangeSets) {
		return nil, ErrNoSuchElement
	}
	return w.rangeSets[field], nil
}

func (w *FreeResponseWidget) PossibleTotalPoints() float64 {
	table := make([][][]float64, 0, len(w.rangeSets))
	for _, rs := range w.rangeSets {
		rows := rs.WeightedScores()
		if rows == nil {
			rows = [][]float64{}
		}
		table = append(table, rows)
	}
	points, err := scoring.HighestScoreFreeResponse(table)
	if err != nil {
		log.Printf("element %s: %v, points set to 0", w.id, err)
		return 0
	}
	return points
}

func (w *FreeResponseWidget) Refresh() {
	for _, rs := range w.rangeSets {
		rs.ValidateConflicts()
	}
}

func (w *FreeResponseWidget) Load(el *model.Element) error {
	if err := w.loadBase(el); err != nil {
		return err
	}
	types := el.Properties.GetStringSlice(model.PropResponseFieldTypes)
	if len(types) == 0 {
		types = []string{string(model.ResponseFreeText)}
	}
	weights := el.Properties.GetWeightTable(model.PropAnswerWeights)
	// extraneous weights appear when a field was removed; drop them
	if len(weights) > len(types) {
		weights = weights[:len(types)]
	}

	w.fieldTypes = w.fieldTypes[:0]
	w.rangeSets = w.rangeSets[:0]
	for i, raw := range types {
		t := model.ResponseType(raw)
		if t != model.ResponseNumeric && t != model.ResponseFreeText {
			t = model.ResponseFreeText
		}
		w.fieldTypes = append(w.fieldTypes, t)
		if t == model.ResponseFreeText || i >= len(weights) {
			w.rangeSets = append(w.rangeSets, scoring.NewRangeSet(t))
		} else {
			w.rangeSets = append(w.rangeSets, scoring.NewRangeSetFromWeights(t, weights[i]))
		}
	}
	return nil
}

func (w *FreeResponseWidget) Save(el *model.Element) {
	w.saveBase(el)
	types := make([]string, len(w.fieldTypes))
	table := make([][][]float64, len(w.fieldTypes))
	for i, t := range w.fieldTypes {
		types[i] = string(t)
		rows := w.rangeSets[i].WeightedScores()
		if rows == nil {
			// invalid scoring for this field is dropped at save time
			rows = [][]float64{}
		}
		table[i] = rows
	}
	el.Properties.Set(model.PropResponseFieldTypes, types)
	el.Properties.Set(model.PropAnswerWeights, table)
}

// MultipleChoiceWidget is a pick-one-or-more question with a weight per
// reply option.
type MultipleChoiceWidget struct {
	baseWidget
	options       []string
	weights       []float64
	minSelections int
	maxSelections int
}

// SetOptions replaces the reply options, resizing the weight list to match.
func (w *MultipleChoiceWidget) SetOptions(options []string) {
	w.options = append([]string(nil), options...)
	weights := make([]float64, len(options))
	copy(weights, w.weights)
	w.weights = weights
}

// SetSelectionBounds sets the allowed number of picks.
func (w *MultipleChoiceWidget) SetSelectionBounds(min, max int) {
	w.minSelections = min
	w.maxSelections = max
}

func (w *MultipleChoiceWidget) SetWeights(rows [][]float64) error {
	if len(rows) != 1 || len(rows[0]) != len(w.options) {
		return ErrNotScored
	}
	copy(w.weights, rows[0])
	return nil
}

func (w *MultipleChoiceWidget) PossibleTotalPoints() float64 {
	points, err := scoring.HighestScoreMultipleChoice(w.weights, w.minSelections, w.maxSelections)
	if err != nil {
		return 0
	}
	return points
}

func (w *MultipleChoiceWidget) Load(el *model.Element) error {
	if err := w.loadBase(el); err != nil {
		return err
	}
	w.options = el.Properties.GetStringSlice(model.PropReplyOptions)
	w.weights = el.Properties.GetWeights(model.PropAnswerWeights)
	if len(w.weights) != len(w.options) {
		w.weights = make([]float64, len(w.options))
	}
	w.minSelections = el.Properties.GetInt(model.PropMinSelections, 1)
	w.maxSelections = el.Properties.GetInt(model.PropMaxSelections, 1)
	return nil
}

func (w *MultipleChoiceWidget) Save(el *model.Element) {
	w.saveBase(el)
	el.Properties.Set(model.PropReplyOptions, append([]string(nil), w.options...))
	el.Properties.Set(model.PropAnswerWeights, append([]float64(nil), w.weights...))
	el.Properties.Set(model.PropMinSelections, w.minSelections)
	el.Properties.Set(model.PropMaxSelections, w.maxSelections)
}

// MatrixWidget is a matrix-of-choices question: every row is answered
// independently against the same column options.
type MatrixWidget struct {
	baseWidget
	rowLabels    []string
	columnLabels []string
	weights      [][]float64
}

// SetGrid replaces the row and column labels, resizing the weight grid.
func (w *MatrixWidget) SetGrid(rows, columns []string) {
	w.rowLabels = append([]string(nil), rows...)
	w.columnLabels = append([]string(nil), columns...)
	grid := make([][]float64, len(rows))
	for i := range grid {
		grid[i] = make([]float64, len(columns))
		if i < len(w.weights) {
			copy(grid[i], w.weights[i])
		}
	}
	w.weights = grid
}

func (w *MatrixWidget) SetWeights(rows [][]float64) error {
	if len(rows) != len(w.rowLabels) {
		return ErrNotScored
	}
	for i, row := range rows {
		if len(row) != len(w.columnLabels) {
			return ErrNotScored
		}
		copy(w.weights[i], row)
	}
	return nil
}

func (w *MatrixWidget) PossibleTotalPoints() float64 {
	points, err := scoring.HighestScoreMatrix(w.weights)
	if err != nil {
		return 0
	}
	return points
}

func (w *MatrixWidget) Load(el *model.Element) error {
	if err := w.loadBase(el); err != nil {
		return err
	}
	w.rowLabels = el.Properties.GetStringSlice(model.PropMatrixRowLabels)
	w.columnLabels = el.Properties.GetStringSlice(model.PropMatrixColumnLabels)
	w.weights = el.Properties.GetWeightRows(model.PropAnswerWeights)
	if len(w.weights) != len(w.rowLabels) {
		w.SetGrid(w.rowLabels, w.columnLabels)
	}
	return nil
}

func (w *MatrixWidget) Save(el *model.Element) {
	w.saveBase(el)
	el.Properties.Set(model.PropMatrixRowLabels, append([]string(nil), w.rowLabels...))
	el.Properties.Set(model.PropMatrixColumnLabels, append([]string(nil), w.columnLabels...))
	el.Properties.Set(model.PropAnswerWeights, w.weights)
}

// SliderWidget is a slider bar question scored by weight bands across the
// slider's range.
type SliderWidget struct {
	baseWidget
	minValue float64
	maxValue float64
	weights  []float64
}

// SetRange sets the slider's endpoints.
func (w *SliderWidget) SetRange(min, max float64) {
	w.minValue = min
	w.maxValue = max
}

func (w *SliderWidget) SetWeights(rows [][]float64) error {
	if len(rows) != 1 {
		return ErrNotScored
	}
	w.weights = append([]float64(nil), rows[0]...)
	return nil
}

func (w *SliderWidget) PossibleTotalPoints() float64 {
	points, err := scoring.HighestScoreFlat(w.weights)
	if err != nil {
		return 0
	}
	return points
}

func (w *SliderWidget) Load(el *model.Element) error {
	if err := w.loadBase(el); err != nil {
		return err
	}
	w.minValue = el.Properties.GetFloat(model.PropSliderMinValue, 0)
	w.maxValue = el.Properties.GetFloat(model.PropSliderMaxValue, 100)
	w.weights = el.Properties.GetWeights(model.PropAnswerWeights)
	return nil
}

func (w *SliderWidget) Save(el *model.Element) {
	w.saveBase(el)
	el.Properties.Set(model.PropSliderMinValue, w.minValue)
	el.Properties.Set(model.PropSliderMaxValue, w.maxValue)
	el.Properties.Set(model.PropAnswerWeights, append([]float64(nil), w.weights...))
}

// TrueFalseWidget is a two-option question with a weight per answer.
type TrueFalseWidget struct {
	baseWidget
	weights [2]float64
}

func (w *TrueFalseWidget) SetWeights(rows [][]float64) error {
	if len(rows) != 1 || len(rows[0]) != 2 {
		return ErrNotScored
	}
	w.weights[0] = rows[0][0]
	w.weights[1] = rows[0][1]
	return nil
}

func (w *TrueFalseWidget) PossibleTotalPoints() float64 {
	points, err := scoring.HighestScoreFlat(w.weights[:])
	if err != nil {
		return 0
	}
	return points
}

func (w *TrueFalseWidget) Load(el *model.Element) error {
	if err := w.loadBase(el); err != nil {
		return err
	}
	weights := el.Properties.GetWeights(model.PropAnswerWeights)
	if len(weights) == 2 {
		w.weights[0] = weights[0]
		w.weights[1] = weights[1]
	}
	return nil
}

func (w *TrueFalseWidget) Save(el *model.Element) {
	w.saveBase(el)
	el.Properties.Set(model.PropAnswerWeights, []float64{w.weights[0], w.weights[1]})
}

// RatingScaleWidget is a single-pick scale question with a weight per scale
// point.
type RatingScaleWidget struct {
	baseWidget
	options []string
	weights []float64
}

// SetOptions replaces the scale points, resizing the weight list to match.
func (w *RatingScaleWidget) SetOptions(options []string) {
	w.options = append([]string(nil), options...)
	weights := make([]float64, len(options))
	copy(weights, w.weights)
	w.weights = weights
}

func (w *RatingScaleWidget) SetWeights(rows [][]float64) error {
	if len(rows) != 1 || len(rows[0]) != len(w.options) {
		return ErrNotScored
	}
	copy(w.weights, rows[0])
	return nil
}

func (w *RatingScaleWidget) PossibleTotalPoints() float64 {
	points, err := scoring.HighestScoreFlat(w.weights)
	if err != nil {
		return 0
	}
	return points
}

func (w *RatingScaleWidget) Load(el *model.Element) error {
	if err := w.loadBase(el); err != nil {
		return err
	}
	w.options = el.Properties.GetStringSlice(model.PropReplyOptions)
	w.weights = el.Properties.GetWeights(model.PropAnswerWeights)
	if len(w.weights) != len(w.options) {
		w.weights = make([]float64, len(w.options))
	}
	return nil
}

func (w *RatingScaleWidget) Save(el *model.Element) {
	w.saveBase(el)
	el.Properties.Set(model.PropReplyOptions, append([]string(nil), w.options...))
	el.Properties.Set(model.PropAnswerWeights, append([]float64(nil), w.weights...))
}
