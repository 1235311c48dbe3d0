package editor

import (
	"errors"
	"log"
	"time"

	"surveystudio/internal/model"
	"surveystudio/internal/scoring"
)

// Session is one open survey in the editor. It owns a widget per element,
// the survey's scoring rules, and the synchronizer that keeps the two
// consistent. A session is not safe for concurrent use; the editor service
// serializes access to it.
type Session struct {
	survey *model.Survey
	pages  [][]Widget
	byID   map[string]Widget

	rules  *scoring.RuleSet
	sync   *scoring.Synchronizer
	events *Events

	totals   scoring.Totals
	loadErrs []*LoadError
}

// NewSession loads a survey into an editing session. An element whose data
// does not fit its declared type is kept read-only and reported through
// LoadErrors; the rest of the survey loads normally.
func NewSession(survey *model.Survey) (*Session, error) {
	s := &Session{
		survey: survey,
		byID:   make(map[string]Widget),
		events: NewEvents(),
	}
	for _, page := range survey.Pages {
		widgets := make([]Widget, 0, len(page.Elements))
		for i := range page.Elements {
			w, err := LoadWidget(&page.Elements[i])
			if err != nil {
				var le *LoadError
				if !errors.As(err, &le) {
					return nil, err
				}
				log.Printf("survey %s: %v", survey.ID, le)
				s.loadErrs = append(s.loadErrs, le)
				w = &rawWidget{element: page.Elements[i]}
			}
			widgets = append(widgets, w)
			s.byID[w.ID()] = w
		}
		s.pages = append(s.pages, widgets)
	}

	scorer := survey.Scorer
	if scorer == nil {
		scorer = model.NewSurveyScorer()
	}
	s.rules = scoring.NewRuleSet(scorer, scoring.Aggregate(s.questionSources()), s.events)
	s.sync = scoring.NewSynchronizer(s.questionSources, s.rangeSets, s.rules, s.events)
	s.totals = s.sync.Recompute()
	return s, nil
}

// Survey returns the survey being edited. Callers must not mutate it; Save
// produces the persisted form.
func (s *Session) Survey() *model.Survey { return s.survey }

// Events returns the session's event registry.
func (s *Session) Events() *Events { return s.events }

// Totals returns the totals from the last recompute.
func (s *Session) Totals() scoring.Totals { return s.totals }

// Rules returns the session's attribute rule set.
func (s *Session) Rules() *scoring.RuleSet { return s.rules }

// LoadErrors reports the elements that failed to load and are held
// read-only.
func (s *Session) LoadErrors() []*LoadError {
	out := make([]*LoadError, len(s.loadErrs))
	copy(out, s.loadErrs)
	return out
}

// Widgets returns all widgets in page order.
func (s *Session) Widgets() []Widget {
	var out []Widget
	for _, page := range s.pages {
		out = append(out, page...)
	}
	return out
}

// Widget returns the widget for an element id.
func (s *Session) Widget(id string) (Widget, error) {
	w, ok := s.byID[id]
	if !ok {
		return nil, ErrNoSuchElement
	}
	return w, nil
}

func (s *Session) questionSources() []scoring.QuestionSource {
	var out []scoring.QuestionSource
	for _, page := range s.pages {
		for _, w := range page {
			out = append(out, w)
		}
	}
	return out
}

func (s *Session) rangeSets() []*scoring.RangeSet {
	var out []*scoring.RangeSet
	for _, page := range s.pages {
		for _, w := range page {
			if fr, ok := w.(*FreeResponseWidget); ok {
				out = append(out, fr.RangeSets()...)
			}
		}
	}
	return out
}

func (s *Session) recompute() {
	s.totals = s.sync.Recompute()
}

// AddPage appends an empty page.
func (s *Session) AddPage(name string) {
	s.survey.Pages = append(s.survey.Pages, model.Page{Name: name})
	s.pages = append(s.pages, nil)
}

// AddElement appends a new element of the given type to a page.
func (s *Session) AddElement(page int, t model.ElementType) (Widget, error) {
	if page < 0 || page >= len(s.pages) {
		return nil, ErrNoSuchElement
	}
	w, err := NewWidget(t)
	if err != nil {
		return nil, err
	}
	s.pages[page] = append(s.pages[page], w)
	s.byID[w.ID()] = w
	s.recompute()
	return w, nil
}

// RemoveElement deletes an element from the survey.
func (s *Session) RemoveElement(id string) error {
	if _, ok := s.byID[id]; !ok {
		return ErrNoSuchElement
	}
	delete(s.byID, id)
	for p, page := range s.pages {
		for i, w := range page {
			if w.ID() == id {
				s.pages[p] = append(page[:i], page[i+1:]...)
				s.recompute()
				return nil
			}
		}
	}
	return ErrNoSuchElement
}

// SetElementText updates an element's question text.
func (s *Session) SetElementText(id, text string) error {
	w, err := s.Widget(id)
	if err != nil {
		return err
	}
	w.SetText(text)
	return nil
}

// TagQuestion sets the attributes a question contributes points to.
func (s *Session) TagQuestion(id string, attrs []model.Attribute) error {
	w, err := s.Widget(id)
	if err != nil {
		return err
	}
	w.SetScoringAttributes(attrs)
	s.recompute()
	return nil
}

// SetAnswerWeights replaces a weight-grid question's answer weights.
func (s *Session) SetAnswerWeights(id string, rows [][]float64) error {
	w, err := s.Widget(id)
	if err != nil {
		return err
	}
	we, ok := w.(WeightEditable)
	if !ok {
		return ErrNotScored
	}
	if err := we.SetWeights(rows); err != nil {
		return err
	}
	s.recompute()
	return nil
}

func (s *Session) freeResponse(id string) (*FreeResponseWidget, error) {
	w, err := s.Widget(id)
	if err != nil {
		return nil, err
	}
	fr, ok := w.(*FreeResponseWidget)
	if !ok {
		return nil, &LoadError{ElementID: id, Expected: model.ElementFreeResponse, Reason: "element is of type " + string(w.Type())}
	}
	return fr, nil
}

// SetResponseFields resizes a free response question's field list.
func (s *Session) SetResponseFields(id string, count int, defaultType model.ResponseType) error {
	fr, err := s.freeResponse(id)
	if err != nil {
		return err
	}
	fr.SetFieldCount(count, defaultType)
	s.recompute()
	return nil
}

// SetResponseFieldType switches one response field between numeric and free
// text scoring.
func (s *Session) SetResponseFieldType(id string, field int, t model.ResponseType) error {
	fr, err := s.freeResponse(id)
	if err != nil {
		return err
	}
	if err := fr.SetFieldType(field, t); err != nil {
		return err
	}
	s.recompute()
	return nil
}

// AddRangeCondition prepends a fresh scoring condition to a response field.
func (s *Session) AddRangeCondition(id string, field int) (*scoring.RangeCondition, error) {
	fr, err := s.freeResponse(id)
	if err != nil {
		return nil, err
	}
	rs, err := fr.RangeSet(field)
	if err != nil {
		return nil, err
	}
	c := rs.AddCondition()
	s.recompute()
	return c, nil
}

// RemoveRangeCondition deletes a scoring condition from a response field.
func (s *Session) RemoveRangeCondition(id string, field int, conditionID string) error {
	fr, err := s.freeResponse(id)
	if err != nil {
		return err
	}
	rs, err := fr.RangeSet(field)
	if err != nil {
		return err
	}
	if err := rs.RemoveCondition(conditionID); err != nil {
		return err
	}
	s.recompute()
	return nil
}

// SetRangePoints updates one condition's points from raw author input.
func (s *Session) SetRangePoints(id string, field int, conditionID, raw string) error {
	fr, err := s.freeResponse(id)
	if err != nil {
		return err
	}
	rs, err := fr.RangeSet(field)
	if err != nil {
		return err
	}
	if err := rs.SetPoints(conditionID, raw); err != nil {
		return err
	}
	s.recompute()
	return nil
}

// SetRangeMin updates one condition's minimum from raw author input.
func (s *Session) SetRangeMin(id string, field int, conditionID, raw string) error {
	fr, err := s.freeResponse(id)
	if err != nil {
		return err
	}
	rs, err := fr.RangeSet(field)
	if err != nil {
		return err
	}
	if err := rs.SetMin(conditionID, raw); err != nil {
		return err
	}
	s.recompute()
	return nil
}

// SetRangeMax updates one condition's maximum from raw author input. An
// empty value collapses the condition back to a single-value match.
func (s *Session) SetRangeMax(id string, field int, conditionID, raw string) error {
	fr, err := s.freeResponse(id)
	if err != nil {
		return err
	}
	rs, err := fr.RangeSet(field)
	if err != nil {
		return err
	}
	if err := rs.SetMax(conditionID, raw); err != nil {
		return err
	}
	s.recompute()
	return nil
}

// SelectAttributes sets the attributes the survey scores against. Rules for
// newly selected attributes start at their defaults; rules for de-selected
// attributes are discarded.
func (s *Session) SelectAttributes(attrs []model.Attribute) error {
	if !s.survey.Type.Scored() {
		return ErrNotScored
	}
	s.rules.OnSelectionChanged(attrs)
	s.recompute()
	return nil
}

// SetScoredOnTotal moves one attribute rule between total-score and
// per-attribute scoring.
func (s *Session) SetScoredOnTotal(attr model.Attribute, scoredOnTotal bool) error {
	if _, ok := s.rules.Rule(attr); !ok {
		return ErrNoSuchRule
	}
	s.rules.OnScoredOnToggle(attr, scoredOnTotal)
	s.recompute()
	return nil
}

// SetThresholds sets an attribute rule's level thresholds as percentages.
func (s *Session) SetThresholds(attr model.Attribute, percents ...float64) error {
	rule, ok := s.rules.Rule(attr)
	if !ok {
		return ErrNoSuchRule
	}
	if err := rule.SetThresholdPercents(percents...); err != nil {
		return err
	}
	s.recompute()
	return nil
}

// SetShowPoints toggles an attribute rule between percentage and absolute
// point display.
func (s *Session) SetShowPoints(attr model.Attribute, show bool) error {
	rule, ok := s.rules.Rule(attr)
	if !ok {
		return ErrNoSuchRule
	}
	rule.SetShowPoints(show)
	s.events.ScoreValueChanged()
	return nil
}

// Save writes every widget back into the survey document and returns it.
// Range conditions that are incomplete or inconsistent are dropped from the
// saved weights; the live session keeps them so the author can finish them.
func (s *Session) Save() *model.Survey {
	for p := range s.pages {
		elements := make([]model.Element, len(s.pages[p]))
		for i, w := range s.pages[p] {
			w.Save(&elements[i])
		}
		s.survey.Pages[p].Elements = elements
	}
	if s.survey.Type.Scored() {
		s.survey.Scorer = s.rules.Scorer()
	} else {
		s.survey.Scorer = nil
	}
	s.survey.UpdatedAt = time.Now().UTC()
	return s.survey
}

// rawWidget stands in for an element that failed to load. It contributes
// nothing to scoring, accepts no edits, and saves the element back exactly
// as it was read so a bad document never loses data.
type rawWidget struct {
	element model.Element
}

func (w *rawWidget) ID() string                                 { return w.element.ID }
func (w *rawWidget) Type() model.ElementType                    { return w.element.Type }
func (w *rawWidget) Text() string                               { return w.element.Text }
func (w *rawWidget) SetText(string)                             {}
func (w *rawWidget) PossibleTotalPoints() float64               { return 0 }
func (w *rawWidget) ScoringAttributes() []model.Attribute       { return nil }
func (w *rawWidget) SetScoringAttributes(attrs []model.Attribute) {}
func (w *rawWidget) Refresh()                                   {}
func (w *rawWidget) Load(el *model.Element) error               { w.element = *el; return nil }
func (w *rawWidget) Save(el *model.Element)                     { *el = w.element }
