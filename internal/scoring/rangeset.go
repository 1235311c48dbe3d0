package scoring

import (
	"errors"
	"strconv"

	"surveystudio/internal/model"
)

// ErrInvalidNumber is returned when a min/max/points edit does not parse as a
// number. The condition keeps its prior value.
var ErrInvalidNumber = errors.New("value is not a number")

// ErrNoSuchCondition is returned when a condition id is not in the set.
var ErrNoSuchCondition = errors.New("no scoring condition with that id")

// Validation messages surfaced on flagged conditions.
const (
	reasonMissingMin = "a minimum value is required"
	reasonMinOverMax = "the minimum value is greater than the maximum value"
	reasonOverlap    = "the range overlaps an earlier scoring condition"
)

// RangeSet owns the ordered scoring conditions for one response field.
// Insertion order matters: evaluation is first-match-wins, and the catch-all
// entry, when present, is last. Conflicting ranges are flagged for the
// author, never auto-resolved.
type RangeSet struct {
	responseType model.ResponseType
	conditions   []*RangeCondition
}

// NewRangeSet creates the scoring set for a new response field: a single
// empty catch-all condition.
func NewRangeSet(responseType model.ResponseType) *RangeSet {
	return &RangeSet{
		responseType: responseType,
		conditions:   []*RangeCondition{newRangeCondition(true)},
	}
}

// NewRangeSetFromWeights rebuilds a set from persisted weight rows of the
// shape [points], [points, min] or [points, min, max]. A [points] row is the
// catch-all. An empty row list behaves like NewRangeSet.
func NewRangeSetFromWeights(responseType model.ResponseType, rows [][]float64) *RangeSet {
	s := &RangeSet{responseType: responseType}
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		c := newRangeCondition(len(row) == 1)
		c.Points = row[0]
		if len(row) > 1 {
			min := row[1]
			c.Min = &min
		}
		if len(row) > 2 {
			max := row[2]
			c.Max = &max
			c.rangeEnabled = true
		}
		s.conditions = append(s.conditions, c)
	}
	if len(s.conditions) == 0 {
		s.conditions = []*RangeCondition{newRangeCondition(true)}
	}
	s.ValidateConflicts()
	return s
}

// ResponseType returns the field's response type.
func (s *RangeSet) ResponseType() model.ResponseType { return s.responseType }

// SetResponseType switches the field's response type. Switching to FREE_TEXT
// discards every condition and forces a single empty catch-all, since free
// text responses are never scored against ranges.
func (s *RangeSet) SetResponseType(responseType model.ResponseType) {
	if s.responseType == responseType {
		return
	}
	s.responseType = responseType
	if responseType == model.ResponseFreeText {
		s.conditions = []*RangeCondition{newRangeCondition(true)}
	}
}

// Conditions returns the conditions in evaluation order.
func (s *RangeSet) Conditions() []*RangeCondition {
	out := make([]*RangeCondition, len(s.conditions))
	copy(out, s.conditions)
	return out
}

// Condition returns the condition with the given id.
func (s *RangeSet) Condition(id string) (*RangeCondition, bool) {
	for _, c := range s.conditions {
		if c.id == id {
			return c, true
		}
	}
	return nil, false
}

// AddCondition inserts a new condition at the front of the list with zero
// points and no range, then re-validates.
func (s *RangeSet) AddCondition() *RangeCondition {
	c := newRangeCondition(false)
	s.conditions = append([]*RangeCondition{c}, s.conditions...)
	s.ValidateConflicts()
	return c
}

// RemoveCondition deletes the condition by identity and re-validates the
// remainder.
func (s *RangeSet) RemoveCondition(id string) error {
	for i, c := range s.conditions {
		if c.id == id {
			s.conditions = append(s.conditions[:i], s.conditions[i+1:]...)
			s.ValidateConflicts()
			return nil
		}
	}
	return ErrNoSuchCondition
}

// SetPoints parses raw as the condition's point value. A failed parse keeps
// the prior value and returns ErrInvalidNumber.
func (s *RangeSet) SetPoints(id, raw string) error {
	c, ok := s.Condition(id)
	if !ok {
		return ErrNoSuchCondition
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ErrInvalidNumber
	}
	c.Points = v
	s.ValidateConflicts()
	return nil
}

// SetMin parses raw as the condition's lower bound. A failed parse keeps the
// prior value and returns ErrInvalidNumber; an empty string clears the bound.
func (s *RangeSet) SetMin(id, raw string) error {
	c, ok := s.Condition(id)
	if !ok {
		return ErrNoSuchCondition
	}
	if raw == "" {
		c.Min = nil
		s.ValidateConflicts()
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ErrInvalidNumber
	}
	c.Min = &v
	s.ValidateConflicts()
	return nil
}

// SetMax parses raw as the condition's upper bound. An empty string clears
// both the bound and the condition's range-enabled flag; a failed parse keeps
// the prior value and returns ErrInvalidNumber.
func (s *RangeSet) SetMax(id, raw string) error {
	c, ok := s.Condition(id)
	if !ok {
		return ErrNoSuchCondition
	}
	if raw == "" {
		c.Max = nil
		c.rangeEnabled = false
		s.ValidateConflicts()
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return ErrInvalidNumber
	}
	c.Max = &v
	c.rangeEnabled = true
	s.ValidateConflicts()
	return nil
}

// WeightedScores renders the set into persistable weight rows.
//
// FREE_TEXT fields return an empty (non-nil) list: they are never scored.
// NUMERIC fields return one row per condition: [points] for the catch-all,
// [points, min] or [points, min, max] otherwise. The whole set renders to nil
// when any non-catch-all condition is missing its min or has min > max; a nil
// result means the field's scoring is invalid and is dropped on save.
func (s *RangeSet) WeightedScores() [][]float64 {
	if s.responseType == model.ResponseFreeText {
		return [][]float64{}
	}
	rows := make([][]float64, 0, len(s.conditions))
	for _, c := range s.conditions {
		if c.CatchAll {
			rows = append(rows, []float64{c.Points})
			continue
		}
		if c.Min == nil {
			return nil
		}
		if c.Max != nil {
			if *c.Min > *c.Max {
				return nil
			}
			rows = append(rows, []float64{c.Points, *c.Min, *c.Max})
		} else {
			rows = append(rows, []float64{c.Points, *c.Min})
		}
	}
	return rows
}

// ValidateConflicts re-derives every condition's invalid flag: a missing min,
// min > max, or a range whose endpoint falls inside an earlier condition's
// closed interval (single-point when max is absent). Overlaps flag both
// conditions involved. Evaluation still uses the first matching condition in
// list order; the author resolves ties manually.
func (s *RangeSet) ValidateConflicts() {
	for _, c := range s.conditions {
		c.clearInvalid()
	}
	if s.responseType == model.ResponseFreeText {
		return
	}

	for _, c := range s.conditions {
		if c.CatchAll {
			continue
		}
		if c.Min == nil {
			c.markInvalid(reasonMissingMin)
			continue
		}
		if c.Max != nil && *c.Min > *c.Max {
			c.markInvalid(reasonMinOverMax)
		}
	}

	for i, earlier := range s.conditions {
		if earlier.CatchAll || earlier.Min == nil {
			continue
		}
		for _, later := range s.conditions[i+1:] {
			if later.CatchAll || later.Min == nil {
				continue
			}
			if earlier.contains(*later.Min) || (later.Max != nil && earlier.contains(*later.Max)) {
				earlier.markInvalid(reasonOverlap)
				later.markInvalid(reasonOverlap)
			}
		}
	}
}

// HasConflicts reports whether any condition is currently flagged.
func (s *RangeSet) HasConflicts() bool {
	for _, c := range s.conditions {
		if c.invalid {
			return true
		}
	}
	return false
}
