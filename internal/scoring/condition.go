// Package scoring implements the survey editor's scoring rules: per-response-
// field range conditions, per-attribute threshold rules, possible-point
// aggregation and the recompute pipeline that keeps them consistent while a
// survey is edited. The package is pure in-memory logic; one editing session
// owns its instances and mutates them from a single goroutine.
package scoring

import "github.com/google/uuid"

// RangeCondition is one scored numeric interval, or the catch-all row
// matching any response not covered by an earlier condition. Validation
// results are advisory display state, never hard errors.
type RangeCondition struct {
	id       string
	Points   float64
	Min      *float64
	Max      *float64
	CatchAll bool

	// rangeEnabled tracks whether the author opted into an explicit upper
	// bound. Clearing Max clears it.
	rangeEnabled bool

	invalid bool
	reason  string
}

func newRangeCondition(catchAll bool) *RangeCondition {
	return &RangeCondition{
		id:       uuid.New().String(),
		CatchAll: catchAll,
	}
}

// ID returns the condition's stable identity within its range set.
func (c *RangeCondition) ID() string { return c.id }

// RangeEnabled reports whether the condition has an explicit upper bound.
func (c *RangeCondition) RangeEnabled() bool { return c.rangeEnabled }

// Invalid reports whether the last validation pass flagged this condition.
func (c *RangeCondition) Invalid() bool { return c.invalid }

// InvalidReason returns the display message for the flagged condition, empty
// when the condition is valid.
func (c *RangeCondition) InvalidReason() string { return c.reason }

func (c *RangeCondition) markInvalid(reason string) {
	c.invalid = true
	if c.reason == "" {
		c.reason = reason
	}
}

func (c *RangeCondition) clearInvalid() {
	c.invalid = false
	c.reason = ""
}

// contains reports whether v falls inside the condition's closed interval.
// A missing max makes the interval the single point [min, min].
func (c *RangeCondition) contains(v float64) bool {
	if c.CatchAll || c.Min == nil {
		return false
	}
	max := *c.Min
	if c.Max != nil {
		max = *c.Max
	}
	return v >= *c.Min && v <= max
}
