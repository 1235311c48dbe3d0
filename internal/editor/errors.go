package editor

import (
	"errors"
	"fmt"

	"surveystudio/internal/model"
)

// ErrNoSuchElement is returned when an operation names an element id the
// session does not hold a widget for.
var ErrNoSuchElement = errors.New("no survey element with that id")

// ErrNoSuchRule is returned when an operation names an attribute with no
// active scoring rule.
var ErrNoSuchRule = errors.New("no scoring rule for that attribute")

// ErrNotScored is returned when a scoring operation targets a widget type
// that is never scored.
var ErrNotScored = errors.New("element type is not scored")

// LoadError reports that one survey element could not be loaded into the
// widget the editor chose for it. It aborts that element's load only, never
// the whole survey.
type LoadError struct {
	ElementID string
	Expected  model.ElementType
	Reason    string
}

func (e *LoadError) Error() string {
	return fmt.Sprintf("load element %s: expected %s data: %s", e.ElementID, e.Expected, e.Reason)
}
