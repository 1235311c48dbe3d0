// Package editor implements the non-visual half of the survey editor: the
// question widgets behind each survey element, and the session that routes
// authoring operations into the scoring core and back out to persistence.
package editor

// Events is the notification channel between one editing session and the UI
// transport. Callbacks are registered at session construction and invoked
// synchronously, fire-and-forget; the session never waits on a response.
// It satisfies scoring.Notifier.
type Events struct {
	scoreChanged []func()
	scrollTo     []func(elementID string)
}

// NewEvents returns an empty callback registry.
func NewEvents() *Events {
	return &Events{}
}

// OnScoreChanged registers a callback for score-changed notifications.
func (e *Events) OnScoreChanged(fn func()) {
	e.scoreChanged = append(e.scoreChanged, fn)
}

// OnScrollTo registers a callback for scroll-into-view requests.
func (e *Events) OnScrollTo(fn func(elementID string)) {
	e.scrollTo = append(e.scrollTo, fn)
}

// ScoreValueChanged fans the notification out to every registered callback.
func (e *Events) ScoreValueChanged() {
	for _, fn := range e.scoreChanged {
		fn()
	}
}

// ScrollToElement fans the request out to every registered callback.
func (e *Events) ScrollToElement(elementID string) {
	for _, fn := range e.scrollTo {
		fn(elementID)
	}
}
