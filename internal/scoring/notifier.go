package scoring

// Notifier receives fire-and-forget scoring notifications destined for the
// UI layer. It is injected at construction and scoped to one editing session;
// implementations must not block.
type Notifier interface {
	// ScoreValueChanged signals that totals, thresholds or conflict flags
	// were recomputed. Emitted once per authoring action.
	ScoreValueChanged()
	// ScrollToElement asks the UI to bring the named element into view.
	ScrollToElement(elementID string)
}

// NopNotifier discards every notification.
type NopNotifier struct{}

func (NopNotifier) ScoreValueChanged()      {}
func (NopNotifier) ScrollToElement(string) {}
