package scoring

// Synchronizer re-derives all scoring state after an authoring action:
// aggregate totals, push the survey pool into total-scored rules and the
// per-attribute pools into same-attribute rules, re-validate every range set,
// then emit exactly one score-changed notification. It holds no state of its
// own; the closures supply the live widgets and range sets at call time.
type Synchronizer struct {
	questions func() []QuestionSource
	rangeSets func() []*RangeSet
	rules     *RuleSet
	notifier  Notifier
}

// NewSynchronizer wires the recompute pipeline for one editing session.
func NewSynchronizer(questions func() []QuestionSource, rangeSets func() []*RangeSet, rules *RuleSet, notifier Notifier) *Synchronizer {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Synchronizer{
		questions: questions,
		rangeSets: rangeSets,
		rules:     rules,
		notifier:  notifier,
	}
}

// Recompute runs the full pipeline and returns the fresh totals. Handlers
// call it once per user action, after all field mutations of that action are
// applied, so the UI sees a single notification.
func (s *Synchronizer) Recompute() Totals {
	totals := Aggregate(s.questions())

	if s.rules != nil {
		s.rules.SetTotalPoints(totals.TotalPoints)
		s.rules.SetTotalPointsPerAttribute(totals.PerAttribute)
	}

	for _, rs := range s.rangeSets() {
		rs.ValidateConflicts()
	}

	s.notifier.ScoreValueChanged()
	return totals
}
