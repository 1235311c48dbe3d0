package model

// OperatorGTE is the only comparison operator threshold conditions use.
const OperatorGTE = "GTE"

// ThresholdCondition is one (operator, value, level) band boundary in an
// attribute scorer. A learner whose points meet or exceed Value is placed at
// Level unless a higher condition already matched.
type ThresholdCondition struct {
	Operator string  `json:"operator" bson:"operator"`
	Value    float64 `json:"value" bson:"value"`
	Level    string  `json:"level" bson:"level"`
}

// AttributeScorer is the persisted scoring rule for one learner-state
// attribute. Conditions are kept sorted descending by value with the lowest
// band fixed at 0. ScoredOnTotal selects the point pool the rule is evaluated
// against: the survey's overall total, or only the questions tagged with the
// same attribute.
type AttributeScorer struct {
	Attribute     Attribute            `json:"attribute" bson:"attribute"`
	Conditions    []ThresholdCondition `json:"conditions" bson:"conditions"`
	ScoredOnTotal bool                 `json:"scoredOnTotal" bson:"scoredOnTotal"`
}

// TotalScorer groups the attribute rules evaluated against the survey-wide
// point total.
type TotalScorer struct {
	AttributeScorers []*AttributeScorer `json:"attributeScorers" bson:"attributeScorers"`
}

// SurveyScorer is the survey-level scoring configuration. The two collections
// are projections of each rule's ScoredOnTotal flag; a rule belongs to
// exactly one of them at all times.
type SurveyScorer struct {
	TotalScorer      TotalScorer        `json:"totalScorer" bson:"totalScorer"`
	AttributeScorers []*AttributeScorer `json:"attributeScorers" bson:"attributeScorers"`
}

// NewSurveyScorer returns an empty scoring configuration.
func NewSurveyScorer() *SurveyScorer {
	return &SurveyScorer{
		TotalScorer:      TotalScorer{AttributeScorers: []*AttributeScorer{}},
		AttributeScorers: []*AttributeScorer{},
	}
}

// AllAttributeScorers returns the rules from both collections, total scorers
// first, without deduplication.
func (s *SurveyScorer) AllAttributeScorers() []*AttributeScorer {
	out := make([]*AttributeScorer, 0, len(s.TotalScorer.AttributeScorers)+len(s.AttributeScorers))
	out = append(out, s.TotalScorer.AttributeScorers...)
	out = append(out, s.AttributeScorers...)
	return out
}
