package model

import "fmt"

// Attribute identifies a learner-state dimension a survey can be configured
// to assess and score toward (e.g. Knowledge, Anxiety).
type Attribute string

const (
	AttributeKnowledge  Attribute = "Knowledge"
	AttributeSkill      Attribute = "Skill"
	AttributeMotivation Attribute = "Motivation"
	AttributeAnxiety    Attribute = "Anxiety"
	AttributeEngagement Attribute = "Engagement"
	AttributeAttention  Attribute = "Attention"
	AttributeArousal    Attribute = "Arousal"
)

// Score band level names.
const (
	LevelNovice     = "Novice"
	LevelJourneyman = "Journeyman"
	LevelExpert     = "Expert"
	LevelLow        = "Low"
	LevelMedium     = "Medium"
	LevelHigh       = "High"
)

// attributeLevels maps each attribute to its authored score levels, ordered
// lowest to highest. Two entries means a 2-state attribute, three entries a
// 3-state attribute.
var attributeLevels = map[Attribute][]string{
	AttributeKnowledge:  {LevelNovice, LevelJourneyman, LevelExpert},
	AttributeSkill:      {LevelNovice, LevelJourneyman, LevelExpert},
	AttributeMotivation: {LevelLow, LevelMedium, LevelHigh},
	AttributeAnxiety:    {LevelLow, LevelMedium, LevelHigh},
	AttributeEngagement: {LevelLow, LevelMedium, LevelHigh},
	AttributeAttention:  {LevelLow, LevelHigh},
	AttributeArousal:    {LevelLow, LevelHigh},
}

// sortedAttributes is the picklist order shown to authors.
var sortedAttributes = []Attribute{
	AttributeAnxiety,
	AttributeArousal,
	AttributeAttention,
	AttributeEngagement,
	AttributeKnowledge,
	AttributeMotivation,
	AttributeSkill,
}

// SortedAttributes returns every scoreable attribute in display order.
func SortedAttributes() []Attribute {
	out := make([]Attribute, len(sortedAttributes))
	copy(out, sortedAttributes)
	return out
}

// ParseAttribute converts a raw string into a known Attribute.
func ParseAttribute(s string) (Attribute, error) {
	a := Attribute(s)
	if _, ok := attributeLevels[a]; !ok {
		return "", fmt.Errorf("unknown learner state attribute %q", s)
	}
	return a, nil
}

// Levels returns the attribute's authored score levels, lowest first.
func (a Attribute) Levels() []string {
	levels := attributeLevels[a]
	out := make([]string, len(levels))
	copy(out, levels)
	return out
}

// StateCount returns 2 for a low/high attribute and 3 for a
// low/medium/high attribute.
func (a Attribute) StateCount() int {
	return len(attributeLevels[a])
}

// Valid reports whether the attribute is a known scoreable attribute.
func (a Attribute) Valid() bool {
	_, ok := attributeLevels[a]
	return ok
}
