package scoring

import "surveystudio/internal/model"

// QuestionSource is the slice of the question widget contract the aggregator
// needs: the widget's highest possible score and the attributes it is tagged
// to assess.
type QuestionSource interface {
	PossibleTotalPoints() float64
	ScoringAttributes() []model.Attribute
}

// Totals is the output of one aggregation pass over the live questions.
type Totals struct {
	TotalPoints  float64                     `json:"totalPoints"`
	PerAttribute map[model.Attribute]float64 `json:"perAttribute"`
}

// Aggregate walks the live question widgets and sums possible points, both
// overall and per tagged attribute. A question feeds an attribute's total
// only when its own possible points are positive and it declares that
// attribute among its scored attributes.
func Aggregate(questions []QuestionSource) Totals {
	totals := Totals{PerAttribute: make(map[model.Attribute]float64)}
	for _, q := range questions {
		points := q.PossibleTotalPoints()
		totals.TotalPoints += points
		if points <= 0 {
			continue
		}
		for _, attr := range q.ScoringAttributes() {
			if existing, ok := totals.PerAttribute[attr]; ok {
				totals.PerAttribute[attr] = existing + points
			} else {
				totals.PerAttribute[attr] = points
			}
		}
	}
	return totals
}
