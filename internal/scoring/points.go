package scoring

import (
	"errors"
	"sort"
)

// ErrNoWeights is returned when a question has no weight data to score.
var ErrNoWeights = errors.New("question has no answer weights")

// HighestScoreFreeResponse returns the best total a respondent could earn on
// a free response question: per field, the highest condition's points (never
// below zero, since the catch-all applies when nothing matches). Fields whose
// weights were dropped as invalid contribute nothing.
func HighestScoreFreeResponse(replyWeights [][][]float64) (float64, error) {
	if len(replyWeights) == 0 {
		return 0, ErrNoWeights
	}
	total := 0.0
	for _, field := range replyWeights {
		best := 0.0
		for _, row := range field {
			if len(row) > 0 && row[0] > best {
				best = row[0]
			}
		}
		total += best
	}
	return total, nil
}

// HighestScoreMultipleChoice returns the best score a respondent could earn
// given the per-option weights and the selection bounds: the top weights are
// taken while they help, but at least minSelections picks are forced even
// when they hurt.
func HighestScoreMultipleChoice(weights []float64, minSelections, maxSelections int) (float64, error) {
	if len(weights) == 0 {
		return 0, ErrNoWeights
	}
	if maxSelections <= 0 || maxSelections > len(weights) {
		maxSelections = len(weights)
	}
	if minSelections < 0 {
		minSelections = 0
	}
	sorted := append([]float64(nil), weights...)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	total := 0.0
	for i := 0; i < maxSelections; i++ {
		if i >= minSelections && sorted[i] <= 0 {
			break
		}
		total += sorted[i]
	}
	return total, nil
}

// HighestScoreMatrix returns the best score over a matrix question: every row
// answers independently, so the positive maximum of each row sums.
func HighestScoreMatrix(rows [][]float64) (float64, error) {
	if len(rows) == 0 {
		return 0, ErrNoWeights
	}
	total := 0.0
	for _, row := range rows {
		best := 0.0
		for _, w := range row {
			if w > best {
				best = w
			}
		}
		total += best
	}
	return total, nil
}

// HighestScoreFlat returns the best single pick from a flat weight list
// (rating scale, true/false, slider bands). Never below zero.
func HighestScoreFlat(weights []float64) (float64, error) {
	if len(weights) == 0 {
		return 0, ErrNoWeights
	}
	best := 0.0
	for _, w := range weights {
		if w > best {
			best = w
		}
	}
	return best, nil
}
