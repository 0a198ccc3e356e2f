package eval

import (
	"sort"

	"github.com/gutensearch/gutensearch/internal/search"
)

// SweepResult is one grid point of a weight sweep.
type SweepResult struct {
	Weights search.Weights
	MRR     float64
}

// Sweep evaluates every (text, emotion) weight combination and returns the
// grid sorted by descending MRR, ties broken by lower text weight then
// lower emotion weight. The all-zero combination is skipped since it scores
// nothing.
func (h *Harness) Sweep(cases []Case, textWeights, emotionWeights []float64, minCount int) []SweepResult {
	var results []SweepResult
	for _, tw := range textWeights {
		for _, ew := range emotionWeights {
			if tw == 0 && ew == 0 {
				continue
			}
			weights := search.Weights{Text: tw, Emotion: ew, MinCount: minCount}
			report := h.Run(cases, weights)
			results = append(results, SweepResult{Weights: weights, MRR: report.MRR})
		}
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].MRR != results[j].MRR {
			return results[i].MRR > results[j].MRR
		}
		if results[i].Weights.Text != results[j].Weights.Text {
			return results[i].Weights.Text < results[j].Weights.Text
		}
		return results[i].Weights.Emotion < results[j].Weights.Emotion
	})
	return results
}
