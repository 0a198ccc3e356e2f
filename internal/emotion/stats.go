package emotion

import (
	"math"
	"sort"
)

// Stat is the corpus density baseline for one emotion.
type Stat struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Stats maps emotion name to its corpus baseline. Like the index, it is
// built once and read-only afterwards; it must be recomputed wholesale
// whenever the segment population changes.
type Stats map[string]Stat

// ComputeStats derives the population mean and standard deviation of
// emotion density (count / length) across every scanned segment. Every
// emotion observed anywhere in the results gets a baseline; segments
// lacking that emotion contribute a zero density.
func ComputeStats(results Results, length func(docID string) int) Stats {
	if len(results) == 0 {
		return Stats{}
	}

	emotions := make(map[string]struct{})
	for _, r := range results {
		for tag := range r.Vector {
			emotions[tag] = struct{}{}
		}
	}
	names := make([]string, 0, len(emotions))
	for tag := range emotions {
		names = append(names, tag)
	}
	sort.Strings(names)

	n := float64(len(results))
	stats := make(Stats, len(names))
	for _, tag := range names {
		densities := make([]float64, 0, len(results))
		for _, r := range results {
			l := length(r.DocID)
			if l < 1 {
				l = 1
			}
			densities = append(densities, float64(r.Vector[tag])/float64(l))
		}

		var sum float64
		for _, d := range densities {
			sum += d
		}
		mean := sum / n

		var sqDiff float64
		for _, d := range densities {
			diff := d - mean
			sqDiff += diff * diff
		}
		std := math.Sqrt(sqDiff / n)
		if std < 0 || math.IsNaN(std) {
			std = 0
		}
		stats[tag] = Stat{Mean: mean, Std: std}
	}
	return stats
}

// ZScore returns the z-score of a density against the baseline for the
// given emotion. A zero standard deviation or an unknown emotion resolves
// to exactly 0, never NaN or an infinity.
func (s Stats) ZScore(emotion string, density float64) float64 {
	stat, ok := s[emotion]
	if !ok || stat.Std <= 0 {
		return 0
	}
	return (density - stat.Mean) / stat.Std
}
