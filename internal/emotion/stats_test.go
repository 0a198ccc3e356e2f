package emotion

import (
	"math"
	"testing"
)

func lengthsOf(m map[string]int) func(string) int {
	return func(docID string) int {
		if l, ok := m[docID]; ok {
			return l
		}
		return 1
	}
}

func TestComputeStats(t *testing.T) {
	results := Results{
		{DocID: "a", Vector: Vector{"fear": 2}},
		{DocID: "b", Vector: Vector{"fear": 4}},
	}
	lengths := lengthsOf(map[string]int{"a": 10, "b": 10})

	stats := ComputeStats(results, lengths)
	fear, ok := stats["fear"]
	if !ok {
		t.Fatal("fear baseline missing")
	}

	// densities 0.2 and 0.4: mean 0.3, population std 0.1.
	if math.Abs(fear.Mean-0.3) > 1e-12 {
		t.Errorf("mean = %v, want 0.3", fear.Mean)
	}
	if math.Abs(fear.Std-0.1) > 1e-12 {
		t.Errorf("std = %v, want 0.1", fear.Std)
	}
}

func TestComputeStatsCountsAbsentEmotionsAsZero(t *testing.T) {
	results := Results{
		{DocID: "a", Vector: Vector{"fear": 2}},
		{DocID: "b", Vector: Vector{"joy": 1}},
	}
	lengths := lengthsOf(map[string]int{"a": 10, "b": 10})

	stats := ComputeStats(results, lengths)
	// b contributes a zero fear density, so the mean halves.
	if math.Abs(stats["fear"].Mean-0.1) > 1e-12 {
		t.Errorf("fear mean = %v, want 0.1", stats["fear"].Mean)
	}
}

func TestZScoreDegenerateStd(t *testing.T) {
	// Identical densities: std is exactly 0.
	results := Results{
		{DocID: "a", Vector: Vector{"trust": 1}},
		{DocID: "b", Vector: Vector{"trust": 1}},
	}
	lengths := lengthsOf(map[string]int{"a": 5, "b": 5})

	stats := ComputeStats(results, lengths)
	if stats["trust"].Std != 0 {
		t.Fatalf("std = %v, want 0", stats["trust"].Std)
	}
	z := stats.ZScore("trust", 0.9)
	if z != 0 {
		t.Errorf("z-score with zero std = %v, want exactly 0", z)
	}
	if math.IsNaN(z) || math.IsInf(z, 0) {
		t.Errorf("z-score must never be NaN or infinite, got %v", z)
	}
}

func TestZScoreUnknownEmotion(t *testing.T) {
	stats := Stats{}
	if z := stats.ZScore("surprise", 0.5); z != 0 {
		t.Errorf("z-score for unknown emotion = %v, want 0", z)
	}
}

func TestZScoreSigned(t *testing.T) {
	stats := Stats{"fear": {Mean: 0.2, Std: 0.1}}
	if z := stats.ZScore("fear", 0.4); math.Abs(z-2) > 1e-12 {
		t.Errorf("z = %v, want 2", z)
	}
	if z := stats.ZScore("fear", 0.1); math.Abs(z+1) > 1e-12 {
		t.Errorf("z = %v, want -1", z)
	}
}
