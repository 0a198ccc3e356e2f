package eval

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/gutensearch/gutensearch/internal/corpus"
	"github.com/gutensearch/gutensearch/internal/emotion"
	"github.com/gutensearch/gutensearch/internal/index"
	"github.com/gutensearch/gutensearch/internal/search"
	"github.com/gutensearch/gutensearch/internal/synonyms"
)

// evalFixture builds a two-document corpus where "whale" ranks plain_0
// above moby_dick_0 lexically, but moby_dick_0 carries a strong fear
// signal. Weight choices decide which one wins.
func evalFixture(t *testing.T) (*search.Engine, *search.Ranker, []string) {
	t.Helper()
	ix := &index.Index{
		Inverted: map[string]map[string]int{
			"whale": {"moby_dick_0": 1, "plain_0": 2},
		},
		IDF:        map[string]float64{"whale": 1.0},
		DocLengths: map[string]int{"moby_dick_0": 10, "plain_0": 10},
	}
	results := emotion.Results{
		{DocID: "moby_dick_0", Vector: emotion.Vector{"fear": 4}},
		{DocID: "plain_0", Vector: emotion.Vector{"joy": 1}},
	}
	stats := emotion.ComputeStats(results, ix.Length)

	engine := search.NewEngine(ix, synonyms.NewTable(nil), corpus.NewAnalyzer(false), search.NormNone)
	ranker := search.NewRanker(ix, results, stats)
	return engine, ranker, []string{"moby_dick_0", "plain_0"}
}

func TestResolveTarget(t *testing.T) {
	h := NewHarness(nil, nil, []string{"moby_dick_0", "moby_dick_1", "frankenstein_0"}, 10)

	cases := []struct {
		fragment string
		want     []string
	}{
		{"Moby Dick", []string{"moby_dick_0", "moby_dick_1"}},
		{"moby-dick", []string{"moby_dick_0", "moby_dick_1"}},
		{"FRANKENSTEIN", []string{"frankenstein_0"}},
		{"dracula", nil},
		{"", nil},
	}
	for _, tt := range cases {
		if diff := cmp.Diff(tt.want, h.ResolveTarget(tt.fragment)); diff != "" {
			t.Errorf("ResolveTarget(%q) mismatch (-want +got):\n%s", tt.fragment, diff)
		}
	}
}

func TestRunMetricsAtRankTwo(t *testing.T) {
	engine, ranker, docIDs := evalFixture(t)
	h := NewHarness(engine, ranker, docIDs, 10)

	cases := []Case{{Query: "whale", TargetTitle: "Moby Dick"}}
	report := h.Run(cases, search.Weights{Text: 1})

	if report.Evaluated != 1 || report.Skipped != 0 {
		t.Fatalf("report = %+v, want 1 evaluated / 0 skipped", report)
	}
	result := report.Cases[0]
	if result.Rank != 2 || result.FoundID != "moby_dick_0" {
		t.Fatalf("result = %+v, want moby_dick_0 at rank 2", result)
	}
	if math.Abs(report.MRR-0.5) > 1e-12 {
		t.Errorf("MRR = %v, want 0.5", report.MRR)
	}
	if report.SuccessAtK != 1 {
		t.Errorf("Success@K = %v, want 1", report.SuccessAtK)
	}
	if want := 1 / math.Log2(3); math.Abs(report.NDCGAtK-want) > 1e-12 {
		t.Errorf("nDCG@K = %v, want %v", report.NDCGAtK, want)
	}
}

func TestRunEmotionWeightFlipsRanking(t *testing.T) {
	engine, ranker, docIDs := evalFixture(t)
	h := NewHarness(engine, ranker, docIDs, 10)

	cases := []Case{{Query: "whale", Emotion: "fear", TargetTitle: "Moby Dick"}}
	report := h.Run(cases, search.Weights{Text: 1, Emotion: 2})

	if report.Cases[0].Rank != 1 {
		t.Errorf("rank = %d, want 1 once the fear boost outweighs the lexical gap", report.Cases[0].Rank)
	}
	if math.Abs(report.MRR-1) > 1e-12 {
		t.Errorf("MRR = %v, want 1", report.MRR)
	}
}

func TestRunAbsentTargetScoresZero(t *testing.T) {
	engine, ranker, docIDs := evalFixture(t)
	h := NewHarness(engine, ranker, docIDs, 10)

	// The query matches nothing, so ranking falls back to discovery mode;
	// the min-count filter then drops the target, which has no joy at all.
	report := h.Run([]Case{{Query: "nonsense", Emotion: "joy", TargetTitle: "Moby Dick"}}, search.Weights{Text: 1, Emotion: 1, MinCount: 1})

	if report.Evaluated != 1 {
		t.Fatalf("report = %+v, want 1 evaluated", report)
	}
	result := report.Cases[0]
	if result.Rank != 0 || result.ReciprocalRank != 0 || result.SuccessAtK != 0 || result.NDCGAtK != 0 {
		t.Errorf("result = %+v, want all metrics zero for an absent target", result)
	}
}

func TestRunSkipsUnresolvableTarget(t *testing.T) {
	engine, ranker, docIDs := evalFixture(t)
	h := NewHarness(engine, ranker, docIDs, 10)

	report := h.Run([]Case{{Query: "whale", TargetTitle: "war and peace"}}, search.Weights{Text: 1})
	if report.Evaluated != 0 || report.Skipped != 1 {
		t.Errorf("report = %+v, want 0 evaluated / 1 skipped", report)
	}
}

func TestSuccessAtKRespectsCutoff(t *testing.T) {
	engine, ranker, docIDs := evalFixture(t)
	h := NewHarness(engine, ranker, docIDs, 1)

	report := h.Run([]Case{{Query: "whale", TargetTitle: "Moby Dick"}}, search.Weights{Text: 1})
	result := report.Cases[0]
	if result.Rank != 2 {
		t.Fatalf("rank = %d, want 2", result.Rank)
	}
	if result.SuccessAtK != 0 || result.NDCGAtK != 0 {
		t.Errorf("result = %+v, want Success@1 and nDCG@1 of 0 for rank 2", result)
	}
	if result.ReciprocalRank != 0.5 {
		t.Errorf("MRR ignores the cutoff, got RR %v", result.ReciprocalRank)
	}
}

func TestLoadCases(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cases.json")
	payload := `[
		{"query": "whale", "emotion": "fear", "target_title": "Moby Dick"},
		{"query": "", "emotion": "joy", "target_title": "missing query"},
		{"query": "no target", "emotion": "", "target_title": ""}
	]`
	if err := os.WriteFile(path, []byte(payload), 0644); err != nil {
		t.Fatal(err)
	}

	cases, skipped, err := LoadCases(path)
	if err != nil {
		t.Fatalf("LoadCases: %v", err)
	}
	if len(cases) != 1 || skipped != 2 {
		t.Fatalf("got %d cases / %d skipped, want 1 / 2", len(cases), skipped)
	}
	want := Case{Query: "whale", Emotion: "fear", TargetTitle: "Moby Dick"}
	if diff := cmp.Diff(want, cases[0]); diff != "" {
		t.Errorf("case mismatch (-want +got):\n%s", diff)
	}
}

func TestLoadCasesMissingFile(t *testing.T) {
	if _, _, err := LoadCases(filepath.Join(t.TempDir(), "nope.json")); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestSweepOrdersByMRR(t *testing.T) {
	engine, ranker, docIDs := evalFixture(t)
	h := NewHarness(engine, ranker, docIDs, 10)

	cases := []Case{{Query: "whale", Emotion: "fear", TargetTitle: "Moby Dick"}}
	results := h.Sweep(cases, []float64{0, 1}, []float64{0, 2}, 0)

	// (0,0) is skipped, leaving three grid points.
	if len(results) != 3 {
		t.Fatalf("got %d grid points, want 3", len(results))
	}
	best := results[0]
	if best.MRR != 1 {
		t.Errorf("best MRR = %v, want 1", best.MRR)
	}
	// Ties on MRR=1 break toward lower weights: pure emotion beats hybrid.
	if best.Weights.Text != 0 || best.Weights.Emotion != 2 {
		t.Errorf("best weights = %+v, want text 0 / emotion 2", best.Weights)
	}
	if last := results[len(results)-1]; last.MRR != 0.5 {
		t.Errorf("worst MRR = %v, want 0.5 for the lexical-only point", last.MRR)
	}
}
