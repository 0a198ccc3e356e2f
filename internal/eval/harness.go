// Package eval scores end-to-end ranking quality against labeled test
// cases. It is the sole correctness oracle for weight tuning.
package eval

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strings"

	"github.com/gutensearch/gutensearch/internal/search"
	"github.com/gutensearch/gutensearch/pkg/logger"
)

// Case is one labeled evaluation query. TargetTitle is a human-readable
// fragment that is fuzzy-resolved against the corpus document ids.
type Case struct {
	Query       string `json:"query"`
	Emotion     string `json:"emotion"`
	TargetTitle string `json:"target_title"`
}

// CaseResult records where the target landed for one case. Rank is 1-based;
// 0 means the target never appeared in the ranking.
type CaseResult struct {
	Case           Case
	Rank           int
	FoundID        string
	ReciprocalRank float64
	SuccessAtK     float64
	NDCGAtK        float64
}

// Report aggregates all case results by arithmetic mean.
type Report struct {
	Cases      []CaseResult
	Evaluated  int
	Skipped    int
	MRR        float64
	SuccessAtK float64
	NDCGAtK    float64
	K          int
}

// Harness runs labeled cases through the query engine and hybrid ranker.
type Harness struct {
	engine *search.Engine
	ranker *search.Ranker
	docIDs []string
	k      int
	logger *slog.Logger
}

// NewHarness creates a Harness evaluating at cutoff k. docIDs is the
// corpus document universe used for fuzzy target resolution.
func NewHarness(engine *search.Engine, ranker *search.Ranker, docIDs []string, k int) *Harness {
	if k < 1 {
		k = 10
	}
	return &Harness{
		engine: engine,
		ranker: ranker,
		docIDs: docIDs,
		k:      k,
		logger: logger.WithComponent("evaluator"),
	}
}

// LoadCases reads a JSON array of cases. Malformed entries (missing query
// or target) are dropped with a warning; the count of dropped entries comes
// back alongside the usable cases.
func LoadCases(path string) ([]Case, int, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, 0, fmt.Errorf("reading test cases %s: %w", path, err)
	}
	var raw []Case
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, 0, fmt.Errorf("parsing test cases %s: %w", path, err)
	}
	cases := make([]Case, 0, len(raw))
	skipped := 0
	for i, c := range raw {
		if c.Query == "" || c.TargetTitle == "" {
			skipped++
			logger.WithComponent("evaluator").Warn("skipping malformed test case", "index", i)
			continue
		}
		cases = append(cases, c)
	}
	return cases, skipped, nil
}

// ResolveTarget fuzzy-matches a title fragment against the corpus ids:
// both sides are lowercased and separator characters collapse to spaces,
// then a substring match decides. Several ids may match (duplicate
// editions); any of them counts as a hit.
func (h *Harness) ResolveTarget(fragment string) []string {
	needle := normalizeTitle(fragment)
	if needle == "" {
		return nil
	}
	var matches []string
	for _, docID := range h.docIDs {
		if strings.Contains(normalizeTitle(docID), needle) {
			matches = append(matches, docID)
		}
	}
	return matches
}

func normalizeTitle(s string) string {
	s = strings.ToLower(s)
	s = strings.ReplaceAll(s, "_", " ")
	s = strings.ReplaceAll(s, "-", " ")
	return strings.Join(strings.Fields(s), " ")
}

// Run evaluates every case under the given weights and returns the
// aggregated report. Cases whose target cannot be resolved in the corpus
// are skipped and counted, matching the soft-failure policy for records.
func (h *Harness) Run(cases []Case, weights search.Weights) Report {
	report := Report{K: h.k}

	for _, c := range cases {
		targets := h.ResolveTarget(c.TargetTitle)
		if len(targets) == 0 {
			report.Skipped++
			h.logger.Warn("target not found in corpus", "target", c.TargetTitle)
			continue
		}
		targetSet := make(map[string]struct{}, len(targets))
		for _, id := range targets {
			targetSet[id] = struct{}{}
		}

		lexical := h.engine.Search(c.Query)
		ranked := h.ranker.Rank(lexical, c.Emotion, weights)

		result := CaseResult{Case: c}
		for i, doc := range ranked {
			if _, ok := targetSet[doc.DocID]; ok {
				result.Rank = i + 1
				result.FoundID = doc.DocID
				break
			}
		}
		if result.Rank > 0 {
			result.ReciprocalRank = 1 / float64(result.Rank)
			if result.Rank <= h.k {
				result.SuccessAtK = 1
				result.NDCGAtK = 1 / math.Log2(float64(result.Rank)+1)
			}
		}

		report.Cases = append(report.Cases, result)
		report.Evaluated++
		report.MRR += result.ReciprocalRank
		report.SuccessAtK += result.SuccessAtK
		report.NDCGAtK += result.NDCGAtK
	}

	if report.Evaluated > 0 {
		n := float64(report.Evaluated)
		report.MRR /= n
		report.SuccessAtK /= n
		report.NDCGAtK /= n
	}
	return report
}
