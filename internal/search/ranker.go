package search

import (
	"sort"

	"github.com/gutensearch/gutensearch/internal/emotion"
	"github.com/gutensearch/gutensearch/internal/index"
)

// Weights configures one hybrid ranking pass. Values come from explicit
// configuration (or a sweep), never from package-level constants.
type Weights struct {
	Text    float64
	Emotion float64
	// MinCount drops candidates whose raw emotion count is below it. The
	// filter applies to the raw count, not the density or z-score.
	MinCount int
}

// RankedDoc is one hybrid result. ZScore keeps the signed value for
// diagnostics; ordering uses the clamped contribution only.
type RankedDoc struct {
	DocID  string  `json:"doc_id"`
	Score  float64 `json:"score"`
	ZScore float64 `json:"z_score"`
}

// Ranker merges lexical scores with the emotion z-score signal against the
// corpus baselines.
type Ranker struct {
	ix      *index.Index
	vectors map[string]emotion.Vector
	stats   emotion.Stats
	// universe is every known doc id in ascending order, used when ranking
	// runs in discovery mode without a lexical candidate list.
	universe []string
}

// NewRanker creates a Ranker over the loaded artifacts.
func NewRanker(ix *index.Index, results emotion.Results, stats emotion.Stats) *Ranker {
	universe := make([]string, 0, ix.DocCount())
	for docID := range ix.DocLengths {
		universe = append(universe, docID)
	}
	sort.Strings(universe)
	return &Ranker{
		ix:       ix,
		vectors:  results.ByDoc(),
		stats:    stats,
		universe: universe,
	}
}

// Rank scores every candidate and returns them sorted by (combined desc,
// doc id asc). An empty lexical list means discovery mode over the whole
// document universe. Unknown emotions and documents without a vector score
// a zero emotion contribution; a below-baseline z never penalizes, it only
// fails to boost.
func (r *Ranker) Rank(lexical []ScoredDoc, emotionName string, w Weights) []RankedDoc {
	candidates := lexical
	if len(candidates) == 0 {
		candidates = make([]ScoredDoc, 0, len(r.universe))
		for _, docID := range r.universe {
			candidates = append(candidates, ScoredDoc{DocID: docID})
		}
	}

	ranked := make([]RankedDoc, 0, len(candidates))
	for _, cand := range candidates {
		count := r.vectors[cand.DocID][emotionName]
		if count < w.MinCount {
			continue
		}
		density := float64(count) / float64(r.ix.Length(cand.DocID))
		z := r.stats.ZScore(emotionName, density)

		boost := z
		if boost < 0 {
			boost = 0
		}
		ranked = append(ranked, RankedDoc{
			DocID:  cand.DocID,
			Score:  cand.Score*w.Text + boost*w.Emotion,
			ZScore: z,
		})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].DocID < ranked[j].DocID
	})
	return ranked
}
