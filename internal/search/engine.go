// Package search implements the query-time path: lexical scoring over the
// inverted index and the hybrid ranker that folds in the emotion z-score.
// Everything here reads immutable structures loaded at process start, so
// concurrent queries need no locking.
package search

import (
	"log/slog"
	"math"
	"sort"

	"github.com/gutensearch/gutensearch/internal/corpus"
	"github.com/gutensearch/gutensearch/internal/index"
	"github.com/gutensearch/gutensearch/internal/synonyms"
	"github.com/gutensearch/gutensearch/pkg/logger"
)

// ScoredDoc is one lexical search hit.
type ScoredDoc struct {
	DocID string  `json:"doc_id"`
	Score float64 `json:"score"`
}

// Engine computes length-normalized tf*idf scores for free-text queries.
type Engine struct {
	ix       *index.Index
	syns     *synonyms.Table
	analyzer *corpus.Analyzer
	norm     Normalization
	l2Norms  map[string]float64
	logger   *slog.Logger
}

// NewEngine creates an Engine over the loaded index. The analyzer must be
// the same one used at build time. L2 norms for the cosine strategy are
// reconstructed once here from the tf and idf tables.
func NewEngine(ix *index.Index, syns *synonyms.Table, analyzer *corpus.Analyzer, norm Normalization) *Engine {
	e := &Engine{
		ix:       ix,
		syns:     syns,
		analyzer: analyzer,
		norm:     norm,
		logger:   logger.WithComponent("query-engine"),
	}
	if norm == NormCosine {
		e.l2Norms = computeL2Norms(ix)
	}
	return e
}

// ProcessQuery tokenizes a query with the shared analyzer and expands it
// with single-word synonyms. The synonym lookup runs against the surface
// words, before stemming, because the table is keyed by surface forms; the
// expanded set is then normalized so every token matches the stemmed terms
// the index holds. The result is deterministic.
func (e *Engine) ProcessQuery(query string) []string {
	surface := e.analyzer.Words(query)
	expanded := e.syns.Expand(surface)
	seen := make(map[string]struct{}, len(expanded))
	tokens := make([]string, 0, len(expanded))
	for token := range expanded {
		norm := e.analyzer.NormalizeToken(token)
		if norm == "" {
			continue
		}
		if _, ok := seen[norm]; ok {
			continue
		}
		seen[norm] = struct{}{}
		tokens = append(tokens, norm)
	}
	sort.Strings(tokens)
	return tokens
}

// Search runs the additive bag-of-words tf*idf scoring for the query and
// returns results sorted by (score desc, doc id asc). Tokens absent from
// the index contribute nothing; a query with no indexed tokens returns an
// empty list, not an error.
func (e *Engine) Search(query string) []ScoredDoc {
	tokens := e.ProcessQuery(query)
	if len(tokens) == 0 {
		return nil
	}

	scores := make(map[string]float64)
	for _, token := range tokens {
		postings := e.ix.Postings(token)
		if postings == nil {
			continue
		}
		idf := e.ix.TermIDF(token)
		for docID, tf := range postings {
			scores[docID] += float64(tf) * idf
		}
	}

	results := make([]ScoredDoc, 0, len(scores))
	for docID, raw := range scores {
		d := e.norm.denominator(e.ix.Length(docID), e.l2Norms[docID])
		results = append(results, ScoredDoc{DocID: docID, Score: raw / d})
	}
	sort.Slice(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].DocID < results[j].DocID
	})
	return results
}

// computeL2Norms reconstructs sqrt(sum((tf*idf)^2)) per document.
func computeL2Norms(ix *index.Index) map[string]float64 {
	normSq := make(map[string]float64, ix.DocCount())
	for term, postings := range ix.Inverted {
		idf := ix.IDF[term]
		idfSq := idf * idf
		for docID, tf := range postings {
			w := float64(tf)
			normSq[docID] += w * w * idfSq
		}
	}
	norms := make(map[string]float64, len(normSq))
	for docID, sq := range normSq {
		norms[docID] = math.Sqrt(sq)
	}
	return norms
}
