package emotion

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"unicode"

	"golang.org/x/sync/errgroup"

	"github.com/gutensearch/gutensearch/internal/corpus"
	"github.com/gutensearch/gutensearch/pkg/logger"
)

// defaultNegations is the closed set of markers that suppress the emotional
// contribution of a following token. Contractions appear without apostrophes
// because the analyzer splits on non-letter runes.
var defaultNegations = map[string]struct{}{
	"not": {}, "never": {}, "no": {}, "nothing": {}, "neither": {},
	"nor": {}, "nowhere": {}, "hardly": {}, "scarcely": {}, "barely": {},
	"didnt": {}, "dont": {}, "doesnt": {}, "wont": {}, "wouldnt": {},
	"couldnt": {}, "shouldnt": {}, "cant": {}, "cannot": {}, "nt": {},
}

// Vector holds the per-segment emotion counts. Only emotions with a nonzero
// count are present.
type Vector map[string]int

// Result pairs a segment id with its emotion vector.
type Result struct {
	DocID  string `json:"doc_id"`
	Vector Vector `json:"vector"`
}

// Results is the ordered emotion artifact, sorted by ascending doc id so
// rebuilds are byte-identical.
type Results []Result

// ByDoc returns a lookup map over the results.
func (rs Results) ByDoc() map[string]Vector {
	m := make(map[string]Vector, len(rs))
	for _, r := range rs {
		m[r.DocID] = r.Vector
	}
	return m
}

// ScanStats summarizes one emotion scan.
type ScanStats struct {
	Segments int
	Tagged   int
	Skipped  int
}

// Scanner produces emotion vectors from token sequences. Negation is
// evaluated independently per token over a fixed backward window; it never
// propagates from one negated token to the next and never reaches past the
// window boundary.
type Scanner struct {
	lexicon   *Lexicon
	negations map[string]struct{}
	window    int
	workers   int
	logger    *slog.Logger
}

// NewScanner creates a Scanner over the shared lexicon. window is the
// number of preceding tokens inspected for a negation marker; workers
// bounds the fan-out of ScanCorpus.
func NewScanner(lexicon *Lexicon, window int, workers int) *Scanner {
	if window < 0 {
		window = 0
	}
	if workers < 1 {
		workers = 1
	}
	return &Scanner{
		lexicon:   lexicon,
		negations: defaultNegations,
		window:    window,
		workers:   workers,
		logger:    logger.WithComponent("emotion-scanner"),
	}
}

// ScanSegment returns the emotion vector for one ordered token sequence.
// Each tagged token contributes 1 per tag (binary presence weighting)
// unless a negation marker appears within the lookback window.
func (s *Scanner) ScanSegment(tokens []string) Vector {
	vector := make(Vector)
	for i, token := range tokens {
		tags := s.lexicon.Tags(token)
		if len(tags) == 0 {
			continue
		}
		if s.negatedAt(tokens, i) {
			continue
		}
		for _, tag := range tags {
			vector[tag]++
		}
	}
	return vector
}

// negatedAt reports whether any of the window tokens before position i is a
// negation marker.
func (s *Scanner) negatedAt(tokens []string, i int) bool {
	start := i - s.window
	if start < 0 {
		start = 0
	}
	for _, prev := range tokens[start:i] {
		if _, ok := s.negations[prev]; ok {
			return true
		}
	}
	return false
}

// ScanCorpus scans every segment in parallel and returns the results sorted
// by doc id. Segments without any emotional content are omitted.
func (s *Scanner) ScanCorpus(ctx context.Context, prov corpus.Provider) (Results, ScanStats, error) {
	docs := make(chan corpus.Document, s.workers*2)
	scanned := make(chan Result, s.workers*2)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		defer close(docs)
		return prov.Each(gctx, func(doc corpus.Document) error {
			select {
			case docs <- doc:
				return nil
			case <-gctx.Done():
				return gctx.Err()
			}
		})
	})

	workers, wctx := errgroup.WithContext(gctx)
	for i := 0; i < s.workers; i++ {
		workers.Go(func() error {
			for doc := range docs {
				vector := s.ScanSegment(doc.Tokens)
				select {
				case scanned <- Result{DocID: doc.ID, Vector: vector}:
				case <-wctx.Done():
					return wctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		workers.Wait()
		close(scanned)
	}()

	var results Results
	segments := 0
	for r := range scanned {
		segments++
		if len(r.Vector) == 0 {
			continue
		}
		results = append(results, r)
		if len(results)%500 == 0 {
			s.logger.Info("emotion scan progress", "tagged_segments", len(results))
		}
	}
	if err := g.Wait(); err != nil {
		return nil, ScanStats{}, err
	}
	if err := workers.Wait(); err != nil {
		return nil, ScanStats{}, err
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].DocID < results[j].DocID
	})
	stats := ScanStats{
		Segments: segments,
		Tagged:   len(results),
		Skipped:  prov.Skipped(),
	}
	s.logger.Info("emotion scan complete",
		"segments", stats.Segments,
		"tagged_segments", stats.Tagged,
		"skipped", stats.Skipped,
	)
	return results, stats, nil
}

// AggregateByBook sums chunk-level vectors into book-level vectors. A chunk
// id is a book id followed by an underscore and a numeric chunk position;
// ids without that suffix are treated as whole books.
func AggregateByBook(results Results) Results {
	byBook := make(map[string]Vector)
	for _, r := range results {
		book := bookID(r.DocID)
		vector, ok := byBook[book]
		if !ok {
			vector = make(Vector)
			byBook[book] = vector
		}
		for tag, count := range r.Vector {
			vector[tag] += count
		}
	}
	aggregated := make(Results, 0, len(byBook))
	for book, vector := range byBook {
		aggregated = append(aggregated, Result{DocID: book, Vector: vector})
	}
	sort.Slice(aggregated, func(i, j int) bool {
		return aggregated[i].DocID < aggregated[j].DocID
	})
	return aggregated
}

func bookID(docID string) string {
	cut := strings.LastIndex(docID, "_")
	if cut <= 0 || cut == len(docID)-1 {
		return docID
	}
	for _, r := range docID[cut+1:] {
		if !unicode.IsDigit(r) {
			return docID
		}
	}
	return docID[:cut]
}
