package index

import (
	"context"
	"log/slog"
	"math"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/gutensearch/gutensearch/internal/corpus"
	"github.com/gutensearch/gutensearch/pkg/logger"
)

// BuildStats summarizes one index build.
type BuildStats struct {
	Documents   int
	UniqueTerms int
	Skipped     int
	Duration    time.Duration
}

// Builder constructs an Index from a tokenized-corpus provider. Per-document
// counting fans out across workers; document frequency and IDF are derived
// in a single reduce once all documents are merged.
type Builder struct {
	workers int
	logger  *slog.Logger
}

// NewBuilder creates a Builder with the given worker count (minimum 1).
func NewBuilder(workers int) *Builder {
	if workers < 1 {
		workers = 1
	}
	return &Builder{
		workers: workers,
		logger:  logger.WithComponent("index-builder"),
	}
}

// docCounts is the per-document map phase output.
type docCounts struct {
	id     string
	counts map[string]int
	length int
}

// Build streams the corpus once and returns the finished Index. Documents
// the provider could not decode are already skipped and counted by the
// provider; the build keeps going.
func (b *Builder) Build(ctx context.Context, prov corpus.Provider) (*Index, BuildStats, error) {
	start := time.Now()

	docs := make(chan corpus.Document, b.workers*2)
	counted := make(chan docCounts, b.workers*2)

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
	for i := 0; i < b.workers; i++ {
		workers.Go(func() error {
			for doc := range docs {
				counts := make(map[string]int, len(doc.Tokens)/2+1)
				for _, token := range doc.Tokens {
					counts[token]++
				}
				length := len(doc.Tokens)
				if length < 1 {
					length = 1
				}
				select {
				case counted <- docCounts{id: doc.ID, counts: counts, length: length}:
				case <-wctx.Done():
					return wctx.Err()
				}
			}
			return nil
		})
	}
	go func() {
		workers.Wait()
		close(counted)
	}()

	ix := &Index{
		Inverted:   make(map[string]map[string]int),
		IDF:        make(map[string]float64),
		DocLengths: make(map[string]int),
	}
	docFrequency := make(map[string]int)

	// Reduce runs on this goroutine only, so the maps need no locking.
	merged := 0
	for dc := range counted {
		ix.DocLengths[dc.id] = dc.length
		for term, count := range dc.counts {
			postings, ok := ix.Inverted[term]
			if !ok {
				postings = make(map[string]int)
				ix.Inverted[term] = postings
			}
			postings[dc.id] = count
			// One increment per containing document, not per occurrence.
			docFrequency[term]++
		}
		merged++
		if merged%1000 == 0 {
			b.logger.Info("index build progress", "documents", merged)
		}
	}

	if err := g.Wait(); err != nil {
		return nil, BuildStats{}, err
	}
	if err := workers.Wait(); err != nil {
		return nil, BuildStats{}, err
	}

	// The +1 smoothing keeps IDF finite even when df equals N.
	n := float64(len(ix.DocLengths))
	for term, df := range docFrequency {
		ix.IDF[term] = math.Log(n / float64(df+1))
	}

	stats := BuildStats{
		Documents:   len(ix.DocLengths),
		UniqueTerms: len(ix.IDF),
		Skipped:     prov.Skipped(),
		Duration:    time.Since(start),
	}
	b.logger.Info("index build complete",
		"documents", stats.Documents,
		"unique_terms", stats.UniqueTerms,
		"skipped", stats.Skipped,
		"duration", stats.Duration,
	)
	return ix, stats, nil
}
