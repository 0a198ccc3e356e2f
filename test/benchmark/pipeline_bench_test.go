// Package benchmark contains Go benchmarks for the tokenizer, index builder,
// emotion scanner, and search pipeline, measuring throughput and allocation
// behaviour.
package benchmark

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/gutensearch/gutensearch/internal/corpus"
	"github.com/gutensearch/gutensearch/internal/emotion"
	"github.com/gutensearch/gutensearch/internal/index"
	"github.com/gutensearch/gutensearch/internal/search"
	"github.com/gutensearch/gutensearch/internal/synonyms"
)

var sampleTexts = map[string]string{
	"short": "Call me Ishmael. Some years ago, never mind how long precisely",
	"medium": `Whenever I find myself growing grim about the mouth; whenever it is a
        damp, drizzly November in my soul; whenever I find myself involuntarily
        pausing before coffin warehouses, and bringing up the rear of every
        funeral I meet; then, I account it high time to get to sea as soon as I
        can. This is my substitute for pistol and ball.`,
	"long": strings.Repeat(`It was the best of times, it was the worst of times, it
        was the age of wisdom, it was the age of foolishness, it was the epoch of
        belief, it was the epoch of incredulity, it was the season of Light, it
        was the season of Darkness, it was the spring of hope, it was the winter
        of despair. `, 20),
}

func BenchmarkTokenize(b *testing.B) {
	analyzer := corpus.NewAnalyzer(false)
	for name, text := range sampleTexts {
		b.Run(name, func(b *testing.B) {
			b.ReportAllocs()
			b.SetBytes(int64(len(text)))
			for i := 0; i < b.N; i++ {
				tokens := analyzer.Tokenize(text)
				_ = tokens
			}
		})
	}
}

func BenchmarkTokenizeStemming(b *testing.B) {
	analyzer := corpus.NewAnalyzer(true)
	text := sampleTexts["medium"]
	b.ReportAllocs()
	b.SetBytes(int64(len(text)))
	for i := 0; i < b.N; i++ {
		tokens := analyzer.Tokenize(text)
		_ = tokens
	}
}

// benchProvider feeds pre-tokenized documents without touching the
// filesystem, so builds measure pure map/reduce cost.
type benchProvider struct {
	docs []corpus.Document
}

func (p *benchProvider) Each(ctx context.Context, fn func(corpus.Document) error) error {
	for _, doc := range p.docs {
		if err := fn(doc); err != nil {
			return err
		}
	}
	return nil
}

func (p *benchProvider) Skipped() int { return 0 }

func syntheticCorpus(docs, tokensPerDoc int) *benchProvider {
	vocab := []string{
		"whale", "sea", "storm", "fear", "joy", "night", "ship", "heart",
		"terror", "hope", "darkness", "light", "captain", "voyage",
	}
	out := make([]corpus.Document, docs)
	for i := range out {
		tokens := make([]string, tokensPerDoc)
		for j := range tokens {
			tokens[j] = vocab[(i+j)%len(vocab)]
		}
		out[i] = corpus.Document{ID: fmt.Sprintf("%d_%d", i/10, i%10), Tokens: tokens}
	}
	return &benchProvider{docs: out}
}

func BenchmarkIndexBuild(b *testing.B) {
	sizes := []int{100, 1000, 5000}
	for _, docs := range sizes {
		b.Run(fmt.Sprintf("docs_%d", docs), func(b *testing.B) {
			prov := syntheticCorpus(docs, 200)
			builder := index.NewBuilder(4)
			b.ReportAllocs()
			b.ResetTimer()
			for i := 0; i < b.N; i++ {
				ix, _, err := builder.Build(context.Background(), prov)
				if err != nil {
					b.Fatal(err)
				}
				_ = ix
			}
		})
	}
}

func benchLexicon() *emotion.Lexicon {
	return emotion.NewLexicon(map[string][]string{
		"fear":     {"fear", "negative"},
		"terror":   {"fear", "negative"},
		"darkness": {"sadness", "negative"},
		"joy":      {"joy", "positive"},
		"hope":     {"anticipation", "positive"},
		"light":    {"joy", "positive"},
	})
}

func BenchmarkEmotionScanSegment(b *testing.B) {
	scanner := emotion.NewScanner(benchLexicon(), 3, 1)
	doc := syntheticCorpus(1, 2000).docs[0]
	b.ReportAllocs()
	b.SetBytes(int64(len(doc.Tokens)))
	for i := 0; i < b.N; i++ {
		vec := scanner.ScanSegment(doc.Tokens)
		_ = vec
	}
}

func BenchmarkEmotionScanCorpus(b *testing.B) {
	prov := syntheticCorpus(2000, 200)
	scanner := emotion.NewScanner(benchLexicon(), 3, 4)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		results, _, err := scanner.ScanCorpus(context.Background(), prov)
		if err != nil {
			b.Fatal(err)
		}
		_ = results
	}
}

func benchPipeline(b *testing.B, norm search.Normalization) (*search.Engine, *search.Ranker) {
	b.Helper()
	prov := syntheticCorpus(10000, 200)
	ix, _, err := index.NewBuilder(4).Build(context.Background(), prov)
	if err != nil {
		b.Fatal(err)
	}
	scanner := emotion.NewScanner(benchLexicon(), 3, 4)
	results, _, err := scanner.ScanCorpus(context.Background(), prov)
	if err != nil {
		b.Fatal(err)
	}
	stats := emotion.ComputeStats(results, ix.Length)

	engine := search.NewEngine(ix, synonyms.NewTable(nil), corpus.NewAnalyzer(false), norm)
	return engine, search.NewRanker(ix, results, stats)
}

// BenchmarkSearch measures lexical query latency over 10 000 documents.
func BenchmarkSearch(b *testing.B) {
	engine, _ := benchPipeline(b, search.NormSqrt)
	queries := []string{"whale storm", "fear", "captain voyage night", "hope light"}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		results := engine.Search(queries[i%len(queries)])
		_ = results
	}
}

func BenchmarkSearchParallel(b *testing.B) {
	engine, _ := benchPipeline(b, search.NormSqrt)
	b.ReportAllocs()
	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			results := engine.Search("whale storm")
			_ = results
		}
	})
}

// BenchmarkHybridRank measures the full lexical-plus-emotion ranking pass.
func BenchmarkHybridRank(b *testing.B) {
	engine, ranker := benchPipeline(b, search.NormSqrt)
	lexical := engine.Search("whale storm")
	weights := search.Weights{Text: 0.5, Emotion: 1}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ranked := ranker.Rank(lexical, "fear", weights)
		_ = ranked
	}
}

// BenchmarkDiscoveryRank measures emotion-only ranking over the whole
// document universe, the worst case for the ranker.
func BenchmarkDiscoveryRank(b *testing.B) {
	_, ranker := benchPipeline(b, search.NormSqrt)
	weights := search.Weights{Emotion: 1}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		ranked := ranker.Rank(nil, "fear", weights)
		_ = ranked
	}
}
