// Command indexer runs the batch build: it streams the tokenized corpus,
// builds the inverted index with IDF and length tables, scans every segment
// for negation-aware emotion counts, derives the corpus density baselines,
// and persists all three artifacts.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gutensearch/gutensearch/internal/artifact"
	"github.com/gutensearch/gutensearch/internal/corpus"
	"github.com/gutensearch/gutensearch/internal/emotion"
	"github.com/gutensearch/gutensearch/internal/index"
	"github.com/gutensearch/gutensearch/pkg/config"
	"github.com/gutensearch/gutensearch/pkg/logger"
	"github.com/gutensearch/gutensearch/pkg/metrics"
	"github.com/gutensearch/gutensearch/pkg/postgres"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	aggregateBooks := flag.Bool("aggregate-books", false, "also write book-level emotion vectors")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	m := metrics.New()
	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port)
		defer shutdown(context.Background())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, m, *aggregateBooks); err != nil {
		slog.Error("build failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, m *metrics.Metrics, aggregateBooks bool) error {
	prov, cleanup, err := newProvider(cfg)
	if err != nil {
		return err
	}
	defer cleanup()

	if err := os.MkdirAll(cfg.Index.DataDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	// Stage 1: inverted index, IDF, lengths.
	builder := index.NewBuilder(cfg.Index.Workers)
	start := time.Now()
	ix, buildStats, err := builder.Build(ctx, prov)
	if err != nil {
		return fmt.Errorf("building index: %w", err)
	}
	m.DocsIndexedTotal.Add(float64(buildStats.Documents))
	m.RecordFailuresTotal.WithLabelValues("index").Add(float64(buildStats.Skipped))
	m.BuildDuration.WithLabelValues("index").Observe(time.Since(start).Seconds())

	indexPath := filepath.Join(cfg.Index.DataDir, cfg.Index.IndexFile)
	if err := artifact.Save(indexPath, artifact.KindIndex, ix); err != nil {
		return fmt.Errorf("saving index artifact: %w", err)
	}
	slog.Info("index artifact written", "path", indexPath,
		"documents", buildStats.Documents,
		"unique_terms", buildStats.UniqueTerms,
		"skipped", buildStats.Skipped,
	)

	// Stage 2: emotion vectors.
	lexicon, err := emotion.LoadLexicon(cfg.Emotion.LexiconPath)
	if err != nil {
		return fmt.Errorf("loading emotion lexicon: %w", err)
	}
	slog.Info("emotion lexicon loaded", "words", lexicon.Size())

	scanner := emotion.NewScanner(lexicon, cfg.Emotion.LookbackWindow, cfg.Index.Workers)
	start = time.Now()
	results, scanStats, err := scanner.ScanCorpus(ctx, prov)
	if err != nil {
		return fmt.Errorf("scanning emotions: %w", err)
	}
	m.SegmentsScannedTotal.Add(float64(scanStats.Segments))
	m.RecordFailuresTotal.WithLabelValues("emotion").Add(float64(scanStats.Skipped))
	m.BuildDuration.WithLabelValues("emotion").Observe(time.Since(start).Seconds())

	emotionPath := filepath.Join(cfg.Index.DataDir, cfg.Index.EmotionFile)
	if err := artifact.Save(emotionPath, artifact.KindEmotionResults, results); err != nil {
		return fmt.Errorf("saving emotion artifact: %w", err)
	}
	slog.Info("emotion artifact written", "path", emotionPath,
		"segments", scanStats.Segments,
		"tagged_segments", scanStats.Tagged,
	)

	if aggregateBooks {
		books := emotion.AggregateByBook(results)
		bookPath := filepath.Join(cfg.Index.DataDir, "emotion_books.gsa")
		if err := artifact.Save(bookPath, artifact.KindEmotionResults, books); err != nil {
			return fmt.Errorf("saving book-level emotion artifact: %w", err)
		}
		slog.Info("book-level emotion artifact written", "path", bookPath, "books", len(books))
	}

	// Stage 3: density baselines.
	start = time.Now()
	stats := emotion.ComputeStats(results, ix.Length)
	m.BuildDuration.WithLabelValues("stats").Observe(time.Since(start).Seconds())

	statsPath := filepath.Join(cfg.Index.DataDir, cfg.Index.StatsFile)
	if err := artifact.Save(statsPath, artifact.KindEmotionStats, stats); err != nil {
		return fmt.Errorf("saving stats artifact: %w", err)
	}
	slog.Info("stats artifact written", "path", statsPath, "emotions", len(stats))

	slog.Info("build complete",
		"documents", buildStats.Documents,
		"failed_records", buildStats.Skipped+scanStats.Skipped,
	)
	return nil
}

// newProvider selects the corpus source named in the config.
func newProvider(cfg *config.Config) (corpus.Provider, func(), error) {
	switch cfg.Corpus.Source {
	case "postgres":
		client, err := postgres.New(cfg.Postgres)
		if err != nil {
			return nil, nil, fmt.Errorf("connecting to postgres: %w", err)
		}
		return corpus.NewPostgresProvider(client), func() { client.Close() }, nil
	case "file", "":
		return corpus.NewFileProvider(cfg.Corpus.Path), func() {}, nil
	default:
		return nil, nil, fmt.Errorf("unknown corpus source %q", cfg.Corpus.Source)
	}
}
