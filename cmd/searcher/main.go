// Command searcher serves the query path over HTTP. All artifacts, the
// synonym table, and the analyzer are loaded once at start and never
// mutated, so concurrent queries run lock-free.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gutensearch/gutensearch/internal/artifact"
	"github.com/gutensearch/gutensearch/internal/corpus"
	"github.com/gutensearch/gutensearch/internal/emotion"
	"github.com/gutensearch/gutensearch/internal/index"
	"github.com/gutensearch/gutensearch/internal/search"
	"github.com/gutensearch/gutensearch/internal/search/cache"
	"github.com/gutensearch/gutensearch/internal/search/handler"
	"github.com/gutensearch/gutensearch/internal/synonyms"
	"github.com/gutensearch/gutensearch/pkg/config"
	"github.com/gutensearch/gutensearch/pkg/health"
	"github.com/gutensearch/gutensearch/pkg/logger"
	"github.com/gutensearch/gutensearch/pkg/metrics"
	"github.com/gutensearch/gutensearch/pkg/middleware"
	pkgredis "github.com/gutensearch/gutensearch/pkg/redis"
)

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	var ix index.Index
	if err := artifact.Load(filepath.Join(cfg.Index.DataDir, cfg.Index.IndexFile), artifact.KindIndex, &ix); err != nil {
		slog.Error("loading index artifact", "error", err)
		os.Exit(1)
	}
	var results emotion.Results
	if err := artifact.Load(filepath.Join(cfg.Index.DataDir, cfg.Index.EmotionFile), artifact.KindEmotionResults, &results); err != nil {
		slog.Error("loading emotion artifact", "error", err)
		os.Exit(1)
	}
	var stats emotion.Stats
	if err := artifact.Load(filepath.Join(cfg.Index.DataDir, cfg.Index.StatsFile), artifact.KindEmotionStats, &stats); err != nil {
		slog.Error("loading stats artifact", "error", err)
		os.Exit(1)
	}
	slog.Info("artifacts loaded",
		"documents", ix.DocCount(),
		"tagged_segments", len(results),
		"emotions", len(stats),
	)

	table, err := synonyms.Load(cfg.Search.SynonymsPath)
	if err != nil {
		slog.Warn("synonym table unavailable, queries will not expand", "error", err)
		table = synonyms.NewTable(nil)
	} else {
		slog.Info("synonym table loaded", "words", table.Size())
	}

	norm, err := search.ParseNormalization(cfg.Search.Normalization)
	if err != nil {
		slog.Error("invalid search config", "error", err)
		os.Exit(1)
	}
	analyzer := corpus.NewAnalyzer(cfg.Corpus.Stemming)
	engine := search.NewEngine(&ix, table, analyzer, norm)
	ranker := search.NewRanker(&ix, results, stats)

	m := metrics.New()
	checker := health.NewChecker()
	checker.Register("index", func(ctx context.Context) health.ComponentHealth {
		if ix.DocCount() == 0 {
			return health.ComponentHealth{Status: health.StatusDown, Message: "empty index"}
		}
		return health.ComponentHealth{Status: health.StatusUp}
	})

	var qc *cache.QueryCache
	if cfg.Search.CacheEnabled {
		client, err := pkgredis.NewClient(cfg.Redis)
		if err != nil {
			slog.Warn("redis unavailable, query cache disabled", "error", err)
		} else {
			defer client.Close()
			qc = cache.New(client, cfg.Search.CacheTTL)
			checker.Register("redis", func(ctx context.Context) health.ComponentHealth {
				if err := client.Ping(ctx); err != nil {
					return health.ComponentHealth{Status: health.StatusDown, Message: err.Error()}
				}
				return health.ComponentHealth{Status: health.StatusUp}
			})
		}
	}

	h := handler.New(engine, ranker, qc, cfg.Search, m)

	mux := http.NewServeMux()
	mux.HandleFunc("/search", h.Search)
	mux.HandleFunc("/healthz", checker.LiveHandler())
	mux.HandleFunc("/readyz", checker.ReadyHandler())

	var root http.Handler = mux
	root = middleware.Metrics(m)(root)
	root = middleware.Timeout(cfg.Server.WriteTimeout)(root)

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      root,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	if cfg.Metrics.Enabled {
		shutdown := metrics.StartServer(cfg.Metrics.Port)
		defer shutdown(context.Background())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("searcher listening", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("searcher stopped")
}
