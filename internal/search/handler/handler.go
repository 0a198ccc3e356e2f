// Package handler exposes the search engine over HTTP.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gutensearch/gutensearch/internal/search"
	"github.com/gutensearch/gutensearch/internal/search/cache"
	"github.com/gutensearch/gutensearch/pkg/config"
	pkgerrors "github.com/gutensearch/gutensearch/pkg/errors"
	"github.com/gutensearch/gutensearch/pkg/logger"
	"github.com/gutensearch/gutensearch/pkg/metrics"
)

// SearchResponse is the JSON body returned by /search.
type SearchResponse struct {
	Query     string             `json:"query"`
	Emotion   string             `json:"emotion,omitempty"`
	TotalHits int                `json:"total_hits"`
	Results   []search.RankedDoc `json:"results"`
}

// Handler serves search requests against the loaded immutable artifacts.
type Handler struct {
	engine  *search.Engine
	ranker  *search.Ranker
	cache   *cache.QueryCache
	cfg     config.SearchConfig
	metrics *metrics.Metrics
	logger  *slog.Logger
}

// New creates a Handler. cache may be nil when caching is disabled.
func New(engine *search.Engine, ranker *search.Ranker, qc *cache.QueryCache, cfg config.SearchConfig, m *metrics.Metrics) *Handler {
	return &Handler{
		engine:  engine,
		ranker:  ranker,
		cache:   qc,
		cfg:     cfg,
		metrics: m,
		logger:  logger.WithComponent("search-handler"),
	}
}

// Search handles GET /search. A query without an emotion is a pure lexical
// search; an emotion without a query runs in discovery mode over the whole
// corpus. Unknown terms and emotions produce empty results, never errors.
func (h *Handler) Search(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	q := r.URL.Query().Get("q")
	emotionName := r.URL.Query().Get("emotion")

	if q == "" && emotionName == "" {
		h.writeError(w, pkgerrors.New(pkgerrors.ErrInvalidInput, http.StatusBadRequest, "q or emotion is required"))
		return
	}

	weights := search.Weights{
		Text:     h.floatParam(r, "text_weight", h.cfg.TextWeight),
		Emotion:  h.floatParam(r, "emotion_weight", h.cfg.EmotionWeight),
		MinCount: h.intParam(r, "min_count", h.cfg.MinCount),
	}
	limit := h.intParam(r, "limit", h.cfg.DefaultLimit)
	if limit <= 0 || limit > h.cfg.MaxResults {
		limit = h.cfg.DefaultLimit
	}

	results, cacheStatus := h.run(r.Context(), q, emotionName, weights, limit)

	resultType := "hit"
	if len(results) == 0 {
		resultType = "zero_result"
	}
	h.metrics.SearchQueriesTotal.WithLabelValues(resultType).Inc()
	h.metrics.SearchLatency.WithLabelValues(cacheStatus).Observe(time.Since(start).Seconds())
	h.metrics.SearchResultsCount.Observe(float64(len(results)))

	total := len(results)
	if len(results) > limit {
		results = results[:limit]
	}
	h.logger.Info("query executed",
		"query", q,
		"emotion", emotionName,
		"total_hits", total,
		"returned", len(results),
		"cache", cacheStatus,
	)

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SearchResponse{
		Query:     q,
		Emotion:   emotionName,
		TotalHits: total,
		Results:   results,
	})
}

// run executes the query through the cache when one is configured.
func (h *Handler) run(ctx context.Context, q, emotionName string, weights search.Weights, limit int) ([]search.RankedDoc, string) {
	compute := func() (cache.Entry, error) {
		return cache.Entry{Results: h.rank(q, emotionName, weights)}, nil
	}
	if h.cache == nil {
		entry, _ := compute()
		return entry.Results, "bypass"
	}

	key := cache.Key(q, emotionName, weights, limit)
	entry, hit, err := h.cache.GetOrCompute(ctx, key, compute)
	if err != nil {
		entry, _ = compute()
		return entry.Results, "error"
	}
	if hit {
		h.metrics.CacheHitsTotal.Inc()
		return entry.Results, "hit"
	}
	h.metrics.CacheMissesTotal.Inc()
	return entry.Results, "miss"
}

// rank runs the lexical engine and, when an emotion is given, the hybrid
// ranker on top of it.
func (h *Handler) rank(q, emotionName string, weights search.Weights) []search.RankedDoc {
	var lexical []search.ScoredDoc
	if q != "" {
		lexical = h.engine.Search(q)
	}
	if emotionName == "" {
		ranked := make([]search.RankedDoc, 0, len(lexical))
		for _, doc := range lexical {
			ranked = append(ranked, search.RankedDoc{DocID: doc.DocID, Score: doc.Score})
		}
		return ranked
	}
	return h.ranker.Rank(lexical, emotionName, weights)
}

func (h *Handler) writeError(w http.ResponseWriter, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(pkgerrors.HTTPStatusCode(err))
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}

func (h *Handler) floatParam(r *http.Request, name string, fallback float64) float64 {
	if v := r.URL.Query().Get(name); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func (h *Handler) intParam(r *http.Request, name string, fallback int) int {
	if v := r.URL.Query().Get(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}
