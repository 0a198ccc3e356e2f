// Command evaluate scores the end-to-end ranking pipeline against labeled
// test cases, reporting MRR, Success@K, and nDCG@K. With -sweep it re-runs
// the harness over a grid of text/emotion weight combinations.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"

	"github.com/gutensearch/gutensearch/internal/artifact"
	"github.com/gutensearch/gutensearch/internal/corpus"
	"github.com/gutensearch/gutensearch/internal/emotion"
	"github.com/gutensearch/gutensearch/internal/eval"
	"github.com/gutensearch/gutensearch/internal/index"
	"github.com/gutensearch/gutensearch/internal/search"
	"github.com/gutensearch/gutensearch/internal/synonyms"
	"github.com/gutensearch/gutensearch/pkg/config"
	"github.com/gutensearch/gutensearch/pkg/logger"
)

var sweepRange = []float64{0, 0.5, 1.0, 1.5, 2.0, 2.5, 3.0}

func main() {
	configPath := flag.String("config", "configs/development.yaml", "path to config file")
	sweep := flag.Bool("sweep", false, "sweep the text/emotion weight grid")
	textWeight := flag.Float64("text-weight", -1, "text weight override")
	emotionWeight := flag.Float64("emotion-weight", -1, "emotion weight override")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	logger.Setup(cfg.Logging.Level, cfg.Logging.Format)

	if err := run(cfg, *sweep, *textWeight, *emotionWeight); err != nil {
		slog.Error("evaluation failed", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, sweep bool, textWeight, emotionWeight float64) error {
	var ix index.Index
	if err := artifact.Load(filepath.Join(cfg.Index.DataDir, cfg.Index.IndexFile), artifact.KindIndex, &ix); err != nil {
		return err
	}
	var results emotion.Results
	if err := artifact.Load(filepath.Join(cfg.Index.DataDir, cfg.Index.EmotionFile), artifact.KindEmotionResults, &results); err != nil {
		return err
	}
	var stats emotion.Stats
	if err := artifact.Load(filepath.Join(cfg.Index.DataDir, cfg.Index.StatsFile), artifact.KindEmotionStats, &stats); err != nil {
		return err
	}

	table, err := synonyms.Load(cfg.Search.SynonymsPath)
	if err != nil {
		slog.Warn("synonym table unavailable, queries will not expand", "error", err)
		table = synonyms.NewTable(nil)
	} else {
		slog.Info("synonym table loaded", "words", table.Size())
	}
	norm, err := search.ParseNormalization(cfg.Search.Normalization)
	if err != nil {
		return err
	}

	analyzer := corpus.NewAnalyzer(cfg.Corpus.Stemming)
	engine := search.NewEngine(&ix, table, analyzer, norm)
	ranker := search.NewRanker(&ix, results, stats)

	docIDs := make([]string, 0, ix.DocCount())
	for docID := range ix.DocLengths {
		docIDs = append(docIDs, docID)
	}
	sort.Strings(docIDs)

	harness := eval.NewHarness(engine, ranker, docIDs, cfg.Eval.CutoffK)
	cases, skipped, err := eval.LoadCases(cfg.Eval.CasesPath)
	if err != nil {
		return err
	}
	slog.Info("test cases loaded", "cases", len(cases), "malformed", skipped)

	if sweep {
		return runSweep(harness, cases, cfg.Search.MinCount)
	}

	weights := search.Weights{
		Text:     cfg.Search.TextWeight,
		Emotion:  cfg.Search.EmotionWeight,
		MinCount: cfg.Search.MinCount,
	}
	if textWeight >= 0 {
		weights.Text = textWeight
	}
	if emotionWeight >= 0 {
		weights.Emotion = emotionWeight
	}

	report := harness.Run(cases, weights)
	printReport(report, weights)
	return nil
}

func printReport(report eval.Report, weights search.Weights) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TARGET\tQUERY\tEMOTION\tRANK\tRR")
	for _, cr := range report.Cases {
		rank := "-"
		if cr.Rank > 0 {
			rank = fmt.Sprintf("%d", cr.Rank)
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%.4f\n",
			cr.Case.TargetTitle, cr.Case.Query, cr.Case.Emotion, rank, cr.ReciprocalRank)
	}
	w.Flush()

	fmt.Printf("\ncases evaluated: %d (skipped %d)\n", report.Evaluated, report.Skipped)
	fmt.Printf("weights: text=%.2f emotion=%.2f\n", weights.Text, weights.Emotion)
	fmt.Printf("MRR:        %.4f\n", report.MRR)
	fmt.Printf("Success@%d: %.4f\n", report.K, report.SuccessAtK)
	fmt.Printf("nDCG@%d:    %.4f\n", report.K, report.NDCGAtK)
}

func runSweep(harness *eval.Harness, cases []eval.Case, minCount int) error {
	results := harness.Sweep(cases, sweepRange, sweepRange, minCount)
	if len(results) == 0 {
		return fmt.Errorf("sweep produced no results")
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "TEXT_W\tEMOTION_W\tMRR")
	for _, r := range results {
		fmt.Fprintf(w, "%.1f\t%.1f\t%.4f\n", r.Weights.Text, r.Weights.Emotion, r.MRR)
	}
	w.Flush()

	best := results[0]
	fmt.Printf("\nbest: text=%.1f emotion=%.1f (MRR %.4f)\n",
		best.Weights.Text, best.Weights.Emotion, best.MRR)
	return nil
}
