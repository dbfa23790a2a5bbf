package main

import (
	"context"
	stdErrors "errors"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-ir-engine/api"
	"github.com/gcbaptista/go-ir-engine/config"
	"github.com/gcbaptista/go-ir-engine/internal/analytics"
	"github.com/gcbaptista/go-ir-engine/internal/cli"
	"github.com/gcbaptista/go-ir-engine/internal/corpus"
	"github.com/gcbaptista/go-ir-engine/internal/engine"
	"github.com/gcbaptista/go-ir-engine/internal/evaluation"
	"github.com/gcbaptista/go-ir-engine/internal/indexing"
	"github.com/gcbaptista/go-ir-engine/internal/jobs"
	"github.com/gcbaptista/go-ir-engine/internal/metrics"
	"github.com/gcbaptista/go-ir-engine/internal/persistence"
	"github.com/gcbaptista/go-ir-engine/internal/search"
	"github.com/gcbaptista/go-ir-engine/internal/tokenizer"
	"github.com/gcbaptista/go-ir-engine/services"
)

type app struct {
	cfg      *config.Config
	logger   *zap.Logger
	registry *prometheus.Registry
	metrics  *metrics.Metrics
}

func newApp(cfg *config.Config, logger *zap.Logger) *app {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return &app{
		cfg:      cfg,
		logger:   logger,
		registry: registry,
		metrics:  metrics.New(registry),
	}
}

// load reads a collection with its judged queries and builds an engine over it.
func (a *app) load(ctx context.Context, kindName, dir string) (*engine.Engine, []corpus.TestQuery, error) {
	kind, err := corpus.ParseKind(kindName)
	if err != nil {
		return nil, nil, err
	}

	a.logger.Info("loading corpus", zap.String("kind", string(kind)), zap.String("path", dir))
	c, err := corpus.Load(kind, dir, a.cfg.Corpus.SampleSize)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load corpus: %w", err)
	}
	queries, err := corpus.TestQueries(c, dir, a.cfg.Corpus.MaxQueries, a.cfg.Corpus.PerCategory)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load test queries: %w", err)
	}

	eng, err := engine.New(ctx, c, a.engineOptions())
	if err != nil {
		return nil, nil, err
	}
	return eng, queries, nil
}

func (a *app) engineOptions() engine.Options {
	var processorOpts []tokenizer.Option
	if !a.cfg.Indexing.Stemming {
		processorOpts = append(processorOpts, tokenizer.WithoutStemming())
	}

	// config.Validate has already checked both names
	method, _ := search.ParseMethod(a.cfg.Ranking.DefaultMethod)
	operator, _ := search.ParseOperator(a.cfg.Ranking.DefaultOperator)

	return engine.Options{
		Processor: tokenizer.NewProcessor(processorOpts...),
		K1:        a.cfg.Ranking.K1,
		B:         a.cfg.Ranking.B,
		Indexing: indexing.Config{
			BatchSize:   a.cfg.Indexing.BatchSize,
			WorkerCount: a.cfg.Indexing.Workers,
		},
		Defaults: engine.Defaults{
			Method:   method,
			Operator: operator,
			TopK:     a.cfg.Ranking.DefaultTopK,
			MaxTopK:  a.cfg.Ranking.MaxTopK,
		},
		Logger:  a.logger,
		Metrics: a.metrics,
	}
}

// serve runs the HTTP API until ctx is cancelled, then shuts down gracefully.
func (a *app) serve(ctx context.Context) error {
	eng, queries, err := a.load(ctx, a.cfg.Corpus.Kind, a.cfg.Corpus.Path)
	if err != nil {
		return err
	}

	jobManager := jobs.NewManager(a.cfg.Evaluation.Workers, a.logger)
	jobManager.Start()
	defer jobManager.Stop()

	if a.cfg.Logging.Env == "prod" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery())
	api.SetupRoutes(router, eng, api.Options{
		Jobs:              jobManager,
		Analytics:         analytics.NewService(a.cfg.Analytics.MaxEvents, eng),
		TestQueries:       queries,
		EvaluationWorkers: a.cfg.Evaluation.Workers,
		MaxTopK:           a.cfg.Ranking.MaxTopK,
		Logger:            a.logger,
		Metrics:           a.metrics,
		Gatherer:          a.registry,
	})

	server := &http.Server{
		Addr:         ":" + strconv.Itoa(a.cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  a.cfg.Server.ReadTimeout,
		WriteTimeout: a.cfg.Server.WriteTimeout,
	}

	serveErr := make(chan error, 1)
	go func() {
		a.logger.Info("starting server", zap.String("addr", server.Addr))
		serveErr <- server.ListenAndServe()
	}()

	select {
	case err := <-serveErr:
		if !stdErrors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// interactive runs the menu loop over the configured collection. extra maps further
// collection kinds to their directories; they are indexed when first evaluated.
func (a *app) interactive(ctx context.Context, in io.Reader, out io.Writer, extra map[string]string) error {
	eng, queries, err := a.load(ctx, a.cfg.Corpus.Kind, a.cfg.Corpus.Path)
	if err != nil {
		return err
	}

	targets := []cli.EvaluationTarget{{
		Name: eng.Stats().Corpus,
		Prepare: func(context.Context) (services.Searcher, []corpus.TestQuery, error) {
			return eng, queries, nil
		},
	}}

	kinds := make([]string, 0, len(extra))
	for kind := range extra {
		kinds = append(kinds, kind)
	}
	sort.Strings(kinds)
	for _, kind := range kinds {
		kind, dir := kind, extra[kind]
		targets = append(targets, cli.EvaluationTarget{
			Name: strings.ToUpper(kind),
			Prepare: func(ctx context.Context) (services.Searcher, []corpus.TestQuery, error) {
				return a.load(ctx, kind, dir)
			},
		})
	}

	return cli.New(in, out, eng, cli.Options{
		Targets: targets,
		Workers: a.cfg.Evaluation.Workers,
		Logger:  a.logger,
	}).Run(ctx)
}

// evaluate runs every method over the judged queries, prints the summary and
// optionally saves the full report.
func (a *app) evaluate(ctx context.Context, out io.Writer, reportPath string) error {
	eng, queries, err := a.load(ctx, a.cfg.Corpus.Kind, a.cfg.Corpus.Path)
	if err != nil {
		return err
	}

	evaluator, err := evaluation.NewEvaluator(eng, evaluation.Config{Workers: a.cfg.Evaluation.Workers}, a.logger, a.metrics)
	if err != nil {
		return err
	}
	report, err := evaluator.EvaluateAll(ctx, queries, search.Methods, a.cfg.Evaluation.TopN)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "Evaluation Results - %s (top %d, %d queries)\n", eng.Stats().Corpus, report.TopN, len(queries))
	fmt.Fprintf(out, "%-15s %-12s %-12s %-12s %-16s\n", "Method", "Precision", "Recall", "F1-Score", "Avg. Precision")
	for _, s := range report.Methods {
		fmt.Fprintf(out, "%-15s %-12.4f %-12.4f %-12.4f %-15.4f\n",
			strings.ToUpper(string(s.Method)), s.Precision, s.Recall, s.F1, s.AveragePrecision)
	}

	if reportPath == "" {
		return nil
	}
	if err := persistence.Save(reportPath, report); err != nil {
		return fmt.Errorf("failed to save report: %w", err)
	}
	a.logger.Info("evaluation report saved", zap.String("path", reportPath))
	return nil
}
