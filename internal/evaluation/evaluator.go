package evaluation

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-ir-engine/internal/corpus"
	"github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/internal/logging"
	"github.com/gcbaptista/go-ir-engine/internal/metrics"
	"github.com/gcbaptista/go-ir-engine/internal/search"
	"github.com/gcbaptista/go-ir-engine/services"
)

// DefaultTopN is the cut-off every method is evaluated at.
const DefaultTopN = 10

// Config contains configuration for evaluation runs
type Config struct {
	Workers          int // Number of (query, method) pairs evaluated in parallel
	ProgressCallback func(done, total int)
}

// QueryReport holds the measures of one query under one method.
type QueryReport struct {
	QueryID string        `json:"query_id" yaml:"query_id"`
	Query   string        `json:"query" yaml:"query"`
	Method  search.Method `json:"method" yaml:"method"`
	Metrics `yaml:",inline"`
}

// MethodSummary holds the per-query means of one method.
type MethodSummary struct {
	Method  search.Method `json:"method" yaml:"method"`
	Metrics `yaml:",inline"`
}

// Report is the outcome of an evaluation run.
// Queries is query-major in the order the queries and methods were given.
type Report struct {
	TopN    int             `json:"top_n" yaml:"top_n"`
	Queries []QueryReport   `json:"queries" yaml:"queries"`
	Methods []MethodSummary `json:"methods" yaml:"methods"`
	Took    time.Duration   `json:"took" yaml:"took"`
}

// Summary returns the means of method, or false when it was not evaluated.
func (r *Report) Summary(method search.Method) (Metrics, bool) {
	for _, s := range r.Methods {
		if s.Method == method {
			return s.Metrics, true
		}
	}
	return Metrics{}, false
}

// Evaluator runs judged queries through a searcher.
type Evaluator struct {
	searcher services.Searcher
	config   Config
	logger   *zap.Logger
	metrics  *metrics.Metrics
}

// NewEvaluator creates an Evaluator. logger and m may be nil.
func NewEvaluator(searcher services.Searcher, config Config, logger *zap.Logger, m *metrics.Metrics) (*Evaluator, error) {
	if searcher == nil {
		return nil, fmt.Errorf("searcher cannot be nil")
	}
	if config.Workers <= 0 {
		config.Workers = runtime.NumCPU()
	}
	return &Evaluator{
		searcher: searcher,
		config:   config,
		logger:   logging.OrNop(logger),
		metrics:  m,
	}, nil
}

// EvaluateAll evaluates every query under every method at cut-off topN.
// Boolean retrieval uses AND. A nil methods slice evaluates all of search.Methods.
// Pairs run concurrently, each writing its own slot, so the report matches a sequential run.
func (e *Evaluator) EvaluateAll(ctx context.Context, queries []corpus.TestQuery, methods []search.Method, topN int) (*Report, error) {
	start := time.Now()
	report, err := e.evaluateAll(ctx, queries, methods, topN)
	took := time.Since(start)
	e.metrics.ObserveEvaluation(took, err)
	if err != nil {
		e.logger.Error("evaluation failed", zap.Error(err))
		return nil, err
	}

	report.Took = took
	for _, s := range report.Methods {
		e.logger.Info("evaluation summary",
			zap.String("method", string(s.Method)),
			zap.Float64("precision", s.Precision),
			zap.Float64("recall", s.Recall),
			zap.Float64("f1", s.F1),
			zap.Float64("average_precision", s.AveragePrecision),
		)
	}
	return report, nil
}

func (e *Evaluator) evaluateAll(ctx context.Context, queries []corpus.TestQuery, methods []search.Method, topN int) (*Report, error) {
	if topN <= 0 {
		return nil, errors.NewValidationError("top_n", "must be positive")
	}
	if methods == nil {
		methods = search.Methods
	}
	for _, method := range methods {
		if _, err := search.ParseMethod(string(method)); err != nil {
			return nil, err
		}
	}

	total := len(queries) * len(methods)
	reports := make([]QueryReport, total)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.config.Workers)

	var (
		mu   sync.Mutex
		done int
	)
	for qi, query := range queries {
		relevant := query.RelevantSet()
		for mi, method := range methods {
			slot := qi*len(methods) + mi
			query, method := query, method
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				opts := services.SearchOptions{Method: method, Operator: search.OperatorAND, TopK: topN}
				results, err := e.searcher.Search(query.Query, opts)
				if err != nil {
					return fmt.Errorf("query '%s' with %s: %w", query.ID, method, err)
				}
				reports[slot] = QueryReport{
					QueryID: query.ID,
					Query:   query.Query,
					Method:  method,
					Metrics: Evaluate(results, relevant),
				}
				if e.config.ProgressCallback != nil {
					mu.Lock()
					done++
					e.config.ProgressCallback(done, total)
					mu.Unlock()
				}
				return nil
			})
		}
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to evaluate queries: %w", err)
	}

	summaries := make([]MethodSummary, len(methods))
	for mi, method := range methods {
		perQuery := make([]Metrics, 0, len(queries))
		for qi := range queries {
			perQuery = append(perQuery, reports[qi*len(methods)+mi].Metrics)
		}
		summaries[mi] = MethodSummary{Method: method, Metrics: Mean(perQuery)}
	}

	return &Report{TopN: topN, Queries: reports, Methods: summaries}, nil
}
