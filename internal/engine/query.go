package engine

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/internal/search"
	"github.com/gcbaptista/go-ir-engine/services"
)

// ResolveQuery turns a client query into search options, applying the engine defaults
// to anything left unset.
func (e *Engine) ResolveQuery(q services.SearchQuery) (services.SearchOptions, error) {
	opts := services.SearchOptions{
		Method:   e.defaults.Method,
		Operator: e.defaults.Operator,
		TopK:     e.defaults.TopK,
	}

	if strings.TrimSpace(q.Method) != "" {
		method, err := search.ParseMethod(q.Method)
		if err != nil {
			return services.SearchOptions{}, err
		}
		opts.Method = method
	}
	if strings.TrimSpace(q.Operator) != "" {
		op, err := search.ParseOperator(q.Operator)
		if err != nil {
			return services.SearchOptions{}, err
		}
		opts.Operator = op
	}
	if q.TopK != nil {
		if *q.TopK < 0 {
			return services.SearchOptions{}, errors.NewValidationError("top_k", "must be non-negative")
		}
		if *q.TopK > e.defaults.MaxTopK {
			return services.SearchOptions{}, errors.NewValidationError("top_k", fmt.Sprintf("cannot exceed %d", e.defaults.MaxTopK))
		}
		opts.TopK = *q.TopK
	}
	return opts, nil
}

// SearchWithHits runs a client query and decorates the results with document previews.
func (e *Engine) SearchWithHits(q services.SearchQuery) (services.SearchResult, error) {
	start := time.Now()

	opts, err := e.ResolveQuery(q)
	if err != nil {
		return services.SearchResult{}, err
	}

	terms := e.processor.Process(q.QueryString)
	results, err := e.SearchTerms(terms, opts)
	if err != nil {
		return services.SearchResult{}, err
	}

	hits := make([]services.HitResult, len(results))
	for i, r := range results {
		doc, _ := e.documentStore.Get(r.DocID)
		hits[i] = services.HitResult{
			DocumentID: r.DocID,
			Title:      doc.Title,
			Score:      r.Score,
			Preview:    doc.Preview(e.previewLength),
			Categories: doc.Categories,
		}
	}

	result := services.SearchResult{
		Hits:    hits,
		Total:   len(hits),
		Method:  string(opts.Method),
		Terms:   terms,
		Took:    time.Since(start).Milliseconds(),
		QueryId: uuid.New().String(),
	}
	if opts.Method == search.MethodBoolean {
		result.Operator = string(opts.Operator)
	}

	e.logger.Debug("search",
		zap.String("query_id", result.QueryId),
		zap.String("method", result.Method),
		zap.Strings("terms", terms),
		zap.Int("hits", result.Total),
	)
	return result, nil
}
