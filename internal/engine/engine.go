package engine

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/gcbaptista/go-ir-engine/index"
	"github.com/gcbaptista/go-ir-engine/internal/corpus"
	"github.com/gcbaptista/go-ir-engine/internal/indexing"
	"github.com/gcbaptista/go-ir-engine/internal/logging"
	"github.com/gcbaptista/go-ir-engine/internal/metrics"
	"github.com/gcbaptista/go-ir-engine/internal/search"
	"github.com/gcbaptista/go-ir-engine/internal/tokenizer"
	"github.com/gcbaptista/go-ir-engine/model"
	"github.com/gcbaptista/go-ir-engine/services"
	"github.com/gcbaptista/go-ir-engine/store"
)

// DefaultPreviewLength is the number of characters of document text shown with a hit.
const DefaultPreviewLength = 200

// Defaults are applied to search requests that leave an option unset.
type Defaults struct {
	Method   search.Method
	Operator search.Operator
	TopK     int
	MaxTopK  int
}

// Options configures an Engine. Zero values fall back to the package defaults.
type Options struct {
	Processor     *tokenizer.Processor
	K1            float64
	B             float64
	Indexing      indexing.Config
	Defaults      Defaults
	PreviewLength int
	Logger        *zap.Logger
	Metrics       *metrics.Metrics
}

// Engine answers queries over one corpus. The index, the document store and the
// retrieval models are built once by New and never change, so an Engine is safe for
// concurrent use.
// It implements the services.SearchEngine interface.
type Engine struct {
	corpusName    string
	processor     *tokenizer.Processor
	invertedIndex *index.InvertedIndex
	documentStore *store.DocumentStore
	models        *search.Models
	defaults      Defaults
	previewLength int
	logger        *zap.Logger
	metrics       *metrics.Metrics
}

// New processes and indexes every document of c and builds the retrieval models.
func New(ctx context.Context, c *corpus.Corpus, opts Options) (*Engine, error) {
	if c == nil {
		return nil, fmt.Errorf("corpus cannot be nil")
	}
	opts = withDefaults(opts)
	logger := logging.OrNop(opts.Logger).With(zap.String("corpus", c.Name))

	indexer, err := indexing.NewService(opts.Processor, opts.Indexing, logger, opts.Metrics)
	if err != nil {
		return nil, fmt.Errorf("failed to create indexer service: %w", err)
	}

	logger.Info("building index", zap.Int("documents", len(c.Documents)))
	built, err := indexer.Build(ctx, c.Documents)
	if err != nil {
		return nil, fmt.Errorf("failed to index corpus '%s': %w", c.Name, err)
	}

	return &Engine{
		corpusName:    c.Name,
		processor:     opts.Processor,
		invertedIndex: built.Index,
		documentStore: built.Store,
		models:        search.NewModels(built.Index, opts.K1, opts.B),
		defaults:      opts.Defaults,
		previewLength: opts.PreviewLength,
		logger:        logger,
		metrics:       opts.Metrics,
	}, nil
}

func withDefaults(opts Options) Options {
	if opts.Processor == nil {
		opts.Processor = tokenizer.NewProcessor()
	}
	if opts.K1 == 0 && opts.B == 0 {
		opts.K1, opts.B = search.DefaultK1, search.DefaultB
	}
	if opts.Defaults.Method == "" {
		opts.Defaults.Method = search.MethodBM25
	}
	if opts.Defaults.Operator == "" {
		opts.Defaults.Operator = search.OperatorAND
	}
	if opts.Defaults.TopK <= 0 {
		opts.Defaults.TopK = 10
	}
	if opts.Defaults.MaxTopK < opts.Defaults.TopK {
		opts.Defaults.MaxTopK = 1000
	}
	if opts.PreviewLength <= 0 {
		opts.PreviewLength = DefaultPreviewLength
	}
	return opts
}

// Search processes query with the engine's processor and runs it through the selected model.
// A query with no terms left after processing matches nothing.
func (e *Engine) Search(query string, opts services.SearchOptions) ([]search.Result, error) {
	return e.SearchTerms(e.processor.Process(query), opts)
}

// SearchTerms runs already processed terms through the selected model.
func (e *Engine) SearchTerms(terms []string, opts services.SearchOptions) ([]search.Result, error) {
	start := time.Now()

	op := opts.Operator
	if op == "" {
		op = search.OperatorAND
	}
	ranker, err := e.models.Ranker(opts.Method, op)
	if err != nil {
		e.metrics.ObserveSearch(string(opts.Method), 0, 0, err)
		return nil, err
	}

	results := []search.Result{}
	if len(terms) > 0 {
		results = ranker.Search(terms, opts.TopK)
	}

	e.metrics.ObserveSearch(string(ranker.Method()), len(results), time.Since(start), nil)
	return results, nil
}

// Stats summarizes the built index.
func (e *Engine) Stats() services.IndexStats {
	return services.IndexStats{
		Corpus:         e.corpusName,
		TotalDocuments: e.invertedIndex.TotalDocs(),
		VocabularySize: e.invertedIndex.VocabularySize(),
		AvgDocLength:   e.invertedIndex.AvgDocLength(),
		K1:             e.models.BM25.K1(),
		B:              e.models.BM25.B(),
	}
}

// Document returns a raw document by ID.
func (e *Engine) Document(docID string) (model.Document, error) {
	return e.documentStore.Get(docID)
}

// Categories returns the category labels of a document.
func (e *Engine) Categories(docID string) []string {
	return e.documentStore.Categories(docID)
}

// Defaults returns the request defaults of the engine.
func (e *Engine) Defaults() Defaults {
	return e.defaults
}
