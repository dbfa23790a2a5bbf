package indexing

import (
	"context"
	"fmt"
	"runtime"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/gcbaptista/go-ir-engine/index"
	"github.com/gcbaptista/go-ir-engine/internal/logging"
	"github.com/gcbaptista/go-ir-engine/internal/metrics"
	"github.com/gcbaptista/go-ir-engine/internal/tokenizer"
	"github.com/gcbaptista/go-ir-engine/model"
	"github.com/gcbaptista/go-ir-engine/store"
)

// Config contains configuration for index builds
type Config struct {
	BatchSize        int // Number of documents each worker processes at a time
	WorkerCount      int // Number of parallel workers for text processing
	ProgressCallback func(processed, total int)
}

// DefaultConfig returns sensible defaults for index builds
func DefaultConfig() Config {
	return Config{
		BatchSize:   250,              // Small enough to spread a CISI-sized corpus over all cores
		WorkerCount: runtime.NumCPU(), // Use all available cores
	}
}

// Result is a built index together with the raw documents it was built from.
type Result struct {
	Index *index.InvertedIndex
	Store *store.DocumentStore
	Took  time.Duration
}

// Service builds inverted indexes from raw documents.
type Service struct {
	processor *tokenizer.Processor
	config    Config
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewService creates a new indexing Service. logger and m may be nil.
func NewService(processor *tokenizer.Processor, config Config, logger *zap.Logger, m *metrics.Metrics) (*Service, error) {
	if processor == nil {
		return nil, fmt.Errorf("processor cannot be nil")
	}
	if config.BatchSize <= 0 {
		config.BatchSize = DefaultConfig().BatchSize
	}
	if config.WorkerCount <= 0 {
		config.WorkerCount = DefaultConfig().WorkerCount
	}
	return &Service{
		processor: processor,
		config:    config,
		logger:    logging.OrNop(logger),
		metrics:   m,
	}, nil
}

// Build processes every document and builds the index in document order.
// Text processing runs on WorkerCount goroutines; the result does not depend on scheduling.
func (s *Service) Build(ctx context.Context, docs []model.Document) (*Result, error) {
	start := time.Now()

	docStore := store.NewDocumentStore(len(docs))
	for _, doc := range docs {
		if err := docStore.Add(doc); err != nil {
			return nil, fmt.Errorf("failed to store document: %w", err)
		}
	}

	source, err := s.process(ctx, docs)
	if err != nil {
		return nil, err
	}

	invIndex, err := index.Build(source)
	if err != nil {
		return nil, fmt.Errorf("failed to build index: %w", err)
	}

	took := time.Since(start)
	s.metrics.ObserveIndexBuild(invIndex.TotalDocs(), invIndex.VocabularySize(), took)
	s.logger.Info("index built",
		zap.Int("documents", invIndex.TotalDocs()),
		zap.Int("vocabulary", invIndex.VocabularySize()),
		zap.Float64("avg_doc_length", invIndex.AvgDocLength()),
		zap.Duration("took", took),
	)

	return &Result{Index: invIndex, Store: docStore, Took: took}, nil
}

// process runs the text processor over docs in batches. Each batch writes only its own slots.
func (s *Service) process(ctx context.Context, docs []model.Document) ([]index.SourceDocument, error) {
	source := make([]index.SourceDocument, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.config.WorkerCount)

	var (
		mu   sync.Mutex
		done int
	)
	for lo := 0; lo < len(docs); lo += s.config.BatchSize {
		hi := lo + s.config.BatchSize
		if hi > len(docs) {
			hi = len(docs)
		}

		lo, hi := lo, hi
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				source[i] = index.SourceDocument{
					ID:    docs[i].ID,
					Terms: s.processor.Process(docs[i].Text),
				}
			}
			if s.config.ProgressCallback != nil {
				mu.Lock()
				done += hi - lo
				s.config.ProgressCallback(done, len(docs))
				mu.Unlock()
			}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, fmt.Errorf("failed to process documents: %w", err)
	}
	return source, nil
}
