package evaluation

import (
	"context"
	stdErrors "errors"
	"fmt"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-ir-engine/internal/corpus"
	internalErrors "github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/internal/metrics"
	"github.com/gcbaptista/go-ir-engine/internal/search"
	irtesting "github.com/gcbaptista/go-ir-engine/internal/testing"
	"github.com/gcbaptista/go-ir-engine/services"
)

// failingSearcher fails every search for one query string.
type failingSearcher struct {
	services.Searcher
	failOn string
}

func (s failingSearcher) Search(query string, opts services.SearchOptions) ([]search.Result, error) {
	if query == s.failOn {
		return nil, fmt.Errorf("index unavailable")
	}
	return s.Searcher.Search(query, opts)
}

// recordingSearcher records the options of every search.
type recordingSearcher struct {
	mu   sync.Mutex
	opts []services.SearchOptions
}

func (s *recordingSearcher) Search(_ string, opts services.SearchOptions) ([]search.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.opts = append(s.opts, opts)
	return []search.Result{}, nil
}

func (s *recordingSearcher) SearchWithHits(services.SearchQuery) (services.SearchResult, error) {
	return services.SearchResult{}, nil
}

func TestNewEvaluator(t *testing.T) {
	_, err := NewEvaluator(nil, Config{}, nil, nil)
	assert.Error(t, err)

	e, err := NewEvaluator(&recordingSearcher{}, Config{}, nil, nil)
	require.NoError(t, err)
	assert.Greater(t, e.config.Workers, 0)
}

func TestEvaluateAll(t *testing.T) {
	eng := irtesting.CreateTestEngine(t)
	e, err := NewEvaluator(eng, Config{Workers: 4}, nil, nil)
	require.NoError(t, err)

	report, err := e.EvaluateAll(context.Background(), irtesting.TestQueries(), nil, DefaultTopN)
	require.NoError(t, err)

	assert.Equal(t, DefaultTopN, report.TopN)
	require.Len(t, report.Queries, 6)
	require.Len(t, report.Methods, 3)

	// Query-major, methods in evaluation order
	assert.Equal(t, "crude", report.Queries[0].QueryID)
	assert.Equal(t, search.MethodBoolean, report.Queries[0].Method)
	assert.Equal(t, search.MethodBM25, report.Queries[2].Method)
	assert.Equal(t, "trade", report.Queries[3].QueryID)

	for _, q := range report.Queries[:3] {
		assert.InDelta(t, 1.0, q.Precision, 1e-12, "%s", q.Method)
		assert.InDelta(t, 1.0, q.AveragePrecision, 1e-12, "%s", q.Method)
	}
	for _, q := range report.Queries[3:] {
		// Only doc5 mentions trade
		assert.InDelta(t, 1.0, q.Precision, 1e-12, "%s", q.Method)
		assert.InDelta(t, 0.5, q.Recall, 1e-12, "%s", q.Method)
		assert.InDelta(t, 0.5, q.AveragePrecision, 1e-12, "%s", q.Method)
	}

	for _, method := range search.Methods {
		summary, ok := report.Summary(method)
		require.True(t, ok)
		assert.InDelta(t, 1.0, summary.Precision, 1e-12)
		assert.InDelta(t, 0.75, summary.Recall, 1e-12)
		assert.InDelta(t, (1.0+2.0/3.0)/2, summary.F1, 1e-12)
		assert.InDelta(t, 0.75, summary.AveragePrecision, 1e-12)
	}
}

func TestEvaluateAll_MatchesSequentialRun(t *testing.T) {
	eng := irtesting.CreateTestEngine(t)
	queries := append(irtesting.TestQueries(),
		corpus.TestQuery{ID: "oil", Query: "oil exports", Relevant: []string{"doc2"}},
		corpus.TestQuery{ID: "bank", Query: "central bank currency", Relevant: []string{"doc6", "doc4"}},
	)

	sequential, err := NewEvaluator(eng, Config{Workers: 1}, nil, nil)
	require.NoError(t, err)
	parallel, err := NewEvaluator(eng, Config{Workers: 8}, nil, nil)
	require.NoError(t, err)

	want, err := sequential.EvaluateAll(context.Background(), queries, nil, 5)
	require.NoError(t, err)
	got, err := parallel.EvaluateAll(context.Background(), queries, nil, 5)
	require.NoError(t, err)

	assert.Equal(t, want.Queries, got.Queries)
	assert.Equal(t, want.Methods, got.Methods)
}

func TestEvaluateAll_SearchOptions(t *testing.T) {
	searcher := &recordingSearcher{}
	e, err := NewEvaluator(searcher, Config{Workers: 2}, nil, nil)
	require.NoError(t, err)

	methods := []search.Method{search.MethodBoolean, search.MethodBM25}
	_, err = e.EvaluateAll(context.Background(), irtesting.TestQueries(), methods, 7)
	require.NoError(t, err)

	require.Len(t, searcher.opts, 4)
	for _, opts := range searcher.opts {
		assert.Equal(t, 7, opts.TopK)
		assert.Equal(t, search.OperatorAND, opts.Operator)
		assert.Contains(t, methods, opts.Method)
	}
}

func TestEvaluateAll_Progress(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []int
	)
	e, err := NewEvaluator(&recordingSearcher{}, Config{
		Workers: 3,
		ProgressCallback: func(done, total int) {
			mu.Lock()
			defer mu.Unlock()
			assert.Equal(t, 6, total)
			calls = append(calls, done)
		},
	}, nil, nil)
	require.NoError(t, err)

	_, err = e.EvaluateAll(context.Background(), irtesting.TestQueries(), nil, DefaultTopN)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3, 4, 5, 6}, calls)
}

func TestEvaluateAll_Errors(t *testing.T) {
	eng := irtesting.CreateTestEngine(t)

	t.Run("non-positive top n", func(t *testing.T) {
		e, err := NewEvaluator(eng, Config{}, nil, nil)
		require.NoError(t, err)
		_, err = e.EvaluateAll(context.Background(), irtesting.TestQueries(), nil, 0)
		assert.True(t, stdErrors.Is(err, internalErrors.ErrInvalidInput))
	})

	t.Run("unknown method", func(t *testing.T) {
		e, err := NewEvaluator(eng, Config{}, nil, nil)
		require.NoError(t, err)
		_, err = e.EvaluateAll(context.Background(), irtesting.TestQueries(), []search.Method{"lsi"}, 10)
		assert.True(t, stdErrors.Is(err, internalErrors.ErrUnknownMethod))
	})

	t.Run("search failure", func(t *testing.T) {
		reg := prometheus.NewRegistry()
		m := metrics.New(reg)
		e, err := NewEvaluator(failingSearcher{Searcher: eng, failOn: "trade"}, Config{Workers: 2}, nil, m)
		require.NoError(t, err)

		report, err := e.EvaluateAll(context.Background(), irtesting.TestQueries(), nil, 10)
		assert.Error(t, err)
		assert.Nil(t, report)
		assert.Contains(t, err.Error(), "trade")

		count, err := testutil.GatherAndCount(reg, "ire_evaluations_total")
		require.NoError(t, err)
		assert.Equal(t, 1, count)
	})

	t.Run("cancelled context", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		e, err := NewEvaluator(eng, Config{}, nil, nil)
		require.NoError(t, err)
		_, err = e.EvaluateAll(ctx, irtesting.TestQueries(), nil, 10)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
