// Package testing provides fixtures and helpers for testing the engine and its surfaces.
package testing

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gcbaptista/go-ir-engine/internal/corpus"
	"github.com/gcbaptista/go-ir-engine/internal/engine"
	"github.com/gcbaptista/go-ir-engine/model"
	"github.com/gcbaptista/go-ir-engine/services"
)

// TestCorpus returns a small labelled collection.
// "crude oil" matches doc1 and doc2 under AND and also doc5 under OR; doc2 is the shorter
// of the two full matches.
func TestCorpus() *corpus.Corpus {
	docs := []model.Document{
		{ID: "doc1", Title: "Oil prices", Text: "Oil prices rise as crude supply tightens", Categories: []string{"crude"}},
		{ID: "doc2", Title: "Crude exports", Text: "Crude oil exports fall sharply", Categories: []string{"crude", "trade"}},
		{ID: "doc3", Title: "Acquisition", Text: "Company acquires rival in stock deal", Categories: []string{"acq"}},
		{ID: "doc4", Title: "Earnings", Text: "Quarterly earnings beat forecasts", Categories: []string{"earn"}},
		{ID: "doc5", Title: "Trade deficit", Text: "Trade deficit widens on oil imports", Categories: []string{"trade"}},
		{ID: "doc6", Title: "Currency", Text: "Central bank intervenes in currency market", Categories: []string{"money-fx"}},
	}

	categories := make(map[string][]string)
	for _, doc := range docs {
		for _, c := range doc.Categories {
			categories[c] = append(categories[c], doc.ID)
		}
	}
	return &corpus.Corpus{
		Name:       "fixture",
		Kind:       corpus.KindReuters,
		Documents:  docs,
		Categories: categories,
	}
}

// TestQueries returns judged queries over TestCorpus.
func TestQueries() []corpus.TestQuery {
	return []corpus.TestQuery{
		{ID: "crude", Query: "crude", Relevant: []string{"doc1", "doc2"}},
		{ID: "trade", Query: "trade", Relevant: []string{"doc2", "doc5"}},
	}
}

// CreateTestEngine builds an engine over TestCorpus with default options.
func CreateTestEngine(t *testing.T) *engine.Engine {
	t.Helper()
	eng, err := engine.New(context.Background(), TestCorpus(), engine.Options{})
	require.NoError(t, err, "Failed to build test engine")
	return eng
}

// JobPollingOptions configures job polling behavior
type JobPollingOptions struct {
	Timeout      time.Duration
	PollInterval time.Duration
	LogProgress  bool
}

// DefaultJobPollingOptions returns sensible defaults for job polling
func DefaultJobPollingOptions() JobPollingOptions {
	return JobPollingOptions{
		Timeout:      10 * time.Second,
		PollInterval: 10 * time.Millisecond,
		LogProgress:  true,
	}
}

// WaitForJobCompletion polls a job until it completes or times out
func WaitForJobCompletion(t *testing.T, jobManager services.JobManager, jobID string, opts JobPollingOptions) *model.Job {
	t.Helper()
	timeout := time.After(opts.Timeout)
	ticker := time.NewTicker(opts.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-timeout:
			t.Fatalf("Job %s did not complete within %v timeout", jobID, opts.Timeout)
		case <-ticker.C:
			job, err := jobManager.GetJob(jobID)
			require.NoError(t, err, "Failed to get job status")

			switch job.Status {
			case model.JobStatusCompleted:
				if opts.LogProgress {
					t.Logf("Job %s completed successfully in %v", jobID, job.CompletedAt.Sub(job.CreatedAt))
				}
				return job
			case model.JobStatusFailed:
				return job
			case model.JobStatusRunning:
				if opts.LogProgress && job.Progress != nil {
					t.Logf("Job %s progress: %d/%d - %s",
						jobID,
						job.Progress.Current,
						job.Progress.Total,
						job.Progress.Message)
				}
			}
		}
	}
}

// AssertJobCompleted verifies that a job completed successfully
func AssertJobCompleted(t *testing.T, job *model.Job, expectedType model.JobType, expectedDataset string) {
	t.Helper()
	assert.Equal(t, model.JobStatusCompleted, job.Status, "Job should be completed")
	assert.Equal(t, expectedType, job.Type, "Job type should match")
	assert.Equal(t, expectedDataset, job.Dataset, "Job dataset should match")
	assert.NotNil(t, job.CompletedAt, "Job should have completion timestamp")
	assert.Empty(t, job.Error, "Job should not have error")
}

// SearchTestCase represents a test case for search operations
type SearchTestCase struct {
	Name          string
	Query         services.SearchQuery
	ExpectedCount int
	ExpectedFirst string // Expected first result document ID
	ValidateFunc  func(t *testing.T, results *services.SearchResult)
}

// RunSearchTests runs a suite of search tests against a searcher
func RunSearchTests(t *testing.T, searcher services.Searcher, tests []SearchTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			results, err := searcher.SearchWithHits(tt.Query)
			require.NoError(t, err, "Search should not fail")

			assert.Equal(t, tt.ExpectedCount, results.Total, "Result count should match")

			if tt.ExpectedFirst != "" {
				require.NotEmpty(t, results.Hits, "Expected at least one hit")
				assert.Equal(t, tt.ExpectedFirst, results.Hits[0].DocumentID, "First result should match expected")
			}

			if tt.ValidateFunc != nil {
				tt.ValidateFunc(t, &results)
			}
		})
	}
}

// IntPtr returns a pointer to v, for optional request fields.
func IntPtr(v int) *int {
	return &v
}
