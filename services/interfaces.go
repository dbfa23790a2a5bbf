package services

import (
	"github.com/gcbaptista/go-ir-engine/internal/search"
	"github.com/gcbaptista/go-ir-engine/model"
)

// SearchOptions selects the retrieval model for a processed query.
type SearchOptions struct {
	Method   search.Method
	Operator search.Operator // boolean retrieval only; defaults to AND
	TopK     int             // 0 returns nothing, negative returns every match
}

// SearchQuery is a raw query together with its retrieval options, as received from a client.
type SearchQuery struct {
	QueryString string `json:"query"`
	Method      string `json:"method"`
	Operator    string `json:"operator,omitempty"`
	TopK        *int   `json:"top_k,omitempty"` // nil uses the engine default
}

// HitResult represents a single document in the search results with display metadata.
type HitResult struct {
	DocumentID string   `json:"document_id"`
	Title      string   `json:"title,omitempty"`
	Score      float64  `json:"score"`
	Preview    string   `json:"preview"`
	Categories []string `json:"categories,omitempty"`
}

type SearchResult struct {
	Hits     []HitResult `json:"hits"`
	Total    int         `json:"total"`
	Method   string      `json:"method"`
	Operator string      `json:"operator,omitempty"`
	Terms    []string    `json:"terms"`    // processed query terms
	Took     int64       `json:"took"`     // milliseconds
	QueryId  string      `json:"query_id"` // unique UUID for this search query
}

// IndexStats summarizes a built index.
type IndexStats struct {
	Corpus         string  `json:"corpus"`
	TotalDocuments int     `json:"total_documents"`
	VocabularySize int     `json:"vocabulary_size"`
	AvgDocLength   float64 `json:"avg_doc_length"`
	K1             float64 `json:"bm25_k1"`
	B              float64 `json:"bm25_b"`
}

// Searcher defines operations for querying an index
type Searcher interface {
	Search(query string, opts SearchOptions) ([]search.Result, error)
	SearchWithHits(query SearchQuery) (SearchResult, error)
}

// SearchEngine is a searcher over a built corpus that can also describe itself.
type SearchEngine interface {
	Searcher
	Stats() IndexStats
	Document(docID string) (model.Document, error)
}

// JobManager defines operations for managing background jobs
type JobManager interface {
	GetJob(jobID string) (*model.Job, error)
	ListJobs(dataset string, status *model.JobStatus) []*model.Job
}
