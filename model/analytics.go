package model

import "time"

// SearchEvent represents a single search event for analytics tracking
type SearchEvent struct {
	Query        string        `json:"query"`
	Method       string        `json:"method"` // "boolean", "vsm", "bm25"
	ResponseTime time.Duration `json:"response_time"`
	ResultCount  int           `json:"result_count"`
	Timestamp    time.Time     `json:"timestamp"`
}

// PopularSearch represents aggregated data for popular search terms
type PopularSearch struct {
	Query       string `json:"query"`
	SearchCount int    `json:"search_count"`
}

// ResponseTimeDistribution represents response time distribution buckets
type ResponseTimeDistribution struct {
	Bucket0To25ms     int     `json:"bucket_0_25ms"`
	Bucket25To50ms    int     `json:"bucket_25_50ms"`
	Bucket50To100ms   int     `json:"bucket_50_100ms"`
	Bucket100msPlus   int     `json:"bucket_100ms_plus"`
	Percentage0To25   float64 `json:"percentage_0_25"`
	Percentage25To50  float64 `json:"percentage_25_50"`
	Percentage50To100 float64 `json:"percentage_50_100"`
	Percentage100Plus float64 `json:"percentage_100_plus"`
}

// MethodStats represents search counts per retrieval method
type MethodStats struct {
	Boolean int `json:"boolean"`
	VSM     int `json:"vsm"`
	BM25    int `json:"bm25"`
}

// AnalyticsSummary represents the aggregated search analytics
type AnalyticsSummary struct {
	TotalSearches            int                      `json:"total_searches"`
	AvgResponseTime          float64                  `json:"avg_response_time_ms"`
	ZeroResultSearches       int                      `json:"zero_result_searches"`
	TotalDocuments           int                      `json:"total_documents"`
	PopularSearches          []PopularSearch          `json:"popular_searches"`
	ZeroResultQueries        []PopularSearch          `json:"zero_result_queries"`
	ResponseTimeDistribution ResponseTimeDistribution `json:"response_time_distribution"`
	Methods                  MethodStats              `json:"methods"`
}
