package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/gcbaptista/go-ir-engine/internal/corpus"
	"github.com/gcbaptista/go-ir-engine/internal/engine"
	"github.com/gcbaptista/go-ir-engine/internal/evaluation"
	"github.com/gcbaptista/go-ir-engine/internal/jobs"
	"github.com/gcbaptista/go-ir-engine/internal/metrics"
	irtesting "github.com/gcbaptista/go-ir-engine/internal/testing"
	"github.com/gcbaptista/go-ir-engine/model"
	"github.com/gcbaptista/go-ir-engine/services"
)

type testServer struct {
	router   *gin.Engine
	api      *API
	jobs     *jobs.Manager
	registry *prometheus.Registry
}

func setupTestServer(t *testing.T, opts Options) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)

	eng := irtesting.CreateTestEngine(t)
	manager := jobs.NewManager(2, nil)
	t.Cleanup(manager.Stop)

	registry := prometheus.NewRegistry()
	if opts.Jobs == nil {
		opts.Jobs = manager
	}
	opts.Metrics = metrics.New(registry)
	opts.Gatherer = registry

	router := gin.New()
	apiHandler := SetupRoutes(router, eng, opts)
	return &testServer{router: router, api: apiHandler, jobs: manager, registry: registry}
}

func (s *testServer) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			t.Fatalf("Failed to marshal request body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decodeAPIError(t *testing.T, w *httptest.ResponseRecorder) APIError {
	t.Helper()
	var apiErr APIError
	if err := json.Unmarshal(w.Body.Bytes(), &apiErr); err != nil {
		t.Fatalf("Failed to decode error response: %v", err)
	}
	return apiErr
}

func TestHealthCheckHandler(t *testing.T) {
	server := setupTestServer(t, Options{})

	w := server.do(t, "GET", "/health", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var body map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body["status"] != "healthy" {
		t.Errorf("Expected status 'healthy', got %v", body["status"])
	}
	if body["corpus"] != "fixture" {
		t.Errorf("Expected corpus 'fixture', got %v", body["corpus"])
	}
	if w.Header().Get(requestIDHeader) == "" {
		t.Error("Expected a request ID header")
	}
}

func TestStatsHandler(t *testing.T) {
	server := setupTestServer(t, Options{})

	w := server.do(t, "GET", "/stats", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var stats services.IndexStats
	if err := json.Unmarshal(w.Body.Bytes(), &stats); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if stats.TotalDocuments != 6 {
		t.Errorf("Expected 6 documents, got %d", stats.TotalDocuments)
	}
	if stats.K1 != 1.5 || stats.B != 0.75 {
		t.Errorf("Expected BM25 parameters 1.5/0.75, got %v/%v", stats.K1, stats.B)
	}
}

func TestSearchHandler(t *testing.T) {
	server := setupTestServer(t, Options{})

	tests := []struct {
		name          string
		requestBody   interface{}
		expectedTotal int
		expectedFirst string
		expectedTerms []string
	}{
		{
			name:          "default method",
			requestBody:   SearchRequest{Query: "crude oil"},
			expectedTotal: 3,
			expectedFirst: "doc2",
			expectedTerms: []string{"crude", "oil"},
		},
		{
			name:          "boolean AND",
			requestBody:   SearchRequest{Query: "crude oil", Method: "boolean", Operator: "AND"},
			expectedTotal: 2,
			expectedFirst: "doc1",
		},
		{
			name:          "boolean NOT",
			requestBody:   SearchRequest{Query: "crude oil", Method: "boolean", Operator: "NOT"},
			expectedTotal: 3,
			expectedFirst: "doc3",
		},
		{
			name:          "vsm with top_k",
			requestBody:   SearchRequest{Query: "crude oil", Method: "vsm", TopK: intPtr(1)},
			expectedTotal: 1,
		},
		{
			name:          "empty query",
			requestBody:   SearchRequest{Query: ""},
			expectedTotal: 0,
		},
		{
			name:          "unseen terms",
			requestBody:   SearchRequest{Query: "zeppelin"},
			expectedTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := server.do(t, "POST", "/search", tt.requestBody)
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
			}

			var result services.SearchResult
			if err := json.Unmarshal(w.Body.Bytes(), &result); err != nil {
				t.Fatalf("Failed to decode response: %v", err)
			}
			if result.Total != tt.expectedTotal {
				t.Errorf("Expected %d hits, got %d", tt.expectedTotal, result.Total)
			}
			if len(result.Hits) != result.Total {
				t.Errorf("Expected hits to match total, got %d hits", len(result.Hits))
			}
			if tt.expectedFirst != "" && len(result.Hits) > 0 && result.Hits[0].DocumentID != tt.expectedFirst {
				t.Errorf("Expected first hit %s, got %s", tt.expectedFirst, result.Hits[0].DocumentID)
			}
			if tt.expectedTerms != nil && strings.Join(result.Terms, ",") != strings.Join(tt.expectedTerms, ",") {
				t.Errorf("Expected terms %v, got %v", tt.expectedTerms, result.Terms)
			}
			if result.QueryId == "" {
				t.Error("Expected a query ID")
			}
		})
	}
}

func TestSearchHandler_InvalidRequests(t *testing.T) {
	server := setupTestServer(t, Options{MaxTopK: 50})

	tests := []struct {
		name           string
		requestBody    interface{}
		expectedStatus int
		expectedCode   ErrorCode
		expectedField  string
	}{
		{
			name:           "invalid JSON",
			requestBody:    "{not json",
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeInvalidQuery,
		},
		{
			name:           "unknown method",
			requestBody:    SearchRequest{Query: "oil", Method: "lsi"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeInvalidQuery,
		},
		{
			name:           "unknown operator",
			requestBody:    SearchRequest{Query: "oil", Method: "boolean", Operator: "XOR"},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeInvalidQuery,
		},
		{
			name:           "negative top_k",
			requestBody:    SearchRequest{Query: "oil", TopK: intPtr(-5)},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
			expectedField:  "top_k",
		},
		{
			name:           "top_k above the maximum",
			requestBody:    SearchRequest{Query: "oil", TopK: intPtr(51)},
			expectedStatus: http.StatusBadRequest,
			expectedCode:   ErrorCodeValidationFailed,
			expectedField:  "top_k",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := server.do(t, "POST", "/search", tt.requestBody)
			if w.Code != tt.expectedStatus {
				t.Fatalf("Expected status %d, got %d", tt.expectedStatus, w.Code)
			}

			apiErr := decodeAPIError(t, w)
			if apiErr.Code != tt.expectedCode {
				t.Errorf("Expected code %s, got %s", tt.expectedCode, apiErr.Code)
			}
			if apiErr.RequestID == "" {
				t.Error("Expected error response to carry the request ID")
			}
			if tt.expectedField != "" {
				if len(apiErr.Details) == 0 || apiErr.Details[0].Field != tt.expectedField {
					t.Errorf("Expected detail for field %s, got %v", tt.expectedField, apiErr.Details)
				}
			}
		})
	}

	// Rejected searches are not tracked
	if total := server.api.analytics.Summary().TotalSearches; total != 0 {
		t.Errorf("Expected no tracked searches, got %d", total)
	}
}

func TestGetDocumentHandler(t *testing.T) {
	server := setupTestServer(t, Options{})

	w := server.do(t, "GET", "/documents/doc3", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var doc model.Document
	if err := json.Unmarshal(w.Body.Bytes(), &doc); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if doc.ID != "doc3" || doc.Title != "Acquisition" {
		t.Errorf("Unexpected document: %+v", doc)
	}

	w = server.do(t, "GET", "/documents/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}
	if code := decodeAPIError(t, w).Code; code != ErrorCodeDocumentNotFound {
		t.Errorf("Expected code %s, got %s", ErrorCodeDocumentNotFound, code)
	}

	w = server.do(t, "GET", "/documents/", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for an empty ID, got %d", w.Code)
	}
}

func TestGetDocumentHandler_SlashInID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	eng, err := engine.New(context.Background(), &corpus.Corpus{
		Name: "reuters",
		Kind: corpus.KindReuters,
		Documents: []model.Document{
			{ID: "test/14826", Text: "Asian exporters fear damage from trade rift", Categories: []string{"trade"}},
		},
	}, engine.Options{})
	if err != nil {
		t.Fatalf("Failed to build engine: %v", err)
	}

	router := gin.New()
	SetupRoutes(router, eng, Options{})

	req := httptest.NewRequest("GET", "/documents/test/14826", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Asian exporters") {
		t.Errorf("Expected document text in response, got %s", w.Body.String())
	}
}

func TestEvaluationFlow(t *testing.T) {
	server := setupTestServer(t, Options{TestQueries: irtesting.TestQueries()})

	w := server.do(t, "POST", "/evaluations", EvaluationRequest{TopN: intPtr(5), Methods: []string{"bm25", "boolean"}})
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", w.Code, w.Body.String())
	}

	var accepted map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	jobID := accepted["job_id"]
	if jobID == "" {
		t.Fatal("Expected a job ID")
	}

	job := irtesting.WaitForJobCompletion(t, server.jobs, jobID, irtesting.DefaultJobPollingOptions())
	irtesting.AssertJobCompleted(t, job, model.JobTypeEvaluation, "fixture")

	report, ok := job.Result.(*evaluation.Report)
	if !ok {
		t.Fatalf("Expected an evaluation report, got %T", job.Result)
	}
	if report.TopN != 5 || len(report.Methods) != 2 || len(report.Queries) != 4 {
		t.Errorf("Unexpected report shape: top_n=%d methods=%d queries=%d", report.TopN, len(report.Methods), len(report.Queries))
	}
	if job.Metadata["methods"] != "bm25,boolean" {
		t.Errorf("Expected methods metadata 'bm25,boolean', got %s", job.Metadata["methods"])
	}

	w = server.do(t, "GET", "/jobs/"+jobID, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var fetched map[string]interface{}
	if err := json.Unmarshal(w.Body.Bytes(), &fetched); err != nil {
		t.Fatalf("Failed to decode job: %v", err)
	}
	if fetched["status"] != string(model.JobStatusCompleted) {
		t.Errorf("Expected completed job, got %v", fetched["status"])
	}
	if _, ok := fetched["result"].(map[string]interface{}); !ok {
		t.Errorf("Expected the job result to be serialized, got %T", fetched["result"])
	}

	w = server.do(t, "GET", "/jobs?dataset=fixture&status=completed", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	var list struct {
		Total int `json:"total"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &list); err != nil {
		t.Fatalf("Failed to decode job list: %v", err)
	}
	if list.Total != 1 {
		t.Errorf("Expected 1 completed job, got %d", list.Total)
	}

	w = server.do(t, "GET", "/jobs/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"success_rate":1`) {
		t.Errorf("Expected success rate 1, got %s", w.Body.String())
	}
}

func TestStartEvaluationHandler_DefaultsWithEmptyBody(t *testing.T) {
	server := setupTestServer(t, Options{TestQueries: irtesting.TestQueries()})

	w := server.do(t, "POST", "/evaluations", nil)
	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected status 202, got %d: %s", w.Code, w.Body.String())
	}

	var accepted map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &accepted); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	job := irtesting.WaitForJobCompletion(t, server.jobs, accepted["job_id"], irtesting.DefaultJobPollingOptions())
	report := job.Result.(*evaluation.Report)
	if report.TopN != evaluation.DefaultTopN || len(report.Methods) != 3 {
		t.Errorf("Expected defaults top_n=%d and 3 methods, got %d and %d", evaluation.DefaultTopN, report.TopN, len(report.Methods))
	}
}

func TestStartEvaluationHandler_Rejected(t *testing.T) {
	t.Run("invalid request", func(t *testing.T) {
		server := setupTestServer(t, Options{TestQueries: irtesting.TestQueries()})

		w := server.do(t, "POST", "/evaluations", EvaluationRequest{TopN: intPtr(0), Methods: []string{"lsi"}})
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected status 400, got %d", w.Code)
		}
		apiErr := decodeAPIError(t, w)
		if apiErr.Code != ErrorCodeValidationFailed || len(apiErr.Details) != 2 {
			t.Errorf("Expected 2 validation details, got %s with %d", apiErr.Code, len(apiErr.Details))
		}
	})

	t.Run("invalid JSON", func(t *testing.T) {
		server := setupTestServer(t, Options{TestQueries: irtesting.TestQueries()})

		w := server.do(t, "POST", "/evaluations", "{")
		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected status 400, got %d", w.Code)
		}
		if code := decodeAPIError(t, w).Code; code != ErrorCodeInvalidJSON {
			t.Errorf("Expected code %s, got %s", ErrorCodeInvalidJSON, code)
		}
	})

	t.Run("no test queries", func(t *testing.T) {
		server := setupTestServer(t, Options{})

		w := server.do(t, "POST", "/evaluations", nil)
		if w.Code != http.StatusConflict {
			t.Fatalf("Expected status 409, got %d", w.Code)
		}
		if code := decodeAPIError(t, w).Code; code != ErrorCodeNoTestQueries {
			t.Errorf("Expected code %s, got %s", ErrorCodeNoTestQueries, code)
		}
	})
}

func TestJobHandlers_Errors(t *testing.T) {
	server := setupTestServer(t, Options{})

	w := server.do(t, "GET", "/jobs/missing", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("Expected status 404, got %d", w.Code)
	}
	if code := decodeAPIError(t, w).Code; code != ErrorCodeJobNotFound {
		t.Errorf("Expected code %s, got %s", ErrorCodeJobNotFound, code)
	}

	w = server.do(t, "GET", "/jobs?status=cancelled", nil)
	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for an unknown status, got %d", w.Code)
	}
}

func TestJobHandlers_WithoutJobManager(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	SetupRoutes(router, irtesting.CreateTestEngine(t), Options{TestQueries: irtesting.TestQueries()})

	for _, tc := range []struct{ method, path string }{
		{"GET", "/jobs/abc"},
		{"GET", "/jobs"},
		{"GET", "/jobs/metrics"},
		{"POST", "/evaluations"},
	} {
		req := httptest.NewRequest(tc.method, tc.path, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		if w.Code != http.StatusNotImplemented {
			t.Errorf("%s %s: expected status 501, got %d", tc.method, tc.path, w.Code)
		}
	}
}

func TestGetAnalyticsHandler(t *testing.T) {
	server := setupTestServer(t, Options{})

	for _, q := range []string{"crude oil", "crude oil", "zeppelin"} {
		if w := server.do(t, "POST", "/search", SearchRequest{Query: q}); w.Code != http.StatusOK {
			t.Fatalf("Search failed with status %d", w.Code)
		}
	}

	w := server.do(t, "GET", "/analytics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	var summary model.AnalyticsSummary
	if err := json.Unmarshal(w.Body.Bytes(), &summary); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if summary.TotalSearches != 3 {
		t.Errorf("Expected 3 searches, got %d", summary.TotalSearches)
	}
	if summary.ZeroResultSearches != 1 {
		t.Errorf("Expected 1 zero-result search, got %d", summary.ZeroResultSearches)
	}
	if summary.Methods.BM25 != 3 {
		t.Errorf("Expected 3 bm25 searches, got %d", summary.Methods.BM25)
	}
	if summary.TotalDocuments != 6 {
		t.Errorf("Expected 6 documents, got %d", summary.TotalDocuments)
	}
	if len(summary.PopularSearches) == 0 || summary.PopularSearches[0].Query != "crude oil" {
		t.Errorf("Expected 'crude oil' as the most popular search, got %v", summary.PopularSearches)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	server := setupTestServer(t, Options{})

	if w := server.do(t, "POST", "/search", SearchRequest{Query: "oil"}); w.Code != http.StatusOK {
		t.Fatalf("Search failed with status %d", w.Code)
	}

	w := server.do(t, "GET", "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "ire_http_requests_total") {
		t.Error("Expected HTTP request counter in metrics output")
	}
	if !strings.Contains(body, `path="/search"`) {
		t.Error("Expected the search route as a path label")
	}
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	server := setupTestServer(t, Options{})

	w := server.do(t, "OPTIONS", "/search", nil)
	if w.Code != http.StatusNoContent {
		t.Errorf("Expected status 204, got %d", w.Code)
	}
	if w.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header")
	}
}

func TestRequestIDMiddleware_ReusesClientID(t *testing.T) {
	server := setupTestServer(t, Options{})

	req := httptest.NewRequest("GET", "/health", nil)
	req.Header.Set(requestIDHeader, "client-123")
	w := httptest.NewRecorder()
	server.router.ServeHTTP(w, req)

	if got := w.Header().Get(requestIDHeader); got != "client-123" {
		t.Errorf("Expected request ID 'client-123', got '%s'", got)
	}
}
