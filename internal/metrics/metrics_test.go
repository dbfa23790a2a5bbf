package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestObserveIndexBuild(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveIndexBuild(1460, 5000, 250*time.Millisecond)

	if got := testutil.ToFloat64(m.documentsIndexed); got != 1460 {
		t.Errorf("expected documents_indexed_total 1460, got %f", got)
	}
	if got := testutil.ToFloat64(m.vocabularySize); got != 5000 {
		t.Errorf("expected vocabulary_size 5000, got %f", got)
	}
	if count := testutil.CollectAndCount(m.indexBuildDuration); count != 1 {
		t.Errorf("expected one index_build_duration_seconds series, got %d", count)
	}
}

func TestObserveSearch(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveSearch("bm25", 10, time.Millisecond, nil)
	m.ObserveSearch("bm25", 3, time.Millisecond, nil)
	m.ObserveSearch("vsm", 0, 0, errors.New("boom"))

	if got := testutil.ToFloat64(m.searchesTotal.WithLabelValues("bm25", "ok")); got != 2 {
		t.Errorf("expected 2 successful bm25 searches, got %f", got)
	}
	if got := testutil.ToFloat64(m.searchesTotal.WithLabelValues("vsm", "error")); got != 1 {
		t.Errorf("expected 1 failed vsm search, got %f", got)
	}
	if count := testutil.CollectAndCount(m.searchDuration); count != 1 {
		t.Errorf("expected failed searches to skip the duration histogram, got %d series", count)
	}
}

func TestObserveEvaluation(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.ObserveEvaluation(time.Second, nil)
	m.ObserveEvaluation(time.Second, errors.New("no queries"))

	if got := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues("ok")); got != 1 {
		t.Errorf("expected 1 successful evaluation, got %f", got)
	}
	if got := testutil.ToFloat64(m.evaluationsTotal.WithLabelValues("error")); got != 1 {
		t.Errorf("expected 1 failed evaluation, got %f", got)
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics

	m.ObserveIndexBuild(1, 1, time.Second)
	m.ObserveSearch("bm25", 1, time.Second, nil)
	m.ObserveEvaluation(time.Second, nil)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })

	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ok", http.NoBody))
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", rr.Code)
	}
}

func TestMiddleware_RecordsRoutePattern(t *testing.T) {
	m := New(prometheus.NewRegistry())

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/documents/:documentId", func(c *gin.Context) { c.Status(http.StatusNotFound) })

	for _, path := range []string{"/documents/CISI_1", "/documents/CISI_2", "/missing"} {
		rr := httptest.NewRecorder()
		r.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, path, http.NoBody))
	}

	if got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "/documents/:documentId", "404")); got != 2 {
		t.Errorf("expected 2 requests on the route pattern, got %f", got)
	}
	if got := testutil.ToFloat64(m.httpRequestsTotal.WithLabelValues("GET", "unknown", "404")); got != 1 {
		t.Errorf("expected 1 request on an unknown route, got %f", got)
	}
}
