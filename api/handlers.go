package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-ir-engine/internal/analytics"
	"github.com/gcbaptista/go-ir-engine/internal/corpus"
	"github.com/gcbaptista/go-ir-engine/internal/jobs"
	"github.com/gcbaptista/go-ir-engine/internal/logging"
	"github.com/gcbaptista/go-ir-engine/internal/metrics"
	"github.com/gcbaptista/go-ir-engine/services"
)

// DefaultMaxBodySize caps request bodies at 1 MiB.
const DefaultMaxBodySize int64 = 1 << 20

// Options carries the optional collaborators of the API.
type Options struct {
	Jobs              *jobs.Manager      // required for evaluation runs
	Analytics         *analytics.Service // created from the engine when nil
	TestQueries       []corpus.TestQuery // judged queries for evaluation runs
	EvaluationWorkers int
	MaxTopK           int
	MaxBodySize       int64
	Logger            *zap.Logger
	Metrics           *metrics.Metrics
	Gatherer          prometheus.Gatherer // serves /metrics when set
}

// API holds dependencies for API handlers, primarily the search engine.
type API struct {
	engine            services.SearchEngine
	jobs              *jobs.Manager
	analytics         *analytics.Service
	testQueries       []corpus.TestQuery
	evaluationWorkers int
	maxTopK           int
	logger            *zap.Logger
	metrics           *metrics.Metrics
}

// NewAPI creates a new API handler structure.
func NewAPI(engine services.SearchEngine, opts Options) *API {
	if opts.Analytics == nil {
		opts.Analytics = analytics.NewService(analytics.DefaultMaxEvents, engine)
	}
	if opts.MaxTopK <= 0 {
		opts.MaxTopK = 1000
	}
	return &API{
		engine:            engine,
		jobs:              opts.Jobs,
		analytics:         opts.Analytics,
		testQueries:       opts.TestQueries,
		evaluationWorkers: opts.EvaluationWorkers,
		maxTopK:           opts.MaxTopK,
		logger:            logging.OrNop(opts.Logger).Named("api"),
		metrics:           opts.Metrics,
	}
}

// SetupRoutes installs the middleware chain and defines all the API routes.
func SetupRoutes(router *gin.Engine, engine services.SearchEngine, opts Options) *API {
	apiHandler := NewAPI(engine, opts)

	maxBodySize := opts.MaxBodySize
	if maxBodySize <= 0 {
		maxBodySize = DefaultMaxBodySize
	}
	router.Use(
		RequestIDMiddleware(),
		LoggingMiddleware(apiHandler.logger),
		opts.Metrics.Middleware(),
		RequestSizeLimitMiddleware(maxBodySize),
		CORSMiddleware(),
	)

	// Health and index overview
	router.GET("/health", apiHandler.HealthCheckHandler)
	router.GET("/stats", apiHandler.StatsHandler)

	// Retrieval
	router.POST("/search", apiHandler.SearchHandler)

	// Document IDs may contain slashes (Reuters file IDs such as "test/14826")
	router.GET("/documents/*documentId", apiHandler.GetDocumentHandler)

	// Evaluation runs are asynchronous jobs
	router.POST("/evaluations", apiHandler.StartEvaluationHandler)

	// Job management routes
	jobRoutes := router.Group("/jobs")
	{
		jobRoutes.GET("", apiHandler.ListJobsHandler)              // List jobs, optionally by dataset and status
		jobRoutes.GET("/:jobId", apiHandler.GetJobHandler)         // Get job status by ID
		jobRoutes.GET("/metrics", apiHandler.GetJobMetricsHandler) // Get job performance metrics
	}

	router.GET("/analytics", apiHandler.GetAnalyticsHandler)

	if opts.Gatherer != nil {
		router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(opts.Gatherer, promhttp.HandlerOpts{})))
	}

	return apiHandler
}

// HealthCheckHandler provides a simple health check endpoint
func (api *API) HealthCheckHandler(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   "go-ir-engine",
		"corpus":    api.engine.Stats().Corpus,
		"timestamp": time.Now().Unix(),
	})
}

// StatsHandler returns the statistics of the built index.
func (api *API) StatsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, api.engine.Stats())
}
