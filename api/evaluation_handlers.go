package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/gcbaptista/go-ir-engine/internal/evaluation"
	"github.com/gcbaptista/go-ir-engine/internal/jobs"
	"github.com/gcbaptista/go-ir-engine/internal/search"
	"github.com/gcbaptista/go-ir-engine/model"
)

// EvaluationRequest selects the methods and cut-off of an evaluation run.
type EvaluationRequest struct {
	TopN    *int     `json:"top_n,omitempty"`   // defaults to 10
	Methods []string `json:"methods,omitempty"` // defaults to every method
}

// StartEvaluationHandler starts an asynchronous evaluation of the judged test queries.
// Request Body: EvaluationRequest (optional)
func (api *API) StartEvaluationHandler(c *gin.Context) {
	if api.jobs == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeJobsUnavailable, "Job management is not enabled")
		return
	}
	if len(api.testQueries) == 0 {
		SendError(c, http.StatusConflict, ErrorCodeNoTestQueries, "No judged test queries are loaded for corpus '"+api.engine.Stats().Corpus+"'")
		return
	}

	var req EvaluationRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			SendInvalidJSONError(c, err)
			return
		}
	}

	result := ValidateEvaluationRequest(&req, api.maxTopK)
	if result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	topN := evaluation.DefaultTopN
	if req.TopN != nil {
		topN = *req.TopN
	}
	var methods []search.Method
	for _, name := range req.Methods {
		method, _ := search.ParseMethod(name)
		methods = append(methods, method)
	}
	if methods == nil {
		methods = search.Methods
	}

	dataset := api.engine.Stats().Corpus
	methodNames := make([]string, len(methods))
	for i, m := range methods {
		methodNames[i] = string(m)
	}
	jobID := api.jobs.CreateJob(model.JobTypeEvaluation, dataset, map[string]string{
		"top_n":   strconv.Itoa(topN),
		"methods": strings.Join(methodNames, ","),
		"queries": strconv.Itoa(len(api.testQueries)),
	})

	queries := api.testQueries
	err := api.jobs.Run(jobID, func(ctx context.Context, progress jobs.ProgressFunc) (interface{}, error) {
		evaluator, err := evaluation.NewEvaluator(api.engine, evaluation.Config{
			Workers: api.evaluationWorkers,
			ProgressCallback: func(done, total int) {
				progress(done, total, "evaluating queries")
			},
		}, api.logger, api.metrics)
		if err != nil {
			return nil, err
		}
		return evaluator.EvaluateAll(ctx, queries, methods, topN)
	})
	if err != nil {
		SendJobExecutionError(c, "evaluation", err)
		return
	}

	requestLogger(c, api.logger).Info("evaluation started", zap.String("job_id", jobID), zap.String("dataset", dataset))
	c.JSON(http.StatusAccepted, gin.H{
		"status":  "accepted",
		"message": "Evaluation started for '" + dataset + "'",
		"job_id":  jobID,
	})
}
