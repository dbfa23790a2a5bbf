package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/model"
)

// GetJobHandler handles requests to get job status by ID
func (api *API) GetJobHandler(c *gin.Context) {
	if api.jobs == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeJobsUnavailable, "Job management is not enabled")
		return
	}

	jobID := c.Param("jobId")
	job, err := api.jobs.GetJob(jobID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrJobNotFound) {
			SendJobNotFoundError(c, jobID)
			return
		}
		SendInternalError(c, "get job", err)
		return
	}

	c.JSON(http.StatusOK, job)
}

// ListJobsHandler lists jobs, filtered by the optional dataset and status query parameters
func (api *API) ListJobsHandler(c *gin.Context) {
	if api.jobs == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeJobsUnavailable, "Job management is not enabled")
		return
	}

	dataset := c.Query("dataset")
	statusParam := c.Query("status")

	var statusFilter *model.JobStatus
	if statusParam != "" {
		if result := ValidateJobStatus(statusParam); result.HasErrors() {
			SendValidationError(c, result)
			return
		}
		status := model.JobStatus(statusParam)
		statusFilter = &status
	}

	jobs := api.jobs.ListJobs(dataset, statusFilter)
	c.JSON(http.StatusOK, gin.H{
		"jobs":    jobs,
		"dataset": dataset,
		"total":   len(jobs),
	})
}

// GetJobMetricsHandler handles requests to get job performance metrics
func (api *API) GetJobMetricsHandler(c *gin.Context) {
	if api.jobs == nil {
		SendError(c, http.StatusNotImplemented, ErrorCodeJobsUnavailable, "Job management is not enabled")
		return
	}

	stats := api.jobs.Stats()
	c.JSON(http.StatusOK, gin.H{
		"metrics":          stats,
		"success_rate":     stats.SuccessRate,
		"current_workload": stats.JobsByStatus[model.JobStatusRunning],
	})
}
