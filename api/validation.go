// Package api provides the HTTP interface of the engine and validation utilities for
// API request handling.
package api

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/gcbaptista/go-ir-engine/internal/search"
	"github.com/gcbaptista/go-ir-engine/model"
)

// ValidationError represents a validation error with field context
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationResult holds the result of validation operations
type ValidationResult struct {
	Valid  bool              `json:"valid"`
	Errors []ValidationError `json:"errors,omitempty"`
}

// AddError adds a validation error to the result
func (vr *ValidationResult) AddError(field, message string) {
	vr.Valid = false
	vr.Errors = append(vr.Errors, ValidationError{
		Field:   field,
		Message: message,
	})
}

// HasErrors returns true if there are validation errors
func (vr *ValidationResult) HasErrors() bool {
	return len(vr.Errors) > 0
}

// ValidateSearchRequest checks the numeric options of a search request.
// Method and operator names are resolved by the engine.
func ValidateSearchRequest(req *SearchRequest, maxTopK int) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if req.TopK != nil {
		switch {
		case *req.TopK < 0:
			result.AddError("top_k", "top_k must be non-negative")
		case *req.TopK > maxTopK:
			result.AddError("top_k", fmt.Sprintf("top_k cannot exceed %d", maxTopK))
		}
	}

	return result
}

// ValidateDocumentID validates a document ID
func ValidateDocumentID(documentID string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if documentID == "" {
		result.AddError("documentID", "Document ID is required")
		return result
	}

	if strings.TrimSpace(documentID) != documentID {
		result.AddError("documentID", "Document ID cannot have leading or trailing whitespace")
		return result
	}

	return result
}

// ValidateEvaluationRequest validates the cut-off and method names of an evaluation request
func ValidateEvaluationRequest(req *EvaluationRequest, maxTopN int) *ValidationResult {
	result := &ValidationResult{Valid: true}

	if req.TopN != nil {
		switch {
		case *req.TopN <= 0:
			result.AddError("top_n", "top_n must be positive")
		case *req.TopN > maxTopN:
			result.AddError("top_n", fmt.Sprintf("top_n cannot exceed %d", maxTopN))
		}
	}

	seen := make(map[search.Method]bool, len(req.Methods))
	for i, name := range req.Methods {
		method, err := search.ParseMethod(name)
		if err != nil {
			result.AddError(fmt.Sprintf("methods[%d]", i), err.Error())
			continue
		}
		if seen[method] {
			result.AddError(fmt.Sprintf("methods[%d]", i), "Method '"+string(method)+"' is listed more than once")
			continue
		}
		seen[method] = true
	}

	return result
}

// ValidateJobStatus validates a job status filter
func ValidateJobStatus(status string) *ValidationResult {
	result := &ValidationResult{Valid: true}

	switch model.JobStatus(status) {
	case model.JobStatusPending, model.JobStatusRunning, model.JobStatusCompleted, model.JobStatusFailed:
	default:
		result.AddError("status", "Status must be one of pending, running, completed or failed")
	}

	return result
}

// SendValidationError sends a standardized validation error response
func SendValidationError(c *gin.Context, result *ValidationResult) {
	SendStructuredValidationError(c, result)
}
