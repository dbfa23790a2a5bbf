package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	internalErrors "github.com/gcbaptista/go-ir-engine/internal/errors"
	"github.com/gcbaptista/go-ir-engine/model"
	"github.com/gcbaptista/go-ir-engine/services"
)

// SearchRequest defines the structure for search queries.
type SearchRequest struct {
	Query    string `json:"query"`
	Method   string `json:"method,omitempty"`   // boolean, vsm or bm25; server default when empty
	Operator string `json:"operator,omitempty"` // AND, OR or NOT; boolean retrieval only
	TopK     *int   `json:"top_k,omitempty"`
}

// SearchHandler runs a query through the selected retrieval model.
// Request Body: SearchRequest
func (api *API) SearchHandler(c *gin.Context) {
	startTime := time.Now()

	var req SearchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, "Invalid request body: "+err.Error())
		return
	}

	if result := ValidateSearchRequest(&req, api.maxTopK); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	results, err := api.engine.SearchWithHits(services.SearchQuery{
		QueryString: req.Query,
		Method:      req.Method,
		Operator:    req.Operator,
		TopK:        req.TopK,
	})
	if err != nil {
		switch {
		case errors.Is(err, internalErrors.ErrUnknownMethod), errors.Is(err, internalErrors.ErrUnknownOperator):
			SendError(c, http.StatusBadRequest, ErrorCodeInvalidQuery, err.Error())
		case errors.Is(err, internalErrors.ErrInvalidInput):
			SendInputError(c, err)
		default:
			SendSearchError(c, err)
		}
		return
	}

	api.analytics.Track(model.SearchEvent{
		Query:        req.Query,
		Method:       results.Method,
		ResponseTime: time.Since(startTime),
		ResultCount:  results.Total,
	})
	requestLogger(c, api.logger).Debug("search served",
		zap.String("query_id", results.QueryId),
		zap.String("method", results.Method),
		zap.Int("hits", results.Total),
	)

	c.JSON(http.StatusOK, results)
}
