package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	internalErrors "github.com/gcbaptista/go-ir-engine/internal/errors"
)

// GetDocumentHandler returns a raw document by ID.
func (api *API) GetDocumentHandler(c *gin.Context) {
	// The catch-all parameter keeps its leading slash
	documentID := strings.TrimPrefix(c.Param("documentId"), "/")

	if result := ValidateDocumentID(documentID); result.HasErrors() {
		SendValidationError(c, result)
		return
	}

	doc, err := api.engine.Document(documentID)
	if err != nil {
		if errors.Is(err, internalErrors.ErrDocumentNotFound) {
			SendDocumentNotFoundError(c, documentID)
			return
		}
		SendInternalError(c, "get document", err)
		return
	}

	c.JSON(http.StatusOK, doc)
}
