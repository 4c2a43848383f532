package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"docquery/internal/app"
	"docquery/internal/transport/http/response"
)

type SearchHandler struct {
	retrievalService *app.RetrievalService
}

func NewSearchHandler(retrievalService *app.RetrievalService) *SearchHandler {
	return &SearchHandler{retrievalService: retrievalService}
}

func (h *SearchHandler) Search(c *gin.Context) {
	query := c.Query("query")
	if query == "" {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "query parameter is required")
		return
	}
	limit := parseIntQuery(c, "limit", 0)

	result, err := h.retrievalService.Search(c.Request.Context(), query, limit)
	if err != nil {
		switch {
		case errors.Is(err, app.ErrInvalidInput):
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
		case errors.Is(err, app.ErrQueryEmbedding):
			response.Error(c, http.StatusBadGateway, response.CodeEmbeddingFailed, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "search failed")
		}
		return
	}
	response.OK(c, result)
}

// Context returns the concatenated top-matching chunk contents for the
// query. This mirrors what the response generator consumes; the answer is
// always a string, possibly empty.
func (h *SearchHandler) Context(c *gin.Context) {
	query := c.Query("query")
	contextText := h.retrievalService.RetrieveContext(c.Request.Context(), query)
	response.OK(c, gin.H{
		"query":   query,
		"context": contextText,
	})
}
