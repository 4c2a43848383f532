package handler

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"docquery/internal/app"
	"docquery/internal/extract"
	"docquery/internal/transport/http/response"
)

type UploadHandler struct {
	ingestService *app.IngestService
}

func NewUploadHandler(ingestService *app.IngestService) *UploadHandler {
	return &UploadHandler{ingestService: ingestService}
}

// Upload accepts a multipart form with "file" and runs the ingestion
// pipeline. The content-type whitelist is enforced here, before the core
// ever sees the payload.
func (h *UploadHandler) Upload(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "missing file")
		return
	}

	contentType := strings.TrimSpace(file.Header.Get("Content-Type"))
	if i := strings.Index(contentType, ";"); i >= 0 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	if !extract.Supported(contentType) {
		response.Error(c, http.StatusBadRequest, response.CodeUnsupportedType,
			"unsupported file type: "+contentType+" (supported: application/pdf, text/plain, text/csv, application/json)")
		return
	}

	f, err := file.Open()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to read file")
		return
	}

	result, err := h.ingestService.Ingest(c.Request.Context(), app.IngestInput{
		Data:        data,
		Filename:    file.Filename,
		ContentType: contentType,
	})
	if err != nil {
		switch {
		case errors.Is(err, app.ErrFileTooLarge):
			response.Error(c, http.StatusBadRequest, response.CodeFileTooLarge, err.Error())
		case errors.Is(err, app.ErrNoExtractableText):
			response.Error(c, http.StatusBadRequest, response.CodeExtractionFailed,
				"could not extract text from file, it may be empty or corrupted")
		case errors.Is(err, app.ErrDuplicateDocument):
			response.Error(c, http.StatusBadRequest, response.CodeDuplicateDocument, err.Error())
		case errors.Is(err, app.ErrTooManyChunks):
			response.Error(c, http.StatusBadRequest, response.CodeTooManyChunks, err.Error())
		default:
			response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "ingest failed: "+err.Error())
		}
		return
	}

	response.OK(c, gin.H{
		"filename":     file.Filename,
		"content_type": contentType,
		"size":         file.Size,
		"result":       result,
	})
}
