package response

import "github.com/gin-gonic/gin"

const (
	CodeOK                 = 0
	CodeBadRequest         = 40000
	CodeUnauthorized       = 40100
	CodeInternalServer     = 50000
	CodeFileTooLarge       = 40001
	CodeUnsupportedType    = 40002
	CodeDuplicateDocument  = 40003
	CodeExtractionFailed   = 40004
	CodeTooManyChunks      = 40005
	CodeInvalidCredentials = 40101
	CodeDocumentNotFound   = 40401
	CodeEmbeddingFailed    = 50201
)

type APIResponse struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func OK(c *gin.Context, data interface{}) {
	c.JSON(200, APIResponse{
		Code:    CodeOK,
		Message: "ok",
		Data:    data,
	})
}

func Error(c *gin.Context, httpStatus, code int, message string) {
	c.JSON(httpStatus, APIResponse{
		Code:    code,
		Message: message,
	})
}
