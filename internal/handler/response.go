package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"glrfill/internal/domain"
	"glrfill/internal/middleware"
)

// APIResponse is the standard envelope for all API responses.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
}

// APIError holds error details in the response.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// RespondOK sends a 200 success response.
func RespondOK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// RespondError sends an error response with the given status code.
func RespondError(c *gin.Context, status int, code, msg string) {
	c.JSON(status, APIResponse{
		Success: false,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case errors.Is(err, domain.ErrTemplateRequired):
		return http.StatusBadRequest, "TEMPLATE_REQUIRED", "please upload a DOCX template"
	case errors.Is(err, domain.ErrReportsRequired):
		return http.StatusBadRequest, "REPORTS_REQUIRED", "please upload at least one PDF photo report"
	case errors.Is(err, domain.ErrUnsupportedFileType):
		return http.StatusBadRequest, "UNSUPPORTED_FILE_TYPE", "unsupported file type; template must be .docx, reports must be .pdf"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrExtractionFailed):
		return http.StatusUnprocessableEntity, "EXTRACTION_FAILED", "could not read text from an uploaded file"
	case errors.Is(err, domain.ErrInvalidLLMResponse):
		return http.StatusBadGateway, "INVALID_LLM_RESPONSE", "the language model did not return a valid field mapping"
	case errors.Is(err, domain.ErrLLMRequestFailed):
		return http.StatusBadGateway, "LLM_REQUEST_FAILED", "the language model request failed"
	case errors.Is(err, domain.ErrLLMNotConfigured):
		return http.StatusInternalServerError, "LLM_NOT_CONFIGURED", "no API key is configured for the language model"
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, "INVALID_REQUEST", "request body is malformed"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported export format; allowed: csv, xlsx"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
// Server-side failures are logged with the request id.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		slog.ErrorContext(c.Request.Context(), "request failed",
			"request_id", middleware.GetRequestID(c),
			"code", code,
			"error", err,
		)
	}
	RespondError(c, status, code, msg)
}
