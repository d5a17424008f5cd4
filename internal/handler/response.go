package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"labelscan/internal/domain"
	"labelscan/internal/inference"
	"labelscan/internal/middleware"
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

// RespondErrorWithData sends an error response that still carries a payload,
// e.g. the per-file failures of a batch that produced nothing.
func RespondErrorWithData(c *gin.Context, status int, code, msg string, data interface{}) {
	c.JSON(status, APIResponse{
		Success: false,
		Data:    data,
		Error:   &APIError{Code: code, Message: msg},
	})
}

// MapDomainError translates domain errors to HTTP status codes and error codes.
func MapDomainError(err error) (status int, code, msg string) {
	switch {
	case inference.IsQuotaExhausted(err):
		return http.StatusTooManyRequests, "QUOTA_EXHAUSTED", "API limit hit; try again later or rotate the API key"
	case errors.Is(err, domain.ErrEmptyQuestion):
		return http.StatusBadRequest, "EMPTY_QUESTION", "question must not be empty"
	case errors.Is(err, domain.ErrEmptyCredential):
		return http.StatusBadRequest, "EMPTY_CREDENTIAL", "API key must not be empty"
	case errors.Is(err, domain.ErrCredentialConflict):
		return http.StatusConflict, "CREDENTIAL_CONFLICT", "a credential file with the next index already exists"
	case errors.Is(err, domain.ErrNoFiles):
		return http.StatusBadRequest, "NO_FILES", "at least one file is required in the files field"
	case errors.Is(err, domain.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE", "file exceeds maximum allowed size"
	case errors.Is(err, domain.ErrUnsupportedFormat):
		return http.StatusBadRequest, "UNSUPPORTED_FORMAT", "unsupported format; allowed: json, zip, csv, xlsx"
	case errors.Is(err, domain.ErrBatchFailed):
		return http.StatusUnprocessableEntity, "BATCH_FAILED", "no files were processed due to errors or API limits"
	default:
		return http.StatusInternalServerError, "INTERNAL_ERROR", "an internal error occurred"
	}
}

// HandleError maps a domain error and sends the appropriate error response.
func HandleError(c *gin.Context, err error) {
	status, code, msg := MapDomainError(err)
	if status >= 500 {
		middleware.GetLogger(c).Error("internal error", zap.Error(err))
	}
	RespondError(c, status, code, msg)
}
