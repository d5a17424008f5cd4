package handler_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"labelscan/internal/domain"
	"labelscan/internal/handler"
	"labelscan/internal/inference"
)

func TestMapDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"quota", inference.NewQuotaError("gemini", errors.New("429"), 0), http.StatusTooManyRequests, "QUOTA_EXHAUSTED"},
		{"wrapped quota", fmt.Errorf("asking: %w", inference.NewQuotaError("claude", errors.New("429"), 5)), http.StatusTooManyRequests, "QUOTA_EXHAUSTED"},
		{"empty question", domain.ErrEmptyQuestion, http.StatusBadRequest, "EMPTY_QUESTION"},
		{"empty credential", domain.ErrEmptyCredential, http.StatusBadRequest, "EMPTY_CREDENTIAL"},
		{"credential conflict", domain.ErrCredentialConflict, http.StatusConflict, "CREDENTIAL_CONFLICT"},
		{"no files", domain.ErrNoFiles, http.StatusBadRequest, "NO_FILES"},
		{"too large", fmt.Errorf("a.jpg: %w", domain.ErrFileTooLarge), http.StatusRequestEntityTooLarge, "FILE_TOO_LARGE"},
		{"format", domain.ErrUnsupportedFormat, http.StatusBadRequest, "UNSUPPORTED_FORMAT"},
		{"batch failed", domain.ErrBatchFailed, http.StatusUnprocessableEntity, "BATCH_FAILED"},
		{"unknown", errors.New("disk on fire"), http.StatusInternalServerError, "INTERNAL_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, code, msg := handler.MapDomainError(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.code, code)
			assert.NotEmpty(t, msg)
		})
	}
}
