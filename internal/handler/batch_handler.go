package handler

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"labelscan/internal/domain"
	"labelscan/internal/export"
	"labelscan/internal/inference"
	"labelscan/internal/service"
)

const (
	contentTypeZip  = "application/zip"
	contentTypeCSV  = "text/csv; charset=utf-8"
	contentTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// BatchHandler handles multi-image label extraction.
type BatchHandler struct {
	batches        service.BatchService
	maxUploadBytes int64
}

// NewBatchHandler creates a new BatchHandler. maxUploadBytes <= 0 disables the
// per-file size check.
func NewBatchHandler(batchSvc service.BatchService, maxUploadBytes int64) *BatchHandler {
	return &BatchHandler{batches: batchSvc, maxUploadBytes: maxUploadBytes}
}

// BatchResponse is the JSON rendering of a batch outcome.
type BatchResponse struct {
	ID            uuid.UUID               `json:"id"`
	Results       []domain.AnalysisResult `json:"results"`
	Failures      []domain.FileFailure    `json:"failures"`
	QuotaFailures []string                `json:"quota_failures"`
	OtherFailures []string                `json:"other_failures"`
	ArchiveName   string                  `json:"archive_name,omitempty"`
	Archive       []byte                  `json:"archive,omitempty"`
}

func newBatchResponse(outcome *domain.BatchOutcome) BatchResponse {
	return BatchResponse{
		ID:            outcome.ID,
		Results:       outcome.Results,
		Failures:      outcome.Failures,
		QuotaFailures: outcome.QuotaFailures(),
		OtherFailures: outcome.OtherFailures(),
		ArchiveName:   outcome.ArchiveName,
		Archive:       outcome.Archive,
	}
}

// Create handles POST /api/v1/batches
//
// Form fields: files (repeated) and prompt. A missing prompt field uses the
// default prompt; a present but blank one sends the images alone.
// Query: format=json|zip|csv|xlsx (default json).
func (h *BatchHandler) Create(c *gin.Context) {
	format, err := domain.ParseExportFormat(c.Query("format"))
	if err != nil {
		HandleError(c, err)
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		RespondError(c, http.StatusBadRequest, "INVALID_REQUEST", "request must be multipart/form-data")
		return
	}

	uploads, err := h.readUploads(form.File["files"])
	if err != nil {
		HandleError(c, err)
		return
	}

	prompt, ok := c.GetPostForm("prompt")
	if !ok {
		prompt = inference.DefaultPrompt
	}

	outcome, err := h.batches.Process(c.Request.Context(), service.BatchInput{
		Prompt:  prompt,
		Uploads: uploads,
	})
	if err != nil {
		HandleError(c, err)
		return
	}

	switch format {
	case domain.ExportZip:
		h.respondZip(c, outcome)
	case domain.ExportCSV:
		h.respondFile(c, outcome, "csv", contentTypeCSV, export.WriteCSV)
	case domain.ExportXLSX:
		h.respondFile(c, outcome, "xlsx", contentTypeXLSX, export.WriteXLSX)
	default:
		RespondOK(c, newBatchResponse(outcome))
	}
}

func (h *BatchHandler) readUploads(headers []*multipart.FileHeader) ([]domain.Upload, error) {
	if len(headers) == 0 {
		return nil, domain.ErrNoFiles
	}

	uploads := make([]domain.Upload, 0, len(headers))
	for _, fh := range headers {
		if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
			return nil, fmt.Errorf("%s: %w", fh.Filename, domain.ErrFileTooLarge)
		}
		data, err := readFileHeader(fh)
		if err != nil {
			return nil, fmt.Errorf("reading upload %s: %w", fh.Filename, err)
		}
		uploads = append(uploads, domain.Upload{Filename: fh.Filename, Data: data})
	}
	return uploads, nil
}

func readFileHeader(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return io.ReadAll(f)
}

func (h *BatchHandler) respondZip(c *gin.Context, outcome *domain.BatchOutcome) {
	if !outcome.HasArchive() {
		status, code, msg := MapDomainError(domain.ErrBatchFailed)
		RespondErrorWithData(c, status, code, msg, newBatchResponse(outcome))
		return
	}
	attachment(c, outcome.ArchiveName)
	c.Data(http.StatusOK, contentTypeZip, outcome.Archive)
}

func (h *BatchHandler) respondFile(
	c *gin.Context,
	outcome *domain.BatchOutcome,
	ext, contentType string,
	write func(io.Writer, *domain.BatchOutcome) error,
) {
	var buf bytes.Buffer
	if err := write(&buf, outcome); err != nil {
		HandleError(c, fmt.Errorf("exporting %s: %w", ext, err))
		return
	}
	base := strings.TrimSuffix(outcome.ArchiveName, ".zip")
	if base == "" {
		base = "ocr_results"
	}
	attachment(c, export.BuildFilename(base, ext))
	c.Data(http.StatusOK, contentType, buf.Bytes())
}

func attachment(c *gin.Context, filename string) {
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
}
