package domain

import (
	"time"

	"github.com/google/uuid"
)

// Upload is one named image handed to the batch processor.
type Upload struct {
	Filename string
	Data     []byte
}

// AnalysisResult is the text extracted from one successfully processed upload.
// It is the exact document stored in the archive.
type AnalysisResult struct {
	Filename      string `json:"filename"`
	ExtractedText string `json:"extracted_text"`
}

// FileFailure records an upload that produced no result.
type FileFailure struct {
	Filename string      `json:"filename"`
	Kind     FailureKind `json:"kind"`
	Message  string      `json:"message"`
	Cause    error       `json:"-"`
}

// FileOutcome is the result of processing one upload: exactly one of Result or Failure is set.
type FileOutcome struct {
	Index    int
	Filename string
	Result   *AnalysisResult
	Failure  *FileFailure
}

// Succeeded reports whether the upload produced a result.
func (o *FileOutcome) Succeeded() bool {
	return o.Result != nil
}

// BatchOutcome aggregates one batch run. Results and Failures keep submission order.
// Archive is nil when no upload succeeded.
type BatchOutcome struct {
	ID          uuid.UUID        `json:"id"`
	Prompt      string           `json:"-"`
	Results     []AnalysisResult `json:"results"`
	Failures    []FileFailure    `json:"failures"`
	Archive     []byte           `json:"archive,omitempty"`
	ArchiveName string           `json:"archive_name,omitempty"`
	StartedAt   time.Time        `json:"started_at"`
	FinishedAt  time.Time        `json:"finished_at"`
}

// HasArchive reports whether the batch produced a downloadable archive.
func (b *BatchOutcome) HasArchive() bool {
	return len(b.Results) > 0 && b.Archive != nil
}

// QuotaFailures returns the filenames that failed on quota exhaustion.
func (b *BatchOutcome) QuotaFailures() []string {
	return b.failedWith(FailureQuota)
}

// OtherFailures returns the filenames that failed for any other reason.
func (b *BatchOutcome) OtherFailures() []string {
	return b.failedWith(FailureOther)
}

// FailedFilenames returns every failed filename in submission order.
func (b *BatchOutcome) FailedFilenames() []string {
	names := make([]string, 0, len(b.Failures))
	for _, f := range b.Failures {
		names = append(names, f.Filename)
	}
	return names
}

func (b *BatchOutcome) failedWith(kind FailureKind) []string {
	var names []string
	for _, f := range b.Failures {
		if f.Kind == kind {
			names = append(names, f.Filename)
		}
	}
	return names
}
