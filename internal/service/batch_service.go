package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"labelscan/internal/archive"
	"labelscan/internal/config"
	"labelscan/internal/domain"
	"labelscan/internal/inference"
	"labelscan/internal/port"
)

// BatchInput is one batch request: uploads in submission order and the prompt
// shared by all of them.
type BatchInput struct {
	Prompt  string
	Uploads []domain.Upload
	// OnOutcome, when set, is called once per upload as soon as it finishes.
	// Calls are serialized.
	OnOutcome func(domain.FileOutcome)
}

// BatchService runs uploads through the vision model and packages the results.
type BatchService interface {
	Process(ctx context.Context, input BatchInput) (*domain.BatchOutcome, error)
}

type batchService struct {
	inference InferenceService
	decoder   port.ImageDecoder
	cfg       config.BatchConfig
	logger    *zap.Logger
}

// NewBatchService creates a new BatchService implementation.
func NewBatchService(
	inferenceSvc InferenceService,
	decoder port.ImageDecoder,
	cfg config.BatchConfig,
	logger *zap.Logger,
) BatchService {
	if cfg.Concurrency < 1 {
		cfg.Concurrency = 1
	}
	if cfg.EntryMarker == "" {
		cfg.EntryMarker = archive.DefaultMarker
	}
	return &batchService{
		inference: inferenceSvc,
		decoder:   decoder,
		cfg:       cfg,
		logger:    logger,
	}
}

func (s *batchService) Process(ctx context.Context, input BatchInput) (*domain.BatchOutcome, error) {
	if len(input.Uploads) == 0 {
		return nil, domain.ErrNoFiles
	}

	outcome := &domain.BatchOutcome{
		ID:        uuid.New(),
		Prompt:    input.Prompt,
		Results:   []domain.AnalysisResult{},
		Failures:  []domain.FileFailure{},
		StartedAt: time.Now(),
	}
	log := s.logger.With(zap.String("batch_id", outcome.ID.String()))
	log.Info("batchService.Process: starting",
		zap.Int("files", len(input.Uploads)), zap.Int("concurrency", s.cfg.Concurrency))

	// Slots keep submission order no matter which call finishes first.
	outcomes := make([]domain.FileOutcome, len(input.Uploads))
	var notifyMu sync.Mutex

	g := new(errgroup.Group)
	g.SetLimit(s.cfg.Concurrency)
	for i, upload := range input.Uploads {
		g.Go(func() error {
			fo := s.processFile(ctx, log, i, upload, input.Prompt)
			outcomes[i] = fo
			if input.OnOutcome != nil {
				notifyMu.Lock()
				input.OnOutcome(fo)
				notifyMu.Unlock()
			}
			return nil
		})
	}
	_ = g.Wait()

	w := archive.NewWriter(s.cfg.EntryMarker)
	for i := range outcomes {
		fo := &outcomes[i]
		if fo.Result != nil {
			if name := archive.EntryName(fo.Filename, s.cfg.EntryMarker); w.Contains(name) {
				log.Warn("batchService.Process: duplicate archive entry", zap.String("entry", name))
			}
			if _, err := w.Add(*fo.Result); err != nil {
				log.Error("batchService.Process: writing archive entry failed",
					zap.String("file", fo.Filename), zap.Error(err))
				fo.Failure = otherFailure(fo.Filename, err)
				fo.Result = nil
			}
		}

		if fo.Result != nil {
			outcome.Results = append(outcome.Results, *fo.Result)
		} else {
			outcome.Failures = append(outcome.Failures, *fo.Failure)
		}
	}

	if w.Len() > 0 {
		data, err := w.Close()
		if err != nil {
			return nil, fmt.Errorf("finalizing archive: %w", err)
		}
		outcome.Archive = data
		outcome.ArchiveName = s.cfg.ArchiveName
	} else {
		log.Warn("batchService.Process: no files were processed due to errors or quota limits")
	}
	outcome.FinishedAt = time.Now()

	log.Info("batchService.Process: finished",
		zap.Int("succeeded", len(outcome.Results)),
		zap.Int("failed", len(outcome.Failures)),
		zap.Duration("elapsed", outcome.FinishedAt.Sub(outcome.StartedAt)))
	return outcome, nil
}

// processFile runs one upload through decode and inference. It never returns
// an error: every failure becomes part of the outcome.
func (s *batchService) processFile(
	ctx context.Context,
	log *zap.Logger,
	index int,
	upload domain.Upload,
	prompt string,
) domain.FileOutcome {
	fo := domain.FileOutcome{Index: index, Filename: upload.Filename}

	img, err := s.decoder.Decode(upload.Filename, upload.Data)
	if err != nil {
		log.Warn("batchService.processFile: unexpected error", zap.String("file", upload.Filename), zap.Error(err))
		fo.Failure = otherFailure(upload.Filename, err)
		return fo
	}

	text, err := s.inference.AskVision(ctx, prompt, *img)
	if err != nil {
		if inference.IsQuotaExhausted(err) {
			log.Warn("batchService.processFile: API limit hit, skipped", zap.String("file", upload.Filename), zap.Error(err))
			fo.Failure = &domain.FileFailure{
				Filename: upload.Filename,
				Kind:     domain.FailureQuota,
				Message:  fmt.Sprintf("API limit hit while processing %s. Skipped.", upload.Filename),
				Cause:    err,
			}
			return fo
		}
		log.Warn("batchService.processFile: unexpected error", zap.String("file", upload.Filename), zap.Error(err))
		fo.Failure = otherFailure(upload.Filename, err)
		return fo
	}

	log.Debug("batchService.processFile: extracted text",
		zap.String("file", upload.Filename), zap.Int("width", img.Width), zap.Int("height", img.Height))
	fo.Result = &domain.AnalysisResult{
		Filename:      upload.Filename,
		ExtractedText: text,
	}
	return fo
}

func otherFailure(filename string, err error) *domain.FileFailure {
	return &domain.FileFailure{
		Filename: filename,
		Kind:     domain.FailureOther,
		Message:  fmt.Sprintf("Unexpected error with %s: %v", filename, err),
		Cause:    err,
	}
}
