package server

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/async"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/export"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/pipeline"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/repository"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/rules"
)

// Service wires the HTTP handlers to persistence and the processing
// pipeline. It is also the worker queue's document processor.
type Service struct {
	pool      *pgxpool.Pool
	documents repository.DocumentRepository
	results   repository.ResultRepository
	rules     repository.RuleRepository
	analytics repository.AnalyticsRepository
	processor *pipeline.Processor
	store     *rules.Store
	exporter  *export.Service
	queue     *async.Queue
	logger    *slog.Logger
}

func NewService(
	pool *pgxpool.Pool,
	documents repository.DocumentRepository,
	results repository.ResultRepository,
	ruleRepo repository.RuleRepository,
	analytics repository.AnalyticsRepository,
	processor *pipeline.Processor,
	store *rules.Store,
	exporter *export.Service,
	logger *slog.Logger,
) *Service {
	return &Service{
		pool:      pool,
		documents: documents,
		results:   results,
		rules:     ruleRepo,
		analytics: analytics,
		processor: processor,
		store:     store,
		exporter:  exporter,
		logger:    logger,
	}
}

// SetQueue attaches the worker queue. The queue is built after the service
// because the service is its processor.
func (s *Service) SetQueue(q *async.Queue) { s.queue = q }

func (s *Service) Health(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return s.pool.Ping(ctx)
}

// ProcessDocument runs the pipeline for a stored document and persists the
// outcome. Invoked by the worker queue.
func (s *Service) ProcessDocument(ctx context.Context, documentID uuid.UUID) error {
	if err := s.documents.UpdateStatus(ctx, documentID, constants.DocStatusProcessing); err != nil {
		return err
	}

	raw, err := s.documents.GetRawInput(ctx, documentID)
	if err != nil {
		_ = s.documents.UpdateStatus(ctx, documentID, constants.DocStatusFailed)
		return err
	}

	result, err := s.processor.Process(ctx, documentID, *raw)
	if err != nil {
		// Invalid input is terminal for this document only.
		if errors.Is(err, common.ErrOCRInputInvalid) {
			s.logger.Warn("document rejected", "document_id", documentID, "error", err)
		} else {
			s.logger.Error("document processing failed", "document_id", documentID, "error", err)
		}
		_ = s.documents.UpdateStatus(ctx, documentID, constants.DocStatusFailed)
		return err
	}

	if err := s.results.Save(ctx, result); err != nil {
		_ = s.documents.UpdateStatus(ctx, documentID, constants.DocStatusFailed)
		return err
	}
	return s.documents.UpdateStatus(ctx, documentID, constants.DocStatusCompleted)
}

// Enqueue submits a document for asynchronous processing.
func (s *Service) Enqueue(ctx context.Context, documentID uuid.UUID) error {
	if s.queue == nil {
		return common.WrapError(common.ErrInternal, "worker queue not attached")
	}
	return s.queue.Enqueue(ctx, async.Job{DocumentID: documentID, SubmittedAt: time.Now()})
}

// Validate runs the pipeline synchronously without persisting anything.
func (s *Service) Validate(ctx context.Context, raw entity.RawOCRInput) (*entity.ProcessingResult, error) {
	return s.processor.Process(ctx, uuid.New(), raw)
}

// RefreshRules reloads the engine's rule snapshot after a CRUD change, so
// subsequent evaluations see the change without waiting for the ticker.
func (s *Service) RefreshRules(ctx context.Context) {
	if err := s.store.Refresh(ctx); err != nil {
		s.logger.Warn("rule snapshot refresh failed", "error", err)
	}
}
