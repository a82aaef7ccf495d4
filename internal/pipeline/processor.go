package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/controlled"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/errdetect"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/fields"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/normalize"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/rules"
)

// Processor runs one document end to end: normalize, extract, then the
// three independent analyses (rule checks, error detection, controlled
// classification) over the extracted field set. Each document is processed
// with no shared mutable state, so many may run concurrently.
type Processor struct {
	Logger     *slog.Logger
	Normalizer *normalize.Normalizer
	Extractor  *fields.Extractor
	Engine     *rules.Engine
	Detector   *errdetect.Detector
	Classifier *controlled.Classifier
	Rules      *rules.Store
}

func NewProcessor(
	logger *slog.Logger,
	normalizer *normalize.Normalizer,
	extractor *fields.Extractor,
	engine *rules.Engine,
	detector *errdetect.Detector,
	classifier *controlled.Classifier,
	ruleStore *rules.Store,
) *Processor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		Logger:     logger,
		Normalizer: normalizer,
		Extractor:  extractor,
		Engine:     engine,
		Detector:   detector,
		Classifier: classifier,
		Rules:      ruleStore,
	}
}

// Process rejects only structurally invalid input (missing text); every
// other problem degrades into the structured result. The rule snapshot is
// taken once and used for the whole evaluation.
func (p *Processor) Process(ctx context.Context, documentID uuid.UUID, raw entity.RawOCRInput) (*entity.ProcessingResult, error) {
	start := time.Now()

	doc, err := p.Normalizer.Normalize(ctx, raw)
	if err != nil {
		p.Logger.Error("pipeline.normalize.failed", "document_id", documentID, "error", err)
		return nil, fmt.Errorf("normalize: %w", err)
	}
	p.Logger.Info("pipeline.normalize.ok",
		"document_id", documentID,
		"language", doc.OriginalLanguage,
		"translated", doc.WasTranslated,
		"warnings", len(doc.Warnings),
	)

	extracted := p.Extractor.Extract(doc, raw.TokenConfidences)

	snapshot := p.Rules.Snapshot()
	checks := p.Engine.Evaluate(extracted, snapshot)
	detections := p.Detector.Detect(extracted)
	isControlled := p.Classifier.Classify(extracted)

	result := &entity.ProcessingResult{
		ID:                  uuid.New(),
		DocumentID:          documentID,
		Normalized:          doc,
		Fields:              extracted,
		Checks:              checks,
		Detections:          detections,
		ControlledSubstance: isControlled,
		RulesVersion:        snapshot.Version,
		Elapsed:             time.Since(start),
		ProcessedAt:         time.Now().UTC(),
	}

	p.Logger.Info("pipeline.process.ok",
		"document_id", documentID,
		"result_id", result.ID,
		"checks", len(checks),
		"detections", len(detections),
		"controlled", isControlled,
		"rules_version", snapshot.Version,
		"elapsed_ms", result.Elapsed.Milliseconds(),
	)
	return result, nil
}
