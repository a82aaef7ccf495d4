package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/controlled"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/errdetect"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/fields"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/normalize"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/refdata"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/rules"
)

const sampleLabel = "Drug Name: AMOXICILLIN 500mg\n" +
	"Batch No: AB-2023-001234\n" +
	"Exp. Date: 08/2025\n" +
	"Manufactured by: PharmaCorp Inc."

type failingTranslator struct{}

func (failingTranslator) TranslateToEnglish(context.Context, string, string) (string, error) {
	return "", errors.New("upstream unavailable")
}

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	ref := refdata.Defaults()
	store := rules.NewStore(rules.NewFileSource(""), nil)
	require.NoError(t, store.Refresh(context.Background()))

	return NewProcessor(
		nil,
		normalize.NewNormalizer(failingTranslator{}, nil),
		fields.NewExtractor(ref, 0.5, nil),
		rules.NewEngine(nil),
		errdetect.NewDetector(errdetect.Config{}, ref, nil),
		controlled.NewClassifier(ref, 0.5, nil),
		store,
	)
}

func TestProcessCleanLabel(t *testing.T) {
	p := newTestProcessor(t)
	docID := uuid.New()

	result, err := p.Process(context.Background(), docID, entity.RawOCRInput{Text: sampleLabel})
	require.NoError(t, err)

	assert.Equal(t, docID, result.DocumentID)
	assert.NotEqual(t, uuid.Nil, result.ID)
	assert.Equal(t, uint64(1), result.RulesVersion)
	assert.False(t, result.ControlledSubstance)
	assert.Empty(t, result.Detections)
	assert.False(t, result.ProcessedAt.IsZero())

	require.Len(t, result.Checks, len(rules.DefaultRules()))
	for _, c := range result.Checks {
		assert.Equal(t, constants.CheckPassed, c.Status, c.RuleName)
	}

	drug := result.Fields.Get(constants.FieldDrugName)
	require.True(t, drug.Found())
	assert.Equal(t, "AMOXICILLIN", drug.Text())
}

func TestProcessControlledSubstance(t *testing.T) {
	p := newTestProcessor(t)
	raw := entity.RawOCRInput{Text: "Drug Name: OXYCODONE 10mg\nBatch No: CD-2024-567890\nExp. Date: 01/2026"}

	result, err := p.Process(context.Background(), uuid.New(), raw)
	require.NoError(t, err)
	assert.True(t, result.ControlledSubstance)
}

func TestProcessEmptyTextIsFatal(t *testing.T) {
	p := newTestProcessor(t)

	_, err := p.Process(context.Background(), uuid.New(), entity.RawOCRInput{Text: "   \n\t"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, common.ErrOCRInputInvalid))
}

func TestProcessTranslationFailureDegrades(t *testing.T) {
	p := newTestProcessor(t)
	raw := entity.RawOCRInput{
		Text:             "Nombre del medicamento: AMOXICILLIN 500mg\nLote: AB-2023-001234\nFecha de caducidad: 08/2025",
		DetectedLanguage: "es",
	}

	result, err := p.Process(context.Background(), uuid.New(), raw)
	require.NoError(t, err, "translator outage must not fail the document")

	require.NotEmpty(t, result.Normalized.Warnings)
	assert.False(t, result.Normalized.WasTranslated)
	assert.Equal(t, "es", result.Normalized.OriginalLanguage)
}

func TestProcessResultsAreIndependent(t *testing.T) {
	p := newTestProcessor(t)
	raw := entity.RawOCRInput{Text: sampleLabel}

	first, err := p.Process(context.Background(), uuid.New(), raw)
	require.NoError(t, err)
	second, err := p.Process(context.Background(), uuid.New(), raw)
	require.NoError(t, err)

	assert.NotEqual(t, first.ID, second.ID)
	assert.Equal(t, first.Fields, second.Fields)
	assert.Equal(t, len(first.Checks), len(second.Checks))
}
