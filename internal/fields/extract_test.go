package fields

import (
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/refdata"
)

const sampleLabel = "Drug Name: AMOXICILLIN 500mg\n" +
	"Batch No: AB-2023-001234\n" +
	"Exp. Date: 08/2025\n" +
	"Manufactured by: PharmaCorp Inc."

func newTestExtractor(t *testing.T) *Extractor {
	t.Helper()
	return NewExtractor(refdata.Defaults(), 0.5, nil)
}

func TestExtractReturnsAllCanonicalKeys(t *testing.T) {
	out := newTestExtractor(t).Extract(entity.NormalizedDocument{NormalizedText: "nothing useful here"}, nil)

	require.Len(t, out, len(constants.CanonicalFields))
	for _, name := range constants.CanonicalFields {
		fv, ok := out[name]
		require.True(t, ok, "missing key %s", name)
		assert.False(t, fv.Found())
		assert.Zero(t, fv.Confidence)
		assert.Nil(t, fv.SourceSpan)
	}
}

func TestExtractSampleLabel(t *testing.T) {
	out := newTestExtractor(t).Extract(entity.NormalizedDocument{NormalizedText: sampleLabel}, nil)

	drug := out.Get(constants.FieldDrugName)
	require.True(t, drug.Found())
	assert.Equal(t, "AMOXICILLIN", drug.Text())
	assert.Equal(t, StrategyDictionary, drug.Strategy)

	batch := out.Get(constants.FieldBatchNumber)
	require.True(t, batch.Found())
	assert.Equal(t, "AB-2023-001234", batch.Text())
	assert.Equal(t, StrategyAnchor, batch.Strategy)

	expiry := out.Get(constants.FieldExpiryDate)
	require.True(t, expiry.Found())
	assert.Equal(t, "08/2025", expiry.Text())

	mfr := out.Get(constants.FieldManufacturer)
	require.True(t, mfr.Found())
	assert.Equal(t, "PharmaCorp Inc.", mfr.Text())
}

func TestExtractSourceSpansPointAtValues(t *testing.T) {
	out := newTestExtractor(t).Extract(entity.NormalizedDocument{NormalizedText: sampleLabel}, nil)

	for _, name := range constants.CanonicalFields {
		fv := out.Get(name)
		require.True(t, fv.Found(), "field %s", name)
		require.NotNil(t, fv.SourceSpan)
		assert.Equal(t, fv.Text(), sampleLabel[fv.SourceSpan.Start:fv.SourceSpan.End], "span for %s", name)
	}
}

func TestExtractBatchWithoutLabelUsesPattern(t *testing.T) {
	out := newTestExtractor(t).Extract(entity.NormalizedDocument{NormalizedText: "somewhere in text CD-2024-567890 appears"}, nil)

	batch := out.Get(constants.FieldBatchNumber)
	require.True(t, batch.Found())
	assert.Equal(t, "CD-2024-567890", batch.Text())
	assert.Equal(t, StrategyPattern, batch.Strategy)
}

func TestExtractFuzzyDrugName(t *testing.T) {
	out := newTestExtractor(t).Extract(entity.NormalizedDocument{NormalizedText: "Drug Name: AMOXICILIN 250mg"}, nil)

	drug := out.Get(constants.FieldDrugName)
	require.True(t, drug.Found())
	assert.Equal(t, StrategyFuzzy, drug.Strategy)
	assert.Equal(t, "AMOXICILIN 250mg", drug.Text())
}

func TestExtractExactBeatsFuzzyOnConfidence(t *testing.T) {
	e := newTestExtractor(t)
	exact := e.Extract(entity.NormalizedDocument{NormalizedText: "Drug Name: AMOXICILLIN"}, nil)
	fuzzy := e.Extract(entity.NormalizedDocument{NormalizedText: "Drug Name: AMOXICILIN"}, nil)

	assert.Greater(t, exact.Get(constants.FieldDrugName).Confidence, fuzzy.Get(constants.FieldDrugName).Confidence)
}

func TestExtractTieBreaksOnEarliestSpan(t *testing.T) {
	text := "ASPIRIN compared against ASPIRIN again"
	out := newTestExtractor(t).Extract(entity.NormalizedDocument{NormalizedText: text}, nil)

	drug := out.Get(constants.FieldDrugName)
	require.True(t, drug.Found())
	require.NotNil(t, drug.SourceSpan)
	assert.Equal(t, 0, drug.SourceSpan.Start)
}

func TestExtractMixedCaseDictionaryHit(t *testing.T) {
	out := newTestExtractor(t).Extract(entity.NormalizedDocument{NormalizedText: "contains aspirin 100mg"}, nil)

	drug := out.Get(constants.FieldDrugName)
	require.True(t, drug.Found())
	assert.Equal(t, "aspirin", drug.Text())
	assert.Equal(t, StrategyDictionary, drug.Strategy)
}

func TestExtractSpansSurviveMultibyteText(t *testing.T) {
	// Runes whose case mapping changes byte length must not shift spans.
	for _, text := range []string{
		"ıııı ASPIRIN 100mg",
		"ɑɑɑɑɑɑɑɑ ASPIRIN",
		"Ürün: ASPIRIN 100mg",
	} {
		out := newTestExtractor(t).Extract(entity.NormalizedDocument{NormalizedText: text}, nil)

		drug := out.Get(constants.FieldDrugName)
		require.True(t, drug.Found(), text)
		assert.Equal(t, "ASPIRIN", drug.Text(), text)
		assert.True(t, utf8.ValidString(drug.Text()), text)
		require.NotNil(t, drug.SourceSpan, text)
		assert.Equal(t, "ASPIRIN", text[drug.SourceSpan.Start:drug.SourceSpan.End], text)
	}
}

func TestExtractIsDeterministic(t *testing.T) {
	e := newTestExtractor(t)
	doc := entity.NormalizedDocument{NormalizedText: sampleLabel}
	first := e.Extract(doc, nil)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, e.Extract(doc, nil))
	}
}

func TestTokenConfidencesRaiseScore(t *testing.T) {
	e := newTestExtractor(t)
	doc := entity.NormalizedDocument{NormalizedText: sampleLabel}

	low := e.Extract(doc, []entity.TokenConfidence{{Token: "AMOXICILLIN", Score: 0.2}})
	high := e.Extract(doc, []entity.TokenConfidence{{Token: "AMOXICILLIN", Score: 0.99}})

	assert.Greater(t,
		high.Get(constants.FieldDrugName).Confidence,
		low.Get(constants.FieldDrugName).Confidence)
}

func TestBlendIsClampedAndWeighted(t *testing.T) {
	assert.InDelta(t, ocrWeight*0.5+strategyWeight*certaintyDictionary, blend(0.5, certaintyDictionary), 1e-9)
	assert.Equal(t, 0.0, blend(-1, -1))
	assert.Equal(t, 1.0, blend(5, 5))
}

func TestStripDosage(t *testing.T) {
	assert.Equal(t, "AMOXICILLIN", StripDosage("AMOXICILLIN 500mg"))
	assert.Equal(t, "MORPHINE SULFATE", StripDosage("MORPHINE SULFATE 10mg/5ml"))
	assert.Equal(t, "ASPIRIN", StripDosage("ASPIRIN"))
}
