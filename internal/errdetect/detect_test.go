package errdetect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/refdata"
)

func newTestDetector(t *testing.T) *Detector {
	t.Helper()
	return NewDetector(Config{LowConfidence: 0.6, FuzzyAcceptance: 0.7}, refdata.Defaults(), nil)
}

func found(value string, confidence float64) entity.FieldValue {
	return entity.FieldValue{Value: &value, Confidence: confidence}
}

func allFields(m map[constants.FieldName]entity.FieldValue) entity.ExtractedFields {
	out := entity.ExtractedFields{}
	for _, name := range constants.CanonicalFields {
		out[name] = m[name]
	}
	return out
}

func cleanFields() entity.ExtractedFields {
	return allFields(map[constants.FieldName]entity.FieldValue{
		constants.FieldDrugName:     found("AMOXICILLIN", 0.9),
		constants.FieldBatchNumber:  found("AB-2023-001234", 0.9),
		constants.FieldExpiryDate:   found("08/2025", 0.9),
		constants.FieldManufacturer: found("PharmaCorp Inc.", 0.9),
	})
}

func TestDetectCleanDocument(t *testing.T) {
	assert.Empty(t, newTestDetector(t).Detect(cleanFields()))
}

func TestDetectMissingRequiredOnly(t *testing.T) {
	dets := newTestDetector(t).Detect(allFields(nil))

	// Only drug_name and batch_number are required; absent optional fields
	// produce nothing at all.
	require.Len(t, dets, 2)
	assert.Equal(t, constants.FieldDrugName, dets[0].FieldName)
	assert.Equal(t, constants.ErrorMissingRequired, dets[0].ErrorType)
	assert.Equal(t, constants.FieldBatchNumber, dets[1].FieldName)
	assert.Equal(t, constants.ErrorMissingRequired, dets[1].ErrorType)
}

func TestDetectNullFieldEmitsNothingElse(t *testing.T) {
	f := cleanFields()
	f[constants.FieldBatchNumber] = entity.FieldValue{}

	dets := newTestDetector(t).Detect(f)
	require.Len(t, dets, 1)
	assert.Equal(t, constants.ErrorMissingRequired, dets[0].ErrorType)
	assert.Empty(t, dets[0].ActualValue)
}

func TestDetectLowConfidence(t *testing.T) {
	f := cleanFields()
	f[constants.FieldDrugName] = found("AMOXICILLIN", 0.4)

	dets := newTestDetector(t).Detect(f)
	require.Len(t, dets, 1)
	assert.Equal(t, constants.ErrorLowConfidence, dets[0].ErrorType)
	assert.Equal(t, 0.4, dets[0].Confidence)
	assert.Equal(t, "AMOXICILLIN", dets[0].ActualValue)
}

func TestDetectBatchFormatWithConfusionRepair(t *testing.T) {
	f := cleanFields()
	f[constants.FieldBatchNumber] = found("A8-2023-00123O", 0.9)

	dets := newTestDetector(t).Detect(f)
	require.Len(t, dets, 1)
	det := dets[0]
	assert.Equal(t, constants.ErrorFormatMismatch, det.ErrorType)
	require.NotNil(t, det.ExpectedValue)
	assert.Equal(t, "BN-YYYY-NNNNNN", *det.ExpectedValue)
	require.NotNil(t, det.Suggestion)
	assert.Equal(t, "AB-2023-001230", *det.Suggestion)
}

func TestDetectBatchSingleSubstitution(t *testing.T) {
	f := cleanFields()
	f[constants.FieldBatchNumber] = found("AB-2O23-001234", 0.9)

	dets := newTestDetector(t).Detect(f)
	require.Len(t, dets, 1)
	require.NotNil(t, dets[0].Suggestion)
	assert.Equal(t, "AB-2023-001234", *dets[0].Suggestion)
}

func TestDetectBatchUnrepairable(t *testing.T) {
	f := cleanFields()
	f[constants.FieldBatchNumber] = found("completely wrong", 0.9)

	dets := newTestDetector(t).Detect(f)
	require.Len(t, dets, 1)
	assert.Equal(t, constants.ErrorFormatMismatch, dets[0].ErrorType)
	assert.Nil(t, dets[0].Suggestion)
}

func TestDetectExpiryInvalidMonthDay(t *testing.T) {
	f := cleanFields()
	f[constants.FieldExpiryDate] = found("13/45/2024", 0.9)

	dets := newTestDetector(t).Detect(f)
	require.Len(t, dets, 1)
	assert.Equal(t, constants.ErrorFormatMismatch, dets[0].ErrorType)
	assert.Nil(t, dets[0].Suggestion, "no plausible month to recover")
}

func TestDetectExpiryFormat(t *testing.T) {
	f := cleanFields()
	f[constants.FieldExpiryDate] = found("2025/08", 0.9)

	dets := newTestDetector(t).Detect(f)
	require.Len(t, dets, 1)
	det := dets[0]
	assert.Equal(t, constants.ErrorFormatMismatch, det.ErrorType)
	require.NotNil(t, det.ExpectedValue)
	assert.Equal(t, "MM/YYYY", *det.ExpectedValue)
	require.NotNil(t, det.Suggestion)
	assert.Equal(t, "08/2025", *det.Suggestion)
}

func TestDetectOutOfDictionaryWithSuggestion(t *testing.T) {
	f := cleanFields()
	f[constants.FieldDrugName] = found("AMOXICILIN 500mg", 0.9)

	dets := newTestDetector(t).Detect(f)
	require.Len(t, dets, 1)
	det := dets[0]
	assert.Equal(t, constants.ErrorOutOfDictionary, det.ErrorType)
	require.NotNil(t, det.Suggestion)
	assert.Equal(t, "AMOXICILLIN", *det.Suggestion)
	assert.Equal(t, "AMOXICILIN 500mg", det.ActualValue)
	// Detection confidence is monotone in the extractor's score.
	assert.Less(t, det.Confidence, 0.9)
	assert.Greater(t, det.Confidence, 0.0)
}

func TestDetectOutOfDictionaryWithoutCloseMatch(t *testing.T) {
	f := cleanFields()
	f[constants.FieldDrugName] = found("XQZPVW", 0.9)

	dets := newTestDetector(t).Detect(f)
	require.Len(t, dets, 1)
	det := dets[0]
	assert.Equal(t, constants.ErrorOutOfDictionary, det.ErrorType)
	assert.Nil(t, det.Suggestion, "weak candidates are not suggested")
	assert.Nil(t, det.ExpectedValue)
}

func TestDetectCanonicalOrder(t *testing.T) {
	f := allFields(map[constants.FieldName]entity.FieldValue{
		constants.FieldDrugName:     found("XQZPVW", 0.9),
		constants.FieldBatchNumber:  found("bad batch", 0.9),
		constants.FieldExpiryDate:   found("never", 0.9),
		constants.FieldManufacturer: found("Nobody Ltd.", 0.9),
	})

	dets := newTestDetector(t).Detect(f)
	require.Len(t, dets, 4)
	want := []constants.FieldName{
		constants.FieldDrugName,
		constants.FieldBatchNumber,
		constants.FieldExpiryDate,
		constants.FieldManufacturer,
	}
	for i, name := range want {
		assert.Equal(t, name, dets[i].FieldName)
	}
}

func TestRepairBatchNumber(t *testing.T) {
	tests := []struct {
		in   string
		want string
		ok   bool
	}{
		{"AB-2O23-001234", "AB-2023-001234", true},
		{"A8-2023-001234", "AB-2023-001234", true},
		{"AB-2023-00123O", "AB-2023-001230", true},
		{"AB-2023-001234", "", false}, // already valid, nothing to repair
		{"nonsense", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := repairBatchNumber(tt.in)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
