package controlled

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/refdata"
)

func fieldsWithDrug(name string, confidence float64) entity.ExtractedFields {
	f := entity.ExtractedFields{}
	if name != "" {
		f[constants.FieldDrugName] = entity.FieldValue{Value: &name, Confidence: confidence}
	} else {
		f[constants.FieldDrugName] = entity.FieldValue{}
	}
	return f
}

func TestClassify(t *testing.T) {
	c := NewClassifier(refdata.Defaults(), 0.5, nil)

	tests := []struct {
		name       string
		drug       string
		confidence float64
		want       bool
	}{
		{"canonical name", "OXYCODONE", 0.9, true},
		{"synonym form", "Oxycontin", 0.9, true},
		{"with dosage suffix", "MORPHINE SULFATE 10mg", 0.9, true},
		{"uncontrolled", "AMOXICILLIN", 0.9, false},
		{"below confidence gate", "OXYCODONE", 0.3, false},
		{"unknown name", "PLACEBOMYCIN", 0.9, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, c.Classify(fieldsWithDrug(tt.drug, tt.confidence)))
		})
	}
}

func TestClassifyNilDrugName(t *testing.T) {
	c := NewClassifier(refdata.Defaults(), 0.5, nil)
	assert.False(t, c.Classify(fieldsWithDrug("", 0)))
	assert.False(t, c.Classify(entity.ExtractedFields{}))
}

func TestClassifierDefaultGate(t *testing.T) {
	c := NewClassifier(refdata.Defaults(), 0, nil)
	assert.False(t, c.Classify(fieldsWithDrug("OXYCODONE", 0.4)))
	assert.True(t, c.Classify(fieldsWithDrug("OXYCODONE", 0.5)))
}
