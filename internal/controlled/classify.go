package controlled

import (
	"log/slog"
	"strings"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/fields"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/refdata"
)

// Classifier tags records naming a controlled substance, which require
// additional regulatory handling downstream.
type Classifier struct {
	forms    []string
	minScore float64
	logger   *slog.Logger
}

// NewClassifier builds the matcher over the controlled-substance reference
// list (canonical names plus synonym forms). minScore gates classification
// on the drug_name extraction confidence.
func NewClassifier(ref *refdata.ReferenceData, minScore float64, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	if minScore <= 0 {
		minScore = 0.5
	}
	return &Classifier{forms: ref.ControlledForms(), minScore: minScore, logger: logger}
}

// Classify returns true only on a positive reference match whose extraction
// confidence clears the gate. A nil drug name is never assumed controlled.
func (c *Classifier) Classify(f entity.ExtractedFields) bool {
	fv := f.Get(constants.FieldDrugName)
	if !fv.Found() {
		return false
	}
	if fv.Confidence < c.minScore {
		return false
	}

	name := strings.ToUpper(fields.StripDosage(fv.Text()))
	for _, form := range c.forms {
		if name == form || strings.Contains(name, form) || strings.Contains(form, name) {
			c.logger.Info("controlled.matched", "drug_name", fv.Text(), "form", form)
			return true
		}
	}
	return false
}
