package errdetect

import (
	"log/slog"
	"regexp"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/fields"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/refdata"
)

// batchFormat is the canonical batch-number shape (BN-YYYY-NNNNNN).
var batchFormat = regexp.MustCompile(`^[A-Z]{2}-\d{4}-\d{6}$`)

const (
	batchFormatHint  = "BN-YYYY-NNNNNN"
	expiryFormatHint = "MM/YYYY"
)

// Config holds the detector thresholds.
type Config struct {
	// LowConfidence flags fields extracted below this score even when the
	// value looks syntactically valid.
	LowConfidence float64
	// FuzzyAcceptance is the minimum similarity for a correction candidate
	// to be suggested; weaker candidates leave the suggestion empty.
	FuzzyAcceptance float64
}

func (c *Config) applyDefaults() {
	if c.LowConfidence <= 0 {
		c.LowConfidence = 0.6
	}
	if c.FuzzyAcceptance <= 0 {
		c.FuzzyAcceptance = 0.7
	}
}

// Detector flags probable OCR errors on extracted fields and proposes
// ranked corrections. Pure computation; identical inputs produce identical,
// identically-ordered output.
type Detector struct {
	cfg    Config
	ref    *refdata.ReferenceData
	logger *slog.Logger
}

func NewDetector(cfg Config, ref *refdata.ReferenceData, logger *slog.Logger) *Detector {
	cfg.applyDefaults()
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{cfg: cfg, ref: ref, logger: logger}
}

// Detect walks the canonical field order. A field with a nil value produces
// at most one missing_required detection and nothing else; found values are
// graded for confidence, structure and dictionary membership.
func (d *Detector) Detect(f entity.ExtractedFields) []entity.ErrorDetection {
	var out []entity.ErrorDetection
	for _, name := range constants.CanonicalFields {
		fv := f.Get(name)

		if !fv.Found() {
			if _, required := constants.RequiredFields[name]; required {
				out = append(out, entity.ErrorDetection{
					FieldName:   name,
					ErrorType:   constants.ErrorMissingRequired,
					ActualValue: "",
					Confidence:  fv.Confidence,
				})
			}
			continue
		}

		if fv.Confidence < d.cfg.LowConfidence {
			out = append(out, entity.ErrorDetection{
				FieldName:   name,
				ErrorType:   constants.ErrorLowConfidence,
				ActualValue: fv.Text(),
				Confidence:  fv.Confidence,
			})
		}

		switch name {
		case constants.FieldBatchNumber:
			out = append(out, d.checkBatchFormat(fv)...)
		case constants.FieldExpiryDate:
			out = append(out, d.checkExpiryFormat(fv)...)
		case constants.FieldDrugName:
			out = append(out, d.checkDictionary(name, fv, d.ref.DrugNames)...)
		case constants.FieldManufacturer:
			out = append(out, d.checkDictionary(name, fv, d.ref.Manufacturers)...)
		}
	}

	d.logger.Debug("errdetect.done", "detections", len(out))
	return out
}

func (d *Detector) checkBatchFormat(fv entity.FieldValue) []entity.ErrorDetection {
	value := fv.Text()
	if batchFormat.MatchString(value) {
		return nil
	}
	det := entity.ErrorDetection{
		FieldName:     constants.FieldBatchNumber,
		ErrorType:     constants.ErrorFormatMismatch,
		ExpectedValue: strptr(batchFormatHint),
		ActualValue:   value,
		Confidence:    fv.Confidence,
	}
	if repaired, ok := repairBatchNumber(value); ok {
		det.Suggestion = strptr(repaired)
	}
	return []entity.ErrorDetection{det}
}

func (d *Detector) checkExpiryFormat(fv entity.FieldValue) []entity.ErrorDetection {
	value := fv.Text()
	if _, ok := fields.ParseExpiryDate(value); ok {
		return nil
	}
	det := entity.ErrorDetection{
		FieldName:     constants.FieldExpiryDate,
		ErrorType:     constants.ErrorFormatMismatch,
		ExpectedValue: strptr(expiryFormatHint),
		ActualValue:   value,
		Confidence:    fv.Confidence,
	}
	if reformatted, ok := fields.ReformatExpiryDate(value); ok {
		det.Suggestion = strptr(reformatted)
	}
	return []entity.ErrorDetection{det}
}

// checkDictionary emits out_of_dictionary for any value without an exact
// reference match. The nearest entry is suggested only when it clears the
// acceptance threshold; the detector never guesses.
func (d *Detector) checkDictionary(name constants.FieldName, fv entity.FieldValue, dictionary []string) []entity.ErrorDetection {
	value := fields.StripDosage(fv.Text())
	nearest, similarity, ok := fields.NearestEntry(value, dictionary)
	if ok && similarity >= 1 {
		return nil
	}
	det := entity.ErrorDetection{
		FieldName: name,
		ErrorType: constants.ErrorOutOfDictionary,
		// Monotone in the extractor's own score, never above it.
		ActualValue: fv.Text(),
		Confidence:  fv.Confidence * similarity,
	}
	if ok && similarity >= d.cfg.FuzzyAcceptance {
		det.ExpectedValue = strptr(nearest)
		det.Suggestion = strptr(nearest)
	}
	return []entity.ErrorDetection{det}
}

// repairBatchNumber substitutes commonly confused characters (0/O, 1/I,
// 5/S, 8/B) position by position until the canonical shape is satisfied.
func repairBatchNumber(value string) (string, bool) {
	// Letters belong in the first two positions, digits elsewhere.
	runes := []rune(value)
	for i, r := range runes {
		alt, confusable := refdata.ConfusionPairs[r]
		if !confusable {
			continue
		}
		candidate := make([]rune, len(runes))
		copy(candidate, runes)
		candidate[i] = alt
		if batchFormat.MatchString(string(candidate)) {
			return string(candidate), true
		}
	}

	// Single substitutions failed; repair every confusable position by its
	// expected character class in one pass.
	repaired := make([]rune, len(runes))
	for i, r := range runes {
		repaired[i] = r
		if alt, confusable := refdata.ConfusionPairs[r]; confusable {
			wantLetter := i < 2
			isLetter := r >= 'A' && r <= 'Z'
			if wantLetter != isLetter {
				repaired[i] = alt
			}
		}
	}
	if s := string(repaired); s != value && batchFormat.MatchString(s) {
		return s, true
	}
	return "", false
}

func strptr(s string) *string { return &s }
