package entity

import (
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
)

// Span addresses a half-open [Start,End) byte range in the normalized text.
type Span struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

// FieldValue is the extraction outcome for one canonical field. A field not
// found in text carries a nil Value and confidence 0; it is never omitted
// from the map.
type FieldValue struct {
	Value      *string `json:"value"`
	Confidence float64 `json:"confidence"`
	SourceSpan *Span   `json:"source_span,omitempty"`
	// Strategy records which extraction strategy produced the value
	// ("dictionary", "anchor", "fuzzy", "pattern"); empty when not found.
	Strategy string `json:"strategy,omitempty"`
}

// Found reports whether a non-empty value was extracted.
func (fv FieldValue) Found() bool {
	return fv.Value != nil && *fv.Value != ""
}

// Text returns the extracted value or "" when the field was not found.
func (fv FieldValue) Text() string {
	if fv.Value == nil {
		return ""
	}
	return *fv.Value
}

// ExtractedFields maps every canonical field name to its extraction outcome.
// One instance per document.
type ExtractedFields map[constants.FieldName]FieldValue

// Get returns the value for name, defaulting to the not-found zero outcome
// so callers can iterate all four fields uniformly.
func (ef ExtractedFields) Get(name constants.FieldName) FieldValue {
	if fv, ok := ef[name]; ok {
		return fv
	}
	return FieldValue{}
}
