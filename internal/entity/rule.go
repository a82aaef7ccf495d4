package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
)

// ComplianceRule is one configurable predicate over an extracted field.
// Rules are managed over CRUD and loaded read-only by the engine; during a
// single evaluation pass a rule is immutable.
type ComplianceRule struct {
	ID          uuid.UUID           `json:"id"`
	Name        string              `json:"name"`
	Field       constants.FieldName `json:"field"`
	RuleType    constants.RuleType  `json:"rule_type"`
	Description string              `json:"description,omitempty"`
	// Parameters is the rule_type-specific configuration document. Its
	// shape is validated against a per-type JSON schema at CRUD time and
	// parsed into a tagged variant at evaluation time.
	Parameters json.RawMessage    `json:"parameters,omitempty"`
	Severity   constants.Severity `json:"severity"`
	Active     bool               `json:"active"`
	CreatedAt  time.Time          `json:"created_at"`
	UpdatedAt  time.Time          `json:"updated_at"`
}

// ComplianceCheck is the result of one rule against one ExtractedFields
// instance. Append-only per evaluation.
type ComplianceCheck struct {
	RuleID   uuid.UUID             `json:"rule_id"`
	RuleName string                `json:"rule_name"`
	Field    constants.FieldName   `json:"field"`
	Status   constants.CheckStatus `json:"status"`
	Message  string                `json:"message"`
	Severity constants.Severity    `json:"severity"`
}

// ErrorDetection flags one probable OCR error on one extracted field,
// optionally with a ranked correction suggestion.
type ErrorDetection struct {
	FieldName     constants.FieldName `json:"field_name"`
	ErrorType     constants.ErrorType `json:"error_type"`
	ExpectedValue *string             `json:"expected_value,omitempty"`
	ActualValue   string              `json:"actual_value"`
	// Confidence is derived from the extractor's own score for the field
	// and is never raised above it.
	Confidence float64 `json:"confidence"`
	Suggestion *string `json:"suggestion,omitempty"`
}
