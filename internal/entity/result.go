package entity

import (
	"time"

	"github.com/google/uuid"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
)

// Document represents an uploaded document for data transfer between layers.
type Document struct {
	ID         uuid.UUID                `json:"id"`
	Filename   string                   `json:"filename"`
	FileType   string                   `json:"file_type"`
	FileSize   int64                    `json:"file_size"`
	Status     constants.DocumentStatus `json:"status"`
	UploadedAt time.Time                `json:"uploaded_at"`
}

// ProcessingResult is the single structured object exposed downstream,
// combining the normalizer, extractor, rule engine, error detector and
// classifier outputs for one document.
type ProcessingResult struct {
	ID                  uuid.UUID          `json:"id"`
	DocumentID          uuid.UUID          `json:"document_id"`
	Normalized          NormalizedDocument `json:"normalized"`
	Fields              ExtractedFields    `json:"fields"`
	Checks              []ComplianceCheck  `json:"checks"`
	Detections          []ErrorDetection   `json:"detections"`
	ControlledSubstance bool               `json:"controlled_substance"`
	// RulesVersion is the snapshot version the checks were evaluated against.
	RulesVersion uint64        `json:"rules_version"`
	Elapsed      time.Duration `json:"-"`
	ProcessedAt  time.Time     `json:"processed_at"`
}
