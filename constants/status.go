package constants

// DocumentStatus is the canonical status for rows in documents.
type DocumentStatus string

// Stable values (store these exact strings in DB).
const (
	DocStatusPending    DocumentStatus = "PENDING"    // accepted, not yet processed
	DocStatusProcessing DocumentStatus = "PROCESSING" // pipeline in progress
	DocStatusCompleted  DocumentStatus = "COMPLETED"  // result persisted
	DocStatusFailed     DocumentStatus = "FAILED"     // terminal failure (input invalid)
)

// ErrorType classifies error detections on extracted fields.
type ErrorType string

const (
	ErrorLowConfidence   ErrorType = "low_confidence"
	ErrorFormatMismatch  ErrorType = "format_mismatch"
	ErrorOutOfDictionary ErrorType = "out_of_dictionary"
	ErrorMissingRequired ErrorType = "missing_required"
)
