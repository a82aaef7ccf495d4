package constants

// FieldName identifies one of the canonical pharmaceutical label fields.
type FieldName string

// Stable values (store these exact strings in DB).
const (
	FieldDrugName     FieldName = "drug_name"
	FieldBatchNumber  FieldName = "batch_number"
	FieldExpiryDate   FieldName = "expiry_date"
	FieldManufacturer FieldName = "manufacturer"
)

// CanonicalFields is the fixed iteration order used by the extractor and
// the error detector. Every ExtractedFields map carries exactly these keys.
var CanonicalFields = []FieldName{
	FieldDrugName,
	FieldBatchNumber,
	FieldExpiryDate,
	FieldManufacturer,
}

// RequiredFields are always-required by domain convention: a missing value
// yields a missing_required detection regardless of configured rules.
var RequiredFields = map[FieldName]struct{}{
	FieldDrugName:    {},
	FieldBatchNumber: {},
}

// IsValidField reports whether name is one of the canonical fields.
func IsValidField(name string) bool {
	for _, f := range CanonicalFields {
		if string(f) == name {
			return true
		}
	}
	return false
}
