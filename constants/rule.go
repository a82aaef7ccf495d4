package constants

// RuleType discriminates the compliance rule variants.
type RuleType string

const (
	RuleTypePattern  RuleType = "pattern"
	RuleTypeRequired RuleType = "required"
	RuleTypeRange    RuleType = "range"
	RuleTypeEnum     RuleType = "enum_membership"
)

// Severity orders compliance findings for aggregation. Stable DB strings.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// SeverityWeight is used by the report aggregator to compute a single
// severity-weighted compliance score. Unknown severities weigh as medium.
func SeverityWeight(s Severity) int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityLow:
		return 1
	default:
		return 2
	}
}

// CheckStatus is the outcome of one rule against one document.
type CheckStatus string

const (
	CheckPassed  CheckStatus = "passed"
	CheckFailed  CheckStatus = "failed"
	CheckWarning CheckStatus = "warning"
)

// ValidSeverity reports whether s is one of the accepted severity values.
func ValidSeverity(s string) bool {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return true
	}
	return false
}

// ValidRuleType reports whether t is one of the accepted rule types.
func ValidRuleType(t string) bool {
	switch RuleType(t) {
	case RuleTypePattern, RuleTypeRequired, RuleTypeRange, RuleTypeEnum:
		return true
	}
	return false
}
