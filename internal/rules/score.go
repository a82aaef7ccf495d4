package rules

import (
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
)

// Score condenses a check list into a severity-weighted compliance score in
// [0,1]. Passed checks contribute their full weight, warnings half, failures
// nothing. No checks means nothing to fail, so the score is 1.
func Score(checks []entity.ComplianceCheck) float64 {
	if len(checks) == 0 {
		return 1
	}
	var earned, total float64
	for _, c := range checks {
		w := float64(constants.SeverityWeight(c.Severity))
		total += w
		switch c.Status {
		case constants.CheckPassed:
			earned += w
		case constants.CheckWarning:
			earned += w / 2
		}
	}
	if total == 0 {
		return 1
	}
	return earned / total
}

// Overall reduces a check list to one document-level status with the
// dominating severity: any failure outranks every warning, higher-severity
// failures outrank lower ones, warnings outrank passed. An empty list passes.
func Overall(checks []entity.ComplianceCheck) (constants.CheckStatus, constants.Severity) {
	status := constants.CheckPassed
	severity := constants.SeverityLow
	for _, c := range checks {
		switch c.Status {
		case constants.CheckFailed:
			if status != constants.CheckFailed || constants.SeverityWeight(c.Severity) > constants.SeverityWeight(severity) {
				severity = c.Severity
			}
			status = constants.CheckFailed
		case constants.CheckWarning:
			if status == constants.CheckPassed {
				status = constants.CheckWarning
				severity = c.Severity
			} else if status == constants.CheckWarning && constants.SeverityWeight(c.Severity) > constants.SeverityWeight(severity) {
				severity = c.Severity
			}
		}
	}
	return status, severity
}
