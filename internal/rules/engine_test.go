package rules

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
)

func mustParams(t *testing.T, v any) json.RawMessage {
	t.Helper()
	raw, err := json.Marshal(v)
	require.NoError(t, err)
	return raw
}

func testRule(name string, field constants.FieldName, ruleType constants.RuleType, params json.RawMessage) entity.ComplianceRule {
	return entity.ComplianceRule{
		ID:         uuid.New(),
		Name:       name,
		Field:      field,
		RuleType:   ruleType,
		Parameters: params,
		Severity:   constants.SeverityHigh,
		Active:     true,
	}
}

func foundField(value string, confidence float64) entity.FieldValue {
	return entity.FieldValue{Value: &value, Confidence: confidence}
}

func fieldsWith(m map[constants.FieldName]entity.FieldValue) entity.ExtractedFields {
	out := entity.ExtractedFields{}
	for _, name := range constants.CanonicalFields {
		out[name] = m[name]
	}
	return out
}

func TestEvaluateRequired(t *testing.T) {
	e := NewEngine(nil)
	rule := testRule("batch present", constants.FieldBatchNumber, constants.RuleTypeRequired, nil)

	checks := e.Evaluate(fieldsWith(nil), Snapshot{Version: 1, Rules: []entity.ComplianceRule{rule}})
	require.Len(t, checks, 1)
	assert.Equal(t, constants.CheckFailed, checks[0].Status)
	assert.Equal(t, rule.ID, checks[0].RuleID)
	assert.Equal(t, constants.SeverityHigh, checks[0].Severity)

	checks = e.Evaluate(fieldsWith(map[constants.FieldName]entity.FieldValue{
		constants.FieldBatchNumber: foundField("AB-2023-001234", 0.9),
	}), Snapshot{Version: 1, Rules: []entity.ComplianceRule{rule}})
	require.Len(t, checks, 1)
	assert.Equal(t, constants.CheckPassed, checks[0].Status)
}

func TestEvaluatePattern(t *testing.T) {
	e := NewEngine(nil)
	rule := testRule("batch format", constants.FieldBatchNumber, constants.RuleTypePattern,
		mustParams(t, PatternParams{Pattern: `^[A-Z]{2}-\d{4}-\d{6}$`}))

	good := fieldsWith(map[constants.FieldName]entity.FieldValue{
		constants.FieldBatchNumber: foundField("AB-2023-001234", 0.9),
	})
	bad := fieldsWith(map[constants.FieldName]entity.FieldValue{
		constants.FieldBatchNumber: foundField("A8-2023-00123O", 0.9),
	})

	snap := Snapshot{Version: 1, Rules: []entity.ComplianceRule{rule}}
	assert.Equal(t, constants.CheckPassed, e.Evaluate(good, snap)[0].Status)
	assert.Equal(t, constants.CheckFailed, e.Evaluate(bad, snap)[0].Status)

	// Missing value is a warning unless the pattern declares required.
	assert.Equal(t, constants.CheckWarning, e.Evaluate(fieldsWith(nil), snap)[0].Status)

	strict := testRule("batch format strict", constants.FieldBatchNumber, constants.RuleTypePattern,
		mustParams(t, PatternParams{Pattern: `^[A-Z]{2}-\d{4}-\d{6}$`, Required: true}))
	strictSnap := Snapshot{Version: 1, Rules: []entity.ComplianceRule{strict}}
	assert.Equal(t, constants.CheckFailed, e.Evaluate(fieldsWith(nil), strictSnap)[0].Status)
}

func TestEvaluateRangeDate(t *testing.T) {
	e := NewEngine(nil)
	rule := testRule("expiry window", constants.FieldExpiryDate, constants.RuleTypeRange,
		mustParams(t, RangeParams{Kind: RangeDate, Min: "01/2024", Max: "12/2030"}))
	snap := Snapshot{Version: 1, Rules: []entity.ComplianceRule{rule}}

	cases := []struct {
		value string
		want  constants.CheckStatus
	}{
		{"08/2025", constants.CheckPassed},
		{"06/2023", constants.CheckFailed},
		{"01/2031", constants.CheckFailed},
		{"not a date", constants.CheckFailed},
	}
	for _, tc := range cases {
		f := fieldsWith(map[constants.FieldName]entity.FieldValue{
			constants.FieldExpiryDate: foundField(tc.value, 0.9),
		})
		assert.Equal(t, tc.want, e.Evaluate(f, snap)[0].Status, "value %q", tc.value)
	}

	// Missing value cannot violate a range.
	assert.Equal(t, constants.CheckWarning, e.Evaluate(fieldsWith(nil), snap)[0].Status)
}

func TestEvaluateEnumMembership(t *testing.T) {
	e := NewEngine(nil)
	rule := testRule("known manufacturer", constants.FieldManufacturer, constants.RuleTypeEnum,
		mustParams(t, EnumParams{Allowed: []string{"PharmaCorp Inc.", "MediLab GmbH"}, CaseInsensitive: true}))
	snap := Snapshot{Version: 1, Rules: []entity.ComplianceRule{rule}}

	member := fieldsWith(map[constants.FieldName]entity.FieldValue{
		constants.FieldManufacturer: foundField("pharmacorp inc.", 0.8),
	})
	outsider := fieldsWith(map[constants.FieldName]entity.FieldValue{
		constants.FieldManufacturer: foundField("Unknown Labs", 0.8),
	})

	assert.Equal(t, constants.CheckPassed, e.Evaluate(member, snap)[0].Status)
	assert.Equal(t, constants.CheckFailed, e.Evaluate(outsider, snap)[0].Status)
	assert.Equal(t, constants.CheckWarning, e.Evaluate(fieldsWith(nil), snap)[0].Status)
}

func TestMalformedRuleFailsWithoutAborting(t *testing.T) {
	e := NewEngine(nil)
	broken := testRule("broken regex", constants.FieldBatchNumber, constants.RuleTypePattern,
		mustParams(t, PatternParams{Pattern: `([`}))
	healthy := testRule("batch present", constants.FieldBatchNumber, constants.RuleTypeRequired, nil)

	f := fieldsWith(map[constants.FieldName]entity.FieldValue{
		constants.FieldBatchNumber: foundField("AB-2023-001234", 0.9),
	})
	checks := e.Evaluate(f, Snapshot{Version: 1, Rules: []entity.ComplianceRule{broken, healthy}})

	require.Len(t, checks, 2)
	assert.Equal(t, constants.CheckFailed, checks[0].Status)
	assert.Contains(t, checks[0].Message, "rule configuration defect")
	assert.Equal(t, constants.CheckPassed, checks[1].Status)
}

func TestInactiveRulesAreSkipped(t *testing.T) {
	e := NewEngine(nil)
	inactive := testRule("inactive", constants.FieldDrugName, constants.RuleTypeRequired, nil)
	inactive.Active = false
	active := testRule("active", constants.FieldBatchNumber, constants.RuleTypeRequired, nil)

	checks := e.Evaluate(fieldsWith(nil), Snapshot{Version: 1, Rules: []entity.ComplianceRule{inactive, active}})
	require.Len(t, checks, 1)
	assert.Equal(t, "active", checks[0].RuleName)
}

func TestEvaluateKeepsRuleOrder(t *testing.T) {
	e := NewEngine(nil)
	ruleSet := []entity.ComplianceRule{
		testRule("first", constants.FieldDrugName, constants.RuleTypeRequired, nil),
		testRule("second", constants.FieldBatchNumber, constants.RuleTypeRequired, nil),
		testRule("third", constants.FieldExpiryDate, constants.RuleTypeRequired, nil),
	}
	checks := e.Evaluate(fieldsWith(nil), Snapshot{Version: 1, Rules: ruleSet})

	require.Len(t, checks, 3)
	for i, rule := range ruleSet {
		assert.Equal(t, rule.Name, checks[i].RuleName)
	}

	// Same inputs, same output.
	assert.Equal(t, checks, e.Evaluate(fieldsWith(nil), Snapshot{Version: 1, Rules: ruleSet}))
}

func TestScore(t *testing.T) {
	assert.Equal(t, 1.0, Score(nil))

	checks := []entity.ComplianceCheck{
		{Status: constants.CheckPassed, Severity: constants.SeverityCritical}, // 4/4
		{Status: constants.CheckFailed, Severity: constants.SeverityLow},      // 0/1
		{Status: constants.CheckWarning, Severity: constants.SeverityMedium},  // 1/2
	}
	assert.InDelta(t, 5.0/7.0, Score(checks), 1e-9)
}

func TestOverall(t *testing.T) {
	status, _ := Overall(nil)
	assert.Equal(t, constants.CheckPassed, status)

	status, severity := Overall([]entity.ComplianceCheck{
		{Status: constants.CheckPassed, Severity: constants.SeverityCritical},
		{Status: constants.CheckWarning, Severity: constants.SeverityHigh},
	})
	assert.Equal(t, constants.CheckWarning, status)
	assert.Equal(t, constants.SeverityHigh, severity)

	// A failure dominates every warning, and the most severe failure wins.
	status, severity = Overall([]entity.ComplianceCheck{
		{Status: constants.CheckWarning, Severity: constants.SeverityCritical},
		{Status: constants.CheckFailed, Severity: constants.SeverityLow},
		{Status: constants.CheckFailed, Severity: constants.SeverityHigh},
	})
	assert.Equal(t, constants.CheckFailed, status)
	assert.Equal(t, constants.SeverityHigh, severity)
}
