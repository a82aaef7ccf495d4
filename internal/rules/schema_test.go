package rules

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
)

func TestValidateParameters(t *testing.T) {
	tests := []struct {
		name     string
		ruleType constants.RuleType
		params   string
		wantErr  bool
	}{
		{"required without params", constants.RuleTypeRequired, "", false},
		{"required with empty object", constants.RuleTypeRequired, `{}`, false},
		{"required with stray key", constants.RuleTypeRequired, `{"x":1}`, true},
		{"pattern ok", constants.RuleTypePattern, `{"pattern":"^AB$"}`, false},
		{"pattern with required flag", constants.RuleTypePattern, `{"pattern":"^AB$","required":true}`, false},
		{"pattern without params", constants.RuleTypePattern, "", true},
		{"pattern missing key", constants.RuleTypePattern, `{"required":true}`, true},
		{"pattern empty string", constants.RuleTypePattern, `{"pattern":""}`, true},
		{"range with min", constants.RuleTypeRange, `{"kind":"date","min":"01/2024"}`, false},
		{"range with max only", constants.RuleTypeRange, `{"kind":"number","max":"10"}`, false},
		{"range without bounds", constants.RuleTypeRange, `{"kind":"date"}`, true},
		{"range bad kind", constants.RuleTypeRange, `{"kind":"weeks","min":"1"}`, true},
		{"enum ok", constants.RuleTypeEnum, `{"allowed":["A","B"],"case_insensitive":true}`, false},
		{"enum empty set", constants.RuleTypeEnum, `{"allowed":[]}`, true},
		{"enum without params", constants.RuleTypeEnum, "", true},
		{"not json", constants.RuleTypePattern, `{pattern}`, true},
		{"unknown rule type", constants.RuleType("bogus"), `{}`, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateParameters(tt.ruleType, json.RawMessage(tt.params))
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestDefaultRulesAreWellFormed(t *testing.T) {
	for _, rule := range DefaultRules() {
		require.NoError(t, ValidateParameters(rule.RuleType, rule.Parameters), "rule %q", rule.Name)
		_, err := compile(rule)
		require.NoError(t, err, "rule %q", rule.Name)
	}
}
