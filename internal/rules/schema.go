package rules

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
)

// Per-rule_type JSON schemas for the parameters document. Validated once at
// CRUD time so the engine can assume shape and only handle semantic defects
// (bad regex, inverted bounds) at evaluation.
var parameterSchemas = map[constants.RuleType]string{
	constants.RuleTypeRequired: `{
		"type": "object",
		"additionalProperties": false
	}`,
	constants.RuleTypePattern: `{
		"type": "object",
		"properties": {
			"pattern":  {"type": "string", "minLength": 1},
			"required": {"type": "boolean"}
		},
		"required": ["pattern"],
		"additionalProperties": false
	}`,
	constants.RuleTypeRange: `{
		"type": "object",
		"properties": {
			"kind": {"enum": ["date", "number"]},
			"min":  {"type": "string"},
			"max":  {"type": "string"}
		},
		"required": ["kind"],
		"anyOf": [
			{"required": ["min"]},
			{"required": ["max"]}
		],
		"additionalProperties": false
	}`,
	constants.RuleTypeEnum: `{
		"type": "object",
		"properties": {
			"allowed": {
				"type": "array",
				"items": {"type": "string"},
				"minItems": 1
			},
			"case_insensitive": {"type": "boolean"}
		},
		"required": ["allowed"],
		"additionalProperties": false
	}`,
}

var compiledSchemas = func() map[constants.RuleType]*jsonschema.Schema {
	out := make(map[constants.RuleType]*jsonschema.Schema, len(parameterSchemas))
	for ruleType, src := range parameterSchemas {
		compiler := jsonschema.NewCompiler()
		name := fmt.Sprintf("%s.json", ruleType)
		if err := compiler.AddResource(name, strings.NewReader(src)); err != nil {
			panic(fmt.Sprintf("rules: add schema for %s: %v", ruleType, err))
		}
		out[ruleType] = compiler.MustCompile(name)
	}
	return out
}()

// ValidateParameters checks a parameters document against the schema for
// its rule type. An empty document is allowed only for required rules.
func ValidateParameters(ruleType constants.RuleType, params json.RawMessage) error {
	schema, ok := compiledSchemas[ruleType]
	if !ok {
		return common.NewAppError("RULE_TYPE_UNKNOWN", fmt.Sprintf("unknown rule type %q", ruleType), common.ErrInvalidInput)
	}
	if len(params) == 0 {
		if ruleType == constants.RuleTypeRequired {
			return nil
		}
		return common.NewAppError("RULE_PARAMS_MISSING", fmt.Sprintf("%s rules need parameters", ruleType), common.ErrInvalidInput)
	}
	var v any
	if err := json.Unmarshal(params, &v); err != nil {
		return common.NewAppError("RULE_PARAMS_INVALID", "parameters is not valid JSON", common.ErrInvalidInput)
	}
	if err := schema.Validate(v); err != nil {
		return common.NewAppError("RULE_PARAMS_INVALID", err.Error(), common.ErrInvalidInput)
	}
	return nil
}
