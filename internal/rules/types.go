package rules

import (
	"encoding/json"
	"fmt"
	"regexp"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
)

// RangeKind selects how range bounds and values are parsed.
type RangeKind string

const (
	RangeDate   RangeKind = "date"
	RangeNumber RangeKind = "number"
)

// Tagged parameter variants, one per rule_type. Each carries only what its
// evaluation needs; no dynamic field lookup happens at evaluation time.

// RequiredParams has no configuration.
type RequiredParams struct{}

// PatternParams configures a pattern rule.
type PatternParams struct {
	// Pattern is a Go regular expression the whole value must satisfy.
	Pattern string `json:"pattern"`
	// Required controls how a missing value is graded: failed when true,
	// warning otherwise.
	Required bool `json:"required,omitempty"`
}

// RangeParams configures a range rule over dates or numbers.
type RangeParams struct {
	Kind RangeKind `json:"kind"`
	Min  string    `json:"min,omitempty"`
	Max  string    `json:"max,omitempty"`
}

// EnumParams configures an enum_membership rule (manufacturer allow-lists).
type EnumParams struct {
	Allowed         []string `json:"allowed"`
	CaseInsensitive bool     `json:"case_insensitive,omitempty"`
}

// compiled is one rule resolved into an executable form. Compilation
// failures surface as RuleConfigurationError and grade the rule's check as
// failed without stopping the pass.
type compiled struct {
	rule entity.ComplianceRule

	pattern         *regexp.Regexp
	patternRequired bool

	rangeKind RangeKind
	rangeMin  string
	rangeMax  string

	allowed         []string
	caseInsensitive bool
}

// compile parses a rule's parameters into its tagged variant.
func compile(rule entity.ComplianceRule) (*compiled, error) {
	c := &compiled{rule: rule}
	switch rule.RuleType {
	case constants.RuleTypeRequired:
		return c, nil

	case constants.RuleTypePattern:
		var p PatternParams
		if err := unmarshalParams(rule.Parameters, &p); err != nil {
			return nil, err
		}
		if p.Pattern == "" {
			return nil, fmt.Errorf("%w: pattern rule %q has no pattern", common.ErrRuleConfiguration, rule.Name)
		}
		re, err := regexp.Compile(p.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%w: pattern rule %q: %v", common.ErrRuleConfiguration, rule.Name, err)
		}
		c.pattern = re
		c.patternRequired = p.Required
		return c, nil

	case constants.RuleTypeRange:
		var p RangeParams
		if err := unmarshalParams(rule.Parameters, &p); err != nil {
			return nil, err
		}
		if p.Kind != RangeDate && p.Kind != RangeNumber {
			return nil, fmt.Errorf("%w: range rule %q has unknown kind %q", common.ErrRuleConfiguration, rule.Name, p.Kind)
		}
		if p.Min == "" && p.Max == "" {
			return nil, fmt.Errorf("%w: range rule %q has no bounds", common.ErrRuleConfiguration, rule.Name)
		}
		if err := checkBounds(p); err != nil {
			return nil, fmt.Errorf("%w: range rule %q: %v", common.ErrRuleConfiguration, rule.Name, err)
		}
		c.rangeKind = p.Kind
		c.rangeMin = p.Min
		c.rangeMax = p.Max
		return c, nil

	case constants.RuleTypeEnum:
		var p EnumParams
		if err := unmarshalParams(rule.Parameters, &p); err != nil {
			return nil, err
		}
		if len(p.Allowed) == 0 {
			return nil, fmt.Errorf("%w: enum rule %q has an empty allowed set", common.ErrRuleConfiguration, rule.Name)
		}
		c.allowed = p.Allowed
		c.caseInsensitive = p.CaseInsensitive
		return c, nil

	default:
		return nil, fmt.Errorf("%w: unknown rule type %q", common.ErrRuleConfiguration, rule.RuleType)
	}
}

func unmarshalParams(raw json.RawMessage, dst any) error {
	if len(raw) == 0 {
		return fmt.Errorf("%w: missing parameters", common.ErrRuleConfiguration)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("%w: %v", common.ErrRuleConfiguration, err)
	}
	return nil
}
