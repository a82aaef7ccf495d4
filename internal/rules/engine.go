package rules

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/fields"
)

// Engine evaluates a rule snapshot against one document's extracted fields.
// Pure computation: no I/O, no shared state, deterministic output order
// matching rule order.
type Engine struct {
	logger *slog.Logger
}

func NewEngine(logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{logger: logger}
}

// Evaluate emits exactly one check per active rule, in rule order. Inactive
// rules are skipped entirely. A malformed rule grades as failed with a
// message identifying the configuration defect and evaluation continues.
func (e *Engine) Evaluate(f entity.ExtractedFields, snapshot Snapshot) []entity.ComplianceCheck {
	checks := make([]entity.ComplianceCheck, 0, len(snapshot.Rules))
	for _, rule := range snapshot.Rules {
		if !rule.Active {
			continue
		}

		c, err := compile(rule)
		if err != nil {
			e.logger.Warn("rules.compile_failed", "rule_id", rule.ID, "rule_name", rule.Name, "error", err)
			checks = append(checks, entity.ComplianceCheck{
				RuleID:   rule.ID,
				RuleName: rule.Name,
				Field:    rule.Field,
				Status:   constants.CheckFailed,
				Message:  fmt.Sprintf("rule configuration defect: %v", err),
				Severity: rule.Severity,
			})
			continue
		}

		status, message := c.evaluate(f.Get(rule.Field))
		checks = append(checks, entity.ComplianceCheck{
			RuleID:   rule.ID,
			RuleName: rule.Name,
			Field:    rule.Field,
			Status:   status,
			Message:  message,
			Severity: rule.Severity,
		})
	}
	return checks
}

func (c *compiled) evaluate(fv entity.FieldValue) (constants.CheckStatus, string) {
	switch c.rule.RuleType {
	case constants.RuleTypeRequired:
		return c.evaluateRequired(fv)
	case constants.RuleTypePattern:
		return c.evaluatePattern(fv)
	case constants.RuleTypeRange:
		return c.evaluateRange(fv)
	default:
		return c.evaluateEnum(fv)
	}
}

func (c *compiled) evaluateRequired(fv entity.FieldValue) (constants.CheckStatus, string) {
	if !fv.Found() {
		return constants.CheckFailed, fmt.Sprintf("%s is required but was not found", c.rule.Field)
	}
	return constants.CheckPassed, fmt.Sprintf("%s present", c.rule.Field)
}

func (c *compiled) evaluatePattern(fv entity.FieldValue) (constants.CheckStatus, string) {
	if !fv.Found() {
		if c.patternRequired {
			return constants.CheckFailed, fmt.Sprintf("%s is required but was not found", c.rule.Field)
		}
		return constants.CheckWarning, fmt.Sprintf("%s not found; pattern not evaluated", c.rule.Field)
	}
	if !c.pattern.MatchString(fv.Text()) {
		return constants.CheckFailed, fmt.Sprintf("%s %q does not match required format", c.rule.Field, fv.Text())
	}
	return constants.CheckPassed, fmt.Sprintf("%s matches required format", c.rule.Field)
}

func (c *compiled) evaluateRange(fv entity.FieldValue) (constants.CheckStatus, string) {
	if !fv.Found() {
		return constants.CheckWarning, fmt.Sprintf("%s not found; range not evaluated", c.rule.Field)
	}
	switch c.rangeKind {
	case RangeDate:
		v, ok := fields.ParseExpiryDate(fv.Text())
		if !ok {
			return constants.CheckFailed, fmt.Sprintf("%s %q is not a parsable date", c.rule.Field, fv.Text())
		}
		if c.rangeMin != "" {
			if min, _ := fields.ParseExpiryDate(c.rangeMin); v.Before(min) {
				return constants.CheckFailed, fmt.Sprintf("%s %q is before %s", c.rule.Field, fv.Text(), c.rangeMin)
			}
		}
		if c.rangeMax != "" {
			if max, _ := fields.ParseExpiryDate(c.rangeMax); v.After(max) {
				return constants.CheckFailed, fmt.Sprintf("%s %q is after %s", c.rule.Field, fv.Text(), c.rangeMax)
			}
		}
	default:
		v, err := strconv.ParseFloat(strings.TrimSpace(fv.Text()), 64)
		if err != nil {
			return constants.CheckFailed, fmt.Sprintf("%s %q is not a parsable number", c.rule.Field, fv.Text())
		}
		if c.rangeMin != "" {
			if min, _ := strconv.ParseFloat(c.rangeMin, 64); v < min {
				return constants.CheckFailed, fmt.Sprintf("%s %v is below %s", c.rule.Field, v, c.rangeMin)
			}
		}
		if c.rangeMax != "" {
			if max, _ := strconv.ParseFloat(c.rangeMax, 64); v > max {
				return constants.CheckFailed, fmt.Sprintf("%s %v is above %s", c.rule.Field, v, c.rangeMax)
			}
		}
	}
	return constants.CheckPassed, fmt.Sprintf("%s within range", c.rule.Field)
}

func (c *compiled) evaluateEnum(fv entity.FieldValue) (constants.CheckStatus, string) {
	if !fv.Found() {
		return constants.CheckWarning, fmt.Sprintf("%s not found; membership not evaluated", c.rule.Field)
	}
	value := fv.Text()
	for _, allowed := range c.allowed {
		if allowed == value || (c.caseInsensitive && strings.EqualFold(allowed, value)) {
			return constants.CheckPassed, fmt.Sprintf("%s %q is in the allowed set", c.rule.Field, value)
		}
	}
	return constants.CheckFailed, fmt.Sprintf("%s %q is not in the allowed set", c.rule.Field, value)
}

// checkBounds verifies range bounds parse for their declared kind.
func checkBounds(p RangeParams) error {
	parse := func(s string) error {
		if s == "" {
			return nil
		}
		if p.Kind == RangeDate {
			if _, ok := fields.ParseExpiryDate(s); !ok {
				return fmt.Errorf("bound %q is not a parsable date", s)
			}
			return nil
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return fmt.Errorf("bound %q is not a parsable number", s)
		}
		return nil
	}
	if err := parse(p.Min); err != nil {
		return err
	}
	if err := parse(p.Max); err != nil {
		return err
	}
	if p.Kind == RangeDate && p.Min != "" && p.Max != "" {
		min, _ := fields.ParseExpiryDate(p.Min)
		max, _ := fields.ParseExpiryDate(p.Max)
		if max.Before(min) {
			return fmt.Errorf("max %q precedes min %q", p.Max, p.Min)
		}
	}
	return nil
}
