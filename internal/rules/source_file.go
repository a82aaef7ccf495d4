package rules

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
)

// FileSource serves rules from a YAML file, or the built-in baseline when no
// path is configured. Used by the one-shot CLI, which runs without a
// database.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

type yamlRule struct {
	Name        string         `yaml:"name"`
	Field       string         `yaml:"field"`
	RuleType    string         `yaml:"rule_type"`
	Description string         `yaml:"description"`
	Parameters  map[string]any `yaml:"parameters"`
	Severity    string         `yaml:"severity"`
	Active      *bool          `yaml:"active"`
}

func (s *FileSource) ListActiveRules(_ context.Context) ([]entity.ComplianceRule, error) {
	if s.path == "" {
		return DefaultRules(), nil
	}

	raw, err := os.ReadFile(s.path)
	if err != nil {
		return nil, common.WrapError(err, "read rules file")
	}
	var doc struct {
		Rules []yamlRule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, common.WrapError(err, "parse rules file")
	}

	now := time.Now().UTC()
	out := make([]entity.ComplianceRule, 0, len(doc.Rules))
	for i, yr := range doc.Rules {
		if yr.Active != nil && !*yr.Active {
			continue
		}
		if !constants.IsValidField(yr.Field) {
			return nil, fmt.Errorf("rules file entry %d: unknown field %q", i, yr.Field)
		}
		if !constants.ValidRuleType(yr.RuleType) {
			return nil, fmt.Errorf("rules file entry %d: unknown rule_type %q", i, yr.RuleType)
		}
		severity := yr.Severity
		if severity == "" {
			severity = string(constants.SeverityMedium)
		}

		var params json.RawMessage
		if yr.Parameters != nil {
			params, err = json.Marshal(yr.Parameters)
			if err != nil {
				return nil, common.WrapError(err, "encode rule parameters")
			}
		}
		out = append(out, entity.ComplianceRule{
			ID:          uuid.New(),
			Name:        yr.Name,
			Field:       constants.FieldName(yr.Field),
			RuleType:    constants.RuleType(yr.RuleType),
			Description: yr.Description,
			Parameters:  params,
			Severity:    constants.Severity(severity),
			Active:      true,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}
	return out, nil
}

// DefaultRules is the baseline rule set applied when no configuration is
// present anywhere.
func DefaultRules() []entity.ComplianceRule {
	now := time.Now().UTC()
	mk := func(name string, field constants.FieldName, ruleType constants.RuleType, severity constants.Severity, params any) entity.ComplianceRule {
		var raw json.RawMessage
		if params != nil {
			raw, _ = json.Marshal(params)
		}
		return entity.ComplianceRule{
			ID:         uuid.New(),
			Name:       name,
			Field:      field,
			RuleType:   ruleType,
			Parameters: raw,
			Severity:   severity,
			Active:     true,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
	}
	return []entity.ComplianceRule{
		mk("drug name present", constants.FieldDrugName, constants.RuleTypeRequired, constants.SeverityCritical, nil),
		mk("batch number present", constants.FieldBatchNumber, constants.RuleTypeRequired, constants.SeverityCritical, nil),
		mk("batch number format", constants.FieldBatchNumber, constants.RuleTypePattern, constants.SeverityHigh,
			PatternParams{Pattern: `^[A-Z]{2}-\d{4}-\d{6}$`, Required: true}),
		mk("expiry date present", constants.FieldExpiryDate, constants.RuleTypeRequired, constants.SeverityHigh, nil),
		mk("expiry within plausible window", constants.FieldExpiryDate, constants.RuleTypeRange, constants.SeverityMedium,
			RangeParams{Kind: RangeDate, Min: "01/2020", Max: "12/2040"}),
	}
}
