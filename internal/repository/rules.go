package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
)

// RuleRepository manages compliance rule persistence. It also satisfies
// rules.Source so the in-memory snapshot store can refresh from it.
type RuleRepository interface {
	Create(ctx context.Context, rule *entity.ComplianceRule) error
	Get(ctx context.Context, id uuid.UUID) (*entity.ComplianceRule, error)
	List(ctx context.Context, includeInactive bool) ([]entity.ComplianceRule, error)
	Update(ctx context.Context, rule *entity.ComplianceRule) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) (*entity.ComplianceRule, error)
	Delete(ctx context.Context, id uuid.UUID) error
	ListActiveRules(ctx context.Context) ([]entity.ComplianceRule, error)
}

type ruleRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewRuleRepository(pool *pgxpool.Pool, logger *slog.Logger) RuleRepository {
	return &ruleRepository{pool: pool, logger: logger}
}

const ruleColumns = `id, name, field, rule_type, description, parameters, severity, active, created_at, updated_at`

func (r *ruleRepository) Create(ctx context.Context, rule *entity.ComplianceRule) error {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	now := time.Now().UTC()
	rule.CreatedAt = now
	rule.UpdatedAt = now

	_, err := r.pool.Exec(ctx, `
		INSERT INTO compliance_rules (`+ruleColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		rule.ID, rule.Name, string(rule.Field), string(rule.RuleType), rule.Description,
		nullableJSON(rule.Parameters), string(rule.Severity), rule.Active, rule.CreatedAt, rule.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to create rule", "rule_name", rule.Name, "error", err)
		return common.WrapError(errors.Join(common.ErrDatabase, err), fmt.Sprintf("create rule %s", rule.Name))
	}
	r.logger.Info("rule created", "rule_id", rule.ID, "rule_name", rule.Name)
	return nil
}

func (r *ruleRepository) Get(ctx context.Context, id uuid.UUID) (*entity.ComplianceRule, error) {
	row := r.pool.QueryRow(ctx, `SELECT `+ruleColumns+` FROM compliance_rules WHERE id = $1`, id)
	rule, err := scanRule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.WrapError(common.ErrNotFound, fmt.Sprintf("rule %s", id))
		}
		r.logger.Error("failed to get rule", "rule_id", id, "error", err)
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), fmt.Sprintf("get rule %s", id))
	}
	return rule, nil
}

func (r *ruleRepository) List(ctx context.Context, includeInactive bool) ([]entity.ComplianceRule, error) {
	q := `SELECT ` + ruleColumns + ` FROM compliance_rules`
	if !includeInactive {
		q += ` WHERE active`
	}
	q += ` ORDER BY created_at, id`

	rows, err := r.pool.Query(ctx, q)
	if err != nil {
		r.logger.Error("failed to list rules", "error", err)
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "list rules")
	}
	defer rows.Close()
	return collectRules(rows)
}

func (r *ruleRepository) ListActiveRules(ctx context.Context) ([]entity.ComplianceRule, error) {
	return r.List(ctx, false)
}

func (r *ruleRepository) Update(ctx context.Context, rule *entity.ComplianceRule) error {
	rule.UpdatedAt = time.Now().UTC()
	tag, err := r.pool.Exec(ctx, `
		UPDATE compliance_rules
		SET name = $2, field = $3, rule_type = $4, description = $5,
		    parameters = $6, severity = $7, active = $8, updated_at = $9
		WHERE id = $1`,
		rule.ID, rule.Name, string(rule.Field), string(rule.RuleType), rule.Description,
		nullableJSON(rule.Parameters), string(rule.Severity), rule.Active, rule.UpdatedAt)
	if err != nil {
		r.logger.Error("failed to update rule", "rule_id", rule.ID, "error", err)
		return common.WrapError(errors.Join(common.ErrDatabase, err), fmt.Sprintf("update rule %s", rule.ID))
	}
	if tag.RowsAffected() == 0 {
		return common.WrapError(common.ErrNotFound, fmt.Sprintf("rule %s", rule.ID))
	}
	r.logger.Info("rule updated", "rule_id", rule.ID)
	return nil
}

func (r *ruleRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) (*entity.ComplianceRule, error) {
	row := r.pool.QueryRow(ctx, `
		UPDATE compliance_rules SET active = $2, updated_at = now()
		WHERE id = $1
		RETURNING `+ruleColumns, id, active)
	rule, err := scanRule(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.WrapError(common.ErrNotFound, fmt.Sprintf("rule %s", id))
		}
		r.logger.Error("failed to toggle rule", "rule_id", id, "error", err)
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), fmt.Sprintf("toggle rule %s", id))
	}
	r.logger.Info("rule toggled", "rule_id", id, "active", active)
	return rule, nil
}

func (r *ruleRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM compliance_rules WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("failed to delete rule", "rule_id", id, "error", err)
		return common.WrapError(errors.Join(common.ErrDatabase, err), fmt.Sprintf("delete rule %s", id))
	}
	if tag.RowsAffected() == 0 {
		return common.WrapError(common.ErrNotFound, fmt.Sprintf("rule %s", id))
	}
	r.logger.Info("rule deleted", "rule_id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRule(row rowScanner) (*entity.ComplianceRule, error) {
	var (
		rule     entity.ComplianceRule
		field    string
		ruleType string
		severity string
		params   []byte
	)
	err := row.Scan(&rule.ID, &rule.Name, &field, &ruleType, &rule.Description,
		&params, &severity, &rule.Active, &rule.CreatedAt, &rule.UpdatedAt)
	if err != nil {
		return nil, err
	}
	rule.Field = constants.FieldName(field)
	rule.RuleType = constants.RuleType(ruleType)
	rule.Severity = constants.Severity(severity)
	rule.Parameters = json.RawMessage(params)
	return &rule, nil
}

func collectRules(rows pgx.Rows) ([]entity.ComplianceRule, error) {
	var out []entity.ComplianceRule
	for rows.Next() {
		rule, err := scanRule(rows)
		if err != nil {
			return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "scan rule")
		}
		out = append(out, *rule)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "iterate rules")
	}
	return out, nil
}

// nullableJSON maps an empty parameters payload to SQL NULL.
func nullableJSON(raw json.RawMessage) any {
	if len(raw) == 0 {
		return nil
	}
	return []byte(raw)
}
