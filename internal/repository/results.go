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

// ResultRepository persists processing results. Checks and detections are
// written in the same transaction as the result row, in evaluation order,
// so a stored result is always complete.
type ResultRepository interface {
	Save(ctx context.Context, result *entity.ProcessingResult) error
	Get(ctx context.Context, id uuid.UUID) (*entity.ProcessingResult, error)
	GetByDocument(ctx context.Context, documentID uuid.UUID) (*entity.ProcessingResult, error)
}

type resultRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewResultRepository(pool *pgxpool.Pool, logger *slog.Logger) ResultRepository {
	return &resultRepository{pool: pool, logger: logger}
}

func (r *resultRepository) Save(ctx context.Context, result *entity.ProcessingResult) error {
	if result.ID == uuid.Nil {
		result.ID = uuid.New()
	}
	if result.ProcessedAt.IsZero() {
		result.ProcessedAt = time.Now().UTC()
	}

	normalized, err := json.Marshal(result.Normalized)
	if err != nil {
		return common.WrapError(common.ErrInternal, "encode normalized document")
	}
	fields, err := json.Marshal(result.Fields)
	if err != nil {
		return common.WrapError(common.ErrInternal, "encode extracted fields")
	}

	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return common.WrapError(errors.Join(common.ErrDatabase, err), "begin save result")
	}
	defer tx.Rollback(ctx)

	// On reprocessing the previous result is replaced wholesale.
	if _, err := tx.Exec(ctx, `DELETE FROM processing_results WHERE document_id = $1`, result.DocumentID); err != nil {
		return common.WrapError(errors.Join(common.ErrDatabase, err), "clear previous result")
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO processing_results (id, document_id, normalized, fields, controlled_substance, rules_version, processed_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		result.ID, result.DocumentID, normalized, fields,
		result.ControlledSubstance, result.RulesVersion, result.ProcessedAt)
	if err != nil {
		return common.WrapError(errors.Join(common.ErrDatabase, err), "insert result")
	}

	for i, c := range result.Checks {
		_, err = tx.Exec(ctx, `
			INSERT INTO compliance_checks (result_id, seq, rule_id, rule_name, field, status, message, severity)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			result.ID, i, c.RuleID, c.RuleName, string(c.Field), string(c.Status), c.Message, string(c.Severity))
		if err != nil {
			return common.WrapError(errors.Join(common.ErrDatabase, err), "insert check")
		}
	}
	for i, d := range result.Detections {
		_, err = tx.Exec(ctx, `
			INSERT INTO error_detections (result_id, seq, field_name, error_type, expected_value, actual_value, confidence, suggestion)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			result.ID, i, string(d.FieldName), string(d.ErrorType), d.ExpectedValue, d.ActualValue, d.Confidence, d.Suggestion)
		if err != nil {
			return common.WrapError(errors.Join(common.ErrDatabase, err), "insert detection")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return common.WrapError(errors.Join(common.ErrDatabase, err), "commit result")
	}
	r.logger.Info("result saved",
		"result_id", result.ID,
		"document_id", result.DocumentID,
		"checks", len(result.Checks),
		"detections", len(result.Detections))
	return nil
}

func (r *resultRepository) Get(ctx context.Context, id uuid.UUID) (*entity.ProcessingResult, error) {
	return r.getOne(ctx, `WHERE id = $1`, id)
}

func (r *resultRepository) GetByDocument(ctx context.Context, documentID uuid.UUID) (*entity.ProcessingResult, error) {
	return r.getOne(ctx, `WHERE document_id = $1 ORDER BY processed_at DESC LIMIT 1`, documentID)
}

func (r *resultRepository) getOne(ctx context.Context, where string, arg any) (*entity.ProcessingResult, error) {
	var (
		result     entity.ProcessingResult
		normalized []byte
		fields     []byte
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, document_id, normalized, fields, controlled_substance, rules_version, processed_at
		FROM processing_results `+where, arg).
		Scan(&result.ID, &result.DocumentID, &normalized, &fields,
			&result.ControlledSubstance, &result.RulesVersion, &result.ProcessedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.WrapError(common.ErrNotFound, fmt.Sprintf("result for %v", arg))
		}
		r.logger.Error("failed to get result", "error", err)
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "get result")
	}
	if err := json.Unmarshal(normalized, &result.Normalized); err != nil {
		return nil, common.WrapError(common.ErrInternal, "decode normalized document")
	}
	if err := json.Unmarshal(fields, &result.Fields); err != nil {
		return nil, common.WrapError(common.ErrInternal, "decode extracted fields")
	}

	if result.Checks, err = r.loadChecks(ctx, result.ID); err != nil {
		return nil, err
	}
	if result.Detections, err = r.loadDetections(ctx, result.ID); err != nil {
		return nil, err
	}
	return &result, nil
}

func (r *resultRepository) loadChecks(ctx context.Context, resultID uuid.UUID) ([]entity.ComplianceCheck, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT rule_id, rule_name, field, status, message, severity
		FROM compliance_checks WHERE result_id = $1 ORDER BY seq`, resultID)
	if err != nil {
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "load checks")
	}
	defer rows.Close()

	var out []entity.ComplianceCheck
	for rows.Next() {
		var (
			c                       entity.ComplianceCheck
			field, status, severity string
		)
		if err := rows.Scan(&c.RuleID, &c.RuleName, &field, &status, &c.Message, &severity); err != nil {
			return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "scan check")
		}
		c.Field = constants.FieldName(field)
		c.Status = constants.CheckStatus(status)
		c.Severity = constants.Severity(severity)
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *resultRepository) loadDetections(ctx context.Context, resultID uuid.UUID) ([]entity.ErrorDetection, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT field_name, error_type, expected_value, actual_value, confidence, suggestion
		FROM error_detections WHERE result_id = $1 ORDER BY seq`, resultID)
	if err != nil {
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "load detections")
	}
	defer rows.Close()

	var out []entity.ErrorDetection
	for rows.Next() {
		var (
			d                     entity.ErrorDetection
			fieldName, errorType string
		)
		if err := rows.Scan(&fieldName, &errorType, &d.ExpectedValue, &d.ActualValue, &d.Confidence, &d.Suggestion); err != nil {
			return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "scan detection")
		}
		d.FieldName = constants.FieldName(fieldName)
		d.ErrorType = constants.ErrorType(errorType)
		out = append(out, d)
	}
	return out, rows.Err()
}
