package repository

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/common"
)

// DashboardStats summarizes the document corpus for the analytics endpoints.
type DashboardStats struct {
	TotalDocuments       int64   `json:"total_documents"`
	ProcessedDocuments   int64   `json:"processed_documents"`
	FailedDocuments      int64   `json:"failed_documents"`
	ControlledSubstances int64   `json:"controlled_substances"`
	TotalChecks          int64   `json:"total_checks"`
	PassedChecks         int64   `json:"passed_checks"`
	FailedChecks         int64   `json:"failed_checks"`
	WarningChecks        int64   `json:"warning_checks"`
	ComplianceRate       float64 `json:"compliance_rate"`
	TotalDetections      int64   `json:"total_detections"`
}

// ErrorBreakdown counts detections by type and field.
type ErrorBreakdown struct {
	ErrorType string `json:"error_type"`
	FieldName string `json:"field_name"`
	Count     int64  `json:"count"`
}

// TrendPoint is one day of check outcomes.
type TrendPoint struct {
	Day     time.Time `json:"day"`
	Passed  int64     `json:"passed"`
	Failed  int64     `json:"failed"`
	Warning int64     `json:"warning"`
}

// ConfidenceBucket is one bin of the extraction confidence histogram.
type ConfidenceBucket struct {
	Field string  `json:"field"`
	Low   float64 `json:"low"`
	High  float64 `json:"high"`
	Count int64   `json:"count"`
}

// AnalyticsRepository serves read-only aggregate queries for the dashboard.
type AnalyticsRepository interface {
	Dashboard(ctx context.Context) (*DashboardStats, error)
	ErrorAnalysis(ctx context.Context) ([]ErrorBreakdown, error)
	ComplianceTrends(ctx context.Context, days int) ([]TrendPoint, error)
	ConfidenceDistribution(ctx context.Context) ([]ConfidenceBucket, error)
}

type analyticsRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewAnalyticsRepository(pool *pgxpool.Pool, logger *slog.Logger) AnalyticsRepository {
	return &analyticsRepository{pool: pool, logger: logger}
}

func (r *analyticsRepository) Dashboard(ctx context.Context) (*DashboardStats, error) {
	var s DashboardStats
	err := r.pool.QueryRow(ctx, `
		SELECT
		  (SELECT count(*) FROM documents),
		  (SELECT count(*) FROM documents WHERE status = 'COMPLETED'),
		  (SELECT count(*) FROM documents WHERE status = 'FAILED'),
		  (SELECT count(*) FROM processing_results WHERE controlled_substance),
		  (SELECT count(*) FROM compliance_checks),
		  (SELECT count(*) FROM compliance_checks WHERE status = 'passed'),
		  (SELECT count(*) FROM compliance_checks WHERE status = 'failed'),
		  (SELECT count(*) FROM compliance_checks WHERE status = 'warning'),
		  (SELECT count(*) FROM error_detections)`).
		Scan(&s.TotalDocuments, &s.ProcessedDocuments, &s.FailedDocuments,
			&s.ControlledSubstances, &s.TotalChecks, &s.PassedChecks,
			&s.FailedChecks, &s.WarningChecks, &s.TotalDetections)
	if err != nil {
		r.logger.Error("failed to compute dashboard stats", "error", err)
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "dashboard stats")
	}
	if s.TotalChecks > 0 {
		s.ComplianceRate = float64(s.PassedChecks) / float64(s.TotalChecks)
	}
	return &s, nil
}

func (r *analyticsRepository) ErrorAnalysis(ctx context.Context) ([]ErrorBreakdown, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT error_type, field_name, count(*)
		FROM error_detections
		GROUP BY error_type, field_name
		ORDER BY count(*) DESC, error_type, field_name`)
	if err != nil {
		r.logger.Error("failed to run error analysis", "error", err)
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "error analysis")
	}
	defer rows.Close()

	var out []ErrorBreakdown
	for rows.Next() {
		var b ErrorBreakdown
		if err := rows.Scan(&b.ErrorType, &b.FieldName, &b.Count); err != nil {
			return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "scan error breakdown")
		}
		out = append(out, b)
	}
	return out, rows.Err()
}

func (r *analyticsRepository) ComplianceTrends(ctx context.Context, days int) ([]TrendPoint, error) {
	if days <= 0 || days > 365 {
		days = 30
	}
	rows, err := r.pool.Query(ctx, `
		SELECT date_trunc('day', checked_at) AS day,
		       count(*) FILTER (WHERE status = 'passed'),
		       count(*) FILTER (WHERE status = 'failed'),
		       count(*) FILTER (WHERE status = 'warning')
		FROM compliance_checks
		WHERE checked_at >= now() - make_interval(days => $1)
		GROUP BY day
		ORDER BY day`, days)
	if err != nil {
		r.logger.Error("failed to compute compliance trends", "error", err)
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "compliance trends")
	}
	defer rows.Close()

	var out []TrendPoint
	for rows.Next() {
		var p TrendPoint
		if err := rows.Scan(&p.Day, &p.Passed, &p.Failed, &p.Warning); err != nil {
			return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "scan trend point")
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// ConfidenceDistribution bins per-field extraction confidence into tenths,
// reading confidence straight out of the stored fields JSON.
func (r *analyticsRepository) ConfidenceDistribution(ctx context.Context) ([]ConfidenceBucket, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT f.key,
		       floor((f.value->>'confidence')::float * 10) / 10 AS bucket,
		       count(*)
		FROM processing_results pr,
		     jsonb_each(pr.fields) f
		WHERE f.value->>'value' IS NOT NULL
		GROUP BY f.key, bucket
		ORDER BY f.key, bucket`)
	if err != nil {
		r.logger.Error("failed to compute confidence distribution", "error", err)
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "confidence distribution")
	}
	defer rows.Close()

	var out []ConfidenceBucket
	for rows.Next() {
		var b ConfidenceBucket
		if err := rows.Scan(&b.Field, &b.Low, &b.Count); err != nil {
			return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "scan confidence bucket")
		}
		b.High = b.Low + 0.1
		out = append(out, b)
	}
	return out, rows.Err()
}
