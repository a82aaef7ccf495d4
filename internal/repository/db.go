package repository

import (
	"context"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Config struct {
	DSN             string
	MaxConns        int32
	MinConns        int32
	MaxConnLifetime time.Duration
	MaxConnIdleTime time.Duration
	DialTimeout     time.Duration
}

// Open creates the pgx pool used by all repositories.
func Open(ctx context.Context, cfg Config, logger *slog.Logger) (*pgxpool.Pool, error) {
	logger.Info("connecting to database")
	pc, err := pgxpool.ParseConfig(cfg.DSN)
	if err != nil {
		logger.Error("failed to parse database config", "error", err)
		return nil, err
	}

	pc.MaxConns = cfg.MaxConns
	pc.MinConns = cfg.MinConns
	pc.MaxConnLifetime = cfg.MaxConnLifetime
	pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	pc.ConnConfig.RuntimeParams["application_name"] = "pharma-compliance"

	ctx, cancel := context.WithTimeout(ctx, cfg.DialTimeout)
	defer cancel()
	pool, err := pgxpool.NewWithConfig(ctx, pc)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		return nil, err
	}

	logger.Info("successfully connected to database")
	return pool, nil
}

// HealthCheck pings the pool to catch DSN issues early.
func HealthCheck(ctx context.Context, pool *pgxpool.Pool, timeout time.Duration, logger *slog.Logger) error {
	logger.Debug("pinging database")
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	return pool.Ping(ctx)
}

// schema is the DDL applied on startup. db/ent/schema holds the
// source-of-truth entity definitions; this mirror keeps a fresh database
// usable without a separate migration step.
const schema = `
CREATE TABLE IF NOT EXISTS documents (
  id UUID PRIMARY KEY,
  filename TEXT NOT NULL,
  file_type TEXT NOT NULL,
  file_size BIGINT NOT NULL DEFAULT 0,
  status TEXT NOT NULL,
  raw_input JSONB NOT NULL,
  uploaded_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS compliance_rules (
  id UUID PRIMARY KEY,
  name TEXT NOT NULL,
  field TEXT NOT NULL,
  rule_type TEXT NOT NULL,
  description TEXT NOT NULL DEFAULT '',
  parameters JSONB,
  severity TEXT NOT NULL,
  active BOOLEAN NOT NULL DEFAULT TRUE,
  created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
  updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS processing_results (
  id UUID PRIMARY KEY,
  document_id UUID NOT NULL REFERENCES documents(id) ON DELETE CASCADE,
  normalized JSONB NOT NULL,
  fields JSONB NOT NULL,
  controlled_substance BOOLEAN NOT NULL DEFAULT FALSE,
  rules_version BIGINT NOT NULL DEFAULT 0,
  processed_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS compliance_checks (
  id BIGSERIAL PRIMARY KEY,
  result_id UUID NOT NULL REFERENCES processing_results(id) ON DELETE CASCADE,
  seq INT NOT NULL,
  rule_id UUID NOT NULL,
  rule_name TEXT NOT NULL,
  field TEXT NOT NULL,
  status TEXT NOT NULL,
  message TEXT NOT NULL,
  severity TEXT NOT NULL,
  checked_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS error_detections (
  id BIGSERIAL PRIMARY KEY,
  result_id UUID NOT NULL REFERENCES processing_results(id) ON DELETE CASCADE,
  seq INT NOT NULL,
  field_name TEXT NOT NULL,
  error_type TEXT NOT NULL,
  expected_value TEXT,
  actual_value TEXT NOT NULL,
  confidence DOUBLE PRECISION NOT NULL,
  suggestion TEXT,
  detected_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS idx_documents_status ON documents(status);
CREATE INDEX IF NOT EXISTS idx_results_document ON processing_results(document_id);
CREATE INDEX IF NOT EXISTS idx_checks_result ON compliance_checks(result_id);
CREATE INDEX IF NOT EXISTS idx_detections_result ON error_detections(result_id);
CREATE INDEX IF NOT EXISTS idx_rules_active ON compliance_rules(active);
`

// EnsureSchema applies the DDL; all statements are idempotent.
func EnsureSchema(ctx context.Context, pool *pgxpool.Pool, logger *slog.Logger) error {
	if _, err := pool.Exec(ctx, schema); err != nil {
		logger.Error("failed to ensure schema", "error", err)
		return err
	}
	logger.Info("database schema ensured")
	return nil
}
