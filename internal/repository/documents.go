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

// DocumentRepository persists submitted documents together with the raw OCR
// payload they arrived with, so a document can be reprocessed after rule
// changes without resubmission.
type DocumentRepository interface {
	Create(ctx context.Context, doc *entity.Document, raw *entity.RawOCRInput) error
	Get(ctx context.Context, id uuid.UUID) (*entity.Document, error)
	GetRawInput(ctx context.Context, id uuid.UUID) (*entity.RawOCRInput, error)
	List(ctx context.Context, status constants.DocumentStatus, limit, offset int) ([]entity.Document, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status constants.DocumentStatus) error
}

type documentRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewDocumentRepository(pool *pgxpool.Pool, logger *slog.Logger) DocumentRepository {
	return &documentRepository{pool: pool, logger: logger}
}

func (r *documentRepository) Create(ctx context.Context, doc *entity.Document, raw *entity.RawOCRInput) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.Status == "" {
		doc.Status = constants.DocStatusPending
	}
	doc.UploadedAt = time.Now().UTC()

	payload, err := json.Marshal(raw)
	if err != nil {
		return common.WrapError(common.ErrInvalidInput, "encode raw input")
	}

	_, err = r.pool.Exec(ctx, `
		INSERT INTO documents (id, filename, file_type, file_size, status, raw_input, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		doc.ID, doc.Filename, doc.FileType, doc.FileSize, string(doc.Status), payload, doc.UploadedAt)
	if err != nil {
		r.logger.Error("failed to create document", "filename", doc.Filename, "error", err)
		return common.WrapError(errors.Join(common.ErrDatabase, err), "create document")
	}
	r.logger.Info("document created", "document_id", doc.ID, "filename", doc.Filename)
	return nil
}

func (r *documentRepository) Get(ctx context.Context, id uuid.UUID) (*entity.Document, error) {
	var (
		doc    entity.Document
		status string
	)
	err := r.pool.QueryRow(ctx, `
		SELECT id, filename, file_type, file_size, status, uploaded_at
		FROM documents WHERE id = $1`, id).
		Scan(&doc.ID, &doc.Filename, &doc.FileType, &doc.FileSize, &status, &doc.UploadedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.WrapError(common.ErrNotFound, fmt.Sprintf("document %s", id))
		}
		r.logger.Error("failed to get document", "document_id", id, "error", err)
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), fmt.Sprintf("get document %s", id))
	}
	doc.Status = constants.DocumentStatus(status)
	return &doc, nil
}

func (r *documentRepository) GetRawInput(ctx context.Context, id uuid.UUID) (*entity.RawOCRInput, error) {
	var payload []byte
	err := r.pool.QueryRow(ctx, `SELECT raw_input FROM documents WHERE id = $1`, id).Scan(&payload)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, common.WrapError(common.ErrNotFound, fmt.Sprintf("document %s", id))
		}
		r.logger.Error("failed to get raw input", "document_id", id, "error", err)
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), fmt.Sprintf("get raw input %s", id))
	}
	var raw entity.RawOCRInput
	if err := json.Unmarshal(payload, &raw); err != nil {
		return nil, common.WrapError(common.ErrInternal, fmt.Sprintf("decode raw input %s", id))
	}
	return &raw, nil
}

func (r *documentRepository) List(ctx context.Context, status constants.DocumentStatus, limit, offset int) ([]entity.Document, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	q := `SELECT id, filename, file_type, file_size, status, uploaded_at FROM documents`
	args := []any{}
	if status != "" {
		q += ` WHERE status = $1`
		args = append(args, string(status))
	}
	q += fmt.Sprintf(` ORDER BY uploaded_at DESC, id LIMIT %d OFFSET %d`, limit, offset)

	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		r.logger.Error("failed to list documents", "error", err)
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "list documents")
	}
	defer rows.Close()

	var out []entity.Document
	for rows.Next() {
		var (
			doc entity.Document
			st  string
		)
		if err := rows.Scan(&doc.ID, &doc.Filename, &doc.FileType, &doc.FileSize, &st, &doc.UploadedAt); err != nil {
			return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "scan document")
		}
		doc.Status = constants.DocumentStatus(st)
		out = append(out, doc)
	}
	if err := rows.Err(); err != nil {
		return nil, common.WrapError(errors.Join(common.ErrDatabase, err), "iterate documents")
	}
	return out, nil
}

func (r *documentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status constants.DocumentStatus) error {
	tag, err := r.pool.Exec(ctx, `UPDATE documents SET status = $2 WHERE id = $1`, id, string(status))
	if err != nil {
		r.logger.Error("failed to update document status", "document_id", id, "error", err)
		return common.WrapError(errors.Join(common.ErrDatabase, err), fmt.Sprintf("update document %s", id))
	}
	if tag.RowsAffected() == 0 {
		return common.WrapError(common.ErrNotFound, fmt.Sprintf("document %s", id))
	}
	r.logger.Debug("document status updated", "document_id", id, "status", status)
	return nil
}
