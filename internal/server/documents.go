package server

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/rules"
)

type submitDocumentRequest struct {
	Filename string             `json:"filename"`
	FileType string             `json:"file_type"`
	FileSize int64              `json:"file_size"`
	Raw      entity.RawOCRInput `json:"raw"`
}

// resultResponse decorates a stored result with the derived compliance
// score and the document-level rollup of its checks.
type resultResponse struct {
	*entity.ProcessingResult
	ComplianceScore float64               `json:"compliance_score"`
	OverallStatus   constants.CheckStatus `json:"overall_status"`
	OverallSeverity constants.Severity    `json:"overall_severity"`
}

func newResultResponse(result *entity.ProcessingResult) resultResponse {
	status, severity := rules.Overall(result.Checks)
	return resultResponse{
		ProcessingResult: result,
		ComplianceScore:  rules.Score(result.Checks),
		OverallStatus:    status,
		OverallSeverity:  severity,
	}
}

func (s *Server) handleSubmitDocument(w http.ResponseWriter, r *http.Request) {
	var req submitDocumentRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	if err := validateRawInput(req.Raw); err != nil {
		respondError(w, s.logger, err)
		return
	}
	if req.Filename == "" {
		req.Filename = "untitled"
	}
	if req.FileType == "" {
		req.FileType = "text"
	}

	doc := &entity.Document{
		Filename: req.Filename,
		FileType: req.FileType,
		FileSize: req.FileSize,
	}
	if err := s.svc.documents.Create(r.Context(), doc, &req.Raw); err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondCreated(w, doc)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	status := constants.DocumentStatus(r.URL.Query().Get("status"))
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	offset, _ := strconv.Atoi(r.URL.Query().Get("offset"))

	docs, err := s.svc.documents.List(r.Context(), status, limit, offset)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	if docs == nil {
		docs = []entity.Document{}
	}
	respondOK(w, docs)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	doc, err := s.svc.documents.Get(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondOK(w, doc)
}

func (s *Server) handleProcessDocument(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	if _, err := s.svc.documents.Get(r.Context(), id); err != nil {
		respondError(w, s.logger, err)
		return
	}
	if err := s.svc.Enqueue(r.Context(), id); err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondAccepted(w, map[string]any{"document_id": id, "status": constants.DocStatusPending})
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	result, err := s.svc.results.GetByDocument(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, notFoundAs(err, "no result for document"))
		return
	}
	respondOK(w, newResultResponse(result))
}

// handleValidate runs the full pipeline synchronously and returns the result
// without storing the document.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var raw entity.RawOCRInput
	if err := decodeJSON(r, &raw); err != nil {
		respondError(w, s.logger, err)
		return
	}
	if err := validateRawInput(raw); err != nil {
		respondError(w, s.logger, err)
		return
	}
	result, err := s.svc.Validate(r.Context(), raw)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondOK(w, newResultResponse(result))
}

// validateRawInput applies the OCR input contract identically for stored
// submissions and the synchronous validate endpoint.
func validateRawInput(raw entity.RawOCRInput) error {
	if strings.TrimSpace(raw.Text) == "" {
		return badRequest("raw.text is required")
	}
	for _, tc := range raw.TokenConfidences {
		if tc.Score < 0 || tc.Score > 1 {
			return badRequest("per_token_confidence scores must be in [0,1]")
		}
	}
	return nil
}

func pathUUID(r *http.Request, key string) (uuid.UUID, error) {
	id, err := uuid.Parse(chi.URLParam(r, key))
	if err != nil {
		return uuid.Nil, badRequest("invalid " + key)
	}
	return id, nil
}
