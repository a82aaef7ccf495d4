package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/constants"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/entity"
	"github.com/ANMOLJENA/ocr-on-pharma-compliance-sub001/internal/rules"
)

type rulePayload struct {
	Name        string          `json:"name"`
	Field       string          `json:"field"`
	RuleType    string          `json:"rule_type"`
	Description string          `json:"description"`
	Parameters  json.RawMessage `json:"parameters"`
	Severity    string          `json:"severity"`
	Active      *bool           `json:"active"`
}

func (p *rulePayload) validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return badRequest("name is required")
	}
	if !constants.IsValidField(p.Field) {
		return badRequest("unknown field: " + p.Field)
	}
	if !constants.ValidRuleType(p.RuleType) {
		return badRequest("unknown rule_type: " + p.RuleType)
	}
	if p.Severity == "" {
		p.Severity = string(constants.SeverityMedium)
	}
	if !constants.ValidSeverity(p.Severity) {
		return badRequest("unknown severity: " + p.Severity)
	}
	return rules.ValidateParameters(constants.RuleType(p.RuleType), p.Parameters)
}

func (p *rulePayload) apply(rule *entity.ComplianceRule) {
	rule.Name = p.Name
	rule.Field = constants.FieldName(p.Field)
	rule.RuleType = constants.RuleType(p.RuleType)
	rule.Description = p.Description
	rule.Parameters = p.Parameters
	rule.Severity = constants.Severity(p.Severity)
	rule.Active = true
	if p.Active != nil {
		rule.Active = *p.Active
	}
}

func (s *Server) handleCreateRule(w http.ResponseWriter, r *http.Request) {
	var req rulePayload
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, s.logger, err)
		return
	}

	var rule entity.ComplianceRule
	req.apply(&rule)
	if err := s.svc.rules.Create(r.Context(), &rule); err != nil {
		respondError(w, s.logger, err)
		return
	}
	s.svc.RefreshRules(r.Context())
	respondCreated(w, rule)
}

func (s *Server) handleListRules(w http.ResponseWriter, r *http.Request) {
	includeInactive := r.URL.Query().Get("include_inactive") == "true"
	list, err := s.svc.rules.List(r.Context(), includeInactive)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	if list == nil {
		list = []entity.ComplianceRule{}
	}
	respondOK(w, list)
}

func (s *Server) handleGetRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	rule, err := s.svc.rules.Get(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondOK(w, rule)
}

func (s *Server) handleUpdateRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	var req rulePayload
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, s.logger, err)
		return
	}
	if err := req.validate(); err != nil {
		respondError(w, s.logger, err)
		return
	}

	rule, err := s.svc.rules.Get(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	req.apply(rule)
	if err := s.svc.rules.Update(r.Context(), rule); err != nil {
		respondError(w, s.logger, err)
		return
	}
	s.svc.RefreshRules(r.Context())
	respondOK(w, rule)
}

func (s *Server) handleToggleRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	current, err := s.svc.rules.Get(r.Context(), id)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	rule, err := s.svc.rules.SetActive(r.Context(), id, !current.Active)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	s.svc.RefreshRules(r.Context())
	respondOK(w, rule)
}

func (s *Server) handleDeleteRule(w http.ResponseWriter, r *http.Request) {
	id, err := pathUUID(r, "id")
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	if err := s.svc.rules.Delete(r.Context(), id); err != nil {
		respondError(w, s.logger, err)
		return
	}
	s.svc.RefreshRules(r.Context())
	respondOK(w, map[string]any{"deleted": id})
}
