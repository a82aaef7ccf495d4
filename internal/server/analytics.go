package server

import (
	"fmt"
	"net/http"
	"strconv"
	"time"
)

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	stats, err := s.svc.analytics.Dashboard(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondOK(w, stats)
}

func (s *Server) handleErrorAnalysis(w http.ResponseWriter, r *http.Request) {
	breakdown, err := s.svc.analytics.ErrorAnalysis(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondOK(w, breakdown)
}

func (s *Server) handleTrends(w http.ResponseWriter, r *http.Request) {
	days, _ := strconv.Atoi(r.URL.Query().Get("days"))
	trends, err := s.svc.analytics.ComplianceTrends(r.Context(), days)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondOK(w, trends)
}

func (s *Server) handleConfidenceDistribution(w http.ResponseWriter, r *http.Request) {
	buckets, err := s.svc.analytics.ConfidenceDistribution(r.Context())
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	respondOK(w, buckets)
}

func (s *Server) handleExportCompliance(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	data, err := s.svc.exporter.ExportComplianceXLSX(r.Context(), limit)
	if err != nil {
		respondError(w, s.logger, err)
		return
	}
	filename := fmt.Sprintf("compliance-report-%s.xlsx", time.Now().UTC().Format("20060102-150405"))
	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}
