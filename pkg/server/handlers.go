package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"atlas-hq/gatewarden/pkg/admission"
	"atlas-hq/gatewarden/pkg/admission/audit"
)

// checkRequest is the JSON body of POST /v1/check.
//
// EventTime is epoch milliseconds. When omitted, the server stamps the
// request with its own receive time; the limiter core itself never does that
// substitution, so replay clients must always send explicit event times.
type checkRequest struct {
	IP        string `json:"ip"`
	Identity  string `json:"identity,omitempty"`
	Path      string `json:"path"`
	Method    string `json:"method"`
	TenantID  string `json:"tenant_id"`
	EventTime *int64 `json:"event_time,omitempty"`
}

// checkResponse is the JSON body of a decision.
type checkResponse struct {
	Allowed   bool   `json:"allowed"`
	Level     string `json:"level,omitempty"`
	Key       string `json:"key,omitempty"`
	Cost      int64  `json:"cost,omitempty"`
	Remaining int64  `json:"remaining"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleCheck(w http.ResponseWriter, r *http.Request) {
	var body checkRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body"})
		return
	}

	eventTime := time.Now().UnixMilli()
	if body.EventTime != nil {
		eventTime = *body.EventTime
	}

	req := admission.Request{
		IP:        body.IP,
		Identity:  body.Identity,
		Path:      body.Path,
		Method:    body.Method,
		TenantID:  body.TenantID,
		EventTime: eventTime,
	}

	decision, err := s.limiter.Check(req)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, admission.ErrInvalidEventTime) {
			status = http.StatusBadRequest
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}

	s.record(r, req, decision)

	status := http.StatusOK
	if !decision.Allowed {
		status = http.StatusTooManyRequests
	}
	writeJSON(w, status, checkResponse{
		Allowed:   decision.Allowed,
		Level:     decision.Level,
		Key:       decision.Key,
		Cost:      decision.Cost,
		Remaining: decision.Remaining,
	})
}

func (s *Server) handleAuditRecent(w http.ResponseWriter, r *http.Request) {
	if s.sink == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "audit trail not configured"})
		return
	}

	records, err := s.sink.Recent(r.Context(), 100)
	if err != nil {
		s.logger.Error("failed to read audit records", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "failed to read audit records"})
		return
	}
	if records == nil {
		records = []*audit.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// record writes the decision to the audit sink, if one is configured.
func (s *Server) record(r *http.Request, req admission.Request, decision *admission.Decision) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Write(r.Context(), audit.NewRecord(req, decision)); err != nil {
		s.logger.Error("failed to write audit record", "error", err)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
