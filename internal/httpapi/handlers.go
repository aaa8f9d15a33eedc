// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/muchan23/paper-research-agent/internal/dialog"
	"github.com/muchan23/paper-research-agent/internal/search"
	"github.com/muchan23/paper-research-agent/pkg/types"
)

type chatRequest struct {
	SessionID string `json:"session_id,omitempty"`
	Message   string `json:"message"`
}

type chatResponse struct {
	SessionID     string                  `json:"session_id"`
	Response      string                  `json:"response"`
	ReadyToSearch bool                    `json:"ready_to_search"`
	Parameters    *types.SearchParameters `json:"parameters,omitempty"`
}

type searchRequest struct {
	SessionID string `json:"session_id"`
}

type searchResponse struct {
	SessionID string        `json:"session_id"`
	Results   []types.Paper `json:"results"`
	Summary   string        `json:"summary"`
	Count     int           `json:"count"`
	Truncated bool          `json:"truncated"`
	Warning   string        `json:"warning,omitempty"`
	HistoryID string        `json:"history_id,omitempty"`
}

type resetRequest struct {
	SessionID string `json:"session_id"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	id, reply, err := s.agent.StartOrContinue(r.Context(), req.SessionID, req.Message)
	if err != nil {
		s.writeAgentError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, chatResponse{
		SessionID:     id,
		Response:      reply.Text,
		ReadyToSearch: reply.ReadyToSearch,
		Parameters:    reply.Parameters,
	})
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	outcome, err := s.agent.ConfirmSearch(r.Context(), req.SessionID)
	if err != nil {
		s.writeAgentError(w, err)
		return
	}

	results := outcome.Result.Papers
	if results == nil {
		results = []types.Paper{}
	}
	writeJSON(w, http.StatusOK, searchResponse{
		SessionID: req.SessionID,
		Results:   results,
		Summary:   outcome.Summary,
		Count:     outcome.Result.Actual,
		Truncated: outcome.Result.Truncated,
		Warning:   outcome.Result.Warning,
		HistoryID: outcome.HistoryID,
	})
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.SessionID == "" {
		writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}

	if err := s.agent.Reset(req.SessionID); err != nil {
		s.writeAgentError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "reset"})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// writeAgentError maps domain errors onto HTTP statuses.
func (s *Server) writeAgentError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, dialog.ErrSessionNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, dialog.ErrNotReady):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, search.ErrInvalidQuery):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, search.ErrRateLimited):
		writeError(w, http.StatusTooManyRequests, err.Error())
	case errors.Is(err, search.ErrUnavailable):
		writeError(w, http.StatusBadGateway, err.Error())
	default:
		s.log.Error().Err(err).Msg("unhandled error")
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
