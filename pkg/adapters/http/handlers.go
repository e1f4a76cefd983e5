package http

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/intake"
	"github.com/aretw0/intake/pkg/domain"
	"github.com/aretw0/intake/pkg/proposal"
)

type nextRequest struct {
	From    string         `json:"from"`
	Answers domain.Answers `json:"answers"`
}

type answersRequest struct {
	Answers domain.Answers `json:"answers"`
}

type submissionRequest struct {
	Answers  domain.Answers `json:"answers"`
	Metadata map[string]any `json:"metadata"`
}

type proposalRequest struct {
	Sections map[string]any `json:"sections"`
}

type pathResponse struct {
	Path []string `json:"path"`
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "Invalid request body"})
		return false
	}
	return true
}

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": strings.TrimSpace(intake.Version),
	})
}

// GetDraft handles GET /intakes/{id}/draft.
func (s *Server) GetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := s.Engine.Draft(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, draft)
}

// PutDraft handles PUT /intakes/{id}/draft. The path id wins; a body naming
// another intake is refused.
func (s *Server) PutDraft(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var draft domain.Draft
	if !decodeBody(w, r, &draft) {
		return
	}
	if draft.IntakeID != "" && draft.IntakeID != id {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: "intakeId does not match the path"})
		return
	}
	draft.IntakeID = id

	if err := s.Engine.SaveDraft(r.Context(), draft); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ValidateDraft handles POST /intakes/{id}/validate.
func (s *Server) ValidateDraft(w http.ResponseWriter, r *http.Request) {
	report, err := s.Engine.Validate(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// Publish handles POST /intakes/{id}/publish.
func (s *Server) Publish(w http.ResponseWriter, r *http.Request) {
	res, err := s.Engine.Publish(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GetPublished handles GET /intakes/{id}/published.
func (s *Server) GetPublished(w http.ResponseWriter, r *http.Request) {
	snap, err := s.Engine.Published(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, snap)
}

// Next handles POST /intakes/{id}/next.
func (s *Server) Next(w http.ResponseWriter, r *http.Request) {
	var body nextRequest
	if !decodeBody(w, r, &body) {
		return
	}
	step, err := s.Engine.Next(r.Context(), chi.URLParam(r, "id"), body.From, body.Answers)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, step)
}

// Path handles POST /intakes/{id}/path.
func (s *Server) Path(w http.ResponseWriter, r *http.Request) {
	var body answersRequest
	if !decodeBody(w, r, &body) {
		return
	}
	path, err := s.Engine.Path(r.Context(), chi.URLParam(r, "id"), body.Answers)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, pathResponse{Path: path})
}

// Submit handles POST /intakes/{id}/submissions. Invalid answers get 422
// with the per-block errors; nothing is stored.
func (s *Server) Submit(w http.ResponseWriter, r *http.Request) {
	var body submissionRequest
	if !decodeBody(w, r, &body) {
		return
	}
	res, err := s.Engine.Submit(r.Context(), chi.URLParam(r, "id"), body.Answers, body.Metadata)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if !res.Valid {
		writeJSON(w, http.StatusUnprocessableEntity, res)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

// GetSummary handles GET /intakes/{id}/summary.
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.Engine.Summary(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

// ApplyProposal handles POST /intakes/{id}/proposals.
func (s *Server) ApplyProposal(w http.ResponseWriter, r *http.Request) {
	var body proposalRequest
	if !decodeBody(w, r, &body) {
		return
	}
	p, err := proposal.Decode(body.Sections)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: err.Error()})
		return
	}
	res, err := s.Engine.ApplyProposal(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

// GenerateProposal handles POST /intakes/{id}/proposals/generate.
func (s *Server) GenerateProposal(w http.ResponseWriter, r *http.Request) {
	res, err := s.Engine.GenerateProposal(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}
