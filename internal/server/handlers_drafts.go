package server

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/jonathan/resume-variants/internal/types"
	"github.com/jonathan/resume-variants/internal/variants"
)

// SuggestionStatusRequest is the body of PUT /drafts/{id}/suggestions/{suggestion_id}
type SuggestionStatusRequest struct {
	Status types.SuggestionStatus `json:"status"`
}

// MaterializeRequest is the optional body of POST /drafts/{id}/materialize
type MaterializeRequest struct {
	IncludePending bool `json:"include_pending"`
}

// PreviewResponse is the body of GET /drafts/{id}/preview
type PreviewResponse struct {
	DraftID            string                `json:"draft_id"`
	Sections           []types.ResumeSection `json:"sections"`
	SuggestionsApplied int                   `json:"suggestions_applied"`
}

// DraftListResponse is the body of GET /drafts
type DraftListResponse struct {
	Drafts []types.VariantDraft `json:"drafts"`
	Count  int                  `json:"count"`
}

// SessionResponse is the body of GET /session and POST /session/undo
type SessionResponse struct {
	Drafts  []types.VariantDraft `json:"drafts"`
	Resumes []types.ResumeRecord `json:"resumes"`
}

// handleCreateDraft generates a draft and returns it once complete
func (s *Server) handleCreateDraft(w http.ResponseWriter, r *http.Request) {
	var input types.VariantGenerationInput
	if err := decodeJSON(w, r, &input); err != nil {
		s.fail(w, r, err)
		return
	}

	draft, err := s.app.GenerateDraft(r.Context(), input, nil)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, draft)
}

// handleCreateDraftStream generates a draft, reporting each stage as an SSE
// "progress" event and finishing with "complete" or "error"
func (s *Server) handleCreateDraftStream(w http.ResponseWriter, r *http.Request) {
	var input types.VariantGenerationInput
	if err := decodeJSON(w, r, &input); err != nil {
		s.fail(w, r, err)
		return
	}

	stream, err := openEventStream(w)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, err.Error())
		return
	}

	draft, err := s.app.GenerateDraft(r.Context(), input, func(ev variants.ProgressEvent) {
		if ev.Stage == variants.StageComplete {
			return
		}
		if werr := stream.progress(ev); werr != nil {
			s.logger.Warn("failed to write stream event", slog.Any("error", werr))
		}
	})
	if err != nil {
		err = stream.fail(err)
	} else {
		err = stream.complete(draft)
	}
	if err != nil {
		s.logger.Warn("failed to write stream event", slog.Any("error", err))
	}
}

// handleListDrafts lists the drafts under review
func (s *Server) handleListDrafts(w http.ResponseWriter, _ *http.Request) {
	drafts := s.app.Drafts.Drafts()
	if drafts == nil {
		drafts = []types.VariantDraft{}
	}
	s.jsonResponse(w, http.StatusOK, DraftListResponse{Drafts: drafts, Count: len(drafts)})
}

// handleGetDraft returns one draft
func (s *Server) handleGetDraft(w http.ResponseWriter, r *http.Request) {
	draft, err := s.app.Drafts.Draft(r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, draft)
}

// handleDiscardDraft drops a draft without saving it
func (s *Server) handleDiscardDraft(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Drafts.Discard(r.PathValue("id")); err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleSetSuggestionStatus accepts, rejects or resets one suggestion
func (s *Server) handleSetSuggestionStatus(w http.ResponseWriter, r *http.Request) {
	var req SuggestionStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	draft, err := s.app.Drafts.SetSuggestionStatus(r.PathValue("id"), r.PathValue("suggestion_id"), req.Status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, draft)
}

func (s *Server) handleAcceptAll(w http.ResponseWriter, r *http.Request) {
	s.setAll(w, r, types.StatusAccepted)
}

func (s *Server) handleRejectAll(w http.ResponseWriter, r *http.Request) {
	s.setAll(w, r, types.StatusRejected)
}

func (s *Server) setAll(w http.ResponseWriter, r *http.Request, status types.SuggestionStatus) {
	draft, err := s.app.Drafts.SetAllSuggestionStatus(r.PathValue("id"), status)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, draft)
}

// handlePreview returns the sections the draft would materialize to
func (s *Server) handlePreview(w http.ResponseWriter, r *http.Request) {
	opts := variants.MaterializeOptions{}
	if v := r.URL.Query().Get("include_pending"); v != "" {
		include, err := strconv.ParseBool(v)
		if err != nil {
			s.fail(w, r, &RequestError{Message: "include_pending must be a boolean", Cause: err})
			return
		}
		opts.IncludePending = include
	}

	id := r.PathValue("id")
	draft, err := s.app.Drafts.Draft(id)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, PreviewResponse{
		DraftID:            id,
		Sections:           variants.BuildVariantSections(draft, opts),
		SuggestionsApplied: variants.AppliedCount(draft, opts),
	})
}

// handleMaterialize saves the draft as a variant and removes it from review
func (s *Server) handleMaterialize(w http.ResponseWriter, r *http.Request) {
	var req MaterializeRequest
	if err := decodeJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
		s.fail(w, r, err)
		return
	}

	rec, err := s.app.Materialize(r.Context(), r.PathValue("id"), variants.MaterializeOptions{IncludePending: req.IncludePending})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, rec)
}

// handleSession returns the drafts and variants of this session
func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request) {
	s.jsonResponse(w, http.StatusOK, s.session())
}

// handleUndo reverts the last draft change
func (s *Server) handleUndo(w http.ResponseWriter, r *http.Request) {
	if err := s.app.Drafts.Undo(); err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.session())
}

func (s *Server) session() SessionResponse {
	resp := SessionResponse{
		Drafts:  s.app.Drafts.Drafts(),
		Resumes: s.app.Drafts.Resumes(),
	}
	if resp.Drafts == nil {
		resp.Drafts = []types.VariantDraft{}
	}
	if resp.Resumes == nil {
		resp.Resumes = []types.ResumeRecord{}
	}
	return resp
}
