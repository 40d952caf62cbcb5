package server

import (
	"net/http"
	"strconv"

	"github.com/jonathan/resume-variants/internal/library"
	"github.com/jonathan/resume-variants/internal/types"
)

// ResumeListResponse is the body of GET /resumes
type ResumeListResponse struct {
	Resumes []types.ResumeRecord `json:"resumes"`
	Count   int                  `json:"count"`
}

// handleCreateResume stores a new master resume
func (s *Server) handleCreateResume(w http.ResponseWriter, r *http.Request) {
	var req types.CreateResumeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}

	rec, err := s.app.CreateMaster(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, rec)
}

// handleListResumes lists resumes, newest first
func (s *Server) handleListResumes(w http.ResponseWriter, r *http.Request) {
	filter, err := parseListFilter(r)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resumes, err := s.app.Library.List(r.Context(), filter)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	if resumes == nil {
		resumes = []types.ResumeRecord{}
	}
	s.jsonResponse(w, http.StatusOK, ResumeListResponse{Resumes: resumes, Count: len(resumes)})
}

// handleGetResume returns one resume by id
func (s *Server) handleGetResume(w http.ResponseWriter, r *http.Request) {
	rec, err := s.app.Library.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

func parseListFilter(r *http.Request) (library.ListFilter, error) {
	q := r.URL.Query()
	filter := library.ListFilter{
		Kind:         types.ResumeKind(q.Get("kind")),
		BaseResumeID: q.Get("base_resume_id"),
	}
	if filter.Kind != "" && filter.Kind != types.ResumeKindMaster && filter.Kind != types.ResumeKindVariant {
		return filter, &RequestError{Message: "kind must be master or variant"}
	}
	if v := q.Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil || limit < 0 {
			return filter, &RequestError{Message: "limit must be a non-negative integer"}
		}
		filter.Limit = limit
	}
	return filter, nil
}
