package server

import (
	"net/http"
	"strings"

	"github.com/jonathan/resume-variants/internal/fetch"
)

// AnalyzeRequest is the body of POST /analyze
type AnalyzeRequest struct {
	JobDescription string `json:"job_description"`
}

// CaptureRequest is the body of POST /captures
type CaptureRequest struct {
	URL string `json:"url"`
}

// handleAnalyze returns keywords and the guessed job context
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, s.app.Analyze(req.JobDescription))
}

// handleCapture fetches a job posting and returns its cleaned text
func (s *Server) handleCapture(w http.ResponseWriter, r *http.Request) {
	var req CaptureRequest
	if err := decodeJSON(w, r, &req); err != nil {
		s.fail(w, r, err)
		return
	}
	req.URL = strings.TrimSpace(req.URL)
	if err := fetch.ValidateURL(req.URL); err != nil {
		s.fail(w, r, &RequestError{Message: "url must be an absolute http(s) URL", Cause: err})
		return
	}

	posting, err := s.app.Capture(r.Context(), req.URL)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, posting)
}
