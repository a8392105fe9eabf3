package web

import (
	"net/http"
)

// maxLabelImageBytes caps label photo uploads at 10 MB.
const maxLabelImageBytes = 10 << 20

type labelCandidateView struct {
	Name      string `json:"name"`
	CASNumber string `json:"casNumber,omitempty"`
}

func (s *Server) handleLabelScan(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireActor(w, r); !ok {
		return
	}
	if s.scanner == nil {
		writeError(w, http.StatusServiceUnavailable, "scan_disabled", "label scanning is not configured")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxLabelImageBytes)
	if err := r.ParseMultipartForm(maxLabelImageBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "expected a multipart form with an image field")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "image field is required")
		return
	}
	defer file.Close()

	mimeType := header.Header.Get("Content-Type")
	result, err := s.scanner.Scan(r.Context(), file, mimeType)
	if err != nil {
		s.logger.Error("label scan failed", "error", err)
		writeError(w, http.StatusBadGateway, "scan_failed", "could not read the label")
		return
	}

	views := make([]labelCandidateView, 0, len(result.Candidates))
	for _, c := range result.Candidates {
		views = append(views, labelCandidateView{Name: c.Name, CASNumber: c.CASNumber})
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": views})
}
