package web

import (
	"net/http"

	"github.com/ymorita/solventory/internal/service"
)

func (s *Server) handleSearchCandidates(w http.ResponseWriter, r *http.Request) {
	kind := service.SearchKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = service.SearchByName
	}

	candidates, err := s.lookup.Candidates(r.Context(), kind, r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	if candidates == nil {
		candidates = []string{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"candidates": candidates})
}
