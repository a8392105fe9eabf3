package web

import (
	"encoding/json"
	"net/http"
)

func (s *Server) handleListRooms(w http.ResponseWriter, r *http.Request) {
	rooms, err := s.catalog.ListRooms(r.Context())
	if err != nil {
		s.logger.Error("failed to list rooms", "error", err)
		writeServiceError(w, err)
		return
	}
	views := make([]roomView, 0, len(rooms))
	for _, room := range rooms {
		views = append(views, newRoomView(room))
	}
	writeJSON(w, http.StatusOK, map[string]any{"rooms": views})
}

func (s *Server) handleCreateRoom(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireActor(w, r); !ok {
		return
	}

	var req struct {
		Name string `json:"name"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "malformed request body")
		return
	}

	room, err := s.catalog.CreateRoom(r.Context(), req.Name)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newRoomView(room))
}

func (s *Server) handleListSolvents(w http.ResponseWriter, r *http.Request) {
	solvents, err := s.catalog.ListSolvents(r.Context())
	if err != nil {
		s.logger.Error("failed to list solvents", "error", err)
		writeServiceError(w, err)
		return
	}
	views := make([]solventView, 0, len(solvents))
	for _, sv := range solvents {
		views = append(views, newSolventView(sv))
	}
	writeJSON(w, http.StatusOK, map[string]any{"solvents": views})
}

func (s *Server) handleCreateSolvent(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireActor(w, r); !ok {
		return
	}

	var req struct {
		Name            string `json:"name"`
		CASNumber       string `json:"casNumber"`
		Formula         string `json:"formula"`
		MolecularWeight string `json:"molecularWeight"`
	}
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "malformed request body")
		return
	}

	solvent, err := s.catalog.CreateSolvent(r.Context(), req.Name, req.CASNumber, req.Formula, req.MolecularWeight)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, newSolventView(solvent))
}
