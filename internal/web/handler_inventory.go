package web

import (
	"encoding/json"
	"net/http"

	"github.com/ymorita/solventory/internal/domain"
	"github.com/ymorita/solventory/internal/service"
)

func (s *Server) handleListInventory(w http.ResponseWriter, r *http.Request) {
	kind := service.SearchKind(r.URL.Query().Get("kind"))
	if kind == "" {
		kind = service.SearchByName
	}
	details, err := s.lookup.ListInventory(r.Context(), kind, r.URL.Query().Get("q"))
	if err != nil {
		s.logger.Error("failed to list inventory", "error", err)
		writeServiceError(w, err)
		return
	}

	views := make([]inventoryView, 0, len(details))
	for _, d := range details {
		views = append(views, newInventoryView(d))
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": views})
}

func (s *Server) handleInventoryDetail(w http.ResponseWriter, r *http.Request) {
	detail, entries, err := s.lookup.Detail(r.Context(), r.PathValue("id"))
	if err != nil {
		s.logger.Error("failed to load inventory detail", "error", err)
		writeServiceError(w, err)
		return
	}
	if detail == nil {
		writeError(w, http.StatusNotFound, "not_found", "inventory record not found")
		return
	}

	logs := make([]logEntryView, 0, len(entries))
	for _, e := range entries {
		logs = append(logs, newLogEntryView(e))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"record": newInventoryView(detail),
		"logs":   logs,
	})
}

type createInventoryRequest struct {
	RoomID        string  `json:"roomId"`
	SolventID     string  `json:"solventId"`
	InitialAmount float64 `json:"initialAmount"`
}

func (s *Server) handleCreateInventory(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireActor(w, r); !ok {
		return
	}

	var req createInventoryRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "malformed request body")
		return
	}

	rec, err := s.catalog.EnsureInventory(r.Context(), req.RoomID, req.SolventID, domain.LitersFromFloat(req.InitialAmount))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, newRecordView(rec))
}

type adjustRequest struct {
	Action string   `json:"action"`
	Amount *float64 `json:"amount"`
	Delta  *float64 `json:"delta"`
}

type adjustResponse struct {
	NewAmount   float64 `json:"newAmount"`
	LogRecorded bool    `json:"logRecorded"`
}

// resolveDelta turns the two accepted request shapes into a signed delta.
// Either a raw delta, or an action ("add" or "use") with a positive amount.
func (req *adjustRequest) resolveDelta() (domain.Liters, bool) {
	if req.Delta != nil {
		if req.Action != "" || req.Amount != nil {
			return 0, false
		}
		return domain.LitersFromFloat(*req.Delta), true
	}
	if req.Amount == nil || *req.Amount <= 0 {
		return 0, false
	}
	amount := domain.LitersFromFloat(*req.Amount)
	switch req.Action {
	case "add":
		return amount, true
	case "use":
		return -amount, true
	}
	return 0, false
}

func (s *Server) handleAdjust(w http.ResponseWriter, r *http.Request) {
	actor, ok := s.requireActor(w, r)
	if !ok {
		return
	}

	var req adjustRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_input", "malformed request body")
		return
	}

	delta, ok := req.resolveDelta()
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid_input", "request needs a delta, or an add/use action with a positive amount")
		return
	}

	result, err := s.adjustments.Adjust(r.Context(), r.PathValue("id"), delta, actor)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, adjustResponse{
		NewAmount:   result.NewAmount.Float(),
		LogRecorded: result.Status == service.StatusCommitted,
	})
}
