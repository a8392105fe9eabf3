package web

import (
	"errors"
	"net/http"
	"time"

	"github.com/ymorita/solventory/internal/domain"
	"github.com/ymorita/solventory/internal/service"
	"github.com/ymorita/solventory/internal/store"
)

type roomView struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
}

type solventView struct {
	ID              string    `json:"id"`
	Name            string    `json:"name"`
	CASNumber       string    `json:"casNumber,omitempty"`
	Formula         string    `json:"formula,omitempty"`
	MolecularWeight string    `json:"molecularWeight,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

type inventoryView struct {
	ID          string    `json:"id"`
	RoomID      string    `json:"roomId"`
	SolventID   string    `json:"solventId"`
	RoomName    string    `json:"roomName,omitempty"`
	SolventName string    `json:"solventName,omitempty"`
	CASNumber   string    `json:"casNumber,omitempty"`
	Amount      float64   `json:"amount"`
	LastUpdated time.Time `json:"lastUpdated"`
}

type logEntryView struct {
	ID           string    `json:"id"`
	InventoryID  string    `json:"inventoryId"`
	ChangeAmount float64   `json:"changeAmount"`
	UserName     string    `json:"userName"`
	CreatedAt    time.Time `json:"createdAt"`
}

func newRoomView(r *domain.Room) roomView {
	return roomView{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
}

func newSolventView(s *domain.Solvent) solventView {
	return solventView{
		ID:              s.ID,
		Name:            s.Name,
		CASNumber:       s.CASNumber,
		Formula:         s.Formula,
		MolecularWeight: s.MolecularWeight,
		CreatedAt:       s.CreatedAt,
	}
}

func newInventoryView(d *domain.InventoryDetail) inventoryView {
	return inventoryView{
		ID:          d.ID,
		RoomID:      d.RoomID,
		SolventID:   d.SolventID,
		RoomName:    d.RoomName,
		SolventName: d.SolventName,
		CASNumber:   d.CASNumber,
		Amount:      d.Amount.Float(),
		LastUpdated: d.LastUpdated,
	}
}

func newRecordView(r *domain.InventoryRecord) inventoryView {
	return inventoryView{
		ID:          r.ID,
		RoomID:      r.RoomID,
		SolventID:   r.SolventID,
		Amount:      r.Amount.Float(),
		LastUpdated: r.LastUpdated,
	}
}

func newLogEntryView(e *domain.LogEntry) logEntryView {
	return logEntryView{
		ID:           e.ID,
		InventoryID:  e.InventoryID,
		ChangeAmount: e.Change.Float(),
		UserName:     e.UserName,
		CreatedAt:    e.CreatedAt,
	}
}

// writeServiceError maps service and store errors onto HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		writeError(w, http.StatusBadRequest, "invalid_input", err.Error())
	case errors.Is(err, service.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case errors.Is(err, store.ErrVersionConflict):
		writeError(w, http.StatusServiceUnavailable, "store_unavailable", "inventory is busy, try again")
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "unexpected error")
	}
}
