package domain

import "time"

type Room struct {
	ID        string
	Name      string
	CreatedAt time.Time
}

type Solvent struct {
	ID              string
	Name            string
	CASNumber       string
	Formula         string
	MolecularWeight string
	CreatedAt       time.Time
}

// InventoryRecord is the current on-hand quantity for one (room, solvent)
// pairing. Version increments on every amount write and backs the
// compare-and-swap in the store layer.
type InventoryRecord struct {
	ID          string
	RoomID      string
	SolventID   string
	Amount      Liters
	Version     int64
	LastUpdated time.Time
}

// LogEntry records one applied adjustment. Change is the signed delta the
// caller requested, before any clamping of the resulting amount.
type LogEntry struct {
	ID          string
	InventoryID string
	Change      Liters
	UserName    string
	CreatedAt   time.Time
}

// InventoryDetail flattens a record with its catalog names for listing and
// search screens.
type InventoryDetail struct {
	InventoryRecord
	RoomName    string
	SolventName string
	CASNumber   string
}

type SDSDocument struct {
	SolventID  string
	StorageKey string
	MimeType   string
	UploadedAt time.Time
}
