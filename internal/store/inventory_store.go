package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ymorita/solventory/internal/domain"
)

// ErrVersionConflict is reported by UpdateAmount when the record changed
// since the caller's snapshot. Callers re-read and retry.
var ErrVersionConflict = errors.New("inventory version conflict")

type InventoryStore struct {
	db *sql.DB
}

func NewInventoryStore(db *sql.DB) *InventoryStore {
	return &InventoryStore{db: db}
}

func (s *InventoryStore) Create(ctx context.Context, roomID, solventID string, amount domain.Liters) (*domain.InventoryRecord, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory (id, room_id, solvent_id, amount_cl, version, last_updated)
		VALUES (?, ?, ?, ?, 0, ?)
	`, id, roomID, solventID, amount.Centiliters(), now)
	if err != nil {
		return nil, fmt.Errorf("failed to create inventory record: %w", err)
	}

	return s.GetByID(ctx, id)
}

func (s *InventoryStore) GetByID(ctx context.Context, id string) (*domain.InventoryRecord, error) {
	rec := &domain.InventoryRecord{}
	var amountCl int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, room_id, solvent_id, amount_cl, version, last_updated
		FROM inventory WHERE id = ?
	`, id).Scan(&rec.ID, &rec.RoomID, &rec.SolventID, &amountCl, &rec.Version, &rec.LastUpdated)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory record: %w", err)
	}

	rec.Amount = domain.Liters(amountCl)
	return rec, nil
}

func (s *InventoryStore) GetByRoomSolvent(ctx context.Context, roomID, solventID string) (*domain.InventoryRecord, error) {
	rec := &domain.InventoryRecord{}
	var amountCl int64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, room_id, solvent_id, amount_cl, version, last_updated
		FROM inventory WHERE room_id = ? AND solvent_id = ?
	`, roomID, solventID).Scan(&rec.ID, &rec.RoomID, &rec.SolventID, &amountCl, &rec.Version, &rec.LastUpdated)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory record: %w", err)
	}

	rec.Amount = domain.Liters(amountCl)
	return rec, nil
}

// UpdateAmount writes the new amount only if the record's version still
// matches the caller's snapshot, incrementing the version on success.
// Returns ErrVersionConflict when another writer committed first.
func (s *InventoryStore) UpdateAmount(ctx context.Context, id string, amount domain.Liters, version int64, updatedAt time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE inventory
		SET amount_cl = ?, version = version + 1, last_updated = ?
		WHERE id = ? AND version = ?
	`, amount.Centiliters(), updatedAt.UTC(), id, version)
	if err != nil {
		return fmt.Errorf("failed to update inventory amount: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return ErrVersionConflict
	}

	return nil
}

// ListDetailed returns every inventory record flattened with its room and
// solvent catalog data, ordered by solvent name.
func (s *InventoryStore) ListDetailed(ctx context.Context) ([]*domain.InventoryDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT i.id, i.room_id, i.solvent_id, i.amount_cl, i.version, i.last_updated,
		       r.name, sv.name, sv.cas_number
		FROM inventory i
		JOIN rooms r ON r.id = i.room_id
		JOIN solvents sv ON sv.id = i.solvent_id
		ORDER BY sv.name ASC, r.name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list inventory: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var details []*domain.InventoryDetail
	for rows.Next() {
		d := &domain.InventoryDetail{}
		var amountCl int64
		if err := rows.Scan(&d.ID, &d.RoomID, &d.SolventID, &amountCl, &d.Version, &d.LastUpdated,
			&d.RoomName, &d.SolventName, &d.CASNumber); err != nil {
			return nil, fmt.Errorf("failed to scan inventory detail: %w", err)
		}
		d.Amount = domain.Liters(amountCl)
		details = append(details, d)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating inventory: %w", err)
	}

	return details, nil
}

// GetDetail returns one record with its catalog data, or nil when missing.
func (s *InventoryStore) GetDetail(ctx context.Context, id string) (*domain.InventoryDetail, error) {
	d := &domain.InventoryDetail{}
	var amountCl int64
	err := s.db.QueryRowContext(ctx, `
		SELECT i.id, i.room_id, i.solvent_id, i.amount_cl, i.version, i.last_updated,
		       r.name, sv.name, sv.cas_number
		FROM inventory i
		JOIN rooms r ON r.id = i.room_id
		JOIN solvents sv ON sv.id = i.solvent_id
		WHERE i.id = ?
	`, id).Scan(&d.ID, &d.RoomID, &d.SolventID, &amountCl, &d.Version, &d.LastUpdated,
		&d.RoomName, &d.SolventName, &d.CASNumber)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory detail: %w", err)
	}

	d.Amount = domain.Liters(amountCl)
	return d, nil
}
