package store

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ymorita/solventory/internal/domain"
)

// LogStore is the append-only ledger of inventory adjustments. Append is the
// only mutation; entries are never updated or deleted.
//
// The logged change is the delta the caller requested, not the applied
// difference: when an adjustment floors the amount at zero the log still
// carries the full requested magnitude, so replaying the log requires the
// same clamp-per-step rule rather than a flat sum.
type LogStore struct {
	db *sql.DB
}

func NewLogStore(db *sql.DB) *LogStore {
	return &LogStore{db: db}
}

func (s *LogStore) Append(ctx context.Context, inventoryID string, change domain.Liters, userName string) (*domain.LogEntry, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO inventory_logs (id, inventory_id, change_cl, user_name, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, id, inventoryID, change.Centiliters(), userName, now)
	if err != nil {
		return nil, fmt.Errorf("failed to append log entry: %w", err)
	}

	return &domain.LogEntry{
		ID:          id,
		InventoryID: inventoryID,
		Change:      change,
		UserName:    userName,
		CreatedAt:   now,
	}, nil
}

// ListByInventory returns the entries for one record, newest first.
func (s *LogStore) ListByInventory(ctx context.Context, inventoryID string) ([]*domain.LogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, inventory_id, change_cl, user_name, created_at
		FROM inventory_logs
		WHERE inventory_id = ?
		ORDER BY created_at DESC, rowid DESC
	`, inventoryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var entries []*domain.LogEntry
	for rows.Next() {
		entry := &domain.LogEntry{}
		var changeCl int64
		if err := rows.Scan(&entry.ID, &entry.InventoryID, &changeCl, &entry.UserName, &entry.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan log entry: %w", err)
		}
		entry.Change = domain.Liters(changeCl)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating log entries: %w", err)
	}

	return entries, nil
}

// CountByInventory reports how many entries exist for one record.
func (s *LogStore) CountByInventory(ctx context.Context, inventoryID string) (int64, error) {
	var n int64
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM inventory_logs WHERE inventory_id = ?
	`, inventoryID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count log entries: %w", err)
	}
	return n, nil
}
