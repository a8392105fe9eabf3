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

type RoomStore struct {
	db *sql.DB
}

func NewRoomStore(db *sql.DB) *RoomStore {
	return &RoomStore{db: db}
}

func (s *RoomStore) Create(ctx context.Context, name string) (*domain.Room, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO rooms (id, name, created_at) VALUES (?, ?, ?)
	`, id, name, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	return &domain.Room{ID: id, Name: name, CreatedAt: now}, nil
}

func (s *RoomStore) GetByID(ctx context.Context, id string) (*domain.Room, error) {
	room := &domain.Room{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, created_at FROM rooms WHERE id = ?
	`, id).Scan(&room.ID, &room.Name, &room.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get room: %w", err)
	}

	return room, nil
}

func (s *RoomStore) List(ctx context.Context) ([]*domain.Room, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, created_at FROM rooms ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list rooms: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var rooms []*domain.Room
	for rows.Next() {
		room := &domain.Room{}
		if err := rows.Scan(&room.ID, &room.Name, &room.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan room: %w", err)
		}
		rooms = append(rooms, room)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rooms: %w", err)
	}

	return rooms, nil
}
