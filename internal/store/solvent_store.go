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

type SolventStore struct {
	db *sql.DB
}

func NewSolventStore(db *sql.DB) *SolventStore {
	return &SolventStore{db: db}
}

func (s *SolventStore) Create(ctx context.Context, name, casNumber, formula, molecularWeight string) (*domain.Solvent, error) {
	id := uuid.NewString()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO solvents (id, name, cas_number, formula, molecular_weight, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, id, name, casNumber, formula, molecularWeight, now)
	if err != nil {
		return nil, fmt.Errorf("failed to create solvent: %w", err)
	}

	return &domain.Solvent{
		ID:              id,
		Name:            name,
		CASNumber:       casNumber,
		Formula:         formula,
		MolecularWeight: molecularWeight,
		CreatedAt:       now,
	}, nil
}

func (s *SolventStore) GetByID(ctx context.Context, id string) (*domain.Solvent, error) {
	solvent := &domain.Solvent{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, name, cas_number, formula, molecular_weight, created_at
		FROM solvents WHERE id = ?
	`, id).Scan(&solvent.ID, &solvent.Name, &solvent.CASNumber, &solvent.Formula, &solvent.MolecularWeight, &solvent.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get solvent: %w", err)
	}

	return solvent, nil
}

func (s *SolventStore) List(ctx context.Context) ([]*domain.Solvent, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, cas_number, formula, molecular_weight, created_at
		FROM solvents ORDER BY name ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list solvents: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var solvents []*domain.Solvent
	for rows.Next() {
		solvent := &domain.Solvent{}
		if err := rows.Scan(&solvent.ID, &solvent.Name, &solvent.CASNumber, &solvent.Formula, &solvent.MolecularWeight, &solvent.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan solvent: %w", err)
		}
		solvents = append(solvents, solvent)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating solvents: %w", err)
	}

	return solvents, nil
}
