package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ymorita/solventory/internal/domain"
)

type catalogRoomRepository interface {
	Create(ctx context.Context, name string) (*domain.Room, error)
	GetByID(ctx context.Context, id string) (*domain.Room, error)
	List(ctx context.Context) ([]*domain.Room, error)
}

type catalogSolventRepository interface {
	Create(ctx context.Context, name, casNumber, formula, molecularWeight string) (*domain.Solvent, error)
	GetByID(ctx context.Context, id string) (*domain.Solvent, error)
	List(ctx context.Context) ([]*domain.Solvent, error)
}

type catalogInventoryRepository interface {
	Create(ctx context.Context, roomID, solventID string, amount domain.Liters) (*domain.InventoryRecord, error)
	GetByRoomSolvent(ctx context.Context, roomID, solventID string) (*domain.InventoryRecord, error)
}

// CatalogService provisions rooms, solvents and their inventory records.
// This sits outside the adjustment core: records are created once per
// (room, solvent) pairing and persist indefinitely.
type CatalogService struct {
	rooms     catalogRoomRepository
	solvents  catalogSolventRepository
	inventory catalogInventoryRepository
}

func NewCatalogService(rooms catalogRoomRepository, solvents catalogSolventRepository, inventory catalogInventoryRepository) *CatalogService {
	return &CatalogService{rooms: rooms, solvents: solvents, inventory: inventory}
}

func (s *CatalogService) CreateRoom(ctx context.Context, name string) (*domain.Room, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: room name required", ErrInvalidInput)
	}
	return s.rooms.Create(ctx, name)
}

func (s *CatalogService) ListRooms(ctx context.Context) ([]*domain.Room, error) {
	return s.rooms.List(ctx)
}

func (s *CatalogService) CreateSolvent(ctx context.Context, name, casNumber, formula, molecularWeight string) (*domain.Solvent, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: solvent name required", ErrInvalidInput)
	}
	return s.solvents.Create(ctx, name, strings.TrimSpace(casNumber), strings.TrimSpace(formula), strings.TrimSpace(molecularWeight))
}

func (s *CatalogService) ListSolvents(ctx context.Context) ([]*domain.Solvent, error) {
	return s.solvents.List(ctx)
}

func (s *CatalogService) GetSolvent(ctx context.Context, id string) (*domain.Solvent, error) {
	return s.solvents.GetByID(ctx, id)
}

// EnsureInventory returns the record for the (room, solvent) pair, creating
// it with the given initial amount when absent. Both catalog entries must
// already exist.
func (s *CatalogService) EnsureInventory(ctx context.Context, roomID, solventID string, initial domain.Liters) (*domain.InventoryRecord, error) {
	if roomID == "" || solventID == "" {
		return nil, fmt.Errorf("%w: room and solvent ids required", ErrInvalidInput)
	}
	if initial < 0 {
		return nil, fmt.Errorf("%w: initial amount must not be negative", ErrInvalidInput)
	}

	room, err := s.rooms.GetByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if room == nil {
		return nil, fmt.Errorf("room %s: %w", roomID, ErrNotFound)
	}

	solvent, err := s.solvents.GetByID(ctx, solventID)
	if err != nil {
		return nil, err
	}
	if solvent == nil {
		return nil, fmt.Errorf("solvent %s: %w", solventID, ErrNotFound)
	}

	existing, err := s.inventory.GetByRoomSolvent(ctx, roomID, solventID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	return s.inventory.Create(ctx, roomID, solventID, initial)
}
