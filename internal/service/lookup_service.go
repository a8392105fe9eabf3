package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ymorita/solventory/internal/domain"
)

// SearchKind selects which field an inventory search or candidate lookup
// matches against.
type SearchKind string

const (
	SearchByRoom SearchKind = "room"
	SearchByName SearchKind = "name"
	SearchByCAS  SearchKind = "cas"
)

// candidateLimit caps suggestion lists for the search screen.
const candidateLimit = 5

type lookupInventoryRepository interface {
	ListDetailed(ctx context.Context) ([]*domain.InventoryDetail, error)
	GetDetail(ctx context.Context, id string) (*domain.InventoryDetail, error)
}

type lookupLogRepository interface {
	ListByInventory(ctx context.Context, inventoryID string) ([]*domain.LogEntry, error)
}

type lookupRoomRepository interface {
	List(ctx context.Context) ([]*domain.Room, error)
}

type lookupSolventRepository interface {
	List(ctx context.Context) ([]*domain.Solvent, error)
}

// LookupService is the read-only search and catalog projection. It never
// mutates inventory or the audit log.
type LookupService struct {
	inventory lookupInventoryRepository
	logs      lookupLogRepository
	rooms     lookupRoomRepository
	solvents  lookupSolventRepository
}

func NewLookupService(inventory lookupInventoryRepository, logs lookupLogRepository, rooms lookupRoomRepository, solvents lookupSolventRepository) *LookupService {
	return &LookupService{
		inventory: inventory,
		logs:      logs,
		rooms:     rooms,
		solvents:  solvents,
	}
}

// ListInventory returns the flattened inventory, optionally filtered.
// An empty query returns everything.
func (s *LookupService) ListInventory(ctx context.Context, kind SearchKind, query string) ([]*domain.InventoryDetail, error) {
	details, err := s.inventory.ListDetailed(ctx)
	if err != nil {
		return nil, err
	}
	if query == "" {
		return details, nil
	}

	filtered := make([]*domain.InventoryDetail, 0, len(details))
	for _, d := range details {
		if matches(kind, d, query) {
			filtered = append(filtered, d)
		}
	}
	return filtered, nil
}

// Detail returns one record with its catalog data plus the audit log,
// newest first. The record is nil when the id is unknown.
func (s *LookupService) Detail(ctx context.Context, id string) (*domain.InventoryDetail, []*domain.LogEntry, error) {
	detail, err := s.inventory.GetDetail(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if detail == nil {
		return nil, nil, nil
	}

	entries, err := s.logs.ListByInventory(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to list log entries: %w", err)
	}
	return detail, entries, nil
}

// Candidates returns up to five distinct suggestions for the given search
// kind whose value contains the query. An empty query yields no candidates.
func (s *LookupService) Candidates(ctx context.Context, kind SearchKind, query string) ([]string, error) {
	if query == "" {
		return nil, nil
	}

	var values []string
	switch kind {
	case SearchByRoom:
		rooms, err := s.rooms.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, r := range rooms {
			values = append(values, r.Name)
		}
	case SearchByName:
		solvents, err := s.solvents.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, sv := range solvents {
			values = append(values, sv.Name)
		}
	case SearchByCAS:
		solvents, err := s.solvents.List(ctx)
		if err != nil {
			return nil, err
		}
		for _, sv := range solvents {
			if sv.CASNumber != "" {
				values = append(values, sv.CASNumber)
			}
		}
	default:
		return nil, fmt.Errorf("%w: unknown search kind %q", ErrInvalidInput, kind)
	}

	var out []string
	seen := make(map[string]bool)
	for _, v := range values {
		if seen[v] || !valueMatches(kind, v, query) {
			continue
		}
		seen[v] = true
		out = append(out, v)
		if len(out) == candidateLimit {
			break
		}
	}
	return out, nil
}

func matches(kind SearchKind, d *domain.InventoryDetail, query string) bool {
	switch kind {
	case SearchByRoom:
		return valueMatches(kind, d.RoomName, query)
	case SearchByCAS:
		return valueMatches(kind, d.CASNumber, query)
	default:
		// Solvent name is the default, matching the original behavior.
		return valueMatches(SearchByName, d.SolventName, query)
	}
}

// valueMatches is case-insensitive substring containment; CAS numbers are
// compared with hyphens stripped from both sides so "67561" finds "67-56-1".
func valueMatches(kind SearchKind, value, query string) bool {
	value = strings.ToLower(value)
	query = strings.ToLower(query)
	if kind == SearchByCAS {
		value = strings.ReplaceAll(value, "-", "")
		query = strings.ReplaceAll(query, "-", "")
	}
	return strings.Contains(value, query)
}
