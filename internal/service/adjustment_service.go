package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/ymorita/solventory/internal/domain"
	"github.com/ymorita/solventory/internal/metrics"
	"github.com/ymorita/solventory/internal/store"
)

var (
	// ErrNotFound means the referenced inventory record does not exist.
	ErrNotFound = errors.New("inventory record not found")
	// ErrInvalidInput rejects a request before any store access.
	ErrInvalidInput = errors.New("invalid adjustment input")
)

// FallbackActor is recorded when no authenticated actor identity is
// available.
const FallbackActor = "staff"

// maxConflictRetries bounds how often an adjustment re-reads and retries
// after losing an optimistic-lock race.
const maxConflictRetries = 3

type CommitStatus int

const (
	// StatusCommitted: amount updated and audit entry appended.
	StatusCommitted CommitStatus = iota
	// StatusCommittedLogMissing: amount updated but the audit append failed.
	// The amount change stands; the gap is reported operationally, never to
	// the end user as a failure.
	StatusCommittedLogMissing
)

// CommitResult is the outcome of a successful adjustment. Entry is nil when
// Status is StatusCommittedLogMissing.
type CommitResult struct {
	NewAmount domain.Liters
	Status    CommitStatus
	Entry     *domain.LogEntry
}

// adjustmentInventoryRepository is the subset of store.InventoryStore that
// AdjustmentService requires. UpdateAmount must report
// store.ErrVersionConflict when the snapshot version is stale.
type adjustmentInventoryRepository interface {
	GetByID(ctx context.Context, id string) (*domain.InventoryRecord, error)
	UpdateAmount(ctx context.Context, id string, amount domain.Liters, version int64, updatedAt time.Time) error
}

// adjustmentLogRepository is the subset of store.LogStore that
// AdjustmentService requires.
type adjustmentLogRepository interface {
	Append(ctx context.Context, inventoryID string, change domain.Liters, userName string) (*domain.LogEntry, error)
}

// AdjustmentService owns the inventory-adjustment transaction: snapshot the
// record, clamp the new amount at zero, commit with a version check, then
// append the unclamped requested delta to the audit log.
type AdjustmentService struct {
	inventory adjustmentInventoryRepository
	logs      adjustmentLogRepository
	metrics   *metrics.Metrics
	logger    *slog.Logger
}

func NewAdjustmentService(inventory adjustmentInventoryRepository, logs adjustmentLogRepository, m *metrics.Metrics, logger *slog.Logger) *AdjustmentService {
	return &AdjustmentService{
		inventory: inventory,
		logs:      logs,
		metrics:   m,
		logger:    logger,
	}
}

// Adjust applies a signed delta to the record's current amount. Positive
// deltas add stock, negative deltas consume it; the resulting amount is
// floored at zero while the log entry keeps the full requested delta.
//
// Concurrent adjustments to the same record are serialized optimistically:
// a stale snapshot fails the version check and the transaction re-reads and
// retries, so no update is lost.
func (s *AdjustmentService) Adjust(ctx context.Context, inventoryID string, delta domain.Liters, actor string) (*CommitResult, error) {
	if inventoryID == "" {
		s.metrics.AdjustmentsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: missing inventory id", ErrInvalidInput)
	}
	if delta == 0 {
		s.metrics.AdjustmentsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("%w: delta must be non-zero", ErrInvalidInput)
	}

	actor = strings.TrimSpace(actor)
	if actor == "" {
		actor = FallbackActor
	}

	var newAmount domain.Liters
	for attempt := 1; ; attempt++ {
		rec, err := s.inventory.GetByID(ctx, inventoryID)
		if err != nil {
			s.metrics.AdjustmentsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return nil, fmt.Errorf("failed to read inventory record: %w", err)
		}
		if rec == nil {
			s.metrics.AdjustmentsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
			return nil, ErrNotFound
		}

		newAmount = rec.Amount + delta
		if newAmount < 0 {
			newAmount = 0
		}

		err = s.inventory.UpdateAmount(ctx, inventoryID, newAmount, rec.Version, time.Now().UTC())
		if err == nil {
			break
		}
		if errors.Is(err, store.ErrVersionConflict) {
			s.metrics.VersionConflictsTotal.Inc()
			if attempt >= maxConflictRetries {
				s.metrics.AdjustmentsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
				return nil, fmt.Errorf("adjustment contention on record %s: %w", inventoryID, err)
			}
			s.logger.Debug("adjustment version conflict, retrying",
				"inventory_id", inventoryID, "attempt", attempt)
			continue
		}
		s.metrics.AdjustmentsTotal.WithLabelValues(metrics.OutcomeRejected).Inc()
		return nil, fmt.Errorf("failed to update inventory record: %w", err)
	}

	// The amount is committed. A failed audit append must not undo or fail
	// the quantity change: blocking a physical inventory correction on the
	// log write would leave the record wrong, which is the worse outcome.
	entry, err := s.logs.Append(ctx, inventoryID, delta, actor)
	if err != nil {
		s.metrics.LogAppendFailuresTotal.Inc()
		s.metrics.AdjustmentsTotal.WithLabelValues(metrics.OutcomeCommittedNoLog).Inc()
		s.logger.Warn("audit log append failed after committed adjustment",
			"inventory_id", inventoryID,
			"change", delta.String(),
			"actor", actor,
			"error", err,
		)
		return &CommitResult{NewAmount: newAmount, Status: StatusCommittedLogMissing}, nil
	}

	s.metrics.AdjustmentsTotal.WithLabelValues(metrics.OutcomeCommitted).Inc()
	s.logger.Info("inventory adjusted",
		"inventory_id", inventoryID,
		"change", delta.String(),
		"new_amount", newAmount.String(),
		"actor", actor,
	)
	return &CommitResult{NewAmount: newAmount, Status: StatusCommitted, Entry: entry}, nil
}
