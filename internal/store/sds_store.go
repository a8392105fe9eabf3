package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/ymorita/solventory/internal/domain"
)

type SDSStore struct {
	db *sql.DB
}

func NewSDSStore(db *sql.DB) *SDSStore {
	return &SDSStore{db: db}
}

// Upsert records the stored document for a solvent, replacing any previous
// one.
func (s *SDSStore) Upsert(ctx context.Context, solventID, storageKey, mimeType string) (*domain.SDSDocument, error) {
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sds_documents (solvent_id, storage_key, mime_type, uploaded_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (solvent_id) DO UPDATE SET
			storage_key = excluded.storage_key,
			mime_type = excluded.mime_type,
			uploaded_at = excluded.uploaded_at
	`, solventID, storageKey, mimeType, now)
	if err != nil {
		return nil, fmt.Errorf("failed to upsert sds document: %w", err)
	}

	return &domain.SDSDocument{
		SolventID:  solventID,
		StorageKey: storageKey,
		MimeType:   mimeType,
		UploadedAt: now,
	}, nil
}

func (s *SDSStore) GetBySolventID(ctx context.Context, solventID string) (*domain.SDSDocument, error) {
	doc := &domain.SDSDocument{}
	err := s.db.QueryRowContext(ctx, `
		SELECT solvent_id, storage_key, mime_type, uploaded_at
		FROM sds_documents WHERE solvent_id = ?
	`, solventID).Scan(&doc.SolventID, &doc.StorageKey, &doc.MimeType, &doc.UploadedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sds document: %w", err)
	}

	return doc, nil
}
