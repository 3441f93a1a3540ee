package store

import (
	"context"

	"microfin/internal/models"
)

type AuditStore struct {
	db DB
}

func NewAuditStore(db DB) *AuditStore {
	return &AuditStore{db: db}
}

// Insert records one audit entry. Callers treat this as fire-and-forget;
// a failed insert never aborts the operation that produced it.
func (s *AuditStore) Insert(ctx context.Context, id, logCode string, officerID *string, details, action string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO audit_logs (id, log_code, officer_id, details, action)
		VALUES ($1, $2, $3, $4, $5)
	`, id, logCode, officerID, details, action)
	return err
}

func (s *AuditStore) List(ctx context.Context, limit, offset int) ([]models.AuditLog, error) {
	var rows []models.AuditLog
	err := s.db.SelectContext(ctx, &rows, `
		SELECT id, log_code, officer_id, details, action, created_at
		FROM audit_logs
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2
	`, limit, offset)
	return rows, err
}
