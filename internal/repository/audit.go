package repository

import (
	"context"

	"github.com/fvnks/konecte-relay/internal/model"
	"github.com/jmoiron/sqlx"
)

// AuditRepository records relayed messages into ClickHouse for admin
// reporting. Writes are best-effort telemetry; the in-memory conversation
// state never reads this table.
type AuditRepository interface {
	Insert(ctx context.Context, e model.AuditEntry) error
	List(ctx context.Context, phone string, status model.MessageStatus, limit, offset int) ([]model.AuditEntry, error)
}

type auditRepository struct {
	ch *sqlx.DB // ClickHouse connection
}

func NewAuditRepository(ch *sqlx.DB) AuditRepository {
	return &auditRepository{ch: ch}
}

func (r *auditRepository) Insert(ctx context.Context, e model.AuditEntry) error {
	const q = `
		INSERT INTO krelay.relay_audit (id, phone, text, sender, status, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`
	_, err := r.ch.ExecContext(ctx, q, e.ID, e.Phone, e.Text, e.Sender, e.Status, e.CreatedAt)
	return err
}

func (r *auditRepository) List(ctx context.Context, phone string, status model.MessageStatus, limit, offset int) ([]model.AuditEntry, error) {
	if limit <= 0 || limit > 1000 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	q := `
		SELECT id, phone, text, sender, status, created_at
		FROM krelay.relay_audit
		WHERE 1 = 1
	`
	args := []any{}

	if phone != "" {
		q += " AND phone = ?"
		args = append(args, phone)
	}
	if status != "" {
		q += " AND status = ?"
		args = append(args, status.String())
	}

	q += " ORDER BY created_at DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	var rows []model.AuditEntry
	if err := r.ch.SelectContext(ctx, &rows, q, args...); err != nil {
		return nil, err
	}
	return rows, nil
}
