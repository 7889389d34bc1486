package model

import "time"

// AuditEntry is the write-only ClickHouse projection of a relayed message.
// It is telemetry for admin reporting; conversation state never reads it back.
type AuditEntry struct {
	ID        string    `db:"id" json:"id"`
	Phone     string    `db:"phone" json:"phone"`
	Text      string    `db:"text" json:"text"`
	Sender    string    `db:"sender" json:"sender"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
