package model

import "time"

type User struct {
	ID            int64     `db:"id"`
	Name          string    `db:"name"`
	Phone         string    `db:"phone"` // E.164-ish, prefix formatting varies by source
	Plan          string    `db:"plan"`
	PhoneVerified bool      `db:"phone_verified"`
	PlanWhatsApp  bool      `db:"plan_whatsapp"` // bot feature flag on the user's plan
	CreatedAt     time.Time `db:"created_at"`
	UpdatedAt     time.Time `db:"updated_at"`
}
