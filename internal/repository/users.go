package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/fvnks/konecte-relay/internal/model"
	"github.com/jmoiron/sqlx"
)

// UsersRepository is the relay's read-only view of the konecte users table.
type UsersRepository interface {
	GetByID(ctx context.Context, id int64) (*model.User, error)
	// FindBySuffix returns the first user whose stored phone ends with the
	// given digit suffix. Stored phones carry inconsistent "+"/country-code
	// prefixes across integrations, so access checks match on the tail only.
	FindBySuffix(ctx context.Context, suffix string) (*model.User, error)
}

type UsersRepositoryImpl struct {
	db *sqlx.DB
}

func NewUsersRepository(db *sqlx.DB) *UsersRepositoryImpl {
	return &UsersRepositoryImpl{db: db}
}

var _ UsersRepository = (*UsersRepositoryImpl)(nil)

const userColumns = `id, name, phone, plan, phone_verified, plan_whatsapp, created_at, updated_at`

func (r *UsersRepositoryImpl) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `
		SELECT `+userColumns+`
		  FROM users
		 WHERE id = ? LIMIT 1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UsersRepositoryImpl) FindBySuffix(ctx context.Context, suffix string) (*model.User, error) {
	var u model.User
	err := r.db.GetContext(ctx, &u, `
		SELECT `+userColumns+`
		  FROM users
		 WHERE phone LIKE CONCAT('%', ?)
		 ORDER BY id
		 LIMIT 1
	`, suffix)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}
