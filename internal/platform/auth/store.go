package auth

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"assetverse-backend/internal/platform/db"
)

type Account struct {
	Email        string
	Name         string
	PasswordHash string
	Role         string // "hr" | "employee"
	IsDisabled   bool
	CreatedAt    time.Time
}

type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*Account, error)
	CreateTx(ctx context.Context, tx db.DBTX, a *Account) error
}

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) AccountStore {
	return &Store{db: conn}
}

func (s *Store) GetByEmail(ctx context.Context, email string) (*Account, error) {
	const q = `
SELECT email, name, password_hash, role, is_disabled, created_at
FROM accounts
WHERE email = ?
LIMIT 1
`
	var a Account
	var isDisabledInt int
	err := s.db.QueryRowContext(ctx, q, email).Scan(
		&a.Email,
		&a.Name,
		&a.PasswordHash,
		&a.Role,
		&isDisabledInt,
		&a.CreatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	if isDisabledInt != 0 {
		a.IsDisabled = true
	}
	return &a, nil
}

func (s *Store) CreateTx(ctx context.Context, tx db.DBTX, a *Account) error {
	const q = `
INSERT INTO accounts (email, name, password_hash, role, is_disabled, created_at)
VALUES (?, ?, ?, ?, 0, NOW(6))
`
	_, err := tx.ExecContext(ctx, q, a.Email, a.Name, a.PasswordHash, a.Role)
	return err
}
