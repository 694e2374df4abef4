package auth

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"

	"assetverse-backend/internal/platform/db"
)

type fakeAccounts struct {
	byEmail map[string]*Account
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*Account, error) {
	return f.byEmail[email], nil
}

func (f *fakeAccounts) CreateTx(_ context.Context, _ db.DBTX, _ *Account) error {
	return nil
}

func TestValidateNewAccount(t *testing.T) {
	svc := &Service{store: &fakeAccounts{byEmail: map[string]*Account{
		"taken@example.com": {Email: "taken@example.com"},
	}}}
	ctx := context.Background()

	cases := []struct {
		name                 string
		email, accName, pass string
		want                 error
	}{
		{"blank email", " ", "Alice", "secret1", ErrInvalidInput},
		{"blank name", "a@example.com", " ", "secret1", ErrInvalidInput},
		{"short password", "a@example.com", "Alice", "12345", ErrInvalidInput},
		{"already registered", "taken@example.com", "Alice", "secret1", ErrAlreadyExists},
		{"ok", "new@example.com", "Alice", "secret1", nil},
	}
	for _, c := range cases {
		err := svc.validateNewAccount(ctx, c.email, c.accName, c.pass)
		if !errors.Is(err, c.want) {
			t.Errorf("%s: err = %v, want %v", c.name, err, c.want)
		}
	}
}

// 登録レースでUNIQUE制約に当たった場合は重複登録と同じ409に落ちる
func TestTranslateDuplicate(t *testing.T) {
	dup := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}
	if got := translateDuplicate(dup); !errors.Is(got, ErrAlreadyExists) {
		t.Errorf("1062: got %v, want ErrAlreadyExists", got)
	}

	wrapped := fmt.Errorf("insert account: %w", dup)
	if got := translateDuplicate(wrapped); !errors.Is(got, ErrAlreadyExists) {
		t.Errorf("wrapped 1062: got %v, want ErrAlreadyExists", got)
	}

	fk := &mysql.MySQLError{Number: 1452}
	if got := translateDuplicate(fk); got != error(fk) {
		t.Errorf("1452: got %v, want passthrough", got)
	}

	plain := errors.New("boom")
	if got := translateDuplicate(plain); got != plain {
		t.Errorf("plain: got %v, want passthrough", got)
	}
	if got := translateDuplicate(nil); got != nil {
		t.Errorf("nil: got %v", got)
	}
}
