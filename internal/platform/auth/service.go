package auth

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"

	"assetverse-backend/internal/platform/db"
)

// CompanyDirectory は HR 登録時の会社作成を org 側へ委譲する。
// auth から org を直接 import すると循環するので、実装は main で注入する。
type CompanyDirectory interface {
	ValidTier(tier string) bool
	CreateTx(ctx context.Context, tx db.DBTX, name, hrEmail string, logoURL *string, tier string) (int64, error)
}

const (
	RoleHR       = "hr"
	RoleEmployee = "employee"
)

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrInvalidInput  = errors.New("invalid input")
)

type Service struct {
	db        *sql.DB
	store     AccountStore
	companies CompanyDirectory
	secret    []byte
	tokenTTL  time.Duration
}

func NewService(conn *sql.DB, secret []byte, tokenTTL time.Duration, dir CompanyDirectory) *Service {
	return &Service{
		db:        conn,
		store:     NewStore(conn),
		companies: dir,
		secret:    secret,
		tokenTTL:  tokenTTL,
	}
}

func (s *Service) Secret() []byte { return s.secret }

func (s *Service) Login(ctx context.Context, email, password string) (string, string, error) {
	acct, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return "", "", err
	}
	if acct == nil {
		return "", "", errors.New("authentication failed")
	}
	if acct.IsDisabled {
		return "", "", errors.New("account disabled")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(acct.PasswordHash), []byte(password)); err != nil {
		return "", "", errors.New("authentication failed")
	}

	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		Role: acct.Role,
		Name: acct.Name,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acct.Email,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.tokenTTL)),
		},
	})

	tokenString, err := token.SignedString(s.secret)
	if err != nil {
		return "", "", err
	}
	return tokenString, acct.Role, nil
}

// 社員登録。会社への所属はリクエスト承認時に作られるので、ここではアカウントのみ。
func (s *Service) RegisterEmployee(ctx context.Context, email, name, password string) error {
	if err := s.validateNewAccount(ctx, email, name, password); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = db.RunInTx(ctx, s.db, nil, func(ctx context.Context, tx db.DBTX) error {
		return s.store.CreateTx(ctx, tx, &Account{
			Email:        email,
			Name:         name,
			PasswordHash: string(hash),
			Role:         RoleEmployee,
		})
	})
	return translateDuplicate(err)
}

// HR登録。アカウントと会社を同一Txで作る（片方だけ残る状態を作らない）。
func (s *Service) RegisterHR(ctx context.Context, email, name, password, companyName string, logoURL *string, tier string) error {
	if err := s.validateNewAccount(ctx, email, name, password); err != nil {
		return err
	}
	if strings.TrimSpace(companyName) == "" {
		return ErrInvalidInput
	}
	if !s.companies.ValidTier(tier) {
		return ErrInvalidInput
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	err = db.RunInTx(ctx, s.db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx db.DBTX) error {
		if err := s.store.CreateTx(ctx, tx, &Account{
			Email:        email,
			Name:         name,
			PasswordHash: string(hash),
			Role:         RoleHR,
		}); err != nil {
			return err
		}
		_, err := s.companies.CreateTx(ctx, tx, companyName, email, logoURL, tier)
		return err
	})
	return translateDuplicate(err)
}

// 登録レースで validateNewAccount をすり抜けても、UNIQUE制約違反(1062)は
// 通常の重複登録と同じ扱いにする。accounts のPKと companies.uq_companies_hr_email が対象。
func translateDuplicate(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == 1062 {
		return ErrAlreadyExists
	}
	return err
}

func (s *Service) validateNewAccount(ctx context.Context, email, name, password string) error {
	if strings.TrimSpace(email) == "" || strings.TrimSpace(name) == "" || len(password) < 6 {
		return ErrInvalidInput
	}
	exists, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists != nil {
		return ErrAlreadyExists
	}
	return nil
}
