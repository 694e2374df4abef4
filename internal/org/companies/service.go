package companies

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"assetverse-backend/internal/platform/db"
)

// ===== Error model =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string      { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError  { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError { return &APIError{Code: CodeConflict, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict:
			return 409
		default:
			return 500
		}
	}
	return 500
}

type Service struct {
	db    *sql.DB
	store *Store
}

func NewService(conn *sql.DB) *Service { return &Service{db: conn, store: NewStore(conn)} }

func (s *Service) GetMyCompany(ctx context.Context, hrEmail string) (CompanyResponse, error) {
	out, err := s.store.GetByHREmail(ctx, hrEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return CompanyResponse{}, ErrNotFound("company not found")
		}
		return CompanyResponse{}, err
	}
	return *out, nil
}

func (s *Service) ListPackages(_ context.Context) []PackageResponse {
	out := make([]PackageResponse, 0, len(Catalogue))
	for _, p := range Catalogue {
		out = append(out, PackageResponse{Tier: p.Tier, EmployeeLimit: p.EmployeeLimit, PriceUSD: p.PriceUSD})
	}
	return out
}

// プラン変更。使用中シート数を下回る上限には下げられない。
func (s *Service) UpdatePackage(ctx context.Context, hrEmail string, in UpdatePackageRequest) (CompanyResponse, error) {
	pkg, ok := PackageByTier(in.Tier)
	if !ok {
		return CompanyResponse{}, ErrInvalid("unknown package tier")
	}

	companyID, err := s.store.GetIDByHREmail(ctx, hrEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return CompanyResponse{}, ErrNotFound("company not found")
		}
		return CompanyResponse{}, err
	}

	err = db.RunInTx(ctx, s.db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx db.DBTX) error {
		_, used, err := LockSeatsTx(ctx, tx, companyID)
		if err != nil {
			return err
		}
		if used > pkg.EmployeeLimit {
			return ErrConflict("seats in use exceed the new employee limit")
		}
		return s.store.UpdatePackageTx(ctx, tx, companyID, pkg)
	})
	if err != nil {
		return CompanyResponse{}, err
	}

	return s.GetMyCompany(ctx, hrEmail)
}
