package assets

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"assetverse-backend/internal/org/companies"
	"assetverse-backend/internal/platform/db"
)

// ===== Error model =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeConflict        Code = "CONFLICT"
	CodeOutOfStock      Code = "OUT_OF_STOCK"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string        { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrInvalid(msg string) *APIError    { return &APIError{Code: CodeInvalidArgument, Message: msg} }
func ErrNotFound(msg string) *APIError   { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrConflict(msg string) *APIError   { return &APIError{Code: CodeConflict, Message: msg} }
func ErrOutOfStock(msg string) *APIError { return &APIError{Code: CodeOutOfStock, Message: msg} }
func ErrInternal(msg string) *APIError   { return &APIError{Code: CodeInternal, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeNotFound:
			return 404
		case CodeConflict, CodeOutOfStock:
			return 409
		default:
			return 500
		}
	}
	return 500
}

type Service struct {
	db        *sql.DB
	store     *Store
	companies *companies.Store
}

func NewService(conn *sql.DB) *Service {
	return &Service{db: conn, store: NewStore(conn), companies: companies.NewStore(conn)}
}

func (s *Service) Create(ctx context.Context, hrEmail string, in CreateAssetRequest) (AssetResponse, error) {
	if strings.TrimSpace(in.Name) == "" {
		return AssetResponse{}, ErrInvalid("name is required")
	}
	if !ValidType(in.Type) {
		return AssetResponse{}, ErrInvalid("type must be returnable or non_returnable")
	}
	if in.TotalQuantity < 1 {
		return AssetResponse{}, ErrInvalid("total_quantity must be >= 1")
	}

	companyID, err := s.companies.GetIDByHREmail(ctx, hrEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return AssetResponse{}, ErrNotFound("company not found for hr")
		}
		return AssetResponse{}, err
	}

	id, err := s.store.Insert(ctx, in, companyID)
	if err != nil {
		return AssetResponse{}, err
	}
	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		return AssetResponse{}, err
	}
	return *out, nil
}

func (s *Service) Get(ctx context.Context, id int64) (AssetResponse, error) {
	out, err := s.store.GetByID(ctx, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return AssetResponse{}, ErrNotFound("asset not found")
		}
		return AssetResponse{}, err
	}
	return *out, nil
}

func (s *Service) List(ctx context.Context, actorEmail, role string, q AssetSearchQuery, p Page) ([]AssetResponse, int64, error) {
	// 閲覧スコープを解決（HR:自社 / 社員:所属している会社すべて）
	if role == "hr" {
		companyID, err := s.companies.GetIDByHREmail(ctx, actorEmail)
		if err != nil {
			if err == sql.ErrNoRows {
				return nil, 0, ErrNotFound("company not found for hr")
			}
			return nil, 0, err
		}
		q.CompanyIDs = []int64{companyID}
	} else {
		ids, err := s.store.ListCompanyIDsForEmployee(ctx, actorEmail)
		if err != nil {
			return nil, 0, err
		}
		if len(ids) == 0 {
			// 未所属の社員は全社の在庫を閲覧できる（リクエストを出す前なので）
			q.CompanyIDs = nil
		} else {
			q.CompanyIDs = ids
		}
	}

	return s.store.List(ctx, q, p)
}

// 名称・タイプ・総数の変更。総数を消費済み数より下げようとしたら CONFLICT。
func (s *Service) Update(ctx context.Context, hrEmail string, id int64, in UpdateAssetRequest) (AssetResponse, error) {
	if in.Type != nil && !ValidType(*in.Type) {
		return AssetResponse{}, ErrInvalid("type must be returnable or non_returnable")
	}
	if in.Name != nil && strings.TrimSpace(*in.Name) == "" {
		return AssetResponse{}, ErrInvalid("name must not be empty")
	}
	if in.TotalQuantity != nil && *in.TotalQuantity < 1 {
		return AssetResponse{}, ErrInvalid("total_quantity must be >= 1")
	}

	companyID, err := s.companies.GetIDByHREmail(ctx, hrEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return AssetResponse{}, ErrNotFound("company not found for hr")
		}
		return AssetResponse{}, err
	}

	err = db.RunInTx(ctx, s.db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx db.DBTX) error {
		row, err := GetForUpdateTx(ctx, tx, id)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrNotFound("asset not found")
			}
			return err
		}
		if row.CompanyID != companyID {
			return ErrNotFound("asset not found")
		}

		if in.TotalQuantity != nil {
			consumed := row.TotalQuantity - row.AvailableQuantity
			if *in.TotalQuantity < consumed {
				return ErrConflict(fmt.Sprintf("total_quantity %d is below %d units currently assigned", *in.TotalQuantity, consumed))
			}
			// available は消費数を保ったまま再計算
			newAvail := *in.TotalQuantity - consumed
			return updateTx(ctx, tx, id, in, &newAvail)
		}
		return updateTx(ctx, tx, id, in, nil)
	})
	if err != nil {
		return AssetResponse{}, err
	}

	return s.Get(ctx, id)
}

// 貸出中（pending/approved のリクエストが残っている）資産は消せない。
func (s *Service) Delete(ctx context.Context, hrEmail string, id int64) error {
	companyID, err := s.companies.GetIDByHREmail(ctx, hrEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return ErrNotFound("company not found for hr")
		}
		return err
	}

	return db.RunInTx(ctx, s.db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx db.DBTX) error {
		row, err := GetForUpdateTx(ctx, tx, id)
		if err != nil {
			if err == sql.ErrNoRows {
				return ErrNotFound("asset not found")
			}
			return err
		}
		if row.CompanyID != companyID {
			return ErrNotFound("asset not found")
		}

		n, err := countOpenRequestsTx(ctx, tx, id)
		if err != nil {
			return err
		}
		if n > 0 {
			return ErrConflict(fmt.Sprintf("%d open request(s) reference this asset", n))
		}
		return deleteTx(ctx, tx, id)
	})
}
