package affiliations

import (
	"context"
	"database/sql"
	"errors"

	"assetverse-backend/internal/asset_mgmt/assets"
	"assetverse-backend/internal/org/companies"
	"assetverse-backend/internal/platform/db"
)

type Service struct {
	db        *sql.DB
	store     *Store
	companies *companies.Store
}

func NewService(conn *sql.DB) *Service {
	return &Service{db: conn, store: NewStore(conn), companies: companies.NewStore(conn)}
}

func toHTTPStatus(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case ErrCodeInvalidArgument:
			return 400
		case ErrCodeNotFound:
			return 404
		case ErrCodeConflict, ErrCodeQuotaExceeded:
			return 409
		case ErrCodeForbidden:
			return 403
		default:
			return 500
		}
	}
	return 500
}

// HRの自社所属一覧
func (s *Service) ListForHR(ctx context.Context, hrEmail string) ([]AffiliationResponse, error) {
	companyID, err := s.companies.GetIDByHREmail(ctx, hrEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, NewNotFoundError("company not found for hr")
		}
		return nil, err
	}
	return s.store.List(ctx, companyID)
}

// 所属解除。返却可の貸与品は同一Txで自動返却し在庫へ戻す。返却不可は履歴として残す。
func (s *Service) Remove(ctx context.Context, hrEmail, employeeEmail string) (RemoveResult, error) {
	if employeeEmail == "" {
		return RemoveResult{}, NewInvalidArgumentError("employee email is required")
	}

	companyID, err := s.companies.GetIDByHREmail(ctx, hrEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return RemoveResult{}, NewNotFoundError("company not found for hr")
		}
		return RemoveResult{}, err
	}

	var result RemoveResult
	err = db.RunInTx(ctx, s.db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx db.DBTX) error {
		affID, err := getForUpdateTx(ctx, tx, employeeEmail, companyID)
		if err != nil {
			if err == sql.ErrNoRows {
				return NewNotFoundError("affiliation not found")
			}
			return err
		}

		outstanding, err := listOutstandingReturnableTx(ctx, tx, employeeEmail, companyID)
		if err != nil {
			return err
		}
		for _, o := range outstanding {
			if err := assets.ReleaseUnitTx(ctx, tx, o.AssetID); err != nil {
				return err
			}
			if err := markReturnedTx(ctx, tx, o.RequestID); err != nil {
				return err
			}
		}
		result.ReturnedRequests = len(outstanding)

		return deleteTx(ctx, tx, affID)
	})
	if err != nil {
		return RemoveResult{}, err
	}
	return result, nil
}
