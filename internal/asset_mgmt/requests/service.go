package requests

import (
	"context"
	"crypto/rand"
	"database/sql"
	"errors"
	"log"
	"strings"
	"time"

	ulid "github.com/oklog/ulid/v2"

	"assetverse-backend/internal/asset_mgmt/assets"
	"assetverse-backend/internal/org/affiliations"
	"assetverse-backend/internal/org/companies"
	"assetverse-backend/internal/platform/db"
)

// ===== インターフェース群 =====

type Clock interface{ Now() time.Time }

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

type IDGen interface{ NewULID(t time.Time) string }

type ulidGen struct{}

func (ulidGen) NewULID(t time.Time) string {
	entropy := ulid.Monotonic(rand.Reader, 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

// ===== Service本体 =====

type Service struct {
	db        *sql.DB
	store     *Store
	companies *companies.Store
	clock     Clock
	id        IDGen
}

func NewService(conn *sql.DB) *Service {
	return &Service{
		db:        conn,
		store:     NewStore(conn),
		companies: companies.NewStore(conn),
		clock:     realClock{},
		id:        ulidGen{},
	}
}

// 在庫操作のエラーをこのパッケージの語彙に揃える
func mapAssetErr(err error) error {
	var ae *assets.APIError
	if errors.As(err, &ae) {
		switch ae.Code {
		case assets.CodeOutOfStock:
			return NewOutOfStockError()
		case assets.CodeNotFound:
			return NewNotFoundError(ae.Message)
		case assets.CodeConflict:
			return NewConflictError(ae.Message)
		}
	}
	return err
}

func mapAffiliationErr(err error) error {
	var de *affiliations.DomainError
	if errors.As(err, &de) && de.Code == affiliations.ErrCodeQuotaExceeded {
		return NewQuotaExceededError()
	}
	return err
}

// 社員によるリクエスト作成。在庫ゼロの資産には出させない（承認時にも再チェックされる）。
func (s *Service) Create(ctx context.Context, requesterEmail string, req CreateRequestRequest) (*RequestResponse, error) {
	if req.AssetID <= 0 {
		return nil, NewInvalidArgumentError("asset_id must be > 0")
	}

	snap, err := s.store.GetAssetSnapshot(ctx, req.AssetID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, NewNotFoundError("asset not found")
		}
		return nil, err
	}
	if snap.AvailableQuantity <= 0 {
		return nil, NewOutOfStockError()
	}

	now := s.clock.Now()
	r := &Request{
		RequestULID:    s.id.NewULID(now),
		AssetID:        req.AssetID,
		AssetName:      snap.Name,
		AssetType:      snap.Type,
		RequesterEmail: requesterEmail,
		CompanyID:      snap.CompanyID,
		Status:         StatusPending,
		RequestedAt:    now,
	}
	if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
		r.Note.String = *req.Note
		r.Note.Valid = true
	}

	if err := s.store.Insert(ctx, r); err != nil {
		return nil, err
	}

	resp := buildResponse(r)
	return &resp, nil
}

// 承認。在庫引当・所属作成（必要時）・ステータス更新を1Txで行う。
// どれかが失敗したら全部巻き戻る（引当だけ残る状態は作らない）。
func (s *Service) Approve(ctx context.Context, hrEmail, requestULID string) (*RequestResponse, error) {
	companyID, err := s.companyIDOf(ctx, hrEmail)
	if err != nil {
		return nil, err
	}

	err = db.RunInTx(ctx, s.db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx db.DBTX) error {
		req, err := getByULIDForUpdateTx(ctx, tx, requestULID)
		if err != nil {
			if err == sql.ErrNoRows {
				return NewNotFoundError("request not found")
			}
			return err
		}
		if req.CompanyID != companyID {
			return NewNotFoundError("request not found")
		}

		to, ok := Next(req.Status, ActionApprove)
		if !ok {
			return NewInvalidTransitionError(req.Status, ActionApprove)
		}

		if err := assets.ReserveUnitTx(ctx, tx, req.AssetID); err != nil {
			return mapAssetErr(err)
		}

		created, err := affiliations.EnsureWithinQuotaTx(ctx, tx, req.RequesterEmail, companyID)
		if err != nil {
			return mapAffiliationErr(err)
		}
		if created {
			log.Printf("[INFO] affiliation created: %s -> company %d", req.RequesterEmail, companyID)
		}

		return setDecidedTx(ctx, tx, req.RequestID, req.Status, to)
	})
	if err != nil {
		return nil, err
	}

	return s.get(ctx, requestULID)
}

// 却下。在庫には一切触らない。
func (s *Service) Reject(ctx context.Context, hrEmail, requestULID string) (*RequestResponse, error) {
	companyID, err := s.companyIDOf(ctx, hrEmail)
	if err != nil {
		return nil, err
	}

	err = db.RunInTx(ctx, s.db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx db.DBTX) error {
		req, err := getByULIDForUpdateTx(ctx, tx, requestULID)
		if err != nil {
			if err == sql.ErrNoRows {
				return NewNotFoundError("request not found")
			}
			return err
		}
		if req.CompanyID != companyID {
			return NewNotFoundError("request not found")
		}

		to, ok := Next(req.Status, ActionReject)
		if !ok {
			return NewInvalidTransitionError(req.Status, ActionReject)
		}
		return setDecidedTx(ctx, tx, req.RequestID, req.Status, to)
	})
	if err != nil {
		return nil, err
	}

	return s.get(ctx, requestULID)
}

// 返却。自分の approved かつ返却可タイプのみ。在庫解放とステータス更新は同一Tx。
func (s *Service) Return(ctx context.Context, employeeEmail, requestULID string) (*RequestResponse, error) {
	err := db.RunInTx(ctx, s.db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx db.DBTX) error {
		req, err := getByULIDForUpdateTx(ctx, tx, requestULID)
		if err != nil {
			if err == sql.ErrNoRows {
				return NewNotFoundError("request not found")
			}
			return err
		}
		if req.RequesterEmail != employeeEmail {
			return NewForbiddenError("not your request")
		}

		if _, ok := Next(req.Status, ActionReturn); !ok {
			return NewInvalidTransitionError(req.Status, ActionReturn)
		}
		// 返却可否は割当時点のタイプで判定（後からタイプ変更されても契約は変わらない）
		if req.AssetType != assets.TypeReturnable {
			return NewInvalidTransitionError(req.Status, ActionReturn)
		}

		if err := assets.ReleaseUnitTx(ctx, tx, req.AssetID); err != nil {
			return mapAssetErr(err)
		}
		return setReturnedTx(ctx, tx, req.RequestID)
	})
	if err != nil {
		return nil, err
	}

	return s.get(ctx, requestULID)
}

// HRによる直接割当。Pendingを作らず approved のリクエストを起こし、
// 在庫引当と所属作成を同じTxで済ませる。
func (s *Service) DirectAssign(ctx context.Context, hrEmail string, req DirectAssignRequest) (*RequestResponse, error) {
	if req.AssetID <= 0 {
		return nil, NewInvalidArgumentError("asset_id must be > 0")
	}
	if strings.TrimSpace(req.EmployeeEmail) == "" {
		return nil, NewInvalidArgumentError("employee_email is required")
	}

	companyID, err := s.companyIDOf(ctx, hrEmail)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	r := &Request{
		RequestULID:    s.id.NewULID(now),
		AssetID:        req.AssetID,
		RequesterEmail: req.EmployeeEmail,
		CompanyID:      companyID,
		Status:         StatusApproved,
		DirectAssign:   true,
		RequestedAt:    now,
	}
	r.DecidedAt.Time = now
	r.DecidedAt.Valid = true
	if req.Note != nil && strings.TrimSpace(*req.Note) != "" {
		r.Note.String = *req.Note
		r.Note.Valid = true
	}

	err = db.RunInTx(ctx, s.db, &sql.TxOptions{Isolation: sql.LevelReadCommitted}, func(ctx context.Context, tx db.DBTX) error {
		ok, err := employeeExistsTx(ctx, tx, req.EmployeeEmail)
		if err != nil {
			return err
		}
		if !ok {
			return NewNotFoundError("employee account not found")
		}

		asset, err := assets.GetForUpdateTx(ctx, tx, req.AssetID)
		if err != nil {
			if err == sql.ErrNoRows {
				return NewNotFoundError("asset not found")
			}
			return err
		}
		if asset.CompanyID != companyID {
			return NewNotFoundError("asset not found")
		}
		r.AssetName = asset.Name
		r.AssetType = asset.Type

		if err := assets.ReserveUnitTx(ctx, tx, req.AssetID); err != nil {
			return mapAssetErr(err)
		}
		if _, err := affiliations.EnsureWithinQuotaTx(ctx, tx, req.EmployeeEmail, companyID); err != nil {
			return mapAffiliationErr(err)
		}
		return insertTx(ctx, tx, r)
	})
	if err != nil {
		return nil, err
	}

	resp := buildResponse(r)
	return &resp, nil
}

// 単発取得。一覧と同じスコープ（HR:自社 / 社員:自分が出したもの）で絞る。
// スコープ外はNOT_FOUNDにして存在自体を漏らさない。
func (s *Service) Get(ctx context.Context, actorEmail, role, requestULID string) (*RequestResponse, error) {
	r, err := s.store.GetByULID(ctx, requestULID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, NewNotFoundError("request not found")
		}
		return nil, err
	}

	var companyID int64
	if role == "hr" {
		companyID, err = s.companyIDOf(ctx, actorEmail)
		if err != nil {
			return nil, err
		}
	}
	if !visibleTo(r, actorEmail, role, companyID) {
		return nil, NewNotFoundError("request not found")
	}

	resp := buildResponse(r)
	return &resp, nil
}

func visibleTo(r *Request, actorEmail, role string, companyID int64) bool {
	if role == "hr" {
		return r.CompanyID == companyID
	}
	return r.RequesterEmail == actorEmail
}

// スコープ確認済みの呼び出し元（承認・却下・返却の結果返し）専用
func (s *Service) get(ctx context.Context, requestULID string) (*RequestResponse, error) {
	r, err := s.store.GetByULID(ctx, requestULID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, NewNotFoundError("request not found")
		}
		return nil, err
	}
	resp := buildResponse(r)
	return &resp, nil
}

// 一覧。HRは自社分、社員は自分の分だけ。
func (s *Service) List(ctx context.Context, actorEmail, role string, f RequestFilter, p Page) ([]RequestResponse, int64, error) {
	if role == "hr" {
		companyID, err := s.companyIDOf(ctx, actorEmail)
		if err != nil {
			return nil, 0, err
		}
		return s.store.List(ctx, &companyID, f, p)
	}

	f.RequesterEmail = &actorEmail
	return s.store.List(ctx, nil, f, p)
}

func (s *Service) companyIDOf(ctx context.Context, hrEmail string) (int64, error) {
	id, err := s.companies.GetIDByHREmail(ctx, hrEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return 0, NewNotFoundError("company not found for hr")
		}
		return 0, err
	}
	return id, nil
}
