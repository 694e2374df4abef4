package requests

import (
	"context"
	"database/sql"
	"strings"

	"assetverse-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

const requestColumns = `
	request_id, request_ulid, asset_id, asset_name, asset_type,
	requester_email, company_id, status, direct_assign, note,
	requested_at, decided_at, returned_at`

func scanRequest(row interface{ Scan(...any) error }) (*Request, error) {
	var r Request
	if err := row.Scan(
		&r.RequestID, &r.RequestULID, &r.AssetID, &r.AssetName, &r.AssetType,
		&r.RequesterEmail, &r.CompanyID, &r.Status, &r.DirectAssign, &r.Note,
		&r.RequestedAt, &r.DecidedAt, &r.ReturnedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

// 作成時に資産のスナップショットを取るための最小読み取り
type AssetSnapshot struct {
	Name              string
	Type              string
	CompanyID         int64
	AvailableQuantity int
}

func (s *Store) GetAssetSnapshot(ctx context.Context, assetID int64) (*AssetSnapshot, error) {
	const q = `
	SELECT name, asset_type, company_id, available_quantity
	FROM assets WHERE asset_id = ?`
	var a AssetSnapshot
	if err := s.db.QueryRowContext(ctx, q, assetID).Scan(&a.Name, &a.Type, &a.CompanyID, &a.AvailableQuantity); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s *Store) Insert(ctx context.Context, r *Request) error {
	const q = `
	INSERT INTO requests
	(request_ulid, asset_id, asset_name, asset_type, requester_email, company_id, status, direct_assign, note, requested_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := s.db.ExecContext(ctx, q,
		r.RequestULID, r.AssetID, r.AssetName, r.AssetType,
		r.RequesterEmail, r.CompanyID, r.Status, r.DirectAssign, r.Note, r.RequestedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.RequestID = id
	return nil
}

func (s *Store) GetByULID(ctx context.Context, ulid string) (*Request, error) {
	return scanRequest(s.db.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE request_ulid = ?`, ulid))
}

func (s *Store) List(ctx context.Context, companyID *int64, f RequestFilter, p Page) ([]RequestResponse, int64, error) {
	order := "DESC"
	if strings.ToLower(p.Order) == "asc" {
		order = "ASC"
	}
	if p.Limit <= 0 {
		p.Limit = 50
	}
	if p.Offset < 0 {
		p.Offset = 0
	}

	where := "WHERE 1=1"
	args := []any{}
	if companyID != nil {
		where += " AND company_id = ?"
		args = append(args, *companyID)
	}
	if f.RequesterEmail != nil {
		where += " AND requester_email = ?"
		args = append(args, *f.RequesterEmail)
	}
	if f.Status != nil {
		where += " AND status = ?"
		args = append(args, *f.Status)
	}
	if f.AssetID != nil {
		where += " AND asset_id = ?"
		args = append(args, *f.AssetID)
	}

	selectSQL := `SELECT ` + requestColumns + ` FROM requests ` + where + `
	ORDER BY requested_at ` + order + `, request_id ` + order + `
	LIMIT ? OFFSET ?`
	queryArgs := append(append([]any{}, args...), p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, selectSQL, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []RequestResponse{}
	for rows.Next() {
		r, err := scanRequest(rows)
		if err != nil {
			return nil, 0, err
		}
		out = append(out, buildResponse(r))
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countSQL := `SELECT COUNT(*) FROM requests ` + where
	var total int64
	if err := s.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

// ===== Tx functions =====

func getByULIDForUpdateTx(ctx context.Context, tx db.DBTX, ulid string) (*Request, error) {
	return scanRequest(tx.QueryRowContext(ctx,
		`SELECT `+requestColumns+` FROM requests WHERE request_ulid = ? FOR UPDATE`, ulid))
}

func insertTx(ctx context.Context, tx db.DBTX, r *Request) error {
	const q = `
	INSERT INTO requests
	(request_ulid, asset_id, asset_name, asset_type, requester_email, company_id, status, direct_assign, note, requested_at, decided_at)
	VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := tx.ExecContext(ctx, q,
		r.RequestULID, r.AssetID, r.AssetName, r.AssetType,
		r.RequesterEmail, r.CompanyID, r.Status, r.DirectAssign, r.Note, r.RequestedAt, r.DecidedAt,
	)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	r.RequestID = id
	return nil
}

// 行ロック済み前提。status の一致も条件に入れて二重適用を防ぐ。
func setDecidedTx(ctx context.Context, tx db.DBTX, requestID int64, from, to Status) error {
	const q = `
	UPDATE requests SET status = ?, decided_at = UTC_TIMESTAMP()
	WHERE request_id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, to, requestID, from)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff != 1 {
		return NewConflictError("request state changed concurrently")
	}
	return nil
}

func setReturnedTx(ctx context.Context, tx db.DBTX, requestID int64) error {
	const q = `
	UPDATE requests SET status = ?, returned_at = UTC_TIMESTAMP()
	WHERE request_id = ? AND status = ?`
	res, err := tx.ExecContext(ctx, q, StatusReturned, requestID, StatusApproved)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff != 1 {
		return NewConflictError("request state changed concurrently")
	}
	return nil
}

func employeeExistsTx(ctx context.Context, tx db.DBTX, email string) (bool, error) {
	const q = `SELECT 1 FROM accounts WHERE email = ? AND role = 'employee' AND is_disabled = 0`
	var one int
	err := tx.QueryRowContext(ctx, q, email).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
