package affiliations

import (
	"context"
	"database/sql"
	"errors"

	"github.com/go-sql-driver/mysql"

	"assetverse-backend/internal/org/companies"
	"assetverse-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

func (s *Store) List(ctx context.Context, companyID int64) ([]AffiliationResponse, error) {
	const q = `
	SELECT a.affiliation_id, a.employee_email, acc.name, a.company_id, a.role, a.joined_at
	FROM affiliations a
	LEFT JOIN accounts acc ON acc.email = a.employee_email
	WHERE a.company_id = ?
	ORDER BY a.joined_at ASC, a.affiliation_id ASC`
	rows, err := s.db.QueryContext(ctx, q, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []AffiliationResponse{}
	for rows.Next() {
		var r AffiliationResponse
		var name sql.NullString
		if err := rows.Scan(&r.AffiliationID, &r.EmployeeEmail, &name, &r.CompanyID, &r.Role, &r.JoinedAt); err != nil {
			return nil, err
		}
		if name.Valid {
			v := name.String
			r.EmployeeName = &v
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// ===== Tx functions（承認フローと共有） =====

// 所属が無ければシート上限を確認した上で作る。上限到達なら QuotaExceeded で
// Txごと巻き戻してもらう（在庫引当も一緒に消える）。
func EnsureWithinQuotaTx(ctx context.Context, tx db.DBTX, employeeEmail string, companyID int64) (created bool, err error) {
	const qExists = `SELECT 1 FROM affiliations WHERE employee_email = ? AND company_id = ?`
	var one int
	err = tx.QueryRowContext(ctx, qExists, employeeEmail, companyID).Scan(&one)
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, err
	}

	// 会社行ロック→カウント。上限境界で競合しても直列化される。
	limit, used, err := companies.LockSeatsTx(ctx, tx, companyID)
	if err != nil {
		return false, err
	}

	// ロック待ちの間に別Txが同じ所属を作ってコミットしている場合がある
	err = tx.QueryRowContext(ctx, qExists, employeeEmail, companyID).Scan(&one)
	if err == nil {
		return false, nil
	}
	if err != sql.ErrNoRows {
		return false, err
	}

	if used >= limit {
		return false, NewQuotaExceededError()
	}

	const qIns = `
	INSERT INTO affiliations (employee_email, company_id, role, joined_at)
	VALUES (?, ?, 'member', UTC_TIMESTAMP())`
	if _, err := tx.ExecContext(ctx, qIns, employeeEmail, companyID); err != nil {
		if isDuplicateEntry(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// MySQL errno 1062 (uq_affiliations_pair 違反)
func isDuplicateEntry(err error) bool {
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}

func getForUpdateTx(ctx context.Context, tx db.DBTX, employeeEmail string, companyID int64) (int64, error) {
	const q = `
	SELECT affiliation_id FROM affiliations
	WHERE employee_email = ? AND company_id = ? FOR UPDATE`
	var id int64
	if err := tx.QueryRowContext(ctx, q, employeeEmail, companyID).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

type outstandingRow struct {
	RequestID int64
	AssetID   int64
}

// 解除対象社員の approved かつ返却可の割当（資産タイプはリクエスト行のスナップショットで判定）
func listOutstandingReturnableTx(ctx context.Context, tx db.DBTX, employeeEmail string, companyID int64) ([]outstandingRow, error) {
	const q = `
	SELECT request_id, asset_id FROM requests
	WHERE requester_email = ? AND company_id = ? AND status = 'approved' AND asset_type = 'returnable'
	FOR UPDATE`
	rows, err := tx.QueryContext(ctx, q, employeeEmail, companyID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []outstandingRow{}
	for rows.Next() {
		var r outstandingRow
		if err := rows.Scan(&r.RequestID, &r.AssetID); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

func markReturnedTx(ctx context.Context, tx db.DBTX, requestID int64) error {
	const q = `
	UPDATE requests SET status = 'returned', returned_at = UTC_TIMESTAMP()
	WHERE request_id = ? AND status = 'approved'`
	res, err := tx.ExecContext(ctx, q, requestID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff != 1 {
		return &DomainError{Code: ErrCodeConflict, Message: "request state changed during removal"}
	}
	return nil
}

func deleteTx(ctx context.Context, tx db.DBTX, affiliationID int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM affiliations WHERE affiliation_id = ?`, affiliationID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff != 1 {
		return sql.ErrNoRows
	}
	return nil
}
