package assets

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"assetverse-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

type AssetRow struct {
	AssetID           int64
	Name              string
	Type              string
	TotalQuantity     int
	AvailableQuantity int
	CompanyID         int64
	CreatedAt         time.Time
}

func (s *Store) Insert(ctx context.Context, in CreateAssetRequest, companyID int64) (int64, error) {
	const q = `
	INSERT INTO assets (name, asset_type, total_quantity, available_quantity, company_id, created_at)
	VALUES (?, ?, ?, ?, ?, UTC_TIMESTAMP())`
	res, err := s.db.ExecContext(ctx, q, in.Name, in.Type, in.TotalQuantity, in.TotalQuantity, companyID)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *Store) GetByID(ctx context.Context, id int64) (*AssetResponse, error) {
	const q = `
	SELECT asset_id, name, asset_type, total_quantity, available_quantity, company_id, created_at
	FROM assets WHERE asset_id = ?`
	var r AssetResponse
	if err := s.db.QueryRowContext(ctx, q, id).Scan(
		&r.AssetID, &r.Name, &r.Type, &r.TotalQuantity, &r.AvailableQuantity, &r.CompanyID, &r.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

// 社員が所属している会社IDの一覧
func (s *Store) ListCompanyIDsForEmployee(ctx context.Context, email string) ([]int64, error) {
	const q = `SELECT company_id FROM affiliations WHERE employee_email = ?`
	rows, err := s.db.QueryContext(ctx, q, email)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := []int64{}
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

func (s *Store) List(ctx context.Context, q AssetSearchQuery, p Page) ([]AssetResponse, int64, error) {
	// 安全な order
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

	// WHERE 句と args を共通で作る
	where := "WHERE 1=1"
	args := []any{}
	if len(q.CompanyIDs) > 0 {
		where += " AND company_id IN (?" + strings.Repeat(",?", len(q.CompanyIDs)-1) + ")"
		for _, id := range q.CompanyIDs {
			args = append(args, id)
		}
	}
	if q.Search != nil && *q.Search != "" {
		where += " AND name LIKE ?"
		args = append(args, "%"+*q.Search+"%")
	}
	if q.Type != nil && *q.Type != "" {
		where += " AND asset_type = ?"
		args = append(args, *q.Type)
	}
	if q.Availability != nil {
		switch *q.Availability {
		case "available":
			where += " AND available_quantity > 0"
		case "out_of_stock":
			where += " AND available_quantity = 0"
		}
	}

	selectSQL := `
	SELECT asset_id, name, asset_type, total_quantity, available_quantity, company_id, created_at
	FROM assets
	` + where + `
	ORDER BY created_at ` + order + `, asset_id ` + order + `
	LIMIT ? OFFSET ?`

	queryArgs := append(append([]any{}, args...), p.Limit, p.Offset)

	rows, err := s.db.QueryContext(ctx, selectSQL, queryArgs...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	out := []AssetResponse{}
	for rows.Next() {
		var r AssetResponse
		if err := rows.Scan(
			&r.AssetID, &r.Name, &r.Type, &r.TotalQuantity, &r.AvailableQuantity, &r.CompanyID, &r.CreatedAt,
		); err != nil {
			return nil, 0, err
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// カウント用 SQL（LIMIT/OFFSETなし・同じWHERE）
	countSQL := `SELECT COUNT(*) FROM assets ` + where
	var total int64
	if err := s.db.QueryRowContext(ctx, countSQL, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return out, total, nil
}

// ===== Tx functions（ワークフロー側と共有する在庫操作） =====

func GetForUpdateTx(ctx context.Context, tx db.DBTX, id int64) (*AssetRow, error) {
	const q = `
	SELECT asset_id, name, asset_type, total_quantity, available_quantity, company_id, created_at
	FROM assets WHERE asset_id = ? FOR UPDATE`
	var r AssetRow
	if err := tx.QueryRowContext(ctx, q, id).Scan(
		&r.AssetID, &r.Name, &r.Type, &r.TotalQuantity, &r.AvailableQuantity, &r.CompanyID, &r.CreatedAt,
	); err != nil {
		return nil, err
	}
	return &r, nil
}

// 在庫1個の引当。条件付きUPDATEなので同じ最後の1個を取り合っても勝者は1人。
func ReserveUnitTx(ctx context.Context, tx db.DBTX, assetID int64) error {
	const q = `
	UPDATE assets SET available_quantity = available_quantity - 1
	WHERE asset_id = ? AND available_quantity > 0`
	res, err := tx.ExecContext(ctx, q, assetID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		// 行が無いのか在庫切れなのかを区別して返す
		var n int
		err := tx.QueryRowContext(ctx, `SELECT 1 FROM assets WHERE asset_id = ?`, assetID).Scan(&n)
		if err == sql.ErrNoRows {
			return ErrNotFound("asset not found")
		}
		if err != nil {
			return err
		}
		return ErrOutOfStock("no units available")
	}
	return nil
}

// 引当の解放。available が total を超えることはない（条件付きUPDATE）。
func ReleaseUnitTx(ctx context.Context, tx db.DBTX, assetID int64) error {
	const q = `
	UPDATE assets SET available_quantity = available_quantity + 1
	WHERE asset_id = ? AND available_quantity < total_quantity`
	res, err := tx.ExecContext(ctx, q, assetID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff != 1 {
		return ErrConflict("nothing to release for this asset")
	}
	return nil
}

func updateTx(ctx context.Context, tx db.DBTX, id int64, in UpdateAssetRequest, newAvailable *int) error {
	sets := []string{}
	args := []any{}
	if in.Name != nil {
		sets = append(sets, "name = ?")
		args = append(args, *in.Name)
	}
	if in.Type != nil {
		sets = append(sets, "asset_type = ?")
		args = append(args, *in.Type)
	}
	if in.TotalQuantity != nil {
		sets = append(sets, "total_quantity = ?")
		args = append(args, *in.TotalQuantity)
	}
	if newAvailable != nil {
		sets = append(sets, "available_quantity = ?")
		args = append(args, *newAvailable)
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	// 同値更新だと RowsAffected が 0 になるので、存在確認はロック取得側に任せる
	q := fmt.Sprintf(`UPDATE assets SET %s WHERE asset_id = ?`, strings.Join(sets, ", "))
	_, err := tx.ExecContext(ctx, q, args...)
	return err
}

func countOpenRequestsTx(ctx context.Context, tx db.DBTX, assetID int64) (int, error) {
	const q = `
	SELECT COUNT(*) FROM requests
	WHERE asset_id = ? AND status IN ('pending', 'approved')`
	var n int
	if err := tx.QueryRowContext(ctx, q, assetID).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func deleteTx(ctx context.Context, tx db.DBTX, id int64) error {
	res, err := tx.ExecContext(ctx, `DELETE FROM assets WHERE asset_id = ?`, id)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}
