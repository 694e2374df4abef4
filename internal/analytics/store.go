package analytics

import (
	"context"
	"database/sql"

	"assetverse-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

// ダッシュボード1回分の読み取りをまとめて読み取り専用Txで行う
// （集計中に在庫が動いても1スナップショットとして矛盾しない値を返す）。
func (s *Store) FetchCompanyStats(ctx context.Context, companyID int64) ([]AssetStat, Counters, error) {
	var rows []AssetStat
	var c Counters

	err := db.ReadOnly(ctx, s.db, func(ctx context.Context, tx db.DBTX) error {
		const qAssets = `
		SELECT asset_id, name, asset_type, total_quantity, available_quantity
		FROM assets WHERE company_id = ?`
		rs, err := tx.QueryContext(ctx, qAssets, companyID)
		if err != nil {
			return err
		}
		defer rs.Close()
		for rs.Next() {
			var a AssetStat
			if err := rs.Scan(&a.AssetID, &a.Name, &a.Type, &a.Total, &a.Available); err != nil {
				return err
			}
			rows = append(rows, a)
		}
		if err := rs.Err(); err != nil {
			return err
		}
		c.Assets = len(rows)

		const qReq = `
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN status = 'pending' THEN 1 ELSE 0 END), 0)
		FROM requests WHERE company_id = ?`
		if err := tx.QueryRowContext(ctx, qReq, companyID).Scan(&c.TotalRequests, &c.PendingRequests); err != nil {
			return err
		}

		const qSeats = `
		SELECT
			(SELECT COUNT(*) FROM affiliations WHERE company_id = c.company_id),
			c.employee_limit
		FROM companies c WHERE c.company_id = ?`
		return tx.QueryRowContext(ctx, qSeats, companyID).Scan(&c.SeatsUsed, &c.EmployeeLimit)
	})
	if err != nil {
		return nil, Counters{}, err
	}
	return rows, c, nil
}
