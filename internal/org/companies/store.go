package companies

import (
	"context"
	"database/sql"

	"assetverse-backend/internal/platform/db"
)

type Store struct{ db *sql.DB }

func NewStore(conn *sql.DB) *Store { return &Store{db: conn} }

type NewCompany struct {
	Name    string
	HREmail string
	LogoURL *string
	Pkg     Package
}

// 会社の新規登録。HRアカウント作成と同一Txで呼ばれる前提。
func InsertTx(ctx context.Context, tx db.DBTX, c NewCompany) (int64, error) {
	const q = `
	INSERT INTO companies (name, hr_email, logo_url, package_tier, employee_limit, price_usd, created_at)
	VALUES (?, ?, ?, ?, ?, ?, UTC_TIMESTAMP())`
	res, err := tx.ExecContext(ctx, q, c.Name, c.HREmail, c.LogoURL, c.Pkg.Tier, c.Pkg.EmployeeLimit, c.Pkg.PriceUSD)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ValidTier / CreateTx は auth.CompanyDirectory の実装（HR登録フック）。

func (s *Store) ValidTier(tier string) bool {
	_, ok := PackageByTier(tier)
	return ok
}

func (s *Store) CreateTx(ctx context.Context, tx db.DBTX, name, hrEmail string, logoURL *string, tier string) (int64, error) {
	pkg, ok := PackageByTier(tier)
	if !ok {
		return 0, ErrInvalid("unknown package tier")
	}
	return InsertTx(ctx, tx, NewCompany{Name: name, HREmail: hrEmail, LogoURL: logoURL, Pkg: pkg})
}

func (s *Store) GetByHREmail(ctx context.Context, hrEmail string) (*CompanyResponse, error) {
	const q = `
	SELECT c.company_id, c.name, c.hr_email, c.logo_url, c.package_tier, c.employee_limit, c.price_usd, c.created_at,
		(SELECT COUNT(*) FROM affiliations a WHERE a.company_id = c.company_id) AS seats_used
	FROM companies c
	WHERE c.hr_email = ?`
	var r CompanyResponse
	var logo sql.NullString
	if err := s.db.QueryRowContext(ctx, q, hrEmail).Scan(
		&r.CompanyID, &r.Name, &r.HREmail, &logo, &r.PackageTier, &r.EmployeeLimit, &r.PriceUSD, &r.CreatedAt, &r.SeatsUsed,
	); err != nil {
		return nil, err
	}
	if logo.Valid {
		v := logo.String
		r.LogoURL = &v
	}
	return &r, nil
}

func (s *Store) GetIDByHREmail(ctx context.Context, hrEmail string) (int64, error) {
	const q = `SELECT company_id FROM companies WHERE hr_email = ?`
	var id int64
	if err := s.db.QueryRowContext(ctx, q, hrEmail).Scan(&id); err != nil {
		return 0, err
	}
	return id, nil
}

// プラン変更。シート数を下回るダウングレードはTx内で弾く。
func (s *Store) UpdatePackageTx(ctx context.Context, tx db.DBTX, companyID int64, pkg Package) error {
	const q = `
	UPDATE companies
	SET package_tier = ?, employee_limit = ?, price_usd = ?
	WHERE company_id = ?`
	res, err := tx.ExecContext(ctx, q, pkg.Tier, pkg.EmployeeLimit, pkg.PriceUSD, companyID)
	if err != nil {
		return err
	}
	if aff, _ := res.RowsAffected(); aff == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// 会社行をロックして現在のシート使用数を返す（プラン変更の競合防止）
func LockSeatsTx(ctx context.Context, tx db.DBTX, companyID int64) (limit int, used int, err error) {
	const qLock = `SELECT employee_limit FROM companies WHERE company_id = ? FOR UPDATE`
	if err = tx.QueryRowContext(ctx, qLock, companyID).Scan(&limit); err != nil {
		return 0, 0, err
	}
	const qCount = `SELECT COUNT(*) FROM affiliations WHERE company_id = ?`
	if err = tx.QueryRowContext(ctx, qCount, companyID).Scan(&used); err != nil {
		return 0, 0, err
	}
	return limit, used, nil
}
