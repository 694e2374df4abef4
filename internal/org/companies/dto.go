package companies

import "time"

// ===== Requests =====

type UpdatePackageRequest struct {
	Tier string `json:"tier" binding:"required"`
}

// ===== Responses =====

type CompanyResponse struct {
	CompanyID     int64     `json:"company_id"`
	Name          string    `json:"name"`
	HREmail       string    `json:"hr_email"`
	LogoURL       *string   `json:"logo_url,omitempty"`
	PackageTier   string    `json:"package_tier"`
	EmployeeLimit int       `json:"employee_limit"`
	PriceUSD      int       `json:"price_usd"`
	SeatsUsed     int       `json:"seats_used"`
	CreatedAt     time.Time `json:"created_at"`
}

type PackageResponse struct {
	Tier          string `json:"tier"`
	EmployeeLimit int    `json:"employee_limit"`
	PriceUSD      int    `json:"price_usd"`
}

// ===== Packages =====

type Package struct {
	Tier          string
	EmployeeLimit int
	PriceUSD      int
}

// 契約プラン。決済自体は外部（チェックアウト完了後にPATCHが飛んでくる想定）。
var Catalogue = []Package{
	{Tier: "starter", EmployeeLimit: 5, PriceUSD: 5},
	{Tier: "standard", EmployeeLimit: 10, PriceUSD: 8},
	{Tier: "premium", EmployeeLimit: 20, PriceUSD: 15},
}

func PackageByTier(tier string) (Package, bool) {
	for _, p := range Catalogue {
		if p.Tier == tier {
			return p, true
		}
	}
	return Package{}, false
}
