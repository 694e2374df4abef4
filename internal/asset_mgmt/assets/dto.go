package assets

import "time"

// 資産タイプ。返却可かどうかで Return 遷移の可否が決まる。
const (
	TypeReturnable    = "returnable"
	TypeNonReturnable = "non_returnable"
)

func ValidType(t string) bool {
	return t == TypeReturnable || t == TypeNonReturnable
}

// ===== Requests =====

type CreateAssetRequest struct {
	Name          string `json:"name" binding:"required"`
	Type          string `json:"type" binding:"required"`
	TotalQuantity int    `json:"total_quantity" binding:"required"`
}

type UpdateAssetRequest struct {
	Name          *string `json:"name,omitempty"`
	Type          *string `json:"type,omitempty"`
	TotalQuantity *int    `json:"total_quantity,omitempty"`
}

// ===== Responses =====

type AssetResponse struct {
	AssetID           int64     `json:"asset_id"`
	Name              string    `json:"name"`
	Type              string    `json:"type"`
	TotalQuantity     int       `json:"total_quantity"`
	AvailableQuantity int       `json:"available_quantity"`
	CompanyID         int64     `json:"company_id"`
	CreatedAt         time.Time `json:"created_at"`
}

// ===== Listing helpers =====

type Page struct {
	Limit  int
	Offset int
	Order  string // "asc" or "desc"
}

type AssetSearchQuery struct {
	Search       *string // name 部分一致
	Type         *string
	Availability *string // "available" | "out_of_stock"
	CompanyIDs   []int64 // 閲覧可能な会社（HR:自社 / 社員:所属会社）
}
