package requests

import (
	"database/sql"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusReturned Status = "returned"
)

// Request は requests テーブルの1行を表す。
// 資産の名前とタイプは作成時点のスナップショット（資産削除後も履歴が読めるように）。
type Request struct {
	RequestID      int64
	RequestULID    string
	AssetID        int64
	AssetName      string
	AssetType      string
	RequesterEmail string
	CompanyID      int64
	Status         Status
	DirectAssign   bool
	Note           sql.NullString
	RequestedAt    time.Time
	DecidedAt      sql.NullTime
	ReturnedAt     sql.NullTime
}

// 一覧取得用の検索条件
type RequestFilter struct {
	Status         *Status
	RequesterEmail *string
	AssetID        *int64
}

type Page struct {
	Limit  int
	Offset int
	Order  string // "asc" or "desc"
}
