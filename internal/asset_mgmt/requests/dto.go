package requests

import "time"

// 社員によるリクエスト作成
type CreateRequestRequest struct {
	AssetID int64   `json:"asset_id" binding:"required"`
	Note    *string `json:"note,omitempty"`
}

// HRによる直接割当（Pendingを経由せず approved で作られる）
type DirectAssignRequest struct {
	AssetID       int64   `json:"asset_id" binding:"required"`
	EmployeeEmail string  `json:"employee_email" binding:"required"`
	Note          *string `json:"note,omitempty"`
}

type RequestResponse struct {
	RequestULID    string     `json:"request_ulid"`
	AssetID        int64      `json:"asset_id"`
	AssetName      string     `json:"asset_name"`
	AssetType      string     `json:"asset_type"`
	RequesterEmail string     `json:"requester_email"`
	CompanyID      int64      `json:"company_id"`
	Status         Status     `json:"status"`
	DirectAssign   bool       `json:"direct_assign"`
	Note           *string    `json:"note,omitempty"`
	RequestedAt    time.Time  `json:"requested_at"`
	DecidedAt      *time.Time `json:"decided_at,omitempty"`
	ReturnedAt     *time.Time `json:"returned_at,omitempty"`
}

func buildResponse(r *Request) RequestResponse {
	resp := RequestResponse{
		RequestULID:    r.RequestULID,
		AssetID:        r.AssetID,
		AssetName:      r.AssetName,
		AssetType:      r.AssetType,
		RequesterEmail: r.RequesterEmail,
		CompanyID:      r.CompanyID,
		Status:         r.Status,
		DirectAssign:   r.DirectAssign,
		RequestedAt:    r.RequestedAt,
	}
	if r.Note.Valid {
		v := r.Note.String
		resp.Note = &v
	}
	if r.DecidedAt.Valid {
		v := r.DecidedAt.Time
		resp.DecidedAt = &v
	}
	if r.ReturnedAt.Valid {
		v := r.ReturnedAt.Time
		resp.ReturnedAt = &v
	}
	return resp
}
