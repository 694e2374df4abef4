package affiliations

import "time"

type AffiliationResponse struct {
	AffiliationID int64     `json:"affiliation_id"`
	EmployeeEmail string    `json:"employee_email"`
	EmployeeName  *string   `json:"employee_name,omitempty"`
	CompanyID     int64     `json:"company_id"`
	Role          string    `json:"role"`
	JoinedAt      time.Time `json:"joined_at"`
}

type RemoveResult struct {
	ReturnedRequests int `json:"returned_requests"` // 解除時に自動返却された件数
}
