package analytics

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"assetverse-backend/internal/org/companies"
)

// ===== Error model =====
type Code string

const (
	CodeInvalidArgument Code = "INVALID_ARGUMENT"
	CodeNotFound        Code = "NOT_FOUND"
	CodeForbidden       Code = "FORBIDDEN"
	CodeInternal        Code = "INTERNAL"
)

type APIError struct {
	Code    Code
	Message string
}

func (e *APIError) Error() string       { return fmt.Sprintf("%s: %s", e.Code, e.Message) }
func ErrNotFound(msg string) *APIError  { return &APIError{Code: CodeNotFound, Message: msg} }
func ErrForbidden(msg string) *APIError { return &APIError{Code: CodeForbidden, Message: msg} }

func toHTTPStatus(err error) int {
	var api *APIError
	if errors.As(err, &api) {
		switch api.Code {
		case CodeInvalidArgument:
			return 400
		case CodeForbidden:
			return 403
		case CodeNotFound:
			return 404
		default:
			return 500
		}
	}
	return 500
}

type Service struct {
	db        *sql.DB
	store     *Store
	companies *companies.Store
}

func NewService(conn *sql.DB) *Service {
	return &Service{db: conn, store: NewStore(conn), companies: companies.NewStore(conn)}
}

func (s *Service) CompanySummary(ctx context.Context, hrEmail string, threshold, topN int) (Summary, error) {
	companyID, err := s.companies.GetIDByHREmail(ctx, hrEmail)
	if err != nil {
		if err == sql.ErrNoRows {
			return Summary{}, ErrNotFound("company not found for hr")
		}
		return Summary{}, err
	}

	rows, counters, err := s.store.FetchCompanyStats(ctx, companyID)
	if err != nil {
		return Summary{}, err
	}

	out := BuildSummary(rows, threshold, topN)
	out.Counters = counters
	return out, nil
}
