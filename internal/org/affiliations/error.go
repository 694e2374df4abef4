package affiliations

import "fmt"

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

const (
	ErrCodeNotFound        = "NOT_FOUND"
	ErrCodeInvalidArgument = "INVALID_ARGUMENT"
	ErrCodeConflict        = "CONFLICT"
	ErrCodeQuotaExceeded   = "QUOTA_EXCEEDED"
	ErrCodeForbidden       = "FORBIDDEN"
	ErrCodeInternal        = "INTERNAL"
)

func NewNotFoundError(msg string) error {
	return &DomainError{Code: ErrCodeNotFound, Message: msg}
}

func NewInvalidArgumentError(msg string) error {
	return &DomainError{Code: ErrCodeInvalidArgument, Message: msg}
}

func NewForbiddenError(msg string) error {
	return &DomainError{Code: ErrCodeForbidden, Message: msg}
}

// シート上限。UIはアップグレード導線つきトーストを出す。
func NewQuotaExceededError() error {
	return &DomainError{Code: ErrCodeQuotaExceeded, Message: "employee limit reached for the current package"}
}
