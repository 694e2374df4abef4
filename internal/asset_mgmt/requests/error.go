package requests

import (
	"errors"
	"fmt"
)

type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// 共通エラーコード（必要に応じて追加）
const (
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInvalidArgument   = "INVALID_ARGUMENT"
	ErrCodeConflict          = "CONFLICT"
	ErrCodeInternal          = "INTERNAL"
	ErrCodeOutOfStock        = "OUT_OF_STOCK"
	ErrCodeQuotaExceeded     = "QUOTA_EXCEEDED"
	ErrCodeInvalidTransition = "INVALID_TRANSITION"
	ErrCodeForbidden         = "FORBIDDEN"
)

func NewNotFoundError(msg string) error {
	return &DomainError{Code: ErrCodeNotFound, Message: msg}
}

func NewInvalidArgumentError(msg string) error {
	return &DomainError{Code: ErrCodeInvalidArgument, Message: msg}
}

func NewConflictError(msg string) error {
	return &DomainError{Code: ErrCodeConflict, Message: msg}
}

func NewOutOfStockError() error {
	return &DomainError{Code: ErrCodeOutOfStock, Message: "no units available for this asset"}
}

func NewQuotaExceededError() error {
	return &DomainError{Code: ErrCodeQuotaExceeded, Message: "employee limit reached for the current package"}
}

func NewInvalidTransitionError(from Status, action Action) error {
	return &DomainError{
		Code:    ErrCodeInvalidTransition,
		Message: fmt.Sprintf("cannot %s a request in status %q", action, from),
	}
}

func NewForbiddenError(msg string) error {
	return &DomainError{Code: ErrCodeForbidden, Message: msg}
}

func ToHTTPStatus(err error) int {
	var de *DomainError
	if errors.As(err, &de) {
		switch de.Code {
		case ErrCodeInvalidArgument:
			return 400
		case ErrCodeForbidden:
			return 403
		case ErrCodeNotFound:
			return 404
		case ErrCodeConflict, ErrCodeOutOfStock, ErrCodeQuotaExceeded:
			return 409
		case ErrCodeInvalidTransition:
			// 状態機械違反はクライアントバグ扱い。ログに残して 422 を返す。
			return 422
		default:
			return 500
		}
	}
	return 500
}
