package errors

import (
	"errors"
	"fmt"
)

// ErrorCode định nghĩa mã lỗi
type ErrorCode string

const (
	// Auth errors
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	ErrCodeRateLimited  ErrorCode = "RATE_LIMITED"

	// Database errors
	ErrCodeDBError ErrorCode = "DB_ERROR"

	// Validation errors
	ErrCodeValidation ErrorCode = "VALIDATION_ERROR"

	// Business errors
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeExternalService ErrorCode = "EXTERNAL_SERVICE_ERROR"
	ErrCodeTerminalFailure ErrorCode = "TERMINAL_FAILURE"
)

// AppError định nghĩa lỗi của ứng dụng
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	// Details mang dữ liệu phụ, ví dụ danh sách reservation bị trùng lịch
	Details interface{}
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError tạo một AppError mới
func NewAppError(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// IsAppError kiểm tra xem error có phải là AppError không
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// GetAppError lấy AppError từ error
func GetAppError(err error) *AppError {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr
	}
	return nil
}

// IsCode kiểm tra mã lỗi của err
func IsCode(err error, code ErrorCode) bool {
	appErr := GetAppError(err)
	return appErr != nil && appErr.Code == code
}

func Validation(format string, args ...interface{}) *AppError {
	return NewAppError(ErrCodeValidation, fmt.Sprintf(format, args...), nil)
}

func NotFound(entity, id string) *AppError {
	return NewAppError(ErrCodeNotFound, fmt.Sprintf("%s %s not found", entity, id), nil)
}

func Unauthorized(message string) *AppError {
	return NewAppError(ErrCodeUnauthorized, message, nil)
}

func Forbidden(message string) *AppError {
	return NewAppError(ErrCodeForbidden, message, nil)
}

// Conflict tạo lỗi xung đột kèm chi tiết
func Conflict(message string, details interface{}) *AppError {
	return &AppError{Code: ErrCodeConflict, Message: message, Details: details}
}

func External(message string, err error) *AppError {
	return NewAppError(ErrCodeExternalService, message, err)
}

func Terminal(message string) *AppError {
	return NewAppError(ErrCodeTerminalFailure, message, nil)
}

func Database(message string, err error) *AppError {
	return NewAppError(ErrCodeDBError, message, err)
}

var (
	// Sweep errors
	ErrSweepInProgress = errors.New("sweep already in progress")

	// Principal errors
	ErrMissingPrincipal = errors.New("missing principal")
)
