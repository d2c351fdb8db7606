package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

type ErrorCode string

const (
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	ErrCodeForbidden       ErrorCode = "FORBIDDEN"
	ErrCodeNotFound        ErrorCode = "NOT_FOUND"
	ErrCodeBadRequest      ErrorCode = "BAD_REQUEST"
	ErrCodeValidation      ErrorCode = "VALIDATION_ERROR"
	ErrCodeConflict        ErrorCode = "CONFLICT"
	ErrCodeTransport       ErrorCode = "TRANSPORT_ERROR"
	ErrCodeRender          ErrorCode = "RENDER_ERROR"
	ErrCodeStale           ErrorCode = "STALE"
	ErrCodeBusy            ErrorCode = "BUSY"
	ErrCodeInternal        ErrorCode = "INTERNAL_ERROR"
)

// FieldError список сообщений бэкенда для одного поля. Пустое Field означает общую ошибку.
type FieldError struct {
	Field    string
	Messages []string
}

type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	// UpstreamStatus статус ответа бэкенда; 0, если до бэкенда не дошли.
	UpstreamStatus int
	Fields         []FieldError
	Cause          error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Flatten склеивает все сообщения полей через пробел в порядке, в котором их прислал бэкенд.
func (e *AppError) Flatten() string {
	var parts []string
	for _, f := range e.Fields {
		for _, m := range f.Messages {
			if m = strings.TrimSpace(m); m != "" {
				parts = append(parts, m)
			}
		}
	}
	return strings.Join(parts, " ")
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// FromUpstream строит ошибку по неуспешному ответу бэкенда.
func FromUpstream(status int, message string, fields []FieldError) *AppError {
	code := statusToCode(status)
	return &AppError{
		Code:           code,
		Message:        message,
		HTTPStatus:     codeToHTTPStatus(code),
		UpstreamStatus: status,
		Fields:         fields,
	}
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthenticated:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeBadRequest, ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeConflict, ErrCodeBusy:
		return http.StatusConflict
	case ErrCodeStale:
		return http.StatusNoContent
	case ErrCodeTransport:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func statusToCode(status int) ErrorCode {
	switch {
	case status == http.StatusUnauthorized:
		return ErrCodeUnauthenticated
	case status == http.StatusForbidden:
		return ErrCodeForbidden
	case status == http.StatusNotFound:
		return ErrCodeNotFound
	case status == http.StatusBadRequest:
		return ErrCodeValidation
	case status == http.StatusConflict:
		return ErrCodeConflict
	case status >= 400 && status < 500:
		return ErrCodeBadRequest
	default:
		return ErrCodeInternal
	}
}

func As(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func hasCode(err error, code ErrorCode) bool {
	appErr, ok := As(err)
	return ok && appErr.Code == code
}

func IsNotFound(err error) bool {
	return hasCode(err, ErrCodeNotFound)
}

func IsForbidden(err error) bool {
	return hasCode(err, ErrCodeForbidden)
}

func IsValidation(err error) bool {
	return hasCode(err, ErrCodeValidation)
}

func IsUnauthenticated(err error) bool {
	return hasCode(err, ErrCodeUnauthenticated)
}

func IsTransport(err error) bool {
	return hasCode(err, ErrCodeTransport)
}

func IsStale(err error) bool {
	return hasCode(err, ErrCodeStale)
}

func IsBusy(err error) bool {
	return hasCode(err, ErrCodeBusy)
}

// IsUpstream сообщает, что бэкенд ответил, но не 2xx.
func IsUpstream(err error) bool {
	appErr, ok := As(err)
	return ok && appErr.UpstreamStatus != 0
}

var (
	ErrUnauthenticated = New(ErrCodeUnauthenticated, "требуется авторизация")
	ErrForbidden       = New(ErrCodeForbidden, "недостаточно прав")
	ErrStale           = New(ErrCodeStale, "результат устарел")
	ErrBusy            = New(ErrCodeBusy, "запрос уже выполняется")
	ErrUnknownModal    = New(ErrCodeNotFound, "неизвестное окно")
)
