package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

type ErrorKind int

const (
	KindInternal ErrorKind = iota
	KindValidation
	KindNotFound
	KindConflict
	KindUnauthorized
	KindForbidden
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindConflict:
		return "conflict"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	default:
		return "internal"
	}
}

// AppError carries a message-catalog code plus the values its template needs.
type AppError struct {
	Kind   ErrorKind
	Code   string
	Params map[string]any
	Err    error
}

func (e *AppError) Error() string {
	var sb strings.Builder
	sb.WriteString(e.Code)
	if len(e.Params) > 0 {
		sb.WriteString(fmt.Sprintf(" %v", e.Params))
	}
	if e.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(e.Err.Error())
	}
	return sb.String()
}

func (e *AppError) Unwrap() error { return e.Err }

func newAppError(kind ErrorKind, code string, params map[string]any) *AppError {
	return &AppError{Kind: kind, Code: code, Params: params}
}

func ValidationError(code string, params map[string]any) *AppError {
	return newAppError(KindValidation, code, params)
}

func NotFoundError(code string) *AppError {
	return newAppError(KindNotFound, code, nil)
}

func ConflictError(code string) *AppError {
	return newAppError(KindConflict, code, nil)
}

func UnauthorizedError(code string) *AppError {
	return newAppError(KindUnauthorized, code, nil)
}

func ForbiddenError(code string) *AppError {
	return newAppError(KindForbidden, code, nil)
}

func InternalError(code string, err error) *AppError {
	return &AppError{Kind: KindInternal, Code: code, Err: err}
}

// KindOf returns the kind of err; anything that is not an AppError is internal.
func KindOf(err error) ErrorKind {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Kind
	}
	return KindInternal
}

// IsDuplicateKey detects unique index violations across the supported drivers.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) && myErr.Number == 1062 {
		return true
	}
	lc := strings.ToLower(err.Error())
	return strings.Contains(lc, "duplicate") || strings.Contains(lc, "unique constraint")
}

// duplicateKeyMarkers precede the index/column name in driver messages:
// mysql "Duplicate entry 'v' for key 'users.idx_users_email'",
// sqlite "UNIQUE constraint failed: users.email",
// postgres "duplicate key value violates unique constraint \"idx_users_email\"".
var duplicateKeyMarkers = []string{"for key ", "unique constraint failed:", "unique constraint "}

// duplicateField guesses which unique column a duplicate-key error refers to.
// Only the key part is inspected; the entry value is user data.
func duplicateField(err error, fields ...string) string {
	msg := err.Error()
	var myErr *mysql.MySQLError
	if errors.As(err, &myErr) {
		msg = myErr.Message
	}
	lc := strings.ToLower(msg)
	key := ""
	for _, marker := range duplicateKeyMarkers {
		if i := strings.LastIndex(lc, marker); i >= 0 {
			key = lc[i+len(marker):]
			break
		}
	}
	if key == "" {
		return ""
	}
	for _, f := range fields {
		if strings.Contains(key, f) {
			return f
		}
	}
	return ""
}
