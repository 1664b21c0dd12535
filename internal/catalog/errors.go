package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"collection/internal/pg"
)

// Kind: машинно-проверяемый класс ошибки; HTTP-слой маппит его в статус.
type Kind string

const (
	KindNotFound      Kind = "not_found"
	KindConflict      Kind = "conflict"
	KindTypeNotFound  Kind = "type_not_found"
	KindValidation    Kind = "validation"
	KindDataIntegrity Kind = "data_integrity"
	KindTransaction   Kind = "transaction_failure"
	KindInternal      Kind = "internal"
)

// Error: каноническая ошибка движка.
type Error struct {
	Kind    Kind
	Op      string
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	op := strings.TrimSpace(e.Op)
	msg := strings.TrimSpace(e.Message)
	switch {
	case op != "" && msg != "":
		return fmt.Sprintf("%s: %s (%s)", op, msg, e.Kind)
	case op != "":
		return fmt.Sprintf("%s (%s)", op, e.Kind)
	case msg != "":
		return fmt.Sprintf("%s (%s)", msg, e.Kind)
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// NewError собирает ошибку с явным kind.
func NewError(kind Kind, op, message string, cause error) error {
	return &Error{
		Kind:    kind,
		Op:      strings.TrimSpace(op),
		Message: strings.TrimSpace(message),
		Err:     cause,
	}
}

func notFound(op, format string, args ...any) error {
	return NewError(KindNotFound, op, fmt.Sprintf(format, args...), nil)
}

// IsKind проверяет kind у err или у любой обёрнутой ошибки.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// KindOf возвращает kind; для чужих ошибок пустую строку.
func KindOf(err error) Kind {
	var e *Error
	if !errors.As(err, &e) {
		return ""
	}
	return e.Kind
}

// MapError классифицирует ошибки хранилища в таксономию движка. Ничего не глотает.
func MapError(op string, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return NewError(KindNotFound, op, "record not found", err)
	case errors.Is(err, pg.ErrTxFailed),
		errors.Is(err, context.Canceled),
		errors.Is(err, context.DeadlineExceeded):
		return NewError(KindTransaction, op, err.Error(), err)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch strings.TrimSpace(pgErr.Code) {
		case "23505": // unique_violation
			return NewError(KindConflict, op, uniqueMessage(pgErr), err)
		case "23503": // foreign_key_violation
			return NewError(KindNotFound, op, "referenced record not found", err)
		case "40001", "40P01": // serialization_failure / deadlock_detected
			return NewError(KindTransaction, op, pgErr.Message, err)
		}
	}
	return NewError(KindInternal, op, err.Error(), err)
}

func uniqueMessage(pgErr *pgconn.PgError) string {
	if pgErr.Detail != "" {
		return pgErr.Detail
	}
	return "record already exists"
}
