package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"collection/internal/pg"
)

func TestMapError(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want Kind
	}{
		{"no rows", sql.ErrNoRows, KindNotFound},
		{"wrapped no rows", fmt.Errorf("get: %w", sql.ErrNoRows), KindNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505", Detail: "Key (name)=(Mailer) already exists."}, KindConflict},
		{"fk violation", &pgconn.PgError{Code: "23503"}, KindNotFound},
		{"serialization", &pgconn.PgError{Code: "40001", Message: "could not serialize access"}, KindTransaction},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, KindTransaction},
		{"tx failed", fmt.Errorf("%w: commit: %w", pg.ErrTxFailed, errors.New("conn closed")), KindTransaction},
		{"canceled", context.Canceled, KindTransaction},
		{"other pg error", &pgconn.PgError{Code: "42601"}, KindInternal},
		{"plain", errors.New("boom"), KindInternal},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := MapError("op", tc.err)
			require.Error(t, err)
			assert.Equal(t, tc.want, KindOf(err))
			assert.ErrorIs(t, err, tc.err)
		})
	}
}

func TestMapError_NilAndPassthrough(t *testing.T) {
	assert.NoError(t, MapError("op", nil))

	orig := NewError(KindTypeNotFound, "types", "unknown type 'x'", nil)
	wrapped := fmt.Errorf("parameters[0]: %w", orig)
	got := MapError("other", wrapped)
	assert.Same(t, wrapped, got)
	assert.True(t, IsKind(got, KindTypeNotFound))
}

func TestMapError_ConflictUsesDetail(t *testing.T) {
	err := MapError("component.create", &pgconn.PgError{Code: "23505", Detail: "Key (name)=(Mailer) already exists."})
	var e *Error
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "Key (name)=(Mailer) already exists.", e.Message)

	err = MapError("component.create", &pgconn.PgError{Code: "23505"})
	require.ErrorAs(t, err, &e)
	assert.Equal(t, "record already exists", e.Message)
}

func TestError_String(t *testing.T) {
	assert.Equal(t, "op: msg (not_found)", NewError(KindNotFound, "op", "msg", nil).Error())
	assert.Equal(t, "op (conflict)", NewError(KindConflict, " op ", "", nil).Error())
	assert.Equal(t, "msg (internal)", NewError(KindInternal, "", "msg", nil).Error())
	assert.Equal(t, "validation", NewError(KindValidation, "", "", nil).Error())
	assert.Equal(t, Kind(""), KindOf(errors.New("plain")))
}
