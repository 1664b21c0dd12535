package pg

import (
	"context"
	"errors"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestApplyDDL_OrderedByKey(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("create schema").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec("create table").WillReturnResult(sqlmock.NewResult(0, 0))

	err := ApplyDDL(context.Background(), db, map[string]string{
		"200_tables":  "create table if not exists a.b (id bigserial primary key)",
		"000_schemas": "create schema if not exists a",
		"100_empty":   "   ",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDDL_StopsOnError(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("create schema").WillReturnError(errors.New("permission denied"))

	err := ApplyDDL(context.Background(), db, map[string]string{
		"000_schemas": "create schema if not exists a",
		"100_tables":  "create table if not exists a.b (id int)",
	}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "000_schemas")
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestApplyDDL_SkipsAlreadyExists(t *testing.T) {
	db, mock := newMock(t)
	mock.ExpectExec("alter table").WillReturnError(&pgconn.PgError{Code: "42710", Message: "constraint exists"})
	mock.ExpectExec("create index").WillReturnResult(sqlmock.NewResult(0, 0))

	err := ApplyDDL(context.Background(), db, map[string]string{
		"1": "alter table x add constraint c unique (a)",
		"2": "create index i on x(a)",
	}, nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}
