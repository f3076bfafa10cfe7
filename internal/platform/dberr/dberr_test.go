// Copyright (c) 2026 YaMDb. All rights reserved.

package dberr_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Groozzy/api-yamdb/internal/platform/apperr"
	"github.com/Groozzy/api-yamdb/internal/platform/dberr"
)

/*
TestWrap_NoRows verifies that an empty result maps to NOT_FOUND.
*/
func TestWrap_NoRows(t *testing.T) {
	err := dberr.Wrap(pgx.ErrNoRows, "")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestWrap_UniqueViolation verifies that SQLSTATE 23505 maps to CONFLICT with
the caller's message. This is the path a lost duplicate-insert race takes.
*/
func TestWrap_UniqueViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.UniqueViolation}

	err := dberr.Wrap(pgErr, "You have already reviewed this title")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "CONFLICT", ae.Code)
	assert.Equal(t, "You have already reviewed this title", ae.Message)
}

/*
TestWrap_ForeignKeyViolation verifies that a dangling reference maps to
NOT_FOUND rather than a 500.
*/
func TestWrap_ForeignKeyViolation(t *testing.T) {
	pgErr := &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}

	err := dberr.Wrap(pgErr, "")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "NOT_FOUND", ae.Code)
}

/*
TestWrap_UnknownError verifies that anything unrecognized becomes an
internal error carrying its cause.
*/
func TestWrap_UnknownError(t *testing.T) {
	cause := errors.New("connection reset")

	err := dberr.Wrap(cause, "")

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "INTERNAL_ERROR", ae.Code)
	assert.ErrorIs(t, err, cause)
}

/*
TestWrap_Nil verifies the nil passthrough.
*/
func TestWrap_Nil(t *testing.T) {
	assert.NoError(t, dberr.Wrap(nil, ""))
}
