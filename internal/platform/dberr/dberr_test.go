// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package dberr_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/dberr"
)

func TestWrap(t *testing.T) {
	duplicate := &pgconn.PgError{Code: "23505", ConstraintName: "account_email_key"}

	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{"no_rows", pgx.ErrNoRows, apperr.CodeNotFound},
		{"wrapped_no_rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), apperr.CodeNotFound},
		{"unique_violation", duplicate, apperr.CodeConflict},
		{"already_classified", apperr.Forbidden("nope"), apperr.CodeForbidden},
		{"unknown", errors.New("connection reset"), apperr.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ae := apperr.As(dberr.Wrap(tt.err, "test_action"))
			require.NotNil(t, ae)
			assert.Equal(t, tt.wantCode, ae.Code)
		})
	}

	assert.NoError(t, dberr.Wrap(nil, "noop"))
}

func TestIsUniqueViolation(t *testing.T) {
	err := fmt.Errorf("insert: %w", &pgconn.PgError{Code: "23505", ConstraintName: "account_uniid_key"})

	assert.True(t, dberr.IsUniqueViolation(err, ""))
	assert.True(t, dberr.IsUniqueViolation(err, "account_uniid_key"))
	assert.False(t, dberr.IsUniqueViolation(err, "account_email_key"))
	assert.False(t, dberr.IsUniqueViolation(errors.New("other"), ""))
}
