// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/validate"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		hasError bool
	}{
		{"valid_string", "Broken bench", false},
		{"empty_string", "", true},
		{"whitespace_only", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required("title", tt.value)

			if !tt.hasError {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
				return
			}

			ae := apperr.As(v.Err())
			require.NotNil(t, ae)
			assert.Equal(t, apperr.CodeValidation, ae.Code)
			assert.Equal(t, "title", ae.Details[0].Field)
		})
	}
}

func TestValidator_Email(t *testing.T) {
	tests := []struct {
		email   string
		isValid bool
	}{
		{"student@uni.edu", true},
		{"invalid-email", false},
		{"test@", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_PollRules covers the list and deadline rules used when creating polls.
*/
func TestValidator_PollRules(t *testing.T) {
	now := time.Now()
	past := now.Add(-time.Minute)
	future := now.Add(time.Hour)

	// 1. One option and a past deadline both fail
	err := (&validate.Validator{}).
		MinItems("options", 1, 2).
		After("expiresAt", &past, now).
		Err()
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 2)

	// 2. Two options with no deadline pass
	assert.NoError(t, (&validate.Validator{}).MinItems("options", 2, 2).After("expiresAt", nil, now).Err())

	// 3. A future deadline passes
	assert.NoError(t, (&validate.Validator{}).After("expiresAt", &future, now).Err())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("fullName", "").
		MinLen("password", "abc", 6).
		Email("email", "not-an-email").
		OneOf("type", "stolen", "lost", "found").
		Err()

	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Len(t, ae.Details, 4)
}
