// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package validate checks service inputs and reports every failing field at once.

Rules are chained on a [Validator]; [Validator.Err] then folds the failures into
a single VALIDATION_ERROR whose details list one entry per field. Handlers only
decode, so every rule here runs in the service layer.
*/
package validate

import (
	"fmt"
	"net/mail"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/taibuivan/campus/internal/platform/apperr"
)

// ErrInvalidJSON is returned when a request body does not decode.
var ErrInvalidJSON = apperr.ValidationError("Invalid JSON payload")

const msgFailed = "Validation failed"

// Validator accumulates field failures. Use one per operation.
type Validator struct {
	failures []apperr.FieldError
}

// Required rejects a value that is blank after trimming.
func (v *Validator) Required(field, value string) *Validator {
	return v.Custom(field, strings.TrimSpace(value) == "", "This field is required")
}

// MaxLen rejects a value longer than max characters.
func (v *Validator) MaxLen(field, value string, max int) *Validator {
	return v.Custom(field, utf8.RuneCountInString(value) > max, fmt.Sprintf("Maximum %d characters", max))
}

// MinLen rejects a value shorter than min characters.
func (v *Validator) MinLen(field, value string, min int) *Validator {
	return v.Custom(field, utf8.RuneCountInString(value) < min, fmt.Sprintf("Minimum %d characters", min))
}

// Email rejects anything [mail.ParseAddress] does not accept as a bare address.
func (v *Validator) Email(field, value string) *Validator {
	address, err := mail.ParseAddress(value)
	return v.Custom(field, err != nil || address.Address != value, "Must be a valid email address")
}

// OneOf rejects a value outside allowed.
func (v *Validator) OneOf(field, value string, allowed ...string) *Validator {
	return v.Custom(field, !slices.Contains(allowed, value), "Must be one of: "+strings.Join(allowed, ", "))
}

// MinItems rejects a list with fewer than min entries.
func (v *Validator) MinItems(field string, count, min int) *Validator {
	return v.Custom(field, count < min, fmt.Sprintf("At least %d items are required", min))
}

// After rejects a deadline that is not strictly later than now. A nil deadline passes.
func (v *Validator) After(field string, deadline *time.Time, now time.Time) *Validator {
	return v.Custom(field, deadline != nil && !deadline.After(now), "Must be in the future")
}

/*
Custom records message against field when failed is true.

	v.Custom("coordinates", len(coords) != 2, "Must hold longitude and latitude")
*/
func (v *Validator) Custom(field string, failed bool, message string) *Validator {
	if failed {
		v.failures = append(v.failures, apperr.FieldError{Field: field, Message: message})
	}
	return v
}

// HasErrors reports whether any rule has failed so far.
func (v *Validator) HasErrors() bool {
	return len(v.failures) > 0
}

// Err returns the collected failures as one VALIDATION_ERROR, or nil.
func (v *Validator) Err() error {
	if !v.HasErrors() {
		return nil
	}
	return apperr.ValidationError(msgFailed, v.failures...)
}

// RequiredError builds a VALIDATION_ERROR for a single field.
func RequiredError(field, message string) *apperr.AppError {
	return apperr.ValidationError(msgFailed, apperr.FieldError{Field: field, Message: message})
}
