// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid generates the identifiers used for every campus record.

Identifiers are Version 7 UUIDs: time-ordered, so primary keys stay append-only
in the B-tree indexes, and still compatible with the Postgres 'uuid' type.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
func New() string {

	// Entropy failure is an unrecoverable system-level error
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}

	return id.String()
}

// Valid reports whether value parses as a UUID of any version.
//
// Stores use it to turn a malformed path id into a 404 before it reaches
// Postgres, which would reject it with a syntax error.
func Valid(value string) bool {
	return uuid.Validate(value) == nil
}
