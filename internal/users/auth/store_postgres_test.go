// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRotateRefreshQuery(t *testing.T) {
	query := strings.Join(strings.Fields(rotateRefreshQuery), " ")

	assert.Contains(t, query, "UPDATE users.account SET refreshtokenhash = $2, refreshtokenexpiresat = $4, updatedat = NOW()")
	assert.Contains(t, query, "WHERE refreshtokenhash = $1 AND refreshtokenexpiresat > $3")
}
