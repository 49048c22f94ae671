// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package query

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStringSlice(t *testing.T) {
	assert.Nil(t, StringSlice(""))
	assert.Equal(t, []string{"a", "b"}, StringSlice(" a, ,b ,"))
}
