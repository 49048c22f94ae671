// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert provides lenient conversions for query strings and form fields.

Malformed input falls back to a default instead of producing an error. Use
[strconv] directly where telling bad input apart from zero matters.
*/
package convert

import (
	"strconv"
	"strings"
)

// ToIntD converts s to an int, returning def when s is empty or malformed.
func ToIntD(s string, def int) int {
	s = strings.TrimSpace(s)
	if s == "" {
		return def
	}

	if v, err := strconv.Atoi(s); err == nil {
		return v
	}

	return def
}

// ToBool parses s the way [strconv.ParseBool] does, returning false when
// s is empty or malformed.
func ToBool(s string) bool {
	v, _ := strconv.ParseBool(strings.TrimSpace(s))
	return v
}
