// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names every table and column of the campus database.

Stores build their SQL from these definitions so a renamed column is a single
edit here plus a migration. Names are lower case without separators, which is
how Postgres folds unquoted identifiers anyway.
*/
package schema

import "strings"

// Join renders a column list for a SELECT, prefixing each column with alias
// when it is not empty.
func Join(alias string, columns ...string) string {
	if alias == "" {
		return strings.Join(columns, ", ")
	}

	prefixed := make([]string, len(columns))
	for i, column := range columns {
		prefixed[i] = alias + "." + column
	}
	return strings.Join(prefixed, ", ")
}
