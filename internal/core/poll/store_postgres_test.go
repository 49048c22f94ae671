// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package poll

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestVoteQuery(t *testing.T) {
	query := strings.Join(strings.Fields(voteQuery), " ")

	// The ballot only lands on an open poll and at most once per user.
	assert.Contains(t, query, "INSERT INTO campus.pollvote (pollid, userid, optionindex) SELECT $1, $2, $3 WHERE EXISTS (")
	assert.Contains(t, query, "WHERE id = $1 AND isactive AND (expiresat IS NULL OR expiresat >= $4)")
	assert.Contains(t, query, "ON CONFLICT DO NOTHING RETURNING optionindex")

	// Both counters move only with a recorded ballot.
	assert.Contains(t, query, "UPDATE campus.polloption SET votes = votes + 1 WHERE pollid = $1 AND position IN (SELECT optionindex FROM ballot)")
	assert.Contains(t, query, "UPDATE campus.poll SET totalvotes = totalvotes + 1, updatedat = NOW() WHERE id = $1 AND EXISTS (SELECT 1 FROM ballot)")

	assert.True(t, strings.HasSuffix(query, "SELECT EXISTS (SELECT 1 FROM ballot)"))
}
