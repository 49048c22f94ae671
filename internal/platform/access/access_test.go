// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package access_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/campus/internal/platform/access"
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/sec"
)

/*
TestCanAct walks every rule against the owner, an admin, a stranger and an anonymous caller.
*/
func TestCanAct(t *testing.T) {
	owner := access.Actor{ID: "owner", Role: sec.RoleStudent}
	admin := access.Actor{ID: "admin", Role: sec.RoleAdmin}
	stranger := access.Actor{ID: "stranger", Role: sec.RoleStudent}

	tests := []struct {
		name     string
		actor    access.Actor
		ownerID  string
		rule     access.Rule
		wantCode string
	}{
		{"public_anonymous", access.Anonymous, "owner", access.Public, ""},
		{"authenticated_anonymous", access.Anonymous, "", access.Authenticated, apperr.CodeUnauthorized},
		{"authenticated_student", stranger, "", access.Authenticated, ""},

		{"owner_or_admin_owner", owner, "owner", access.OwnerOrAdmin, ""},
		{"owner_or_admin_admin", admin, "owner", access.OwnerOrAdmin, ""},
		{"owner_or_admin_stranger", stranger, "owner", access.OwnerOrAdmin, apperr.CodeForbidden},
		{"owner_or_admin_anonymous", access.Anonymous, "owner", access.OwnerOrAdmin, apperr.CodeUnauthorized},
		{"owner_or_admin_unowned", stranger, "", access.OwnerOrAdmin, apperr.CodeForbidden},

		{"admin_only_admin", admin, "owner", access.AdminOnly, ""},
		{"admin_only_owner", owner, "owner", access.AdminOnly, apperr.CodeForbidden},
		{"admin_only_anonymous", access.Anonymous, "", access.AdminOnly, apperr.CodeUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := access.CanAct(tt.actor, tt.ownerID, tt.rule)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestActor_Owns(t *testing.T) {
	// An anonymous actor with an empty id must never match an unowned resource.
	assert.False(t, access.Anonymous.Owns(""))
	assert.False(t, access.Actor{ID: "a"}.Owns(""))
	assert.True(t, access.Actor{ID: "a"}.Owns("a"))
}
