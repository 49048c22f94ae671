// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package transition_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/campus/internal/platform/access"
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/sec"
	"github.com/taibuivan/campus/internal/platform/transition"
)

type ticket struct {
	owner  string
	status string
	remark string
}

func (t *ticket) OwnerID() string       { return t.owner }
func (t *ticket) CurrentStatus() string { return t.status }

var ticketMachine = transition.Machine{
	Resource:       "Ticket",
	States:         []string{"pending", "viewed", "resolved", "rejected"},
	Terminal:       []string{"resolved", "rejected"},
	RemarkRequired: []string{"rejected"},
}

// store is an in-memory single-record store that counts writes.
type store struct {
	record *ticket
	writes int
}

func (s *store) load(_ context.Context, id string) (*ticket, error) {
	if id != "t1" {
		return nil, apperr.NotFound("Ticket")
	}
	copied := *s.record
	return &copied, nil
}

func (s *store) write(_ context.Context, change transition.Change) (*ticket, error) {
	if s.record.status != change.From {
		return nil, transition.Stale("Ticket")
	}
	s.writes++
	s.record.status = change.To
	s.record.remark = change.Remark
	copied := *s.record
	return &copied, nil
}

var (
	admin    = access.Actor{ID: "admin", Role: sec.RoleAdmin}
	owner    = access.Actor{ID: "owner", Role: sec.RoleStudent}
	stranger = access.Actor{ID: "stranger", Role: sec.RoleStudent}
)

/*
TestApply_StatusMembership verifies that only members of the state set are accepted
and that a rejected value leaves the stored status unchanged.
*/
func TestApply_StatusMembership(t *testing.T) {
	for _, status := range []string{"pending", "viewed", "resolved", "bogus", "", "RESOLVED"} {
		t.Run(status, func(t *testing.T) {
			s := &store{record: &ticket{owner: "owner", status: "pending"}}
			cmd := transition.UpdateStatusCommand{ID: "t1", Status: status}

			updated, err := transition.Apply(context.Background(), ticketMachine, admin, access.AdminOnly, cmd, s.load, s.write)

			if ticketMachine.Valid(status) {
				require.NoError(t, err)
				assert.Equal(t, status, updated.status)
				return
			}
			assert.True(t, apperr.HasCode(err, apperr.CodeInvalidStatus))
			assert.Equal(t, "pending", s.record.status)
			assert.Zero(t, s.writes)
		})
	}
}

func TestApply_RemarkRequired(t *testing.T) {
	s := &store{record: &ticket{owner: "owner", status: "pending"}}

	// 1. Without a remark nothing is written
	_, err := transition.Apply(context.Background(), ticketMachine, admin, access.AdminOnly,
		transition.UpdateStatusCommand{ID: "t1", Status: "rejected", Remark: "  "}, s.load, s.write)
	assert.True(t, apperr.HasCode(err, apperr.CodeMissingRemark))
	assert.Zero(t, s.writes)

	// 2. With a remark the change lands
	updated, err := transition.Apply(context.Background(), ticketMachine, admin, access.AdminOnly,
		transition.UpdateStatusCommand{ID: "t1", Status: "rejected", Remark: "duplicate"}, s.load, s.write)
	require.NoError(t, err)
	assert.Equal(t, "rejected", updated.status)
	assert.Equal(t, "duplicate", updated.remark)
}

func TestApply_Authorization(t *testing.T) {
	tests := []struct {
		name     string
		actor    access.Actor
		rule     access.Rule
		wantCode string
	}{
		{"admin_only_admin", admin, access.AdminOnly, ""},
		{"admin_only_owner", owner, access.AdminOnly, apperr.CodeForbidden},
		{"owner_or_admin_owner", owner, access.OwnerOrAdmin, ""},
		{"owner_or_admin_stranger", stranger, access.OwnerOrAdmin, apperr.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := &store{record: &ticket{owner: "owner", status: "pending"}}
			_, err := transition.Apply(context.Background(), ticketMachine, tt.actor, tt.rule,
				transition.UpdateStatusCommand{ID: "t1", Status: "viewed"}, s.load, s.write)

			if tt.wantCode == "" {
				assert.NoError(t, err)
				assert.Equal(t, "viewed", s.record.status)
				return
			}
			assert.True(t, apperr.HasCode(err, tt.wantCode))
			assert.Equal(t, "pending", s.record.status)
		})
	}
}

func TestApply_NotFound(t *testing.T) {
	s := &store{record: &ticket{owner: "owner", status: "pending"}}
	_, err := transition.Apply(context.Background(), ticketMachine, admin, access.AdminOnly,
		transition.UpdateStatusCommand{ID: "missing", Status: "viewed"}, s.load, s.write)
	assert.True(t, apperr.HasCode(err, apperr.CodeNotFound))
}

/*
TestApply_TerminalLock verifies both settings of the terminal state policy.
*/
func TestApply_TerminalLock(t *testing.T) {
	cmd := transition.UpdateStatusCommand{ID: "t1", Status: "pending"}

	// 1. Unlocked: a resolved ticket may be reopened
	s := &store{record: &ticket{owner: "owner", status: "resolved"}}
	_, err := transition.Apply(context.Background(), ticketMachine, admin, access.AdminOnly, cmd, s.load, s.write)
	require.NoError(t, err)
	assert.Equal(t, "pending", s.record.status)

	// 2. Locked: the same change is refused
	locked := ticketMachine
	locked.LockTerminal = true
	s = &store{record: &ticket{owner: "owner", status: "resolved"}}
	_, err = transition.Apply(context.Background(), locked, admin, access.AdminOnly, cmd, s.load, s.write)
	assert.True(t, apperr.HasCode(err, apperr.CodeTerminalState))
	assert.Equal(t, "resolved", s.record.status)
}

func TestMachine_Settable(t *testing.T) {
	machine := transition.Machine{
		Resource: "Item",
		States:   []string{"active", "claimed", "archived", "expired"},
		Settable: []string{"claimed", "archived"},
	}

	assert.NoError(t, machine.Check(transition.UpdateStatusCommand{Status: "claimed"}))
	assert.True(t, apperr.HasCode(machine.Check(transition.UpdateStatusCommand{Status: "expired"}), apperr.CodeInvalidStatus))
	assert.True(t, machine.Valid("expired"))
}
