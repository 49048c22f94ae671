// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package transition validates and applies status changes on owned resources.

A [Machine] describes the closed set of states of one resource type. [Apply]
runs a status change command through a fixed pipeline:

 1. Reject a status outside the machine's settable set (INVALID_STATUS).
 2. Reject a missing side condition, such as a remark (MISSING_REMARK).
 3. Load the resource (NOT_FOUND).
 4. Authorize the actor against the resource owner (FORBIDDEN).
 5. Optionally refuse to leave a terminal state (TERMINAL_STATE).
 6. Write the new status, the remark and the transition time.

Any settable state is reachable from any other in one step. Steps 1 and 2 run
before the store is touched, so a rejected command never mutates anything.
*/
package transition

import (
	"context"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/taibuivan/campus/internal/platform/access"
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/ctxutil"
	"github.com/taibuivan/campus/internal/platform/metrics"
)

// Machine describes the legal states of one resource type.
type Machine struct {
	// Resource names the type in errors and metrics ("Issue").
	Resource string

	// States is the closed set of values the status field may hold.
	States []string

	// Settable restricts the states a client may request. Empty means States.
	Settable []string

	// Terminal lists the states after which no endpoint normally moves the resource.
	Terminal []string

	// RemarkRequired lists target states that need a non-empty remark.
	RemarkRequired []string

	// LockTerminal refuses every transition out of a terminal state.
	LockTerminal bool
}

// UpdateStatusCommand is a requested status change.
type UpdateStatusCommand struct {
	ID     string
	Status string
	Remark string
}

// Change is handed to the store once a command has been accepted.
type Change struct {
	ID     string
	From   string
	To     string
	Remark string
	At     time.Time
}

// Subject is the view of a resource the pipeline needs.
type Subject interface {
	OwnerID() string
	CurrentStatus() string
}

// Valid reports whether status belongs to the machine's state set.
func (m Machine) Valid(status string) bool {
	return slices.Contains(m.States, status)
}

// IsTerminal reports whether status is terminal for this machine.
func (m Machine) IsTerminal(status string) bool {
	return slices.Contains(m.Terminal, status)
}

func (m Machine) settable() []string {
	if len(m.Settable) == 0 {
		return m.States
	}
	return m.Settable
}

// Check runs the request-only validation steps on a command.
func (m Machine) Check(cmd UpdateStatusCommand) error {
	if !slices.Contains(m.settable(), cmd.Status) {
		return apperr.InvalidStatus(strings.ToLower(m.Resource), m.settable())
	}

	if slices.Contains(m.RemarkRequired, cmd.Status) && strings.TrimSpace(cmd.Remark) == "" {
		return apperr.MissingRemark(cmd.Status)
	}

	return nil
}

/*
Apply executes a status change command against a resource.

Parameters:
  - ctx: Request context
  - machine: State set of the resource type
  - actor: Acting identity
  - rule: Authorization rule of the action
  - cmd: The requested change
  - load: Reads the current resource by id
  - write: Persists an accepted [Change] and returns the updated resource

Returns:
  - T: The updated resource
  - error: apperr.AppError describing the first failed step
*/
func Apply[T Subject](
	ctx context.Context,
	machine Machine,
	actor access.Actor,
	rule access.Rule,
	cmd UpdateStatusCommand,
	load func(context.Context, string) (T, error),
	write func(context.Context, Change) (T, error),
) (T, error) {
	var zero T

	// 1-2. Request validation, no store access
	if err := machine.Check(cmd); err != nil {
		return zero, err
	}

	// 3. Load
	current, err := load(ctx, cmd.ID)
	if err != nil {
		return zero, err
	}

	// 4. Authorization
	if err := access.CanAct(actor, current.OwnerID(), rule); err != nil {
		return zero, err
	}

	// 5. Terminal lock
	from := current.CurrentStatus()
	if machine.LockTerminal && machine.IsTerminal(from) && from != cmd.Status {
		return zero, apperr.TerminalState(machine.Resource, from)
	}

	// 6. Write
	updated, err := write(ctx, Change{
		ID:     cmd.ID,
		From:   from,
		To:     cmd.Status,
		Remark: strings.TrimSpace(cmd.Remark),
		At:     time.Now().UTC(),
	})
	if err != nil {
		return zero, err
	}

	metrics.StatusTransitions.WithLabelValues(machine.Resource, cmd.Status).Inc()
	ctxutil.GetLogger(ctx).InfoContext(ctx, "status_changed",
		slog.String("resource", machine.Resource),
		slog.String("id", cmd.ID),
		slog.String("from", from),
		slog.String("to", cmd.Status),
		slog.String("actor_id", actor.ID),
	)

	return updated, nil
}

// Stale is returned by a store whose conditional write found the status
// already moved away from [Change.From] by a concurrent request.
func Stale(resource string) error {
	return apperr.Conflict(resource + " status was changed by another request")
}
