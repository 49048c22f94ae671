// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package access decides whether an actor may perform an action on a resource.

Every resource action is classified under one [Rule]. The decision depends only
on the actor's identity, role and the resource owner, so it is recomputed on
every request and never cached.

Precedence:

  - AdminOnly: the actor must hold the admin role.
  - OwnerOrAdmin: the actor must own the resource or hold the admin role.
  - Authenticated: any signed-in actor.
  - Public: anyone, including anonymous callers.
*/
package access

import (
	"github.com/taibuivan/campus/internal/platform/apperr"
	"github.com/taibuivan/campus/internal/platform/sec"
)

// Actor is the identity performing a request.
type Actor struct {
	ID   string
	Role sec.UserRole
}

// Anonymous is the actor of an unauthenticated request.
var Anonymous = Actor{}

// Authenticated reports whether the actor carries a verified identity.
func (a Actor) Authenticated() bool { return a.ID != "" }

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Authenticated() && a.Role.IsAdmin() }

// Owns reports whether the actor created a resource owned by ownerID.
// Unowned (anonymous) resources are owned by nobody.
func (a Actor) Owns(ownerID string) bool {
	return a.Authenticated() && ownerID != "" && a.ID == ownerID
}

// Rule classifies an action by who may perform it.
type Rule int

const (
	Public Rule = iota
	Authenticated
	OwnerOrAdmin
	AdminOnly
)

// String implements [fmt.Stringer] for log fields.
func (r Rule) String() string {
	switch r {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case OwnerOrAdmin:
		return "owner_or_admin"
	case AdminOnly:
		return "admin_only"
	default:
		return "unknown"
	}
}

/*
CanAct evaluates rule for actor against a resource owned by ownerID.

Parameters:
  - actor: Acting identity, [Anonymous] when the request carries no token
  - ownerID: Owner of the target resource, empty when unowned or not applicable
  - rule: Classification of the attempted action

Returns:
  - error: nil when allowed, apperr.Unauthorized for anonymous callers on a
    protected action, apperr.Forbidden otherwise
*/
func CanAct(actor Actor, ownerID string, rule Rule) error {
	if rule == Public {
		return nil
	}

	if !actor.Authenticated() {
		return apperr.Unauthorized("Authentication required")
	}

	switch rule {
	case AdminOnly:
		if actor.IsAdmin() {
			return nil
		}
		return apperr.Forbidden("Admin access required")

	case OwnerOrAdmin:
		if actor.IsAdmin() || actor.Owns(ownerID) {
			return nil
		}
		return apperr.Forbidden("You are not allowed to modify this resource")

	case Authenticated:
		return nil
	}

	return apperr.Forbidden("Action not permitted")
}
