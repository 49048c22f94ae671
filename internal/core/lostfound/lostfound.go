// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package lostfound implements the lost and found board.

Items expire a fixed time after they are posted. Expiry is computed on read:
an overdue item is shown as expired and hidden from the active listing even
before the sweeper has persisted the change. Matching a lost item with a found
item links both and archives them in one transaction.
*/
package lostfound

import (
	"slices"
	"time"

	"github.com/taibuivan/campus/internal/platform/transition"
	"github.com/taibuivan/campus/internal/users/account"
)

// # Domain Entities

// Item is a lost or found object posted by a user.
type Item struct {
	ID              string           `json:"id"`
	Title           string           `json:"title"`
	Description     string           `json:"description"`
	Type            string           `json:"type"`
	Category        string           `json:"category"`
	Location        string           `json:"location"`
	Photos          []string         `json:"photos"`
	DateLostOrFound time.Time        `json:"dateLostOrFound"`
	ContactInfo     string           `json:"contactInfo"`
	CollectionInfo  string           `json:"collectionInfo"`
	IsAnonymous     bool             `json:"isAnonymous"`
	Status          string           `json:"status"`
	RelatedItem     *string          `json:"relatedItem"`
	PostedByID      string           `json:"-"`
	PostedBy        *account.Summary `json:"postedBy,omitempty"`
	StatusUpdatedAt time.Time        `json:"statusUpdatedAt"`
	ExpiresAt       time.Time        `json:"expiresAt"`
	CreatedAt       time.Time        `json:"createdAt"`
	UpdatedAt       time.Time        `json:"updatedAt"`
}

// OwnerID implements [transition.Subject].
func (i *Item) OwnerID() string { return i.PostedByID }

// CurrentStatus implements [transition.Subject].
func (i *Item) CurrentStatus() string { return i.Status }

// Overdue reports whether the item passed its expiry while still open.
func (i *Item) Overdue(now time.Time) bool {
	return slices.Contains(expirable, i.Status) && i.ExpiresAt.Before(now)
}

// settle applies read-time expiry and hides the poster of an anonymous item.
func (i *Item) settle(now time.Time) *Item {
	if i.Overdue(now) {
		i.Status = StatusExpired
	}
	if i.IsAnonymous {
		i.PostedBy = nil
	}
	return i
}

// # Enumerations

const (
	TypeLost  = "lost"
	TypeFound = "found"
)

const (
	StatusActive   = "active"
	StatusClaimed  = "claimed"
	StatusReturned = "returned"
	StatusArchived = "archived"
	StatusExpired  = "expired"
)

// Types is the closed set of item types.
var Types = []string{TypeLost, TypeFound}

// Categories is the closed set of item categories.
var Categories = []string{"electronics", "clothing", "documents", "accessories", "other"}

// DefaultCategory is used when a post does not name one.
const DefaultCategory = "other"

// Statuses is the closed set of item statuses.
var Statuses = []string{StatusActive, StatusClaimed, StatusReturned, StatusArchived, StatusExpired}

// expirable are the statuses the sweeper moves to expired.
var expirable = []string{StatusActive, StatusClaimed}

// NewMachine returns the item state machine. Clients may only set the
// hand-over states; active and expired are set by the system.
func NewMachine(lockTerminal bool) transition.Machine {
	return transition.Machine{
		Resource:     "Lost/Found item",
		States:       Statuses,
		Settable:     []string{StatusClaimed, StatusReturned, StatusArchived},
		Terminal:     []string{StatusArchived, StatusReturned, StatusExpired},
		LockTerminal: lockTerminal,
	}
}

// # Field Identifiers

const (
	FieldTitle           = "title"
	FieldDescription     = "description"
	FieldType            = "type"
	FieldCategory        = "category"
	FieldLocation        = "location"
	FieldPhotos          = "lostfoundImage"
	FieldDateLostOrFound = "dateLostOrFound"
	FieldContactInfo     = "contactInfo"
	FieldCollectionInfo  = "collectionInfo"
	FieldIsAnonymous     = "isAnonymous"
	FieldRelatedItem     = "relatedItem"
	FieldLostItemID      = "lostItemId"
	FieldFoundItemID     = "foundItemId"
	FieldItem            = "item"
	FieldItems           = "items"
	FieldLostItem        = "lostItem"
	FieldFoundItem       = "foundItem"
	FieldPagination      = "pagination"
)
