// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account provides the public view of a user that resources embed.

Issues, lost and found items and help board posts show who created them. The
[Summary] is that projection: no credentials, no device tokens. Stores join
users.account with [Columns] and scan it through a [NullableSummary], which
also covers anonymous rows where the join finds nobody.
*/
package account

import (
	"github.com/taibuivan/campus/internal/platform/database/schema"
)

// # Domain Entities

// Summary is the public identity of a user.
type Summary struct {
	ID              string `json:"id"`
	FullName        string `json:"fullName"`
	Email           string `json:"email,omitempty"`
	UniID           string `json:"uniId,omitempty"`
	ProfileImageURL string `json:"profileImageUrl,omitempty"`
}

// # Query Helpers

// Columns returns the select list of a [Summary] for a users.account join aliased as alias.
func Columns(alias string) string {
	table := schema.UserAccount
	return schema.Join(alias, table.ID, table.FullName, table.Email, table.UniID, table.ProfileImageURL)
}

// NullableSummary receives the [Columns] of a LEFT JOIN.
type NullableSummary struct {
	id, fullName, email, uniID, profileImageURL *string
}

// Targets returns the scan destinations in [Columns] order.
func (n *NullableSummary) Targets() []any {
	return []any{&n.id, &n.fullName, &n.email, &n.uniID, &n.profileImageURL}
}

// Summary returns the scanned user, or nil when the join matched no row.
func (n *NullableSummary) Summary() *Summary {
	if n.id == nil {
		return nil
	}
	return &Summary{
		ID:              *n.id,
		FullName:        value(n.fullName),
		Email:           value(n.email),
		UniID:           value(n.uniID),
		ProfileImageURL: value(n.profileImageURL),
	}
}

func value(pointer *string) string {
	if pointer == nil {
		return ""
	}
	return *pointer
}
