// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table            string
	ID               string
	FullName         string
	UniID            string
	Email            string
	PasswordHash     string
	Role             string
	IsVerified       string
	ProfileImageURL  string
	UniCardImageURL  string
	FCMToken         string
	DeviceTokens     string
	RefreshTokenHash string
	RefreshExpiresAt string
	CreatedAt        string
	UpdatedAt        string

	// Unique constraints
	UniIDKey string
	EmailKey string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:            "users.account",
	ID:               "id",
	FullName:         "fullname",
	UniID:            "uniid",
	Email:            "email",
	PasswordHash:     "passwordhash",
	Role:             "role",
	IsVerified:       "isverified",
	ProfileImageURL:  "profileimageurl",
	UniCardImageURL:  "unicardimageurl",
	FCMToken:         "fcmtoken",
	DeviceTokens:     "devicetokens",
	RefreshTokenHash: "refreshtokenhash",
	RefreshExpiresAt: "refreshtokenexpiresat",
	CreatedAt:        "createdat",
	UpdatedAt:        "updatedat",
	UniIDKey:         "account_uniid_key",
	EmailKey:         "account_email_key",
}

// Columns returns the columns hydrated into a user entity, credentials included.
func (t UserAccountTable) Columns() []string {
	return []string{
		t.ID, t.FullName, t.UniID, t.Email, t.PasswordHash, t.Role, t.IsVerified,
		t.ProfileImageURL, t.UniCardImageURL, t.FCMToken, t.DeviceTokens,
		t.RefreshTokenHash, t.CreatedAt, t.UpdatedAt,
	}
}
