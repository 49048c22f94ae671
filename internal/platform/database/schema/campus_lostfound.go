// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// CampusLostFoundTable represents the 'campus.lostfound' table
type CampusLostFoundTable struct {
	Table           string
	ID              string
	Title           string
	Description     string
	Type            string
	Category        string
	Location        string
	Photos          string
	DateLostOrFound string
	ContactInfo     string
	CollectionInfo  string
	IsAnonymous     string
	Status          string
	RelatedItem     string
	PostedBy        string
	StatusUpdatedAt string
	ExpiresAt       string
	CreatedAt       string
	UpdatedAt       string
}

// CampusLostFound is the schema definition for campus.lostfound
var CampusLostFound = CampusLostFoundTable{
	Table:           "campus.lostfound",
	ID:              "id",
	Title:           "title",
	Description:     "description",
	Type:            "type",
	Category:        "category",
	Location:        "location",
	Photos:          "photos",
	DateLostOrFound: "datelostorfound",
	ContactInfo:     "contactinfo",
	CollectionInfo:  "collectioninfo",
	IsAnonymous:     "isanonymous",
	Status:          "status",
	RelatedItem:     "relateditem",
	PostedBy:        "postedby",
	StatusUpdatedAt: "statusupdatedat",
	ExpiresAt:       "expiresat",
	CreatedAt:       "createdat",
	UpdatedAt:       "updatedat",
}

func (t CampusLostFoundTable) Columns() []string {
	return []string{
		t.ID, t.Title, t.Description, t.Type, t.Category, t.Location, t.Photos,
		t.DateLostOrFound, t.ContactInfo, t.CollectionInfo, t.IsAnonymous, t.Status,
		t.RelatedItem, t.PostedBy, t.StatusUpdatedAt, t.ExpiresAt, t.CreatedAt, t.UpdatedAt,
	}
}
