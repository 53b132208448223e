package models

import (
	"time"
)

// HistoryEntry is one volunteer hours record on a user document.
// Entries are append-only; a user can accumulate several entries for
// the same event.
type HistoryEntry struct {
	EventID string `bson:"eventId" json:"eventId"`
	Hours   int    `bson:"hours" json:"hours"`
}

type User struct {
	ID            string         `bson:"_id" json:"id"`
	Email         string         `bson:"email" json:"email"`
	Password      string         `bson:"password" json:"-"`
	EmailVerified bool           `bson:"emailVerified" json:"emailVerified"`
	Name          string         `bson:"name,omitempty" json:"name,omitempty"`
	LastName      string         `bson:"lastName,omitempty" json:"lastName,omitempty"`
	Age           int            `bson:"age,omitempty" json:"age,omitempty"`
	Profession    string         `bson:"profession,omitempty" json:"profession,omitempty"`
	UserType      string         `bson:"userType,omitempty" json:"userType,omitempty"` // volunteer, organization
	OrgDescription string        `bson:"orgDescription,omitempty" json:"orgDescription,omitempty"`
	Followers     []string       `bson:"followers" json:"followers"`
	Following     []string       `bson:"following" json:"following"`
	History       []HistoryEntry `bson:"history" json:"history"`
	StripeAccountID string       `bson:"stripeAccountId,omitempty" json:"stripeAccountId,omitempty"`
	CreatedAt     time.Time      `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time      `bson:"updatedAt" json:"updatedAt"`
}

// Normalize fills in the collection-valued fields that older documents
// may be missing entirely. Call it after decoding, before any code
// relies on membership checks.
func (u *User) Normalize() {
	if u.Followers == nil {
		u.Followers = []string{}
	}
	if u.Following == nil {
		u.Following = []string{}
	}
	if u.History == nil {
		u.History = []HistoryEntry{}
	}
}

// HasProfile reports whether the user completed onboarding.
func (u *User) HasProfile() bool {
	return u.UserType != ""
}

// ProfileSummary is the compact shape used when resolving follower and
// participant id sets for display.
type ProfileSummary struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	LastName string `json:"lastName,omitempty"`
	UserType string `json:"userType,omitempty"`
}

func (u *User) Summary() ProfileSummary {
	return ProfileSummary{
		ID:       u.ID,
		Name:     u.Name,
		LastName: u.LastName,
		UserType: u.UserType,
	}
}
