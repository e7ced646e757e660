package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// InvitationCode represents the structure of an invitation code document in MongoDB.
// The code string is stored uppercase and is unique across the collection.
type InvitationCode struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code       string             `bson:"code" json:"code" index:"unique"`
	AssignedTo string             `bson:"assignedTo" json:"assignedTo"`
	MaxGuests  int                `bson:"maxGuests" json:"maxGuests"`
	UsedGuests int                `bson:"usedGuests" json:"usedGuests"`
	IsActive   bool               `bson:"isActive" json:"isActive"`
	ExpiresAt  *time.Time         `bson:"expiresAt,omitempty" json:"expiresAt,omitempty"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RemainingGuests returns the seats still grantable under this code, floored at zero.
func (c InvitationCode) RemainingGuests() int {
	remaining := c.MaxGuests - c.UsedGuests
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Expired reports whether the code carries an expiry that has already passed.
func (c InvitationCode) Expired(now time.Time) bool {
	return c.ExpiresAt != nil && c.ExpiresAt.Before(now)
}

// CodeSnapshot is the immutable result of a successful code validation. It is
// what the visitor session holds on to between validating and submitting.
type CodeSnapshot struct {
	ID              string `json:"id"`
	Code            string `json:"code"`
	AssignedTo      string `json:"assignedTo"`
	MaxGuests       int    `json:"maxGuests"`
	UsedGuests      int    `json:"usedGuests"`
	RemainingGuests int    `json:"remainingGuests"`
	IsActive        bool   `json:"isActive"`
}

// Snapshot freezes the current state of the code for a visitor session.
func (c InvitationCode) Snapshot() *CodeSnapshot {
	return &CodeSnapshot{
		ID:              c.ID.Hex(),
		Code:            c.Code,
		AssignedTo:      c.AssignedTo,
		MaxGuests:       c.MaxGuests,
		UsedGuests:      c.UsedGuests,
		RemainingGuests: c.RemainingGuests(),
		IsActive:        c.IsActive,
	}
}
