package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Attendance values stored on RSVP documents. A closed two-value enum.
const (
	AttendanceWillAttend    = "Will attend"
	AttendanceWillNotAttend = "Will not attend"
)

// Form values as they arrive from the invitation page.
const (
	FormAttendanceYes = "si"
	FormAttendanceNo  = "no"
)

// RSVP represents one attendance confirmation persisted per code-holder.
type RSVP struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Code       string             `bson:"code" json:"code" index:"unique"`
	CodeID     string             `bson:"codeId" json:"codeId"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Phone      string             `bson:"phone,omitempty" json:"phone,omitempty"`
	Allergies  string             `bson:"allergies,omitempty" json:"allergies,omitempty"`
	GuestsCount int               `bson:"guestsCount" json:"guestsCount"`
	Attendance string             `bson:"attendance" json:"attendance"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
}

// Attending reports whether this record consumed seats on its code.
func (r RSVP) Attending() bool {
	return r.Attendance == AttendanceWillAttend
}

// RSVPForm is the submission payload filled in by the visitor.
type RSVPForm struct {
	Name        string `json:"name"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Allergies   string `json:"allergies"`
	GuestsCount int    `json:"guestsCount"`
	Attendance  string `json:"attendance"`
}
