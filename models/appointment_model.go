package models

import (
	"time"

	"github.com/google/uuid"
)

// Appointment holds one booked half-hour slot. The composite unique index on
// (date, start_time) enforces the system-wide rule that no two users may hold
// the same slot; a create that loses the race fails on this index.
type Appointment struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key;default:gen_random_uuid()" json:"id"`
	UserID    uuid.UUID `gorm:"not null;index" json:"userId"`
	Date      string    `gorm:"size:10;not null;uniqueIndex:idx_appointments_slot" json:"date"`
	StartTime string    `gorm:"size:5;not null;uniqueIndex:idx_appointments_slot" json:"startTime"`
	EndTime   string    `gorm:"size:5;not null" json:"endTime"`
	Code      string    `gorm:"size:10;unique;not null" json:"code"`

	ReminderSent bool `gorm:"default:false" json:"-"`

	User User `gorm:"foreignkey:UserID" json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// BookedSlotRow is the availability projection of Appointment: just the day
// and slot start time, for all users.
type BookedSlotRow struct {
	Date      string `json:"date"`
	StartTime string `json:"startTime"`
}
