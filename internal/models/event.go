package models

import (
	"time"
)

const (
	EventStatusNotStarted = "notStarted"
	EventStatusInProgress = "inProgress"
	EventStatusDelayed    = "delayed"
	EventStatusCompleted  = "completed"
)

const (
	EventMinDuration = 1
	EventMaxDuration = 1440
)

// Event is a planned maintenance window.
type Event struct {
	BaseModel

	WorkspaceID  uint      `gorm:"not null;index"`
	Title        string    `gorm:"not null"`
	Message      string    `gorm:"not null"`
	StartsAt     time.Time `gorm:"not null"`
	Duration     int       `gorm:"not null;default:60"` // Minutes
	AutoComplete bool      `gorm:"not null;default:false"`
	Completed    bool      `gorm:"not null;default:false"`

	// Relationships
	Monitors []Monitor `gorm:"many2many:monitor_events;"`
}

// EndsAt is the planned end of the maintenance window.
func (e *Event) EndsAt() time.Time {
	return e.StartsAt.Add(time.Duration(e.Duration) * time.Minute)
}

// StatusAt derives the temporal status of the event at the given instant.
// The status is never stored, only computed.
func (e *Event) StatusAt(now time.Time) string {
	if now.Before(e.StartsAt) {
		return EventStatusNotStarted
	}

	if !now.After(e.EndsAt()) {
		return EventStatusInProgress
	}

	if e.Completed {
		return EventStatusCompleted
	}

	return EventStatusDelayed
}
