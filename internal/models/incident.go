package models

import (
	"time"
)

type Incident struct {
	BaseModel

	WorkspaceID    uint      `gorm:"not null;index"`
	Title          string    `gorm:"not null"`
	StartedAt      time.Time `gorm:"not null"`
	AcknowledgedAt *time.Time
	ResolvedAt     *time.Time

	// Relationships
	Monitors []Monitor        `gorm:"many2many:monitor_incidents;"`
	Reports  []IncidentReport `gorm:"foreignKey:IncidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// Resolved reports whether the incident has reached its terminal state.
func (i *Incident) Resolved() bool {
	return i.ResolvedAt != nil
}

// CurrentStatus is the status of the most recent report. Reports must be
// loaded ordered by timestamp descending.
func (i *Incident) CurrentStatus() string {
	if len(i.Reports) == 0 {
		return ""
	}
	return i.Reports[0].Status
}
