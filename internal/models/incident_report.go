package models

import (
	"time"
)

const (
	ReportStatusInvestigating = "investigating"
	ReportStatusIdentified    = "identified"
	ReportStatusMonitoring    = "monitoring"
	ReportStatusResolved      = "resolved"
)

// ValidReportStatus reports whether s is one of the four report statuses.
// Transitions are deliberately unordered; any status may follow any other.
func ValidReportStatus(s string) bool {
	switch s {
	case ReportStatusInvestigating, ReportStatusIdentified, ReportStatusMonitoring, ReportStatusResolved:
		return true
	}
	return false
}

type IncidentReport struct {
	BaseModel

	IncidentID uint      `gorm:"not null;index"`
	Status     string    `gorm:"not null"`
	Message    string    `gorm:"not null"`
	Timestamp  time.Time `gorm:"not null;index"`

	// Relationships
	Incident Incident `gorm:"foreignKey:IncidentID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
