package models

import (
	"time"

	"gorm.io/datatypes"
)

// Ping is a single raw check result. Written by the prober, read by the
// status aggregation engine.
type Ping struct {
	BaseModel

	MonitorID uint           `gorm:"not null;index"`
	Type      string         `gorm:"not null"`
	Success   bool           `gorm:"not null;default:false"`
	Status    *int           // HTTP status code, nil for TCP checks
	Latency   int            `gorm:"not null"` // Milliseconds
	Headers   datatypes.JSON `gorm:"type:jsonb"`
	CheckedAt time.Time      `gorm:"not null;index"`

	// Relationships
	Monitor Monitor `gorm:"foreignKey:MonitorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
