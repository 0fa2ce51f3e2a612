package models

const (
	MonitorTypeHTTP = "http"
	MonitorTypeTCP  = "tcp"
)

// Monitor is owned by the probing side of the product; this core only
// reads it to validate incident/event/channel associations.
type Monitor struct {
	BaseModel

	WorkspaceID uint   `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Type        string `gorm:"not null"` // "http" or "tcp"
	URL         string `gorm:"not null"`
	Interval    int    `gorm:"not null"` // Check interval in seconds

	// Relationships
	Workspace Workspace `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Pings     []Ping    `gorm:"foreignKey:MonitorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
