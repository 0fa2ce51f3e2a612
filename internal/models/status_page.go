package models

// StatusPage is a public page exposing a subset of monitors. At most one
// page may be the root page (served from the app domain instead of a
// custom domain).
type StatusPage struct {
	BaseModel

	WorkspaceID uint    `gorm:"not null;index"`
	Name        string  `gorm:"not null"`
	Enabled     bool    `gorm:"not null;default:false"`
	Root        bool    `gorm:"not null;default:false"`
	Domain      *string `gorm:"uniqueIndex"`
	Description string

	// Relationships
	PageMonitors []StatusPageMonitor `gorm:"foreignKey:StatusPageID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}

// StatusPageMonitor links a monitor onto a page in display order.
type StatusPageMonitor struct {
	BaseModel

	StatusPageID uint `gorm:"not null;index"`
	MonitorID    uint `gorm:"not null;index"`
	Order        int  `gorm:"column:sort_order;not null"`
	ShowUptime   bool `gorm:"not null;default:true"`
	ShowPings    bool `gorm:"not null;default:true"`

	// Relationships
	Monitor Monitor `gorm:"foreignKey:MonitorID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
