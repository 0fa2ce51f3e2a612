package models

type Workspace struct {
	BaseModel

	Name string `gorm:"not null"`
	Slug string `gorm:"uniqueIndex;not null"`

	// Relationships
	Monitors    []Monitor             `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Incidents   []Incident            `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Events      []Event               `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	Channels    []NotificationChannel `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
	StatusPages []StatusPage          `gorm:"foreignKey:WorkspaceID;constraint:OnUpdate:Cascade,OnDelete:CASCADE"`
}
