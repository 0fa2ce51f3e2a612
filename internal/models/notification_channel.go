package models

const (
	ProviderDiscord = "discord"
	ProviderSlack   = "slack"
	ProviderEmail   = "email"
)

const (
	LinkModeInternal = "internal"
	LinkModeExternal = "external"
)

// ValidProvider reports whether p is a recognized channel provider.
func ValidProvider(p string) bool {
	switch p {
	case ProviderDiscord, ProviderSlack, ProviderEmail:
		return true
	}
	return false
}

// NotificationChannel is an outbound destination subscribed to a subset of
// the workspace's monitors. LinkMode governs whether links in generated
// messages point at the operator dashboard or the public status page.
type NotificationChannel struct {
	BaseModel

	WorkspaceID uint   `gorm:"not null;index"`
	Name        string `gorm:"not null"`
	Provider    string `gorm:"not null"` // "discord", "slack" or "email"
	URL         string // Webhook URL for discord/slack
	Email       string // Destination address for email
	LinkMode    string `gorm:"not null;default:internal"`

	// Relationships
	Monitors []Monitor `gorm:"many2many:channel_monitors;"`
}
