// Package notify fans incident events out to configured channels.
// Each provider formats and delivers its own payload; the dispatcher
// only decides which channels fire and isolates their failures.
package notify

import (
	"context"
	"net/http"
	"time"

	"github.com/statuscore-dev/statuscore/internal/models"
)

const (
	Username  = "statuscore"
	AvatarURL = "https://statuscore.dev/avatar.png"

	TestMessage = "This is a test from statuscore. If you are reading this, it means the webhook is working!"
)

// MonitorRef is one affected monitor, with the link targets both link
// modes need.
type MonitorRef struct {
	ID           uint
	Name         string
	URL          string
	DashboardURL string
}

// PageRef is a public status page exposing at least one affected monitor.
type PageRef struct {
	Name string
	URL  string
}

// IncidentSummary is everything a provider needs to build its message.
type IncidentSummary struct {
	IncidentID   uint
	Title        string
	StartedAt    time.Time
	Monitors     []MonitorRef
	LinkMode     string // models.LinkModeInternal or models.LinkModeExternal
	DashboardURL string // Operator incident page
	Pages        []PageRef
}

// Notifier delivers incident messages to one provider's destinations.
type Notifier interface {
	Send(ctx context.Context, destination string, s IncidentSummary) error
	Test(ctx context.Context, destination string) error
}

// NewRegistry builds the provider table. Email is a recognized provider
// but its message construction is delegated to the mail pipeline, so it
// has no entry here; the dispatcher skips channels without one.
func NewRegistry(client *http.Client) map[string]Notifier {
	if client == nil {
		client = http.DefaultClient
	}

	return map[string]Notifier{
		models.ProviderDiscord: &DiscordNotifier{Client: client},
		models.ProviderSlack:   &SlackNotifier{Client: client},
	}
}
