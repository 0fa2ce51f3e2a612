package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"gorm.io/gorm"

	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/domain"
	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/services"
	"github.com/statuscore-dev/statuscore/internal/utils"
)

// Dispatcher listens for new incidents and fans them out to the
// workspace's notification channels. Delivery is best effort: a failing
// channel is logged and never blocks the others or the incident write.
type Dispatcher struct {
	db        *gorm.DB
	channels  *services.ChannelService
	pages     *services.StatusPageService
	providers map[string]Notifier
	appURL    string
	timeout   time.Duration
}

func NewDispatcher(db *gorm.DB, channels *services.ChannelService, pages *services.StatusPageService, providers map[string]Notifier, appURL string, timeout time.Duration) *Dispatcher {
	return &Dispatcher{
		db:        db,
		channels:  channels,
		pages:     pages,
		providers: providers,
		appURL:    appURL,
		timeout:   timeout,
	}
}

// Start subscribes the dispatcher to incident creation events.
func (d *Dispatcher) Start(bus *domain.Bus) {
	bus.Subscribe(func(e domain.Event) {
		if err := d.Dispatch(e.WorkspaceID, e.IncidentID); err != nil {
			log.Printf("Notification dispatch for incident %d failed: %v", e.IncidentID, err)
		}
	}, domain.IncidentCreated)
}

// Dispatch notifies every channel subscribed to at least one of the
// incident's monitors. Channels fire concurrently under one deadline.
func (d *Dispatcher) Dispatch(workspaceID, incidentID uint) error {
	var workspace models.Workspace
	if err := d.db.First(&workspace, workspaceID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return goerr.Wrap(apperr.ErrWorkspaceNotFound, "dispatch failed", goerr.V("workspace_id", workspaceID))
		}
		return apperr.Upstream(err, "failed to load workspace")
	}

	var incident models.Incident
	err := d.db.Preload("Monitors").First(&incident, incidentID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return goerr.Wrap(apperr.ErrIncidentNotFound, "dispatch failed", goerr.V("incident_id", incidentID))
		}
		return apperr.Upstream(err, "failed to load incident")
	}

	channels, err := d.channels.ListByWorkspace(workspaceID)
	if err != nil {
		return err
	}

	affected := make(map[uint]bool, len(incident.Monitors))
	refs := make([]MonitorRef, 0, len(incident.Monitors))
	for _, m := range incident.Monitors {
		affected[m.ID] = true
		refs = append(refs, MonitorRef{
			ID:           m.ID,
			Name:         m.Name,
			URL:          m.URL,
			DashboardURL: fmt.Sprintf("%s/admin/%s/monitors/%d", d.appURL, workspace.Slug, m.ID),
		})
	}

	summary := IncidentSummary{
		IncidentID:   incident.ID,
		Title:        incident.Title,
		StartedAt:    incident.StartedAt,
		Monitors:     refs,
		DashboardURL: fmt.Sprintf("%s/admin/%s/incidents/%d", d.appURL, workspace.Slug, incident.ID),
	}

	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	var wg sync.WaitGroup

	for _, channel := range channels {
		if !d.subscribed(channel, affected) {
			continue
		}

		notifier, ok := d.providers[channel.Provider]
		if !ok {
			log.Printf("Channel %q uses provider %q with no webhook sender, skipping", channel.Name, channel.Provider)
			continue
		}

		msg := summary
		msg.LinkMode = channel.LinkMode

		if channel.LinkMode == models.LinkModeExternal {
			msg.Pages, err = d.pageRefs(affected)
			if err != nil {
				log.Printf("Failed to resolve status pages for channel %q: %v", channel.Name, err)
				continue
			}
		}

		wg.Add(1)
		go func(ch models.NotificationChannel, msg IncidentSummary) {
			defer wg.Done()

			if err := notifier.Send(ctx, ch.URL, msg); err != nil {
				log.Printf("Failed to notify channel %q (%s): %v", ch.Name, ch.Provider, err)
			}
		}(channel, msg)
	}

	wg.Wait()

	return nil
}

// TestWebhook sends the provider's test message to a candidate URL
// before a channel is saved.
func (d *Dispatcher) TestWebhook(ctx context.Context, provider, url string) error {
	if !utils.IsValidWebhookURL(url) {
		return apperr.Validation("invalid webhook URL", "url")
	}

	notifier, ok := d.providers[provider]
	if !ok {
		return apperr.Validation("unsupported webhook provider", "provider")
	}

	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()

	return notifier.Test(ctx, url)
}

func (d *Dispatcher) subscribed(channel models.NotificationChannel, affected map[uint]bool) bool {
	for _, m := range channel.Monitors {
		if affected[m.ID] {
			return true
		}
	}

	return false
}

func (d *Dispatcher) pageRefs(affected map[uint]bool) ([]PageRef, error) {
	ids := make([]uint, 0, len(affected))
	for id := range affected {
		ids = append(ids, id)
	}

	pages, err := d.pages.PagesForMonitors(ids)
	if err != nil {
		return nil, err
	}

	refs := make([]PageRef, 0, len(pages))
	for _, p := range pages {
		url := d.appURL
		if p.Domain != nil {
			url = "https://" + *p.Domain
		}

		refs = append(refs, PageRef{Name: p.Name, URL: url})
	}

	return refs, nil
}
