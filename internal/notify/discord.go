package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/statuscore-dev/statuscore/internal/models"
)

// DiscordNotifier posts plain-content webhook messages. Discord renders
// the markdown itself; rich embeds are not needed for incident notices.
type DiscordNotifier struct {
	Client *http.Client
}

type discordWebhookRequest struct {
	Username  string `json:"username"`
	AvatarURL string `json:"avatar_url,omitempty"`
	Content   string `json:"content"`
}

func (d *DiscordNotifier) Send(ctx context.Context, destination string, s IncidentSummary) error {
	return d.post(ctx, destination, discordWebhookRequest{
		Username:  Username,
		AvatarURL: AvatarURL,
		Content:   discordContent(s),
	})
}

func (d *DiscordNotifier) Test(ctx context.Context, destination string) error {
	return d.post(ctx, destination, discordWebhookRequest{
		Username:  Username,
		AvatarURL: AvatarURL,
		Content:   TestMessage,
	})
}

func discordContent(s IncidentSummary) string {
	linked := make([]string, 0, len(s.Monitors))
	for _, m := range s.Monitors {
		if s.LinkMode == models.LinkModeInternal {
			linked = append(linked, fmt.Sprintf("[%s (%s)](%s)", m.Name, m.URL, m.DashboardURL))
		} else {
			linked = append(linked, fmt.Sprintf("[%s](%s)", m.Name, m.URL))
		}
	}

	started := fmt.Sprintf("<t:%d:R>", s.StartedAt.Unix())

	if s.LinkMode == models.LinkModeInternal {
		return fmt.Sprintf(
			"## New Incident: [%s](%s)\n\nAffected monitors: %s\n\nStarted: %s\n\n[[View Incident](%s)]",
			s.Title, s.DashboardURL, strings.Join(linked, ", "), started, s.DashboardURL,
		)
	}

	pageLinks := make([]string, 0, len(s.Pages))
	for _, p := range s.Pages {
		pageLinks = append(pageLinks, fmt.Sprintf("[%s's Status Page](%s)", p.Name, p.URL))
	}

	return fmt.Sprintf(
		"## New Incident: %s\n\nAffected monitors: %s\n\nStarted: %s\n\n[%s]",
		s.Title, strings.Join(linked, ", "), started, strings.Join(pageLinks, " | "),
	)
}

func (d *DiscordNotifier) post(ctx context.Context, destination string, payload discordWebhookRequest) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal Discord payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, destination, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("failed to build Discord request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := d.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send Discord webhook: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("Discord webhook returned status %d", resp.StatusCode)
	}

	return nil
}
