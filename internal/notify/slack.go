package notify

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/slack-go/slack"
	"github.com/statuscore-dev/statuscore/internal/models"
)

// SlackNotifier posts Block Kit webhook messages: a header block with the
// incident title, then section blocks for monitors, start time and links.
type SlackNotifier struct {
	Client *http.Client
}

func (n *SlackNotifier) Send(ctx context.Context, destination string, s IncidentSummary) error {
	linked := make([]string, 0, len(s.Monitors))
	for _, m := range s.Monitors {
		if s.LinkMode == models.LinkModeInternal {
			linked = append(linked, fmt.Sprintf("<%s|%s> (%s)", m.DashboardURL, m.Name, m.URL))
		} else {
			linked = append(linked, fmt.Sprintf("%s (%s)", m.Name, m.URL))
		}
	}

	var linkLine string
	if s.LinkMode == models.LinkModeInternal {
		linkLine = fmt.Sprintf("View the incident <%s|here>", s.DashboardURL)
	} else {
		pageLinks := make([]string, 0, len(s.Pages))
		for _, p := range s.Pages {
			pageLinks = append(pageLinks, fmt.Sprintf("<%s|%s's Status Page>", p.URL, p.Name))
		}
		linkLine = strings.Join(pageLinks, " | ")
	}

	blocks := []slack.Block{
		slack.NewHeaderBlock(slack.NewTextBlockObject(slack.PlainTextType, "New Incident: "+s.Title, true, false)),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, "Affected monitors: "+strings.Join(linked, ", "), false, false), nil, nil),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.PlainTextType, "Started At: "+s.StartedAt.Format("2006-01-02 15:04:05 UTC"), true, false), nil, nil),
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.MarkdownType, linkLine, false, false), nil, nil),
	}

	return n.post(ctx, destination, blocks)
}

func (n *SlackNotifier) Test(ctx context.Context, destination string) error {
	blocks := []slack.Block{
		slack.NewSectionBlock(slack.NewTextBlockObject(slack.PlainTextType, TestMessage, true, false), nil, nil),
	}

	return n.post(ctx, destination, blocks)
}

func (n *SlackNotifier) post(ctx context.Context, destination string, blocks []slack.Block) error {
	msg := &slack.WebhookMessage{
		Blocks: &slack.Blocks{BlockSet: blocks},
	}

	if err := slack.PostWebhookCustomHTTPContext(ctx, destination, n.Client, msg); err != nil {
		return fmt.Errorf("failed to send Slack webhook: %w", err)
	}

	return nil
}
