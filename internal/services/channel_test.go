package services

import (
	"testing"

	"github.com/m-mizutani/goerr/v2"

	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/models"
)

func TestChannelValidation(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	monitor := seedMonitor(t, gdb, workspace.ID, "api")
	svc := NewChannelService(gdb)

	valid := ChannelInput{
		Name:       "Ops Discord",
		Provider:   models.ProviderDiscord,
		URL:        "https://discord.com/api/webhooks/1/abc",
		LinkMode:   models.LinkModeInternal,
		MonitorIDs: []uint{monitor.ID},
	}

	tests := []struct {
		name   string
		mutate func(*ChannelInput)
	}{
		{"empty name", func(in *ChannelInput) { in.Name = " " }},
		{"unknown provider", func(in *ChannelInput) { in.Provider = "pager" }},
		{"bad link mode", func(in *ChannelInput) { in.LinkMode = "both" }},
		{"no monitors", func(in *ChannelInput) { in.MonitorIDs = nil }},
		{"relative webhook URL", func(in *ChannelInput) { in.URL = "/hooks/abc" }},
		{"non-http webhook URL", func(in *ChannelInput) { in.URL = "ftp://example.com/hook" }},
		{"email without address", func(in *ChannelInput) {
			in.Provider = models.ProviderEmail
			in.URL = ""
			in.Email = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := valid
			tt.mutate(&in)

			if _, err := svc.Create(workspace.ID, in); !goerr.HasTag(err, apperr.TagValidation) {
				t.Errorf("Create error = %v, want validation error", err)
			}
		})
	}

	if _, err := svc.Create(workspace.ID, valid); err != nil {
		t.Errorf("Create(valid) failed: %v", err)
	}

	email := ChannelInput{
		Name:       "Ops Mail",
		Provider:   models.ProviderEmail,
		Email:      "ops@example.com",
		LinkMode:   models.LinkModeExternal,
		MonitorIDs: []uint{monitor.ID},
	}

	if _, err := svc.Create(workspace.ID, email); err != nil {
		t.Errorf("Create(email) failed: %v", err)
	}
}

func TestChannelEditReplacesMonitors(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	a := seedMonitor(t, gdb, workspace.ID, "api")
	b := seedMonitor(t, gdb, workspace.ID, "web")
	svc := NewChannelService(gdb)

	channel, err := svc.Create(workspace.ID, ChannelInput{
		Name:       "Ops Slack",
		Provider:   models.ProviderSlack,
		URL:        "https://hooks.slack.com/services/T0/B0/xyz",
		LinkMode:   models.LinkModeInternal,
		MonitorIDs: []uint{a.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	edited, err := svc.Edit(channel.ID, ChannelInput{
		Name:       "Ops Slack",
		Provider:   models.ProviderSlack,
		URL:        "https://hooks.slack.com/services/T0/B0/xyz",
		LinkMode:   models.LinkModeExternal,
		MonitorIDs: []uint{b.ID},
	})
	if err != nil {
		t.Fatalf("Edit failed: %v", err)
	}

	if edited.LinkMode != models.LinkModeExternal {
		t.Errorf("link mode = %q, want external", edited.LinkMode)
	}

	if len(edited.Monitors) != 1 || edited.Monitors[0].ID != b.ID {
		t.Errorf("monitor set = %v, want only %d", edited.Monitors, b.ID)
	}
}

func TestChannelDelete(t *testing.T) {
	gdb := testDB(t)
	workspace := seedWorkspace(t, gdb, "acme")
	monitor := seedMonitor(t, gdb, workspace.ID, "api")
	svc := NewChannelService(gdb)

	channel, err := svc.Create(workspace.ID, ChannelInput{
		Name:       "Ops Discord",
		Provider:   models.ProviderDiscord,
		URL:        "https://discord.com/api/webhooks/1/abc",
		LinkMode:   models.LinkModeInternal,
		MonitorIDs: []uint{monitor.ID},
	})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := svc.Delete(channel.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}

	channels, err := svc.ListByWorkspace(workspace.ID)
	if err != nil {
		t.Fatalf("ListByWorkspace failed: %v", err)
	}

	if len(channels) != 0 {
		t.Errorf("channel count = %d, want 0", len(channels))
	}

	var count int64
	gdb.Table("channel_monitors").Where("notification_channel_id = ?", channel.ID).Count(&count)
	if count != 0 {
		t.Errorf("orphaned monitor link count = %d, want 0", count)
	}
}
