package services

import (
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/utils"
	"gorm.io/gorm"
)

// ChannelService is the channel registry: CRUD for notification channel
// configs. The dispatcher only reads from it.
type ChannelService struct {
	db *gorm.DB
}

func NewChannelService(db *gorm.DB) *ChannelService {
	return &ChannelService{db: db}
}

type ChannelInput struct {
	Name       string
	Provider   string
	URL        string
	Email      string
	LinkMode   string
	MonitorIDs []uint
}

func (in ChannelInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("channel name is required", "name")
	}

	if !models.ValidProvider(in.Provider) {
		return apperr.Validation("unknown provider", "provider")
	}

	if in.LinkMode != models.LinkModeInternal && in.LinkMode != models.LinkModeExternal {
		return apperr.Validation("link mode must be internal or external", "link_mode")
	}

	if len(in.MonitorIDs) == 0 {
		return apperr.Validation("at least one monitor subscription is required", "monitor_ids")
	}

	switch in.Provider {
	case models.ProviderEmail:
		if strings.TrimSpace(in.Email) == "" {
			return apperr.Validation("email channels need a destination address", "email")
		}
	default:
		if !utils.IsValidWebhookURL(in.URL) {
			return apperr.Validation("webhook URL is not valid", "url")
		}
	}

	return nil
}

func (s *ChannelService) Create(workspaceID uint, in ChannelInput) (*models.NotificationChannel, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	channel := models.NotificationChannel{
		WorkspaceID: workspaceID,
		Name:        in.Name,
		Provider:    in.Provider,
		URL:         in.URL,
		Email:       in.Email,
		LinkMode:    in.LinkMode,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		monitors, err := resolveMonitors(tx, workspaceID, in.MonitorIDs)
		if err != nil {
			return err
		}

		if err := tx.Create(&channel).Error; err != nil {
			return apperr.Upstream(err, "failed to create channel")
		}

		if err := tx.Model(&channel).Association("Monitors").Append(&monitors); err != nil {
			return apperr.Upstream(err, "failed to link monitors")
		}

		channel.Monitors = monitors
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &channel, nil
}

func (s *ChannelService) Edit(channelID uint, in ChannelInput) (*models.NotificationChannel, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var channel models.NotificationChannel

	if err := s.db.Preload("Monitors").First(&channel, channelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(apperr.ErrChannelNotFound, "edit failed", goerr.V("channel_id", channelID))
		}
		return nil, apperr.Upstream(err, "failed to load channel")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		monitors, err := resolveMonitors(tx, channel.WorkspaceID, in.MonitorIDs)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":      in.Name,
			"provider":  in.Provider,
			"url":       in.URL,
			"email":     in.Email,
			"link_mode": in.LinkMode,
		}

		if err := tx.Model(&channel).Updates(updates).Error; err != nil {
			return apperr.Upstream(err, "failed to update channel")
		}

		if err := tx.Model(&channel).Association("Monitors").Replace(&monitors); err != nil {
			return apperr.Upstream(err, "failed to relink monitors")
		}

		channel.Name = in.Name
		channel.Provider = in.Provider
		channel.URL = in.URL
		channel.Email = in.Email
		channel.LinkMode = in.LinkMode
		channel.Monitors = monitors
		return nil
	})

	if err != nil {
		return nil, err
	}

	return &channel, nil
}

func (s *ChannelService) Delete(channelID uint) error {
	var channel models.NotificationChannel

	if err := s.db.First(&channel, channelID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return goerr.Wrap(apperr.ErrChannelNotFound, "delete failed", goerr.V("channel_id", channelID))
		}
		return apperr.Upstream(err, "failed to load channel")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&channel).Association("Monitors").Clear(); err != nil {
			return apperr.Upstream(err, "failed to unlink monitors")
		}

		if err := tx.Delete(&channel).Error; err != nil {
			return apperr.Upstream(err, "failed to delete channel")
		}

		return nil
	})

	return err
}

// ListByWorkspace loads all channels of a workspace with their monitor
// subscriptions. The dispatcher fans out over this list.
func (s *ChannelService) ListByWorkspace(workspaceID uint) ([]models.NotificationChannel, error) {
	var channels []models.NotificationChannel

	err := s.db.
		Preload("Monitors").
		Where("workspace_id = ?", workspaceID).
		Order("name").
		Find(&channels).Error

	if err != nil {
		return nil, apperr.Upstream(err, "failed to list channels")
	}

	return channels, nil
}
