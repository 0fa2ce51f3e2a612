package services

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/gorilla/feeds"
	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/models"
	"gorm.io/gorm"
)

const (
	FeedKindRSS  = "rss"
	FeedKindAtom = "atom"
)

// FeedService renders the public RSS/Atom feed of a status page:
// incidents and maintenance events of the last 45 days, oldest first.
type FeedService struct {
	db         *gorm.DB
	appURL     string
	windowDays int
}

func NewFeedService(db *gorm.DB, appURL string, windowDays int) *FeedService {
	return &FeedService{db: db, appURL: appURL, windowDays: windowDays}
}

// BaseURL is where the page is served: the app domain for the root page,
// the custom domain otherwise.
func (s *FeedService) BaseURL(page *models.StatusPage) string {
	if page.Root || page.Domain == nil {
		return s.appURL
	}
	return "https://" + *page.Domain
}

// Build renders the feed in the requested kind. An incident's item date
// is resolvedAt when set, startedAt otherwise; an event's is startsAt.
func (s *FeedService) Build(page *models.StatusPage, kind string) (string, error) {
	if kind != FeedKindRSS && kind != FeedKindAtom {
		return "", apperr.Validation("feed type must be rss or atom", "type")
	}

	baseURL := s.BaseURL(page)
	since := time.Now().UTC().AddDate(0, 0, -s.windowDays)

	description := page.Description
	if description == "" {
		description = fmt.Sprintf("Welcome to %s's status page. Real-time and historical data on system performance.", page.Name)
	}

	feed := &feeds.Feed{
		Id:          fmt.Sprintf("%s/feed/%s", baseURL, kind),
		Title:       page.Name,
		Description: description,
		Link:        &feeds.Link{Href: fmt.Sprintf("%s/feed/%s", baseURL, kind)},
		Created:     time.Now().UTC(),
	}

	var incidents []models.Incident

	err := s.db.
		Preload("Reports", func(db *gorm.DB) *gorm.DB {
			return db.Order("timestamp ASC, id ASC")
		}).
		Where("started_at > ?", since).
		Find(&incidents).Error

	if err != nil {
		return "", apperr.Upstream(err, "failed to load incidents")
	}

	for _, incid := range incidents {
		date := incid.StartedAt
		if incid.ResolvedAt != nil {
			date = *incid.ResolvedAt
		}

		feed.Items = append(feed.Items, &feeds.Item{
			Id:          fmt.Sprintf("incident-%d", incid.ID),
			Title:       incid.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/incidents/%d", baseURL, incid.ID)},
			Description: reportHistory(incid.Reports),
			Created:     date,
		})
	}

	var events []models.Event

	if err := s.db.Where("starts_at > ?", since).Find(&events).Error; err != nil {
		return "", apperr.Upstream(err, "failed to load events")
	}

	for _, event := range events {
		feed.Items = append(feed.Items, &feeds.Item{
			Id:          fmt.Sprintf("event-%d", event.ID),
			Title:       event.Title,
			Link:        &feeds.Link{Href: fmt.Sprintf("%s/events/%d", baseURL, event.ID)},
			Description: event.Message,
			Created:     event.StartsAt,
		})
	}

	sort.SliceStable(feed.Items, func(i, j int) bool {
		return feed.Items[i].Created.Before(feed.Items[j].Created)
	})

	if kind == FeedKindAtom {
		return feed.ToAtom()
	}

	return feed.ToRss()
}

// FindByDomain resolves the page serving a public hostname, falling back
// to the root page.
func (s *FeedService) FindByDomain(domain string) (*models.StatusPage, error) {
	var page models.StatusPage

	err := s.db.
		Where("domain = ?", domain).
		Or("root = ? AND domain IS NULL", true).
		Order("CASE WHEN domain IS NOT NULL THEN 0 ELSE 1 END").
		First(&page).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrStatusPageNotFound
		}
		return nil, apperr.Upstream(err, "failed to resolve status page")
	}

	if !page.Enabled {
		return nil, apperr.ErrStatusPageNotFound
	}

	return &page, nil
}

func reportHistory(reports []models.IncidentReport) string {
	lines := make([]string, 0, len(reports))
	for _, r := range reports {
		lines = append(lines, fmt.Sprintf("[%s]: %s", reportLabel(r.Status), r.Message))
	}
	return strings.Join(lines, "\n\n")
}

func reportLabel(status string) string {
	switch status {
	case models.ReportStatusInvestigating:
		return "Investigating"
	case models.ReportStatusIdentified:
		return "Identified"
	case models.ReportStatusMonitoring:
		return "Monitoring"
	case models.ReportStatusResolved:
		return "Resolved"
	default:
		return status
	}
}
