package services

import (
	"errors"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/statuscore-dev/statuscore/internal/apperr"
	"github.com/statuscore-dev/statuscore/internal/domain"
	"github.com/statuscore-dev/statuscore/internal/models"
	"gorm.io/gorm"
)

// StatusPageService manages public status pages. A page's monitor list is
// ordered; edits replace the whole list inside one transaction.
type StatusPageService struct {
	db  *gorm.DB
	bus *domain.Bus
}

func NewStatusPageService(db *gorm.DB, bus *domain.Bus) *StatusPageService {
	return &StatusPageService{db: db, bus: bus}
}

type StatusPageInput struct {
	Name        string
	Enabled     bool
	Root        bool
	Domain      string
	Description string
	MonitorIDs  []uint // Display order
}

func (in StatusPageInput) validate() error {
	if strings.TrimSpace(in.Name) == "" {
		return apperr.Validation("status page name is required", "name")
	}

	if !in.Root && strings.TrimSpace(in.Domain) == "" {
		return apperr.Validation("non-root status pages need a domain", "domain")
	}

	return nil
}

// domainValue returns the stored domain: root pages are served from the
// app domain and keep a NULL custom domain.
func (in StatusPageInput) domainValue() *string {
	if in.Root {
		return nil
	}
	d := strings.TrimSpace(in.Domain)
	return &d
}

func (s *StatusPageService) Create(workspaceID uint, in StatusPageInput) (*models.StatusPage, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	page := models.StatusPage{
		WorkspaceID: workspaceID,
		Name:        in.Name,
		Enabled:     in.Enabled,
		Root:        in.Root,
		Domain:      in.domainValue(),
		Description: in.Description,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if in.Root {
			if err := ensureNoOtherRoot(tx, 0); err != nil {
				return err
			}
		}

		if _, err := resolveMonitors(tx, workspaceID, in.MonitorIDs); err != nil {
			return err
		}

		if err := tx.Create(&page).Error; err != nil {
			return apperr.Upstream(err, "failed to create status page")
		}

		return s.insertPageMonitors(tx, &page, in.MonitorIDs)
	})

	if err != nil {
		return nil, err
	}

	created, err := s.Get(page.ID)
	if err != nil {
		return nil, err
	}

	s.publishChanged(created)
	return created, nil
}

// Edit updates the page and replaces its ordered monitor list. The source
// behavior deleted and reinserted rows one by one outside a transaction;
// here the whole replacement commits or rolls back as a unit.
func (s *StatusPageService) Edit(pageID uint, in StatusPageInput) (*models.StatusPage, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	var page models.StatusPage

	if err := s.db.First(&page, pageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(apperr.ErrStatusPageNotFound, "edit failed", goerr.V("page_id", pageID))
		}
		return nil, apperr.Upstream(err, "failed to load status page")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if in.Root {
			if err := ensureNoOtherRoot(tx, page.ID); err != nil {
				return err
			}
		}

		if _, err := resolveMonitors(tx, page.WorkspaceID, in.MonitorIDs); err != nil {
			return err
		}

		updates := map[string]interface{}{
			"name":        in.Name,
			"enabled":     in.Enabled,
			"root":        in.Root,
			"domain":      in.domainValue(),
			"description": in.Description,
		}

		if err := tx.Model(&page).Updates(updates).Error; err != nil {
			return apperr.Upstream(err, "failed to update status page")
		}

		if err := tx.Where("status_page_id = ?", page.ID).Delete(&models.StatusPageMonitor{}).Error; err != nil {
			return apperr.Upstream(err, "failed to clear page monitors")
		}

		return s.insertPageMonitors(tx, &page, in.MonitorIDs)
	})

	if err != nil {
		return nil, err
	}

	edited, err := s.Get(page.ID)
	if err != nil {
		return nil, err
	}

	s.publishChanged(edited)
	return edited, nil
}

func (s *StatusPageService) Delete(pageID uint) error {
	var page models.StatusPage

	if err := s.db.First(&page, pageID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return goerr.Wrap(apperr.ErrStatusPageNotFound, "delete failed", goerr.V("page_id", pageID))
		}
		return apperr.Upstream(err, "failed to load status page")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("status_page_id = ?", page.ID).Delete(&models.StatusPageMonitor{}).Error; err != nil {
			return apperr.Upstream(err, "failed to clear page monitors")
		}

		if err := tx.Delete(&page).Error; err != nil {
			return apperr.Upstream(err, "failed to delete status page")
		}

		return nil
	})

	if err != nil {
		return err
	}

	s.publishChanged(&page)
	return nil
}

func (s *StatusPageService) Get(pageID uint) (*models.StatusPage, error) {
	var page models.StatusPage

	err := s.db.
		Preload("PageMonitors", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
		Preload("PageMonitors.Monitor").
		First(&page, pageID).Error

	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, goerr.Wrap(apperr.ErrStatusPageNotFound, "get failed", goerr.V("page_id", pageID))
		}
		return nil, apperr.Upstream(err, "failed to load status page")
	}

	return &page, nil
}

func (s *StatusPageService) List(workspaceID uint) ([]models.StatusPage, error) {
	var pages []models.StatusPage

	err := s.db.
		Preload("PageMonitors", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order")
		}).
		Preload("PageMonitors.Monitor").
		Where("workspace_id = ?", workspaceID).
		Order("name").
		Find(&pages).Error

	if err != nil {
		return nil, apperr.Upstream(err, "failed to list status pages")
	}

	return pages, nil
}

// PagesForMonitors finds enabled pages exposing at least one of the given
// monitors. The notification dispatcher uses this to build external
// status-page links.
func (s *StatusPageService) PagesForMonitors(monitorIDs []uint) ([]models.StatusPage, error) {
	if len(monitorIDs) == 0 {
		return nil, nil
	}

	var pageIDs []uint

	err := s.db.
		Model(&models.StatusPageMonitor{}).
		Where("monitor_id IN ?", monitorIDs).
		Distinct("status_page_id").
		Pluck("status_page_id", &pageIDs).Error

	if err != nil {
		return nil, apperr.Upstream(err, "failed to query page monitors")
	}

	if len(pageIDs) == 0 {
		return nil, nil
	}

	var pages []models.StatusPage

	if err := s.db.Where("id IN ? AND enabled = ?", pageIDs, true).Find(&pages).Error; err != nil {
		return nil, apperr.Upstream(err, "failed to load status pages")
	}

	return pages, nil
}

func (s *StatusPageService) publishChanged(page *models.StatusPage) {
	s.bus.Publish(domain.Event{
		Type:        domain.StatusPageChanged,
		WorkspaceID: page.WorkspaceID,
		PageID:      page.ID,
	})
}

// ensureNoOtherRoot runs inside the caller's transaction so two concurrent
// root-page writes cannot both pass the check.
func ensureNoOtherRoot(tx *gorm.DB, pageID uint) error {
	var existing models.StatusPage

	err := tx.Where("root = ?", true).First(&existing).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return apperr.Upstream(err, "failed to check root page")
	}

	if existing.ID != pageID {
		return goerr.Wrap(apperr.ErrDuplicateRootPage, "root page exists", goerr.V("page_id", existing.ID))
	}

	return nil
}

func (s *StatusPageService) insertPageMonitors(tx *gorm.DB, page *models.StatusPage, monitorIDs []uint) error {
	for idx, monitorID := range monitorIDs {
		link := models.StatusPageMonitor{
			StatusPageID: page.ID,
			MonitorID:    monitorID,
			Order:        idx,
		}

		if err := tx.Create(&link).Error; err != nil {
			return apperr.Upstream(err, "failed to link page monitor")
		}
	}

	return nil
}
