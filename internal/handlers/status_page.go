package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/services"
	"github.com/statuscore-dev/statuscore/internal/status"
	"github.com/statuscore-dev/statuscore/internal/utils"
)

// OverviewDays is how far back the public day-block tracker reaches.
const OverviewDays = 45

type StatusPageHandler struct {
	pages  *services.StatusPageService
	status *services.StatusService
	feeds  *services.FeedService
}

func NewStatusPageHandler(pages *services.StatusPageService, statusSvc *services.StatusService, feeds *services.FeedService) *StatusPageHandler {
	return &StatusPageHandler{pages: pages, status: statusSvc, feeds: feeds}
}

type StatusPageRequest struct {
	Name        string `json:"name" binding:"required"`
	Enabled     bool   `json:"enabled"`
	Root        bool   `json:"root"`
	Domain      string `json:"domain"`
	Description string `json:"description"`
	MonitorIDs  []uint `json:"monitor_ids" binding:"required"`
}

type PageMonitorResponse struct {
	MonitorID  uint   `json:"monitor_id"`
	Name       string `json:"name"`
	ShowUptime bool   `json:"show_uptime"`
	ShowPings  bool   `json:"show_pings"`
}

type StatusPageResponse struct {
	ID          uint                  `json:"id"`
	Name        string                `json:"name"`
	Enabled     bool                  `json:"enabled"`
	Root        bool                  `json:"root"`
	Domain      string                `json:"domain"`
	Description string                `json:"description"`
	Monitors    []PageMonitorResponse `json:"monitors"`
}

type DayBlockResponse struct {
	Date        time.Time `json:"date"`
	TotalPings  int       `json:"total_pings"`
	FailedPings int       `json:"failed_pings"`
	Downtime    int       `json:"downtime"`
	Variant     string    `json:"variant"`
}

type OverviewMonitorResponse struct {
	ID      uint               `json:"id"`
	Name    string             `json:"name"`
	Uptime  *float64           `json:"uptime_percentage,omitempty"`
	Days    []DayBlockResponse `json:"days,omitempty"`
	Variant string             `json:"variant"`
}

type OverviewResponse struct {
	Name        string                    `json:"name"`
	Description string                    `json:"description"`
	Status      string                    `json:"status"`
	Monitors    []OverviewMonitorResponse `json:"monitors"`
}

func toStatusPageResponse(page *models.StatusPage) StatusPageResponse {
	monitors := make([]PageMonitorResponse, 0, len(page.PageMonitors))

	for _, pm := range page.PageMonitors {
		monitors = append(monitors, PageMonitorResponse{
			MonitorID:  pm.MonitorID,
			Name:       pm.Monitor.Name,
			ShowUptime: pm.ShowUptime,
			ShowPings:  pm.ShowPings,
		})
	}

	domain := ""
	if page.Domain != nil {
		domain = *page.Domain
	}

	return StatusPageResponse{
		ID:          page.ID,
		Name:        page.Name,
		Enabled:     page.Enabled,
		Root:        page.Root,
		Domain:      domain,
		Description: page.Description,
		Monitors:    monitors,
	}
}

func pageInput(body StatusPageRequest) services.StatusPageInput {
	return services.StatusPageInput{
		Name:        body.Name,
		Enabled:     body.Enabled,
		Root:        body.Root,
		Domain:      body.Domain,
		Description: body.Description,
		MonitorIDs:  body.MonitorIDs,
	}
}

func (h *StatusPageHandler) Create(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return
	}

	var body StatusPageRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	page, err := h.pages.Create(workspaceID, pageInput(body))

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toStatusPageResponse(page))
}

func (h *StatusPageHandler) List(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return
	}

	pages, err := h.pages.List(workspaceID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]StatusPageResponse, 0, len(pages))

	for i := range pages {
		response = append(response, toStatusPageResponse(&pages[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"status_pages": response})
}

func (h *StatusPageHandler) Get(ctx *gin.Context) {
	pageID, err := utils.GetPageID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page ID"})
		return
	}

	page, err := h.pages.Get(pageID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toStatusPageResponse(page))
}

func (h *StatusPageHandler) Update(ctx *gin.Context) {
	pageID, err := utils.GetPageID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page ID"})
		return
	}

	var body StatusPageRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	page, err := h.pages.Edit(pageID, pageInput(body))

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toStatusPageResponse(page))
}

func (h *StatusPageHandler) Delete(ctx *gin.Context) {
	pageID, err := utils.GetPageID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page ID"})
		return
	}

	if err := h.pages.Delete(pageID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Status page deleted successfully"})
}

// Overview serves the public view of a status page: the page banner
// status plus per-monitor uptime and day blocks. Disabled pages are not
// served.
func (h *StatusPageHandler) Overview(ctx *gin.Context) {
	domain := ctx.Query("domain")

	page, err := h.feeds.FindByDomain(domain)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response, err := h.overview(page)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

// AdminOverview serves the same aggregation for a page by ID, used for
// previewing a page before it is enabled.
func (h *StatusPageHandler) AdminOverview(ctx *gin.Context) {
	pageID, err := utils.GetPageID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page ID"})
		return
	}

	page, err := h.pages.Get(pageID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response, err := h.overview(page)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, response)
}

func (h *StatusPageHandler) overview(page *models.StatusPage) (*OverviewResponse, error) {
	variant, err := h.status.PageVariant(page)

	if err != nil {
		return nil, err
	}

	monitors, err := h.status.PageOverview(page, OverviewDays, time.Now())

	if err != nil {
		return nil, err
	}

	response := OverviewResponse{
		Name:        page.Name,
		Description: page.Description,
		Status:      variant,
		Monitors:    make([]OverviewMonitorResponse, 0, len(monitors)),
	}

	// PageOverview preserves the page's monitor order, so entries line
	// up with PageMonitors by index.
	for i, ms := range monitors {
		pm := page.PageMonitors[i]

		entry := OverviewMonitorResponse{
			ID:   ms.Monitor.ID,
			Name: ms.Monitor.Name,
		}

		if pm.ShowUptime {
			uptime := ms.Uptime
			entry.Uptime = &uptime
		}

		if pm.ShowPings {
			entry.Days = make([]DayBlockResponse, 0, len(ms.Days))

			for _, day := range ms.Days {
				entry.Days = append(entry.Days, DayBlockResponse{
					Date:        day.Date,
					TotalPings:  day.TotalPings,
					FailedPings: day.FailedPings,
					Downtime:    day.Downtime,
					Variant:     status.BlockVariant(day),
				})
			}
		}

		if len(ms.Days) > 0 {
			entry.Variant = status.BlockVariant(ms.Days[len(ms.Days)-1])
		} else {
			entry.Variant = status.VariantEmpty
		}

		response.Monitors = append(response.Monitors, entry)
	}

	return &response, nil
}
