package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/statuscore-dev/statuscore/internal/models"
	"github.com/statuscore-dev/statuscore/internal/notify"
	"github.com/statuscore-dev/statuscore/internal/services"
	"github.com/statuscore-dev/statuscore/internal/utils"
)

type ChannelHandler struct {
	channels   *services.ChannelService
	dispatcher *notify.Dispatcher
}

func NewChannelHandler(channels *services.ChannelService, dispatcher *notify.Dispatcher) *ChannelHandler {
	return &ChannelHandler{channels: channels, dispatcher: dispatcher}
}

type ChannelRequest struct {
	Name       string `json:"name" binding:"required"`
	Provider   string `json:"provider" binding:"required"`
	URL        string `json:"url"`
	Email      string `json:"email"`
	LinkMode   string `json:"link_mode" binding:"required"`
	MonitorIDs []uint `json:"monitor_ids" binding:"required"`
}

type TestWebhookRequest struct {
	Provider string `json:"provider" binding:"required"`
	URL      string `json:"url" binding:"required"`
}

type ChannelResponse struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Provider   string `json:"provider"`
	URL        string `json:"url"`
	Email      string `json:"email"`
	LinkMode   string `json:"link_mode"`
	MonitorIDs []uint `json:"monitor_ids"`
}

func toChannelResponse(channel *models.NotificationChannel) ChannelResponse {
	monitorIDs := make([]uint, 0, len(channel.Monitors))

	for _, m := range channel.Monitors {
		monitorIDs = append(monitorIDs, m.ID)
	}

	return ChannelResponse{
		ID:         channel.ID,
		Name:       channel.Name,
		Provider:   channel.Provider,
		URL:        channel.URL,
		Email:      channel.Email,
		LinkMode:   channel.LinkMode,
		MonitorIDs: monitorIDs,
	}
}

func channelInput(body ChannelRequest) services.ChannelInput {
	return services.ChannelInput{
		Name:       body.Name,
		Provider:   body.Provider,
		URL:        body.URL,
		Email:      body.Email,
		LinkMode:   body.LinkMode,
		MonitorIDs: body.MonitorIDs,
	}
}

func (h *ChannelHandler) Create(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return
	}

	var body ChannelRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	channel, err := h.channels.Create(workspaceID, channelInput(body))

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, toChannelResponse(channel))
}

func (h *ChannelHandler) List(ctx *gin.Context) {
	workspaceID, err := utils.GetWorkspaceID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid workspace ID"})
		return
	}

	channels, err := h.channels.ListByWorkspace(workspaceID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	response := make([]ChannelResponse, 0, len(channels))

	for i := range channels {
		response = append(response, toChannelResponse(&channels[i]))
	}

	ctx.JSON(http.StatusOK, gin.H{"channels": response})
}

func (h *ChannelHandler) Update(ctx *gin.Context) {
	channelID, err := utils.GetChannelID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel ID"})
		return
	}

	var body ChannelRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	channel, err := h.channels.Edit(channelID, channelInput(body))

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, toChannelResponse(channel))
}

func (h *ChannelHandler) Delete(ctx *gin.Context) {
	channelID, err := utils.GetChannelID(ctx)

	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid channel ID"})
		return
	}

	if err := h.channels.Delete(channelID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Channel deleted successfully"})
}

// TestWebhook fires the provider's canned test message at a candidate
// URL so operators can verify a webhook before saving the channel.
func (h *ChannelHandler) TestWebhook(ctx *gin.Context) {
	var body TestWebhookRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if err := h.dispatcher.TestWebhook(ctx.Request.Context(), body.Provider, body.URL); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"message": "Test message sent successfully"})
}
