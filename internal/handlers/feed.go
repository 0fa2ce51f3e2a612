package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/statuscore-dev/statuscore/internal/services"
)

type FeedHandler struct {
	feeds *services.FeedService
}

func NewFeedHandler(feeds *services.FeedService) *FeedHandler {
	return &FeedHandler{feeds: feeds}
}

// Serve renders the status page feed. The page is resolved from the
// domain query parameter, falling back to the root page when absent.
func (h *FeedHandler) Serve(ctx *gin.Context) {
	kind := ctx.Param("type")
	domain := ctx.Query("domain")

	page, err := h.feeds.FindByDomain(domain)

	if err != nil {
		respondError(ctx, err)
		return
	}

	body, err := h.feeds.Build(page, kind)

	if err != nil {
		respondError(ctx, err)
		return
	}

	contentType := "application/rss+xml; charset=utf-8"
	if kind == services.FeedKindAtom {
		contentType = "application/atom+xml; charset=utf-8"
	}

	ctx.Data(http.StatusOK, contentType, []byte(body))
}
