package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/statuscore-dev/statuscore/internal/apperr"
)

// respondError translates a service error into its HTTP status and a
// uniform error body.
func respondError(ctx *gin.Context, err error) {
	ctx.JSON(apperr.HTTPStatus(err), gin.H{"error": err.Error()})
}
