package controllers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yigit/materias/internal/app/models/dto"
)

// Pinger checks that a backing store answers
type Pinger interface {
	Ping(ctx context.Context) error
}

// CatalogController serves public catalog metadata
type CatalogController struct {
	db Pinger
}

// NewCatalogController creates a new catalog controller
func NewCatalogController(db Pinger) *CatalogController {
	return &CatalogController{db: db}
}

// Options returns the programs and weekdays a course form offers
// @Summary Catalog options
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse{data=dto.CatalogOptionsResponse} "Options retrieved successfully"
// @Router /catalog/options [get]
func (c *CatalogController) Options(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.NewCatalogOptionsResponse(), "Options retrieved successfully"))
}

// Health reports whether the service and its database are up
// @Summary Health check
// @Tags catalog
// @Produce json
// @Success 200 {object} dto.APIResponse "Service is healthy"
// @Failure 503 {object} dto.ErrorResponse "Database unavailable"
// @Router /health [get]
func (c *CatalogController) Health(ctx *gin.Context) {
	pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
	defer cancel()

	if err := c.db.Ping(pingCtx); err != nil {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeDatabaseError, "Database unavailable")
		ctx.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(errorDetail))
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ok"}, "Service is healthy"))
}
