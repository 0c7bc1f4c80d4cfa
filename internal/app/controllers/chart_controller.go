package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/materias/internal/app/models/dto"
	"github.com/yigit/materias/internal/app/services"
	"github.com/yigit/materias/internal/middleware"
)

// ChartController serves catalog statistics
type ChartController struct {
	chartService services.ChartService
}

// NewChartController creates a new chart controller
func NewChartController(chartService services.ChartService) *ChartController {
	return &ChartController{chartService: chartService}
}

// CoursesByProgram returns the number of courses of each program
// @Summary Courses by program
// @Tags charts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.CoursesByProgramResponse} "Chart data retrieved successfully"
// @Router /charts/courses-by-program [get]
func (c *ChartController) CoursesByProgram(ctx *gin.Context) {
	resp, err := c.chartService.CoursesByProgram(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Chart data retrieved successfully"))
}

// UserSummary returns the number of active users of each role
// @Summary User summary
// @Tags charts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.UserSummaryResponse} "Chart data retrieved successfully"
// @Router /charts/user-summary [get]
func (c *ChartController) UserSummary(ctx *gin.Context) {
	resp, err := c.chartService.UserSummary(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}
	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(resp, "Chart data retrieved successfully"))
}
