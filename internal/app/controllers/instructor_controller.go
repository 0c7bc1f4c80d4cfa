package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/materias/internal/app/models/dto"
	"github.com/yigit/materias/internal/app/services"
	"github.com/yigit/materias/internal/middleware"
)

// InstructorController handles instructor directory operations
type InstructorController struct {
	instructorService services.InstructorService
}

// NewInstructorController creates a new instructor controller
func NewInstructorController(instructorService services.InstructorService) *InstructorController {
	return &InstructorController{
		instructorService: instructorService,
	}
}

// ListInstructors lists the instructors a course can be assigned to
// @Summary List instructors
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} dto.APIResponse{data=dto.InstructorsResponse} "Instructors retrieved successfully"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /instructors [get]
func (c *InstructorController) ListInstructors(ctx *gin.Context) {
	instructors, err := c.instructorService.ListInstructors(ctx.Request.Context())
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.InstructorsResponse{Instructors: instructors}, "Instructors retrieved successfully"))
}

// GetInstructorByID retrieves instructor information by ID
// @Summary Get instructor by ID
// @Tags instructors
// @Produce json
// @Security BearerAuth
// @Param id path int true "Instructor ID" Format(int64)
// @Success 200 {object} dto.APIResponse{data=dto.InstructorResponse} "Instructor retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid Instructor ID format"
// @Failure 404 {object} dto.ErrorResponse "Instructor not found"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /instructors/{id} [get]
func (c *InstructorController) GetInstructorByID(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "instructor")
	if !ok {
		return
	}

	instructor, err := c.instructorService.GetInstructor(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(instructor, "Instructor retrieved successfully"))
}
