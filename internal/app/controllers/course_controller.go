package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/app/models/dto"
	"github.com/yigit/materias/internal/app/repositories"
	"github.com/yigit/materias/internal/app/services"
	"github.com/yigit/materias/internal/middleware"
	"github.com/yigit/materias/internal/pkg/validation"
)

// xlsxContentType is the media type of an xlsx workbook
const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// CourseController handles course catalog operations
type CourseController struct {
	courseService services.CourseService
	exportService services.ExportService
}

// NewCourseController creates a new course controller
func NewCourseController(courseService services.CourseService, exportService services.ExportService) *CourseController {
	return &CourseController{
		courseService: courseService,
		exportService: exportService,
	}
}

// bindCourse reads a course body. When the days value cannot be parsed, res holds every field
// error of the record with the days message in place. ok is false once a response was written.
func (c *CourseController) bindCourse(ctx *gin.Context, editing bool) (rec *models.CourseRecord, res *validation.Result, ok bool) {
	var req dto.CourseRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
		return nil, nil, false
	}

	rec, daysErr := req.Record()
	if daysErr == "" {
		return rec, nil, true
	}
	withDays := c.courseService.ValidateCourse(ctx.Request.Context(), rec, editing).With(validation.FieldDays, daysErr)
	return rec, &withDays, true
}

// courseFilter reads the list query bound by middleware.ValidateQuery
func courseFilter(ctx *gin.Context) (repositories.CourseFilter, bool) {
	query, ok := middleware.ValidatedBody[dto.CourseFilterRequest](ctx)
	if !ok {
		query = &dto.CourseFilterRequest{}
		if err := ctx.ShouldBindQuery(query); err != nil {
			ctx.JSON(http.StatusBadRequest, dto.NewErrorResponse(dto.HandleValidationError(err)))
			return repositories.CourseFilter{}, false
		}
	}
	return repositories.CourseFilter{
		Program:  models.Program(query.Program),
		Search:   query.Search,
		Page:     query.Page,
		PageSize: query.PageSize,
	}, true
}

// ListCourses lists courses
// @Summary List courses
// @Description Lists courses with optional program filter, free text search and paging
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param program query string false "Academic program"
// @Param search query string false "Matches NRC, name, room or instructor name"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(20)
// @Success 200 {object} dto.APIResponse{data=dto.CourseListResponse} "Courses retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid query"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses [get]
func (c *CourseController) ListCourses(ctx *gin.Context) {
	filter, ok := courseFilter(ctx)
	if !ok {
		return
	}

	list, err := c.courseService.ListCourses(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(list, "Courses retrieved successfully"))
}

// GetCourse retrieves a course by ID
// @Summary Get course by ID
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course retrieved successfully"
// @Failure 400 {object} dto.ErrorResponse "Invalid course ID"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [get]
func (c *CourseController) GetCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}

	course, err := c.courseService.GetCourse(ctx.Request.Context(), id)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course, "Course retrieved successfully"))
}

// CreateCourse creates a new course
// @Summary Create course
// @Description Validates and stores a new course. Field errors are returned in error.details.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CourseRequest true "Course"
// @Success 201 {object} dto.APIResponse{data=models.Course} "Course created successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 409 {object} dto.ErrorResponse "NRC already exists"
// @Router /courses [post]
func (c *CourseController) CreateCourse(ctx *gin.Context) {
	rec, res, ok := c.bindCourse(ctx, false)
	if !ok {
		return
	}
	if res != nil {
		middleware.HandleAPIError(ctx, res.Err())
		return
	}

	course, err := c.courseService.CreateCourse(ctx.Request.Context(), rec)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, dto.NewSuccessResponse(course, "Course created successfully"))
}

// UpdateCourse replaces a course
// @Summary Update course
// @Description Validates and stores the course. The ID in the path wins over any ID in the body.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body dto.CourseRequest true "Course"
// @Success 200 {object} dto.APIResponse{data=models.Course} "Course updated successfully"
// @Failure 400 {object} dto.ErrorResponse "Validation failed"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Failure 409 {object} dto.ErrorResponse "NRC already exists"
// @Router /courses/{id} [put]
func (c *CourseController) UpdateCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}
	rec, res, ok := c.bindCourse(ctx, true)
	if !ok {
		return
	}
	if res != nil {
		middleware.HandleAPIError(ctx, res.Err())
		return
	}

	course, err := c.courseService.UpdateCourse(ctx.Request.Context(), id, rec)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(course, "Course updated successfully"))
}

// DeleteCourse deletes a course
// @Summary Delete course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} dto.APIResponse "Course deleted successfully"
// @Failure 403 {object} dto.ErrorResponse "Admin role required"
// @Failure 404 {object} dto.ErrorResponse "Course not found"
// @Router /courses/{id} [delete]
func (c *CourseController) DeleteCourse(ctx *gin.Context) {
	id, ok := parseIDParam(ctx, "id", "course")
	if !ok {
		return
	}

	if err := c.courseService.DeleteCourse(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(nil, "Course deleted successfully"))
}

// ValidateCourse runs the course rules without storing anything
// @Summary Validate course
// @Description Returns the field errors of a course record. Never persists.
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param editing query bool false "Validate as an edit of an existing course"
// @Param request body dto.CourseRequest true "Course"
// @Success 200 {object} dto.APIResponse{data=dto.ValidationResponse} "Validation completed"
// @Failure 400 {object} dto.ErrorResponse "Malformed body"
// @Router /courses/validate [post]
func (c *CourseController) ValidateCourse(ctx *gin.Context) {
	editing, _ := strconv.ParseBool(ctx.Query("editing"))
	rec, res, ok := c.bindCourse(ctx, editing)
	if !ok {
		return
	}
	if res == nil {
		r := c.courseService.ValidateCourse(ctx.Request.Context(), rec, editing)
		res = &r
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.ValidationResponse{
		Valid:  res.Valid(),
		Errors: res.Errors(),
	}, "Validation completed"))
}

// ExportCourses downloads the catalog as a spreadsheet
// @Summary Export courses
// @Description Downloads every course matching the filters as an xlsx workbook. Paging is ignored.
// @Tags courses
// @Produce application/vnd.openxmlformats-officedocument.spreadsheetml.sheet
// @Security BearerAuth
// @Param program query string false "Academic program"
// @Param search query string false "Free text search"
// @Success 200 {file} file "Workbook"
// @Failure 500 {object} dto.ErrorResponse "Internal server error"
// @Router /courses/export [get]
func (c *CourseController) ExportCourses(ctx *gin.Context) {
	filter, ok := courseFilter(ctx)
	if !ok {
		return
	}

	buf, filename, err := c.exportService.ExportCourses(ctx.Request.Context(), filter)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	ctx.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
