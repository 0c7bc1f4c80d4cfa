package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yigit/materias/internal/app/controllers"
	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/app/models/dto"
	"github.com/yigit/materias/internal/middleware"
)

// Controllers groups the handlers mounted by SetupRouter
type Controllers struct {
	Auth       *controllers.AuthController
	Catalog    *controllers.CatalogController
	Course     *controllers.CourseController
	Instructor *controllers.InstructorController
	Chart      *controllers.ChartController
}

// SetupRouter configures all application routes
func SetupRouter(router *gin.Engine, ctrl Controllers, authMiddleware *middleware.AuthMiddleware) {
	// API version group
	v1 := router.Group("/api/v1")

	// --- Public routes ---
	v1.GET("/health", ctrl.Catalog.Health)
	v1.GET("/catalog/options", ctrl.Catalog.Options)

	auth := v1.Group("/auth")
	{
		auth.POST("/login", middleware.ValidateRequest[dto.LoginRequest](), ctrl.Auth.Login)
	}

	// --- Authenticated routes ---
	authenticated := v1.Group("")
	authenticated.Use(authMiddleware.JWTAuth())

	courses := authenticated.Group("/courses")
	{
		courses.GET("", middleware.ValidateQuery[dto.CourseFilterRequest](), ctrl.Course.ListCourses)
		courses.GET("/export", middleware.ValidateQuery[dto.CourseFilterRequest](), ctrl.Course.ExportCourses)
		courses.GET("/:id", ctrl.Course.GetCourse)
		courses.POST("/validate", ctrl.Course.ValidateCourse)

		// Catalog writes are limited to administrators
		admin := courses.Group("")
		admin.Use(authMiddleware.RoleRequired(models.RoleAdmin))
		{
			admin.POST("", ctrl.Course.CreateCourse)
			admin.PUT("/:id", ctrl.Course.UpdateCourse)
			admin.DELETE("/:id", ctrl.Course.DeleteCourse)
		}
	}

	instructors := authenticated.Group("/instructors")
	{
		instructors.GET("", ctrl.Instructor.ListInstructors)
		instructors.GET("/:id", ctrl.Instructor.GetInstructorByID)
	}

	charts := authenticated.Group("/charts")
	{
		charts.GET("/courses-by-program", ctrl.Chart.CoursesByProgram)
		charts.GET("/user-summary", ctrl.Chart.UserSummary)
	}

	router.NoRoute(func(c *gin.Context) {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeResourceNotFound, "Route not found")
		c.JSON(http.StatusNotFound, dto.NewErrorResponse(errorDetail))
	})
}
