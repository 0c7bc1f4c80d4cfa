package services

import (
	"context"

	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/app/repositories"
)

// Services defined in this package:
// - CourseService: course catalog writes, reads and dry-run validation
// - InstructorService: instructor directory
// - ChartService: cached catalog statistics
// - ExportService: spreadsheet export of the catalog
// - AuthService: login and access tokens

// CourseStore is the persistence the course services need
type CourseStore interface {
	Create(ctx context.Context, course *models.Course) error
	Update(ctx context.Context, course *models.Course) error
	GetByID(ctx context.Context, id int64) (*models.Course, error)
	List(ctx context.Context, filter repositories.CourseFilter) ([]models.Course, int, error)
	Delete(ctx context.Context, id int64) error
	CountByProgram(ctx context.Context) (map[models.Program]int, error)
}

// InstructorStore reads the instructor directory
type InstructorStore interface {
	GetInstructorByID(ctx context.Context, id int64) (*models.Instructor, error)
	ListInstructors(ctx context.Context) ([]*models.Instructor, error)
}

// AccountStore reads user accounts
type AccountStore interface {
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	UpdateLastLogin(ctx context.Context, userID int64) error
	CountByRole(ctx context.Context) (map[models.RoleType]int, error)
}

var (
	_ CourseStore     = (*repositories.CourseRepository)(nil)
	_ InstructorStore = (*repositories.UserRepository)(nil)
	_ AccountStore    = (*repositories.UserRepository)(nil)
)
