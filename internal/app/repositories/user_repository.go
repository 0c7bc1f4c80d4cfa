package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/app/repositories/user"
)

// UserRepository combines all user-related repositories
type UserRepository struct {
	common     *user.Repository
	instructor *user.InstructorRepository
}

// NewUserRepository creates a new UserRepository
func NewUserRepository(db *pgxpool.Pool) *UserRepository {
	return &UserRepository{
		common:     user.NewRepository(db),
		instructor: user.NewInstructorRepository(db),
	}
}

// CreateUser creates a new user inside tx and sets its ID
func (r *UserRepository) CreateUser(ctx context.Context, tx pgx.Tx, u *models.User) error {
	id, err := r.common.CreateUser(ctx, tx, u)
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}

// GetByEmail retrieves a user by email
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.common.GetUserByEmail(ctx, email)
}

// GetByID retrieves a user by ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	return r.common.GetUserByID(ctx, id)
}

// CountByRole returns the number of active users per role
func (r *UserRepository) CountByRole(ctx context.Context) (map[models.RoleType]int, error) {
	return r.common.CountByRole(ctx)
}

// UpdateLastLogin updates the last login time
func (r *UserRepository) UpdateLastLogin(ctx context.Context, userID int64) error {
	return r.common.UpdateLastLogin(ctx, userID)
}

// CreateInstructor creates the instructor row of an existing user inside tx
func (r *UserRepository) CreateInstructor(ctx context.Context, tx pgx.Tx, instructor *models.Instructor) error {
	return r.instructor.CreateInstructor(ctx, tx, instructor)
}

// GetInstructorByID retrieves an instructor with user details
func (r *UserRepository) GetInstructorByID(ctx context.Context, id int64) (*models.Instructor, error) {
	return r.instructor.GetInstructorByID(ctx, id)
}

// ListInstructors retrieves every active instructor
func (r *UserRepository) ListInstructors(ctx context.Context) ([]*models.Instructor, error) {
	return r.instructor.ListInstructors(ctx)
}
