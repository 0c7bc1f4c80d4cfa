package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/pkg/apperrors"
	"github.com/yigit/materias/internal/pkg/dberrors"
	"github.com/yigit/materias/internal/pkg/logger"
)

// InstructorRepository handles instructor database operations
type InstructorRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewInstructorRepository creates a new InstructorRepository
func NewInstructorRepository(db *pgxpool.Pool) *InstructorRepository {
	return &InstructorRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// CreateInstructor inserts the instructor row for an existing user inside tx
func (r *InstructorRepository) CreateInstructor(ctx context.Context, tx pgx.Tx, instructor *models.Instructor) error {
	sql, args, err := r.sb.Insert("instructors").
		Columns("user_id", "employee_number", "title").
		Values(instructor.UserID, instructor.EmployeeNumber, instructor.Title).
		Suffix("RETURNING id").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building create instructor SQL")
		return fmt.Errorf("failed to build create instructor query: %w", err)
	}

	if err := tx.QueryRow(ctx, sql, args...).Scan(&instructor.ID); err != nil {
		if dberrors.IsDuplicateConstraintError(err, "instructors_user_id_key") ||
			dberrors.IsDuplicateConstraintError(err, "instructors_employee_number_key") {
			logger.Warn().Int64("userID", instructor.UserID).Msg("Attempted to create duplicate instructor entry")
			return apperrors.NewConflictError("instructor entry for this user already exists")
		}
		logger.Error().Err(err).Int64("userID", instructor.UserID).Msg("Error executing create instructor query")
		return fmt.Errorf("error creating instructor: %w", err)
	}

	logger.Info().Int64("userID", instructor.UserID).Int64("instructorID", instructor.ID).Msg("Instructor created successfully")
	return nil
}

func (r *InstructorRepository) baseSelect() squirrel.SelectBuilder {
	return r.sb.Select(
		"i.id", "i.user_id", "i.employee_number", "i.title",
		"u.id", "u.first_name", "u.last_name", "u.email", "u.role_type", "u.is_active",
	).
		From("instructors i").
		Join("users u ON i.user_id = u.id")
}

func scanInstructor(row pgx.Row) (*models.Instructor, error) {
	instructor := &models.Instructor{User: &models.User{}}
	err := row.Scan(
		&instructor.ID,
		&instructor.UserID,
		&instructor.EmployeeNumber,
		&instructor.Title,
		&instructor.User.ID,
		&instructor.User.FirstName,
		&instructor.User.LastName,
		&instructor.User.Email,
		&instructor.User.RoleType,
		&instructor.User.IsActive,
	)
	return instructor, err
}

// GetInstructorByID retrieves an instructor with user details
func (r *InstructorRepository) GetInstructorByID(ctx context.Context, id int64) (*models.Instructor, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"i.id": id}).
		Limit(1).
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building get instructor by ID SQL")
		return nil, fmt.Errorf("failed to build get instructor query: %w", err)
	}

	instructor, err := scanInstructor(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			logger.Warn().Int64("instructorID", id).Msg("Instructor not found")
			return nil, apperrors.ErrInstructorNotFound
		}
		logger.Error().Err(err).Int64("instructorID", id).Msg("Error scanning instructor row")
		return nil, fmt.Errorf("error retrieving instructor: %w", err)
	}

	return instructor, nil
}

// ListInstructors retrieves every active instructor ordered by name
func (r *InstructorRepository) ListInstructors(ctx context.Context) ([]*models.Instructor, error) {
	sql, args, err := r.baseSelect().
		Where(squirrel.Eq{"u.is_active": true}).
		OrderBy("u.last_name", "u.first_name").
		ToSql()

	if err != nil {
		logger.Error().Err(err).Msg("Error building list instructors SQL")
		return nil, fmt.Errorf("failed to build list instructors query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list instructors query")
		return nil, fmt.Errorf("error querying instructors: %w", err)
	}
	defer rows.Close()

	instructors := []*models.Instructor{}
	for rows.Next() {
		instructor, err := scanInstructor(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning instructor row")
			return nil, fmt.Errorf("error scanning instructor: %w", err)
		}
		instructors = append(instructors, instructor)
	}

	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating instructor rows")
		return nil, fmt.Errorf("error iterating instructors: %w", err)
	}

	logger.Debug().Int("count", len(instructors)).Msg("Fetched instructors")
	return instructors, nil
}
