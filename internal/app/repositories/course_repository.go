package repositories

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/pkg/apperrors"
	"github.com/yigit/materias/internal/pkg/dberrors"
	"github.com/yigit/materias/internal/pkg/helpers"
	"github.com/yigit/materias/internal/pkg/logger"
)

// Course store errors
var (
	ErrNRCTaken          = apperrors.NewConflictError("a course with this NRC already exists")
	ErrUnknownInstructor = apperrors.NewBadRequestError("instructor does not exist")
)

const (
	courseNRCKey        = "courses_nrc_key"
	courseInstructorFK  = "courses_instructor_id_fkey"
	instructorNameQuery = "COALESCE(u.first_name || ' ' || u.last_name, '')"
)

// CourseFilter narrows a course listing. A PageSize of zero returns every match.
type CourseFilter struct {
	Program  models.Program
	Search   string
	Page     int
	PageSize int
}

// CourseRepository handles course database operations
type CourseRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewCourseRepository creates a new CourseRepository
func NewCourseRepository(db *pgxpool.Pool) *CourseRepository {
	return &CourseRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// mapWriteError turns constraint violations into store errors
func mapWriteError(err error) error {
	switch {
	case dberrors.IsDuplicateConstraintError(err, courseNRCKey):
		return ErrNRCTaken
	case dberrors.IsForeignKeyError(err, courseInstructorFK):
		return ErrUnknownInstructor
	}
	return err
}

// Create inserts a course and fills in its ID and timestamps
func (r *CourseRepository) Create(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Insert("courses").
		Columns("nrc", "name", "section", "days", "start_time", "end_time", "room", "program", "instructor_id", "credits").
		Values(course.NRC, course.Name, course.Section, course.Days.String(), course.StartTime, course.EndTime,
			course.Room, string(course.Program), course.InstructorID, course.Credits).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building create course SQL")
		return fmt.Errorf("failed to build create course query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.ID, &course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if mapped := mapWriteError(err); mapped != err {
			logger.Warn().Err(err).Str("nrc", course.NRC).Msg("Course insert rejected by constraint")
			return mapped
		}
		logger.Error().Err(err).Str("nrc", course.NRC).Msg("Error executing create course query")
		return fmt.Errorf("error creating course: %w", err)
	}

	logger.Info().Int64("courseID", course.ID).Str("nrc", course.NRC).Msg("Course created successfully")
	return nil
}

// Update replaces every editable column of the course with the given ID
func (r *CourseRepository) Update(ctx context.Context, course *models.Course) error {
	sql, args, err := r.sb.Update("courses").
		SetMap(map[string]interface{}{
			"nrc":           course.NRC,
			"name":          course.Name,
			"section":       course.Section,
			"days":          course.Days.String(),
			"start_time":    course.StartTime,
			"end_time":      course.EndTime,
			"room":          course.Room,
			"program":       string(course.Program),
			"instructor_id": course.InstructorID,
			"credits":       course.Credits,
			"updated_at":    squirrel.Expr("NOW()"),
		}).
		Where(squirrel.Eq{"id": course.ID}).
		Suffix("RETURNING created_at, updated_at").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building update course SQL")
		return fmt.Errorf("failed to build update course query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&course.CreatedAt, &course.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrCourseNotFound
		}
		if mapped := mapWriteError(err); mapped != err {
			logger.Warn().Err(err).Int64("courseID", course.ID).Msg("Course update rejected by constraint")
			return mapped
		}
		logger.Error().Err(err).Int64("courseID", course.ID).Msg("Error executing update course query")
		return fmt.Errorf("error updating course: %w", err)
	}

	logger.Info().Int64("courseID", course.ID).Msg("Course updated successfully")
	return nil
}

func (r *CourseRepository) baseSelect(columns ...string) squirrel.SelectBuilder {
	return r.sb.Select(columns...).
		From("courses c").
		LeftJoin("instructors i ON c.instructor_id = i.id").
		LeftJoin("users u ON i.user_id = u.id")
}

var courseColumns = []string{
	"c.id", "c.nrc", "c.name", "c.section", "c.days", "c.start_time", "c.end_time",
	"c.room", "c.program", "c.instructor_id", instructorNameQuery, "c.credits",
	"c.created_at", "c.updated_at",
}

func scanCourse(row pgx.Row) (*models.Course, error) {
	var course models.Course
	var days, program string
	err := row.Scan(
		&course.ID, &course.NRC, &course.Name, &course.Section, &days,
		&course.StartTime, &course.EndTime, &course.Room, &program,
		&course.InstructorID, &course.InstructorName, &course.Credits,
		&course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	course.Program = models.Program(program)
	course.InstructorName = strings.TrimSpace(course.InstructorName)
	if course.Days, err = models.ParseDaySet(days); err != nil {
		return nil, fmt.Errorf("course %d has corrupt days %q: %w", course.ID, days, err)
	}
	return &course, nil
}

// GetByID retrieves a course with its instructor name
func (r *CourseRepository) GetByID(ctx context.Context, id int64) (*models.Course, error) {
	sql, args, err := r.baseSelect(courseColumns...).
		Where(squirrel.Eq{"c.id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building get course SQL")
		return nil, fmt.Errorf("failed to build get course query: %w", err)
	}

	course, err := scanCourse(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrCourseNotFound
		}
		logger.Error().Err(err).Int64("courseID", id).Msg("Error scanning course row")
		return nil, fmt.Errorf("error retrieving course: %w", err)
	}
	return course, nil
}

// filterCondition builds the WHERE clause shared by the list and count queries
func filterCondition(filter CourseFilter) squirrel.And {
	where := squirrel.And{}
	if filter.Program != "" {
		where = append(where, squirrel.Eq{"c.program": string(filter.Program)})
	}
	if search := strings.TrimSpace(filter.Search); search != "" {
		like := "%" + search + "%"
		where = append(where, squirrel.Or{
			squirrel.ILike{"c.nrc": like},
			squirrel.ILike{"c.name": like},
			squirrel.ILike{"c.room": like},
			squirrel.Expr(instructorNameQuery+" ILIKE ?", like),
		})
	}
	return where
}

// List retrieves the courses matching filter ordered by name and section, plus the total match count
func (r *CourseRepository) List(ctx context.Context, filter CourseFilter) ([]models.Course, int, error) {
	where := filterCondition(filter)

	countSql, countArgs, err := r.baseSelect("COUNT(*)").Where(where).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count courses SQL")
		return nil, 0, fmt.Errorf("failed to build count courses query: %w", err)
	}

	var total int
	if err := r.db.QueryRow(ctx, countSql, countArgs...).Scan(&total); err != nil {
		logger.Error().Err(err).Msg("Error executing count courses query")
		return nil, 0, fmt.Errorf("failed to count courses: %w", err)
	}
	if total == 0 {
		return []models.Course{}, 0, nil
	}

	query := r.baseSelect(courseColumns...).Where(where).OrderBy("c.name ASC", "c.section ASC", "c.id ASC")
	if filter.PageSize > 0 {
		offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)
		query = query.Limit(limit).Offset(offset)
	}

	sql, args, err := query.ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building list courses SQL")
		return nil, 0, fmt.Errorf("failed to build list courses query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing list courses query")
		return nil, 0, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	courses := []models.Course{}
	for rows.Next() {
		course, err := scanCourse(rows)
		if err != nil {
			logger.Error().Err(err).Msg("Error scanning course row")
			return nil, 0, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, *course)
	}
	if err := rows.Err(); err != nil {
		logger.Error().Err(err).Msg("Error iterating course rows")
		return nil, 0, fmt.Errorf("error iterating courses: %w", err)
	}

	return courses, total, nil
}

// Delete removes a course
func (r *CourseRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("courses").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building delete course SQL")
		return fmt.Errorf("failed to build delete course query: %w", err)
	}

	tag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Int64("courseID", id).Msg("Error executing delete course query")
		return fmt.Errorf("error deleting course: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperrors.ErrCourseNotFound
	}

	logger.Info().Int64("courseID", id).Msg("Course deleted successfully")
	return nil
}

// CountByProgram returns the number of courses stored for each program
func (r *CourseRepository) CountByProgram(ctx context.Context) (map[models.Program]int, error) {
	sql, args, err := r.sb.Select("program", "COUNT(*)").
		From("courses").
		GroupBy("program").
		ToSql()
	if err != nil {
		logger.Error().Err(err).Msg("Error building count by program SQL")
		return nil, fmt.Errorf("failed to build count by program query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		logger.Error().Err(err).Msg("Error executing count by program query")
		return nil, fmt.Errorf("failed to count courses by program: %w", err)
	}
	defer rows.Close()

	counts := make(map[models.Program]int, len(models.Programs))
	for rows.Next() {
		var program string
		var n int
		if err := rows.Scan(&program, &n); err != nil {
			return nil, fmt.Errorf("failed to scan program count: %w", err)
		}
		counts[models.Program(program)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating program counts: %w", err)
	}
	return counts, nil
}
