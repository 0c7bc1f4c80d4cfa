package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/app/models/dto"
	"github.com/yigit/materias/internal/app/repositories"
	"github.com/yigit/materias/internal/pkg/apperrors"
	"github.com/yigit/materias/internal/pkg/helpers"
	"github.com/yigit/materias/internal/pkg/logger"
	"github.com/yigit/materias/internal/pkg/validation"
)

// Messages reported on fields the store rejects
const (
	nrcTakenMessage          = "A course with this NRC already exists."
	unknownInstructorMessage = "The selected instructor does not exist."
)

// CourseService defines course catalog operations
type CourseService interface {
	CreateCourse(ctx context.Context, rec *models.CourseRecord) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, rec *models.CourseRecord) (*models.Course, error)
	GetCourse(ctx context.Context, id int64) (*models.Course, error)
	ListCourses(ctx context.Context, filter repositories.CourseFilter) (*dto.CourseListResponse, error)
	DeleteCourse(ctx context.Context, id int64) error
	ValidateCourse(ctx context.Context, rec *models.CourseRecord, editing bool) validation.Result
}

// ChartInvalidator drops cached statistics after catalog writes
type ChartInvalidator interface {
	InvalidateCharts(ctx context.Context)
}

type courseServiceImpl struct {
	store  CourseStore
	charts ChartInvalidator
}

// NewCourseService creates a new course service instance
func NewCourseService(store CourseStore, charts ChartInvalidator) CourseService {
	return &courseServiceImpl{
		store:  store,
		charts: charts,
	}
}

// storeError turns constraint errors from the store into field errors
func storeError(err error) error {
	switch {
	case errors.Is(err, repositories.ErrNRCTaken):
		return &apperrors.ValidationError{
			Fields: map[string]string{validation.FieldNRC: nrcTakenMessage},
			Kind:   apperrors.ErrConflict,
		}
	case errors.Is(err, repositories.ErrUnknownInstructor):
		return apperrors.NewFieldError(validation.FieldInstructor, unknownInstructorMessage)
	}
	return err
}

func validateID(id int64, what string) error {
	if id <= 0 {
		return fmt.Errorf("%w: %s ID must be positive", apperrors.ErrValidationFailed, what)
	}
	return nil
}

// reload fetches the stored course so joined fields are filled in
func (s *courseServiceImpl) reload(ctx context.Context, course *models.Course) *models.Course {
	stored, err := s.store.GetByID(ctx, course.ID)
	if err != nil {
		logger.Warn().Err(err).Int64("courseID", course.ID).Msg("Could not reload course after write")
		return course
	}
	return stored
}

func (s *courseServiceImpl) CreateCourse(ctx context.Context, rec *models.CourseRecord) (*models.Course, error) {
	course, res := validation.BuildCourse(rec, false)
	if !res.Valid() {
		return nil, res.Err()
	}
	course.ID = 0

	if err := s.store.Create(ctx, course); err != nil {
		return nil, storeError(err)
	}
	s.charts.InvalidateCharts(ctx)

	return s.reload(ctx, course), nil
}

func (s *courseServiceImpl) UpdateCourse(ctx context.Context, id int64, rec *models.CourseRecord) (*models.Course, error) {
	if err := validateID(id, "course"); err != nil {
		return nil, err
	}
	if rec == nil {
		rec = models.NewCourseRecord()
	}
	rec.ID = &id

	course, res := validation.BuildCourse(rec, true)
	if !res.Valid() {
		return nil, res.Err()
	}

	if err := s.store.Update(ctx, course); err != nil {
		return nil, storeError(err)
	}
	s.charts.InvalidateCharts(ctx)

	return s.reload(ctx, course), nil
}

func (s *courseServiceImpl) GetCourse(ctx context.Context, id int64) (*models.Course, error) {
	if err := validateID(id, "course"); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, id)
}

func (s *courseServiceImpl) ListCourses(ctx context.Context, filter repositories.CourseFilter) (*dto.CourseListResponse, error) {
	if filter.Program != "" && !filter.Program.IsValid() {
		return nil, apperrors.NewFieldError(validation.FieldProgram, "Academic program must be one of the offered programs.")
	}
	filter.Page, filter.PageSize = helpers.NormalizePage(filter.Page, filter.PageSize)

	courses, total, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	return &dto.CourseListResponse{
		Courses:    courses,
		Pagination: dto.NewPaginationInfo(filter.Page, filter.PageSize, total),
	}, nil
}

func (s *courseServiceImpl) DeleteCourse(ctx context.Context, id int64) error {
	if err := validateID(id, "course"); err != nil {
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		return err
	}
	s.charts.InvalidateCharts(ctx)
	return nil
}

func (s *courseServiceImpl) ValidateCourse(_ context.Context, rec *models.CourseRecord, editing bool) validation.Result {
	return validation.ValidateCourse(rec, editing)
}
