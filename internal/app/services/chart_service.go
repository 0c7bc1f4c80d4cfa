package services

import (
	"context"
	"time"

	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/app/models/dto"
	"github.com/yigit/materias/internal/pkg/cache"
	"github.com/yigit/materias/internal/pkg/logger"
)

// Cache keys of the chart payloads
const (
	coursesByProgramKey = "charts:courses-by-program"
	userSummaryKey      = "charts:user-summary"
)

// ChartService computes catalog statistics
type ChartService interface {
	CoursesByProgram(ctx context.Context) (*dto.CoursesByProgramResponse, error)
	UserSummary(ctx context.Context) (*dto.UserSummaryResponse, error)
	ChartInvalidator
}

type chartServiceImpl struct {
	courses  CourseStore
	accounts AccountStore
	cache    cache.Cache
	ttl      time.Duration
}

// NewChartService creates a chart service. Pass cache.Noop{} to disable caching.
func NewChartService(courses CourseStore, accounts AccountStore, c cache.Cache, ttl time.Duration) ChartService {
	return &chartServiceImpl{
		courses:  courses,
		accounts: accounts,
		cache:    c,
		ttl:      ttl,
	}
}

// cached serves key from the cache, or computes and stores it. Cache failures only cost a
// recomputation.
func cached[T any](ctx context.Context, s *chartServiceImpl, key string, compute func(context.Context) (*T, error)) (*T, error) {
	var hit T
	found, err := s.cache.GetJSON(ctx, key, &hit)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Chart cache read failed")
	}
	if found {
		return &hit, nil
	}

	value, err := compute(ctx)
	if err != nil {
		return nil, err
	}
	if err := s.cache.SetJSON(ctx, key, value, s.ttl); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Chart cache write failed")
	}
	return value, nil
}

func (s *chartServiceImpl) CoursesByProgram(ctx context.Context) (*dto.CoursesByProgramResponse, error) {
	return cached(ctx, s, coursesByProgramKey, s.computeCoursesByProgram)
}

func (s *chartServiceImpl) computeCoursesByProgram(ctx context.Context) (*dto.CoursesByProgramResponse, error) {
	counts, err := s.courses.CountByProgram(ctx)
	if err != nil {
		return nil, err
	}

	resp := &dto.CoursesByProgramResponse{Programs: make([]dto.ProgramCount, 0, len(models.Programs))}
	for _, p := range models.Programs {
		resp.Programs = append(resp.Programs, dto.ProgramCount{Program: p, Count: counts[p]})
		resp.Total += counts[p]
	}
	return resp, nil
}

func (s *chartServiceImpl) UserSummary(ctx context.Context) (*dto.UserSummaryResponse, error) {
	return cached(ctx, s, userSummaryKey, s.computeUserSummary)
}

func (s *chartServiceImpl) computeUserSummary(ctx context.Context) (*dto.UserSummaryResponse, error) {
	counts, err := s.accounts.CountByRole(ctx)
	if err != nil {
		return nil, err
	}
	return &dto.UserSummaryResponse{
		Admins:   counts[models.RoleAdmin],
		Teachers: counts[models.RoleTeacher],
		Students: counts[models.RoleStudent],
	}, nil
}

// InvalidateCharts drops the course statistics; the user summary only expires by ttl
func (s *chartServiceImpl) InvalidateCharts(ctx context.Context) {
	if err := s.cache.Delete(ctx, coursesByProgramKey); err != nil {
		logger.Warn().Err(err).Msg("Failed to invalidate chart cache")
	}
}
