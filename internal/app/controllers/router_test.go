package controllers_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yigit/materias/internal/app/controllers"
	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/app/models/dto"
	"github.com/yigit/materias/internal/app/repositories"
	"github.com/yigit/materias/internal/app/routes"
	"github.com/yigit/materias/internal/middleware"
	"github.com/yigit/materias/internal/pkg/apperrors"
	"github.com/yigit/materias/internal/pkg/auth"
	"github.com/yigit/materias/internal/pkg/validation"
)

// stubCourseService validates like the real service and stores into a map
type stubCourseService struct {
	courses    map[int64]*models.Course
	created    []*models.CourseRecord
	lastFilter repositories.CourseFilter
	createErr  error
}

func (s *stubCourseService) CreateCourse(_ context.Context, rec *models.CourseRecord) (*models.Course, error) {
	s.created = append(s.created, rec)
	course, res := validation.BuildCourse(rec, false)
	if !res.Valid() {
		return nil, res.Err()
	}
	if s.createErr != nil {
		return nil, s.createErr
	}
	course.ID = int64(len(s.courses) + 1)
	s.courses[course.ID] = course
	return course, nil
}

func (s *stubCourseService) UpdateCourse(_ context.Context, id int64, rec *models.CourseRecord) (*models.Course, error) {
	if _, ok := s.courses[id]; !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	course, res := validation.BuildCourse(rec, true)
	if !res.Valid() {
		return nil, res.Err()
	}
	course.ID = id
	s.courses[id] = course
	return course, nil
}

func (s *stubCourseService) GetCourse(_ context.Context, id int64) (*models.Course, error) {
	c, ok := s.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	return c, nil
}

func (s *stubCourseService) ListCourses(_ context.Context, filter repositories.CourseFilter) (*dto.CourseListResponse, error) {
	s.lastFilter = filter
	out := []models.Course{}
	for _, c := range s.courses {
		out = append(out, *c)
	}
	return &dto.CourseListResponse{Courses: out, Pagination: dto.NewPaginationInfo(filter.Page, filter.PageSize, len(out))}, nil
}

func (s *stubCourseService) DeleteCourse(_ context.Context, id int64) error {
	if _, ok := s.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(s.courses, id)
	return nil
}

func (s *stubCourseService) ValidateCourse(_ context.Context, rec *models.CourseRecord, editing bool) validation.Result {
	return validation.ValidateCourse(rec, editing)
}

type stubExportService struct {
	lastFilter repositories.CourseFilter
}

func (s *stubExportService) ExportCourses(_ context.Context, filter repositories.CourseFilter) (*bytes.Buffer, string, error) {
	s.lastFilter = filter
	return bytes.NewBufferString("xlsx"), "materias_20240101.xlsx", nil
}

type stubInstructorService struct{}

func (stubInstructorService) ListInstructors(context.Context) ([]dto.InstructorResponse, error) {
	return []dto.InstructorResponse{{ID: 3, FullName: "Ana López"}}, nil
}

func (stubInstructorService) GetInstructor(_ context.Context, id int64) (*dto.InstructorResponse, error) {
	if id != 3 {
		return nil, apperrors.ErrInstructorNotFound
	}
	return &dto.InstructorResponse{ID: 3, FullName: "Ana López"}, nil
}

type stubChartService struct{}

func (stubChartService) CoursesByProgram(context.Context) (*dto.CoursesByProgramResponse, error) {
	return &dto.CoursesByProgramResponse{Total: 0}, nil
}

func (stubChartService) UserSummary(context.Context) (*dto.UserSummaryResponse, error) {
	return &dto.UserSummaryResponse{Admins: 1}, nil
}

func (stubChartService) InvalidateCharts(context.Context) {}

type stubAuthService struct{}

func (stubAuthService) Login(_ context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if req.Password != "secret123" {
		return nil, apperrors.ErrInvalidCredentials
	}
	return &dto.AuthResponse{Token: dto.TokenResponse{AccessToken: "t", TokenType: "Bearer"}}, nil
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error { return p.err }

type testAPI struct {
	router  *gin.Engine
	courses *stubCourseService
	export  *stubExportService
	jwt     *auth.JWTService
}

func newTestAPI(t *testing.T, pingErr error) *testAPI {
	t.Helper()
	gin.SetMode(gin.TestMode)
	binding.Validator = validation.GinValidator{}

	api := &testAPI{
		router:  gin.New(),
		courses: &stubCourseService{courses: map[int64]*models.Course{}},
		export:  &stubExportService{},
		jwt: auth.NewJWTService(auth.JWTConfig{
			SecretKey:      "test-secret",
			AccessTokenExp: time.Hour,
			TokenIssuer:    "materias.test",
		}),
	}

	routes.SetupRouter(api.router, routes.Controllers{
		Auth:       controllers.NewAuthController(stubAuthService{}, zerolog.Nop()),
		Catalog:    controllers.NewCatalogController(stubPinger{err: pingErr}),
		Course:     controllers.NewCourseController(api.courses, api.export),
		Instructor: controllers.NewInstructorController(stubInstructorService{}),
		Chart:      controllers.NewChartController(stubChartService{}),
	}, middleware.NewAuthMiddleware(api.jwt))
	return api
}

func (a *testAPI) token(t *testing.T, role models.RoleType) string {
	t.Helper()
	token, _, err := a.jwt.GenerateAccessToken(&models.User{ID: 1, Email: "user@school.mx", RoleType: role})
	require.NoError(t, err)
	return token
}

// do performs a request; role "" sends no token
func (a *testAPI) do(t *testing.T, method, path string, body interface{}, role models.RoleType) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if role != "" {
		req.Header.Set("Authorization", "Bearer "+a.token(t, role))
	}
	w := httptest.NewRecorder()
	a.router.ServeHTTP(w, req)
	return w
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code    string          `json:"code"`
		Details json.RawMessage `json:"details"`
	} `json:"error"`
}

func decode(t *testing.T, w *httptest.ResponseRecorder) envelope {
	t.Helper()
	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env), w.Body.String())
	return env
}

func fieldDetails(t *testing.T, env envelope) map[string]string {
	t.Helper()
	require.NotNil(t, env.Error)
	var fields map[string]string
	require.NoError(t, json.Unmarshal(env.Error.Details, &fields))
	return fields
}

func validBody() map[string]interface{} {
	return map[string]interface{}{
		"nrc":        "123456",
		"name":       "Cálculo",
		"section":    1,
		"days":       "Monday,Wednesday",
		"start_time": "08:00",
		"end_time":   "09:30",
		"room":       "A101",
		"program":    string(models.ProgramComputerScienceEngineering),
		"instructor": 3,
		"credits":    "5",
	}
}
