package controllers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/app/models/dto"
	"github.com/yigit/materias/internal/pkg/apperrors"
	"github.com/yigit/materias/internal/pkg/validation"
)

func TestCourseWrites_RequireAuthentication(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodPost, "/api/v1/courses", validBody(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Empty(t, api.courses.created)
}

func TestCourseWrites_RequireAdmin(t *testing.T) {
	api := newTestAPI(t, nil)
	api.courses.courses[1] = &models.Course{ID: 1}

	for _, role := range []models.RoleType{models.RoleTeacher, models.RoleStudent} {
		w := api.do(t, http.MethodPost, "/api/v1/courses", validBody(), role)
		assert.Equal(t, http.StatusForbidden, w.Code)

		w = api.do(t, http.MethodDelete, "/api/v1/courses/1", nil, role)
		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Equal(t, string(dto.ErrorCodeForbidden), decode(t, w).Error.Code)
	}
	assert.Empty(t, api.courses.created)
	assert.Contains(t, api.courses.courses, int64(1))

	w := api.do(t, http.MethodDelete, "/api/v1/courses/1", nil, models.RoleAdmin)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotContains(t, api.courses.courses, int64(1))
}

func TestCreateCourse_Created(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodPost, "/api/v1/courses", validBody(), models.RoleAdmin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	env := decode(t, w)
	assert.True(t, env.Success)
	var course models.Course
	require.NoError(t, json.Unmarshal(env.Data, &course))
	assert.Equal(t, "123456", course.NRC)
	assert.Equal(t, 1, course.Section)
	assert.Equal(t, "Monday,Wednesday", course.Days.String())

	require.Len(t, api.courses.created, 1)
	assert.Equal(t, models.NumericString("1"), api.courses.created[0].Section)
}

func TestCreateCourse_AcceptsDayList(t *testing.T) {
	api := newTestAPI(t, nil)
	body := validBody()
	body["days"] = []string{"Miércoles", "Lunes"}

	w := api.do(t, http.MethodPost, "/api/v1/courses", body, models.RoleAdmin)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	assert.Equal(t, "Wednesday,Monday", api.courses.created[0].Days.String())
}

func TestCreateCourse_FieldErrors(t *testing.T) {
	api := newTestAPI(t, nil)
	body := validBody()
	body["nrc"] = "12AB56"

	w := api.do(t, http.MethodPost, "/api/v1/courses", body, models.RoleAdmin)
	require.Equal(t, http.StatusBadRequest, w.Code)

	env := decode(t, w)
	assert.False(t, env.Success)
	assert.Equal(t, string(dto.ErrorCodeValidationFailed), env.Error.Code)
	assert.Equal(t, map[string]string{validation.FieldNRC: "NRC must be exactly 6 digits."}, fieldDetails(t, env))
}

func TestCreateCourse_UnknownDay(t *testing.T) {
	api := newTestAPI(t, nil)
	body := validBody()
	body["days"] = "Monday,Sunday"
	body["room"] = ""

	w := api.do(t, http.MethodPost, "/api/v1/courses", body, models.RoleAdmin)
	require.Equal(t, http.StatusBadRequest, w.Code)

	fields := fieldDetails(t, decode(t, w))
	assert.Equal(t, dto.UnknownDaysMessage, fields[validation.FieldDays])
	assert.Equal(t, "Room is required.", fields[validation.FieldRoom])
	assert.Len(t, fields, 2)
	assert.Empty(t, api.courses.created)
}

func TestCreateCourse_MalformedBody(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodPost, "/api/v1/courses", `{"nrc": `, models.RoleAdmin)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, string(dto.ErrorCodeInvalidRequest), decode(t, w).Error.Code)
}

func TestCreateCourse_DuplicateNRC(t *testing.T) {
	api := newTestAPI(t, nil)
	api.courses.createErr = &apperrors.ValidationError{
		Fields: map[string]string{validation.FieldNRC: "A course with this NRC already exists."},
		Kind:   apperrors.ErrConflict,
	}

	w := api.do(t, http.MethodPost, "/api/v1/courses", validBody(), models.RoleAdmin)
	require.Equal(t, http.StatusConflict, w.Code)

	env := decode(t, w)
	assert.Equal(t, string(dto.ErrorCodeConflict), env.Error.Code)
	assert.Contains(t, fieldDetails(t, env), validation.FieldNRC)
}

func TestCreateCourse_StoreFailure(t *testing.T) {
	api := newTestAPI(t, nil)
	api.courses.createErr = errors.New("connection reset")

	w := api.do(t, http.MethodPost, "/api/v1/courses", validBody(), models.RoleAdmin)
	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.NotContains(t, w.Body.String(), "connection reset")
}

func TestUpdateCourse(t *testing.T) {
	api := newTestAPI(t, nil)
	api.courses.courses[4] = &models.Course{ID: 4}

	w := api.do(t, http.MethodPut, "/api/v1/courses/4", validBody(), models.RoleAdmin)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "123456", api.courses.courses[4].NRC)

	w = api.do(t, http.MethodPut, "/api/v1/courses/5", validBody(), models.RoleAdmin)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = api.do(t, http.MethodPut, "/api/v1/courses/x", validBody(), models.RoleAdmin)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetCourse(t *testing.T) {
	api := newTestAPI(t, nil)
	api.courses.courses[2] = &models.Course{ID: 2, NRC: "222222"}

	w := api.do(t, http.MethodGet, "/api/v1/courses/2", nil, models.RoleStudent)
	require.Equal(t, http.StatusOK, w.Code)

	w = api.do(t, http.MethodGet, "/api/v1/courses/9", nil, models.RoleStudent)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, string(dto.ErrorCodeResourceNotFound), decode(t, w).Error.Code)

	w = api.do(t, http.MethodGet, "/api/v1/courses/0", nil, models.RoleStudent)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateCourse_Endpoint(t *testing.T) {
	api := newTestAPI(t, nil)
	body := validBody()
	body["start_time"] = "10:00"
	body["end_time"] = "09:00"

	w := api.do(t, http.MethodPost, "/api/v1/courses/validate", body, models.RoleTeacher)
	require.Equal(t, http.StatusOK, w.Code)

	var resp dto.ValidationResponse
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
	assert.False(t, resp.Valid)
	assert.Contains(t, resp.Errors, validation.FieldStartTime)
	assert.Contains(t, resp.Errors, validation.FieldEndTime)
	assert.Len(t, resp.Errors, 2)
	assert.Empty(t, api.courses.created)

	w = api.do(t, http.MethodPost, "/api/v1/courses/validate?editing=true", validBody(), models.RoleTeacher)
	require.NoError(t, json.Unmarshal(decode(t, w).Data, &resp))
	assert.True(t, resp.Valid)
}

func TestListCourses_Query(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodGet, "/api/v1/courses", nil, models.RoleStudent)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, 1, api.courses.lastFilter.Page)
	assert.Equal(t, 20, api.courses.lastFilter.PageSize)

	w = api.do(t, http.MethodGet, "/api/v1/courses?search=calc&page=2&size=5", nil, models.RoleStudent)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "calc", api.courses.lastFilter.Search)
	assert.Equal(t, 2, api.courses.lastFilter.Page)
	assert.Equal(t, 5, api.courses.lastFilter.PageSize)

	w = api.do(t, http.MethodGet, "/api/v1/courses?size=500", nil, models.RoleStudent)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldDetails(t, decode(t, w)), "size")

	w = api.do(t, http.MethodGet, "/api/v1/courses?program=Medicina", nil, models.RoleStudent)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, fieldDetails(t, decode(t, w)), "program")
}

func TestExportCourses_Endpoint(t *testing.T) {
	api := newTestAPI(t, nil)

	w := api.do(t, http.MethodGet, "/api/v1/courses/export?search=calc", nil, models.RoleStudent)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="materias_20240101.xlsx"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "calc", api.export.lastFilter.Search)
}
