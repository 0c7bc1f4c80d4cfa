package middleware

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/materias/internal/app/models/dto"
	"github.com/yigit/materias/internal/pkg/apperrors"
)

func TestErrorStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
		code dto.ErrorCode
	}{
		{"field errors", apperrors.NewFieldError("nrc", "NRC is required."), http.StatusBadRequest, dto.ErrorCodeValidationFailed},
		{"conflict on field", &apperrors.ValidationError{Fields: map[string]string{"nrc": "taken"}, Kind: apperrors.ErrConflict}, http.StatusConflict, dto.ErrorCodeConflict},
		{"not found", apperrors.ErrCourseNotFound, http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"wrapped not found", fmt.Errorf("loading: %w", apperrors.ErrInstructorNotFound), http.StatusNotFound, dto.ErrorCodeResourceNotFound},
		{"plain conflict", apperrors.NewConflictError("email already in use"), http.StatusConflict, dto.ErrorCodeConflict},
		{"forbidden", apperrors.NewForbiddenError("no"), http.StatusForbidden, dto.ErrorCodeForbidden},
		{"credentials", apperrors.ErrInvalidCredentials, http.StatusUnauthorized, dto.ErrorCodeInvalidCredentials},
		{"disabled", apperrors.ErrAccountDisabled, http.StatusForbidden, dto.ErrorCodeForbidden},
		{"expired", apperrors.ErrTokenExpired, http.StatusUnauthorized, dto.ErrorCodeExpiredToken},
		{"bad request", apperrors.NewBadRequestError("bad"), http.StatusBadRequest, dto.ErrorCodeInvalidRequest},
		{"bad id", fmt.Errorf("%w: course ID must be positive", apperrors.ErrValidationFailed), http.StatusBadRequest, dto.ErrorCodeInvalidRequest},
		{"unknown", errors.New("boom"), http.StatusInternalServerError, dto.ErrorCodeInternalServer},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, detail := errorStatus(tt.err)
			assert.Equal(t, tt.want, status)
			assert.Equal(t, tt.code, detail.Code)
		})
	}
}

func TestHandleAPIError_WritesEnvelope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/v1/courses", nil)

	HandleAPIError(c, apperrors.NewValidationError(map[string]string{"days": "Select at least one day."}))

	require.Equal(t, http.StatusBadRequest, w.Code)
	var body struct {
		Success bool `json:"success"`
		Error   struct {
			Code     string            `json:"code"`
			Severity string            `json:"severity"`
			Details  map[string]string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.False(t, body.Success)
	assert.Equal(t, "VAL_001", body.Error.Code)
	assert.Equal(t, "ERROR", body.Error.Severity)
	assert.Equal(t, "Select at least one day.", body.Error.Details["days"])
}
