package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/pkg/apperrors"
)

func TestInstructorService(t *testing.T) {
	accounts := &fakeAccounts{instructors: map[int64]*models.Instructor{
		3: {ID: 3, UserID: 5, Title: "Dra.", EmployeeNumber: "MA-0042",
			User: &models.User{ID: 5, FirstName: "Ana", LastName: "López", Email: "ana.lopez@school.mx"}},
		4: {ID: 4, UserID: 6, EmployeeNumber: "MA-0043"},
	}}
	svc := NewInstructorService(accounts)
	ctx := context.Background()

	list, err := svc.ListInstructors(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Ana López", list[0].FullName)
	assert.Equal(t, "ana.lopez@school.mx", list[0].Email)
	assert.Empty(t, list[1].FullName)

	one, err := svc.GetInstructor(ctx, 3)
	require.NoError(t, err)
	assert.Equal(t, "MA-0042", one.EmployeeNumber)

	_, err = svc.GetInstructor(ctx, 9)
	assert.True(t, errors.Is(err, apperrors.ErrResourceNotFound))

	_, err = svc.GetInstructor(ctx, 0)
	assert.True(t, errors.Is(err, apperrors.ErrValidationFailed))
}
