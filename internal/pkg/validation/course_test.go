package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/pkg/apperrors"
)

func validRecord() *models.CourseRecord {
	instructor := int64(3)
	return &models.CourseRecord{
		NRC:        "123456",
		Name:       "Cálculo Diferencial",
		Section:    "1",
		Days:       models.DaySet{models.Monday, models.Wednesday},
		StartTime:  "08:00",
		EndTime:    "09:30",
		Room:       "A101",
		Program:    models.ProgramComputerScienceEngineering,
		Instructor: &instructor,
		Credits:    "5",
	}
}

func TestValidateCourse_Valid(t *testing.T) {
	res := ValidateCourse(validRecord(), false)
	assert.True(t, res.Valid())
	assert.Empty(t, res.Errors())
	assert.NoError(t, res.Err())

	res = ValidateCourse(validRecord(), true)
	assert.True(t, res.Valid())
}

func TestValidateCourse_SingleViolation(t *testing.T) {
	tests := []struct {
		field  string
		mutate func(r *models.CourseRecord)
	}{
		{FieldNRC, func(r *models.CourseRecord) { r.NRC = "12AB56" }},
		{FieldNRC, func(r *models.CourseRecord) { r.NRC = "12345" }},
		{FieldNRC, func(r *models.CourseRecord) { r.NRC = "  " }},
		{FieldName, func(r *models.CourseRecord) { r.Name = "Cálculo 2" }},
		{FieldName, func(r *models.CourseRecord) { r.Name = "Física-I" }},
		{FieldSection, func(r *models.CourseRecord) { r.Section = "0" }},
		{FieldSection, func(r *models.CourseRecord) { r.Section = "1000" }},
		{FieldSection, func(r *models.CourseRecord) { r.Section = "-1" }},
		{FieldDays, func(r *models.CourseRecord) { r.Days = models.DaySet{} }},
		{FieldStartTime, func(r *models.CourseRecord) { r.StartTime = "" }},
		{FieldEndTime, func(r *models.CourseRecord) { r.EndTime = "25:00" }},
		{FieldRoom, func(r *models.CourseRecord) { r.Room = "Aula #3" }},
		{FieldRoom, func(r *models.CourseRecord) { r.Room = "Edificio Central 12" }},
		{FieldProgram, func(r *models.CourseRecord) { r.Program = "" }},
		{FieldProgram, func(r *models.CourseRecord) { r.Program = "Medicina" }},
		{FieldInstructor, func(r *models.CourseRecord) { r.Instructor = nil }},
		{FieldInstructor, func(r *models.CourseRecord) { zero := int64(0); r.Instructor = &zero }},
		{FieldCredits, func(r *models.CourseRecord) { r.Credits = "0" }},
		{FieldCredits, func(r *models.CourseRecord) { r.Credits = "100" }},
		{FieldCredits, func(r *models.CourseRecord) { r.Credits = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			rec := validRecord()
			tt.mutate(rec)
			res := ValidateCourse(rec, false)
			require.False(t, res.Valid())
			errs := res.Errors()
			assert.Len(t, errs, 1, "errors: %v", errs)
			assert.NotEmpty(t, errs[tt.field])
		})
	}
}

func TestValidateCourse_ReversedTimesFlagBoth(t *testing.T) {
	rec := validRecord()
	rec.StartTime, rec.EndTime = "10:00", "10:00"

	errs := ValidateCourse(rec, false).Errors()
	assert.Len(t, errs, 2)
	assert.Equal(t, "Start time must be earlier than end time.", errs[FieldStartTime])
	assert.Equal(t, "End time must be later than start time.", errs[FieldEndTime])
}

func TestValidateCourse_BlankRecord(t *testing.T) {
	res := ValidateCourse(models.NewCourseRecord(), false)
	errs := res.Errors()
	for _, field := range []string{
		FieldNRC, FieldName, FieldSection, FieldDays, FieldStartTime,
		FieldEndTime, FieldRoom, FieldProgram, FieldInstructor, FieldCredits,
	} {
		assert.Contains(t, errs, field)
	}
	assert.ErrorIs(t, res.Err(), apperrors.ErrValidationFailed)
	assert.Equal(t, errs, FieldErrors(apperrors.FieldsOf(res.Err())))

	assert.Equal(t, errs, ValidateCourse(nil, false).Errors())
}

func TestValidateCourse_RoomLengthCountsCharacters(t *testing.T) {
	rec := validRecord()
	rec.Room = "Salón Ñandú 123"
	assert.True(t, ValidateCourse(rec, false).Valid())
}

func TestResult_With(t *testing.T) {
	res := ValidateCourse(validRecord(), false)
	withDays := res.With(FieldDays, "unknown day")
	assert.True(t, res.Valid())
	assert.False(t, withDays.Valid())
	assert.Equal(t, "unknown day", withDays.Errors()[FieldDays])
}

func TestBuildCourse(t *testing.T) {
	rec := validRecord()
	rec.NRC = " 654321 "
	rec.Section = "02"
	rec.StartTime = "7:05"
	id := int64(9)
	rec.ID = &id

	course, res := BuildCourse(rec, true)
	require.True(t, res.Valid())
	assert.Equal(t, int64(9), course.ID)
	assert.Equal(t, "654321", course.NRC)
	assert.Equal(t, 2, course.Section)
	assert.Equal(t, "07:05", course.StartTime)
	assert.Equal(t, 5, course.Credits)
	assert.Equal(t, int64(3), course.InstructorID)

	rec.Days = rec.Days.Toggle(models.Friday, true)
	assert.Equal(t, "Monday,Wednesday", course.Days.String())

	rec.NRC = "bad"
	course, res = BuildCourse(rec, true)
	assert.Nil(t, course)
	assert.False(t, res.Valid())
}

func TestValidateCourse_RoomCharactersCheckedBeforeLength(t *testing.T) {
	rec := validRecord()
	rec.Room = "Aula #3 Edificio Central"

	errs := ValidateCourse(rec, false).Errors()
	assert.Len(t, errs, 1)
	assert.Equal(t, "Room may only contain letters, digits and spaces.", errs[FieldRoom])

	rec.Room = "Edificio Central 12"
	assert.Equal(t, "Room must not exceed 15 characters.", ValidateCourse(rec, false).Errors()[FieldRoom])
}

func TestValidateCourse_UnparseableTimeFlagsOnlyThatField(t *testing.T) {
	rec := validRecord()
	rec.StartTime = "8h"

	errs := ValidateCourse(rec, false).Errors()
	assert.Equal(t, FieldErrors{FieldStartTime: "Invalid start time format."}, errs)
}
