package client

import (
	"context"

	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/pkg/apperrors"
	"github.com/yigit/materias/internal/pkg/helpers"
	"github.com/yigit/materias/internal/pkg/validation"
)

// CourseSubmitter stores a validated record. *Client implements it.
type CourseSubmitter interface {
	CreateCourse(ctx context.Context, rec *models.CourseRecord) (*models.Course, error)
	UpdateCourse(ctx context.Context, id int64, rec *models.CourseRecord) (*models.Course, error)
}

var _ CourseSubmitter = (*Client)(nil)

// CourseForm is one entry or edit session of a course. The record holds 24h times; the
// picker values are kept alongside in 12h form.
type CourseForm struct {
	Record      *models.CourseRecord
	StartTime12 string
	EndTime12   string

	errs validation.FieldErrors
}

// NewCourseForm starts an entry session with a blank record
func NewCourseForm() *CourseForm {
	return &CourseForm{Record: models.NewCourseRecord(), errs: validation.FieldErrors{}}
}

// EditCourseForm starts an edit session of a stored course
func EditCourseForm(course *models.Course) *CourseForm {
	return &CourseForm{
		Record:      course.Record(),
		StartTime12: helpers.To12Hour(course.StartTime),
		EndTime12:   helpers.To12Hour(course.EndTime),
		errs:        validation.FieldErrors{},
	}
}

// Editing reports whether the session edits an existing course
func (f *CourseForm) Editing() bool {
	return f.Record.ID != nil
}

// ToggleDay turns a day on or off
func (f *CourseForm) ToggleDay(day models.Weekday, on bool) {
	f.Record.Days = f.Record.Days.Toggle(day, on)
}

// IsDaySelected reports whether day is on
func (f *CourseForm) IsDaySelected(day models.Weekday) bool {
	return f.Record.Days.Contains(day)
}

// SetStartTime12 stores a picker value such as "01:05 PM"
func (f *CourseForm) SetStartTime12(value string) {
	f.StartTime12 = value
	f.Record.StartTime = helpers.To24Hour(value)
}

// SetEndTime12 stores a picker value such as "02:30 PM"
func (f *CourseForm) SetEndTime12(value string) {
	f.EndTime12 = value
	f.Record.EndTime = helpers.To24Hour(value)
}

// Validate runs the course rules and remembers the messages for Errors
func (f *CourseForm) Validate() validation.Result {
	res := validation.ValidateCourse(f.Record, f.Editing())
	f.errs = res.Errors()
	return res
}

// Errors returns the messages of the last validation or submit
func (f *CourseForm) Errors() validation.FieldErrors {
	out := make(validation.FieldErrors, len(f.errs))
	for k, v := range f.errs {
		out[k] = v
	}
	return out
}

// Submit validates the record and, only when it passes, creates or updates it. Field errors
// returned by the server (a taken NRC, an unknown instructor) are kept for Errors too.
func (f *CourseForm) Submit(ctx context.Context, s CourseSubmitter) (*models.Course, error) {
	res := f.Validate()
	if !res.Valid() {
		return nil, res.Err()
	}

	var (
		course *models.Course
		err    error
	)
	if f.Editing() {
		course, err = s.UpdateCourse(ctx, *f.Record.ID, f.Record)
	} else {
		course, err = s.CreateCourse(ctx, f.Record)
	}
	if err != nil {
		if fields := apperrors.FieldsOf(err); fields != nil {
			f.errs = fields
		}
		return nil, err
	}
	return course, nil
}
