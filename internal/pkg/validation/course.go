package validation

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/pkg/apperrors"
	"github.com/yigit/materias/internal/pkg/helpers"
)

// Course field names, as used in JSON payloads and error maps.
const (
	FieldNRC        = "nrc"
	FieldName       = "name"
	FieldSection    = "section"
	FieldDays       = "days"
	FieldStartTime  = "start_time"
	FieldEndTime    = "end_time"
	FieldRoom       = "room"
	FieldProgram    = "program"
	FieldInstructor = "instructor"
	FieldCredits    = "credits"
)

// FieldErrors maps a field name to the single message describing why it was rejected.
type FieldErrors map[string]string

// Result is the outcome of validating a record: either valid, or invalid with at least one
// field error.
type Result struct {
	errs FieldErrors
}

// Valid reports whether no rule was violated.
func (r Result) Valid() bool {
	return len(r.errs) == 0
}

// Errors returns a copy of the field errors. It is empty for a valid result.
func (r Result) Errors() FieldErrors {
	out := make(FieldErrors, len(r.errs))
	for k, v := range r.errs {
		out[k] = v
	}
	return out
}

// Err returns nil for a valid result and an *apperrors.ValidationError otherwise.
func (r Result) Err() error {
	if r.Valid() {
		return nil
	}
	return apperrors.NewValidationError(r.Errors())
}

// With returns a copy of r with an extra (or replaced) field error.
func (r Result) With(field, message string) Result {
	errs := r.Errors()
	errs[field] = message
	return Result{errs: errs}
}

// ValidateCourse checks every field of rec and reports one message per rejected field.
// editing marks an update of an existing course; the rules are the same for both.
func ValidateCourse(rec *models.CourseRecord, editing bool) Result {
	errs := FieldErrors{}
	if rec == nil {
		rec = models.NewCourseRecord()
	}
	_ = editing

	switch NewStringValidation(rec.NRC).WithPattern(CompiledPatterns.NRC).Check() {
	case Missing:
		errs[FieldNRC] = "NRC is required."
	case BadPattern:
		errs[FieldNRC] = "NRC must be exactly 6 digits."
	}
	// NRC uniqueness is enforced by the store.

	switch NewStringValidation(rec.Name).WithPattern(CompiledPatterns.CourseName).Check() {
	case Missing:
		errs[FieldName] = "Course name is required."
	case BadPattern:
		errs[FieldName] = "Course name may only contain letters and spaces, without digits or special characters."
	}

	if msg := checkPositive(string(rec.Section), CompiledPatterns.Section,
		"Section is required.",
		"Section must be a number of up to 3 digits.",
		"Section must be a positive number."); msg != "" {
		errs[FieldSection] = msg
	}

	if rec.Days.Len() == 0 {
		errs[FieldDays] = "Select at least one day."
	}

	validateSchedule(rec, errs)

	switch NewStringValidation(rec.Room).WithPattern(CompiledPatterns.Room).WithMaxLength(RoomMaxLength).Check() {
	case Missing:
		errs[FieldRoom] = "Room is required."
	case BadPattern:
		errs[FieldRoom] = "Room may only contain letters, digits and spaces."
	case TooLong:
		errs[FieldRoom] = fmt.Sprintf("Room must not exceed %d characters.", RoomMaxLength)
	}

	program := models.Program(strings.TrimSpace(string(rec.Program)))
	if program == "" {
		errs[FieldProgram] = "Academic program is required."
	} else if !program.IsValid() {
		errs[FieldProgram] = "Academic program must be one of the offered programs."
	}

	if rec.Instructor == nil || *rec.Instructor <= 0 {
		errs[FieldInstructor] = "Select an instructor."
	}

	if msg := checkPositive(string(rec.Credits), CompiledPatterns.Credits,
		"Credits are required.",
		"Credits must be a positive whole number of up to 2 digits.",
		"Credits must be greater than zero."); msg != "" {
		errs[FieldCredits] = msg
	}

	return Result{errs: errs}
}

// checkPositive validates a short numeric string whose value must be above zero.
func checkPositive(value string, pattern *regexp.Regexp, missing, shape, notPositive string) string {
	v := strings.TrimSpace(value)
	if v == "" {
		return missing
	}
	if !pattern.MatchString(v) {
		return shape
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		return notPositive
	}
	return ""
}

// validateSchedule requires both times and start < end. A reversed range flags both fields,
// because clients highlight each input separately.
func validateSchedule(rec *models.CourseRecord, errs FieldErrors) {
	start := strings.TrimSpace(rec.StartTime)
	end := strings.TrimSpace(rec.EndTime)

	if start == "" {
		errs[FieldStartTime] = "Start time is required."
	}
	if end == "" {
		errs[FieldEndTime] = "End time is required."
	}
	if start == "" || end == "" {
		return
	}

	startMin, startOK := helpers.ClockMinutes(start)
	endMin, endOK := helpers.ClockMinutes(end)
	// Only the unparseable side is flagged, so a single bad time reports a single key.
	if !startOK || !endOK {
		if !startOK {
			errs[FieldStartTime] = "Invalid start time format."
		}
		if !endOK {
			errs[FieldEndTime] = "Invalid end time format."
		}
		return
	}

	if startMin >= endMin {
		errs[FieldStartTime] = "Start time must be earlier than end time."
		errs[FieldEndTime] = "End time must be later than start time."
	}
}

// BuildCourse validates rec and, when it passes, returns the normalized course ready to store.
func BuildCourse(rec *models.CourseRecord, editing bool) (*models.Course, Result) {
	res := ValidateCourse(rec, editing)
	if !res.Valid() {
		return nil, res
	}

	section, _ := strconv.Atoi(strings.TrimSpace(string(rec.Section)))
	credits, _ := strconv.Atoi(strings.TrimSpace(string(rec.Credits)))
	startMin, _ := helpers.ClockMinutes(rec.StartTime)
	endMin, _ := helpers.ClockMinutes(rec.EndTime)

	days := make(models.DaySet, len(rec.Days))
	copy(days, rec.Days)

	course := &models.Course{
		NRC:          strings.TrimSpace(rec.NRC),
		Name:         strings.TrimSpace(rec.Name),
		Section:      section,
		Days:         days,
		StartTime:    fmt.Sprintf("%02d:%02d", startMin/60, startMin%60),
		EndTime:      fmt.Sprintf("%02d:%02d", endMin/60, endMin%60),
		Room:         strings.TrimSpace(rec.Room),
		Program:      models.Program(strings.TrimSpace(string(rec.Program))),
		InstructorID: *rec.Instructor,
		Credits:      credits,
	}
	if rec.ID != nil {
		course.ID = *rec.ID
	}
	return course, res
}
