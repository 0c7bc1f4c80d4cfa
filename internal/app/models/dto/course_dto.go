package dto

import (
	"bytes"
	"encoding/json"

	"github.com/yigit/materias/internal/app/models"
)

// CourseRequest is the body of create, update and validate requests. Days are kept raw so an
// unknown weekday is reported as a field error instead of a malformed body.
type CourseRequest struct {
	NRC        string               `json:"nrc" example:"123456"`
	Name       string               `json:"name" example:"Cálculo"`
	Section    models.NumericString `json:"section" swaggertype:"string" example:"1"`
	Days       json.RawMessage      `json:"days" swaggertype:"string" example:"Monday,Wednesday"`
	StartTime  string               `json:"start_time" example:"08:00"`
	EndTime    string               `json:"end_time" example:"09:30"`
	Room       string               `json:"room" example:"A101"`
	Program    models.Program       `json:"program" example:"Ingeniería en Ciencias de la Computación"`
	Instructor *int64               `json:"instructor" example:"3"`
	Credits    models.NumericString `json:"credits" swaggertype:"string" example:"5"`
}

// UnknownDaysMessage is reported on the days field when the value cannot be parsed.
const UnknownDaysMessage = "Days must be a comma separated list of Monday to Friday."

// Record converts the request into a course record. daysErr is non-empty when the days value
// could not be parsed; the record then carries an empty day set.
func (r *CourseRequest) Record() (rec *models.CourseRecord, daysErr string) {
	rec = models.NewCourseRecord()
	rec.NRC = r.NRC
	rec.Name = r.Name
	rec.Section = r.Section
	rec.StartTime = r.StartTime
	rec.EndTime = r.EndTime
	rec.Room = r.Room
	rec.Program = r.Program
	rec.Instructor = r.Instructor
	rec.Credits = r.Credits

	raw := bytes.TrimSpace(r.Days)
	if len(raw) == 0 {
		return rec, ""
	}
	var days models.DaySet
	if err := json.Unmarshal(raw, &days); err != nil {
		return rec, UnknownDaysMessage
	}
	if days != nil {
		rec.Days = days
	}
	return rec, ""
}

// NewCourseRequest builds a request body from a record, serializing the days as a comma-joined
// string.
func NewCourseRequest(rec *models.CourseRecord) *CourseRequest {
	days, _ := json.Marshal(rec.Days.String())
	return &CourseRequest{
		NRC:        rec.NRC,
		Name:       rec.Name,
		Section:    rec.Section,
		Days:       days,
		StartTime:  rec.StartTime,
		EndTime:    rec.EndTime,
		Room:       rec.Room,
		Program:    rec.Program,
		Instructor: rec.Instructor,
		Credits:    rec.Credits,
	}
}

// CourseFilterRequest represents the query of the course list and export endpoints
type CourseFilterRequest struct {
	Program  string `form:"program" binding:"program"`
	Search   string `form:"search" binding:"max=100"`
	Page     int    `form:"page,default=1" binding:"min=1"`
	PageSize int    `form:"size,default=20" binding:"min=1,max=100"`
}

// CourseListResponse represents a page of courses
type CourseListResponse struct {
	Courses    []models.Course `json:"courses"`
	Pagination PaginationInfo  `json:"pagination"`
}

// ValidationResponse is returned by the dry-run validation endpoint
type ValidationResponse struct {
	Valid  bool              `json:"valid" example:"false"`
	Errors map[string]string `json:"errors"`
}
