package models

import (
	"bytes"
	"encoding/json"
	"strconv"
	"time"
)

// NumericString holds a numeric form field exactly as typed. JSON numbers are accepted
// and kept in their decimal text form so the validator sees what the user sent.
type NumericString string

// UnmarshalJSON accepts "12", 12 or null.
func (n *NumericString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if string(data) == "null" {
		*n = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}
	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return err
	}
	*n = NumericString(num.String())
	return nil
}

// CourseRecord is a course ("materia") as it is being entered or edited.
// Nothing in it is trusted until it passes validation.
type CourseRecord struct {
	ID         *int64        `json:"id"`
	NRC        string        `json:"nrc" example:"123456"`
	Name       string        `json:"name" example:"Cálculo"`
	Section    NumericString `json:"section" swaggertype:"string" example:"1"`
	Days       DaySet        `json:"days" swaggertype:"string" example:"Monday,Wednesday"`
	StartTime  string        `json:"start_time" example:"08:00"`
	EndTime    string        `json:"end_time" example:"09:30"`
	Room       string        `json:"room" example:"A101"`
	Program    Program       `json:"program" example:"Ingeniería en Ciencias de la Computación"`
	Instructor *int64        `json:"instructor" example:"3"`
	Credits    NumericString `json:"credits" swaggertype:"string" example:"5"`
}

// NewCourseRecord returns the blank record used to seed a new entry form.
func NewCourseRecord() *CourseRecord {
	return &CourseRecord{
		Days: DaySet{},
	}
}

// Course is a validated course offering as stored in the 'courses' table.
type Course struct {
	ID             int64     `json:"id" db:"id" example:"1"`
	NRC            string    `json:"nrc" db:"nrc" example:"123456"`
	Name           string    `json:"name" db:"name" example:"Cálculo"`
	Section        int       `json:"section" db:"section" example:"1"`
	Days           DaySet    `json:"days" db:"days" swaggertype:"string" example:"Monday,Wednesday"`
	StartTime      string    `json:"start_time" db:"start_time" example:"08:00"`
	EndTime        string    `json:"end_time" db:"end_time" example:"09:30"`
	Room           string    `json:"room" db:"room" example:"A101"`
	Program        Program   `json:"program" db:"program"`
	InstructorID   int64     `json:"instructor" db:"instructor_id" example:"3"`
	InstructorName string    `json:"instructor_name,omitempty" example:"Ana López"` // Joined from instructors/users
	Credits        int       `json:"credits" db:"credits" example:"5"`
	CreatedAt      time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time `json:"updatedAt" db:"updated_at"`
}

// Schedule renders the meeting time as "start - end".
func (c *Course) Schedule() string {
	return c.StartTime + " - " + c.EndTime
}

// Record converts a stored course back into an editable record.
func (c *Course) Record() *CourseRecord {
	id := c.ID
	instructor := c.InstructorID
	days := make(DaySet, len(c.Days))
	copy(days, c.Days)
	return &CourseRecord{
		ID:         &id,
		NRC:        c.NRC,
		Name:       c.Name,
		Section:    NumericString(strconv.Itoa(c.Section)),
		Days:       days,
		StartTime:  c.StartTime,
		EndTime:    c.EndTime,
		Room:       c.Room,
		Program:    c.Program,
		Instructor: &instructor,
		Credits:    NumericString(strconv.Itoa(c.Credits)),
	}
}
