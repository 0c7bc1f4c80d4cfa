package dto

import "github.com/yigit/materias/internal/app/models"

// InstructorResponse represents an entry of the instructor directory
type InstructorResponse struct {
	ID             int64  `json:"id" example:"3"`
	UserID         int64  `json:"userId" example:"5"`
	FullName       string `json:"fullName" example:"Ana López"`
	FirstName      string `json:"firstName" example:"Ana"`
	LastName       string `json:"lastName" example:"López"`
	Email          string `json:"email" example:"ana.lopez@school.mx"`
	Title          string `json:"title" example:"Dra."`
	EmployeeNumber string `json:"employeeNumber" example:"MA-0042"`
}

// FromInstructor converts an instructor with its user into a response
func FromInstructor(i *models.Instructor) InstructorResponse {
	resp := InstructorResponse{
		ID:             i.ID,
		UserID:         i.UserID,
		FullName:       i.FullName(),
		Title:          i.Title,
		EmployeeNumber: i.EmployeeNumber,
	}
	if i.User != nil {
		resp.FirstName = i.User.FirstName
		resp.LastName = i.User.LastName
		resp.Email = i.User.Email
	}
	return resp
}

// InstructorsResponse represents a list of instructors
type InstructorsResponse struct {
	Instructors []InstructorResponse `json:"instructors"`
}
