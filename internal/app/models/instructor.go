package models

// Instructor defines the instructor model based on the 'instructors' table
type Instructor struct {
	ID             int64  `json:"id" db:"id" example:"3"`                                   // Unique identifier referenced by courses
	UserID         int64  `json:"userId" db:"user_id" example:"5"`                          // ID of the associated user account
	EmployeeNumber string `json:"employeeNumber" db:"employee_number" example:"MA-0042"`    // Institutional employee number
	Title          string `json:"title" db:"title" example:"Dra."`                          // Academic title of the instructor

	// Relations (populated when needed)
	User *User `json:"user,omitempty"` // Associated user information
}

// FullName returns the instructor's display name, or "" when the user is not loaded.
func (i *Instructor) FullName() string {
	if i.User == nil {
		return ""
	}
	return i.User.FullName()
}
