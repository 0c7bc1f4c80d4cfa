package dto

import "github.com/yigit/materias/internal/app/models"

// ProgramCount is the number of courses offered by one program
type ProgramCount struct {
	Program models.Program `json:"program" example:"Ingeniería en Ciencias de la Computación"`
	Count   int            `json:"count" example:"12"`
}

// CoursesByProgramResponse holds one entry per program, in program order
type CoursesByProgramResponse struct {
	Programs []ProgramCount `json:"programs"`
	Total    int            `json:"total" example:"30"`
}

// UserSummaryResponse counts users by role
type UserSummaryResponse struct {
	Admins   int `json:"admins" example:"2"`
	Teachers int `json:"teachers" example:"15"`
	Students int `json:"students" example:"340"`
}

// WeekdayOption is a selectable day with its label
type WeekdayOption struct {
	Value models.Weekday `json:"value" example:"Monday"`
	Label string         `json:"label" example:"Lunes"`
}

// CatalogOptionsResponse lists the closed enumerations a course form offers
type CatalogOptionsResponse struct {
	Programs []models.Program `json:"programs"`
	Weekdays []WeekdayOption  `json:"weekdays"`
}

// NewCatalogOptionsResponse builds the options from the model enumerations
func NewCatalogOptionsResponse() CatalogOptionsResponse {
	days := make([]WeekdayOption, len(models.Weekdays))
	for i, d := range models.Weekdays {
		days[i] = WeekdayOption{Value: d, Label: d.Label()}
	}
	programs := make([]models.Program, len(models.Programs))
	copy(programs, models.Programs)
	return CatalogOptionsResponse{Programs: programs, Weekdays: days}
}
