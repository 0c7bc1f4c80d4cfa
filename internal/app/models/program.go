package models

// Program is an academic program ("programa educativo") a course belongs to.
type Program string

const (
	ProgramComputerScienceEngineering Program = "Ingeniería en Ciencias de la Computación"
	ProgramComputerScience            Program = "Licenciatura en Ciencias de la Computación"
	ProgramInformationTechnology      Program = "Ingeniería en Tecnologías de la Información"
)

// Programs is the closed list of programs, in display order.
var Programs = []Program{
	ProgramComputerScienceEngineering,
	ProgramComputerScience,
	ProgramInformationTechnology,
}

// IsValid reports whether p is one of the known programs.
func (p Program) IsValid() bool {
	for _, known := range Programs {
		if p == known {
			return true
		}
	}
	return false
}
