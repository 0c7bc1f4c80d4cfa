package services

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/yigit/materias/internal/app/repositories"
	"github.com/yigit/materias/internal/pkg/logger"
)

// ErrExportGenerateFail is returned when the workbook cannot be written
var ErrExportGenerateFail = errors.New("failed to generate spreadsheet")

// ExportSheetName is the name of the only sheet of an export
const ExportSheetName = "Materias"

// ExportHeaders are the column titles of an export, in order
var ExportHeaders = []string{"NRC", "Name", "Section", "Days", "Schedule", "Room", "Program", "Instructor", "Credits"}

// ExportService renders the catalog as a spreadsheet
type ExportService interface {
	ExportCourses(ctx context.Context, filter repositories.CourseFilter) (*bytes.Buffer, string, error)
}

type exportServiceImpl struct {
	store CourseStore
	now   func() time.Time
}

// NewExportService creates a new export service instance
func NewExportService(store CourseStore) ExportService {
	return &exportServiceImpl{store: store, now: time.Now}
}

// ExportCourses writes every course matching filter, ignoring its paging
func (s *exportServiceImpl) ExportCourses(ctx context.Context, filter repositories.CourseFilter) (*bytes.Buffer, string, error) {
	filter.Page, filter.PageSize = 1, 0
	courses, _, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			logger.Warn().Err(err).Msg("Failed to close workbook")
		}
	}()

	if err := f.SetSheetName(f.GetSheetName(0), ExportSheetName); err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrExportGenerateFail, err)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	for i, h := range ExportHeaders {
		_ = f.SetCellValue(ExportSheetName, cell(i, 1), h)
	}
	_ = f.SetCellStyle(ExportSheetName, cell(0, 1), cell(len(ExportHeaders)-1, 1), headerStyle)

	widths := []float64{10, 32, 9, 34, 15, 12, 44, 28, 9}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		_ = f.SetColWidth(ExportSheetName, col, col, w)
	}

	for r, c := range courses {
		row := r + 2
		values := []interface{}{
			c.NRC, c.Name, c.Section, c.Days.String(), c.Schedule(),
			c.Room, string(c.Program), c.InstructorName, c.Credits,
		}
		for i, v := range values {
			_ = f.SetCellValue(ExportSheetName, cell(i, row), v)
		}
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		logger.Error().Err(err).Msg("Failed to write workbook")
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("materias_%s.xlsx", s.now().Format("20060102"))
	return buf, filename, nil
}

// cell returns the A1 reference of a zero-based column and one-based row
func cell(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
