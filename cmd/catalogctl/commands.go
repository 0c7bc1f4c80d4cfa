package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/app/models/dto"
	"github.com/yigit/materias/internal/pkg/apperrors"
	"github.com/yigit/materias/internal/pkg/helpers"
	"github.com/yigit/materias/internal/pkg/validation"
)

var errInvalidRecord = errors.New("course record is invalid")

func loginCommand() *cli.Command {
	return &cli.Command{
		Name:  "login",
		Usage: "print an access token for the given credentials",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "email", Required: true},
			&cli.StringFlag{Name: "password", Required: true, EnvVars: []string{"CATALOG_PASSWORD"}},
		},
		Action: func(c *cli.Context) error {
			resp, err := apiClient(c).Login(c.Context, c.String("email"), c.String("password"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, resp.Token.AccessToken)
			return nil
		},
	}
}

func coursesCommand() *cli.Command {
	return &cli.Command{
		Name:  "courses",
		Usage: "list and edit courses",
		Subcommands: []*cli.Command{
			{
				Name:  "list",
				Usage: "list one page of courses",
				Flags: append(filterFlags(),
					&cli.IntFlag{Name: "page", Value: 1},
					&cli.IntFlag{Name: "size", Value: 20},
				),
				Action: func(c *cli.Context) error {
					filter := courseFilter(c)
					filter.Page = c.Int("page")
					filter.PageSize = c.Int("size")
					resp, err := apiClient(c).ListCourses(c.Context, filter)
					if err != nil {
						return err
					}
					printCourses(c, resp.Courses)
					p := resp.Pagination
					fmt.Fprintf(c.App.Writer, "page %d of %d, %d courses\n", p.CurrentPage, p.TotalPages, p.TotalItems)
					return nil
				},
			},
			{
				Name:      "get",
				Usage:     "show one course",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					course, err := apiClient(c).GetCourse(c.Context, id)
					if err != nil {
						return err
					}
					return printJSON(c, course)
				},
			},
			{
				Name:  "create",
				Usage: "create a course from a JSON file",
				Flags: []cli.Flag{fileFlag()},
				Action: func(c *cli.Context) error {
					rec, err := readRecord(c.Path("file"))
					if err != nil {
						return err
					}
					course, err := apiClient(c).CreateCourse(c.Context, rec)
					if err != nil {
						return reportFields(c, err)
					}
					return printJSON(c, course)
				},
			},
			{
				Name:      "update",
				Usage:     "replace a course with the contents of a JSON file",
				ArgsUsage: "ID",
				Flags:     []cli.Flag{fileFlag()},
				Action: func(c *cli.Context) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					rec, err := readRecord(c.Path("file"))
					if err != nil {
						return err
					}
					course, err := apiClient(c).UpdateCourse(c.Context, id, rec)
					if err != nil {
						return reportFields(c, err)
					}
					return printJSON(c, course)
				},
			},
			{
				Name:      "delete",
				Usage:     "delete a course",
				ArgsUsage: "ID",
				Action: func(c *cli.Context) error {
					id, err := idArg(c)
					if err != nil {
						return err
					}
					if err := apiClient(c).DeleteCourse(c.Context, id); err != nil {
						return err
					}
					fmt.Fprintf(c.App.Writer, "course %d deleted\n", id)
					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "check a JSON course record locally, without contacting the API",
				Flags: []cli.Flag{
					fileFlag(),
					&cli.BoolFlag{Name: "editing", Usage: "validate as an edit of an existing course"},
				},
				Action: func(c *cli.Context) error {
					res, err := validateFile(c.Path("file"), c.Bool("editing"))
					if err != nil {
						return err
					}
					if res.Valid() {
						fmt.Fprintln(c.App.Writer, "valid")
						return nil
					}
					printFieldErrors(c, res.Errors())
					return errInvalidRecord
				},
			},
			{
				Name:  "export",
				Usage: "download the matching courses as a spreadsheet",
				Flags: append(filterFlags(),
					&cli.PathFlag{Name: "out", Aliases: []string{"o"}, Usage: "output file, defaults to the server's file name"},
				),
				Action: exportAction,
			},
		},
	}
}

func fileFlag() cli.Flag {
	return &cli.PathFlag{Name: "file", Aliases: []string{"f"}, Usage: "JSON course record", Required: true}
}

func filterFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "program", Usage: "academic program"},
		&cli.StringFlag{Name: "search", Usage: "match on NRC or name"},
	}
}

func courseFilter(c *cli.Context) dto.CourseFilterRequest {
	return dto.CourseFilterRequest{Program: c.String("program"), Search: c.String("search")}
}

func exportAction(c *cli.Context) error {
	tmp, err := os.CreateTemp(".", ".materias-*.xlsx")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	name, err := apiClient(c).ExportCourses(c.Context, courseFilter(c), tmp)
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return err
	}

	out := c.Path("out")
	if out == "" {
		out = name
	}
	if err := os.Rename(tmp.Name(), out); err != nil {
		return err
	}
	fmt.Fprintln(c.App.Writer, out)
	return nil
}

func instructorsCommand() *cli.Command {
	return &cli.Command{
		Name:  "instructors",
		Usage: "list the instructor directory",
		Action: func(c *cli.Context) error {
			instructors, err := apiClient(c).ListInstructors(c.Context)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMPLOYEE\tEMAIL")
			for _, i := range instructors {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\n", i.ID, i.FullName, i.EmployeeNumber, i.Email)
			}
			return w.Flush()
		},
	}
}

func chartsCommand() *cli.Command {
	return &cli.Command{
		Name:  "charts",
		Usage: "show course and user counts",
		Action: func(c *cli.Context) error {
			api := apiClient(c)
			byProgram, err := api.CoursesByProgram(c.Context)
			if err != nil {
				return err
			}
			summary, err := api.UserSummary(c.Context)
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "PROGRAM\tCOURSES")
			for _, p := range byProgram.Programs {
				fmt.Fprintf(w, "%s\t%d\n", p.Program, p.Count)
			}
			fmt.Fprintf(w, "Total\t%d\n\n", byProgram.Total)
			fmt.Fprintln(w, "ROLE\tUSERS")
			fmt.Fprintf(w, "%s\t%d\n", models.RoleAdmin, summary.Admins)
			fmt.Fprintf(w, "%s\t%d\n", models.RoleTeacher, summary.Teachers)
			fmt.Fprintf(w, "%s\t%d\n", models.RoleStudent, summary.Students)
			return w.Flush()
		},
	}
}

func timeCommand() *cli.Command {
	return &cli.Command{
		Name:  "time",
		Usage: "convert between picker and stored times",
		Subcommands: []*cli.Command{
			{
				Name:      "to24",
				Usage:     `convert "hh:mm AM|PM" to "HH:MM"`,
				ArgsUsage: `"01:05 PM"`,
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, helpers.To24Hour(c.Args().First()))
					return nil
				},
			},
			{
				Name:      "to12",
				Usage:     `convert "HH:MM" to "hh:mm AM|PM"`,
				ArgsUsage: "13:05",
				Action: func(c *cli.Context) error {
					fmt.Fprintln(c.App.Writer, helpers.To12Hour(c.Args().First()))
					return nil
				},
			},
		},
	}
}

func idArg(c *cli.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Args().First(), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("a positive course ID is required, got %q", c.Args().First())
	}
	return id, nil
}

// readRecord loads a course record in the same JSON shape the API accepts
func readRecord(path string) (*models.CourseRecord, error) {
	rec, daysErr, err := decodeRecordFile(path)
	if err != nil {
		return nil, err
	}
	if daysErr != "" {
		return nil, apperrors.NewFieldError(validation.FieldDays, daysErr)
	}
	return rec, nil
}

func validateFile(path string, editing bool) (validation.Result, error) {
	rec, daysErr, err := decodeRecordFile(path)
	if err != nil {
		return validation.Result{}, err
	}
	res := validation.ValidateCourse(rec, editing)
	if daysErr != "" {
		res = res.With(validation.FieldDays, daysErr)
	}
	return res, nil
}

func decodeRecordFile(path string) (*models.CourseRecord, string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	var req dto.CourseRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, "", fmt.Errorf("failed to parse %s: %w", path, err)
	}
	rec, daysErr := req.Record()
	return rec, daysErr, nil
}

// reportFields prints the field messages of a rejected record before returning err
func reportFields(c *cli.Context, err error) error {
	if fields := apperrors.FieldsOf(err); fields != nil {
		printFieldErrors(c, fields)
	}
	return err
}

func printFieldErrors(c *cli.Context, fields map[string]string) {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(c.App.ErrWriter, "%s: %s\n", k, fields[k])
	}
}

func printCourses(c *cli.Context, courses []models.Course) {
	w := tabwriter.NewWriter(c.App.Writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNRC\tNAME\tSEC\tDAYS\tSCHEDULE\tROOM\tINSTRUCTOR\tCREDITS")
	for _, course := range courses {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\t%s\t%s\t%d\n",
			course.ID, course.NRC, course.Name, course.Section, course.Days,
			course.Schedule(), course.Room, course.InstructorName, course.Credits)
	}
	_ = w.Flush()
}

func printJSON(c *cli.Context, v interface{}) error {
	enc := json.NewEncoder(c.App.Writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
