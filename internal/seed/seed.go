package seed

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"

	appModels "github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/config"
	"github.com/yigit/materias/internal/db"
	"github.com/yigit/materias/internal/pkg/apperrors"
	"github.com/yigit/materias/internal/pkg/auth"
)

// Store is the part of the user repository seeding writes through
type Store interface {
	CountByRole(ctx context.Context) (map[appModels.RoleType]int, error)
	ListInstructors(ctx context.Context) ([]*appModels.Instructor, error)
	CreateUser(ctx context.Context, tx pgx.Tx, u *appModels.User) error
	CreateInstructor(ctx context.Context, tx pgx.Tx, instructor *appModels.Instructor) error
}

// Transactor runs a function inside a database transaction
type Transactor interface {
	WithTransaction(ctx context.Context, fn db.TransactionFn) error
}

// defaultInstructor is a directory entry created on an empty database
type defaultInstructor struct {
	FirstName, LastName, Email, Title, EmployeeNumber string
}

var defaultInstructors = []defaultInstructor{
	{"Ana", "López", "ana.lopez@materias.local", "Dra.", "MA-0001"},
	{"Luis", "Pérez", "luis.perez@materias.local", "Mtro.", "MA-0002"},
	{"Sofía", "Ramírez", "sofia.ramirez@materias.local", "Dra.", "MA-0003"},
}

// CreateDefaultData creates the first administrator and a starter instructor directory when
// they are missing. Every step runs even when an earlier one fails; the errors are joined.
func CreateDefaultData(ctx context.Context, txr Transactor, store Store, cfg *config.Config, lgr zerolog.Logger) error {
	if !cfg.Seed.Enabled {
		lgr.Info().Msg("Seeding disabled, skipping default data")
		return nil
	}

	lgr.Info().Msg("Checking/Creating default data (admin, instructors)...")
	var finalErr error

	if err := createAdmin(ctx, txr, store, cfg, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating admin user")
		finalErr = errors.Join(finalErr, err)
	}

	if err := createInstructors(ctx, txr, store, lgr); err != nil {
		lgr.Error().Err(err).Msg("Error creating default instructors")
		finalErr = errors.Join(finalErr, err)
	}

	lgr.Info().Msg("Default data check/creation finished.")
	return finalErr
}

func createAdmin(ctx context.Context, txr Transactor, store Store, cfg *config.Config, lgr zerolog.Logger) error {
	counts, err := store.CountByRole(ctx)
	if err != nil {
		return fmt.Errorf("failed to count users: %w", err)
	}
	if counts[appModels.RoleAdmin] > 0 {
		lgr.Info().Msg("Admin user already exists, skipping creation")
		return nil
	}

	hashedPassword, err := auth.HashPassword(cfg.Seed.AdminPassword)
	if err != nil {
		return err
	}

	now := time.Now()
	admin := &appModels.User{
		Email:     strings.ToLower(strings.TrimSpace(cfg.Seed.AdminEmail)),
		Password:  hashedPassword,
		FirstName: cfg.Seed.AdminFirstName,
		LastName:  cfg.Seed.AdminLastName,
		RoleType:  appModels.RoleAdmin,
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = txr.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		return store.CreateUser(ctx, tx, admin)
	})
	if errors.Is(err, apperrors.ErrConflict) {
		// The email belongs to an inactive or non-admin account
		lgr.Warn().Str("email", admin.Email).Msg("Seed admin email is already taken, skipping creation")
		return nil
	}
	if err != nil {
		return err
	}

	lgr.Info().Int64("adminID", admin.ID).Str("email", admin.Email).Msg("Default admin user created successfully")
	return nil
}

func createInstructors(ctx context.Context, txr Transactor, store Store, lgr zerolog.Logger) error {
	existing, err := store.ListInstructors(ctx)
	if err != nil {
		return fmt.Errorf("failed to list instructors: %w", err)
	}
	if len(existing) > 0 {
		lgr.Info().Int("count", len(existing)).Msg("Instructors already exist, skipping creation")
		return nil
	}

	return txr.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		for _, d := range defaultInstructors {
			// Seeded teachers get an unguessable password; they do not log in to the catalog
			hashedPassword, err := auth.HashPassword(uuid.NewString())
			if err != nil {
				return err
			}

			now := time.Now()
			u := &appModels.User{
				Email:     d.Email,
				Password:  hashedPassword,
				FirstName: d.FirstName,
				LastName:  d.LastName,
				RoleType:  appModels.RoleTeacher,
				IsActive:  true,
				CreatedAt: now,
				UpdatedAt: now,
			}
			if err := store.CreateUser(ctx, tx, u); err != nil {
				return fmt.Errorf("failed to create user %s: %w", d.Email, err)
			}

			instructor := &appModels.Instructor{
				UserID:         u.ID,
				EmployeeNumber: d.EmployeeNumber,
				Title:          d.Title,
			}
			if err := store.CreateInstructor(ctx, tx, instructor); err != nil {
				return fmt.Errorf("failed to create instructor %s: %w", d.EmployeeNumber, err)
			}
			lgr.Info().Int64("instructorID", instructor.ID).Str("employeeNumber", d.EmployeeNumber).Msg("Default instructor created")
		}
		return nil
	})
}
