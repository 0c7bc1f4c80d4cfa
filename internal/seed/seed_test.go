package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appModels "github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/config"
	"github.com/yigit/materias/internal/db"
	"github.com/yigit/materias/internal/pkg/apperrors"
	"github.com/yigit/materias/internal/pkg/auth"
)

type fakeTransactor struct {
	calls int
}

func (f *fakeTransactor) WithTransaction(ctx context.Context, fn db.TransactionFn) error {
	f.calls++
	return fn(ctx, nil)
}

type fakeStore struct {
	counts      map[appModels.RoleType]int
	instructors []*appModels.Instructor
	users       []*appModels.User
	created     []*appModels.Instructor
	createErr   error
}

func (f *fakeStore) CountByRole(context.Context) (map[appModels.RoleType]int, error) {
	return f.counts, nil
}

func (f *fakeStore) ListInstructors(context.Context) ([]*appModels.Instructor, error) {
	return f.instructors, nil
}

func (f *fakeStore) CreateUser(_ context.Context, _ pgx.Tx, u *appModels.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	u.ID = int64(len(f.users) + 1)
	f.users = append(f.users, u)
	return nil
}

func (f *fakeStore) CreateInstructor(_ context.Context, _ pgx.Tx, i *appModels.Instructor) error {
	i.ID = int64(len(f.created) + 1)
	f.created = append(f.created, i)
	return nil
}

func seedConfig() *config.Config {
	cfg := &config.Config{}
	cfg.Seed.Enabled = true
	cfg.Seed.AdminEmail = " Admin@Materias.Local "
	cfg.Seed.AdminPassword = "admin12345"
	cfg.Seed.AdminFirstName = "Admin"
	cfg.Seed.AdminLastName = "Catalog"
	return cfg
}

func TestCreateDefaultData_EmptyDatabase(t *testing.T) {
	store := &fakeStore{counts: map[appModels.RoleType]int{}}
	txr := &fakeTransactor{}

	err := CreateDefaultData(context.Background(), txr, store, seedConfig(), zerolog.Nop())
	require.NoError(t, err)

	require.Len(t, store.users, 1+len(defaultInstructors))
	admin := store.users[0]
	assert.Equal(t, "admin@materias.local", admin.Email)
	assert.Equal(t, appModels.RoleAdmin, admin.RoleType)
	assert.True(t, admin.IsActive)
	assert.True(t, auth.CheckPassword(admin.Password, "admin12345"))

	require.Len(t, store.created, len(defaultInstructors))
	assert.Equal(t, store.users[1].ID, store.created[0].UserID)
	assert.Equal(t, appModels.RoleTeacher, store.users[1].RoleType)
	assert.Equal(t, 2, txr.calls)
}

func TestCreateDefaultData_AlreadySeeded(t *testing.T) {
	store := &fakeStore{
		counts:      map[appModels.RoleType]int{appModels.RoleAdmin: 1},
		instructors: []*appModels.Instructor{{ID: 1}},
	}
	txr := &fakeTransactor{}

	require.NoError(t, CreateDefaultData(context.Background(), txr, store, seedConfig(), zerolog.Nop()))
	assert.Empty(t, store.users)
	assert.Zero(t, txr.calls)
}

func TestCreateDefaultData_Disabled(t *testing.T) {
	store := &fakeStore{}
	cfg := seedConfig()
	cfg.Seed.Enabled = false

	require.NoError(t, CreateDefaultData(context.Background(), &fakeTransactor{}, store, cfg, zerolog.Nop()))
	assert.Empty(t, store.users)
}

func TestCreateDefaultData_AdminEmailTaken(t *testing.T) {
	store := &fakeStore{
		counts:      map[appModels.RoleType]int{},
		instructors: []*appModels.Instructor{{ID: 1}},
		createErr:   apperrors.NewConflictError("email already registered"),
	}

	assert.NoError(t, CreateDefaultData(context.Background(), &fakeTransactor{}, store, seedConfig(), zerolog.Nop()))
}

func TestCreateDefaultData_JoinsErrors(t *testing.T) {
	boom := errors.New("connection reset")
	store := &fakeStore{counts: map[appModels.RoleType]int{}, createErr: boom}

	err := CreateDefaultData(context.Background(), &fakeTransactor{}, store, seedConfig(), zerolog.Nop())
	assert.ErrorIs(t, err, boom)
}
