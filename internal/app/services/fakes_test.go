package services

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/yigit/materias/internal/app/models"
	"github.com/yigit/materias/internal/app/repositories"
	"github.com/yigit/materias/internal/pkg/apperrors"
)

// fakeCourseStore is an in-memory CourseStore enforcing the same constraints as the schema
type fakeCourseStore struct {
	mu          sync.Mutex
	nextID      int64
	courses     map[int64]models.Course
	instructors map[int64]string
	listCalls   []repositories.CourseFilter
	err         error
}

func newFakeCourseStore() *fakeCourseStore {
	return &fakeCourseStore{
		courses:     map[int64]models.Course{},
		instructors: map[int64]string{3: "Ana López", 4: "Luis Pérez"},
	}
}

func (f *fakeCourseStore) checkConstraints(c *models.Course) error {
	for id, other := range f.courses {
		if id != c.ID && other.NRC == c.NRC {
			return repositories.ErrNRCTaken
		}
	}
	if _, ok := f.instructors[c.InstructorID]; !ok {
		return repositories.ErrUnknownInstructor
	}
	return nil
}

func (f *fakeCourseStore) Create(_ context.Context, c *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if err := f.checkConstraints(c); err != nil {
		return err
	}
	f.nextID++
	c.ID = f.nextID
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	f.courses[c.ID] = *c
	return nil
}

func (f *fakeCourseStore) Update(_ context.Context, c *models.Course) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return f.err
	}
	if _, ok := f.courses[c.ID]; !ok {
		return apperrors.ErrCourseNotFound
	}
	if err := f.checkConstraints(c); err != nil {
		return err
	}
	f.courses[c.ID] = *c
	return nil
}

func (f *fakeCourseStore) GetByID(_ context.Context, id int64) (*models.Course, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	c, ok := f.courses[id]
	if !ok {
		return nil, apperrors.ErrCourseNotFound
	}
	c.InstructorName = f.instructors[c.InstructorID]
	return &c, nil
}

func (f *fakeCourseStore) List(_ context.Context, filter repositories.CourseFilter) ([]models.Course, int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listCalls = append(f.listCalls, filter)
	if f.err != nil {
		return nil, 0, f.err
	}

	var out []models.Course
	for _, c := range f.courses {
		if filter.Program != "" && c.Program != filter.Program {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(c.Name), strings.ToLower(filter.Search)) {
			continue
		}
		c.InstructorName = f.instructors[c.InstructorID]
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	total := len(out)
	if filter.PageSize > 0 {
		start := (filter.Page - 1) * filter.PageSize
		if start > total {
			start = total
		}
		end := start + filter.PageSize
		if end > total {
			end = total
		}
		out = out[start:end]
	}
	return out, total, nil
}

func (f *fakeCourseStore) Delete(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.courses[id]; !ok {
		return apperrors.ErrCourseNotFound
	}
	delete(f.courses, id)
	return nil
}

func (f *fakeCourseStore) CountByProgram(context.Context) (map[models.Program]int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	counts := map[models.Program]int{}
	for _, c := range f.courses {
		counts[c.Program]++
	}
	return counts, nil
}

// fakeAccounts is an in-memory AccountStore and InstructorStore
type fakeAccounts struct {
	users       map[string]*models.User
	instructors map[int64]*models.Instructor
	roleCounts  map[models.RoleType]int
	countCalls  int
	lastLogins  []int64
}

func (f *fakeAccounts) GetByEmail(_ context.Context, email string) (*models.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeAccounts) UpdateLastLogin(_ context.Context, userID int64) error {
	f.lastLogins = append(f.lastLogins, userID)
	return nil
}

func (f *fakeAccounts) CountByRole(context.Context) (map[models.RoleType]int, error) {
	f.countCalls++
	return f.roleCounts, nil
}

func (f *fakeAccounts) GetInstructorByID(_ context.Context, id int64) (*models.Instructor, error) {
	i, ok := f.instructors[id]
	if !ok {
		return nil, apperrors.ErrInstructorNotFound
	}
	return i, nil
}

func (f *fakeAccounts) ListInstructors(context.Context) ([]*models.Instructor, error) {
	out := make([]*models.Instructor, 0, len(f.instructors))
	for _, i := range f.instructors {
		out = append(out, i)
	}
	sort.Slice(out, func(a, b int) bool { return out[a].ID < out[b].ID })
	return out, nil
}

// memoryCache is a map backed cache.Cache that round-trips values through JSON like Redis does
type memoryCache struct {
	data    map[string][]byte
	deletes []string
}

func newMemoryCache() *memoryCache {
	return &memoryCache{data: map[string][]byte{}}
}

func (m *memoryCache) GetJSON(_ context.Context, key string, dest interface{}) (bool, error) {
	raw, ok := m.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dest)
}

func (m *memoryCache) SetJSON(_ context.Context, key string, value interface{}, _ time.Duration) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	m.data[key] = raw
	return nil
}

func (m *memoryCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(m.data, k)
		m.deletes = append(m.deletes, k)
	}
	return nil
}

func (m *memoryCache) Close() error { return nil }

// countingInvalidator records chart invalidations
type countingInvalidator struct {
	calls int
}

func (c *countingInvalidator) InvalidateCharts(context.Context) { c.calls++ }

func int64Ptr(v int64) *int64 { return &v }

// validRecord returns a record that passes every rule
func validRecord() *models.CourseRecord {
	rec := models.NewCourseRecord()
	rec.NRC = "123456"
	rec.Name = "Cálculo"
	rec.Section = "1"
	rec.Days = models.DaySet{models.Monday, models.Wednesday}
	rec.StartTime = "08:00"
	rec.EndTime = "09:30"
	rec.Room = "A101"
	rec.Program = models.ProgramComputerScienceEngineering
	rec.Instructor = int64Ptr(3)
	rec.Credits = "5"
	return rec
}
