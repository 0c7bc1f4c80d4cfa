package services

import (
	"context"

	"github.com/yigit/materias/internal/app/models/dto"
)

// InstructorService defines the interface for instructor-related operations
type InstructorService interface {
	ListInstructors(ctx context.Context) ([]dto.InstructorResponse, error)
	GetInstructor(ctx context.Context, id int64) (*dto.InstructorResponse, error)
}

type instructorServiceImpl struct {
	store InstructorStore
}

// NewInstructorService creates a new instructor service instance
func NewInstructorService(store InstructorStore) InstructorService {
	return &instructorServiceImpl{store: store}
}

func (s *instructorServiceImpl) ListInstructors(ctx context.Context) ([]dto.InstructorResponse, error) {
	instructors, err := s.store.ListInstructors(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InstructorResponse, 0, len(instructors))
	for _, i := range instructors {
		out = append(out, dto.FromInstructor(i))
	}
	return out, nil
}

func (s *instructorServiceImpl) GetInstructor(ctx context.Context, id int64) (*dto.InstructorResponse, error) {
	if err := validateID(id, "instructor"); err != nil {
		return nil, err
	}
	instructor, err := s.store.GetInstructorByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := dto.FromInstructor(instructor)
	return &resp, nil
}
