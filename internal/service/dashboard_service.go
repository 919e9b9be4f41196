package service

import (
	"context"
	"fmt"

	"github.com/hnthap/classgate/internal/classroom"
	"github.com/hnthap/classgate/internal/dto"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// DashboardService relays the passive dashboard views. Pure I/O wrapping; no
// portal-side logic beyond DTO mapping.
type DashboardService interface {
	Notes(ctx context.Context, token string) ([]dto.NoteDTO, error)
	Assignments(ctx context.Context, token string) ([]dto.AssignmentDTO, error)
	Grades(ctx context.Context, token string) ([]dto.GradeDTO, error)
	Feedback(ctx context.Context, token string) ([]dto.FeedbackDTO, error)
}

type dashboardService struct {
	api classroom.DashboardAPI
}

func NewDashboardService(api classroom.DashboardAPI) DashboardService {
	return &dashboardService{api: api}
}

func (s *dashboardService) Notes(ctx context.Context, token string) ([]dto.NoteDTO, error) {
	notes, err := s.api.Notes(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error fetching notes: %w", err)
	}
	var dtos []dto.NoteDTO
	if err := copier.Copy(&dtos, &notes); err != nil {
		log.Error().Err(err).Msg("Notes: failed to copy models to DTOs")
		return nil, fmt.Errorf("error preparing notes response: %w", err)
	}
	return dtos, nil
}

func (s *dashboardService) Assignments(ctx context.Context, token string) ([]dto.AssignmentDTO, error) {
	assignments, err := s.api.Assignments(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error fetching assignments: %w", err)
	}
	var dtos []dto.AssignmentDTO
	if err := copier.Copy(&dtos, &assignments); err != nil {
		log.Error().Err(err).Msg("Assignments: failed to copy models to DTOs")
		return nil, fmt.Errorf("error preparing assignments response: %w", err)
	}
	return dtos, nil
}

func (s *dashboardService) Grades(ctx context.Context, token string) ([]dto.GradeDTO, error) {
	grades, err := s.api.Grades(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error fetching grades: %w", err)
	}
	var dtos []dto.GradeDTO
	if err := copier.Copy(&dtos, &grades); err != nil {
		log.Error().Err(err).Msg("Grades: failed to copy models to DTOs")
		return nil, fmt.Errorf("error preparing grades response: %w", err)
	}
	return dtos, nil
}

func (s *dashboardService) Feedback(ctx context.Context, token string) ([]dto.FeedbackDTO, error) {
	feedback, err := s.api.Feedback(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("error fetching feedback: %w", err)
	}
	var dtos []dto.FeedbackDTO
	if err := copier.Copy(&dtos, &feedback); err != nil {
		log.Error().Err(err).Msg("Feedback: failed to copy models to DTOs")
		return nil, fmt.Errorf("error preparing feedback response: %w", err)
	}
	return dtos, nil
}
