package service

import (
	"context"
	"fmt"

	"github.com/hnthap/classgate/internal/classroom"
	"github.com/hnthap/classgate/internal/dto"
	"github.com/jinzhu/copier"
	"github.com/rs/zerolog/log"
)

// CatalogService serves the quiz catalog listing for the portal.
type CatalogService interface {
	ListQuizzes(ctx context.Context, token string) ([]dto.QuizSummaryDTO, error)
}

type catalogService struct {
	api classroom.CatalogAPI
}

func NewCatalogService(api classroom.CatalogAPI) CatalogService {
	return &catalogService{api: api}
}

// ListQuizzes returns the quizzes visible to the student. On failure the
// caller gets an empty list plus the error; the catalog view stays renderable.
func (s *catalogService) ListQuizzes(ctx context.Context, token string) ([]dto.QuizSummaryDTO, error) {
	quizzes, err := s.api.ListQuizzes(ctx, token)
	if err != nil {
		log.Error().Err(err).Msg("ListQuizzes: failed to fetch quiz catalog")
		return []dto.QuizSummaryDTO{}, fmt.Errorf("error fetching quizzes: %w", err)
	}

	dtos := make([]dto.QuizSummaryDTO, 0, len(quizzes))
	for _, quiz := range quizzes {
		var summary dto.QuizSummaryDTO
		if err := copier.Copy(&summary, &quiz); err != nil {
			log.Error().Err(err).Uint("quizID", quiz.ID).Msg("ListQuizzes: failed to copy quiz summary to DTO")
			continue
		}
		dtos = append(dtos, summary)
	}
	return dtos, nil
}
