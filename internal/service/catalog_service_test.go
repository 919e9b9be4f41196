package service_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hnthap/classgate/internal/model"
	"github.com/hnthap/classgate/internal/service"
	"github.com/stretchr/testify/require"
)

type stubCatalogAPI struct {
	summaries []model.QuizSummary
	err       error
}

func (s *stubCatalogAPI) ListQuizzes(context.Context, string) ([]model.QuizSummary, error) {
	return s.summaries, s.err
}

func (s *stubCatalogAPI) QuizDetail(context.Context, string, uint) (*model.Quiz, error) {
	return nil, fmt.Errorf("not used")
}

func TestListQuizzesMapsSummaries(t *testing.T) {
	end := time.Date(2026, 9, 1, 0, 0, 0, 0, time.UTC)
	api := &stubCatalogAPI{summaries: []model.QuizSummary{
		{ID: 7, Title: "Operating Systems Basics", Subject: "OS", TotalMarks: 10, TimeLimit: 30, EndDate: &end},
	}}
	svc := service.NewCatalogService(api)

	dtos, err := svc.ListQuizzes(context.Background(), "tok")
	require.NoError(t, err)
	require.Len(t, dtos, 1)
	require.Equal(t, uint(7), dtos[0].ID)
	require.Equal(t, "Operating Systems Basics", dtos[0].Title)
	require.Equal(t, 30, dtos[0].TimeLimit)
}

func TestListQuizzesFailureYieldsEmptyList(t *testing.T) {
	api := &stubCatalogAPI{err: fmt.Errorf("upstream unavailable")}
	svc := service.NewCatalogService(api)

	dtos, err := svc.ListQuizzes(context.Background(), "tok")
	require.Error(t, err)
	require.NotNil(t, dtos)
	require.Empty(t, dtos)
}
