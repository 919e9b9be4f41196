package store_test

import (
	"context"
	"strings"
	"testing"

	"github.com/hnthap/classgate/internal/model"
	"github.com/hnthap/classgate/internal/store"
	"github.com/stretchr/testify/require"
)

func mcqQuestion() model.Question {
	return model.Question{
		ID:    1,
		Text:  "Pick one",
		Type:  model.MultipleChoice,
		Marks: 1,
		Options: []model.Option{
			{ID: 11, Text: "A"},
			{ID: 12, Text: "B"},
		},
	}
}

func boolQuestion() model.Question {
	return model.Question{ID: 2, Text: "True or false", Type: model.TrueFalse, Marks: 1}
}

func textQuestion() model.Question {
	return model.Question{ID: 3, Text: "Explain", Type: model.ShortAnswer, Marks: 2}
}

func TestSetWritesThroughToMirror(t *testing.T) {
	ctx := context.Background()
	mirror := store.NewMemoryMirror()
	s := store.NewAnswerStore("student:s1:quiz:7", mirror)

	require.NoError(t, s.Set(ctx, mcqQuestion(), "A"))
	require.NoError(t, s.Set(ctx, boolQuestion(), true))

	stored, ok, err := mirror.Load(ctx, "student:s1:quiz:7")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, s.Snapshot(), stored)
	require.Len(t, stored, 2)
}

func TestSetOverwritesPreviousAnswer(t *testing.T) {
	ctx := context.Background()
	s := store.NewAnswerStore("k", store.NewMemoryMirror())

	require.NoError(t, s.Set(ctx, mcqQuestion(), "A"))
	require.NoError(t, s.Set(ctx, mcqQuestion(), "B"))

	v, ok := s.Get(1)
	require.True(t, ok)
	require.Equal(t, "B", v.Choice)
	require.Equal(t, 1, s.Len())
}

func TestExplicitFalseAndEmptyTextCountAsAnswered(t *testing.T) {
	ctx := context.Background()
	s := store.NewAnswerStore("k", store.NewMemoryMirror())

	require.NoError(t, s.Set(ctx, boolQuestion(), false))
	require.NoError(t, s.Set(ctx, textQuestion(), ""))

	require.True(t, s.IsAnswered(2))
	require.True(t, s.IsAnswered(3))
	require.False(t, s.IsAnswered(1))
}

func TestSetRejectsInvalidValues(t *testing.T) {
	ctx := context.Background()
	s := store.NewAnswerStore("k", store.NewMemoryMirror())

	// Wrong option text for the multiple-choice question.
	require.ErrorIs(t, s.Set(ctx, mcqQuestion(), "Z"), model.ErrInvalidAnswer)
	// Wrong dynamic type entirely.
	require.ErrorIs(t, s.Set(ctx, mcqQuestion(), 42), model.ErrInvalidAnswer)
	require.ErrorIs(t, s.Set(ctx, boolQuestion(), "true"), model.ErrInvalidAnswer)
	// Short answer over the length limit.
	long := strings.Repeat("x", model.ShortAnswerMaxLen+1)
	require.ErrorIs(t, s.Set(ctx, textQuestion(), long), model.ErrInvalidAnswer)

	require.Equal(t, 0, s.Len())
}

func TestShortAnswerLimitCountsRunes(t *testing.T) {
	ctx := context.Background()
	s := store.NewAnswerStore("k", store.NewMemoryMirror())

	exact := strings.Repeat("ả", model.ShortAnswerMaxLen)
	require.NoError(t, s.Set(ctx, textQuestion(), exact))
}

func TestWirePayloadShape(t *testing.T) {
	ctx := context.Background()
	s := store.NewAnswerStore("k", store.NewMemoryMirror())

	require.NoError(t, s.Set(ctx, mcqQuestion(), "A"))
	require.NoError(t, s.Set(ctx, boolQuestion(), false))
	require.NoError(t, s.Set(ctx, textQuestion(), "deadlock needs four conditions"))

	require.Equal(t, map[uint]any{
		1: "A",
		2: false,
		3: "deadlock needs four conditions",
	}, s.Wire())
}

func TestRehydrateRecoversMirroredAnswers(t *testing.T) {
	ctx := context.Background()
	mirror := store.NewMemoryMirror()

	first := store.NewAnswerStore("student:s1:quiz:7", mirror)
	require.NoError(t, first.Set(ctx, mcqQuestion(), "A"))

	second := store.NewAnswerStore("student:s1:quiz:7", mirror)
	recovered, err := second.Rehydrate(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 1, recovered)
	require.True(t, second.IsAnswered(1))

	// No mirrored copy under a different key.
	third := store.NewAnswerStore("student:s1:quiz:8", mirror)
	recovered, err = third.Rehydrate(ctx, nil)
	require.NoError(t, err)
	require.Equal(t, 0, recovered)
}

func TestRehydrateDropsAnswersFailingKeep(t *testing.T) {
	ctx := context.Background()
	mirror := store.NewMemoryMirror()
	require.NoError(t, mirror.Save(ctx, "k", map[uint]model.AnswerValue{
		1:  {Type: model.MultipleChoice, Choice: "A"},
		99: {Type: model.ShortAnswer, Text: "from a deleted question"},
	}))

	s := store.NewAnswerStore("k", mirror)
	recovered, err := s.Rehydrate(ctx, func(questionID uint) bool { return questionID == 1 })
	require.NoError(t, err)
	require.Equal(t, 1, recovered)
	require.True(t, s.IsAnswered(1))
	require.False(t, s.IsAnswered(99))
}

func TestClearRemovesDurableCopy(t *testing.T) {
	ctx := context.Background()
	mirror := store.NewMemoryMirror()
	s := store.NewAnswerStore("k", mirror)

	require.NoError(t, s.Set(ctx, mcqQuestion(), "A"))
	require.NoError(t, s.Clear(ctx))

	require.Equal(t, 0, s.Len())
	_, ok, err := mirror.Load(ctx, "k")
	require.NoError(t, err)
	require.False(t, ok)
}

func TestMemoryMirrorCopiesOnSaveAndLoad(t *testing.T) {
	ctx := context.Background()
	mirror := store.NewMemoryMirror()

	original := map[uint]model.AnswerValue{
		1: {Type: model.MultipleChoice, Choice: "A"},
	}
	require.NoError(t, mirror.Save(ctx, "k", original))
	original[2] = model.AnswerValue{Type: model.TrueFalse, Bool: true}

	stored, ok, err := mirror.Load(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	require.Len(t, stored, 1)
}
