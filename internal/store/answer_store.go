package store

import (
	"context"
	"fmt"

	"github.com/hnthap/classgate/internal/model"
)

// AnswerStore holds the student's current answers for one attempt, keyed by
// question ID. Absence of a key means "unanswered". Every successful Set
// echoes the full mapping to the durable mirror, so at most the one write
// racing an unexpected termination can be lost.
//
// The store is not safe for concurrent use on its own; the owning session
// machine serializes access.
type AnswerStore struct {
	key     string
	mirror  Mirror
	answers map[uint]model.AnswerValue
}

// NewAnswerStore creates an empty store mirrored under the given attempt key.
func NewAnswerStore(key string, mirror Mirror) *AnswerStore {
	return &AnswerStore{
		key:     key,
		mirror:  mirror,
		answers: make(map[uint]model.AnswerValue),
	}
}

// Set validates raw against the question's declared type, upserts the answer
// and writes the full mapping through to the mirror. On a mirror failure the
// in-memory answer is kept and the error reported.
func (s *AnswerStore) Set(ctx context.Context, q model.Question, raw any) error {
	value, err := model.NewAnswerValue(q, raw)
	if err != nil {
		return err
	}
	s.answers[q.ID] = value
	if err := s.mirror.Save(ctx, s.key, s.answers); err != nil {
		return fmt.Errorf("mirror answers for %s: %w", s.key, err)
	}
	return nil
}

// IsAnswered reports whether an answer was explicitly set for the question.
// A false boolean or an empty short answer still counts as answered.
func (s *AnswerStore) IsAnswered(questionID uint) bool {
	_, ok := s.answers[questionID]
	return ok
}

func (s *AnswerStore) Get(questionID uint) (model.AnswerValue, bool) {
	v, ok := s.answers[questionID]
	return v, ok
}

func (s *AnswerStore) Len() int {
	return len(s.answers)
}

// Snapshot returns a copy of the current mapping.
func (s *AnswerStore) Snapshot() map[uint]model.AnswerValue {
	copied := make(map[uint]model.AnswerValue, len(s.answers))
	for id, v := range s.answers {
		copied[id] = v
	}
	return copied
}

// Wire returns the mapping in the shape the grading endpoint expects.
func (s *AnswerStore) Wire() map[uint]any {
	payload := make(map[uint]any, len(s.answers))
	for id, v := range s.answers {
		payload[id] = v.Wire()
	}
	return payload
}

// Rehydrate replaces the in-memory mapping with the mirrored copy, if one
// exists. Answers whose question ID fails keep are dropped: the quiz may have
// been edited since the mirror was written. A nil keep accepts everything.
// Returns the number of recovered answers.
func (s *AnswerStore) Rehydrate(ctx context.Context, keep func(questionID uint) bool) (int, error) {
	stored, ok, err := s.mirror.Load(ctx, s.key)
	if err != nil {
		return 0, fmt.Errorf("load answer mirror for %s: %w", s.key, err)
	}
	if !ok {
		return 0, nil
	}
	if keep != nil {
		for id := range stored {
			if !keep(id) {
				delete(stored, id)
			}
		}
	}
	s.answers = stored
	return len(stored), nil
}

// Clear empties the mapping and removes the durable copy.
func (s *AnswerStore) Clear(ctx context.Context) error {
	s.answers = make(map[uint]model.AnswerValue)
	if err := s.mirror.Delete(ctx, s.key); err != nil {
		return fmt.Errorf("delete answer mirror for %s: %w", s.key, err)
	}
	return nil
}
