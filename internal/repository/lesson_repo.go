package repository

import (
	"context"
	"sync"

	"mx70/internal/model"
)

// LessonRepository is read-only; lessons come from fixtures.
type LessonRepository interface {
	ListLessons(ctx context.Context) ([]model.Lesson, error)
	GetLessonByID(ctx context.Context, id int64) (*model.Lesson, error)
}

type lessonRepo struct {
	mu   sync.RWMutex
	rows []model.Lesson
}

func (r *lessonRepo) load(rows []model.Lesson) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append([]model.Lesson(nil), rows...)
}

func (r *lessonRepo) ListLessons(ctx context.Context) ([]model.Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]model.Lesson{}, r.rows...), nil
}

func (r *lessonRepo) GetLessonByID(ctx context.Context, id int64) (*model.Lesson, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, l := range r.rows {
		if l.ID == id {
			return &l, nil
		}
	}
	return nil, nil
}
