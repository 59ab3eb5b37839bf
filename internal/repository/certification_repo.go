package repository

import (
	"context"
	"sync"
	"time"

	"mx70/internal/model"
)

type CertificationRepository interface {
	// Issue records a completed certification unless the clipper already holds
	// one at that level. created reports whether a new row was written.
	Issue(ctx context.Context, clipperID int64, level string, at time.Time) (cert *model.Certification, created bool, err error)
	ListByClipper(ctx context.Context, clipperID int64) ([]model.Certification, error)
}

type certificationRepo struct {
	mu     sync.RWMutex
	rows   []model.Certification
	lastID int64
}

func (r *certificationRepo) load(rows []model.Certification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append([]model.Certification(nil), rows...)
	r.lastID = maxID(r.rows, func(c model.Certification) int64 { return c.ID })
}

func (r *certificationRepo) Issue(ctx context.Context, clipperID int64, level string, at time.Time) (*model.Certification, bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, c := range r.rows {
		if c.ClipperID == clipperID && c.Level == level {
			return &c, false, nil
		}
	}
	r.lastID++
	c := model.Certification{
		ID:          r.lastID,
		ClipperID:   clipperID,
		Level:       level,
		Completed:   true,
		CompletedAt: &at,
	}
	r.rows = append(r.rows, c)
	return &c, true, nil
}

func (r *certificationRepo) ListByClipper(ctx context.Context, clipperID int64) ([]model.Certification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Certification{}
	for _, c := range r.rows {
		if c.ClipperID == clipperID {
			out = append(out, c)
		}
	}
	return out, nil
}
