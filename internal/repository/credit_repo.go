package repository

import (
	"context"
	"sync"

	"mx70/internal/model"
)

// CreditRepository is append-only.
type CreditRepository interface {
	CreateCredit(ctx context.Context, c *model.Credit) error
	ListCreditsByUser(ctx context.Context, userID int64) ([]model.Credit, error)
}

type creditRepo struct {
	mu     sync.RWMutex
	rows   []model.Credit
	lastID int64
}

func (r *creditRepo) load(rows []model.Credit) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append([]model.Credit(nil), rows...)
	r.lastID = maxID(r.rows, func(c model.Credit) int64 { return c.ID })
}

func (r *creditRepo) CreateCredit(ctx context.Context, c *model.Credit) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	c.ID = r.lastID
	r.rows = append(r.rows, *c)
	return nil
}

func (r *creditRepo) ListCreditsByUser(ctx context.Context, userID int64) ([]model.Credit, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Credit{}
	for _, c := range r.rows {
		if c.UserID == userID {
			out = append(out, c)
		}
	}
	return out, nil
}
