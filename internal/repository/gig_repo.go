package repository

import (
	"context"
	"errors"
	"sync"

	"mx70/internal/model"
)

// ErrStaleStatus is returned by Transition when the gig is no longer in the expected status.
var ErrStaleStatus = errors.New("gig status changed")

// GigRepository defines the interface for interacting with gig data
type GigRepository interface {
	CreateGig(ctx context.Context, g *model.Gig) error
	GetGigByID(ctx context.Context, id int64) (*model.Gig, error)
	ListGigsByStatus(ctx context.Context, status model.GigStatus) ([]model.Gig, error)
	ListGigsByBusiness(ctx context.Context, businessID int64) ([]model.Gig, error)
	ListGigsByClaimant(ctx context.Context, clipperID int64) ([]model.Gig, error)
	ListGigsByIDs(ctx context.Context, ids []int64) ([]model.Gig, error)
	// Transition moves a gig from one status to the next in a single step.
	// It returns (nil, nil) when the gig does not exist and the current gig
	// with ErrStaleStatus when its status is not from.
	Transition(ctx context.Context, id int64, from, to model.GigStatus, claimedBy *int64) (*model.Gig, error)
}

type gigRepo struct {
	mu     sync.RWMutex
	rows   []model.Gig
	lastID int64
}

func (r *gigRepo) load(rows []model.Gig) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = make([]model.Gig, len(rows))
	for i, g := range rows {
		r.rows[i] = cloneGig(g)
	}
	r.lastID = maxID(r.rows, func(g model.Gig) int64 { return g.ID })
}

func cloneGig(g model.Gig) model.Gig {
	if g.RawFootageURL != nil {
		v := *g.RawFootageURL
		g.RawFootageURL = &v
	}
	if g.ClaimedBy != nil {
		v := *g.ClaimedBy
		g.ClaimedBy = &v
	}
	return g
}

func (r *gigRepo) CreateGig(ctx context.Context, g *model.Gig) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	g.ID = r.lastID
	r.rows = append(r.rows, cloneGig(*g))
	return nil
}

func (r *gigRepo) GetGigByID(ctx context.Context, id int64) (*model.Gig, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, g := range r.rows {
		if g.ID == id {
			out := cloneGig(g)
			return &out, nil
		}
	}
	return nil, nil
}

func (r *gigRepo) filter(keep func(model.Gig) bool) []model.Gig {
	r.mu.RLock()
	defer r.mu.RUnlock()
	gigs := []model.Gig{}
	for _, g := range r.rows {
		if keep(g) {
			gigs = append(gigs, cloneGig(g))
		}
	}
	return gigs
}

func (r *gigRepo) ListGigsByStatus(ctx context.Context, status model.GigStatus) ([]model.Gig, error) {
	return r.filter(func(g model.Gig) bool { return g.Status == status }), nil
}

func (r *gigRepo) ListGigsByBusiness(ctx context.Context, businessID int64) ([]model.Gig, error) {
	return r.filter(func(g model.Gig) bool { return g.BusinessID == businessID }), nil
}

func (r *gigRepo) ListGigsByClaimant(ctx context.Context, clipperID int64) ([]model.Gig, error) {
	return r.filter(func(g model.Gig) bool { return g.ClaimedBy != nil && *g.ClaimedBy == clipperID }), nil
}

func (r *gigRepo) ListGigsByIDs(ctx context.Context, ids []int64) ([]model.Gig, error) {
	set := make(map[int64]struct{}, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return r.filter(func(g model.Gig) bool {
		_, ok := set[g.ID]
		return ok
	}), nil
}

func (r *gigRepo) Transition(ctx context.Context, id int64, from, to model.GigStatus, claimedBy *int64) (*model.Gig, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		g := &r.rows[i]
		if g.ID != id {
			continue
		}
		if g.Status != from {
			out := cloneGig(*g)
			return &out, ErrStaleStatus
		}
		g.Status = to
		if claimedBy != nil {
			v := *claimedBy
			g.ClaimedBy = &v
		}
		out := cloneGig(*g)
		return &out, nil
	}
	return nil, nil
}
