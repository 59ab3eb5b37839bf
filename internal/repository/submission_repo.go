package repository

import (
	"context"
	"sync"

	"mx70/internal/model"
)

type SubmissionRepository interface {
	CreateSubmission(ctx context.Context, s *model.Submission) error
	GetSubmissionByID(ctx context.Context, id int64) (*model.Submission, error)
	ListSubmissionsByGigIDs(ctx context.Context, gigIDs []int64) ([]model.Submission, error)
	ListSubmissionsByClipper(ctx context.Context, clipperID int64) ([]model.Submission, error)
	// UpdateMetrics stores new engagement numbers with the bonus computed for them.
	UpdateMetrics(ctx context.Context, id int64, m model.MetricsInput, bonus float64) (*model.Submission, error)
	ApproveSubmission(ctx context.Context, id int64) (*model.Submission, error)
	// BeginPayout marks an approved, unpaid submission as processing. ok is false
	// when the submission is not approved or a payout already started.
	BeginPayout(ctx context.Context, id int64) (sub *model.Submission, ok bool, err error)
	FinishPayout(ctx context.Context, id int64, payoutID string) error
	// AbortPayout releases a processing submission so the payout can be retried.
	AbortPayout(ctx context.Context, id int64) error
}

type submissionRepo struct {
	mu     sync.RWMutex
	rows   []model.Submission
	lastID int64
}

func (r *submissionRepo) load(rows []model.Submission) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rows = append([]model.Submission(nil), rows...)
	r.lastID = maxID(r.rows, func(s model.Submission) int64 { return s.ID })
}

func (r *submissionRepo) CreateSubmission(ctx context.Context, s *model.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.lastID++
	s.ID = r.lastID
	r.rows = append(r.rows, *s)
	return nil
}

func (r *submissionRepo) GetSubmissionByID(ctx context.Context, id int64) (*model.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, s := range r.rows {
		if s.ID == id {
			return &s, nil
		}
	}
	return nil, nil
}

func (r *submissionRepo) ListSubmissionsByGigIDs(ctx context.Context, gigIDs []int64) ([]model.Submission, error) {
	set := make(map[int64]struct{}, len(gigIDs))
	for _, id := range gigIDs {
		set[id] = struct{}{}
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Submission{}
	for _, s := range r.rows {
		if _, ok := set[s.GigID]; ok {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *submissionRepo) ListSubmissionsByClipper(ctx context.Context, clipperID int64) ([]model.Submission, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := []model.Submission{}
	for _, s := range r.rows {
		if s.ClipperID == clipperID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *submissionRepo) UpdateMetrics(ctx context.Context, id int64, m model.MetricsInput, bonus float64) (*model.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		s := &r.rows[i]
		if s.ID != id {
			continue
		}
		s.Views = m.Views
		s.Likes = m.Likes
		s.Outcomes = m.Outcomes
		s.Bonus = bonus
		out := *s
		return &out, nil
	}
	return nil, nil
}

// update runs fn on the row with id under the write lock and returns a copy of the result.
func (r *submissionRepo) update(id int64, fn func(s *model.Submission) bool) (*model.Submission, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range r.rows {
		s := &r.rows[i]
		if s.ID != id {
			continue
		}
		ok := fn(s)
		out := *s
		return &out, ok
	}
	return nil, false
}

func (r *submissionRepo) ApproveSubmission(ctx context.Context, id int64) (*model.Submission, error) {
	sub, _ := r.update(id, func(s *model.Submission) bool {
		s.Approved = true
		return true
	})
	return sub, nil
}

func (r *submissionRepo) BeginPayout(ctx context.Context, id int64) (*model.Submission, bool, error) {
	sub, ok := r.update(id, func(s *model.Submission) bool {
		if !s.Approved || s.PayoutStatus != "" {
			return false
		}
		s.PayoutStatus = model.PayoutProcessing
		return true
	})
	return sub, ok, nil
}

func (r *submissionRepo) FinishPayout(ctx context.Context, id int64, payoutID string) error {
	r.update(id, func(s *model.Submission) bool {
		s.PayoutStatus, s.PayoutID = model.PayoutPaid, payoutID
		return true
	})
	return nil
}

func (r *submissionRepo) AbortPayout(ctx context.Context, id int64) error {
	r.update(id, func(s *model.Submission) bool {
		if s.PayoutStatus == model.PayoutProcessing {
			s.PayoutStatus = ""
		}
		return true
	})
	return nil
}
