package client

import (
	"context"
	"time"

	"mx70/internal/model"
	"mx70/internal/service"
	"mx70/internal/upload"
)

// SimOptions tunes the artificial network delay of the simulation.
type SimOptions struct {
	Latency       time.Duration
	UploadLatency time.Duration
	Policy        upload.Policy
}

// Simulated serves every operation from in-process services after a delay.
type Simulated struct {
	svc  *service.Services
	opts SimOptions
}

var _ API = (*Simulated)(nil)

func NewSimulated(svc *service.Services, opts SimOptions) *Simulated {
	return &Simulated{svc: svc, opts: opts}
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// caller waits out the latency then resolves the token.
func (s *Simulated) caller(ctx context.Context, c Caller) (*model.User, error) {
	if err := sleep(ctx, s.opts.Latency); err != nil {
		return nil, err
	}
	return s.svc.Auth.Resolve(ctx, c.Token)
}

// optionalCaller allows anonymous use but rejects a token that does not resolve.
func (s *Simulated) optionalCaller(ctx context.Context, c Caller) (*model.User, error) {
	if c.Token == "" {
		return nil, sleep(ctx, s.opts.Latency)
	}
	return s.caller(ctx, c)
}

func (s *Simulated) Authenticate(ctx context.Context, email, password string) (*model.AuthResult, error) {
	if err := sleep(ctx, s.opts.Latency); err != nil {
		return nil, err
	}
	return s.svc.Auth.Authenticate(ctx, email, password)
}

func (s *Simulated) Register(ctx context.Context, reg model.Registration) (*model.User, error) {
	if err := sleep(ctx, s.opts.Latency); err != nil {
		return nil, err
	}
	return s.svc.Auth.Register(ctx, reg)
}

func (s *Simulated) CurrentUser(ctx context.Context, c Caller) (*model.User, error) {
	return s.caller(ctx, c)
}

func (s *Simulated) CreateGig(ctx context.Context, c Caller, in model.GigInput) (*model.Gig, error) {
	u, err := s.caller(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.svc.Gigs.CreateGig(ctx, u, in)
}

func (s *Simulated) ListAvailableGigs(ctx context.Context, c Caller) ([]model.Gig, error) {
	if _, err := s.optionalCaller(ctx, c); err != nil {
		return nil, err
	}
	return s.svc.Gigs.ListAvailable(ctx)
}

func (s *Simulated) ListMyGigs(ctx context.Context, c Caller) ([]model.Gig, error) {
	u, err := s.caller(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.svc.Gigs.ListMine(ctx, u)
}

func (s *Simulated) ClaimGig(ctx context.Context, c Caller, gigID int64) (*model.Gig, error) {
	u, err := s.caller(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.svc.Gigs.ClaimGig(ctx, u, gigID)
}

func (s *Simulated) SubmitVideo(ctx context.Context, c Caller, gigID int64, in model.SubmissionInput) (*model.Submission, error) {
	u, err := s.caller(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.svc.Gigs.SubmitVideo(ctx, u, gigID, in)
}

func (s *Simulated) RecordMetrics(ctx context.Context, c Caller, submissionID int64, in model.MetricsInput) (*model.Submission, error) {
	u, err := s.caller(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.svc.Gigs.RecordMetrics(ctx, u, submissionID, in)
}

func (s *Simulated) ListLessons(ctx context.Context, c Caller) ([]model.Lesson, error) {
	if _, err := s.optionalCaller(ctx, c); err != nil {
		return nil, err
	}
	return s.svc.Lessons.ListLessons(ctx)
}

func (s *Simulated) GetLesson(ctx context.Context, c Caller, lessonID int64) (*model.Lesson, error) {
	if _, err := s.optionalCaller(ctx, c); err != nil {
		return nil, err
	}
	return s.svc.Lessons.GetLesson(ctx, lessonID)
}

func (s *Simulated) CompleteQuiz(ctx context.Context, c Caller, lessonID int64, answers []int) (*model.QuizResult, error) {
	u, err := s.optionalCaller(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.svc.Lessons.CompleteQuiz(ctx, u, lessonID, answers)
}

func (s *Simulated) ListCertifications(ctx context.Context, c Caller) ([]model.Certification, error) {
	u, err := s.caller(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.svc.Lessons.ListCertifications(ctx, u)
}

func (s *Simulated) CheckEligibility(ctx context.Context, c Caller) (*model.Eligibility, error) {
	u, err := s.caller(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.svc.Lessons.CheckEligibility(ctx, u)
}

func (s *Simulated) Dashboard(ctx context.Context, c Caller) (*model.Dashboard, error) {
	u, err := s.caller(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.svc.Dashboard.Dashboard(ctx, u)
}

func (s *Simulated) Analytics(ctx context.Context, c Caller, timeframe string) (*model.Analytics, error) {
	u, err := s.caller(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.svc.Dashboard.Analytics(ctx, u, timeframe)
}

func (s *Simulated) SubmitSelfPromo(ctx context.Context, c Caller, in model.SelfPromoInput) (*model.SelfPromoResult, error) {
	u, err := s.caller(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.svc.Promo.SubmitSelfPromo(ctx, u, in)
}

func (s *Simulated) ApproveSubmission(ctx context.Context, c Caller, submissionID int64) (*model.Approval, error) {
	u, err := s.caller(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.svc.Payments.ApproveSubmission(ctx, u, submissionID)
}

func (s *Simulated) Payout(ctx context.Context, c Caller, submissionID int64) (*model.Payout, error) {
	u, err := s.caller(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.svc.Payments.Payout(ctx, u, submissionID)
}

func (s *Simulated) Balance(ctx context.Context, c Caller) (*model.Balance, error) {
	u, err := s.caller(ctx, c)
	if err != nil {
		return nil, err
	}
	return s.svc.Payments.Balance(ctx, u)
}

// UploadFile checks size and kind before the simulated transfer starts.
func (s *Simulated) UploadFile(ctx context.Context, c Caller, kind model.UploadKind, f model.UploadFile) (*model.UploadResult, error) {
	if err := s.opts.Policy.CheckSize(f.Size); err != nil {
		return nil, err
	}
	if err := s.opts.Policy.CheckName(kind, f.Name); err != nil {
		return nil, err
	}
	if err := sleep(ctx, s.opts.UploadLatency); err != nil {
		return nil, err
	}
	return s.svc.Uploads.Upload(ctx, kind, f)
}
