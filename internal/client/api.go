// Package client is the data access layer used by the presentation components.
// API has two implementations: Simulated runs the marketplace rules in process
// and HTTP talks to a backend. Which one is used is decided by configuration.
package client

import (
	"context"

	"mx70/internal/model"
)

// Caller identifies who an operation runs as. An empty Token is anonymous.
type Caller struct {
	Token string
}

// API is one operation per marketplace action. Failures carry an apperr kind.
type API interface {
	Authenticate(ctx context.Context, email, password string) (*model.AuthResult, error)
	Register(ctx context.Context, reg model.Registration) (*model.User, error)
	CurrentUser(ctx context.Context, c Caller) (*model.User, error)

	CreateGig(ctx context.Context, c Caller, in model.GigInput) (*model.Gig, error)
	ListAvailableGigs(ctx context.Context, c Caller) ([]model.Gig, error)
	ListMyGigs(ctx context.Context, c Caller) ([]model.Gig, error)
	ClaimGig(ctx context.Context, c Caller, gigID int64) (*model.Gig, error)
	SubmitVideo(ctx context.Context, c Caller, gigID int64, in model.SubmissionInput) (*model.Submission, error)
	RecordMetrics(ctx context.Context, c Caller, submissionID int64, in model.MetricsInput) (*model.Submission, error)

	ListLessons(ctx context.Context, c Caller) ([]model.Lesson, error)
	GetLesson(ctx context.Context, c Caller, lessonID int64) (*model.Lesson, error)
	CompleteQuiz(ctx context.Context, c Caller, lessonID int64, answers []int) (*model.QuizResult, error)
	ListCertifications(ctx context.Context, c Caller) ([]model.Certification, error)
	CheckEligibility(ctx context.Context, c Caller) (*model.Eligibility, error)

	Dashboard(ctx context.Context, c Caller) (*model.Dashboard, error)
	Analytics(ctx context.Context, c Caller, timeframe string) (*model.Analytics, error)
	SubmitSelfPromo(ctx context.Context, c Caller, in model.SelfPromoInput) (*model.SelfPromoResult, error)

	ApproveSubmission(ctx context.Context, c Caller, submissionID int64) (*model.Approval, error)
	Payout(ctx context.Context, c Caller, submissionID int64) (*model.Payout, error)
	Balance(ctx context.Context, c Caller) (*model.Balance, error)

	UploadFile(ctx context.Context, c Caller, kind model.UploadKind, f model.UploadFile) (*model.UploadResult, error)
}
