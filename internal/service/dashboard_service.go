package service

import (
	"context"
	"math"
	"time"

	"mx70/internal/apperr"
	"mx70/internal/model"
	"mx70/internal/repository"
)

// DashboardService aggregates the role dependent dashboard and its charts
type DashboardService interface {
	Dashboard(ctx context.Context, caller *model.User) (*model.Dashboard, error)
	Analytics(ctx context.Context, caller *model.User, timeframe string) (*model.Analytics, error)
}

type dashboardService struct {
	gigs        repository.GigRepository
	submissions repository.SubmissionRepository
	credits     repository.CreditRepository
	certs       repository.CertificationRepository
	now         func() time.Time
}

func NewDashboardService(gigs repository.GigRepository, submissions repository.SubmissionRepository, credits repository.CreditRepository, certs repository.CertificationRepository, now func() time.Time) DashboardService {
	return &dashboardService{gigs: gigs, submissions: submissions, credits: credits, certs: certs, now: now}
}

func (s *dashboardService) Dashboard(ctx context.Context, caller *model.User) (*model.Dashboard, error) {
	if caller == nil {
		return nil, apperr.New(apperr.ErrUnauthenticated, "Not authenticated")
	}

	credits, err := s.credits.ListCreditsByUser(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	d := &model.Dashboard{
		User:         *caller,
		Credits:      credits,
		TotalCredits: ActiveCreditTotal(credits, s.now()),
	}

	if caller.Role == model.RoleBusiness {
		return d, s.fillBusiness(ctx, d, caller.ID)
	}
	return d, s.fillClipper(ctx, d, caller.ID)
}

// ActiveCreditTotal sums the credits that have not expired at now.
func ActiveCreditTotal(credits []model.Credit, now time.Time) float64 {
	var total float64
	for _, c := range credits {
		if !c.Expired(now) {
			total += c.Amount
		}
	}
	return total
}

func (s *dashboardService) fillBusiness(ctx context.Context, d *model.Dashboard, businessID int64) error {
	gigs, err := s.gigs.ListGigsByBusiness(ctx, businessID)
	if err != nil {
		return err
	}
	ids := make([]int64, len(gigs))
	for i, g := range gigs {
		ids[i] = g.ID
	}
	subs, err := s.submissions.ListSubmissionsByGigIDs(ctx, ids)
	if err != nil {
		return err
	}

	stats := &model.BusinessStats{TotalGigs: len(gigs)}
	for _, sub := range subs {
		stats.TotalViews += sub.Views
		stats.TotalLikes += sub.Likes
	}
	d.Gigs, d.Submissions, d.BusinessStats = gigs, subs, stats
	return nil
}

func (s *dashboardService) fillClipper(ctx context.Context, d *model.Dashboard, clipperID int64) error {
	subs, err := s.submissions.ListSubmissionsByClipper(ctx, clipperID)
	if err != nil {
		return err
	}
	ids := make([]int64, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.GigID)
	}
	gigs, err := s.gigs.ListGigsByIDs(ctx, ids)
	if err != nil {
		return err
	}

	stats := &model.ClipperStats{}
	var views int64
	for _, sub := range subs {
		stats.TotalBonuses += sub.Bonus
		views += sub.Views
		if !sub.Approved {
			stats.PendingApproval++
		}
	}
	for _, g := range gigs {
		if g.Status == model.GigCompleted {
			stats.CompletedGigs++
		}
	}
	stats.TotalEarnings, _, _ = ClipperEarnings(subs)
	if len(gigs) > 0 {
		stats.AverageViewsPerGig = float64(views) / float64(len(gigs))
	}
	d.Gigs, d.Submissions, d.ClipperStats = gigs, subs, stats
	return nil
}

func (s *dashboardService) Analytics(ctx context.Context, caller *model.User, timeframe string) (*model.Analytics, error) {
	if timeframe == "" {
		timeframe = model.DefaultTimeframe
	}
	days, ok := model.TimeframeDays(timeframe)
	if !ok {
		return nil, apperr.Validation("timeframe must be one of 7d, 30d, 90d")
	}
	d, err := s.Dashboard(ctx, caller)
	if err != nil {
		return nil, err
	}
	a := BuildAnalytics(d.Submissions, timeframe, days, s.now())

	if caller.Role == model.RoleBusiness {
		a.Summary = BusinessSummary(d.Gigs, d.Submissions)
		return a, nil
	}
	a.Summary = ClipperSummary(d.Submissions)
	certs, err := s.certs.ListByClipper(ctx, caller.ID)
	if err != nil {
		return nil, err
	}
	for _, c := range certs {
		if c.Completed {
			a.Certifications = append(a.Certifications, c)
		}
	}
	return a, nil
}

// BusinessSummary totals a business's gigs. ROI counts every outcome as worth $10.
func BusinessSummary(gigs []model.Gig, subs []model.Submission) model.AnalyticsSummary {
	sum := model.AnalyticsSummary{TotalGigs: len(gigs)}
	for _, g := range gigs {
		sum.TotalSpent += g.Budget
		switch g.Status {
		case model.GigPending, model.GigClaimed:
			sum.ActiveGigs++
		case model.GigCompleted:
			sum.CompletedGigs++
		}
	}
	addEngagement(&sum, subs)
	if sum.TotalSpent > 0 {
		sum.ROIPercentage = math.Round(float64(sum.TotalOutcomes)*10/sum.TotalSpent*100*100) / 100
	}
	return sum
}

// ClipperSummary totals a clipper's submissions. Completed means approved.
func ClipperSummary(subs []model.Submission) model.AnalyticsSummary {
	sum := model.AnalyticsSummary{TotalGigs: len(subs)}
	sum.TotalEarnings, sum.CompletedGigs, sum.PendingApproval = ClipperEarnings(subs)
	for _, sub := range subs {
		if sub.Approved {
			sum.TotalBonuses += sub.Bonus
		}
	}
	addEngagement(&sum, subs)
	if sum.CompletedGigs > 0 {
		sum.AvgViewsPerGig = float64(sum.TotalViews) / float64(sum.CompletedGigs)
		sum.AvgLikesPerGig = float64(sum.TotalLikes) / float64(sum.CompletedGigs)
	}
	return sum
}

func addEngagement(sum *model.AnalyticsSummary, subs []model.Submission) {
	for _, sub := range subs {
		sum.TotalViews += sub.Views
		sum.TotalLikes += sub.Likes
		sum.TotalOutcomes += sub.Outcomes
	}
}

// BuildAnalytics buckets submissions into one point per day, oldest first, ending today.
func BuildAnalytics(subs []model.Submission, timeframe string, days int, now time.Time) *model.Analytics {
	today := now.UTC().Truncate(24 * time.Hour)
	start := today.AddDate(0, 0, -(days - 1))

	a := &model.Analytics{
		Timeframe:  timeframe,
		Views:      make([]model.Point, days),
		Earnings:   make([]model.Point, days),
		Engagement: make([]model.Point, days),
	}
	for i := 0; i < days; i++ {
		date := start.AddDate(0, 0, i).Format(time.DateOnly)
		a.Views[i].Date, a.Earnings[i].Date, a.Engagement[i].Date = date, date, date
	}
	for _, sub := range subs {
		day := sub.CreatedAt.UTC().Truncate(24 * time.Hour)
		i := int(day.Sub(start).Hours() / 24)
		if day.Before(start) || i >= days {
			continue
		}
		a.Views[i].Value += float64(sub.Views)
		a.Earnings[i].Value += sub.Bonus
		a.Engagement[i].Value += float64(sub.Likes)
	}
	return a
}
