package model

// Dashboard is the role-dependent aggregate shown after login
type Dashboard struct {
	User          User           `json:"user"`
	Gigs          []Gig          `json:"gigs"`
	Submissions   []Submission   `json:"submissions"`
	Credits       []Credit       `json:"credits"`
	TotalCredits  float64        `json:"total_credits"`
	BusinessStats *BusinessStats `json:"business_stats,omitempty"`
	ClipperStats  *ClipperStats  `json:"clipper_stats,omitempty"`
}

// BusinessStats summarizes a business account.
// ROIPercentage is supplied by the backend and passed through untouched.
type BusinessStats struct {
	TotalGigs     int     `json:"total_gigs"`
	TotalViews    int64   `json:"total_views"`
	TotalLikes    int64   `json:"total_likes"`
	ROIPercentage float64 `json:"roi_percentage"`
}

// ClipperStats summarizes a clipper account.
type ClipperStats struct {
	CompletedGigs      int     `json:"completed_gigs"`
	TotalBonuses       float64 `json:"total_bonuses"`
	TotalEarnings      float64 `json:"total_earnings"`
	AverageViewsPerGig float64 `json:"avg_views_per_gig"`
	PendingApproval    int     `json:"pending_approval"`
}

var timeframes = map[string]int{"7d": 7, "30d": 30, "90d": 90}

// TimeframeDays returns the number of days an analytics timeframe covers.
func TimeframeDays(timeframe string) (int, bool) {
	days, ok := timeframes[timeframe]
	return days, ok
}

// DefaultTimeframe is used when the caller does not pick one.
const DefaultTimeframe = "30d"

// Point is one day of a time series.
type Point struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// Analytics holds the daily series behind the dashboard charts
type Analytics struct {
	Timeframe      string           `json:"timeframe"`
	Views          []Point          `json:"views"`
	Earnings       []Point          `json:"earnings"`
	Engagement     []Point          `json:"engagement"`
	Summary        AnalyticsSummary `json:"summary"`
	Certifications []Certification  `json:"certifications,omitempty"`
}

// AnalyticsSummary holds the all-time totals shown above the charts.
// Spend and ROI are business figures, earnings and approval counts clipper ones.
type AnalyticsSummary struct {
	TotalGigs       int     `json:"total_gigs"`
	ActiveGigs      int     `json:"active_gigs,omitempty"`
	CompletedGigs   int     `json:"completed_gigs"`
	PendingApproval int     `json:"pending_approval,omitempty"`
	TotalSpent      float64 `json:"total_spent,omitempty"`
	ROIPercentage   float64 `json:"roi_percentage,omitempty"`
	TotalEarnings   float64 `json:"total_earnings,omitempty"`
	TotalBonuses    float64 `json:"total_bonuses,omitempty"`
	TotalViews      int64   `json:"total_views"`
	TotalLikes      int64   `json:"total_likes"`
	TotalOutcomes   int64   `json:"total_outcomes"`
	AvgViewsPerGig  float64 `json:"avg_views_per_gig,omitempty"`
	AvgLikesPerGig  float64 `json:"avg_likes_per_gig,omitempty"`
}
