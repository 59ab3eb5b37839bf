package ui

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"mx70/internal/model"
	"mx70/internal/upload"
)

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func money(v float64) string {
	return fmt.Sprintf("$%.2f", v)
}

func orDash(s *string) string {
	if s == nil || *s == "" {
		return "-"
	}
	return *s
}

// Nav lists the commands available to the signed-in role.
func Nav(w io.Writer, u *model.User) {
	if u == nil {
		fmt.Fprintln(w, "Not signed in. Commands: login, signup, gigs, lessons, lesson <id>, help, quit")
		return
	}
	fmt.Fprintf(w, "Signed in as %s (%s)\n", u.Email, u.Role.Label())
	common := []string{"dashboard", "analytics [7d|30d|90d]", "gigs", "my-gigs", "lessons", "lesson <id>"}
	var extra []string
	switch u.Role {
	case model.RoleBusiness:
		extra = []string{"post-gig", "self-promo", "metrics <submission id>", "approve <submission id>", "payout <submission id>", "balance"}
	case model.RoleClipper:
		extra = []string{"claim <gig id>", "submit <gig id>", "quiz <lesson id>", "certifications", "eligibility", "metrics <submission id>", "balance"}
	}
	fmt.Fprintf(w, "Commands: %s, %s, logout, help, quit\n", strings.Join(common, ", "), strings.Join(extra, ", "))
}

// Marketplace renders gigs as a table.
func Marketplace(w io.Writer, gigs []model.Gig) {
	if len(gigs) == 0 {
		fmt.Fprintln(w, "No gigs available right now.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tBUDGET\tGOAL\tSTORY\tSTATUS\tRAW FOOTAGE")
	for _, g := range gigs {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", g.ID, money(g.Budget), g.Goals, g.StoryType, g.Status, orDash(g.RawFootageURL))
	}
	tw.Flush()
}

func submissions(w io.Writer, subs []model.Submission) {
	if len(subs) == 0 {
		fmt.Fprintln(w, "No submissions yet.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tGIG\tVIEWS\tLIKES\tOUTCOMES\tBONUS\tAPPROVED\tPOST")
	for _, s := range subs {
		approved := "no"
		if s.Approved {
			approved = "yes"
		}
		fmt.Fprintf(tw, "%d\t%d\t%d\t%d\t%d\t%s\t%s\t%s\n", s.ID, s.GigID, s.Views, s.Likes, s.Outcomes, money(s.Bonus), approved, s.SocialPostLink)
	}
	tw.Flush()
}

// Dashboard renders the business or clipper dashboard.
func Dashboard(w io.Writer, d *model.Dashboard) {
	fmt.Fprintf(w, "Dashboard for %s (%s)\n\n", d.User.Email, d.User.Role.Label())

	tw := table(w)
	switch {
	case d.BusinessStats != nil:
		s := d.BusinessStats
		fmt.Fprintf(tw, "Gigs posted\t%d\n", s.TotalGigs)
		fmt.Fprintf(tw, "Total views\t%d\n", s.TotalViews)
		fmt.Fprintf(tw, "Total likes\t%d\n", s.TotalLikes)
		fmt.Fprintf(tw, "ROI\t%.1f%%\n", s.ROIPercentage)
		fmt.Fprintf(tw, "Credits\t%s\n", money(d.TotalCredits))
	case d.ClipperStats != nil:
		s := d.ClipperStats
		fmt.Fprintf(tw, "Completed gigs\t%d\n", s.CompletedGigs)
		fmt.Fprintf(tw, "Total earnings\t%s\n", money(s.TotalEarnings))
		fmt.Fprintf(tw, "Total bonuses\t%s\n", money(s.TotalBonuses))
		fmt.Fprintf(tw, "Avg views per gig\t%.0f\n", s.AverageViewsPerGig)
		fmt.Fprintf(tw, "Pending approval\t%d\n", s.PendingApproval)
	}
	tw.Flush()

	fmt.Fprintln(w, "\nGigs")
	Marketplace(w, d.Gigs)
	fmt.Fprintln(w, "\nSubmissions")
	submissions(w, d.Submissions)
}

// Lessons renders the lesson catalogue.
func Lessons(w io.Writer, lessons []model.Lesson) {
	if len(lessons) == 0 {
		fmt.Fprintln(w, "No lessons published.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "ID\tTITLE\tQUESTIONS")
	for _, l := range lessons {
		fmt.Fprintf(tw, "%d\t%s\t%d\n", l.ID, l.Title, len(l.Quiz.Questions))
	}
	tw.Flush()
}

// Lesson renders the lesson body followed by its quiz.
func Lesson(w io.Writer, l *model.Lesson) {
	fmt.Fprintf(w, "%s\n%s\n\n%s\n", l.Title, strings.Repeat("=", len(l.Title)), strings.TrimSpace(l.Content))
	if len(l.Quiz.Questions) == 0 {
		return
	}
	fmt.Fprintf(w, "\nQuiz (%d questions, %.0f%% to pass)\n", len(l.Quiz.Questions), model.QuizPassPercent)
	for i, q := range l.Quiz.Questions {
		fmt.Fprintf(w, "%d. %s\n", i+1, q.Prompt)
		for j, opt := range q.Options {
			fmt.Fprintf(w, "   %c) %s\n", 'a'+j, opt)
		}
	}
}

func QuizResult(w io.Writer, r *model.QuizResult) {
	verdict := "Not passed, review the lesson and retake the quiz."
	if r.Passed {
		verdict = "Passed!"
	}
	fmt.Fprintf(w, "Score %.1f%% (%d of %d correct). %s\n", r.Score, r.CorrectAnswers, r.TotalQuestions, verdict)
	if r.CertificationEarned {
		fmt.Fprintln(w, "You earned the basic clipper certification.")
	}
}

func Certifications(w io.Writer, certs []model.Certification) {
	if len(certs) == 0 {
		fmt.Fprintln(w, "No certifications yet. Pass a lesson quiz to earn one.")
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "LEVEL\tCOMPLETED")
	for _, c := range certs {
		at := "-"
		if c.CompletedAt != nil {
			at = c.CompletedAt.Format("2006-01-02")
		}
		fmt.Fprintf(tw, "%s\t%s\n", c.Level, at)
	}
	tw.Flush()
}

// Analytics renders the role's summary then the three daily series side by side.
func Analytics(w io.Writer, a *model.Analytics, role model.Role) {
	fmt.Fprintf(w, "Analytics (%s)\n", a.Timeframe)
	sum := a.Summary
	tw := table(w)
	if role == model.RoleBusiness {
		fmt.Fprintf(tw, "Gigs\t%d (%d active, %d completed)\n", sum.TotalGigs, sum.ActiveGigs, sum.CompletedGigs)
		fmt.Fprintf(tw, "Total spent\t%s\n", money(sum.TotalSpent))
		fmt.Fprintf(tw, "ROI\t%.1f%%\n", sum.ROIPercentage)
	} else {
		CertificationStatus(w, a.Certifications)
		fmt.Fprintf(tw, "Total earnings\t%s\n", money(sum.TotalEarnings))
		fmt.Fprintf(tw, "Completed gigs\t%d\n", sum.CompletedGigs)
		fmt.Fprintf(tw, "Pending approval\t%d\n", sum.PendingApproval)
	}
	fmt.Fprintf(tw, "Views / likes / outcomes\t%d / %d / %d\n", sum.TotalViews, sum.TotalLikes, sum.TotalOutcomes)
	tw.Flush()
	fmt.Fprintln(w)

	tw = table(w)
	fmt.Fprintln(tw, "DATE\tVIEWS\tEARNINGS\tLIKES")
	for i, p := range a.Views {
		var earned, likes float64
		if i < len(a.Earnings) {
			earned = a.Earnings[i].Value
		}
		if i < len(a.Engagement) {
			likes = a.Engagement[i].Value
		}
		fmt.Fprintf(tw, "%s\t%.0f\t%s\t%.0f\n", p.Date, p.Value, money(earned), likes)
	}
	tw.Flush()
}

// CertificationStatus is the one-line certification summary of a clipper.
func CertificationStatus(w io.Writer, certs []model.Certification) {
	if len(certs) > 0 {
		fmt.Fprintln(w, "You're certified and eligible to claim gigs!")
		return
	}
	fmt.Fprintln(w, "Complete lessons to get certified. Run `lessons` to start learning.")
}

func Eligibility(w io.Writer, e *model.Eligibility) {
	if e.Eligible {
		fmt.Fprintln(w, e.Message)
		return
	}
	fmt.Fprintf(w, "Not eligible yet: %s (requires %s certification).\n", e.Message, e.CertificationRequired)
}

func Balance(w io.Writer, b *model.Balance) {
	tw := table(w)
	if b.Role == model.RoleBusiness {
		fmt.Fprintf(tw, "Credits\t%s\n", money(b.CreditsBalance))
		fmt.Fprintf(tw, "Total spent\t%s\n", money(b.TotalSpent))
		fmt.Fprintf(tw, "Active gigs\t%d\n", b.ActiveGigs)
	} else {
		fmt.Fprintf(tw, "Total earnings\t%s\n", money(b.TotalEarnings))
		fmt.Fprintf(tw, "Approved submissions\t%d\n", b.CompletedGigs)
		fmt.Fprintf(tw, "Pending approval\t%d\n", b.PendingApproval)
	}
	tw.Flush()
}

// Payout shows how a payout was split.
func Payout(w io.Writer, p *model.Payout) {
	fmt.Fprintf(w, "Paid %s for submission %d (%s).\n", money(p.Amount), p.SubmissionID, p.ID)
	fmt.Fprintf(w, "Base %s + bonus %s - platform fee %s\n", money(p.BasePay), money(p.Bonus), money(p.PlatformFee))
}

func SelfPromoResult(w io.Writer, r *model.SelfPromoResult) {
	if r.CreditEarned > 0 {
		fmt.Fprintf(w, "Earned %s credit", money(r.CreditEarned))
		if r.Expiry != nil {
			fmt.Fprintf(w, ", expires %s", r.Expiry.Format("2006-01-02"))
		}
		fmt.Fprintln(w, ".")
	} else {
		fmt.Fprintln(w, "No credit earned.")
	}
	if r.Message != "" {
		fmt.Fprintln(w, r.Message)
	}
}

// Upload reports where a file was stored.
func Upload(w io.Writer, name string, size int64, r *model.UploadResult) {
	fmt.Fprintf(w, "Uploaded %s (%s): %s\n", name, upload.HumanSize(size), r.URL)
}
