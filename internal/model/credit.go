package model

import "time"

// Self-promotion rules. A qualifying post earns the full amount and nothing less.
const (
	CreditSourceSelfPromo = "self_promo"
	SelfPromoCredit       = 10.0
	SelfPromoMinViews     = 300
	SelfPromoMinLikes     = 30
	CreditLifetimeMonths  = 6
	// SelfPromoMonthlyCap is shown to businesses but not enforced.
	SelfPromoMonthlyCap = 15.0
)

// Credit is an append-only ledger entry owned by a user
type Credit struct {
	ID        int64     `json:"id" yaml:"id"`
	UserID    int64     `json:"user_id" yaml:"user_id"`
	Amount    float64   `json:"amount" yaml:"amount"`
	Source    string    `json:"source" yaml:"source"`
	Expiry    time.Time `json:"expiry" yaml:"expiry"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`
}

// Expired reports whether the credit no longer counts toward a balance.
func (c Credit) Expired(now time.Time) bool {
	return !now.Before(c.Expiry)
}

// SelfPromoInput describes an organic post submitted for credit.
type SelfPromoInput struct {
	PostLink string `json:"post_link" validate:"required,http_url"`
	Views    int64  `json:"views" validate:"gte=0"`
	Likes    int64  `json:"likes" validate:"gte=0"`
}

// SelfPromoResult tells the business whether the post earned credit.
type SelfPromoResult struct {
	CreditEarned float64    `json:"credit_earned"`
	Message      string     `json:"message"`
	Expiry       *time.Time `json:"expiry,omitempty"`
}
