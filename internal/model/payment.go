package model

import "math"

const (
	// BasePay is what a clipper earns for an approved submission before bonus.
	BasePay = 100.0
	// ClipperFeeRate is the platform share taken from every payout.
	ClipperFeeRate = 0.12
)

// Payout states of a submission.
const (
	PayoutProcessing = "processing"
	PayoutPaid       = "paid"
)

// Earnings splits what an approved submission pays out.
type Earnings struct {
	BasePay     float64 `json:"base_pay"`
	Bonus       float64 `json:"bonus"`
	PlatformFee float64 `json:"platform_fee"`
	Amount      float64 `json:"amount"`
}

// EarningsFor applies the platform fee to base pay plus bonus, rounded to cents.
func EarningsFor(bonus float64) Earnings {
	gross := BasePay + bonus
	fee := math.Round(gross*ClipperFeeRate*100) / 100
	return Earnings{BasePay: BasePay, Bonus: bonus, PlatformFee: fee, Amount: math.Round((gross-fee)*100) / 100}
}

// Approval confirms a business accepted a submission.
type Approval struct {
	SubmissionID   int64  `json:"submission_id"`
	ReadyForPayout bool   `json:"ready_for_payout"`
	Message        string `json:"message"`
}

// Payout is a transfer of earnings to the clipper behind a submission.
type Payout struct {
	ID           string `json:"payout_id"`
	SubmissionID int64  `json:"submission_id"`
	Earnings
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Balance is the money summary of an account. Business and clipper fields are disjoint.
type Balance struct {
	Role            Role    `json:"role"`
	CreditsBalance  float64 `json:"credits_balance,omitempty"`
	TotalSpent      float64 `json:"total_spent,omitempty"`
	ActiveGigs      int     `json:"active_gigs,omitempty"`
	TotalEarnings   float64 `json:"total_earnings,omitempty"`
	CompletedGigs   int     `json:"completed_gigs,omitempty"`
	PendingApproval int     `json:"pending_approval,omitempty"`
}

// Eligibility tells a clipper whether they hold the certification gigs ask for.
type Eligibility struct {
	Eligible              bool   `json:"eligible"`
	CertificationRequired string `json:"certification_required"`
	Message               string `json:"message"`
}
