package service

import "time"

// Payloads published on the pubsub topics.

type GigClaimedEvent struct {
	GigID      int64     `json:"gig_id"`
	BusinessID int64     `json:"business_id"`
	ClipperID  int64     `json:"clipper_id"`
	ClaimedAt  time.Time `json:"claimed_at"`
}

type SubmissionCreatedEvent struct {
	SubmissionID   int64  `json:"submission_id"`
	GigID          int64  `json:"gig_id"`
	BusinessID     int64  `json:"business_id"`
	ClipperID      int64  `json:"clipper_id"`
	EditedVideoURL string `json:"edited_video_url"`
}

type CreditEarnedEvent struct {
	CreditID int64     `json:"credit_id"`
	UserID   int64     `json:"user_id"`
	Amount   float64   `json:"amount"`
	Source   string    `json:"source"`
	Expiry   time.Time `json:"expiry"`
}

type PayoutSentEvent struct {
	PayoutID     string  `json:"payout_id"`
	SubmissionID int64   `json:"submission_id"`
	ClipperID    int64   `json:"clipper_id"`
	Amount       float64 `json:"amount"`
}
