package model

import "time"

// Submission is the work a clipper delivers for a claimed gig
type Submission struct {
	ID             int64     `json:"id" yaml:"id"`
	GigID          int64     `json:"gig_id" yaml:"gig_id"`
	ClipperID      int64     `json:"clipper_id" yaml:"clipper_id"`
	EditedVideoURL string    `json:"edited_video_url" yaml:"edited_video_url"`
	SocialPostLink string    `json:"social_post_link" yaml:"social_post_link"`
	Views          int64     `json:"views" yaml:"views"`
	Likes          int64     `json:"likes" yaml:"likes"`
	Outcomes       int64     `json:"outcomes" yaml:"outcomes"`
	Bonus          float64   `json:"bonus" yaml:"bonus"`
	Approved       bool      `json:"approved" yaml:"approved"`
	PayoutStatus   string    `json:"payout_status,omitempty" yaml:"payout_status"`
	PayoutID       string    `json:"payout_id,omitempty" yaml:"payout_id"`
	CreatedAt      time.Time `json:"created_at" yaml:"created_at"`
}

// SubmissionInput holds what a clipper sends when delivering a gig.
type SubmissionInput struct {
	EditedVideoURL string `json:"edited_video_url" validate:"required,http_url"`
	SocialPostLink string `json:"social_post_link" validate:"required,http_url"`
}

// MetricsInput updates the engagement numbers of a submission.
type MetricsInput struct {
	Views    int64 `json:"views" validate:"gte=0"`
	Likes    int64 `json:"likes" validate:"gte=0"`
	Outcomes int64 `json:"outcomes" validate:"gte=0"`
}
