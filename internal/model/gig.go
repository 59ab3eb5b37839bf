package model

import "time"

// GigStatus only ever moves forward: pending -> claimed -> completed.
type GigStatus string

const (
	GigPending   GigStatus = "pending"
	GigClaimed   GigStatus = "claimed"
	GigCompleted GigStatus = "completed"
)

// MinimumGigBudget is the smallest budget a business may post.
const MinimumGigBudget = 50.0

// GoalOptions and StoryTypes are the choices offered by the gig wizard.
var (
	GoalOptions = []string{"1k views", "100 likes", "10 check-ins", "10% sales lift"}
	StoryTypes  = []string{"morning rush", "lunch specials", "closing", "unboxing", "try-on", "demo"}
)

// Gig is a video project posted by a business
type Gig struct {
	ID            int64     `json:"id" yaml:"id"`
	BusinessID    int64     `json:"business_id" yaml:"business_id"`
	Budget        float64   `json:"budget" yaml:"budget"`
	Goals         string    `json:"goals" yaml:"goals"`
	StoryType     string    `json:"story_type" yaml:"story_type"`
	RawFootageURL *string   `json:"raw_footage_url" yaml:"raw_footage_url"`
	Status        GigStatus `json:"status" yaml:"status"`
	ClaimedBy     *int64    `json:"claimed_by,omitempty" yaml:"claimed_by"`
	CreatedAt     time.Time `json:"created_at" yaml:"created_at"`
}

// GigInput holds the fields a business supplies when posting a gig.
type GigInput struct {
	Budget        float64 `json:"budget" validate:"gte=50"`
	Goals         string  `json:"goals" validate:"required"`
	StoryType     string  `json:"story_type" validate:"required"`
	RawFootageURL *string `json:"raw_footage_url,omitempty" validate:"omitempty,http_url"`
}
