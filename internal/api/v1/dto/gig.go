package dto

// GigCreateDTO is the body of POST /gigs/post-gig.
type GigCreateDTO struct {
	Budget        float64 `json:"budget" doc:"Budget in dollars, at least 50"`
	Goals         string  `json:"goals" doc:"Goal, e.g. 1k views"`
	StoryType     string  `json:"story_type" doc:"Story type, e.g. morning rush"`
	RawFootageURL *string `json:"raw_footage_url,omitempty" doc:"Optional link to uploaded raw footage"`
}

// SubmissionCreateDTO is the body of POST /gigs/{gigId}/submit.
type SubmissionCreateDTO struct {
	EditedVideoURL string `json:"edited_video_url" doc:"Link to the edited video"`
	SocialPostLink string `json:"social_post_link" doc:"Link to the published post"`
}

// MetricsUpdateDTO is the body of PUT /gigs/submissions/{submissionId}/metrics.
type MetricsUpdateDTO struct {
	Views    int64 `json:"views"`
	Likes    int64 `json:"likes"`
	Outcomes int64 `json:"outcomes"`
}
