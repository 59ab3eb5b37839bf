package operation

import (
	"mx70/internal/api/v1/dto"
	"mx70/internal/model"
)

type CreateGigInput struct {
	Body dto.GigCreateDTO `json:"body"`
}

type GigOutput struct {
	Body model.Gig `json:"body"`
}

type ListGigsInput struct{}

type ListGigsOutput struct {
	Body []model.Gig `json:"body"`
}

type ClaimGigInput struct {
	GigID int64 `path:"gigId" doc:"Gig ID"`
}

type SubmitVideoInput struct {
	GigID int64                   `path:"gigId" doc:"Gig ID"`
	Body  dto.SubmissionCreateDTO `json:"body"`
}

type SubmissionOutput struct {
	Body model.Submission `json:"body"`
}

type RecordMetricsInput struct {
	SubmissionID int64                `path:"submissionId" doc:"Submission ID"`
	Body         dto.MetricsUpdateDTO `json:"body"`
}
