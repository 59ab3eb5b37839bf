package operation

import "mx70/internal/model"

type SubmissionPathInput struct {
	SubmissionID int64 `path:"submissionId" doc:"Submission ID"`
}

type ApproveSubmissionOutput struct {
	Body model.Approval `json:"body"`
}

type PayoutOutput struct {
	Body model.Payout `json:"body"`
}

type GetBalanceInput struct{}

type GetBalanceOutput struct {
	Body model.Balance `json:"body"`
}
