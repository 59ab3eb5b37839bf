package operation

import (
	"mx70/internal/api/v1/dto"
	"mx70/internal/model"
)

type GetDashboardInput struct{}

type GetDashboardOutput struct {
	Body model.Dashboard `json:"body"`
}

type GetAnalyticsInput struct {
	Timeframe string `query:"timeframe" doc:"7d, 30d or 90d (default 30d)"`
}

type GetAnalyticsOutput struct {
	Body model.Analytics `json:"body"`
}

type SelfPromoInput struct {
	Body dto.SelfPromoRequestDTO `json:"body"`
}

type SelfPromoOutput struct {
	Body model.SelfPromoResult `json:"body"`
}
