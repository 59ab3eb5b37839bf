package service

import (
	"math"

	"mx70/internal/model"
)

// MaxBonus caps the performance bonus of a single submission.
const MaxBonus = 75.0

// CalculateBonus pays per view and per like at a rate that grows with reach,
// plus a flat share per tracked outcome. Posts under the self-promotion
// thresholds earn nothing.
func CalculateBonus(views, likes, outcomes int64) float64 {
	if views < model.SelfPromoMinViews || likes < model.SelfPromoMinLikes {
		return 0
	}

	var viewRate float64
	switch {
	case views < 500:
		viewRate = 0.005
	case views < 2000:
		viewRate = 0.01
	default:
		viewRate = 0.015
	}

	var likeRate float64
	switch {
	case likes < 50:
		likeRate = 0.03
	case likes < 200:
		likeRate = 0.05
	default:
		likeRate = 0.07
	}

	bonus := float64(views)*viewRate + float64(likes)*likeRate + float64(outcomes)*0.03
	return math.Round(math.Min(bonus, MaxBonus)*100) / 100
}
