package dto

// SelfPromoRequestDTO is the body of POST /dashboard/self-promo.
type SelfPromoRequestDTO struct {
	PostLink string `json:"post_link" doc:"Link to the organic post"`
	Views    int64  `json:"views"`
	Likes    int64  `json:"likes"`
}
