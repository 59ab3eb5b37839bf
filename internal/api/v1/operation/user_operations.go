package operation

import (
	"mx70/internal/api/v1/dto"
	"mx70/internal/model"
)

type SignupInput struct {
	Body dto.SignupRequestDTO `json:"body"`
}

type SignupOutput struct {
	Body model.User `json:"body"`
}

type GetUserInput struct {
	// No input needed - user comes from the bearer token
}

type GetUserOutput struct {
	Body model.User `json:"body"`
}
