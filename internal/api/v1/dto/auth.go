package dto

// SignupRequestDTO is the body of POST /signup.
type SignupRequestDTO struct {
	Email    string `json:"email" doc:"Account email"`
	Password string `json:"password" doc:"At least 6 characters"`
	Role     string `json:"role" doc:"business_local (or business) or clipper"`
}

// TokenResponseDTO is returned by POST /token.
type TokenResponseDTO struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UploadResponseDTO is returned by the upload endpoints.
type UploadResponseDTO struct {
	URL string `json:"url"`
}

// StatusResponseDTO acknowledges admin actions.
type StatusResponseDTO struct {
	Status string `json:"status"`
}
