package model

import (
	"strings"
	"time"
)

// Role gates every operation a user may perform. It never changes after signup.
type Role string

const (
	RoleBusiness Role = "business_local"
	RoleClipper  Role = "clipper"
)

// ParseRole accepts the wire spelling and the short "business" alias.
func ParseRole(s string) (Role, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "business", string(RoleBusiness):
		return RoleBusiness, true
	case string(RoleClipper):
		return RoleClipper, true
	}
	return "", false
}

// Label is the human name shown in navigation.
func (r Role) Label() string {
	if r == RoleBusiness {
		return "Business"
	}
	return "Clipper"
}

// User represents an account in the marketplace
type User struct {
	ID        int64     `json:"id" yaml:"id"`
	Email     string    `json:"email" yaml:"email"`
	Role      Role      `json:"role" yaml:"role"`
	IsActive  bool      `json:"is_active" yaml:"is_active"`
	CreatedAt time.Time `json:"created_at" yaml:"created_at"`

	// PayoutAccount is the connected account payouts are sent to.
	PayoutAccount string `json:"payout_account,omitempty" yaml:"payout_account"`
	PasswordHash  string `json:"-" yaml:"-"`
}

// Registration carries the fields of a new account.
type Registration struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Role     Role   `json:"role" validate:"required"`
}

// AuthResult is returned by a successful credential exchange.
type AuthResult struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        *User  `json:"user,omitempty"`
}
