package model

import "github.com/shopspring/decimal"

// RegisterRequest defines the payload for creating a new user.
type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// LoginRequest defines the payload for user authentication.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

// RefreshRequest carries a refresh token to exchange for a new access token.
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateUserRoleRequest defines the payload for updating a user's role.
type UpdateUserRoleRequest struct {
	Role Role `json:"role" validate:"required,oneof=admin user"`
}

// CreateCardRequest defines the admin payload for issuing a new card.
// The plaintext number is accepted here, encrypted immediately and never
// stored or returned.
type CreateCardRequest struct {
	OwnerID        string          `json:"owner_id" validate:"required,uuid"`
	CardNumber     string          `json:"card_number" validate:"required,len=16,numeric"`
	HolderName     string          `json:"holder_name" validate:"required,min=2,max=100"`
	ExpiryDate     string          `json:"expiry_date" validate:"required,datetime=2006-01-02"`
	InitialBalance decimal.Decimal `json:"initial_balance" validate:"gte=0"`
}

// TransferRequest defines the payload for moving funds between two of the
// caller's own cards. The service re-checks amount positivity and scale
// with exact arithmetic.
type TransferRequest struct {
	FromCardID string          `json:"from_card_id" validate:"required,uuid"`
	ToCardID   string          `json:"to_card_id" validate:"required,uuid"`
	Amount     decimal.Decimal `json:"amount" validate:"gt=0"`
}
