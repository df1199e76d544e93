package model

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account.
type User struct {
	ID             uuid.UUID  `json:"id" db:"id"`
	Email          string     `json:"email" db:"email"`
	UserName       string     `json:"userName" db:"user_name"`
	PasswordHash   string     `json:"-" db:"password_hash"`
	PhoneNumber    string     `json:"phoneNumber" db:"phone_number"`
	PostalCode     string     `json:"postalCode" db:"postal_code"`
	Address        string     `json:"address" db:"address"`
	EmailConfirmed bool       `json:"emailConfirmed" db:"email_confirmed"`
	SecurityStamp  uuid.UUID  `json:"-" db:"security_stamp"`
	Roles          []string   `json:"roles"`
	CreatedAt      time.Time  `json:"createdAt" db:"created_at"`
	UpdatedAt      *time.Time `json:"updatedAt,omitempty" db:"updated_at"`
}

// RegisterRequest is the payload for creating an account.
type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email,max=256"`
	Password    string `json:"password" validate:"required,min=6,max=128"`
	UserName    string `json:"userName" validate:"required,max=256"`
	PhoneNumber string `json:"phoneNumber" validate:"max=32"`
	PostalCode  string `json:"postalCode" validate:"max=32"`
	Address     string `json:"address" validate:"max=512"`
}

// LoginRequest is the payload for exchanging credentials for a token.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResponse carries the issued bearer token.
type LoginResponse struct {
	Token     string    `json:"token"`
	Email     string    `json:"email"`
	UserName  string    `json:"userName"`
	Roles     []string  `json:"roles"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// ForgotPasswordRequest starts a password reset.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest completes a password reset.
type ResetPasswordRequest struct {
	UserID          uuid.UUID `json:"userId" validate:"required"`
	Token           string    `json:"token" validate:"required"`
	NewPassword     string    `json:"newPassword" validate:"required,min=6,max=128"`
	ConfirmPassword string    `json:"confirmPassword" validate:"required,eqfield=NewPassword"`
}

// AssignRoleRequest grants a role to an existing user.
type AssignRoleRequest struct {
	Email string `json:"email" validate:"required,email"`
	Role  string `json:"role" validate:"required,oneof=Admin Customer"`
}
