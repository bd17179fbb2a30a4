package dto

import (
	"time"

	"github.com/fadilmartias/grant-portal/internal/model"
)

type LoginRequest struct {
	// Identifier is an email address or a committee username.
	Identifier string `json:"identifier"`
	Password   string `json:"password"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	DisplayName string `json:"displayName"`
}

type SessionDTO struct {
	Token     string      `json:"token"`
	ExpiresAt time.Time   `json:"expiresAt"`
	User      *model.User `json:"user"`
}
