package dto

import (
	"time"

	"memberflow_backend/internal/models"
)

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,min=2,max=100"`
	Password    string `json:"password" validate:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UserResponse struct {
	ID                    string          `json:"id"`
	Email                 string          `json:"email"`
	DisplayName           string          `json:"displayName"`
	Role                  models.UserRole `json:"role"`
	OnboardingCompletedAt *time.Time      `json:"onboardingCompletedAt,omitempty"`
}

type AuthResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

func NewUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:                    user.ID,
		Email:                 user.Email,
		DisplayName:           user.DisplayName,
		Role:                  user.Role,
		OnboardingCompletedAt: user.OnboardingCompletedAt,
	}
}
