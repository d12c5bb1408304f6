package models

import "time"

type User struct {
	BaseModel
	Email                 string     `gorm:"uniqueIndex;not null" json:"email"`
	DisplayName           string     `gorm:"not null" json:"displayName"`
	PasswordHash          string     `gorm:"not null" json:"-"`
	Role                  UserRole   `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	OnboardingCompletedAt *time.Time `json:"onboardingCompletedAt,omitempty"`
}

func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}
