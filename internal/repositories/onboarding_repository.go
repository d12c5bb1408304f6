package repositories

import (
	"context"
	"errors"
	"time"

	"memberflow_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrOnboardingNotFound = errors.New("onboarding response not found")
	ErrOnboardingExists   = errors.New("onboarding response already exists")
)

type OnboardingRepository interface {
	FindByUserID(ctx context.Context, userID string) (*models.OnboardingResponse, error)
	// Submit creates the response and stamps the user's completion marker in
	// one transaction: a crash cannot leave one without the other.
	Submit(ctx context.Context, response *models.OnboardingResponse) error
}

type OnboardingRepositoryImpl struct {
	db *gorm.DB
}

func NewOnboardingRepository(db *gorm.DB) OnboardingRepository {
	return &OnboardingRepositoryImpl{db: db}
}

func (r *OnboardingRepositoryImpl) FindByUserID(ctx context.Context, userID string) (*models.OnboardingResponse, error) {
	var response models.OnboardingResponse
	err := r.db.WithContext(ctx).First(&response, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOnboardingNotFound
		}
		return nil, err
	}
	return &response, nil
}

func (r *OnboardingRepositoryImpl) Submit(ctx context.Context, response *models.OnboardingResponse) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(response).Error; err != nil {
			if isUniqueViolation(err) {
				return ErrOnboardingExists
			}
			return err
		}

		result := tx.Model(&models.User{}).
			Where("id = ?", response.UserID).
			Update("onboarding_completed_at", time.Now().UTC())
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}
