package services

import (
	"context"

	"memberflow_backend/internal/models"
	"memberflow_backend/internal/repositories"
	"memberflow_backend/internal/services/dto"
	"memberflow_backend/pkg/apperrors"
)

// OnboardingService gates the post-acceptance onboarding form. Eligibility
// is evaluated per request: a member is eligible only while their
// application stands ACCEPTED; admins are always eligible.
type OnboardingService interface {
	Get(ctx context.Context, userID string, role models.UserRole) (*models.OnboardingResponse, error)
	Submit(ctx context.Context, userID string, role models.UserRole, req *dto.OnboardingRequest) (*models.OnboardingResponse, error)
}

type OnboardingServiceImpl struct {
	onboardingRepo repositories.OnboardingRepository
	appRepo        repositories.ApplicationRepository
}

func NewOnboardingService(onboardingRepo repositories.OnboardingRepository, appRepo repositories.ApplicationRepository) OnboardingService {
	return &OnboardingServiceImpl{
		onboardingRepo: onboardingRepo,
		appRepo:        appRepo,
	}
}

// Get returns the user's onboarding response, or (nil, nil) when eligible
// but not yet submitted.
func (s *OnboardingServiceImpl) Get(ctx context.Context, userID string, role models.UserRole) (*models.OnboardingResponse, error) {
	if err := s.ensureEligible(ctx, userID, role); err != nil {
		return nil, err
	}

	resp, err := s.onboardingRepo.FindByUserID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrOnboardingNotFound) {
			return nil, nil
		}
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

// Submit records the onboarding response once. The repository performs the
// insert and the user's completion stamp atomically.
func (s *OnboardingServiceImpl) Submit(ctx context.Context, userID string, role models.UserRole, req *dto.OnboardingRequest) (*models.OnboardingResponse, error) {
	if err := s.ensureEligible(ctx, userID, role); err != nil {
		return nil, err
	}

	resp := &models.OnboardingResponse{
		UserID:                userID,
		ShirtSize:             req.ShirtSize,
		DietaryNotes:          req.DietaryNotes,
		EmergencyContact:      req.EmergencyContact,
		AgreedToCodeOfConduct: req.AgreedToCodeOfConduct,
	}

	if err := s.onboardingRepo.Submit(ctx, resp); err != nil {
		if apperrors.Is(err, repositories.ErrOnboardingExists) {
			return nil, apperrors.ErrOnboardingExists
		}
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	return resp, nil
}

func (s *OnboardingServiceImpl) ensureEligible(ctx context.Context, userID string, role models.UserRole) error {
	if role == models.UserRoleAdmin {
		return nil
	}

	app, err := s.appRepo.FindByUserID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return apperrors.ErrNotEligible
		}
		return apperrors.InternalError(err)
	}
	if app.Status != models.ApplicationStatusAccepted {
		return apperrors.ErrNotEligible
	}
	return nil
}
