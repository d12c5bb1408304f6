package services

import (
	"context"
	"time"

	"memberflow_backend/internal/logger"
	"memberflow_backend/internal/models"
	"memberflow_backend/internal/repositories"
	"memberflow_backend/internal/services/dto"
	"memberflow_backend/internal/storage"
	"memberflow_backend/pkg/apperrors"
)

// reviewListStatuses - drafts are private to the applicant and never reach
// the admin surface.
var reviewListStatuses = []models.ApplicationStatus{
	models.ApplicationStatusPending,
	models.ApplicationStatusAccepted,
	models.ApplicationStatusRejected,
}

// ReviewService is the admin side of the workflow: listing submitted
// applications, inspecting one, verifying payment and recording decisions.
type ReviewService interface {
	List(ctx context.Context, status *models.ApplicationStatus) ([]dto.ApplicationSummary, error)
	Detail(ctx context.Context, applicationID string) (*dto.ApplicationDetail, error)
	VerifyPayment(ctx context.Context, applicationID, adminID string) (*models.Application, error)
	Decide(ctx context.Context, applicationID, adminID string, req *dto.DecisionRequest) (*models.Application, error)
}

type ReviewServiceImpl struct {
	appRepo repositories.ApplicationRepository
	store   storage.Storage
	viewTTL time.Duration
}

func NewReviewService(appRepo repositories.ApplicationRepository, store storage.Storage, viewTTL time.Duration) ReviewService {
	return &ReviewServiceImpl{
		appRepo: appRepo,
		store:   store,
		viewTTL: viewTTL,
	}
}

// List returns submitted applications, newest submission first. An optional
// status narrows the result; drafts are rejected by the handler's binding
// before reaching here.
func (s *ReviewServiceImpl) List(ctx context.Context, status *models.ApplicationStatus) ([]dto.ApplicationSummary, error) {
	statuses := reviewListStatuses
	if status != nil {
		statuses = []models.ApplicationStatus{*status}
	}

	apps, err := s.appRepo.ListByStatuses(ctx, statuses)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	summaries := make([]dto.ApplicationSummary, 0, len(apps))
	for i := range apps {
		summaries = append(summaries, toSummary(&apps[i]))
	}
	return summaries, nil
}

// Detail loads one application with its applicant and, when a proof is
// attached, a short-lived signed view URL. A storage failure degrades to a
// nil URL instead of failing the whole read.
func (s *ReviewServiceImpl) Detail(ctx context.Context, applicationID string) (*dto.ApplicationDetail, error) {
	app, err := s.findReviewable(ctx, applicationID)
	if err != nil {
		return nil, err
	}

	detail := &dto.ApplicationDetail{Application: app}
	if app.User != nil {
		detail.Applicant = dto.NewUserResponse(app.User)
	}

	if app.PaymentProofKey != nil {
		opCtx, cancel := context.WithTimeout(ctx, storageOpTimeout)
		defer cancel()
		url, err := s.store.SignedViewURL(opCtx, *app.PaymentProofKey, s.viewTTL)
		if err != nil {
			logger.CtxWarn(ctx, "could not sign proof view url",
				"application_id", app.ID, "error", err.Error())
		} else {
			detail.ProofViewURL = &url
		}
	}
	return detail, nil
}

// VerifyPayment confirms the attached proof object still exists and marks
// the payment verified by the acting admin. Only the existence of the bytes
// is checked here; judging the proof's content stays with the human.
func (s *ReviewServiceImpl) VerifyPayment(ctx context.Context, applicationID, adminID string) (*models.Application, error) {
	app, err := s.findReviewable(ctx, applicationID)
	if err != nil {
		return nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, apperrors.ErrApplicationNotReviewable
	}
	if app.PaymentProofKey == nil {
		return nil, apperrors.ErrProofMissing
	}

	opCtx, cancel := context.WithTimeout(ctx, storageOpTimeout)
	defer cancel()
	exists, err := s.store.Exists(opCtx, *app.PaymentProofKey)
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	if !exists {
		return nil, apperrors.ErrProofNotFound
	}

	now := time.Now().UTC()
	app.PaymentVerifiedAt = &now
	app.PaymentVerifiedBy = &adminID
	if err := s.appRepo.Update(ctx, app); err != nil {
		return nil, apperrors.InternalError(err)
	}
	return app, nil
}

// Decide records an accept or reject on a pending application. Accepting
// requires a standing payment verification; rejecting does not.
func (s *ReviewServiceImpl) Decide(ctx context.Context, applicationID, adminID string, req *dto.DecisionRequest) (*models.Application, error) {
	outcome := models.ApplicationStatus(req.Outcome)
	if outcome != models.ApplicationStatusAccepted && outcome != models.ApplicationStatusRejected {
		return nil, apperrors.NewBadRequestError("Decision outcome must be accepted or rejected")
	}

	var out *models.Application
	err := s.appRepo.Transaction(func(repo repositories.ApplicationRepository) error {
		app, err := repo.FindByID(ctx, applicationID)
		if err != nil {
			if apperrors.Is(err, repositories.ErrApplicationNotFound) {
				return apperrors.ErrNotFound(err)
			}
			return apperrors.InternalError(err)
		}
		if app.Status != models.ApplicationStatusPending {
			return apperrors.ErrApplicationNotReviewable
		}

		if outcome == models.ApplicationStatusAccepted && app.PaymentVerifiedAt == nil {
			return apperrors.ErrPaymentNotVerified
		}

		now := time.Now().UTC()
		app.Status = outcome
		app.ReviewedAt = &now
		app.ReviewedBy = &adminID
		app.DecisionNote = req.Note

		if err := repo.Update(ctx, app); err != nil {
			return apperrors.InternalError(err)
		}
		out = app
		return nil
	})
	return out, err
}

func (s *ReviewServiceImpl) findReviewable(ctx context.Context, applicationID string) (*models.Application, error) {
	app, err := s.appRepo.FindByID(ctx, applicationID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrNotFound(err)
		}
		return nil, apperrors.InternalError(err)
	}
	// Drafts are not part of the review surface at all.
	if app.Status == models.ApplicationStatusDraft {
		return nil, apperrors.ErrApplicationNotReviewable
	}
	return app, nil
}

func toSummary(app *models.Application) dto.ApplicationSummary {
	s := dto.ApplicationSummary{
		ID:              app.ID,
		Status:          app.Status,
		SubmittedAt:     app.SubmittedAt,
		HasPaymentProof: app.PaymentProofKey != nil,
		PaymentVerified: app.PaymentVerifiedAt != nil,
		ReviewedAt:      app.ReviewedAt,
	}
	if app.User != nil {
		s.ApplicantName = app.User.DisplayName
		s.ApplicantEmail = app.User.Email
	}
	return s
}
