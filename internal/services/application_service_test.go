package services

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"memberflow_backend/internal/forms"
	"memberflow_backend/internal/models"
	"memberflow_backend/internal/services/dto"
	"memberflow_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }
func boolPtr(v bool) *bool        { return &v }
func strPtr(v string) *string     { return &v }

func completeAnswers() forms.Answers {
	return forms.Answers{
		FullName:              "Aida Bekova",
		StudentID:             "S2024-1234",
		Email:                 "aida@example.edu",
		Phone:                 "+7 701 000 0000",
		DateOfBirth:           "2004-03-12",
		Faculty:               "Engineering",
		FieldOfStudy:          "Computer Science",
		YearOfStudy:           intPtr(2),
		Motivation:            "I want to contribute to student life.",
		Expectations:          "Learn event management.",
		PreviousExperience:    "Volunteered at orientation week.",
		Skills:                []string{"design", "photography"},
		FirstCommitteeChoice:  "events",
		SecondCommitteeChoice: "media",
		AvailabilityHours:     floatPtr(6),
		ReferralSource:        "friend",
		AgreeToRules:          boolPtr(true),
	}
}

func newAppService(repo *fakeApplicationRepo, store *fakeStorage) ApplicationService {
	return NewApplicationService(repo, store, ProofConfig{
		MaxSizeBytes: 10 * 1024 * 1024,
		SignedURLTTL: 10 * time.Minute,
	})
}

// seedApplication plants a record directly in the fake, bypassing the service.
func seedApplication(t *testing.T, repo *fakeApplicationRepo, userID string, status models.ApplicationStatus, mutate func(*models.Application)) *models.Application {
	t.Helper()
	app := &models.Application{
		UserID:      userID,
		Answers:     forms.Answers{},
		Status:      status,
		SubmittedAt: time.Now().UTC().Add(-time.Hour),
	}
	if mutate != nil {
		mutate(app)
	}
	require.NoError(t, repo.Create(context.Background(), app))
	return app
}

func assertCode(t *testing.T, err error, code apperrors.ErrorCode) *apperrors.AppError {
	t.Helper()
	appErr, ok := apperrors.AsAppError(err)
	require.True(t, ok, "expected an AppError, got %v", err)
	assert.Equal(t, code, appErr.Code)
	return appErr
}

func TestGetWithoutApplication(t *testing.T) {
	svc := newAppService(newFakeApplicationRepo(), newFakeStorage())

	_, err := svc.Get(context.Background(), "user-1")
	assert.True(t, apperrors.Is(err, apperrors.ErrApplicationNotStarted))
	assertCode(t, err, apperrors.CodeNotStarted)
}

func TestStartCreatesDraft(t *testing.T) {
	svc := newAppService(newFakeApplicationRepo(), newFakeStorage())

	app, err := svc.Start(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusDraft, app.Status)
	assert.Equal(t, "user-1", app.UserID)
	assert.NotEmpty(t, app.ID)
}

func TestStartIsIdempotent(t *testing.T) {
	svc := newAppService(newFakeApplicationRepo(), newFakeStorage())
	ctx := context.Background()

	first, err := svc.Start(ctx, "user-1")
	require.NoError(t, err)

	second, err := svc.Start(ctx, "user-1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "a second start must return the existing record")
}

func TestStartDoesNotResetSubmittedApplication(t *testing.T) {
	repo := newFakeApplicationRepo()
	seeded := seedApplication(t, repo, "user-1", models.ApplicationStatusPending, nil)
	svc := newAppService(repo, newFakeStorage())

	app, err := svc.Start(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, seeded.ID, app.ID)
	assert.Equal(t, models.ApplicationStatusPending, app.Status, "start must never touch a submitted application")
}

func TestSaveDraftUpdatesAnswers(t *testing.T) {
	repo := newFakeApplicationRepo()
	seedApplication(t, repo, "user-1", models.ApplicationStatusDraft, nil)
	svc := newAppService(repo, newFakeStorage())

	answers := forms.Answers{FullName: "Partial Name"}
	app, err := svc.SaveDraft(context.Background(), "user-1", answers)
	require.NoError(t, err)
	assert.Equal(t, "Partial Name", app.Answers.FullName)
	assert.Equal(t, models.ApplicationStatusDraft, app.Status, "saving a draft never changes status")
}

func TestSaveDraftAllowedWhileRejected(t *testing.T) {
	repo := newFakeApplicationRepo()
	seedApplication(t, repo, "user-1", models.ApplicationStatusRejected, nil)
	svc := newAppService(repo, newFakeStorage())

	_, err := svc.SaveDraft(context.Background(), "user-1", forms.Answers{FullName: "Again"})
	assert.NoError(t, err, "rejected applications stay editable for the reapply flow")
}

func TestSaveDraftBlockedWhilePendingOrAccepted(t *testing.T) {
	for _, status := range []models.ApplicationStatus{models.ApplicationStatusPending, models.ApplicationStatusAccepted} {
		repo := newFakeApplicationRepo()
		seedApplication(t, repo, "user-1", status, nil)
		svc := newAppService(repo, newFakeStorage())

		_, err := svc.SaveDraft(context.Background(), "user-1", forms.Answers{})
		assert.True(t, apperrors.Is(err, apperrors.ErrApplicationNotEditable), "status %s", status)
	}
}

func TestRequestProofUpload(t *testing.T) {
	repo := newFakeApplicationRepo()
	seedApplication(t, repo, "user-1", models.ApplicationStatusDraft, nil)
	store := newFakeStorage()
	svc := newAppService(repo, store)

	resp, err := svc.RequestProofUpload(context.Background(), "user-1", &dto.ProofUploadRequest{
		ContentType:   "image/png",
		ContentLength: 1024,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Key, "payment-proofs/user-1/"))
	assert.Contains(t, resp.UploadURL, resp.Key)
	assert.Equal(t, 600, resp.ExpiresIn)
}

func TestRequestProofUploadRejectsBadInput(t *testing.T) {
	repo := newFakeApplicationRepo()
	seedApplication(t, repo, "user-1", models.ApplicationStatusDraft, nil)
	svc := newAppService(repo, newFakeStorage())
	ctx := context.Background()

	_, err := svc.RequestProofUpload(ctx, "user-1", &dto.ProofUploadRequest{
		ContentType:   "application/pdf",
		ContentLength: 1024,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidFileType))

	_, err = svc.RequestProofUpload(ctx, "user-1", &dto.ProofUploadRequest{
		ContentType:   "image/png",
		ContentLength: 11 * 1024 * 1024,
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrFileTooLarge))
}

func TestRequestProofUploadStorageDown(t *testing.T) {
	repo := newFakeApplicationRepo()
	seedApplication(t, repo, "user-1", models.ApplicationStatusDraft, nil)
	store := newFakeStorage()
	store.signErr = errors.New("connection refused")
	svc := newAppService(repo, store)

	_, err := svc.RequestProofUpload(context.Background(), "user-1", &dto.ProofUploadRequest{
		ContentType:   "image/png",
		ContentLength: 1024,
	})
	assertCode(t, err, apperrors.CodeStorageUnavailable)
}

func TestAttachProofHappyPath(t *testing.T) {
	repo := newFakeApplicationRepo()
	seedApplication(t, repo, "user-1", models.ApplicationStatusDraft, nil)
	store := newFakeStorage()
	key := "payment-proofs/user-1/1_abc.png"
	store.put(key)
	svc := newAppService(repo, store)

	app, err := svc.AttachProof(context.Background(), "user-1", key)
	require.NoError(t, err)
	require.NotNil(t, app.PaymentProofKey)
	assert.Equal(t, key, *app.PaymentProofKey)
	assert.NotNil(t, app.PaymentProofUploadedAt)
}

func TestAttachProofRejectsForeignKey(t *testing.T) {
	repo := newFakeApplicationRepo()
	seedApplication(t, repo, "user-1", models.ApplicationStatusDraft, nil)
	store := newFakeStorage()
	key := "payment-proofs/user-2/1_abc.png"
	store.put(key)
	svc := newAppService(repo, store)

	_, err := svc.AttachProof(context.Background(), "user-1", key)
	assertCode(t, err, apperrors.CodeForbidden)
}

func TestAttachProofObjectAbsent(t *testing.T) {
	repo := newFakeApplicationRepo()
	seedApplication(t, repo, "user-1", models.ApplicationStatusDraft, nil)
	svc := newAppService(repo, newFakeStorage())

	// The client claims an upload that never landed.
	_, err := svc.AttachProof(context.Background(), "user-1", "payment-proofs/user-1/1_abc.png")
	assert.True(t, apperrors.Is(err, apperrors.ErrProofNotFound))
}

func TestAttachProofStorageOutageIsNotAbsence(t *testing.T) {
	repo := newFakeApplicationRepo()
	seedApplication(t, repo, "user-1", models.ApplicationStatusDraft, nil)
	store := newFakeStorage()
	store.existsErr = errors.New("dial tcp: i/o timeout")
	svc := newAppService(repo, store)

	_, err := svc.AttachProof(context.Background(), "user-1", "payment-proofs/user-1/1_abc.png")
	assertCode(t, err, apperrors.CodeStorageUnavailable)

	app, err := repo.FindByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Nil(t, app.PaymentProofKey, "an outage must not record the proof")
}

func TestAttachProofInvalidatesVerification(t *testing.T) {
	repo := newFakeApplicationRepo()
	now := time.Now().UTC()
	oldKey := "payment-proofs/user-1/old.png"
	seedApplication(t, repo, "user-1", models.ApplicationStatusRejected, func(a *models.Application) {
		a.PaymentProofKey = &oldKey
		a.PaymentVerifiedAt = &now
		a.PaymentVerifiedBy = strPtr("admin-1")
	})
	store := newFakeStorage()
	newKey := "payment-proofs/user-1/new.png"
	store.put(newKey)
	svc := newAppService(repo, store)

	app, err := svc.AttachProof(context.Background(), "user-1", newKey)
	require.NoError(t, err)
	assert.Equal(t, newKey, *app.PaymentProofKey)
	assert.Nil(t, app.PaymentVerifiedAt, "replacing the proof must void the prior verification")
	assert.Nil(t, app.PaymentVerifiedBy)
}

func TestSubmitIncompleteReportsCanonicalMissing(t *testing.T) {
	repo := newFakeApplicationRepo()
	seedApplication(t, repo, "user-1", models.ApplicationStatusDraft, nil)
	svc := newAppService(repo, newFakeStorage())

	answers := completeAnswers()
	answers.FullName = ""
	answers.AgreeToRules = nil

	_, err := svc.Submit(context.Background(), "user-1", answers)
	appErr := assertCode(t, err, apperrors.CodeIncomplete)

	details, ok := appErr.Details.(apperrors.IncompleteDetails)
	require.True(t, ok)
	assert.Equal(t, []string{forms.FieldFullName, forms.FieldAgreeToRules}, details.MissingRequiredFields)
	assert.True(t, details.MissingPaymentProof)

	app, err := repo.FindByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusDraft, app.Status, "a failed submit leaves the draft untouched")
}

func TestSubmitCompleteAnswersButNoProof(t *testing.T) {
	repo := newFakeApplicationRepo()
	seedApplication(t, repo, "user-1", models.ApplicationStatusDraft, nil)
	svc := newAppService(repo, newFakeStorage())

	_, err := svc.Submit(context.Background(), "user-1", completeAnswers())
	appErr := assertCode(t, err, apperrors.CodeIncomplete)

	details := appErr.Details.(apperrors.IncompleteDetails)
	assert.Empty(t, details.MissingRequiredFields)
	assert.True(t, details.MissingPaymentProof, "proof absence is reported independently of field gaps")
}

func TestSubmitHappyPath(t *testing.T) {
	repo := newFakeApplicationRepo()
	key := "payment-proofs/user-1/1_abc.png"
	seedApplication(t, repo, "user-1", models.ApplicationStatusDraft, func(a *models.Application) {
		a.PaymentProofKey = &key
	})
	svc := newAppService(repo, newFakeStorage())

	before := time.Now().UTC()
	app, err := svc.Submit(context.Background(), "user-1", completeAnswers())
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.False(t, app.SubmittedAt.Before(before))
	assert.Equal(t, "Aida Bekova", app.Answers.FullName)
	assert.Nil(t, app.ReviewedAt)
	assert.Nil(t, app.PaymentVerifiedAt)
}

func TestSubmitOnlyFromDraft(t *testing.T) {
	for _, status := range []models.ApplicationStatus{
		models.ApplicationStatusPending,
		models.ApplicationStatusAccepted,
		models.ApplicationStatusRejected,
	} {
		repo := newFakeApplicationRepo()
		key := "payment-proofs/user-1/1.png"
		seedApplication(t, repo, "user-1", status, func(a *models.Application) {
			a.PaymentProofKey = &key
		})
		svc := newAppService(repo, newFakeStorage())

		_, err := svc.Submit(context.Background(), "user-1", completeAnswers())
		assert.True(t, apperrors.Is(err, apperrors.ErrApplicationNotEditable),
			"submit from %s must fail; rejected goes through reapply", status)
	}
}

func TestReapplyOnlyFromRejected(t *testing.T) {
	for _, status := range []models.ApplicationStatus{
		models.ApplicationStatusDraft,
		models.ApplicationStatusPending,
		models.ApplicationStatusAccepted,
	} {
		repo := newFakeApplicationRepo()
		key := "payment-proofs/user-1/1.png"
		seedApplication(t, repo, "user-1", status, func(a *models.Application) {
			a.PaymentProofKey = &key
		})
		svc := newAppService(repo, newFakeStorage())

		_, err := svc.Reapply(context.Background(), "user-1", completeAnswers())
		assert.True(t, apperrors.Is(err, apperrors.ErrCannotReapply), "reapply from %s", status)
	}
}

func TestReapplyResetsDecisionKeepsProof(t *testing.T) {
	repo := newFakeApplicationRepo()
	now := time.Now().UTC()
	key := "payment-proofs/user-1/1.png"
	note := "missing payment"
	seedApplication(t, repo, "user-1", models.ApplicationStatusRejected, func(a *models.Application) {
		a.PaymentProofKey = &key
		a.ReviewedAt = &now
		a.ReviewedBy = strPtr("admin-1")
		a.DecisionNote = &note
		a.PaymentVerifiedAt = &now
		a.PaymentVerifiedBy = strPtr("admin-1")
	})
	svc := newAppService(repo, newFakeStorage())

	app, err := svc.Reapply(context.Background(), "user-1", completeAnswers())
	require.NoError(t, err)

	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.Nil(t, app.ReviewedAt)
	assert.Nil(t, app.ReviewedBy)
	assert.Nil(t, app.DecisionNote)
	assert.Nil(t, app.PaymentVerifiedAt, "acceptance after reapply needs a fresh verification")
	require.NotNil(t, app.PaymentProofKey)
	assert.Equal(t, key, *app.PaymentProofKey, "the uploaded proof survives the reapply")
}

func TestReapplyIncompleteFails(t *testing.T) {
	repo := newFakeApplicationRepo()
	key := "payment-proofs/user-1/1.png"
	seedApplication(t, repo, "user-1", models.ApplicationStatusRejected, func(a *models.Application) {
		a.PaymentProofKey = &key
	})
	svc := newAppService(repo, newFakeStorage())

	answers := completeAnswers()
	answers.Motivation = ""

	_, err := svc.Reapply(context.Background(), "user-1", answers)
	assertCode(t, err, apperrors.CodeIncomplete)

	app, err := repo.FindByUserID(context.Background(), "user-1")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusRejected, app.Status)
}

func TestDeleteDraft(t *testing.T) {
	repo := newFakeApplicationRepo()
	key := "payment-proofs/user-1/1.png"
	seedApplication(t, repo, "user-1", models.ApplicationStatusDraft, func(a *models.Application) {
		a.PaymentProofKey = &key
	})
	store := newFakeStorage()
	store.put(key)
	svc := newAppService(repo, store)
	ctx := context.Background()

	require.NoError(t, svc.DeleteDraft(ctx, "user-1"))

	_, err := svc.Get(ctx, "user-1")
	assert.True(t, apperrors.Is(err, apperrors.ErrApplicationNotStarted))
	assert.Contains(t, store.deleted, key, "the orphaned proof object is cleaned up")
}

func TestDeleteDraftOnlyFromDraft(t *testing.T) {
	for _, status := range []models.ApplicationStatus{
		models.ApplicationStatusPending,
		models.ApplicationStatusAccepted,
		models.ApplicationStatusRejected,
	} {
		repo := newFakeApplicationRepo()
		seedApplication(t, repo, "user-1", status, nil)
		svc := newAppService(repo, newFakeStorage())

		err := svc.DeleteDraft(context.Background(), "user-1")
		assert.True(t, apperrors.Is(err, apperrors.ErrApplicationNotEditable), "delete from %s", status)
	}
}
