package services

import (
	"context"
	"strings"
	"time"

	"memberflow_backend/internal/forms"
	"memberflow_backend/internal/logger"
	"memberflow_backend/internal/models"
	"memberflow_backend/internal/repositories"
	"memberflow_backend/internal/services/dto"
	"memberflow_backend/internal/storage"
	"memberflow_backend/pkg/apperrors"
)

// storageOpTimeout bounds every storage round-trip on a request path, so a
// hung backend cannot stall an applicant or a decision indefinitely.
const storageOpTimeout = 5 * time.Second

// ProofConfig carries the upload limits the lifecycle engine enforces before
// ever touching the storage backend.
type ProofConfig struct {
	MaxSizeBytes int64
	SignedURLTTL time.Duration
}

// ApplicationService owns the application lifecycle state machine. Every
// operation takes the acting user explicitly; ownership and role checks do
// not read ambient request state.
type ApplicationService interface {
	Get(ctx context.Context, userID string) (*models.Application, error)
	Start(ctx context.Context, userID string) (*models.Application, error)
	SaveDraft(ctx context.Context, userID string, answers forms.Answers) (*models.Application, error)
	RequestProofUpload(ctx context.Context, userID string, req *dto.ProofUploadRequest) (*dto.ProofUploadResponse, error)
	AttachProof(ctx context.Context, userID, key string) (*models.Application, error)
	Submit(ctx context.Context, userID string, answers forms.Answers) (*models.Application, error)
	Reapply(ctx context.Context, userID string, answers forms.Answers) (*models.Application, error)
	DeleteDraft(ctx context.Context, userID string) error
}

type ApplicationServiceImpl struct {
	appRepo repositories.ApplicationRepository
	store   storage.Storage
	proof   ProofConfig
}

func NewApplicationService(appRepo repositories.ApplicationRepository, store storage.Storage, proof ProofConfig) ApplicationService {
	return &ApplicationServiceImpl{
		appRepo: appRepo,
		store:   store,
		proof:   proof,
	}
}

func (s *ApplicationServiceImpl) Get(ctx context.Context, userID string) (*models.Application, error) {
	app, err := s.appRepo.FindByUserID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotStarted
		}
		return nil, apperrors.InternalError(err)
	}
	return app, nil
}

// Start creates the applicant's draft. Idempotent: when a record already
// exists (including losing a concurrent double-start at the unique
// constraint) the existing record is returned unchanged.
func (s *ApplicationServiceImpl) Start(ctx context.Context, userID string) (*models.Application, error) {
	app := &models.Application{
		UserID:      userID,
		Answers:     forms.Answers{},
		Status:      models.ApplicationStatusDraft,
		SubmittedAt: time.Now().UTC(),
	}

	err := s.appRepo.Create(ctx, app)
	if err == nil {
		return app, nil
	}
	if !apperrors.Is(err, repositories.ErrApplicationExists) {
		return nil, apperrors.InternalError(err)
	}

	existing, err := s.appRepo.FindByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}
	return existing, nil
}

func (s *ApplicationServiceImpl) SaveDraft(ctx context.Context, userID string, answers forms.Answers) (*models.Application, error) {
	var out *models.Application
	err := s.appRepo.Transaction(func(repo repositories.ApplicationRepository) error {
		app, err := s.findOwned(ctx, repo, userID)
		if err != nil {
			return err
		}
		if !app.Status.Editable() {
			return apperrors.ErrApplicationNotEditable
		}

		app.Answers = answers
		if err := repo.Update(ctx, app); err != nil {
			return apperrors.InternalError(err)
		}
		out = app
		return nil
	})
	return out, err
}

// RequestProofUpload validates type and size, mints a fresh object key and
// presigns a PUT. The key is not recorded on the application yet; the client
// must confirm the upload through AttachProof.
func (s *ApplicationServiceImpl) RequestProofUpload(ctx context.Context, userID string, req *dto.ProofUploadRequest) (*dto.ProofUploadResponse, error) {
	app, err := s.findOwned(ctx, s.appRepo, userID)
	if err != nil {
		return nil, err
	}
	if !app.Status.Editable() {
		return nil, apperrors.ErrApplicationNotEditable
	}
	if !storage.AllowedProofType(req.ContentType) {
		return nil, apperrors.ErrInvalidFileType
	}
	if req.ContentLength > s.proof.MaxSizeBytes {
		return nil, apperrors.ErrFileTooLarge
	}

	key, err := storage.BuildProofKey(userID, req.ContentType)
	if err != nil {
		return nil, apperrors.ErrInvalidFileType
	}

	ttl := storage.ClampTTL(s.proof.SignedURLTTL, s.proof.SignedURLTTL)
	opCtx, cancel := context.WithTimeout(ctx, storageOpTimeout)
	defer cancel()

	url, err := s.store.SignedUploadURL(opCtx, key, req.ContentType, req.ContentLength, ttl)
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError(err)
	}

	return &dto.ProofUploadResponse{
		UploadURL: url,
		Key:       key,
		ExpiresIn: int(ttl.Seconds()),
	}, nil
}

// AttachProof records an uploaded proof object after confirming the bytes
// actually landed. A client-reported "upload succeeded" is never trusted.
// Attaching a new proof invalidates any prior payment verification.
func (s *ApplicationServiceImpl) AttachProof(ctx context.Context, userID, key string) (*models.Application, error) {
	if !strings.HasPrefix(key, storage.ProofKeyPrefix(userID)) {
		return nil, apperrors.NewForbiddenError("Proof key does not belong to this user")
	}

	opCtx, cancel := context.WithTimeout(ctx, storageOpTimeout)
	defer cancel()
	exists, err := s.store.Exists(opCtx, key)
	if err != nil {
		return nil, apperrors.NewStorageUnavailableError(err)
	}
	if !exists {
		return nil, apperrors.ErrProofNotFound
	}

	var out *models.Application
	err = s.appRepo.Transaction(func(repo repositories.ApplicationRepository) error {
		app, err := s.findOwned(ctx, repo, userID)
		if err != nil {
			return err
		}
		if !app.Status.Editable() {
			return apperrors.ErrApplicationNotEditable
		}

		now := time.Now().UTC()
		app.PaymentProofKey = &key
		app.PaymentProofUploadedAt = &now
		app.ClearVerification()

		if err := repo.Update(ctx, app); err != nil {
			return apperrors.InternalError(err)
		}
		out = app
		return nil
	})
	return out, err
}

// Submit moves a complete draft into review. The answers snapshot, the
// status flip and the metadata clears land in one transaction.
func (s *ApplicationServiceImpl) Submit(ctx context.Context, userID string, answers forms.Answers) (*models.Application, error) {
	var out *models.Application
	err := s.appRepo.Transaction(func(repo repositories.ApplicationRepository) error {
		app, err := s.findOwned(ctx, repo, userID)
		if err != nil {
			return err
		}
		if app.Status != models.ApplicationStatusDraft {
			return apperrors.ErrApplicationNotEditable
		}
		if err := s.applySubmission(app, answers); err != nil {
			return err
		}
		if err := repo.Update(ctx, app); err != nil {
			return apperrors.InternalError(err)
		}
		out = app
		return nil
	})
	return out, err
}

// Reapply is the only path out of REJECTED back into review. The previously
// uploaded proof key is preserved unless the applicant re-uploaded.
func (s *ApplicationServiceImpl) Reapply(ctx context.Context, userID string, answers forms.Answers) (*models.Application, error) {
	var out *models.Application
	err := s.appRepo.Transaction(func(repo repositories.ApplicationRepository) error {
		app, err := s.findOwned(ctx, repo, userID)
		if err != nil {
			return err
		}
		if app.Status != models.ApplicationStatusRejected {
			return apperrors.ErrCannotReapply
		}
		if err := s.applySubmission(app, answers); err != nil {
			return err
		}
		if err := repo.Update(ctx, app); err != nil {
			return apperrors.InternalError(err)
		}
		out = app
		return nil
	})
	return out, err
}

// DeleteDraft hard-deletes an application that never left DRAFT. The proof
// object, if any, is removed best effort after the row is gone.
func (s *ApplicationServiceImpl) DeleteDraft(ctx context.Context, userID string) error {
	var proofKey *string
	err := s.appRepo.Transaction(func(repo repositories.ApplicationRepository) error {
		app, err := s.findOwned(ctx, repo, userID)
		if err != nil {
			return err
		}
		if app.Status != models.ApplicationStatusDraft {
			return apperrors.ErrApplicationNotEditable
		}
		proofKey = app.PaymentProofKey
		if err := repo.Delete(ctx, app.ID); err != nil {
			return apperrors.InternalError(err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if proofKey != nil {
		opCtx, cancel := context.WithTimeout(context.Background(), storageOpTimeout)
		defer cancel()
		if err := s.store.Delete(opCtx, *proofKey); err != nil {
			logger.CtxWithError(ctx, "failed to delete proof object for removed draft", err, "key", *proofKey)
		}
	}
	return nil
}

// applySubmission runs the submission guards and mutates the record:
// completeness and proof presence first, then snapshot + clears. The
// incomplete error reports missing fields in canonical order together with
// an independent proof-absence flag.
func (s *ApplicationServiceImpl) applySubmission(app *models.Application, answers forms.Answers) error {
	missing := forms.MissingFields(answers)
	missingProof := app.PaymentProofKey == nil
	if len(missing) > 0 || missingProof {
		return apperrors.NewIncompleteError(missing, missingProof)
	}

	app.Answers = answers
	app.Status = models.ApplicationStatusPending
	app.SubmittedAt = time.Now().UTC()
	app.ClearReview()
	return nil
}

func (s *ApplicationServiceImpl) findOwned(ctx context.Context, repo repositories.ApplicationRepository, userID string) (*models.Application, error) {
	app, err := repo.FindByUserID(ctx, userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrApplicationNotFound) {
			return nil, apperrors.ErrApplicationNotStarted
		}
		return nil, apperrors.InternalError(err)
	}
	return app, nil
}
