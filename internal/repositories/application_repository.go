package repositories

import (
	"context"
	"errors"

	"memberflow_backend/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

var (
	ErrApplicationNotFound = errors.New("application not found")
	ErrApplicationExists   = errors.New("application already exists for user")
)

type ApplicationRepository interface {
	Create(ctx context.Context, app *models.Application) error
	FindByUserID(ctx context.Context, userID string) (*models.Application, error)
	FindByID(ctx context.Context, id string) (*models.Application, error)
	// Update persists the full record, including fields cleared to nil.
	Update(ctx context.Context, app *models.Application) error
	Delete(ctx context.Context, id string) error
	// ListByStatuses returns applications in the given statuses ordered by
	// submission time, most recent first, with the applicant preloaded.
	ListByStatuses(ctx context.Context, statuses []models.ApplicationStatus) ([]models.Application, error)
	// Transaction runs fn against a repository bound to a single database
	// transaction; submit/reapply use it so the snapshot, the status flip and
	// the metadata clears land all-or-nothing.
	Transaction(fn func(repo ApplicationRepository) error) error
}

type ApplicationRepositoryImpl struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) ApplicationRepository {
	return &ApplicationRepositoryImpl{db: db}
}

// Create relies on the unique user_id index for the one-record-per-user
// invariant: the second writer of a concurrent double-start fails here.
func (r *ApplicationRepositoryImpl) Create(ctx context.Context, app *models.Application) error {
	if err := r.db.WithContext(ctx).Create(app).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrApplicationExists
		}
		return err
	}
	return nil
}

func (r *ApplicationRepositoryImpl) FindByUserID(ctx context.Context, userID string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).First(&app, "user_id = ?", userID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) FindByID(ctx context.Context, id string) (*models.Application, error) {
	var app models.Application
	err := r.db.WithContext(ctx).Preload("User").First(&app, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrApplicationNotFound
		}
		return nil, err
	}
	return &app, nil
}

func (r *ApplicationRepositoryImpl) Update(ctx context.Context, app *models.Application) error {
	// Save writes every column, which is required: clearing review metadata
	// means writing NULLs, and Updates would skip zero values.
	return r.db.WithContext(ctx).Save(app).Error
}

func (r *ApplicationRepositoryImpl) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Delete(&models.Application{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrApplicationNotFound
	}
	return nil
}

func (r *ApplicationRepositoryImpl) ListByStatuses(ctx context.Context, statuses []models.ApplicationStatus) ([]models.Application, error) {
	var apps []models.Application
	err := r.db.WithContext(ctx).
		Preload("User").
		Where("status IN ?", statuses).
		Order("submitted_at DESC").
		Find(&apps).Error
	return apps, err
}

func (r *ApplicationRepositoryImpl) Transaction(fn func(repo ApplicationRepository) error) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		return fn(&ApplicationRepositoryImpl{db: tx})
	})
}

// isUniqueViolation recognizes a postgres unique-constraint failure
// (SQLSTATE 23505) underneath the gorm error chain.
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
