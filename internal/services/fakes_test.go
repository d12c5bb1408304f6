package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"memberflow_backend/internal/models"
	"memberflow_backend/internal/repositories"

	"github.com/google/uuid"
)

// In-memory doubles for the repository and storage interfaces. They mimic
// the real implementations' contracts (sentinel errors, unique constraint,
// copy-on-read) so the services under test cannot tell the difference.

type fakeApplicationRepo struct {
	mu   sync.Mutex
	apps map[string]*models.Application // keyed by application id
}

func newFakeApplicationRepo() *fakeApplicationRepo {
	return &fakeApplicationRepo{apps: make(map[string]*models.Application)}
}

func (r *fakeApplicationRepo) Create(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.apps {
		if existing.UserID == app.UserID {
			return repositories.ErrApplicationExists
		}
	}
	if app.ID == "" {
		app.ID = uuid.NewString()
	}
	app.CreatedAt = time.Now().UTC()
	app.UpdatedAt = app.CreatedAt
	clone := *app
	r.apps[app.ID] = &clone
	return nil
}

func (r *fakeApplicationRepo) FindByUserID(_ context.Context, userID string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, app := range r.apps {
		if app.UserID == userID {
			clone := *app
			return &clone, nil
		}
	}
	return nil, repositories.ErrApplicationNotFound
}

func (r *fakeApplicationRepo) FindByID(_ context.Context, id string) (*models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	app, ok := r.apps[id]
	if !ok {
		return nil, repositories.ErrApplicationNotFound
	}
	clone := *app
	return &clone, nil
}

func (r *fakeApplicationRepo) Update(_ context.Context, app *models.Application) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[app.ID]; !ok {
		return errors.New("update of unknown application")
	}
	app.UpdatedAt = time.Now().UTC()
	clone := *app
	r.apps[app.ID] = &clone
	return nil
}

func (r *fakeApplicationRepo) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.apps[id]; !ok {
		return repositories.ErrApplicationNotFound
	}
	delete(r.apps, id)
	return nil
}

func (r *fakeApplicationRepo) ListByStatuses(_ context.Context, statuses []models.ApplicationStatus) ([]models.Application, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []models.Application
	for _, app := range r.apps {
		for _, s := range statuses {
			if app.Status == s {
				out = append(out, *app)
				break
			}
		}
	}
	// Newest submission first, matching the SQL ordering.
	for i := 0; i < len(out); i++ {
		for j := i + 1; j < len(out); j++ {
			if out[j].SubmittedAt.After(out[i].SubmittedAt) {
				out[i], out[j] = out[j], out[i]
			}
		}
	}
	return out, nil
}

func (r *fakeApplicationRepo) Transaction(fn func(repo repositories.ApplicationRepository) error) error {
	return fn(r)
}

// fakeStorage scripts the object store: keys in objects "exist", existsErr
// simulates an outage, and every signing call is recorded.
type fakeStorage struct {
	mu         sync.Mutex
	objects    map[string]bool
	existsErr  error
	signErr    error
	uploadURLs []string
	deleted    []string
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objects: make(map[string]bool)}
}

func (s *fakeStorage) put(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = true
}

func (s *fakeStorage) SignedUploadURL(_ context.Context, key, _ string, _ int64, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signErr != nil {
		return "", s.signErr
	}
	url := "https://storage.test/upload/" + key
	s.uploadURLs = append(s.uploadURLs, url)
	return url, nil
}

func (s *fakeStorage) SignedViewURL(_ context.Context, key string, _ time.Duration) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.signErr != nil {
		return "", s.signErr
	}
	return "https://storage.test/view/" + key, nil
}

func (s *fakeStorage) Exists(_ context.Context, key string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.existsErr != nil {
		return false, s.existsErr
	}
	return s.objects[key], nil
}

func (s *fakeStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	s.deleted = append(s.deleted, key)
	return nil
}

type fakeOnboardingRepo struct {
	mu        sync.Mutex
	responses map[string]*models.OnboardingResponse // keyed by user id
}

func newFakeOnboardingRepo() *fakeOnboardingRepo {
	return &fakeOnboardingRepo{responses: make(map[string]*models.OnboardingResponse)}
}

func (r *fakeOnboardingRepo) FindByUserID(_ context.Context, userID string) (*models.OnboardingResponse, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	resp, ok := r.responses[userID]
	if !ok {
		return nil, repositories.ErrOnboardingNotFound
	}
	clone := *resp
	return &clone, nil
}

func (r *fakeOnboardingRepo) Submit(_ context.Context, response *models.OnboardingResponse) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.responses[response.UserID]; ok {
		return repositories.ErrOnboardingExists
	}
	if response.ID == "" {
		response.ID = uuid.NewString()
	}
	clone := *response
	r.responses[response.UserID] = &clone
	return nil
}

type fakeUserRepo struct {
	mu    sync.Mutex
	users map[string]*models.User // keyed by user id
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[string]*models.User)}
}

func (r *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[id]
	if !ok {
		return nil, repositories.ErrUserNotFound
	}
	clone := *user
	return &clone, nil
}

func (r *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, user := range r.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, repositories.ErrUserNotFound
}

func (r *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, existing := range r.users {
		if existing.Email == user.Email {
			return repositories.ErrUserAlreadyExists
		}
	}
	if user.ID == "" {
		user.ID = uuid.NewString()
	}
	clone := *user
	r.users[user.ID] = &clone
	return nil
}

func (r *fakeUserRepo) UpdateRole(_ context.Context, userID string, role models.UserRole) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	user, ok := r.users[userID]
	if !ok {
		return repositories.ErrUserNotFound
	}
	user.Role = role
	return nil
}
