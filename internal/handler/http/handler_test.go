// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"golang.org/x/crypto/bcrypt"

	"github.com/chatter-social/chatter/internal/auth"
	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/internal/service"
	"github.com/chatter-social/chatter/internal/session"
	"github.com/chatter-social/chatter/internal/store"
	"github.com/chatter-social/chatter/models"
)

// ─────────────────────────────────────────────
// Mock services
// ─────────────────────────────────────────────

// mockAuthService implements service.AuthService for unit tests.
// Each method field can be overridden per test case.
type mockAuthService struct {
	registerFn       func(ctx context.Context, name, email, password string) (models.User, error)
	authenticateFn   func(ctx context.Context, email, password string) (models.User, error)
	getUserFn        func(ctx context.Context, id int64) (models.User, error)
	updatePasswordFn func(ctx context.Context, userID int64, password string) error
}

func (m *mockAuthService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	return m.registerFn(ctx, name, email, password)
}

func (m *mockAuthService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	return m.authenticateFn(ctx, email, password)
}

func (m *mockAuthService) GetUser(ctx context.Context, id int64) (models.User, error) {
	return m.getUserFn(ctx, id)
}

func (m *mockAuthService) UpdatePassword(ctx context.Context, userID int64, password string) error {
	return m.updatePasswordFn(ctx, userID, password)
}

// mockPasswordResetService implements service.PasswordResetService.
type mockPasswordResetService struct {
	requestResetFn  func(ctx context.Context, email string) error
	validateResetFn func(ctx context.Context, email, token string) (models.User, error)
	completeResetFn func(ctx context.Context, email, token, password string) (models.User, error)
}

func (m *mockPasswordResetService) RequestReset(ctx context.Context, email string) error {
	return m.requestResetFn(ctx, email)
}

func (m *mockPasswordResetService) ValidateReset(ctx context.Context, email, token string) (models.User, error) {
	return m.validateResetFn(ctx, email, token)
}

func (m *mockPasswordResetService) CompleteReset(ctx context.Context, email, token, password string) (models.User, error) {
	return m.completeResetFn(ctx, email, token, password)
}

// mockActivationService implements service.ActivationService.
type mockActivationService struct {
	activateFn func(ctx context.Context, email, token string) (models.User, error)
}

func (m *mockActivationService) Activate(ctx context.Context, email, token string) (models.User, error) {
	return m.activateFn(ctx, email, token)
}

// ─────────────────────────────────────────────
// In-memory repository for the session manager
// ─────────────────────────────────────────────

// memoryRepo is the minimal store.UserRepository the session manager needs.
type memoryRepo struct {
	users map[int64]*models.User
}

func newMemoryRepo(users ...*models.User) *memoryRepo {
	r := &memoryRepo{users: make(map[int64]*models.User)}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (m *memoryRepo) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	user.ID = int64(len(m.users) + 1)
	m.users[user.ID] = &user
	return user, nil
}

func (m *memoryRepo) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	u, ok := m.users[id]
	if !ok {
		return models.User{}, store.ErrUserNotFound
	}
	return *u, nil
}

func (m *memoryRepo) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return *u, nil
		}
	}
	return models.User{}, store.ErrUserNotFound
}

func (m *memoryRepo) UpdateRememberDigest(ctx context.Context, id int64, digest string) error {
	u, ok := m.users[id]
	if !ok {
		return store.ErrUserNotUpdated
	}
	u.RememberDigest = digest
	return nil
}

func (m *memoryRepo) SetResetDigest(ctx context.Context, id int64, digest string, sentAt time.Time) error {
	return nil
}

func (m *memoryRepo) UpdatePasswordClearReset(ctx context.Context, id int64, passwordDigest string) error {
	u, ok := m.users[id]
	if !ok {
		return store.ErrUserNotUpdated
	}
	u.PasswordDigest = passwordDigest
	u.ResetDigest = ""
	u.ResetSentAt = time.Time{}
	u.RememberDigest = ""
	return nil
}

func (m *memoryRepo) UpdatePassword(ctx context.Context, id int64, passwordDigest string) error {
	return nil
}

func (m *memoryRepo) Activate(ctx context.Context, id int64, at time.Time) error {
	return nil
}

func (m *memoryRepo) ClearExpiredResets(ctx context.Context, cutoff time.Time) (int64, error) {
	return 0, nil
}

// ─────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────

type testEnv struct {
	router      *chi.Mux
	repo        *memoryRepo
	auth        *mockAuthService
	resets      *mockPasswordResetService
	activations *mockActivationService
}

func newTestEnv(t *testing.T, users ...*models.User) *testEnv {
	t.Helper()

	env := &testEnv{
		repo:        newMemoryRepo(users...),
		auth:        &mockAuthService{},
		resets:      &mockPasswordResetService{},
		activations: &mockActivationService{},
	}

	services := &service.Services{
		AuthService:          env.auth,
		PasswordResetService: env.resets,
		ActivationService:    env.activations,
	}

	h := NewHandler(
		services,
		env.repo,
		auth.NewBcryptHasher(bcrypt.MinCost),
		session.NewCodec("test-sign-key", false),
		logger.Nop(),
	)
	env.router = h.Init()

	return env
}

func (env *testEnv) do(r *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, r)
	return w
}

// cookieNames collects the names of cookies set on a response, skipping
// deletions.
func cookieNames(w *httptest.ResponseRecorder) map[string]bool {
	names := make(map[string]bool)
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			continue
		}
		names[c.Name] = true
	}
	return names
}

// carryCookies copies the surviving cookies of a response onto a follow-up
// request.
func carryCookies(r *http.Request, w *httptest.ResponseRecorder) *http.Request {
	for _, c := range w.Result().Cookies() {
		if c.MaxAge < 0 {
			continue
		}
		r.AddCookie(&http.Cookie{Name: c.Name, Value: c.Value})
	}
	return r
}
