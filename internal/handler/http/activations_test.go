package http

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatter-social/chatter/internal/service"
	"github.com/chatter-social/chatter/models"
)

func TestActivateAccount(t *testing.T) {
	env := newTestEnv(t, activatedUser())
	env.activations.activateFn = func(_ context.Context, email, token string) (models.User, error) {
		require.Equal(t, "user@example.com", email)
		require.Equal(t, "raw-activation-token", token)
		return *env.repo.users[1], nil
	}

	w := env.do(httptest.NewRequest(http.MethodGet,
		"/api/account_activations/raw-activation-token?email=user%40example.com", nil))

	assert.Equal(t, http.StatusOK, w.Code)

	// activation doubles as the first login
	names := cookieNames(w)
	assert.True(t, names["_chatter_uid"])
	assert.True(t, names["_chatter_session"])
}

func TestActivateAccount_InvalidLink(t *testing.T) {
	env := newTestEnv(t)
	env.activations.activateFn = func(_ context.Context, _, _ string) (models.User, error) {
		return models.User{}, service.ErrInvalidActivationLink
	}

	w := env.do(httptest.NewRequest(http.MethodGet,
		"/api/account_activations/wrong-token?email=user%40example.com", nil))

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
	assert.Empty(t, cookieNames(w))
}
