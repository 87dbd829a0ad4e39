package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"

	"github.com/chatter-social/chatter/internal/auth"
	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/internal/mock"
	"github.com/chatter-social/chatter/internal/store"
	"github.com/chatter-social/chatter/models"
)

func testHasher() auth.Hasher {
	return auth.NewBcryptHasher(bcrypt.MinCost)
}

func TestAuthService_Register(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	mail := mock.NewMockMailer(ctrl)
	svc := NewAuthService(repo, testHasher(), mail, logger.Nop())

	repo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user models.User) (models.User, error) {
			assert.Equal(t, "user@example.com", user.Email)
			assert.NotEmpty(t, user.PasswordDigest)
			assert.NotEmpty(t, user.ActivationDigest)
			assert.NotEmpty(t, user.ActivationToken)
			user.ID = 1
			return user, nil
		})

	mailed := make(chan models.User, 1)
	mail.EXPECT().
		SendActivation(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user models.User) error {
			mailed <- user
			return nil
		})

	registered, err := svc.Register(context.Background(), "Example User", " User@Example.COM ", "password")
	require.NoError(t, err)
	assert.Equal(t, int64(1), registered.ID)
	assert.False(t, registered.Activated)
	assert.Empty(t, registered.ActivationToken, "raw token must not leave the service")

	select {
	case user := <-mailed:
		assert.NotEmpty(t, user.ActivationToken, "mail must carry the raw token")
	case <-time.After(time.Second):
		t.Fatal("activation mail was not sent")
	}
}

func TestAuthService_Register_InvalidInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	mail := mock.NewMockMailer(ctrl)
	svc := NewAuthService(repo, testHasher(), mail, logger.Nop())

	tests := []struct {
		name             string
		userName         string
		email, password  string
	}{
		{name: "blank name", userName: "", email: "user@example.com", password: "password"},
		{name: "invalid email", userName: "Example User", email: "user@invalid", password: "password"},
		{name: "short password", userName: "Example User", email: "user@example.com", password: "passw"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Register(context.Background(), tt.userName, tt.email, tt.password)
			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestAuthService_Register_EmailTaken(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	mail := mock.NewMockMailer(ctrl)
	svc := NewAuthService(repo, testHasher(), mail, logger.Nop())

	repo.EXPECT().
		CreateUser(gomock.Any(), gomock.Any()).
		Return(models.User{}, store.ErrEmailAlreadyTaken)

	_, err := svc.Register(context.Background(), "Example User", "user@example.com", "password")
	assert.ErrorIs(t, err, store.ErrEmailAlreadyTaken)
}

func TestAuthService_Authenticate(t *testing.T) {
	hasher := testHasher()
	digest, err := hasher.Hash("password")
	require.NoError(t, err)

	activated := models.User{ID: 1, Email: "user@example.com", PasswordDigest: digest, Activated: true}
	pending := activated
	pending.Activated = false

	tests := []struct {
		name     string
		found    models.User
		findErr  error
		email    string
		password string
		wantErr  error
	}{
		{name: "success", found: activated, email: "user@example.com", password: "password"},
		{name: "normalizes email", found: activated, email: " User@Example.COM ", password: "password"},
		{name: "wrong password", found: activated, email: "user@example.com", password: "nope-nope", wantErr: ErrWrongPassword},
		{name: "unknown account", findErr: store.ErrUserNotFound, email: "ghost@example.com", password: "password", wantErr: ErrWrongPassword},
		// activation never gates the password check; only activated-only
		// views hide a pending account
		{name: "pending activation still authenticates", found: pending, email: "user@example.com", password: "password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock.NewMockUserRepository(ctrl)
			svc := NewAuthService(repo, hasher, mock.NewMockMailer(ctrl), logger.Nop())

			repo.EXPECT().
				FindUserByEmail(gomock.Any(), "user@example.com").
				Return(tt.found, tt.findErr).
				AnyTimes()
			repo.EXPECT().
				FindUserByEmail(gomock.Any(), "ghost@example.com").
				Return(tt.found, tt.findErr).
				AnyTimes()

			user, err := svc.Authenticate(context.Background(), tt.email, tt.password)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(1), user.ID)
		})
	}
}

func TestAuthService_Authenticate_EmptyInput(t *testing.T) {
	ctrl := gomock.NewController(t)
	svc := NewAuthService(mock.NewMockUserRepository(ctrl), testHasher(), mock.NewMockMailer(ctrl), logger.Nop())

	_, err := svc.Authenticate(context.Background(), "", "password")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)

	_, err = svc.Authenticate(context.Background(), "user@example.com", "")
	assert.ErrorIs(t, err, ErrInvalidDataProvided)
}

func TestAuthService_GetUser(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	svc := NewAuthService(repo, testHasher(), mock.NewMockMailer(ctrl), logger.Nop())

	repo.EXPECT().
		FindUserByID(gomock.Any(), int64(1)).
		Return(models.User{ID: 1, Activated: true}, nil)

	user, err := svc.GetUser(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
}

func TestAuthService_GetUser_HidesUnactivated(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	svc := NewAuthService(repo, testHasher(), mock.NewMockMailer(ctrl), logger.Nop())

	repo.EXPECT().
		FindUserByID(gomock.Any(), int64(2)).
		Return(models.User{ID: 2, Activated: false}, nil)

	_, err := svc.GetUser(context.Background(), 2)
	assert.ErrorIs(t, err, store.ErrUserNotFound)
}

func TestAuthService_UpdatePassword(t *testing.T) {
	hasher := testHasher()
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	svc := NewAuthService(repo, hasher, mock.NewMockMailer(ctrl), logger.Nop())

	repo.EXPECT().
		UpdatePassword(gomock.Any(), int64(1), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ int64, digest string) error {
			assert.True(t, hasher.Verify("new-password", digest))
			return nil
		})

	require.NoError(t, svc.UpdatePassword(context.Background(), 1, "new-password"))

	err := svc.UpdatePassword(context.Background(), 1, "short")
	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestAuthService_UpdatePassword_RepoFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock.NewMockUserRepository(ctrl)
	svc := NewAuthService(repo, testHasher(), mock.NewMockMailer(ctrl), logger.Nop())

	repoErr := errors.New("connection reset")
	repo.EXPECT().
		UpdatePassword(gomock.Any(), int64(1), gomock.Any()).
		Return(repoErr)

	err := svc.UpdatePassword(context.Background(), 1, "new-password")
	assert.ErrorIs(t, err, repoErr)
}
