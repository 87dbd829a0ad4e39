// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/chatter-social/chatter/internal/auth"
	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/internal/mailer"
	"github.com/chatter-social/chatter/internal/store"
	"github.com/chatter-social/chatter/models"
)

// authService is the concrete implementation of AuthService.
// It handles account registration, credential verification, and password
// changes, using a UserRepository for persistence and bcrypt for password
// hashing.
type authService struct {
	// userRepository is the data-access layer used to create and look up users.
	userRepository store.UserRepository

	// hasher computes and verifies the irreversible credential digests.
	hasher auth.Hasher

	// mailer delivers the activation message issued at registration.
	mailer mailer.Mailer

	// logger is the structured logger used for diagnostic and error output.
	logger *logger.Logger
}

// NewAuthService constructs a new AuthService wired to the given
// UserRepository, hasher and mailer.
//
// The returned service is safe for concurrent use; all state is read-only
// after construction.
func NewAuthService(userRepository store.UserRepository, hasher auth.Hasher, mail mailer.Mailer, logger *logger.Logger) AuthService {
	return &authService{
		userRepository: userRepository,
		hasher:         hasher,
		mailer:         mail,
		logger:         logger,
	}
}

// Register creates a new unactivated account.
//
// It builds the user from the registration input (validation, email
// normalization, password digest, activation token issuance), persists it,
// and sends the activation mail. Mail delivery runs in the background: a
// delivery failure is logged but does not fail the registration, since the
// account already exists and the activation link can be re-requested.
//
// Returns the persisted user or:
//   - A models.ErrValidation-wrapped error for invalid input.
//   - A wrapped storage error if persistence fails (e.g. email already
//     taken, see store.ErrEmailAlreadyTaken).
func (a *authService) Register(ctx context.Context, name, email, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := models.NewUser(name, email, password, a.hasher)
	if err != nil {
		log.Err(err).Str("email", models.NormalizeEmail(email)).Msg("invalid registration data")
		return models.User{}, err
	}

	registered, err := a.userRepository.CreateUser(ctx, user)
	if err != nil {
		log.Err(err).Str("email", user.Email).Msg("user creation ended with error")
		return models.User{}, fmt.Errorf("user creation ended with error: %w", err)
	}

	a.sendActivationMail(ctx, registered)

	// the raw activation token leaves only via the mail collaborator
	registered.ActivationToken = ""

	return registered, nil
}

// Authenticate verifies an email/password pair.
//
// The account is looked up by normalized email and the password compared
// against the stored digest. Activation state does not gate authentication:
// an unactivated account logs in like any other and only activated-only
// views (see GetUser) stay out of reach.
//
// Returns the account record or:
//   - ErrInvalidDataProvided if email or password is empty.
//   - ErrWrongPassword when the account is unknown or the password does not
//     match; the two cases are indistinguishable to the caller.
func (a *authService) Authenticate(ctx context.Context, email, password string) (models.User, error) {
	log := logger.FromContext(ctx)

	if email == "" || password == "" {
		return models.User{}, ErrInvalidDataProvided
	}

	user, err := a.userRepository.FindUserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, ErrWrongPassword
		}
		log.Err(err).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if !a.hasher.Verify(password, user.PasswordDigest) {
		log.Debug().Int64("id", user.ID).Msg("wrong password")
		return models.User{}, ErrWrongPassword
	}

	return user, nil
}

// GetUser returns an activated account by id. An account that exists but has
// not activated yet is reported as store.ErrUserNotFound, so unactivated
// profiles stay invisible.
func (a *authService) GetUser(ctx context.Context, id int64) (models.User, error) {
	user, err := a.userRepository.FindUserByID(ctx, id)
	if err != nil {
		return models.User{}, fmt.Errorf("user search by id failed: %w", err)
	}

	if !user.Activated {
		return models.User{}, fmt.Errorf("user %d is not visible: %w", id, store.ErrUserNotFound)
	}

	return user, nil
}

// UpdatePassword replaces the password of an account outside of the reset
// flow (a logged-in self-service change).
func (a *authService) UpdatePassword(ctx context.Context, userID int64, password string) error {
	if err := models.ValidatePassword(password); err != nil {
		return err
	}

	digest, err := a.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("error hashing password: %w", err)
	}

	if err := a.userRepository.UpdatePassword(ctx, userID, digest); err != nil {
		return fmt.Errorf("password update ended with error: %w", err)
	}

	return nil
}

// sendActivationMail delivers the activation link in the background.
// The detached context keeps delivery alive after the registration request
// completes.
func (a *authService) sendActivationMail(ctx context.Context, user models.User) {
	mailCtx := context.WithoutCancel(ctx)
	log := logger.FromContext(ctx)

	go func() {
		if err := a.mailer.SendActivation(mailCtx, user); err != nil {
			log.Err(err).Int64("id", user.ID).Msg("activation mail delivery failed")
		}
	}()
}
