// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/chatter-social/chatter/internal/auth"
	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/internal/mailer"
	"github.com/chatter-social/chatter/internal/store"
	"github.com/chatter-social/chatter/models"
)

// ResetTokenTTL is how long a password-reset link stays valid after the
// reset mail is sent.
const ResetTokenTTL = 2 * time.Hour

// passwordResetService implements PasswordResetService. Each account holds
// at most one pending reset; a new request overwrites the previous digest,
// invalidating any earlier link.
type passwordResetService struct {
	userRepository store.UserRepository
	hasher         auth.Hasher
	mailer         mailer.Mailer

	// now is the clock used for issuing and expiring resets. Swapped in tests.
	now func() time.Time

	logger *logger.Logger
}

// NewPasswordResetService constructs a PasswordResetService wired to the
// given UserRepository, hasher and mailer.
func NewPasswordResetService(userRepository store.UserRepository, hasher auth.Hasher, mail mailer.Mailer, logger *logger.Logger) PasswordResetService {
	return &passwordResetService{
		userRepository: userRepository,
		hasher:         hasher,
		mailer:         mail,
		now:            time.Now,
		logger:         logger,
	}
}

// RequestReset issues a fresh reset token for the account behind email and
// sends the reset mail.
//
// Returns nil on success or:
//   - ErrInvalidDataProvided if email is empty.
//   - store.ErrUserNotFound (wrapped) if no account matches the address.
//   - A wrapped storage or delivery error otherwise.
func (s *passwordResetService) RequestReset(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	if email == "" {
		return ErrInvalidDataProvided
	}

	user, err := s.userRepository.FindUserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		return fmt.Errorf("user search by email failed: %w", err)
	}

	token, err := auth.NewToken()
	if err != nil {
		return err
	}

	digest, err := s.hasher.Hash(token)
	if err != nil {
		return fmt.Errorf("error hashing reset token: %w", err)
	}

	sentAt := s.now()
	if err := s.userRepository.SetResetDigest(ctx, user.ID, digest, sentAt); err != nil {
		return fmt.Errorf("error persisting reset digest: %w", err)
	}

	user.ResetToken = token
	user.ResetSentAt = sentAt

	if err := s.mailer.SendPasswordReset(ctx, user); err != nil {
		log.Err(err).Int64("id", user.ID).Msg("reset mail delivery failed")
		return fmt.Errorf("reset mail delivery failed: %w", err)
	}

	return nil
}

// ValidateReset checks a reset link without consuming it.
//
// A link is valid when the account exists, is activated, the raw token
// matches the pending reset digest, and the expiry window has not passed.
//
// Returns the account or:
//   - ErrInvalidResetLink when the account is unknown, not activated, or
//     the token does not match what is pending.
//   - ErrResetExpired when the link matched but its window has passed.
func (s *passwordResetService) ValidateReset(ctx context.Context, email, token string) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepository.FindUserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, ErrInvalidResetLink
		}
		log.Err(err).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if !user.Activated || token == "" || !user.Authenticated(s.hasher, models.CredentialReset, token) {
		return models.User{}, ErrInvalidResetLink
	}

	if user.ResetSentAt.IsZero() || s.now().After(user.ResetSentAt.Add(ResetTokenTTL)) {
		return models.User{}, ErrResetExpired
	}

	return user, nil
}

// CompleteReset consumes a valid reset link: the new password digest is
// written and the pending reset cleared in a single store write, so a
// consumed link can never authenticate again. The same write clears the
// remember digest, which invalidates every session established before the
// reset; the caller logs the account into a fresh one.
//
// Returns the account with its new credentials applied or:
//   - Any error ValidateReset reports for the link itself.
//   - A models.ErrValidation-wrapped error for an unacceptable password.
func (s *passwordResetService) CompleteReset(ctx context.Context, email, token, password string) (models.User, error) {
	user, err := s.ValidateReset(ctx, email, token)
	if err != nil {
		return models.User{}, err
	}

	if err := models.ValidatePassword(password); err != nil {
		return models.User{}, err
	}

	digest, err := s.hasher.Hash(password)
	if err != nil {
		return models.User{}, fmt.Errorf("error hashing password: %w", err)
	}

	if err := s.userRepository.UpdatePasswordClearReset(ctx, user.ID, digest); err != nil {
		return models.User{}, fmt.Errorf("error completing password reset: %w", err)
	}

	user.PasswordDigest = digest
	user.ResetDigest = ""
	user.ResetSentAt = time.Time{}

	// mirror the store write: a fresh login must mint a new remember digest
	// rather than reuse the one pre-reset sessions are bound to
	user.RememberDigest = ""

	return user, nil
}
