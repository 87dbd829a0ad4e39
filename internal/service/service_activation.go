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
	"github.com/chatter-social/chatter/internal/store"
	"github.com/chatter-social/chatter/models"
)

// activationService implements ActivationService. The activation token is
// issued exactly once at registration and carries no expiry; the link stops
// working the moment the account activates.
type activationService struct {
	userRepository store.UserRepository
	hasher         auth.Hasher

	now func() time.Time

	logger *logger.Logger
}

// NewActivationService constructs an ActivationService wired to the given
// UserRepository and hasher.
func NewActivationService(userRepository store.UserRepository, hasher auth.Hasher, logger *logger.Logger) ActivationService {
	return &activationService{
		userRepository: userRepository,
		hasher:         hasher,
		now:            time.Now,
		logger:         logger,
	}
}

// Activate flips the account behind an activation link to activated.
//
// Returns the activated account or ErrInvalidActivationLink when the
// account is unknown, already activated, or the token does not match the
// activation digest. An already-activated account rejects its own link, so
// activation happens at most once.
func (s *activationService) Activate(ctx context.Context, email, token string) (models.User, error) {
	log := logger.FromContext(ctx)

	user, err := s.userRepository.FindUserByEmail(ctx, models.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return models.User{}, ErrInvalidActivationLink
		}
		log.Err(err).Msg("user search by email failed")
		return models.User{}, fmt.Errorf("user search by email failed: %w", err)
	}

	if user.Activated || token == "" || !user.Authenticated(s.hasher, models.CredentialActivation, token) {
		return models.User{}, ErrInvalidActivationLink
	}

	activatedAt := s.now()
	if err := s.userRepository.Activate(ctx, user.ID, activatedAt); err != nil {
		return models.User{}, fmt.Errorf("error activating user: %w", err)
	}

	user.Activated = true
	user.ActivatedAt = activatedAt

	log.Info().Int64("id", user.ID).Msg("account activated")

	return user, nil
}
