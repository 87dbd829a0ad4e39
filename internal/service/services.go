// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

package service

import (
	"github.com/chatter-social/chatter/internal/auth"
	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/internal/mailer"
	"github.com/chatter-social/chatter/internal/store"
)

type Services struct {
	AuthService          AuthService
	PasswordResetService PasswordResetService
	ActivationService    ActivationService
}

func NewServices(repos store.Repositories, hasher auth.Hasher, mail mailer.Mailer, logger *logger.Logger) *Services {
	return &Services{
		AuthService:          NewAuthService(repos.UserRepository, hasher, mail, logger),
		PasswordResetService: NewPasswordResetService(repos.UserRepository, hasher, mail, logger),
		ActivationService:    NewActivationService(repos.UserRepository, hasher, logger),
	}
}
