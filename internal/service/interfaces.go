package service

import (
	"context"

	"github.com/chatter-social/chatter/models"
)

type AuthService interface {
	// Register creates an unactivated account and emails its activation
	// link. The returned user never carries raw credentials.
	Register(ctx context.Context, name, email, password string) (models.User, error)

	// Authenticate verifies an email/password pair and returns the account.
	// A not-yet-activated account authenticates like any other; only
	// activated-only views gate on the flag.
	Authenticate(ctx context.Context, email, password string) (models.User, error)

	// GetUser returns an activated account by id. Accounts that are missing
	// or not yet activated are both reported as not found.
	GetUser(ctx context.Context, id int64) (models.User, error)

	// UpdatePassword replaces the password of the given account after
	// validating the candidate against the password rules.
	UpdatePassword(ctx context.Context, userID int64, password string) error
}

type PasswordResetService interface {
	// RequestReset issues a fresh reset token for the account behind email
	// and sends the reset mail.
	RequestReset(ctx context.Context, email string) error

	// ValidateReset checks a reset link (email + raw token) without
	// consuming it, returning the account it belongs to.
	ValidateReset(ctx context.Context, email, token string) (models.User, error)

	// CompleteReset consumes a valid reset link: it sets the new password
	// and invalidates the pending reset in the same store write.
	CompleteReset(ctx context.Context, email, token, password string) (models.User, error)
}

type ActivationService interface {
	// Activate flips the account behind an activation link (email + raw
	// token) to activated. Already-activated accounts reject the link.
	Activate(ctx context.Context, email, token string) (models.User, error)
}
