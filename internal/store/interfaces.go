package store

import (
	"context"
	"time"

	"github.com/chatter-social/chatter/models"
)

// UserRepository is the persistence boundary for principals. Every credential
// mutation is a single-statement UPDATE, so the read that decided the
// mutation and the write that applies it never leave a half-consumed token
// visible (e.g. a validated reset token whose digest is still set).
type UserRepository interface {
	// CreateUser persists a new principal and returns it with
	// server-assigned fields populated. The email must already be
	// normalized; a duplicate yields [ErrEmailAlreadyTaken].
	CreateUser(ctx context.Context, user models.User) (models.User, error)

	// FindUserByID retrieves a principal by primary key.
	FindUserByID(ctx context.Context, id int64) (models.User, error)

	// FindUserByEmail retrieves a principal by normalized email.
	FindUserByEmail(ctx context.Context, email string) (models.User, error)

	// UpdateRememberDigest sets or clears (empty string) the remember
	// digest of one user.
	UpdateRememberDigest(ctx context.Context, id int64, digest string) error

	// SetResetDigest writes the reset digest and its issuance time in one
	// statement.
	SetResetDigest(ctx context.Context, id int64, digest string, sentAt time.Time) error

	// UpdatePasswordClearReset writes a new password digest and clears the
	// reset and remember digests in one statement, making a consumed reset
	// token single-use and cutting off every outstanding session.
	UpdatePasswordClearReset(ctx context.Context, id int64, passwordDigest string) error

	// UpdatePassword writes a new password digest (self-service change).
	UpdatePassword(ctx context.Context, id int64, passwordDigest string) error

	// Activate flips the activated flag and records the activation time in
	// one statement.
	Activate(ctx context.Context, id int64, at time.Time) error

	// ClearExpiredResets clears reset digests issued before cutoff and
	// returns the number of rows swept.
	ClearExpiredResets(ctx context.Context, cutoff time.Time) (int64, error)
}
