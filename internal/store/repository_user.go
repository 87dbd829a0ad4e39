package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgerrcode"

	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/models"
)

// userRepository is the PostgreSQL-backed implementation of [UserRepository].
// It handles principal creation, lookup, and single-statement credential
// mutations against the "users" table.
//
// All methods obtain a context-scoped logger via [logger.FromContext] for
// structured, request-level tracing of database interactions. Digest values
// pass through as opaque strings and are never logged.
type userRepository struct {
	logger *logger.Logger
	db     *DB
}

// NewUserRepository constructs a [UserRepository] backed by the provided
// database connection and logger.
func NewUserRepository(db *DB, logger *logger.Logger) UserRepository {
	logger.Debug().Msg("creating user repository")
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

// CreateUser persists a new principal and returns the fully populated
// [models.User] with server-assigned fields (ID, CreatedAt).
//
// The INSERT uses the [createUser] query which returns all columns via a
// RETURNING clause, so the caller receives the canonical database
// representation of the newly created account. Transient raw-token fields
// on the input survive on the returned value; they are never sent to the
// database.
//
// Error handling:
//   - PostgreSQL unique_violation (23505) → [ErrEmailAlreadyTaken].
//   - Any other driver-level error → wrapped as "unexpected DB error".
//   - Scan failure → returned directly.
func (r *userRepository) CreateUser(ctx context.Context, user models.User) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, createUser, user.Name, user.Email, user.PasswordDigest, user.ActivationDigest)

	// create user in db
	if err := row.Err(); err != nil {
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: row is nil")

		switch postgresError(err) {
		case pgerrcode.UniqueViolation:
			return models.User{}, ErrEmailAlreadyTaken
		default:
			return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
		}
	}

	created, err := scanUser(row)
	if err != nil {
		if isUniqueViolation(err) {
			return models.User{}, ErrEmailAlreadyTaken
		}
		log.Err(err).Str("func", "*userRepository.CreateUser").Msg("error: scanning error")
		return models.User{}, err
	}

	// raw tokens live only in memory; carry them across the round-trip
	created.Password = user.Password
	created.ActivationToken = user.ActivationToken

	return created, nil
}

// FindUserByID retrieves a principal by primary key.
//
// Error handling:
//   - No matching row → [ErrUserNotFound].
//   - Any other driver-level error → wrapped as "unexpected DB error".
func (r *userRepository) FindUserByID(ctx context.Context, id int64) (models.User, error) {
	return r.findUser(ctx, findUserByID, id)
}

// FindUserByEmail retrieves a principal by normalized email. Callers are
// expected to pass the email through [models.NormalizeEmail] first; the
// lookup itself performs an exact match.
//
// Error handling mirrors [FindUserByID].
func (r *userRepository) FindUserByEmail(ctx context.Context, email string) (models.User, error) {
	return r.findUser(ctx, findUserByEmail, email)
}

func (r *userRepository) findUser(ctx context.Context, query string, arg any) (models.User, error) {
	log := logger.FromContext(ctx)

	row := r.db.QueryRowContext(ctx, query, arg)
	if err := row.Err(); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(err).Str("func", "*userRepository.findUser").Msg("error: row is nil")
		return models.User{}, fmt.Errorf("unexpected DB error: %w", err)
	}

	user, err := scanUser(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.User{}, ErrUserNotFound
		}
		log.Err(err).Str("func", "*userRepository.findUser").Msg("error: scanning error")
		return models.User{}, err
	}

	return user, nil
}

// UpdateRememberDigest sets or clears the remember digest of one user in a
// single UPDATE. Clearing passes the empty string.
func (r *userRepository) UpdateRememberDigest(ctx context.Context, id int64, digest string) error {
	return r.execUserUpdate(ctx, "UpdateRememberDigest", updateRememberDigest, id, digest)
}

// SetResetDigest writes the reset digest and its issuance timestamp together
// in a single UPDATE.
func (r *userRepository) SetResetDigest(ctx context.Context, id int64, digest string, sentAt time.Time) error {
	return r.execUserUpdate(ctx, "SetResetDigest", setResetDigest, id, digest, sentAt)
}

// UpdatePasswordClearReset writes the new password digest and clears the
// reset digest, its timestamp, and the remember digest in a single UPDATE.
// A consumed reset token can never be replayed against a half-updated row,
// and every session or remember cookie bound to the old remember digest
// stops resolving.
func (r *userRepository) UpdatePasswordClearReset(ctx context.Context, id int64, passwordDigest string) error {
	return r.execUserUpdate(ctx, "UpdatePasswordClearReset", updatePasswordClearReset, id, passwordDigest)
}

// UpdatePassword writes a new password digest (self-service change path).
func (r *userRepository) UpdatePassword(ctx context.Context, id int64, passwordDigest string) error {
	return r.execUserUpdate(ctx, "UpdatePassword", updatePassword, id, passwordDigest)
}

// Activate flips the activated flag and records the activation time in one
// UPDATE.
func (r *userRepository) Activate(ctx context.Context, id int64, at time.Time) error {
	return r.execUserUpdate(ctx, "Activate", activateUser, id, at)
}

// ClearExpiredResets clears every pending reset issued before cutoff and
// returns the number of swept rows. Used by the background sweeper; flow
// correctness never depends on it because validation checks the window.
func (r *userRepository) ClearExpiredResets(ctx context.Context, cutoff time.Time) (int64, error) {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, clearExpiredResets, cutoff)
	if err != nil {
		log.Err(err).Bool("retryable", r.db.retryable(err)).Str("func", "*userRepository.ClearExpiredResets").Msg("error executing sweep")
		return 0, fmt.Errorf("unexpected DB error: %w", err)
	}

	swept, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("error reading affected rows: %w", err)
	}

	return swept, nil
}

// execUserUpdate runs a single-row credential UPDATE and converts a zero
// rows-affected outcome into [ErrUserNotUpdated] (the row vanished between
// the deciding read and this write).
func (r *userRepository) execUserUpdate(ctx context.Context, name, query string, args ...any) error {
	log := logger.FromContext(ctx)

	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		log.Err(err).Bool("retryable", r.db.retryable(err)).Str("func", "*userRepository."+name).Msg("error executing update")
		return fmt.Errorf("unexpected DB error: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("error reading affected rows: %w", err)
	}
	if affected == 0 {
		return ErrUserNotUpdated
	}

	return nil
}

// scanUser reads one full users row. Nullable timestamps come back through
// sql.NullTime and land as zero times when absent.
func scanUser(row *sql.Row) (models.User, error) {
	var user models.User
	var activatedAt, resetSentAt sql.NullTime

	err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.PasswordDigest,
		&user.RememberDigest,
		&user.ActivationDigest,
		&user.ResetDigest,
		&user.Activated,
		&activatedAt,
		&resetSentAt,
		&user.CreatedAt,
	)
	if err != nil {
		return models.User{}, err
	}

	if activatedAt.Valid {
		user.ActivatedAt = activatedAt.Time
	}
	if resetSentAt.Valid {
		user.ResetSentAt = resetSentAt.Time
	}

	return user, nil
}

func isUniqueViolation(err error) bool {
	return postgresError(err) == pgerrcode.UniqueViolation
}
