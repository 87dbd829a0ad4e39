package models

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/chatter-social/chatter/internal/auth"
)

// Field limits enforced at construction and update time.
const (
	MaxNameLength     = 50
	MaxEmailLength    = 255
	MinPasswordLength = 6
)

// emailPattern accepts addresses of the form word+chars@host.tld. It is the
// permissive application-level check; the database enforces uniqueness.
var emailPattern = regexp.MustCompile(`^[\w+\-.]+@[a-zA-Z\d\-.]+\.[a-zA-Z]+$`)

// User represents a principal of the application: an account that can
// authenticate, hold a session, and own content.
//
// Credential state is stored exclusively as irreversible digests. The raw
// counterparts (Password, RememberToken, ActivationToken, ResetToken) exist
// only in memory within a single request/response cycle: they are carried to
// the client in a cookie or a link and are never written to the store, to
// JSON, or to logs.
type User struct {
	// ID is the internal unique identifier of the user.
	ID int64 `json:"id"`

	// Name is the display name of the user.
	Name string `json:"name"`

	// Email is the unique, lowercase-normalized address of the user.
	// All lookups compare against this normalized form.
	Email string `json:"email"`

	// PasswordDigest is the bcrypt digest of the current password.
	PasswordDigest string `json:"-"`

	// RememberDigest is the digest of the current remember-me token.
	// Empty when no persistent login is outstanding; cleared on logout.
	RememberDigest string `json:"-"`

	// ActivationDigest is the digest of the activation token issued at
	// account creation. Set exactly once and never regenerated.
	ActivationDigest string `json:"-"`

	// ResetDigest is the digest of the pending password-reset token.
	// Empty when no reset is pending; cleared when a reset is consumed.
	ResetDigest string `json:"-"`

	// Activated reports whether the account has completed activation.
	Activated bool `json:"activated"`

	// ActivatedAt is the time the account was activated, zero until then.
	ActivatedAt time.Time `json:"-"`

	// ResetSentAt is the time the pending reset token was issued, zero when
	// no reset is pending. A reset is valid only within its expiry window.
	ResetSentAt time.Time `json:"-"`

	// CreatedAt is the account creation timestamp.
	CreatedAt time.Time `json:"created_at"`

	// Password is the transient raw password supplied at registration or
	// password change. Never persisted.
	Password string `json:"-"`

	// RememberToken is the transient raw remember-me token, populated only
	// while a "remember" operation hands it to the cookie layer.
	RememberToken string `json:"-"`

	// ActivationToken is the transient raw activation token, populated only
	// between account creation and the outbound activation mail.
	ActivationToken string `json:"-"`

	// ResetToken is the transient raw password-reset token, populated only
	// between reset issuance and the outbound reset mail.
	ResetToken string `json:"-"`
}

// TableName returns the name of the database table
// associated with the User model.
func (u User) TableName() string {
	return "users"
}

// NormalizeEmail lowercases and trims an email address. Every comparison and
// lookup in the system goes through this form.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// NewUser constructs an unactivated principal from registration input.
//
// Steps run in a fixed order: field validation, email normalization (before
// any uniqueness check at the store), password digest computation, and
// activation token issuance. The activation token is issued here and only
// here; update paths never regenerate it. The raw token remains on the
// returned value (ActivationToken) for the caller to hand to the outbound
// mail collaborator.
func NewUser(name, email, password string, hasher auth.Hasher) (User, error) {
	if err := validateRegistration(name, email, password); err != nil {
		return User{}, err
	}

	passwordDigest, err := hasher.Hash(password)
	if err != nil {
		return User{}, fmt.Errorf("error hashing password: %w", err)
	}

	activationToken, err := auth.NewToken()
	if err != nil {
		return User{}, fmt.Errorf("error issuing activation token: %w", err)
	}

	activationDigest, err := hasher.Hash(activationToken)
	if err != nil {
		return User{}, fmt.Errorf("error hashing activation token: %w", err)
	}

	return User{
		Name:             name,
		Email:            NormalizeEmail(email),
		PasswordDigest:   passwordDigest,
		ActivationToken:  activationToken,
		ActivationDigest: activationDigest,
	}, nil
}

// Authenticated reports whether token matches the digest of the given
// credential kind on this user. A kind whose digest is empty (nothing
// outstanding) is never authenticated.
func (u *User) Authenticated(hasher auth.Hasher, kind Credential, token string) bool {
	return hasher.Verify(token, kind.DigestFor(u))
}

// ValidatePassword checks a candidate new password against the password
// rules shared by registration, self-service change, and reset completion.
func ValidatePassword(password string) error {
	if password == "" {
		return fmt.Errorf("%w: password can't be blank", ErrValidation)
	}
	if len(password) < MinPasswordLength {
		return fmt.Errorf("%w: password is too short (minimum is %d characters)", ErrValidation, MinPasswordLength)
	}

	return nil
}

func validateRegistration(name, email, password string) error {
	if name == "" {
		return fmt.Errorf("%w: name can't be blank", ErrValidation)
	}
	if len(name) > MaxNameLength {
		return fmt.Errorf("%w: name is too long (maximum is %d characters)", ErrValidation, MaxNameLength)
	}

	normalized := NormalizeEmail(email)
	if normalized == "" {
		return fmt.Errorf("%w: email can't be blank", ErrValidation)
	}
	if len(normalized) > MaxEmailLength {
		return fmt.Errorf("%w: email is too long (maximum is %d characters)", ErrValidation, MaxEmailLength)
	}
	if !emailPattern.MatchString(normalized) {
		return fmt.Errorf("%w: email is invalid", ErrValidation)
	}

	return ValidatePassword(password)
}
