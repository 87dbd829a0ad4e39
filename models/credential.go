package models

// Credential enumerates the kinds of secondary credentials a user can hold,
// each backed by its own digest field. The explicit mapping in [DigestFor]
// replaces name-based field dispatch: one verification path, three kinds,
// no reflection.
type Credential int

const (
	// CredentialRemember is the long-lived remember-me token credential.
	CredentialRemember Credential = iota

	// CredentialActivation is the account-activation token credential.
	CredentialActivation

	// CredentialReset is the password-reset token credential.
	CredentialReset
)

// String returns the lowercase name of the credential kind.
func (c Credential) String() string {
	switch c {
	case CredentialRemember:
		return "remember"
	case CredentialActivation:
		return "activation"
	case CredentialReset:
		return "reset"
	default:
		return "unknown"
	}
}

// DigestFor returns the digest field of u corresponding to this credential
// kind. An unknown kind maps to the empty digest, which never verifies.
func (c Credential) DigestFor(u *User) string {
	switch c {
	case CredentialRemember:
		return u.RememberDigest
	case CredentialActivation:
		return u.ActivationDigest
	case CredentialReset:
		return u.ResetDigest
	default:
		return ""
	}
}
