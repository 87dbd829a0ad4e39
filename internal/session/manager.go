// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/chatter-social/chatter/internal/auth"
	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/internal/store"
	"github.com/chatter-social/chatter/models"
)

// Manager owns the authentication state of exactly one request/response
// cycle. It is constructed per request by the HTTP layer, resolves the
// current principal at most once, and memoizes the result for the rest of
// the request. It is never shared across requests or goroutines.
//
// State shared between clients of the same principal lives only in the
// persisted digests; each request re-reads them, so a remember-token
// rotation or an explicit logout in one browser is observed by every other
// browser on its next request.
type Manager struct {
	w      http.ResponseWriter
	r      *http.Request
	users  store.UserRepository
	hasher auth.Hasher
	codec  *Codec

	current  *models.User
	resolved bool
}

// NewManager binds a Manager to one request/response pair.
func NewManager(w http.ResponseWriter, r *http.Request, users store.UserRepository, hasher auth.Hasher, codec *Codec) *Manager {
	return &Manager{
		w:      w,
		r:      r,
		users:  users,
		hasher: hasher,
		codec:  codec,
	}
}

// Login establishes the transient session for user: the signed principal
// identifier plus an integrity token derived from the user's current
// remember digest (minting one when absent). Every later request compares
// the stored token against the principal's current digest, so a session
// cookie replayed after the digest rotates resolves to anonymous.
func (m *Manager) Login(ctx context.Context, user *models.User) error {
	token, err := m.sessionToken(ctx, user)
	if err != nil {
		return err
	}

	m.codec.setSigned(m.w, sessionUIDCookie, strconv.FormatInt(user.ID, 10))
	m.codec.setSigned(m.w, sessionTokenCookie, token)

	m.current = user
	m.resolved = true

	return nil
}

// CurrentUser resolves the principal of this request, at most once.
//
// Resolution order: a transient session whose integrity token matches the
// principal's current digest wins; otherwise a valid remember-me credential
// is promoted into a fresh transient session. Deleted accounts, token
// mismatches, and tampered cookies all resolve to nil (anonymous), never to
// an error; only an unexpected store failure is returned.
func (m *Manager) CurrentUser(ctx context.Context) (*models.User, error) {
	if m.resolved {
		return m.current, nil
	}
	m.resolved = true

	if uid, ok := m.codec.readSigned(m.r, sessionUIDCookie); ok {
		user, err := m.findByEncodedID(ctx, uid)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, nil
		}

		token, ok := m.codec.readSigned(m.r, sessionTokenCookie)
		if !ok || token != user.RememberDigest || token == "" {
			// stale or replayed session: demote silently
			return nil, nil
		}

		m.current = user
		return m.current, nil
	}

	if uid, ok := m.codec.readSigned(m.r, rememberUIDCookie); ok {
		rawToken, ok := m.codec.read(m.r, rememberTokenCookie)
		if !ok {
			return nil, nil
		}

		user, err := m.findByEncodedID(ctx, uid)
		if err != nil {
			return nil, err
		}
		if user == nil || !user.Authenticated(m.hasher, models.CredentialRemember, rawToken) {
			return nil, nil
		}

		// silent re-authentication: promote to a transient session
		if err := m.Login(ctx, user); err != nil {
			return nil, err
		}
		return m.current, nil
	}

	return nil, nil
}

// LoggedIn reports whether this request resolves to an authenticated
// principal.
func (m *Manager) LoggedIn(ctx context.Context) (bool, error) {
	user, err := m.CurrentUser(ctx)
	return user != nil, err
}

// Logout invalidates the remember-me credential of the current principal,
// clears both cookie channels, and drops the memoized principal. Calling it
// on an anonymous request is a no-op: a principal logged out concurrently in
// another client must not turn this one's logout into an error.
func (m *Manager) Logout(ctx context.Context) error {
	user, err := m.CurrentUser(ctx)
	if err != nil {
		return err
	}

	if user != nil {
		if err := m.Forget(ctx, user); err != nil {
			return err
		}
	}

	m.codec.clear(m.w, sessionUIDCookie)
	m.codec.clear(m.w, sessionTokenCookie)

	m.current = nil
	m.resolved = true

	return nil
}

// Remember issues a fresh remember-me credential for user: a new raw token
// hashed into the persisted remember digest, the signed principal id and the
// raw token placed in the permanent cookie pair. Re-remembering rotates the
// digest, which invalidates every other outstanding remember cookie for the
// same principal.
func (m *Manager) Remember(ctx context.Context, user *models.User) error {
	if err := m.rotateRememberDigest(ctx, user); err != nil {
		return err
	}

	m.codec.setSignedPermanent(m.w, rememberUIDCookie, strconv.FormatInt(user.ID, 10))
	m.codec.setPermanent(m.w, rememberTokenCookie, user.RememberToken)

	return nil
}

// Forget clears the persisted remember digest of user and deletes the
// permanent cookie pair. A user the store no longer knows is already
// forgotten.
func (m *Manager) Forget(ctx context.Context, user *models.User) error {
	err := m.users.UpdateRememberDigest(ctx, user.ID, "")
	if err != nil && !errors.Is(err, store.ErrUserNotUpdated) {
		return fmt.Errorf("error clearing remember digest: %w", err)
	}

	user.RememberDigest = ""
	user.RememberToken = ""

	m.codec.clear(m.w, rememberUIDCookie)
	m.codec.clear(m.w, rememberTokenCookie)

	return nil
}

// sessionToken returns the integrity-token basis of user: the current
// remember digest, minting and persisting one when none is outstanding.
func (m *Manager) sessionToken(ctx context.Context, user *models.User) (string, error) {
	if user.RememberDigest != "" {
		return user.RememberDigest, nil
	}

	if err := m.rotateRememberDigest(ctx, user); err != nil {
		return "", err
	}

	return user.RememberDigest, nil
}

// rotateRememberDigest mints a raw remember token, persists its digest, and
// leaves the raw value on user.RememberToken for the cookie layer. Only the
// digest crosses into the store.
func (m *Manager) rotateRememberDigest(ctx context.Context, user *models.User) error {
	token, err := auth.NewToken()
	if err != nil {
		return err
	}

	digest, err := m.hasher.Hash(token)
	if err != nil {
		return fmt.Errorf("error hashing remember token: %w", err)
	}

	if err := m.users.UpdateRememberDigest(ctx, user.ID, digest); err != nil {
		return fmt.Errorf("error persisting remember digest: %w", err)
	}

	user.RememberToken = token
	user.RememberDigest = digest

	return nil
}

// findByEncodedID parses a cookie-carried principal id and loads the user.
// Unknown ids (deleted accounts) and unparsable values resolve to nil.
func (m *Manager) findByEncodedID(ctx context.Context, encoded string) (*models.User, error) {
	id, err := strconv.ParseInt(encoded, 10, 64)
	if err != nil {
		return nil, nil
	}

	user, err := m.users.FindUserByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil
		}
		logger.FromContext(ctx).Err(err).Msg("error resolving session principal")
		return nil, fmt.Errorf("error resolving session principal: %w", err)
	}

	return &user, nil
}
