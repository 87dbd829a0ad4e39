// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

// Package auth provides the credential primitives used across the
// application: slow one-way hashing of secrets and generation of opaque
// random tokens. Everything else in the system stores and compares the
// values produced here; nothing ever reverses them.
package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// Hasher hashes secrets (passwords, remember/reset/activation tokens) into
// irreversible digests and verifies candidate secrets against stored digests.
type Hasher interface {
	// Hash produces a salted one-way digest of secret.
	Hash(secret string) (string, error)

	// Verify reports whether secret matches digest. It returns false for an
	// empty or malformed digest and never panics.
	Verify(secret, digest string) bool
}

// BcryptHasher implements [Hasher] using bcrypt with a configurable cost
// factor.
//
// The cost controls how expensive each Hash/Verify call is. Production runs
// use [bcrypt.DefaultCost] or higher; only test configurations may lower it
// (down to [bcrypt.MinCost]) to keep suites fast.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher constructs a BcryptHasher with the given cost factor.
// Costs outside the range bcrypt accepts are clamped to [bcrypt.DefaultCost].
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}

	return &BcryptHasher{cost: cost}
}

// Hash produces a salted bcrypt digest of secret. The digest embeds its own
// salt and cost, so two calls with the same secret yield different encodings
// that both verify.
func (h *BcryptHasher) Hash(secret string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(secret), h.cost)
	if err != nil {
		return "", err
	}

	return string(digest), nil
}

// Verify reports whether secret matches digest.
//
// bcrypt performs the comparison in constant time relative to the digest.
// An empty or malformed digest yields false, not an error: callers treat
// every failure mode uniformly as "not authenticated".
func (h *BcryptHasher) Verify(secret, digest string) bool {
	if digest == "" {
		return false
	}

	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(secret)) == nil
}
