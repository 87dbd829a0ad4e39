// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// tokenBytes is the entropy of a generated token: 16 bytes = 128 bits,
// which encodes to a 22-character URL-safe string.
const tokenBytes = 16

// NewToken returns a cryptographically secure random opaque token.
//
// Each call draws fresh entropy from crypto/rand; tokens are independent,
// never reused, and carry no derivable structure (no time, counter or user
// id component). The value is URL-safe and may be embedded directly in
// activation and password-reset links.
func NewToken() (string, error) {
	b := make([]byte, tokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("error generating random token: %w", err)
	}

	return base64.RawURLEncoding.EncodeToString(b), nil
}
