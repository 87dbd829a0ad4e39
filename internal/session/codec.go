// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

// Package session implements the per-request authentication state of the
// application: the transient login session, the persistent remember-me
// credential, and the signed cookie transport both ride on.
package session

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"net/http"
	"strings"
	"time"
)

// Cookie names. The transient pair lives for the browser session; the
// remember pair is effectively permanent.
const (
	sessionUIDCookie    = "_chatter_uid"
	sessionTokenCookie  = "_chatter_session"
	rememberUIDCookie   = "_chatter_remember_uid"
	rememberTokenCookie = "_chatter_remember"
)

// permanentCookieAge approximates "never expires" for the remember-me pair.
const permanentCookieAge = 20 * 365 * 24 * time.Hour

// Codec signs and verifies cookie values with HMAC-SHA256 so a client cannot
// forge or splice them. Values are opaque to the client; tampered or
// unsigned cookies read back as absent.
type Codec struct {
	signKey []byte
	secure  bool
}

// NewCodec constructs a Codec from the configured signing key. secure marks
// every cookie Secure (HTTPS-only).
func NewCodec(signKey string, secure bool) *Codec {
	return &Codec{
		signKey: []byte(signKey),
		secure:  secure,
	}
}

// encode wraps value as base64url(value) + "." + hex(hmac).
func (c *Codec) encode(value string) string {
	encoded := base64.RawURLEncoding.EncodeToString([]byte(value))
	return encoded + "." + c.sign(encoded)
}

// decode reverses encode, verifying the signature in constant time.
// The second return is false for missing, malformed, or tampered input.
func (c *Codec) decode(encoded string) (string, bool) {
	payload, signature, found := strings.Cut(encoded, ".")
	if !found {
		return "", false
	}

	if !hmac.Equal([]byte(c.sign(payload)), []byte(signature)) {
		return "", false
	}

	value, err := base64.RawURLEncoding.DecodeString(payload)
	if err != nil {
		return "", false
	}

	return string(value), true
}

func (c *Codec) sign(payload string) string {
	mac := hmac.New(sha256.New, c.signKey)
	mac.Write([]byte(payload))
	return hex.EncodeToString(mac.Sum(nil))
}

// setSigned writes a signed, session-lifetime cookie.
func (c *Codec) setSigned(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, c.cookie(name, c.encode(value), 0))
}

// setSignedPermanent writes a signed cookie with a far-future expiry.
func (c *Codec) setSignedPermanent(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, c.cookie(name, c.encode(value), permanentCookieAge))
}

// setPermanent writes an unsigned cookie with a far-future expiry. Used for
// the raw remember token, which is verified against a stored digest rather
// than a signature.
func (c *Codec) setPermanent(w http.ResponseWriter, name, value string) {
	http.SetCookie(w, c.cookie(name, value, permanentCookieAge))
}

// readSigned returns the verified value of a signed cookie, or false when
// the cookie is absent or fails verification.
func (c *Codec) readSigned(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil {
		return "", false
	}

	return c.decode(cookie.Value)
}

// read returns the value of an unsigned cookie, or false when absent.
func (c *Codec) read(r *http.Request, name string) (string, bool) {
	cookie, err := r.Cookie(name)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	return cookie.Value, true
}

// clear expires a cookie on the client.
func (c *Codec) clear(w http.ResponseWriter, name string) {
	cookie := c.cookie(name, "", 0)
	cookie.MaxAge = -1
	http.SetCookie(w, cookie)
}

// cookie builds the shared cookie shell: path-wide, http-only, Lax, Secure
// per configuration. maxAge zero means session-lifetime.
func (c *Codec) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	cookie := &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   c.secure,
	}
	if maxAge > 0 {
		cookie.Expires = time.Now().Add(maxAge)
		cookie.MaxAge = int(maxAge / time.Second)
	}

	return cookie
}
