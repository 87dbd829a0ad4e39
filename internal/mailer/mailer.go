// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

// Package mailer delivers account-lifecycle email through an HTTP mail API.
package mailer

import (
	"context"
	"fmt"
	"net/url"

	"github.com/go-resty/resty/v2"

	"github.com/chatter-social/chatter/internal/config"
	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/models"
)

// Mailer sends the two account-lifecycle messages. Implementations receive
// the user with the relevant transient token populated (ActivationToken or
// ResetToken) and must not persist or log the raw token.
type Mailer interface {
	// SendActivation emails the account-activation link to user.Email.
	SendActivation(ctx context.Context, user models.User) error

	// SendPasswordReset emails the password-reset link to user.Email.
	SendPasswordReset(ctx context.Context, user models.User) error
}

// message is the JSON body of a mail API submission.
type message struct {
	From    string `json:"from"`
	To      string `json:"to"`
	Subject string `json:"subject"`
	Text    string `json:"text"`
}

// HTTPMailer submits messages to a REST mail API authenticated with a bearer
// key. Activation and reset links are built from the externally visible base
// URL, so the value must match what the reverse proxy serves.
type HTTPMailer struct {
	client  *resty.Client
	cfg     config.Mailer
	baseURL string
	logger  *logger.Logger
}

// NewHTTPMailer creates an HTTPMailer with its own underlying HTTP client.
func NewHTTPMailer(cfg config.Mailer, baseURL string, logger *logger.Logger) *HTTPMailer {
	return &HTTPMailer{
		client:  resty.New(),
		cfg:     cfg,
		baseURL: baseURL,
		logger:  logger,
	}
}

// SendActivation emails the account-activation link. The link carries the raw
// activation token in the path and the address in the query, mirroring the
// lookup the activation endpoint performs.
func (m *HTTPMailer) SendActivation(ctx context.Context, user models.User) error {
	link := fmt.Sprintf("%s/account_activations/%s?email=%s",
		m.baseURL, user.ActivationToken, url.QueryEscape(user.Email))

	return m.send(ctx, message{
		From:    m.cfg.From,
		To:      user.Email,
		Subject: "Account activation",
		Text:    fmt.Sprintf("Hi %s,\n\nWelcome to Chatter! Click on the link below to activate your account:\n\n%s\n", user.Name, link),
	})
}

// SendPasswordReset emails the password-reset link. The link expires two
// hours after the reset was requested.
func (m *HTTPMailer) SendPasswordReset(ctx context.Context, user models.User) error {
	link := fmt.Sprintf("%s/password_resets/%s?email=%s",
		m.baseURL, user.ResetToken, url.QueryEscape(user.Email))

	return m.send(ctx, message{
		From:    m.cfg.From,
		To:      user.Email,
		Subject: "Password reset",
		Text:    fmt.Sprintf("To reset your password click the link below:\n\n%s\n\nThis link will expire in two hours. If you did not request your password to be reset, please ignore this email.\n", link),
	})
}

func (m *HTTPMailer) send(ctx context.Context, msg message) error {
	resp, err := m.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(m.cfg.APIKey).
		SetBody(msg).
		Post(m.cfg.Endpoint)
	if err != nil {
		return fmt.Errorf("mail submission failed: %w", err)
	}

	if resp.IsError() {
		return fmt.Errorf("mail API returned status %d", resp.StatusCode())
	}

	m.logger.Debug().Str("to", msg.To).Str("subject", msg.Subject).Msg("mail submitted")

	return nil
}

// NopMailer discards messages. Used when no mail endpoint is configured and
// in tests that do not care about delivery.
type NopMailer struct{}

func (NopMailer) SendActivation(ctx context.Context, user models.User) error    { return nil }
func (NopMailer) SendPasswordReset(ctx context.Context, user models.User) error { return nil }
