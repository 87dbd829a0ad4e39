// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/internal/service"
	"github.com/chatter-social/chatter/internal/store"
	"github.com/chatter-social/chatter/internal/utils"
	"github.com/chatter-social/chatter/models"
)

// resetRequest is the body of POST /api/password_resets.
type resetRequest struct {
	Email string `json:"email"`
}

// resetCompletion is the body of PATCH /api/password_resets/{token}.
type resetCompletion struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) requestPasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteJSONError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.PasswordResetService.RequestReset(ctx, req.Email); err != nil {
		switch {
		case errors.Is(err, store.ErrUserNotFound), errors.Is(err, service.ErrInvalidDataProvided):
			log.Debug().Err(err).Msg("reset request rejected")
		default:
			log.Err(err).Msg("unexpected error occurred during reset request")
		}
		utils.WriteJSONError(w, messageFromError(err), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, map[string]string{"status": "email sent with password reset instructions"}, http.StatusAccepted)
}

func (h *Handler) completePasswordReset(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req resetCompletion
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteJSONError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	token := chi.URLParam(r, "token")

	user, err := h.services.PasswordResetService.CompleteReset(ctx, req.Email, token, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrInvalidResetLink), errors.Is(err, service.ErrResetExpired), errors.Is(err, models.ErrValidation):
			log.Debug().Err(err).Msg("reset completion rejected")
		default:
			log.Err(err).Msg("unexpected error occurred during reset completion")
		}
		utils.WriteJSONError(w, messageFromError(err), statusFromError(err))
		return
	}

	// a successful reset logs the user in, same as a fresh password login
	if err := h.sessions(w, r).Login(ctx, &user); err != nil {
		log.Err(err).Msg("session establishment failed")
		utils.WriteJSONError(w, messageFromError(err), http.StatusInternalServerError)
		return
	}

	log.Info().Int64("id", user.ID).Msg("password reset completed")

	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}
