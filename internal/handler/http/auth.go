// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

package http

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/internal/service"
	"github.com/chatter-social/chatter/internal/utils"
)

// loginRequest is the body of POST /api/session.
type loginRequest struct {
	Email      string `json:"email"`
	Password   string `json:"password"`
	RememberMe bool   `json:"remember_me"`
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteJSONError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, err := h.services.AuthService.Authenticate(ctx, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrWrongPassword), errors.Is(err, service.ErrInvalidDataProvided):
			log.Debug().Err(err).Msg("login rejected")
		default:
			log.Err(err).Msg("unexpected error occurred during login")
		}
		utils.WriteJSONError(w, messageFromError(err), statusFromError(err))
		return
	}

	sessions := h.sessions(w, r)

	// a checked remember-me box issues the permanent cookie pair; an
	// unchecked one withdraws any previously issued pair. This runs before
	// Login so the transient session binds to the post-rotation digest.
	if req.RememberMe {
		err = sessions.Remember(ctx, &user)
	} else {
		err = sessions.Forget(ctx, &user)
	}
	if err != nil {
		log.Err(err).Msg("remember-me handling failed")
		utils.WriteJSONError(w, messageFromError(err), http.StatusInternalServerError)
		return
	}

	if err := sessions.Login(ctx, &user); err != nil {
		log.Err(err).Msg("session establishment failed")
		utils.WriteJSONError(w, messageFromError(err), http.StatusInternalServerError)
		return
	}

	log.Debug().Int64("id", user.ID).Msg("user successfully logged in")

	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}

func (h *Handler) logout(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	if err := h.sessions(w, r).Logout(ctx); err != nil {
		log.Err(err).Msg("logout failed")
		utils.WriteJSONError(w, messageFromError(err), http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) me(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	user, err := h.sessions(w, r).CurrentUser(ctx)
	if err != nil {
		log.Err(err).Msg("session resolution failed")
		utils.WriteJSONError(w, messageFromError(err), http.StatusInternalServerError)
		return
	}
	if user == nil {
		utils.WriteJSONError(w, "not logged in", http.StatusUnauthorized)
		return
	}

	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}
