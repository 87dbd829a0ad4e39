// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/internal/store"
	"github.com/chatter-social/chatter/internal/utils"
	"github.com/chatter-social/chatter/models"
)

// signupRequest is the body of POST /api/users.
type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) signup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteJSONError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	user, err := h.services.AuthService.Register(ctx, req.Name, req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, models.ErrValidation), errors.Is(err, store.ErrEmailAlreadyTaken):
			log.Debug().Err(err).Msg("signup rejected")
		default:
			log.Err(err).Msg("unexpected error occurred during signup")
		}
		utils.WriteJSONError(w, messageFromError(err), statusFromError(err))
		return
	}

	log.Info().Int64("id", user.ID).Msg("user registered")

	_, _ = utils.WriteJSON(w, user, http.StatusCreated)
}

// updatePasswordRequest is the body of PATCH /api/users/{id}.
type updatePasswordRequest struct {
	Password string `json:"password"`
}

func (h *Handler) updatePassword(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteJSONError(w, "user not found", http.StatusNotFound)
		return
	}

	current, err := h.sessions(w, r).CurrentUser(ctx)
	if err != nil {
		log.Err(err).Msg("session resolution failed")
		utils.WriteJSONError(w, messageFromError(err), http.StatusInternalServerError)
		return
	}
	if current == nil {
		utils.WriteJSONError(w, "not logged in", http.StatusUnauthorized)
		return
	}
	if current.ID != id {
		utils.WriteJSONError(w, "forbidden", http.StatusForbidden)
		return
	}

	var req updatePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Err(err).Msg("invalid JSON was passed")
		utils.WriteJSONError(w, "invalid JSON was passed", http.StatusBadRequest)
		return
	}

	if err := h.services.AuthService.UpdatePassword(ctx, id, req.Password); err != nil {
		if errors.Is(err, models.ErrValidation) {
			log.Debug().Err(err).Msg("password change rejected")
		} else {
			log.Err(err).Msg("unexpected error occurred during password change")
		}
		utils.WriteJSONError(w, messageFromError(err), statusFromError(err))
		return
	}

	log.Info().Int64("id", id).Msg("password changed")

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) userProfile(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		utils.WriteJSONError(w, "user not found", http.StatusNotFound)
		return
	}

	user, err := h.services.AuthService.GetUser(ctx, id)
	if err != nil {
		if !errors.Is(err, store.ErrUserNotFound) {
			log.Err(err).Msg("unexpected error occurred during profile fetch")
		}
		utils.WriteJSONError(w, messageFromError(err), statusFromError(err))
		return
	}

	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}
