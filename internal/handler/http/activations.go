// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Chatter Contributors

package http

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/internal/service"
	"github.com/chatter-social/chatter/internal/utils"
)

func (h *Handler) activateAccount(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromRequest(r)

	token := chi.URLParam(r, "token")
	email := r.URL.Query().Get("email")

	user, err := h.services.ActivationService.Activate(ctx, email, token)
	if err != nil {
		if errors.Is(err, service.ErrInvalidActivationLink) {
			log.Debug().Err(err).Msg("activation rejected")
		} else {
			log.Err(err).Msg("unexpected error occurred during activation")
		}
		utils.WriteJSONError(w, messageFromError(err), statusFromError(err))
		return
	}

	// activation doubles as the first login
	if err := h.sessions(w, r).Login(ctx, &user); err != nil {
		log.Err(err).Msg("session establishment failed")
		utils.WriteJSONError(w, messageFromError(err), http.StatusInternalServerError)
		return
	}

	_, _ = utils.WriteJSON(w, user, http.StatusOK)
}
