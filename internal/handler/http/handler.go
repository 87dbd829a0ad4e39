package http

import (
	"net/http"

	"github.com/chatter-social/chatter/internal/auth"
	"github.com/chatter-social/chatter/internal/logger"
	"github.com/chatter-social/chatter/internal/service"
	"github.com/chatter-social/chatter/internal/session"
	"github.com/chatter-social/chatter/internal/store"
)

type Handler struct {
	services *service.Services

	// session manager collaborators: each request gets its own manager
	// bound to that request's cookies.
	users  store.UserRepository
	hasher auth.Hasher
	codec  *session.Codec

	logger *logger.Logger
}

func NewHandler(services *service.Services, users store.UserRepository, hasher auth.Hasher, codec *session.Codec, logger *logger.Logger) *Handler {
	logger.Info().Msg("http handler created")
	return &Handler{
		services: services,
		users:    users,
		hasher:   hasher,
		codec:    codec,
		logger:   logger,
	}
}

// sessions builds the per-request session manager.
func (h *Handler) sessions(w http.ResponseWriter, r *http.Request) *session.Manager {
	return session.NewManager(w, r, h.users, h.hasher, h.codec)
}
