package http

import (
	"errors"
	"net/http"

	"github.com/chatter-social/chatter/internal/service"
	"github.com/chatter-social/chatter/internal/store"
	"github.com/chatter-social/chatter/models"
)

var errorStatusMap = map[error]int{
	service.ErrInvalidDataProvided: http.StatusBadRequest,
	service.ErrWrongPassword:       http.StatusUnauthorized,

	service.ErrInvalidResetLink:      http.StatusUnprocessableEntity,
	service.ErrResetExpired:          http.StatusGone,
	service.ErrInvalidActivationLink: http.StatusUnprocessableEntity,

	models.ErrValidation: http.StatusUnprocessableEntity,

	store.ErrEmailAlreadyTaken: http.StatusConflict,
	store.ErrUserNotFound:      http.StatusNotFound,
	store.ErrUserNotUpdated:    http.StatusInternalServerError,
}

// errorMessageMap holds the client-facing message per sentinel. Responses
// never carry wrapped internals or credential material.
var errorMessageMap = map[error]string{
	service.ErrInvalidDataProvided: "invalid data provided",
	service.ErrWrongPassword:       "invalid email/password combination",

	service.ErrInvalidResetLink:      "invalid password reset link",
	service.ErrResetExpired:          "password reset link has expired",
	service.ErrInvalidActivationLink: "invalid activation link",

	store.ErrEmailAlreadyTaken: "email has already been taken",
	store.ErrUserNotFound:      "user not found",
}

func statusFromError(err error) int {
	for target, status := range errorStatusMap {
		if errors.Is(err, target) {
			return status
		}
	}
	return http.StatusInternalServerError
}

func messageFromError(err error) string {
	for target, message := range errorMessageMap {
		if errors.Is(err, target) {
			return message
		}
	}
	// field validation messages name the offending field and are safe to echo
	if errors.Is(err, models.ErrValidation) {
		return err.Error()
	}
	return http.StatusText(http.StatusInternalServerError)
}
