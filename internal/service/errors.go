package service

import "errors"

var (
	ErrInvalidDataProvided = errors.New("invalid data provided")
	ErrWrongPassword       = errors.New("wrong password")

	ErrInvalidResetLink = errors.New("invalid password reset link")
	ErrResetExpired     = errors.New("password reset link has expired")

	ErrInvalidActivationLink = errors.New("invalid activation link")
)
