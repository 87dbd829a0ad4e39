package models

import "errors"

// ErrValidation is the sentinel wrapped by every field validation failure.
// Callers match it with [errors.Is]; the wrapped message names the field.
var ErrValidation = errors.New("validation failed")
