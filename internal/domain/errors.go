package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrValidation      = errors.New("validation failed")
	ErrProviderFailure = errors.New("provider failure")
	ErrNoAssets        = errors.New("generation produced no assets")
)
