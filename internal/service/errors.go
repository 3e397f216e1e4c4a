package service

import "errors"

var (
	// ErrValidation marks input that was rejected before scoring.
	ErrValidation = errors.New("validation failed")
	// ErrPersistence marks a failed lead write. It is the only post-validation
	// failure a caller ever sees.
	ErrPersistence  = errors.New("could not save lead")
	ErrLeadNotFound = errors.New("lead not found")
)
