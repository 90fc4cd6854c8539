package services

import "errors"

// Error taxonomy shared by the handlers for status mapping. Field-level
// validation failures wrap ErrValidation; everything not matched by a
// sentinel is treated as an internal error and returned as a generic message.
var (
	ErrValidation         = errors.New("validation failed")
	ErrEmailTaken         = errors.New("email already in use")
	ErrMissingCredentials = errors.New("please enter email and password")
	ErrInvalidCredentials = errors.New("invalid password")
	ErrInvalidToken       = errors.New("invalid verification link")
	ErrAlreadyAdmin       = errors.New("user is already an admin")
	ErrDispatchFailed     = errors.New("failed to send verification email")
)
