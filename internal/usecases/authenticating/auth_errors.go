package authenticating

import "errors"

var (
	ErrAuthDisabled = errors.New("authentication disabled: AUTH_SECRET is not set")
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidRole  = errors.New("invalid role")
)
