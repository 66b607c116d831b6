package sessions

import "errors"

var (
	ErrNotFound           = errors.New("session not found")
	ErrSessionEnded       = errors.New("session ended")
	ErrInvalidCredentials = errors.New("username and password are required")
)
