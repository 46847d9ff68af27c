package auth

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrForbidden          = errors.New("access denied: user is not an admin")
	ErrAccountBlocked     = errors.New("account is blocked")
	ErrConflict           = errors.New("user already exists")
	ErrTooManyAttempts    = errors.New("too many failed login attempts, try again later")
	ErrSignupDisabled     = errors.New("admin signup is disabled")
	ErrMissingSecret      = errors.New("server configuration error")
	ErrWrongPassword      = errors.New("incorrect current password")
)

var errRevoked = errors.New("token has been revoked")
