package services

import "errors"

var (
	// ErrInvalidCredentials is returned when email and password do not match an account
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrUsernameTaken is returned when signing up with a username already in use
	ErrUsernameTaken = errors.New("username already taken")
	// ErrAccountExists is returned when the username or email collides at insert time
	ErrAccountExists = errors.New("account already exists")
)

// ValidationError is a user input problem; its message is safe to show
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func invalid(message string) error {
	return &ValidationError{Message: message}
}
