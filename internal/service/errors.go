package service

import (
	"errors"

	"campanario/internal/connection"
)

var (
	// ErrNotConnected is returned when a command needs the device socket and it is not open.
	ErrNotConnected = connection.ErrNotConnected
	ErrValidation   = errors.New("validation failed")
	ErrProtected    = errors.New("bell triggers are locked")
	ErrNotFound     = errors.New("not found")
	ErrNoUpdate     = errors.New("no update available")
)

// ValidationError names the offending field and the message catalog key shown to the user.
type ValidationError struct {
	Field string
	Key   string
}

func (e *ValidationError) Error() string {
	return "invalid " + e.Field + ": " + e.Key
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func invalid(field, key string) error {
	return &ValidationError{Field: field, Key: key}
}
