package config

import (
	"errors"
)

// Errors returned by option operations.
var (
	// ErrUnknownOption indicates the option name doesn't exist.
	ErrUnknownOption = errors.New("unknown option")

	// ErrInvalidValue indicates the value can't be used for the option.
	ErrInvalidValue = errors.New("invalid option value")
)
