package handlers

import "errors"

// Sentinel errors for the handler registry.
var (
	ErrAlreadyExists = errors.New("handler already registered")
	ErrEmptyName     = errors.New("handler name is empty")
)
