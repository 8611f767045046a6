package usecase

import "errors"

// Sentinel errors for use case layer
var (
	ErrEmptyQuery    = errors.New("query text is empty")
	ErrInvalidUserID = errors.New("invalid user ID")
)
