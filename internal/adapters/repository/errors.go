package repository

import "errors"

// Sentinel kinds for history store errors.
var (
	ErrNotFound     = errors.New("calculation not found")
	ErrInvalidLimit = errors.New("invalid history limit")
	ErrInvalidID    = errors.New("invalid calculation id")
	ErrClosed       = errors.New("store closed")
)
