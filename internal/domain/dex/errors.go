package dex

import "errors"

// Sentinel kinds for data set errors.
var (
	ErrUnsupportedGeneration = errors.New("unsupported generation")
	ErrBadData               = errors.New("invalid dex data")
)
