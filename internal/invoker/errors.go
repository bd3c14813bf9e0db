package invoker

import "errors"

// ErrInvalidGeneration is returned by New for a generation the dex cannot serve.
var ErrInvalidGeneration = errors.New("invalid generation")
