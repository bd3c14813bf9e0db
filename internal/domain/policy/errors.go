package policy

import "errors"

// Sentinel kinds for choice errors. All of them are caused by the state
// the caller sent.
var (
	ErrInvalidState  = errors.New("invalid battle state")
	ErrUnknownMove   = errors.New("unknown move")
	ErrUnknownSwitch = errors.New("unknown switch target")
	ErrNoChoices     = errors.New("no moves or switches available")
)

// IsInputError reports whether err came from the state rather than the chooser.
func IsInputError(err error) bool {
	for _, target := range []error{ErrInvalidState, ErrUnknownMove, ErrUnknownSwitch, ErrNoChoices} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
