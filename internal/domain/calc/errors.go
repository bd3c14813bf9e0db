package calc

import (
	"errors"

	"github.com/okian/pokecalc/internal/domain/dex"
)

// Sentinel kinds for calculator errors. Callers match them with errors.Is.
var (
	ErrUnknownSpecies     = errors.New("unknown species")
	ErrUnknownMove        = errors.New("unknown move")
	ErrUnknownItem        = errors.New("unknown item")
	ErrUnknownNature      = errors.New("unknown nature")
	ErrInvalidOption      = errors.New("invalid option")
	ErrNilDescriptor      = errors.New("nil descriptor")
	ErrGenerationMismatch = errors.New("descriptors built for different generations")
)

// IsInputError reports whether err was caused by the caller's descriptors or
// options rather than by the calculator itself.
func IsInputError(err error) bool {
	for _, target := range []error{
		ErrUnknownSpecies, ErrUnknownMove, ErrUnknownItem, ErrUnknownNature,
		ErrInvalidOption, ErrNilDescriptor, ErrGenerationMismatch,
		dex.ErrUnsupportedGeneration,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
