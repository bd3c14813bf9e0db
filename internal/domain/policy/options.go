package policy

import "math/rand/v2"

// Source supplies the random pick when no rule applies.
type Source interface {
	IntN(n int) int
}

type globalSource struct{}

func (globalSource) IntN(n int) int { return rand.IntN(n) }

// Option adjusts a single Choose call.
type Option func(*settings)

type settings struct {
	rand Source
}

// WithRand draws the fallback pick from src instead of the global generator.
func WithRand(src Source) Option {
	return func(s *settings) {
		if src != nil {
			s.rand = src
		}
	}
}
