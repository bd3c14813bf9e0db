package invoker

import (
	"github.com/okian/pokecalc/internal/domain/dex"
	"github.com/okian/pokecalc/pkg/logger"
)

// Option configures an Invoker.
type Option func(*Invoker)

// WithGeneration sets the ruleset version used when a request does not name one.
func WithGeneration(gen int) Option {
	return func(i *Invoker) {
		i.gen = gen
	}
}

// WithDex replaces the embedded data set.
func WithDex(d *dex.Dex) Option {
	return func(i *Invoker) {
		if d != nil {
			i.dex = d
		}
	}
}

// WithLogger sets a custom logger.
func WithLogger(l logger.Logger) Option {
	return func(i *Invoker) {
		if l != nil {
			i.logger = l
		}
	}
}
