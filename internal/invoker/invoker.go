// Package invoker performs damage calculations from plain descriptions:
// it resolves names against the dex, builds descriptors and makes exactly
// one calculator call. Calculator errors are returned wrapped, never handled.
package invoker

import (
	"context"
	"fmt"

	"github.com/okian/pokecalc/internal/domain/calc"
	"github.com/okian/pokecalc/internal/domain/dex"
	"github.com/okian/pokecalc/internal/domain/model"
	"github.com/okian/pokecalc/pkg/logger"
)

// DefaultGeneration is the ruleset version of the example matchup.
const DefaultGeneration = 5

// Invoker builds descriptors and calls the calculator.
type Invoker struct {
	gen    int
	dex    *dex.Dex
	logger logger.Logger
}

// New creates an Invoker backed by the embedded dex unless WithDex is given.
func New(opts ...Option) (*Invoker, error) {
	i := &Invoker{gen: DefaultGeneration}
	for _, opt := range opts {
		opt(i)
	}
	if i.logger == nil {
		i.logger = logger.Get().Named("invoker")
	}
	if i.dex == nil {
		d, err := dex.Default()
		if err != nil {
			return nil, fmt.Errorf("load dex: %w", err)
		}
		i.dex = d
	}
	if _, err := i.dex.Gen(i.gen); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidGeneration, err)
	}
	return i, nil
}

// Generation returns the default ruleset version.
func (i *Invoker) Generation() int { return i.gen }

// Dex returns the data set the invoker resolves names against.
func (i *Invoker) Dex() *dex.Dex { return i.dex }

// RunExample calculates the fixed example: a +1 Choice Specs Timid Gengar
// using Focus Blast on a Calm Eviolite Chansey.
func (i *Invoker) RunExample(ctx context.Context) (calc.Result, error) {
	res, err := i.Compute(ctx, ExampleRequest(i.gen))
	if err != nil {
		return calc.Result{}, err
	}
	i.logger.Debug(ctx, "example calculated", logger.String("description", res.Description))
	return res, nil
}

// Run calculates the example and discards the result.
func (i *Invoker) Run(ctx context.Context) error {
	_, err := i.RunExample(ctx)
	return err
}

// Compute evaluates an arbitrary request.
func (i *Invoker) Compute(ctx context.Context, req model.Request) (calc.Result, error) {
	if err := ctx.Err(); err != nil {
		return calc.Result{}, err
	}

	n := req.Generation
	if n == 0 {
		n = i.gen
	}
	gen, err := i.dex.Gen(n)
	if err != nil {
		return calc.Result{}, err
	}

	attacker, err := calc.NewPokemon(gen, req.Attacker.Name, req.Attacker.Options())
	if err != nil {
		return calc.Result{}, fmt.Errorf("attacker: %w", err)
	}
	defender, err := calc.NewPokemon(gen, req.Defender.Name, req.Defender.Options())
	if err != nil {
		return calc.Result{}, fmt.Errorf("defender: %w", err)
	}
	move, err := calc.NewMove(gen, req.Move.Name, req.Move.Options())
	if err != nil {
		return calc.Result{}, fmt.Errorf("move: %w", err)
	}

	res, err := calc.Calculate(gen, attacker, defender, move, calc.WithField(req.Field))
	if err != nil {
		return calc.Result{}, fmt.Errorf("calculate: %w", err)
	}
	return res, nil
}

// ExampleRequest is the example matchup as a request.
func ExampleRequest(gen int) model.Request {
	return model.Request{
		Generation: gen,
		Attacker: model.PokemonSpec{
			Name:   "Gengar",
			Item:   "Choice Specs",
			Nature: "Timid",
			EVs:    dex.StatTable{dex.SpA: 252},
			Boosts: dex.StatTable{dex.SpA: 1},
		},
		Defender: model.PokemonSpec{
			Name:   "Chansey",
			Item:   "Eviolite",
			Nature: "Calm",
			EVs:    dex.StatTable{dex.HP: 252, dex.SpD: 252},
		},
		Move: model.MoveSpec{Name: "Focus Blast"},
	}
}
