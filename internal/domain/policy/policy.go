// Package policy picks an action for the active Pokémon from what is
// available this turn.
//
// The rules run in order:
//
//  1. the first move whose base power exceeds PowerThreshold;
//  2. otherwise the first switch with a larger HP fraction than the active Pokémon;
//  3. otherwise a random move or switch.
package policy

import (
	"fmt"
	"strings"

	"github.com/okian/pokecalc/internal/domain/dex"
)

// PowerThreshold is the base power a move must exceed to be picked outright.
const PowerThreshold = 90

// Kind of action.
type Kind string

// Action kinds.
const (
	KindMove   Kind = "move"
	KindSwitch Kind = "switch"
)

// Reason names the rule that produced a decision.
type Reason string

// Decision reasons.
const (
	ReasonPowerfulMove    Reason = "powerful_move"
	ReasonHealthierSwitch Reason = "healthier_switch"
	ReasonRandom          Reason = "random"
)

// Switch is a benched Pokémon that can come in.
type Switch struct {
	Name       string  `json:"name"`
	HPFraction float64 `json:"hp_fraction"`
}

// State is what one side can do this turn. Moves and Switches are in
// slot order; HP fractions are in [0, 1].
type State struct {
	Generation       int      `json:"generation,omitempty"`
	ActiveHPFraction float64  `json:"active_hp_fraction"`
	Moves            []string `json:"moves"`
	Switches         []Switch `json:"switches,omitempty"`
}

// Decision is the chosen action. BasePower is set for moves.
type Decision struct {
	Kind      Kind   `json:"kind"`
	Name      string `json:"name"`
	BasePower int    `json:"base_power,omitempty"`
	Reason    Reason `json:"reason"`
}

func (st State) validate() error {
	if !validFraction(st.ActiveHPFraction) {
		return fmt.Errorf("%w: active_hp_fraction %v outside [0, 1]", ErrInvalidState, st.ActiveHPFraction)
	}
	for i, sw := range st.Switches {
		if strings.TrimSpace(sw.Name) == "" {
			return fmt.Errorf("%w: switch %d has no name", ErrInvalidState, i)
		}
		if !validFraction(sw.HPFraction) {
			return fmt.Errorf("%w: switch %q hp_fraction %v outside [0, 1]", ErrInvalidState, sw.Name, sw.HPFraction)
		}
	}
	return nil
}

func validFraction(f float64) bool { return f >= 0 && f <= 1 }

// Choose applies the rules to st. Move names resolve against g, so base
// power follows the generation. Switch names are returned in their
// canonical spelling.
func Choose(g dex.Generation, st State, opts ...Option) (Decision, error) {
	if !g.Valid() {
		return Decision{}, fmt.Errorf("%w: no data set", dex.ErrUnsupportedGeneration)
	}
	s := settings{rand: globalSource{}}
	for _, opt := range opts {
		opt(&s)
	}
	if err := st.validate(); err != nil {
		return Decision{}, err
	}

	moves := make([]dex.Move, len(st.Moves))
	for i, name := range st.Moves {
		m, ok := g.Move(name)
		if !ok {
			return Decision{}, fmt.Errorf("%w: %q in generation %d", ErrUnknownMove, name, g.Num())
		}
		moves[i] = m
	}
	switches := make([]Switch, len(st.Switches))
	for i, sw := range st.Switches {
		sp, ok := g.Species(sw.Name)
		if !ok {
			return Decision{}, fmt.Errorf("%w: %q in generation %d", ErrUnknownSwitch, sw.Name, g.Num())
		}
		switches[i] = Switch{Name: sp.Name, HPFraction: sw.HPFraction}
	}

	for _, m := range moves {
		if m.BP > PowerThreshold {
			return moveDecision(m, ReasonPowerfulMove), nil
		}
	}
	for _, sw := range switches {
		if sw.HPFraction > st.ActiveHPFraction {
			return Decision{Kind: KindSwitch, Name: sw.Name, Reason: ReasonHealthierSwitch}, nil
		}
	}

	n := len(moves) + len(switches)
	if n == 0 {
		return Decision{}, ErrNoChoices
	}
	k := s.rand.IntN(n)
	if k < len(moves) {
		return moveDecision(moves[k], ReasonRandom), nil
	}
	return Decision{Kind: KindSwitch, Name: switches[k-len(moves)].Name, Reason: ReasonRandom}, nil
}

func moveDecision(m dex.Move, r Reason) Decision {
	return Decision{Kind: KindMove, Name: m.Name, BasePower: m.BP, Reason: r}
}
