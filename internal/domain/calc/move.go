package calc

import (
	"fmt"

	"github.com/okian/pokecalc/internal/domain/dex"
)

// Move is an action descriptor.
type Move struct {
	gen int

	Name     string
	ID       string
	Type     string
	Category string
	BP       int
	Crit     bool
}

// NewMove builds an action descriptor for move name under gen.
func NewMove(gen dex.Generation, name string, opts MoveOptions) (*Move, error) {
	m, ok := gen.Move(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in gen %d", ErrUnknownMove, name, gen.Num())
	}
	return &Move{
		gen:      gen.Num(),
		Name:     m.Name,
		ID:       m.ID,
		Type:     m.Type,
		Category: m.Category,
		BP:       m.BP,
		Crit:     opts.Crit,
	}, nil
}

// Generation returns the ruleset version the descriptor was built for.
func (m *Move) Generation() int { return m.gen }

// IsPhysical reports whether the move uses Atk against Def.
func (m *Move) IsPhysical() bool { return m.Category == dex.Physical }

// IsStatus reports whether the move deals no direct damage.
func (m *Move) IsStatus() bool { return m.Category == dex.Status || m.BP == 0 }
