package calc

import (
	"fmt"
	"strings"

	"github.com/okian/pokecalc/internal/domain/dex"
)

// Pokemon is an entity descriptor: a species plus its configuration, with
// stats computed for the generation it was built in.
type Pokemon struct {
	gen int

	Name    string
	Species dex.Species
	Types   []string
	Level   int
	Item    dex.Item
	Nature  dex.Nature
	Ability string
	EVs     dex.StatTable
	IVs     dex.StatTable
	Boosts  dex.StatTable
	Status  string

	// RawStats are the unboosted stats; RawStats[HP] is max HP.
	RawStats dex.StatTable
	CurHP    int
}

// NewPokemon builds an entity descriptor for species name under gen.
func NewPokemon(gen dex.Generation, name string, opts Options) (*Pokemon, error) {
	species, ok := gen.Species(name)
	if !ok {
		return nil, fmt.Errorf("%w: %q in gen %d", ErrUnknownSpecies, name, gen.Num())
	}

	p := &Pokemon{
		gen:     gen.Num(),
		Name:    species.Name,
		Species: species,
		Types:   gen.TypesOf(species),
		Level:   opts.Level,
		Ability: strings.TrimSpace(opts.Ability),
		Status:  strings.ToLower(strings.TrimSpace(opts.Status)),
		EVs:     dex.StatTable{},
		IVs:     dex.StatTable{},
		Boosts:  dex.StatTable{},
	}
	if p.Level == 0 {
		p.Level = DefaultLevel
	}
	if p.Level < 1 || p.Level > 100 {
		return nil, fmt.Errorf("%w: level %d out of range 1-100", ErrInvalidOption, p.Level)
	}

	if opts.Item != "" {
		item, ok := gen.Item(opts.Item)
		if !ok {
			return nil, fmt.Errorf("%w: %q in gen %d", ErrUnknownItem, opts.Item, gen.Num())
		}
		p.Item = item
	}

	natureName := opts.Nature
	if natureName == "" {
		natureName = DefaultNature
	}
	nature, ok := gen.Nature(natureName)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownNature, opts.Nature)
	}
	p.Nature = nature

	if !validStatuses[p.Status] {
		return nil, fmt.Errorf("%w: status %q", ErrInvalidOption, opts.Status)
	}

	if err := p.fillSpread(opts); err != nil {
		return nil, err
	}

	p.RawStats = dex.StatTable{}
	for _, s := range dex.AllStats {
		p.RawStats[s] = calcStat(s, species.BaseStat(s), p.IVs[s], p.EVs[s], p.Level, nature)
	}

	p.CurHP = p.MaxHP()
	if opts.CurHP != 0 {
		if opts.CurHP < 0 || opts.CurHP > p.MaxHP() {
			return nil, fmt.Errorf("%w: cur_hp %d out of range 1-%d", ErrInvalidOption, opts.CurHP, p.MaxHP())
		}
		p.CurHP = opts.CurHP
	}
	return p, nil
}

// fillSpread validates and copies EVs, IVs and boosts, applying defaults.
func (p *Pokemon) fillSpread(opts Options) error {
	total := 0
	for s, v := range opts.EVs {
		if !s.Valid() {
			return fmt.Errorf("%w: unknown stat %q in evs", ErrInvalidOption, s)
		}
		if v < 0 || v > MaxEV {
			return fmt.Errorf("%w: %s ev %d out of range 0-%d", ErrInvalidOption, s, v, MaxEV)
		}
		total += v
	}
	if total > MaxEVTotal {
		return fmt.Errorf("%w: ev total %d exceeds %d", ErrInvalidOption, total, MaxEVTotal)
	}
	for s, v := range opts.IVs {
		if !s.Valid() {
			return fmt.Errorf("%w: unknown stat %q in ivs", ErrInvalidOption, s)
		}
		if v < 0 || v > MaxIV {
			return fmt.Errorf("%w: %s iv %d out of range 0-%d", ErrInvalidOption, s, v, MaxIV)
		}
	}
	for s, v := range opts.Boosts {
		if !s.Valid() {
			return fmt.Errorf("%w: unknown stat %q in boosts", ErrInvalidOption, s)
		}
		if s == dex.HP && v != 0 {
			return fmt.Errorf("%w: hp cannot be boosted", ErrInvalidOption)
		}
		if v < -MaxBoost || v > MaxBoost {
			return fmt.Errorf("%w: %s boost %d out of range -%d..+%d", ErrInvalidOption, s, v, MaxBoost, MaxBoost)
		}
	}

	for _, s := range dex.AllStats {
		p.EVs[s] = opts.EVs[s]
		p.IVs[s] = DefaultIV
		if v, ok := opts.IVs[s]; ok {
			p.IVs[s] = v
		}
		if s != dex.HP {
			p.Boosts[s] = opts.Boosts[s]
		}
	}
	return nil
}

// Generation returns the ruleset version the descriptor was built for.
func (p *Pokemon) Generation() int { return p.gen }

// MaxHP returns the maximum HP.
func (p *Pokemon) MaxHP() int { return p.RawStats[dex.HP] }

// HasType reports whether the Pokémon has type t.
func (p *Pokemon) HasType(t string) bool {
	for _, own := range p.Types {
		if own == t {
			return true
		}
	}
	return false
}

// HasAbility reports whether the ability matches name, ignoring case and punctuation.
func (p *Pokemon) HasAbility(name string) bool {
	return p.Ability != "" && dex.ToID(p.Ability) == dex.ToID(name)
}

// HasItem reports whether the held item matches name.
func (p *Pokemon) HasItem(name string) bool {
	return p.Item.ID != "" && p.Item.ID == dex.ToID(name)
}

// calcStat applies the generation 3+ stat formula.
func calcStat(s dex.Stat, base, iv, ev, level int, nature dex.Nature) int {
	core := (2*base + iv + ev/4) * level / 100
	if s == dex.HP {
		return core + level + 10
	}
	return (core + 5) * nature.Modifier(s) / 100
}

// modifiedStat applies a stat stage to raw.
func modifiedStat(raw, stage int) int {
	switch {
	case stage > 0:
		return raw * (2 + stage) / 2
	case stage < 0:
		return raw * 2 / (2 - stage)
	}
	return raw
}
