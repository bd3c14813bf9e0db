package dex

// Generation is a read-only view of the data set under one ruleset version.
// Entries introduced after the generation are invisible through it.
type Generation struct {
	num int
	dex *Dex
}

// Num returns the ruleset version.
func (g Generation) Num() int { return g.num }

// Valid reports whether g was obtained from Dex.Gen.
func (g Generation) Valid() bool { return g.dex != nil }

// Species looks up a species by name or ID. Before generation 6 the
// returned base stats include the species' old values.
func (g Generation) Species(name string) (Species, bool) {
	s, ok := g.dex.species[ToID(name)]
	if !ok || s.Gen > g.num {
		return Species{}, false
	}
	if g.num < 6 && len(s.OldBase) > 0 {
		base := make(map[string]int, len(s.Base))
		for k, v := range s.Base {
			base[k] = v
		}
		for k, v := range s.OldBase {
			base[k] = v
		}
		s.Base = base
	}
	return s, true
}

// TypesOf returns the species typing under this generation.
func (g Generation) TypesOf(s Species) []string {
	if g.num < 6 && len(s.OldTypes) > 0 {
		return s.OldTypes
	}
	return s.Types
}

// Move looks up a move by name or ID and applies the generation's base power.
func (g Generation) Move(name string) (Move, bool) {
	m, ok := g.dex.moves[ToID(name)]
	if !ok || m.Gen > g.num || !g.HasType(m.Type) {
		return Move{}, false
	}
	if g.num < 6 && m.OldBP > 0 {
		m.BP = m.OldBP
	}
	return m, true
}

// Item looks up an item by name or ID.
func (g Generation) Item(name string) (Item, bool) {
	it, ok := g.dex.items[ToID(name)]
	if !ok || it.Gen > g.num {
		return Item{}, false
	}
	if it.BoostType != "" && !g.HasType(it.BoostType) {
		return Item{}, false
	}
	return it, true
}

// Nature looks up a nature by name or ID.
func (g Generation) Nature(name string) (Nature, bool) {
	n, ok := g.dex.natures[ToID(name)]
	return n, ok
}

// HasType reports whether the type exists in this generation.
func (g Generation) HasType(t string) bool {
	td, ok := g.dex.types[t]
	return ok && td.Gen <= g.num
}

// Effectiveness returns the product of the chart multipliers of moveType
// against every defending type.
func (g Generation) Effectiveness(moveType string, defender []string) float64 {
	row := g.dex.types[moveType].Chart
	eff := 1.0
	for _, t := range defender {
		if m, ok := row[t]; ok {
			eff *= m
			continue
		}
		// Steel lost its Ghost and Dark resistances in generation 6.
		if g.num < 6 && t == "Steel" && (moveType == "Ghost" || moveType == "Dark") {
			eff *= 0.5
		}
	}
	return eff
}
