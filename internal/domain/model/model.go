// Package model contains domain models passed between layers.
package model

import (
	"time"

	"github.com/okian/pokecalc/internal/domain/calc"
	"github.com/okian/pokecalc/internal/domain/dex"
)

// PokemonSpec is the wire form of an entity descriptor.
// Fields mirror calc.Options; zero values take the calculator defaults.
type PokemonSpec struct {
	Name    string        `json:"name"`
	Level   int           `json:"level,omitempty"`
	Item    string        `json:"item,omitempty"`
	Nature  string        `json:"nature,omitempty"`
	Ability string        `json:"ability,omitempty"`
	EVs     dex.StatTable `json:"evs,omitempty"`
	IVs     dex.StatTable `json:"ivs,omitempty"`
	Boosts  dex.StatTable `json:"boosts,omitempty"`
	Status  string        `json:"status,omitempty"`
	CurHP   int           `json:"cur_hp,omitempty"`
}

// Options converts p into calculator options.
func (p PokemonSpec) Options() calc.Options {
	return calc.Options{
		Level:   p.Level,
		Item:    p.Item,
		Nature:  p.Nature,
		Ability: p.Ability,
		EVs:     p.EVs,
		IVs:     p.IVs,
		Boosts:  p.Boosts,
		Status:  p.Status,
		CurHP:   p.CurHP,
	}
}

// MoveSpec is the wire form of an action descriptor.
type MoveSpec struct {
	Name string `json:"name"`
	Crit bool   `json:"crit,omitempty"`
}

// Options converts m into move options.
func (m MoveSpec) Options() calc.MoveOptions {
	return calc.MoveOptions{Crit: m.Crit}
}

// Request is one damage calculation. Generation 0 means the configured default.
type Request struct {
	Generation int         `json:"generation,omitempty"`
	Attacker   PokemonSpec `json:"attacker"`
	Defender   PokemonSpec `json:"defender"`
	Move       MoveSpec    `json:"move"`
	Field      calc.Field  `json:"field,omitempty"`
}

// Record is a stored calculation.
type Record struct {
	ID        string      `json:"id"`
	CreatedAt time.Time   `json:"created_at"`
	Request   Request     `json:"request"`
	Result    calc.Result `json:"result"`
	Cached    bool        `json:"cached"`
}

// BatchItem is the outcome of one request within a batch, in input order.
// Invalid marks an Error caused by the request itself.
type BatchItem struct {
	Index   int     `json:"index"`
	Record  *Record `json:"record,omitempty"`
	Error   string  `json:"error,omitempty"`
	Invalid bool    `json:"invalid,omitempty"`
}
