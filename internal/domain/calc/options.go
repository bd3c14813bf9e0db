package calc

import (
	"fmt"

	"github.com/okian/pokecalc/internal/domain/dex"
)

// Defaults applied to omitted Options fields.
const (
	DefaultLevel  = 100
	DefaultIV     = 31
	DefaultNature = "Hardy"
	MaxEV         = 252
	MaxEVTotal    = 510
	MaxIV         = 31
	MaxBoost      = 6
)

// Statuses accepted in Options.Status.
var validStatuses = map[string]bool{"": true, "brn": true, "par": true, "psn": true, "tox": true, "slp": true, "frz": true}

// Options configures an entity descriptor. Every field is optional.
//
//   - Level defaults to 100.
//   - Item defaults to no item.
//   - Nature defaults to Hardy (neutral).
//   - Ability defaults to none; only abilities the formula knows change the result.
//   - EVs default to 0 per stat, IVs to 31 per stat, Boosts to 0 per stat.
//   - Status defaults to healthy.
//   - CurHP defaults to full HP.
type Options struct {
	Level   int
	Item    string
	Nature  string
	Ability string
	EVs     dex.StatTable
	IVs     dex.StatTable
	Boosts  dex.StatTable
	Status  string
	CurHP   int
}

// MoveOptions configures an action descriptor.
type MoveOptions struct {
	// Crit evaluates the move as a critical hit.
	Crit bool
}

// Weather conditions understood by the formula.
const (
	WeatherNone = ""
	WeatherSun  = "Sun"
	WeatherRain = "Rain"
	WeatherSand = "Sand"
	WeatherHail = "Hail"
)

// Field describes battle conditions shared by both sides.
type Field struct {
	Weather     string `json:"weather,omitempty"`
	Reflect     bool   `json:"reflect,omitempty"`      // on the defender's side
	LightScreen bool   `json:"light_screen,omitempty"` // on the defender's side
}

func (f Field) validate() error {
	switch f.Weather {
	case WeatherNone, WeatherSun, WeatherRain, WeatherSand, WeatherHail:
		return nil
	}
	return fmt.Errorf("%w: weather %q", ErrInvalidOption, f.Weather)
}

// CalcOption adjusts a single Calculate call.
type CalcOption func(*calcSettings)

type calcSettings struct {
	field Field
}

// WithField evaluates the move under the given field conditions.
func WithField(f Field) CalcOption {
	return func(s *calcSettings) {
		s.field = f
	}
}
