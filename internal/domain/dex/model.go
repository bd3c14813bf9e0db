package dex

// Stat identifies one of the six battle stats.
type Stat string

// Stats in canonical order.
const (
	HP  Stat = "hp"
	Atk Stat = "atk"
	Def Stat = "def"
	SpA Stat = "spa"
	SpD Stat = "spd"
	Spe Stat = "spe"
)

// AllStats lists the stats in display order.
var AllStats = []Stat{HP, Atk, Def, SpA, SpD, Spe}

// Label returns the short display label used in calculator descriptions.
func (s Stat) Label() string {
	switch s {
	case HP:
		return "HP"
	case Atk:
		return "Atk"
	case Def:
		return "Def"
	case SpA:
		return "SpA"
	case SpD:
		return "SpD"
	case Spe:
		return "Spe"
	}
	return string(s)
}

// Valid reports whether s names one of the six stats.
func (s Stat) Valid() bool {
	for _, v := range AllStats {
		if s == v {
			return true
		}
	}
	return false
}

// StatTable maps stats to values. Missing stats read as zero.
type StatTable map[Stat]int

// Move categories.
const (
	Physical = "Physical"
	Special  = "Special"
	Status   = "Status"
)

// Species is one entry of the species table.
type Species struct {
	ID       string         `koanf:"-"`
	Name     string         `koanf:"name"`
	Gen      int            `koanf:"gen"`
	Types    []string       `koanf:"types"`
	OldTypes []string       `koanf:"old_types"`
	Base     map[string]int `koanf:"base"`
	OldBase  map[string]int `koanf:"old_base"`
	NFE      bool           `koanf:"nfe"`
}

// BaseStat returns the base value of stat s.
func (sp Species) BaseStat(s Stat) int {
	return sp.Base[string(s)]
}

// Move is one entry of the move table.
type Move struct {
	ID       string `koanf:"-"`
	Name     string `koanf:"name"`
	Gen      int    `koanf:"gen"`
	Type     string `koanf:"type"`
	Category string `koanf:"category"`
	BP       int    `koanf:"bp"`
	OldBP    int    `koanf:"old_bp"`
}

// Item is one entry of the item table.
type Item struct {
	ID        string `koanf:"-"`
	Name      string `koanf:"name"`
	Gen       int    `koanf:"gen"`
	BoostType string `koanf:"boost_type"`
}

// Nature is one entry of the nature table. Neutral natures leave Plus and Minus empty.
type Nature struct {
	ID    string `koanf:"-"`
	Name  string `koanf:"name"`
	Plus  Stat   `koanf:"plus"`
	Minus Stat   `koanf:"minus"`
}

// Modifier returns the nature multiplier for s in percent (110, 100 or 90).
func (n Nature) Modifier(s Stat) int {
	switch {
	case n.Plus != "" && n.Plus == n.Minus:
		return 100
	case s == n.Plus:
		return 110
	case s == n.Minus:
		return 90
	}
	return 100
}

// TypeData is one row of the type chart.
type TypeData struct {
	Gen   int                `koanf:"gen"`
	Chart map[string]float64 `koanf:"chart"`
}
