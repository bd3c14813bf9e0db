package calc

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/okian/pokecalc/internal/domain/dex"
)

// maxExactHits bounds the exact KO probability computation.
const maxExactHits = 4

// Combatant summarises a descriptor as it entered the calculation.
type Combatant struct {
	Name    string        `json:"name"`
	Level   int           `json:"level"`
	Types   []string      `json:"types"`
	Item    string        `json:"item,omitempty"`
	Nature  string        `json:"nature"`
	Ability string        `json:"ability,omitempty"`
	Status  string        `json:"status,omitempty"`
	EVs     dex.StatTable `json:"evs"`
	Boosts  dex.StatTable `json:"boosts,omitempty"`
	Stats   dex.StatTable `json:"stats"`
	CurHP   int           `json:"cur_hp"`

	nature dex.Nature
}

// MoveSummary describes the action that was evaluated.
type MoveSummary struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Category string `json:"category"`
	BP       int    `json:"bp"`
	Crit     bool   `json:"crit,omitempty"`
}

// KOChance is the probability of knocking the defender out in N hits.
// N is zero when the move cannot KO at all.
type KOChance struct {
	N      int     `json:"n"`
	Chance float64 `json:"chance"`
	Text   string  `json:"text"`
}

// Result is the outcome of one Calculate call.
type Result struct {
	Generation    int         `json:"generation"`
	Attacker      Combatant   `json:"attacker"`
	Defender      Combatant   `json:"defender"`
	Move          MoveSummary `json:"move"`
	Field         Field       `json:"field"`
	Damage        []int       `json:"damage"`
	Min           int         `json:"min"`
	Max           int         `json:"max"`
	DefenderHP    int         `json:"defender_hp"`
	MinPercent    float64     `json:"min_percent"`
	MaxPercent    float64     `json:"max_percent"`
	Effectiveness float64     `json:"effectiveness"`
	KO            KOChance    `json:"ko"`
	Description   string      `json:"description"`
}

func newResult(gen int, attacker, defender *Pokemon, move *Move, field Field) Result {
	return Result{
		Generation: gen,
		Attacker:   summarise(attacker),
		Defender:   summarise(defender),
		Move: MoveSummary{
			Name:     move.Name,
			Type:     move.Type,
			Category: move.Category,
			BP:       move.BP,
			Crit:     move.Crit,
		},
		Field:         field,
		DefenderHP:    defender.MaxHP(),
		Effectiveness: 1,
	}
}

func summarise(p *Pokemon) Combatant {
	c := Combatant{
		Name:    p.Name,
		Level:   p.Level,
		Types:   append([]string(nil), p.Types...),
		Item:    p.Item.Name,
		Nature:  p.Nature.Name,
		Ability: p.Ability,
		Status:  p.Status,
		EVs:     dex.StatTable{},
		Boosts:  dex.StatTable{},
		Stats:   dex.StatTable{},
		CurHP:   p.CurHP,
		nature:  p.Nature,
	}
	for _, s := range dex.AllStats {
		c.Stats[s] = p.RawStats[s]
		if p.EVs[s] != 0 {
			c.EVs[s] = p.EVs[s]
		}
		if p.Boosts[s] != 0 {
			c.Boosts[s] = p.Boosts[s]
		}
	}
	return c
}

// finish derives range, percentages, KO chance and description from Damage.
func (r *Result) finish(tr trace) {
	if len(r.Damage) == 0 {
		r.Damage = make([]int, rollCount)
	}
	r.Min, r.Max = r.Damage[0], r.Damage[0]
	for _, d := range r.Damage {
		r.Min = min(r.Min, d)
		r.Max = max(r.Max, d)
	}
	if r.DefenderHP > 0 {
		r.MinPercent = percent(r.Min, r.DefenderHP)
		r.MaxPercent = percent(r.Max, r.DefenderHP)
	}
	r.KO = koChance(r.Damage, r.Defender.CurHP)
	r.Description = r.describe(tr)
}

// percent is floored to one decimal place.
func percent(d, hp int) float64 {
	return math.Floor(float64(d)*1000/float64(hp)) / 10
}

func koChance(damage []int, hp int) KOChance {
	lo, hi := damage[0], damage[0]
	for _, d := range damage {
		lo = min(lo, d)
		hi = max(hi, d)
	}
	if hi <= 0 || hp <= 0 {
		return KOChance{}
	}

	for n := 1; n <= maxExactHits; n++ {
		if lo*n >= hp {
			return KOChance{N: n, Chance: 1, Text: "guaranteed " + hitsLabel(n)}
		}
		if hi*n >= hp {
			p := rollProbability(damage, n, hp)
			return KOChance{
				N:      n,
				Chance: p,
				Text:   formatNumber(math.Round(p*1000)/10) + "% chance to " + hitsLabel(n),
			}
		}
	}

	n := (hp + hi - 1) / hi
	if lo*n >= hp {
		return KOChance{N: n, Chance: 1, Text: "guaranteed " + hitsLabel(n)}
	}
	return KOChance{N: n, Text: "possible " + hitsLabel(n)}
}

// rollProbability is the chance that n independent rolls sum to at least hp.
func rollProbability(damage []int, n, hp int) float64 {
	// dist[s] counts roll sequences summing to s; sums >= hp collapse into dist[hp].
	dist := make([]float64, hp+1)
	dist[0] = 1
	for i := 0; i < n; i++ {
		next := make([]float64, hp+1)
		for sum, count := range dist {
			if count == 0 {
				continue
			}
			for _, d := range damage {
				next[min(hp, sum+d)] += count
			}
		}
		dist = next
	}
	return dist[hp] / math.Pow(float64(len(damage)), float64(n))
}

func hitsLabel(n int) string {
	if n == 1 {
		return "OHKO"
	}
	return strconv.Itoa(n) + "HKO"
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// describe renders the conventional one-line summary, e.g.
// "252 Atk Choice Band Garchomp Earthquake vs. 0 HP / 0 Def Heatran: ...".
func (r *Result) describe(tr trace) string {
	attackStat, defenseStat := dex.SpA, dex.SpD
	if r.Move.Category == dex.Physical {
		attackStat, defenseStat = dex.Atk, dex.Def
	}

	var b strings.Builder
	a := r.Attacker
	if boost := a.Boosts[attackStat]; boost != 0 && !(r.Move.Crit && boost < 0) {
		fmt.Fprintf(&b, "%+d ", boost)
	}
	fmt.Fprintf(&b, "%d%s %s ", a.EVs[attackStat], natureSign(a.nature, attackStat), attackStat.Label())
	if tr.attackerItem {
		b.WriteString(a.Item + " ")
	}
	if tr.attackerAbility {
		b.WriteString(a.Ability + " ")
	}
	if a.Level != DefaultLevel {
		fmt.Fprintf(&b, "Lvl %d ", a.Level)
	}
	fmt.Fprintf(&b, "%s %s vs. ", a.Name, r.Move.Name)

	d := r.Defender
	if boost := d.Boosts[defenseStat]; boost != 0 && !(r.Move.Crit && boost > 0) {
		fmt.Fprintf(&b, "%+d ", boost)
	}
	fmt.Fprintf(&b, "%d HP / %d%s %s ", d.EVs[dex.HP], d.EVs[defenseStat], natureSign(d.nature, defenseStat), defenseStat.Label())
	if tr.defenderItem {
		b.WriteString(d.Item + " ")
	}
	if tr.defenderAbility {
		b.WriteString(d.Ability + " ")
	}
	if d.Level != DefaultLevel {
		fmt.Fprintf(&b, "Lvl %d ", d.Level)
	}
	b.WriteString(d.Name)

	if tr.weather {
		b.WriteString(" in " + r.Field.Weather)
	}
	if tr.screen != "" {
		b.WriteString(" through " + tr.screen)
	}
	if r.Move.Crit {
		b.WriteString(" on a critical hit")
	}

	fmt.Fprintf(&b, ": %d-%d (%s - %s%%) -- ", r.Min, r.Max, formatNumber(r.MinPercent), formatNumber(r.MaxPercent))
	if r.Max == 0 {
		b.WriteString("possibly the worst move ever")
	} else {
		b.WriteString(r.KO.Text)
	}
	return b.String()
}

func natureSign(n dex.Nature, s dex.Stat) string {
	switch n.Modifier(s) {
	case 110:
		return "+"
	case 90:
		return "-"
	}
	return ""
}
