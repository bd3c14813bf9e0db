// Package calc computes single-target move damage for generations 5-9.
//
// Descriptors are built with NewPokemon and NewMove against a dex.Generation
// and passed to Calculate. Modifiers are fixed-point in 4096ths and rounded
// the way the games do (pokeRound: halves round down).
package calc

import (
	"fmt"
	"math"

	"github.com/okian/pokecalc/internal/domain/dex"
)

// Fixed-point modifiers, in 4096ths.
const (
	modNeutral = 4096
	modHalf    = 2048
	modDouble  = 8192
	modBoost   = 6144 // 1.5x
	modTypeUp  = 4915 // 1.2x
	modLifeOrb = 5324 // 1.3x
	rollCount  = 16
)

// trace records which descriptor details changed the result, for the description.
type trace struct {
	attackerItem    bool
	attackerAbility bool
	defenderItem    bool
	defenderAbility bool
	weather         bool
	screen          string
}

// Calculate evaluates move used by attacker against defender under gen.
// All three descriptors must have been built for gen.
func Calculate(gen dex.Generation, attacker, defender *Pokemon, move *Move, opts ...CalcOption) (Result, error) {
	if !gen.Valid() {
		return Result{}, fmt.Errorf("%w: generation view not initialised", dex.ErrUnsupportedGeneration)
	}
	if attacker == nil || defender == nil || move == nil {
		return Result{}, ErrNilDescriptor
	}
	if attacker.gen != gen.Num() || defender.gen != gen.Num() || move.gen != gen.Num() {
		return Result{}, fmt.Errorf("%w: gen %d, attacker %d, defender %d, move %d",
			ErrGenerationMismatch, gen.Num(), attacker.gen, defender.gen, move.gen)
	}

	var s calcSettings
	for _, opt := range opts {
		opt(&s)
	}
	if err := s.field.validate(); err != nil {
		return Result{}, err
	}

	res := newResult(gen.Num(), attacker, defender, move, s.field)
	var tr trace

	if move.IsStatus() {
		res.finish(tr)
		return res, nil
	}

	eff := gen.Effectiveness(move.Type, defender.Types)
	if move.Type == "Ground" && defender.HasAbility("Levitate") {
		eff = 0
		tr.defenderAbility = true
	}
	res.Effectiveness = eff
	if eff == 0 {
		res.finish(tr)
		return res, nil
	}

	bp := basePower(attacker, move, &tr)
	atk := attackStat(attacker, defender, move, &tr)
	def := defenseStat(defender, move, s.field, &tr)

	base := (2*attacker.Level/5+2)*bp*atk/def/50 + 2

	switch {
	case s.field.Weather == WeatherSun && move.Type == "Fire",
		s.field.Weather == WeatherRain && move.Type == "Water":
		base = applyMod(base, modBoost)
		tr.weather = true
	case s.field.Weather == WeatherSun && move.Type == "Water",
		s.field.Weather == WeatherRain && move.Type == "Fire":
		base = applyMod(base, modHalf)
		tr.weather = true
	}

	if move.Crit {
		if gen.Num() > 5 {
			base = base * 3 / 2
		} else {
			base *= 2
		}
	}

	stab := modNeutral
	if attacker.HasType(move.Type) {
		stab = modBoost
		if attacker.HasAbility("Adaptability") {
			stab = modDouble
			tr.attackerAbility = true
		}
	}

	burned := attacker.Status == "brn" && move.IsPhysical() && !attacker.HasAbility("Guts")
	final := finalModifier(attacker, defender, move, s.field, eff, &tr)

	res.Damage = make([]int, rollCount)
	for i := 0; i < rollCount; i++ {
		res.Damage[i] = rollDamage(base, 85+i, stab, eff, burned, final)
	}
	res.finish(tr)
	return res, nil
}

// basePower applies base power modifiers.
func basePower(attacker *Pokemon, move *Move, tr *trace) int {
	var mods []int
	if attacker.HasAbility("Technician") && move.BP <= 60 {
		mods = append(mods, modBoost)
		tr.attackerAbility = true
	}
	if attacker.Item.BoostType != "" && attacker.Item.BoostType == move.Type {
		mods = append(mods, modTypeUp)
		tr.attackerItem = true
	}
	return max(1, applyMod(move.BP, chainMods(mods)))
}

// attackStat returns the attacking stat after stages and modifiers.
func attackStat(attacker, defender *Pokemon, move *Move, tr *trace) int {
	stat := dex.SpA
	if move.IsPhysical() {
		stat = dex.Atk
	}
	stage := attacker.Boosts[stat]
	if move.Crit && stage < 0 {
		stage = 0
	}
	a := modifiedStat(attacker.RawStats[stat], stage)

	var mods []int
	if move.IsPhysical() {
		if attacker.HasAbility("Huge Power") || attacker.HasAbility("Pure Power") {
			mods = append(mods, modDouble)
			tr.attackerAbility = true
		}
		if attacker.HasAbility("Guts") && attacker.Status != "" {
			mods = append(mods, modBoost)
			tr.attackerAbility = true
		}
	}
	if defender.HasAbility("Thick Fat") && (move.Type == "Fire" || move.Type == "Ice") {
		mods = append(mods, modHalf)
		tr.defenderAbility = true
	}
	if (move.IsPhysical() && attacker.HasItem("Choice Band")) || (!move.IsPhysical() && attacker.HasItem("Choice Specs")) {
		mods = append(mods, modBoost)
		tr.attackerItem = true
	}
	return max(1, applyMod(a, chainMods(mods)))
}

// defenseStat returns the defending stat after stages and modifiers.
func defenseStat(defender *Pokemon, move *Move, field Field, tr *trace) int {
	stat := dex.SpD
	if move.IsPhysical() {
		stat = dex.Def
	}
	stage := defender.Boosts[stat]
	if move.Crit && stage > 0 {
		stage = 0
	}
	d := modifiedStat(defender.RawStats[stat], stage)

	var mods []int
	if field.Weather == WeatherSand && defender.HasType("Rock") && !move.IsPhysical() {
		mods = append(mods, modBoost)
		tr.weather = true
	}
	if defender.HasItem("Eviolite") && defender.Species.NFE {
		mods = append(mods, modBoost)
		tr.defenderItem = true
	}
	if defender.HasItem("Assault Vest") && !move.IsPhysical() {
		mods = append(mods, modBoost)
		tr.defenderItem = true
	}
	return max(1, applyMod(d, chainMods(mods)))
}

// finalModifier chains the modifiers applied after type effectiveness.
func finalModifier(attacker, defender *Pokemon, move *Move, field Field, eff float64, tr *trace) int {
	var mods []int
	if !move.Crit {
		if field.Reflect && move.IsPhysical() {
			mods = append(mods, modHalf)
			tr.screen = "Reflect"
		}
		if field.LightScreen && !move.IsPhysical() {
			mods = append(mods, modHalf)
			tr.screen = "Light Screen"
		}
	}
	if defender.HasAbility("Multiscale") && defender.CurHP == defender.MaxHP() {
		mods = append(mods, modHalf)
		tr.defenderAbility = true
	}
	if attacker.HasItem("Expert Belt") && eff > 1 {
		mods = append(mods, modTypeUp)
		tr.attackerItem = true
	}
	if attacker.HasItem("Life Orb") {
		mods = append(mods, modLifeOrb)
		tr.attackerItem = true
	}
	return chainMods(mods)
}

// rollDamage applies the random roll and every post-roll modifier to base.
func rollDamage(base, roll, stab int, eff float64, burned bool, final int) int {
	d := base * roll / 100
	fd := float64(d)
	if stab != modNeutral {
		fd = fd * float64(stab) / modNeutral
	}
	d = int(math.Floor(float64(pokeRound(fd)) * eff))
	if burned {
		d /= 2
	}
	return pokeRound(math.Max(1, float64(d*final)/modNeutral))
}

// chainMods folds modifiers into one 4096ths value.
func chainMods(mods []int) int {
	m := modNeutral
	for _, mod := range mods {
		if mod != modNeutral {
			m = (m*mod + 2048) >> 12
		}
	}
	return m
}

// applyMod multiplies v by a 4096ths modifier with game rounding.
func applyMod(v, mod int) int {
	if mod == modNeutral {
		return v
	}
	return pokeRound(float64(v*mod) / modNeutral)
}

// pokeRound rounds to the nearest integer with halves rounding down.
func pokeRound(x float64) int {
	if x-math.Floor(x) > 0.5 {
		return int(math.Ceil(x))
	}
	return int(math.Floor(x))
}
