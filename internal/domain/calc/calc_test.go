package calc_test

import (
	"errors"
	"testing"

	"github.com/okian/pokecalc/internal/domain/calc"
	"github.com/okian/pokecalc/internal/domain/dex"
	. "github.com/smartystreets/goconvey/convey"
)

func mustGen(n int) dex.Generation {
	d, err := dex.Default()
	So(err, ShouldBeNil)
	g, err := d.Gen(n)
	So(err, ShouldBeNil)
	return g
}

func mustPokemon(g dex.Generation, name string, opts calc.Options) *calc.Pokemon {
	p, err := calc.NewPokemon(g, name, opts)
	So(err, ShouldBeNil)
	return p
}

func mustMove(g dex.Generation, name string, opts calc.MoveOptions) *calc.Move {
	m, err := calc.NewMove(g, name, opts)
	So(err, ShouldBeNil)
	return m
}

func gengar(g dex.Generation) *calc.Pokemon {
	return mustPokemon(g, "Gengar", calc.Options{
		Item:   "Choice Specs",
		Nature: "Timid",
		EVs:    dex.StatTable{dex.SpA: 252},
		Boosts: dex.StatTable{dex.SpA: 1},
	})
}

func chansey(g dex.Generation) *calc.Pokemon {
	return mustPokemon(g, "Chansey", calc.Options{
		Item:   "Eviolite",
		Nature: "Calm",
		EVs:    dex.StatTable{dex.HP: 252, dex.SpD: 252},
	})
}

func TestNewPokemonStats(t *testing.T) {
	Convey("Given generation 5", t, func() {
		g := mustGen(5)

		Convey("When building the example attacker and defender", func() {
			a := gengar(g)
			d := chansey(g)

			Convey("Then stats follow the stat formula with nature", func() {
				So(a.RawStats[dex.SpA], ShouldEqual, 359)
				So(a.RawStats[dex.Spe], ShouldEqual, 281)
				So(a.Boosts[dex.SpA], ShouldEqual, 1)
				So(d.MaxHP(), ShouldEqual, 704)
				So(d.CurHP, ShouldEqual, 704)
				So(d.RawStats[dex.SpD], ShouldEqual, 339)
				So(d.Types, ShouldResemble, []string{"Normal"})
			})
		})

		Convey("When building a species whose base stats changed in generation 6", func() {
			clefable := mustPokemon(g, "Clefable", calc.Options{})
			azumarill := mustPokemon(g, "Azumarill", calc.Options{})
			later := mustPokemon(mustGen(6), "Clefable", calc.Options{})

			Convey("Then the generation's own base stats are used", func() {
				So(clefable.RawStats[dex.SpA], ShouldEqual, 206)
				So(azumarill.RawStats[dex.SpA], ShouldEqual, 136)
				So(later.RawStats[dex.SpA], ShouldEqual, 226)
			})
		})

		Convey("When options are omitted", func() {
			p := mustPokemon(g, "gengar", calc.Options{})

			Convey("Then documented defaults apply", func() {
				So(p.Level, ShouldEqual, calc.DefaultLevel)
				So(p.Nature.Name, ShouldEqual, calc.DefaultNature)
				So(p.IVs[dex.Atk], ShouldEqual, calc.DefaultIV)
				So(p.EVs[dex.Atk], ShouldEqual, 0)
				So(p.Item.Name, ShouldEqual, "")
			})
		})

		Convey("When options are invalid", func() {
			cases := []struct {
				name string
				opts calc.Options
				want error
			}{
				{"Gengar", calc.Options{Item: "Nope"}, calc.ErrUnknownItem},
				{"Gengar", calc.Options{Nature: "Grumpy"}, calc.ErrUnknownNature},
				{"Gengar", calc.Options{Level: 101}, calc.ErrInvalidOption},
				{"Gengar", calc.Options{EVs: dex.StatTable{dex.SpA: 253}}, calc.ErrInvalidOption},
				{"Gengar", calc.Options{EVs: dex.StatTable{dex.SpA: 252, dex.Spe: 252, dex.HP: 8}}, calc.ErrInvalidOption},
				{"Gengar", calc.Options{IVs: dex.StatTable{dex.Atk: 32}}, calc.ErrInvalidOption},
				{"Gengar", calc.Options{Boosts: dex.StatTable{dex.SpA: 7}}, calc.ErrInvalidOption},
				{"Gengar", calc.Options{Boosts: dex.StatTable{dex.HP: 1}}, calc.ErrInvalidOption},
				{"Gengar", calc.Options{EVs: dex.StatTable{"luck": 4}}, calc.ErrInvalidOption},
				{"Gengar", calc.Options{Status: "confused"}, calc.ErrInvalidOption},
				{"Gengar", calc.Options{CurHP: 9999}, calc.ErrInvalidOption},
				{"Missingno", calc.Options{}, calc.ErrUnknownSpecies},
				{"Flutter Mane", calc.Options{}, calc.ErrUnknownSpecies},
				{"Gengar", calc.Options{Item: "Assault Vest"}, calc.ErrUnknownItem},
			}

			Convey("Then each fails with its sentinel", func() {
				for _, c := range cases {
					_, err := calc.NewPokemon(g, c.name, c.opts)
					So(errors.Is(err, c.want), ShouldBeTrue)
				}
			})
		})
	})
}

func TestCalculateExample(t *testing.T) {
	Convey("Given the example matchup in generation 5", t, func() {
		g := mustGen(5)
		a, d := gengar(g), chansey(g)
		m := mustMove(g, "Focus Blast", calc.MoveOptions{})

		Convey("When calculating", func() {
			res, err := calc.Calculate(g, a, d, m)
			So(err, ShouldBeNil)

			Convey("Then the damage range matches the formula", func() {
				So(res.Generation, ShouldEqual, 5)
				So(res.Damage, ShouldHaveLength, 16)
				So(res.Min, ShouldEqual, 274)
				So(res.Max, ShouldEqual, 324)
				So(res.DefenderHP, ShouldEqual, 704)
				So(res.MinPercent, ShouldEqual, 38.9)
				So(res.MaxPercent, ShouldEqual, 46.0)
				So(res.Effectiveness, ShouldEqual, 2.0)
			})

			Convey("Then it is a guaranteed 3HKO", func() {
				So(res.KO.N, ShouldEqual, 3)
				So(res.KO.Chance, ShouldEqual, 1.0)
				So(res.KO.Text, ShouldEqual, "guaranteed 3HKO")
			})

			Convey("Then the description uses the conventional format", func() {
				So(res.Description, ShouldEqual,
					"+1 252 SpA Choice Specs Gengar Focus Blast vs. 252 HP / 252+ SpD Eviolite Chansey: 274-324 (38.9 - 46%) -- guaranteed 3HKO")
			})

			Convey("Then repeating the call gives the same result", func() {
				again, err := calc.Calculate(g, a, d, m)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, res)
			})
		})

		Convey("When the move is a critical hit", func() {
			crit := mustMove(g, "Focus Blast", calc.MoveOptions{Crit: true})
			res, err := calc.Calculate(g, a, d, crit)
			So(err, ShouldBeNil)

			Convey("Then generation 5 doubles the base damage", func() {
				So(res.Min, ShouldEqual, 550)
				So(res.Max, ShouldEqual, 648)
				So(res.Description, ShouldContainSubstring, "on a critical hit")
			})
		})

		Convey("When Light Screen is up", func() {
			res, err := calc.Calculate(g, a, d, m, calc.WithField(calc.Field{LightScreen: true}))
			So(err, ShouldBeNil)

			Convey("Then special damage is halved", func() {
				So(res.Min, ShouldEqual, 137)
				So(res.Max, ShouldEqual, 162)
				So(res.Description, ShouldContainSubstring, "through Light Screen")
			})

			Convey("Then a critical hit ignores it", func() {
				crit := mustMove(g, "Focus Blast", calc.MoveOptions{Crit: true})
				res, err := calc.Calculate(g, a, d, crit, calc.WithField(calc.Field{LightScreen: true}))
				So(err, ShouldBeNil)
				So(res.Max, ShouldEqual, 648)
			})
		})
	})

	Convey("Given the example matchup in generation 6", t, func() {
		g := mustGen(6)
		crit := mustMove(g, "Focus Blast", calc.MoveOptions{Crit: true})

		Convey("When the move is a critical hit", func() {
			res, err := calc.Calculate(g, gengar(g), chansey(g), crit)
			So(err, ShouldBeNil)

			Convey("Then the crit multiplier is 1.5", func() {
				So(res.Min, ShouldEqual, 412)
				So(res.Max, ShouldEqual, 486)
			})
		})
	})
}

func TestCalculateZeroDamage(t *testing.T) {
	Convey("Given generation 5", t, func() {
		g := mustGen(5)

		Convey("When the defender is immune by type", func() {
			res, err := calc.Calculate(g,
				mustPokemon(g, "Gengar", calc.Options{}),
				mustPokemon(g, "Chansey", calc.Options{}),
				mustMove(g, "Shadow Ball", calc.MoveOptions{}))
			So(err, ShouldBeNil)

			Convey("Then every roll is zero", func() {
				So(res.Effectiveness, ShouldEqual, 0.0)
				So(res.Max, ShouldEqual, 0)
				So(res.KO.N, ShouldEqual, 0)
				So(res.Description, ShouldEndWith, "possibly the worst move ever")
			})
		})

		Convey("When the defender has Levitate against a Ground move", func() {
			eq := mustMove(g, "Earthquake", calc.MoveOptions{})
			chomp := mustPokemon(g, "Garchomp", calc.Options{})
			floating, err := calc.Calculate(g, chomp, mustPokemon(g, "Gengar", calc.Options{Ability: "Levitate"}), eq)
			So(err, ShouldBeNil)
			grounded, err := calc.Calculate(g, chomp, mustPokemon(g, "Gengar", calc.Options{}), eq)
			So(err, ShouldBeNil)

			Convey("Then only the grounded target takes damage", func() {
				So(floating.Max, ShouldEqual, 0)
				So(grounded.Max, ShouldBeGreaterThan, 0)
				So(grounded.Effectiveness, ShouldEqual, 2.0)
			})
		})

		Convey("When the move is a status move", func() {
			res, err := calc.Calculate(g,
				mustPokemon(g, "Gengar", calc.Options{}),
				mustPokemon(g, "Chansey", calc.Options{}),
				mustMove(g, "Toxic", calc.MoveOptions{}))
			So(err, ShouldBeNil)

			Convey("Then it deals no damage", func() {
				So(res.Damage, ShouldHaveLength, 16)
				So(res.Max, ShouldEqual, 0)
			})
		})
	})
}

func TestCalculateModifiers(t *testing.T) {
	Convey("Given a physical attacker in generation 5", t, func() {
		g := mustGen(5)
		eq := mustMove(g, "Earthquake", calc.MoveOptions{})
		target := mustPokemon(g, "Snorlax", calc.Options{})
		plain, err := calc.Calculate(g, mustPokemon(g, "Garchomp", calc.Options{}), target, eq)
		So(err, ShouldBeNil)

		Convey("When the attacker is burned", func() {
			burned, err := calc.Calculate(g, mustPokemon(g, "Garchomp", calc.Options{Status: "brn"}), target, eq)
			So(err, ShouldBeNil)

			Convey("Then every roll is halved", func() {
				for i := range plain.Damage {
					So(burned.Damage[i], ShouldEqual, plain.Damage[i]/2)
				}
			})
		})

		Convey("When a burned attacker has Guts", func() {
			guts, err := calc.Calculate(g, mustPokemon(g, "Garchomp", calc.Options{Status: "brn", Ability: "Guts"}), target, eq)
			So(err, ShouldBeNil)

			Convey("Then damage goes up instead", func() {
				So(guts.Max, ShouldBeGreaterThan, plain.Max)
				So(guts.Description, ShouldContainSubstring, "Guts Garchomp")
			})
		})

		Convey("When the attacker holds Life Orb", func() {
			orb, err := calc.Calculate(g, mustPokemon(g, "Garchomp", calc.Options{Item: "Life Orb"}), target, eq)
			So(err, ShouldBeNil)

			Convey("Then the item is named and damage rises", func() {
				So(orb.Max, ShouldBeGreaterThan, plain.Max)
				So(orb.Description, ShouldStartWith, "0 Atk Life Orb Garchomp Earthquake vs. 0 HP / 0 Def Snorlax")
			})
		})

		Convey("When the attacker has a negative boost and lands a crit", func() {
			crit := mustMove(g, "Earthquake", calc.MoveOptions{Crit: true})
			dropped, err := calc.Calculate(g, mustPokemon(g, "Garchomp", calc.Options{Boosts: dex.StatTable{dex.Atk: -2}}), target, crit)
			So(err, ShouldBeNil)
			clean, err := calc.Calculate(g, mustPokemon(g, "Garchomp", calc.Options{}), target, crit)
			So(err, ShouldBeNil)

			Convey("Then the drop is ignored", func() {
				So(dropped.Damage, ShouldResemble, clean.Damage)
			})
		})
	})

	Convey("Given weather", t, func() {
		g := mustGen(5)
		flamethrower := mustMove(g, "Flamethrower", calc.MoveOptions{})
		a := mustPokemon(g, "Heatran", calc.Options{})
		d := mustPokemon(g, "Snorlax", calc.Options{})

		Convey("When Sun boosts a Fire move", func() {
			plain, err := calc.Calculate(g, a, d, flamethrower)
			So(err, ShouldBeNil)
			sun, err := calc.Calculate(g, a, d, flamethrower, calc.WithField(calc.Field{Weather: calc.WeatherSun}))
			So(err, ShouldBeNil)
			rain, err := calc.Calculate(g, a, d, flamethrower, calc.WithField(calc.Field{Weather: calc.WeatherRain}))
			So(err, ShouldBeNil)

			Convey("Then damage follows the weather", func() {
				So(sun.Max, ShouldBeGreaterThan, plain.Max)
				So(rain.Max, ShouldBeLessThan, plain.Max)
				So(sun.Description, ShouldContainSubstring, "in Sun")
			})
		})

		Convey("When the weather is unknown", func() {
			_, err := calc.Calculate(g, a, d, flamethrower, calc.WithField(calc.Field{Weather: "Fog"}))

			Convey("Then it fails with ErrInvalidOption", func() {
				So(errors.Is(err, calc.ErrInvalidOption), ShouldBeTrue)
			})
		})
	})
}

func TestCalculateErrors(t *testing.T) {
	Convey("Given descriptors", t, func() {
		g5, g6 := mustGen(5), mustGen(6)

		Convey("When a Fairy move is requested in generation 5", func() {
			_, err := calc.NewMove(g5, "Moonblast", calc.MoveOptions{})

			Convey("Then the move is unknown there but known later", func() {
				So(errors.Is(err, calc.ErrUnknownMove), ShouldBeTrue)
				_, err = calc.NewMove(g6, "Moonblast", calc.MoveOptions{})
				So(err, ShouldBeNil)
			})
		})

		Convey("When a descriptor is nil", func() {
			_, err := calc.Calculate(g5, nil, chansey(g5), mustMove(g5, "Surf", calc.MoveOptions{}))

			Convey("Then it fails with ErrNilDescriptor", func() {
				So(errors.Is(err, calc.ErrNilDescriptor), ShouldBeTrue)
			})
		})

		Convey("When descriptors come from different generations", func() {
			_, err := calc.Calculate(g5, gengar(g6), chansey(g5), mustMove(g5, "Focus Blast", calc.MoveOptions{}))

			Convey("Then it fails with ErrGenerationMismatch", func() {
				So(errors.Is(err, calc.ErrGenerationMismatch), ShouldBeTrue)
			})
		})

		Convey("When the generation view is empty", func() {
			_, err := calc.Calculate(dex.Generation{}, gengar(g5), chansey(g5), mustMove(g5, "Focus Blast", calc.MoveOptions{}))

			Convey("Then it fails with ErrUnsupportedGeneration", func() {
				So(errors.Is(err, dex.ErrUnsupportedGeneration), ShouldBeTrue)
			})
		})
	})
}

func TestIsInputError(t *testing.T) {
	Convey("Given calculator errors", t, func() {
		g := mustGen(5)
		_, err := calc.NewPokemon(g, "Agumon", calc.Options{})
		So(calc.IsInputError(err), ShouldBeTrue)
		So(calc.IsInputError(dex.ErrUnsupportedGeneration), ShouldBeTrue)
		So(calc.IsInputError(errors.New("disk on fire")), ShouldBeFalse)
		So(calc.IsInputError(nil), ShouldBeFalse)
	})
}
