package policy_test

import (
	"errors"
	"math/rand/v2"
	"testing"

	"github.com/okian/pokecalc/internal/domain/dex"
	"github.com/okian/pokecalc/internal/domain/policy"
	. "github.com/smartystreets/goconvey/convey"
)

// fixed always picks the same index.
type fixed int

func (f fixed) IntN(n int) int { return int(f) % n }

func gen(n int) dex.Generation {
	d, err := dex.Default()
	So(err, ShouldBeNil)
	g, err := d.Gen(n)
	So(err, ShouldBeNil)
	return g
}

func TestChoosePowerfulMove(t *testing.T) {
	Convey("Given Shadow Ball, Surf and Focus Blast", t, func() {
		st := policy.State{
			ActiveHPFraction: 0.4,
			Moves:            []string{"Shadow Ball", "surf", "Focus Blast"},
			Switches:         []policy.Switch{{Name: "Blissey", HPFraction: 1}},
		}

		Convey("When choosing in generation 5", func() {
			d, err := policy.Choose(gen(5), st)

			Convey("Then the first move above 90 base power wins over a healthier switch", func() {
				So(err, ShouldBeNil)
				So(d, ShouldResemble, policy.Decision{
					Kind: policy.KindMove, Name: "Surf", BasePower: 95, Reason: policy.ReasonPowerfulMove,
				})
			})
		})

		Convey("When choosing in generation 6, where Surf has exactly 90", func() {
			d, err := policy.Choose(gen(6), st)

			Convey("Then Surf no longer qualifies", func() {
				So(err, ShouldBeNil)
				So(d.Name, ShouldEqual, "Focus Blast")
				So(d.BasePower, ShouldEqual, 120)
				So(d.Reason, ShouldEqual, policy.ReasonPowerfulMove)
			})
		})
	})
}

func TestChooseHealthierSwitch(t *testing.T) {
	Convey("Given only weak moves and a bench", t, func() {
		st := policy.State{
			ActiveHPFraction: 0.5,
			Moves:            []string{"Shadow Ball", "Toxic"},
			Switches: []policy.Switch{
				{Name: "chansey", HPFraction: 0.3},
				{Name: "blissey", HPFraction: 0.9},
				{Name: "Snorlax", HPFraction: 1},
			},
		}

		Convey("When choosing", func() {
			d, err := policy.Choose(gen(5), st, policy.WithRand(fixed(0)))

			Convey("Then the first switch with more HP left comes in", func() {
				So(err, ShouldBeNil)
				So(d, ShouldResemble, policy.Decision{
					Kind: policy.KindSwitch, Name: "Blissey", Reason: policy.ReasonHealthierSwitch,
				})
			})
		})

		Convey("When the bench is no healthier than the active Pokémon", func() {
			st.Switches = []policy.Switch{{Name: "Chansey", HPFraction: 0.5}}
			d, err := policy.Choose(gen(5), st, policy.WithRand(fixed(0)))

			Convey("Then an equal fraction does not trigger a switch", func() {
				So(err, ShouldBeNil)
				So(d.Reason, ShouldEqual, policy.ReasonRandom)
			})
		})
	})
}

func TestChooseRandom(t *testing.T) {
	Convey("Given no rule applies", t, func() {
		st := policy.State{
			ActiveHPFraction: 0.6,
			Moves:            []string{"Psychic", "Thunderbolt"},
			Switches:         []policy.Switch{{Name: "Chansey", HPFraction: 0.2}},
		}

		Convey("When the source picks a move slot", func() {
			d, err := policy.Choose(gen(6), st, policy.WithRand(fixed(1)))

			Convey("Then that move is returned with its base power", func() {
				So(err, ShouldBeNil)
				So(d, ShouldResemble, policy.Decision{
					Kind: policy.KindMove, Name: "Thunderbolt", BasePower: 90, Reason: policy.ReasonRandom,
				})
			})
		})

		Convey("When the source picks past the moves", func() {
			d, err := policy.Choose(gen(6), st, policy.WithRand(fixed(2)))

			Convey("Then the switch is returned", func() {
				So(err, ShouldBeNil)
				So(d, ShouldResemble, policy.Decision{
					Kind: policy.KindSwitch, Name: "Chansey", Reason: policy.ReasonRandom,
				})
			})
		})

		Convey("When drawing from a seeded generator many times", func() {
			r := rand.New(rand.NewPCG(1, 2))
			seen := map[string]bool{}
			for i := 0; i < 200; i++ {
				d, err := policy.Choose(gen(6), st, policy.WithRand(r))
				So(err, ShouldBeNil)
				seen[d.Name] = true
			}

			Convey("Then every option is reachable and nothing else", func() {
				So(seen, ShouldResemble, map[string]bool{"Psychic": true, "Thunderbolt": true, "Chansey": true})
			})
		})

		Convey("When using the default generator", func() {
			d, err := policy.Choose(gen(6), st)

			Convey("Then it still picks an available option", func() {
				So(err, ShouldBeNil)
				So([]string{"Psychic", "Thunderbolt", "Chansey"}, ShouldContain, d.Name)
			})
		})
	})
}

func TestChooseErrors(t *testing.T) {
	Convey("Given invalid states", t, func() {
		g := gen(5)

		Convey("Then an unknown or future move is rejected", func() {
			_, err := policy.Choose(g, policy.State{ActiveHPFraction: 1, Moves: []string{"Moonblast"}})
			So(errors.Is(err, policy.ErrUnknownMove), ShouldBeTrue)
			So(policy.IsInputError(err), ShouldBeTrue)
		})

		Convey("Then an unknown switch is rejected", func() {
			_, err := policy.Choose(g, policy.State{
				ActiveHPFraction: 0.5,
				Switches:         []policy.Switch{{Name: "Missingno", HPFraction: 1}},
			})
			So(errors.Is(err, policy.ErrUnknownSwitch), ShouldBeTrue)
		})

		Convey("Then fractions outside [0, 1] are rejected", func() {
			_, err := policy.Choose(g, policy.State{ActiveHPFraction: 1.5, Moves: []string{"Surf"}})
			So(errors.Is(err, policy.ErrInvalidState), ShouldBeTrue)

			_, err = policy.Choose(g, policy.State{
				ActiveHPFraction: 0.5,
				Switches:         []policy.Switch{{Name: "Chansey", HPFraction: -0.1}},
			})
			So(errors.Is(err, policy.ErrInvalidState), ShouldBeTrue)

			_, err = policy.Choose(g, policy.State{Switches: []policy.Switch{{HPFraction: 1}}})
			So(errors.Is(err, policy.ErrInvalidState), ShouldBeTrue)
		})

		Convey("Then an empty turn has nothing to choose", func() {
			_, err := policy.Choose(g, policy.State{ActiveHPFraction: 1})
			So(errors.Is(err, policy.ErrNoChoices), ShouldBeTrue)
			So(policy.IsInputError(err), ShouldBeTrue)
		})

		Convey("Then a zero generation fails", func() {
			_, err := policy.Choose(dex.Generation{}, policy.State{Moves: []string{"Surf"}})
			So(errors.Is(err, dex.ErrUnsupportedGeneration), ShouldBeTrue)
		})

		Convey("Then other errors are not input errors", func() {
			So(policy.IsInputError(errors.New("boom")), ShouldBeFalse)
		})
	})
}
