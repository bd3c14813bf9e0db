package calc

import (
	"testing"

	"github.com/smartystreets/goconvey/convey"
)

func TestRounding(t *testing.T) {
	convey.Convey("pokeRound rounds halves down", t, func() {
		convey.So(pokeRound(2.5), convey.ShouldEqual, 2)
		convey.So(pokeRound(2.51), convey.ShouldEqual, 3)
		convey.So(pokeRound(3), convey.ShouldEqual, 3)
	})

	convey.Convey("chainMods folds in 4096ths", t, func() {
		convey.So(chainMods(nil), convey.ShouldEqual, 4096)
		convey.So(chainMods([]int{6144}), convey.ShouldEqual, 6144)
		convey.So(chainMods([]int{6144, 6144}), convey.ShouldEqual, 9216)
		convey.So(chainMods([]int{2048, 4096}), convey.ShouldEqual, 2048)
	})
}

func TestKOChance(t *testing.T) {
	convey.Convey("Given fixed rolls", t, func() {
		convey.Convey("When every roll is half the HP", func() {
			rolls := make([]int, 16)
			for i := range rolls {
				rolls[i] = 50
			}
			ko := koChance(rolls, 100)
			convey.So(ko.N, convey.ShouldEqual, 2)
			convey.So(ko.Text, convey.ShouldEqual, "guaranteed 2HKO")
		})

		convey.Convey("When half of the rolls fall one short", func() {
			rolls := make([]int, 16)
			for i := range rolls {
				rolls[i] = 49 + i%2
			}
			ko := koChance(rolls, 100)
			convey.So(ko.N, convey.ShouldEqual, 2)
			convey.So(ko.Chance, convey.ShouldEqual, 0.25)
			convey.So(ko.Text, convey.ShouldEqual, "25% chance to 2HKO")
		})

		convey.Convey("When one roll knocks out", func() {
			rolls := make([]int, 16)
			for i := range rolls {
				rolls[i] = 200
			}
			convey.So(koChance(rolls, 100).Text, convey.ShouldEqual, "guaranteed OHKO")
		})

		convey.Convey("When it takes more hits than computed exactly", func() {
			rolls := make([]int, 16)
			for i := range rolls {
				rolls[i] = 10
			}
			ko := koChance(rolls, 95)
			convey.So(ko.N, convey.ShouldEqual, 10)
			convey.So(ko.Text, convey.ShouldEqual, "guaranteed 10HKO")
		})
	})
}
