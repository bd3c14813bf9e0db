package model_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/pokecalc/internal/domain/dex"
	"github.com/okian/pokecalc/internal/domain/model"
	"github.com/smartystreets/goconvey/convey"
)

func TestRequestDecoding(t *testing.T) {
	convey.Convey("Given a JSON request in the options-bag shape", t, func() {
		body := `{
			"generation": 5,
			"attacker": {"name": "Gengar", "item": "Choice Specs", "nature": "Timid", "evs": {"spa": 252}, "boosts": {"spa": 1}},
			"defender": {"name": "Chansey", "item": "Eviolite", "nature": "Calm", "evs": {"hp": 252, "spd": 252}},
			"move": {"name": "Focus Blast"},
			"field": {"light_screen": true}
		}`

		convey.Convey("When decoding", func() {
			var req model.Request
			err := json.Unmarshal([]byte(body), &req)

			convey.Convey("Then stat tables are keyed by stat", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(req.Generation, convey.ShouldEqual, 5)
				convey.So(req.Attacker.EVs[dex.SpA], convey.ShouldEqual, 252)
				convey.So(req.Attacker.Boosts[dex.SpA], convey.ShouldEqual, 1)
				convey.So(req.Defender.EVs[dex.HP], convey.ShouldEqual, 252)
				convey.So(req.Field.LightScreen, convey.ShouldBeTrue)
			})

			convey.Convey("Then options carry every field across", func() {
				opts := req.Attacker.Options()
				convey.So(opts.Item, convey.ShouldEqual, "Choice Specs")
				convey.So(opts.Nature, convey.ShouldEqual, "Timid")
				convey.So(opts.EVs[dex.SpA], convey.ShouldEqual, 252)
				convey.So(req.Move.Options().Crit, convey.ShouldBeFalse)
			})
		})
	})
}
