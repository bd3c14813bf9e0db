package invoker_test

import (
	"context"
	"errors"
	"testing"

	"github.com/okian/pokecalc/internal/domain/calc"
	"github.com/okian/pokecalc/internal/domain/dex"
	"github.com/okian/pokecalc/internal/invoker"
	"github.com/okian/pokecalc/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestRunExample(t *testing.T) {
	Convey("Given an invoker with defaults", t, func() {
		So(logger.Init(), ShouldBeNil)
		inv, err := invoker.New()
		So(err, ShouldBeNil)
		So(inv.Generation(), ShouldEqual, invoker.DefaultGeneration)
		ctx := context.Background()

		Convey("When running the example", func() {
			res, err := inv.RunExample(ctx)

			Convey("Then it completes with the expected range", func() {
				So(err, ShouldBeNil)
				So(res.Generation, ShouldEqual, 5)
				So(res.Min, ShouldEqual, 274)
				So(res.Max, ShouldEqual, 324)
				So(res.DefenderHP, ShouldEqual, 704)
				So(res.KO.Text, ShouldEqual, "guaranteed 3HKO")
			})

			Convey("Then repeating it is idempotent", func() {
				again, err := inv.RunExample(ctx)
				So(err, ShouldBeNil)
				So(again, ShouldResemble, res)
			})

			Convey("Then the request form gives the same result", func() {
				viaRequest, err := inv.Compute(ctx, invoker.ExampleRequest(0))
				So(err, ShouldBeNil)
				So(viaRequest, ShouldResemble, res)
			})
		})

		Convey("When running the example with a cancelled context", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := inv.RunExample(cctx)

			Convey("Then it fails like any other request", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})

		Convey("When running the nullary form", func() {
			Convey("Then it succeeds", func() {
				So(inv.Run(ctx), ShouldBeNil)
			})
		})
	})
}

func TestGenerations(t *testing.T) {
	Convey("Given the example across generations", t, func() {
		So(logger.Init(), ShouldBeNil)
		ctx := context.Background()

		for _, gen := range []int{5, 6, 7, 8, 9} {
			inv, err := invoker.New(invoker.WithGeneration(gen))
			So(err, ShouldBeNil)
			res, err := inv.RunExample(ctx)
			So(err, ShouldBeNil)
			So(res.Generation, ShouldEqual, gen)
			So(res.Min, ShouldEqual, 274)
		}

		Convey("When the generation is unsupported", func() {
			_, err := invoker.New(invoker.WithGeneration(4))

			Convey("Then New fails", func() {
				So(errors.Is(err, invoker.ErrInvalidGeneration), ShouldBeTrue)
				So(errors.Is(err, dex.ErrUnsupportedGeneration), ShouldBeTrue)
			})
		})
	})
}

func TestComputeErrors(t *testing.T) {
	Convey("Given an invoker", t, func() {
		So(logger.Init(), ShouldBeNil)
		inv, err := invoker.New()
		So(err, ShouldBeNil)
		ctx := context.Background()

		Convey("When the attacker is unknown", func() {
			req := invoker.ExampleRequest(5)
			req.Attacker.Name = "Agumon"
			_, err := inv.Compute(ctx, req)

			Convey("Then the calculator error propagates", func() {
				So(errors.Is(err, calc.ErrUnknownSpecies), ShouldBeTrue)
			})
		})

		Convey("When a Fairy move is requested in generation 5", func() {
			req := invoker.ExampleRequest(5)
			req.Move.Name = "Moonblast"
			_, err := inv.Compute(ctx, req)

			Convey("Then the move is unknown", func() {
				So(errors.Is(err, calc.ErrUnknownMove), ShouldBeTrue)
			})
		})

		Convey("When the request names an unsupported generation", func() {
			_, err := inv.Compute(ctx, invoker.ExampleRequest(10))

			Convey("Then it fails", func() {
				So(errors.Is(err, dex.ErrUnsupportedGeneration), ShouldBeTrue)
			})
		})

		Convey("When the context is already cancelled", func() {
			cctx, cancel := context.WithCancel(ctx)
			cancel()
			_, err := inv.Compute(cctx, invoker.ExampleRequest(5))

			Convey("Then it returns the context error", func() {
				So(errors.Is(err, context.Canceled), ShouldBeTrue)
			})
		})
	})
}
