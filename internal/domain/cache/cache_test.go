package cache_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/okian/pokecalc/internal/domain/cache"
	"github.com/okian/pokecalc/internal/domain/calc"
	. "github.com/smartystreets/goconvey/convey"
)

func result(desc string) calc.Result {
	return calc.Result{Description: desc, Max: len(desc)}
}

func TestInMemoryCache(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryCache", t, func() {
		Convey("When creating a cache with default options", func() {
			c := cache.NewInMemoryCache()

			Convey("Then it starts empty", func() {
				So(c, ShouldNotBeNil)
				So(c.Size(), ShouldEqual, 0)
				_, ok := c.Get(ctx, "missing")
				So(ok, ShouldBeFalse)
			})
		})

		Convey("When storing a result", func() {
			c := cache.NewInMemoryCache()
			c.Put(ctx, "k1", result("one"))

			Convey("Then it can be read back", func() {
				got, ok := c.Get(ctx, "k1")
				So(ok, ShouldBeTrue)
				So(got.Description, ShouldEqual, "one")
				So(c.Size(), ShouldEqual, 1)
			})

			Convey("And storing the same key again", func() {
				c.Put(ctx, "k1", result("uno"))

				Convey("Then the value is replaced without growing", func() {
					got, _ := c.Get(ctx, "k1")
					So(got.Description, ShouldEqual, "uno")
					So(c.Size(), ShouldEqual, 1)
				})
			})
		})

		Convey("When using bounded mode with eviction", func() {
			c := cache.NewInMemoryCache(cache.WithMaxSize(2))
			c.Put(ctx, "a", result("a"))
			c.Put(ctx, "b", result("b"))

			Convey("And the oldest entry was read recently", func() {
				_, _ = c.Get(ctx, "a")
				c.Put(ctx, "c", result("c"))

				Convey("Then the least recently used entry is evicted", func() {
					So(c.Size(), ShouldEqual, 2)
					_, okA := c.Get(ctx, "a")
					_, okB := c.Get(ctx, "b")
					_, okC := c.Get(ctx, "c")
					So(okA, ShouldBeTrue)
					So(okB, ShouldBeFalse)
					So(okC, ShouldBeTrue)
				})
			})

			Convey("And the cache has a single slot", func() {
				one := cache.NewInMemoryCache(cache.WithMaxSize(1))
				for i := 0; i < 5; i++ {
					one.Put(ctx, fmt.Sprintf("k%d", i), result("x"))
				}

				Convey("Then only the newest survives", func() {
					So(one.Size(), ShouldEqual, 1)
					_, ok := one.Get(ctx, "k4")
					So(ok, ShouldBeTrue)
				})
			})
		})

		Convey("When using unbounded mode", func() {
			c := cache.NewInMemoryCache(cache.WithMaxSize(0))
			for i := 0; i < 1000; i++ {
				c.Put(ctx, fmt.Sprintf("k%d", i), result("x"))
			}

			Convey("Then nothing is evicted", func() {
				So(c.Size(), ShouldEqual, 1000)
				_, ok := c.Get(ctx, "k0")
				So(ok, ShouldBeTrue)
			})
		})
	})

	Convey("Given a cache with concurrent access", t, func() {
		c := cache.NewInMemoryCache(cache.WithMaxSize(64))

		Convey("When many goroutines read and write", func() {
			var wg sync.WaitGroup
			for g := 0; g < 8; g++ {
				wg.Add(1)
				go func(g int) {
					defer wg.Done()
					for i := 0; i < 200; i++ {
						key := fmt.Sprintf("g%d-%d", g, i%80)
						c.Put(ctx, key, result(key))
						_, _ = c.Get(ctx, key)
					}
				}(g)
			}
			wg.Wait()

			Convey("Then the bound holds", func() {
				So(c.Size(), ShouldBeLessThanOrEqualTo, 64)
			})
		})
	})
}
