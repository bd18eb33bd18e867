package dedupe_test

import (
	"context"
	"fmt"
	"sync"
	"testing"

	dedupe "github.com/okian/outgoing/internal/domain/dedupe"
	. "github.com/smartystreets/goconvey/convey"
)

func TestInMemoryDeduper(t *testing.T) {
	ctx := context.Background()

	Convey("Given a new InMemoryDeduper", t, func() {
		d := dedupe.NewInMemoryDeduper[string]()

		Convey("Then it starts empty", func() {
			So(d.Size(), ShouldEqual, 0)
			_, ok := d.Lookup(ctx, "req-1")
			So(ok, ShouldBeFalse)
		})

		Convey("When a request id is recorded", func() {
			_, seen := d.SeenAndRecord(ctx, "req-1", "entry-a")

			Convey("Then it is new and remembered with its result", func() {
				So(seen, ShouldBeFalse)
				So(d.Size(), ShouldEqual, 1)
				v, ok := d.Lookup(ctx, "req-1")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, "entry-a")
			})

			Convey("And a replay returns the first result", func() {
				v, seen := d.SeenAndRecord(ctx, "req-1", "entry-b")
				So(seen, ShouldBeTrue)
				So(v, ShouldEqual, "entry-a")
				So(d.Size(), ShouldEqual, 1)
			})
		})
	})
}

func TestDedupeEviction(t *testing.T) {
	ctx := context.Background()

	Convey("Given a deduper bounded to three ids", t, func() {
		d := dedupe.NewInMemoryDeduper[int](dedupe.WithMaxSize(3))
		for i := 1; i <= 3; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i), i)
		}

		Convey("When a fourth id is recorded", func() {
			d.SeenAndRecord(ctx, "req-4", 4)

			Convey("Then the oldest id is forgotten and the rest kept", func() {
				So(d.Size(), ShouldEqual, 3)
				_, ok := d.Lookup(ctx, "req-1")
				So(ok, ShouldBeFalse)
				for _, id := range []string{"req-2", "req-3", "req-4"} {
					_, ok := d.Lookup(ctx, id)
					So(ok, ShouldBeTrue)
				}
			})
		})

		Convey("When ids keep arriving past the bound", func() {
			for i := 4; i <= 7; i++ {
				d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i), i)
			}

			Convey("Then only the three newest remain", func() {
				So(d.Size(), ShouldEqual, 3)
				for i := 1; i <= 4; i++ {
					_, ok := d.Lookup(ctx, fmt.Sprintf("req-%d", i))
					So(ok, ShouldBeFalse)
				}
				v, ok := d.Lookup(ctx, "req-7")
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 7)
			})
		})

		Convey("When a known id is replayed at the bound", func() {
			d.SeenAndRecord(ctx, "req-1", 100)

			Convey("Then nothing is evicted", func() {
				So(d.Size(), ShouldEqual, 3)
				v, _ := d.Lookup(ctx, "req-1")
				So(v, ShouldEqual, 1)
			})
		})
	})

	Convey("Given an unbounded deduper", t, func() {
		d := dedupe.NewInMemoryDeduper[int](dedupe.WithMaxSize(0))
		for i := 0; i < 1000; i++ {
			d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i), i)
		}

		Convey("Then nothing is evicted", func() {
			So(d.Size(), ShouldEqual, 1000)
			v, ok := d.Lookup(ctx, "req-0")
			So(ok, ShouldBeTrue)
			So(v, ShouldEqual, 0)
		})
	})
}

func TestDedupeConcurrency(t *testing.T) {
	ctx := context.Background()

	Convey("Given goroutines racing on the same request ids", t, func() {
		d := dedupe.NewInMemoryDeduper[int](dedupe.WithMaxSize(1000))
		const goroutines = 10
		const ids = 100

		var mu sync.Mutex
		fresh := 0
		var wg sync.WaitGroup
		for g := 0; g < goroutines; g++ {
			wg.Add(1)
			go func(g int) {
				defer wg.Done()
				for i := 0; i < ids; i++ {
					if _, seen := d.SeenAndRecord(ctx, fmt.Sprintf("req-%d", i), g); !seen {
						mu.Lock()
						fresh++
						mu.Unlock()
					}
				}
			}(g)
		}
		wg.Wait()

		Convey("Then each id was recorded exactly once", func() {
			So(fresh, ShouldEqual, ids)
			So(d.Size(), ShouldEqual, ids)
		})
	})
}
