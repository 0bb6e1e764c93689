package cache_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/benitoschiffler/nba-props-lab/internal/adapters/cache"
	. "github.com/smartystreets/goconvey/convey"
)

type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func (f *fakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.t
}

func (f *fakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	f.t = f.t.Add(d)
	f.mu.Unlock()
}

func TestCacheTTL(t *testing.T) {
	Convey("Given a cache with a controllable clock", t, func() {
		clock := &fakeClock{t: time.Date(2025, 11, 3, 18, 0, 0, 0, time.UTC)}
		c := cache.New(cache.WithClock(clock.Now))

		Convey("When a value is set", func() {
			c.Set("roster:1610612747", []string{"a", "b"})

			Convey("Then a read within the ttl returns exactly what was set", func() {
				clock.Advance(59 * time.Second)
				v, ok := c.Get("roster:1610612747", time.Minute)
				So(ok, ShouldBeTrue)
				So(v, ShouldResemble, []string{"a", "b"})
			})

			Convey("Then a read at the ttl boundary is absent", func() {
				clock.Advance(time.Minute)
				_, ok := c.Get("roster:1610612747", time.Minute)
				So(ok, ShouldBeFalse)
			})

			Convey("Then the ttl is chosen per read", func() {
				clock.Advance(3 * time.Minute)
				_, short := c.Get("roster:1610612747", 2*time.Minute)
				_, long := c.Get("roster:1610612747", time.Hour)
				So(short, ShouldBeFalse)
				So(long, ShouldBeTrue)
			})

			Convey("Then an expired entry is shadowed, not removed", func() {
				clock.Advance(time.Hour)
				_, ok := c.Get("roster:1610612747", time.Minute)
				So(ok, ShouldBeFalse)
				So(c.Len(), ShouldEqual, 1)
			})
		})

		Convey("When a key is overwritten", func() {
			c.Set("schedule:2025-11-03", 1)
			clock.Advance(90 * time.Second)
			c.Set("schedule:2025-11-03", 2)
			clock.Advance(90 * time.Second)

			Convey("Then its age restarts from the overwrite", func() {
				v, ok := c.Get("schedule:2025-11-03", 2*time.Minute)
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 2)
			})
		})

		Convey("When the cache is cleared", func() {
			c.Set("a", 1)
			c.Set("b", 2)
			c.Clear()

			Convey("Then every entry is gone", func() {
				_, ok := c.Get("a", time.Hour)
				So(ok, ShouldBeFalse)
				So(c.Len(), ShouldEqual, 0)
			})
		})

		Convey("When a missing key is read", func() {
			v, ok := c.Get("nope", time.Hour)

			Convey("Then it is absent", func() {
				So(ok, ShouldBeFalse)
				So(v, ShouldBeNil)
			})
		})
	})
}

func TestLookup(t *testing.T) {
	Convey("Given a cache holding a typed value", t, func() {
		c := cache.New()
		c.Set("profile:1", 42)

		Convey("When looked up as the stored type", func() {
			v, ok := cache.Lookup[int](c, "profile:1", time.Minute)

			Convey("Then the value is returned", func() {
				So(ok, ShouldBeTrue)
				So(v, ShouldEqual, 42)
			})
		})

		Convey("When looked up as another type", func() {
			v, ok := cache.Lookup[string](c, "profile:1", time.Minute)

			Convey("Then it counts as a miss", func() {
				So(ok, ShouldBeFalse)
				So(v, ShouldEqual, "")
			})
		})
	})
}

func TestKeys(t *testing.T) {
	Convey("Given the key builders", t, func() {
		So(cache.HistoryKey("2544", 15), ShouldEqual, "history:2544:15")
		So(cache.Class(cache.HistoryKey("2544", 15)), ShouldEqual, "history")
		So(cache.Class(cache.DashboardKey()), ShouldEqual, "dashboard")
		So(cache.Class(cache.RosterKey("1")), ShouldEqual, "roster")
		So(cache.Class(cache.ScheduleKey("2026-02-01")), ShouldEqual, "schedule")
		So(cache.Class(cache.ProfileKey("2544")), ShouldEqual, "profile")
		So(cache.Class(cache.TrackingKey("2025-26")), ShouldEqual, "tracking")
		So(cache.HistoryKey("2544", 5), ShouldNotEqual, cache.HistoryKey("2544", 15))
	})
}

func TestCacheConcurrency(t *testing.T) {
	Convey("Given concurrent readers, writers and clears", t, func() {
		c := cache.New()
		var wg sync.WaitGroup
		for i := 0; i < 8; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				for j := 0; j < 200; j++ {
					key := fmt.Sprintf("history:%d:%d", i, j%5)
					c.Set(key, j)
					if v, ok := c.Get(key, time.Hour); ok {
						_ = v.(int)
					}
					if j%50 == 0 {
						c.Clear()
					}
				}
			}(i)
		}
		wg.Wait()

		Convey("Then every surviving entry holds a whole value", func() {
			for i := 0; i < 8; i++ {
				for j := 0; j < 5; j++ {
					if v, ok := c.Get(fmt.Sprintf("history:%d:%d", i, j), time.Hour); ok {
						_, isInt := v.(int)
						So(isInt, ShouldBeTrue)
					}
				}
			}
		})
	})
}
