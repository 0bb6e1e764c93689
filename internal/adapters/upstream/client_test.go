package upstream_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/benitoschiffler/nba-props-lab/internal/adapters/upstream"
	"github.com/sony/gobreaker"
	. "github.com/smartystreets/goconvey/convey"
)

type sleepRecorder struct {
	mu    sync.Mutex
	waits []time.Duration
}

func (s *sleepRecorder) Sleep(_ context.Context, d time.Duration) error {
	s.mu.Lock()
	s.waits = append(s.waits, d)
	s.mu.Unlock()
	return nil
}

func (s *sleepRecorder) Waits() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]time.Duration(nil), s.waits...)
}

// statusServer replies with codes in order, repeating the last one.
func statusServer(hits *atomic.Int32, codes ...int) *httptest.Server {
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := int(hits.Add(1)) - 1
		code := codes[len(codes)-1]
		if n < len(codes) {
			code = codes[n]
		}
		w.WriteHeader(code)
		if code == http.StatusOK {
			_, _ = w.Write([]byte(`{"ok":true}`))
		}
	}))
}

func newClient(sleeps *sleepRecorder, opts ...upstream.Option) *upstream.Client {
	base := []upstream.Option{
		upstream.WithPace(time.Millisecond),
		upstream.WithSleep(sleeps.Sleep),
		upstream.WithBackoff(time.Second, 8*time.Second),
	}
	return upstream.New(append(base, opts...)...)
}

func TestClientGet(t *testing.T) {
	Convey("Given an upstream client", t, func() {
		ctx := context.Background()
		sleeps := &sleepRecorder{}
		var hits atomic.Int32

		Convey("When the upstream answers", func() {
			var got http.Header
			var gotQuery url.Values
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				got = r.Header.Clone()
				gotQuery = r.URL.Query()
				_, _ = w.Write([]byte(`{"ok":true}`))
			}))
			defer srv.Close()

			c := newClient(sleeps, upstream.WithHeaders(upstream.BrowserHeaders("test-agent/1.0")))
			body, err := c.Get(ctx, "stats", srv.URL+"/stats/commonteamroster?LeagueID=00", url.Values{"TeamID": {"1610612747"}})

			Convey("Then the body is returned", func() {
				So(err, ShouldBeNil)
				So(string(body), ShouldEqual, `{"ok":true}`)
			})

			Convey("Then the browser profile and query are sent", func() {
				So(got.Get("User-Agent"), ShouldEqual, "test-agent/1.0")
				So(got.Get("x-nba-stats-token"), ShouldEqual, "true")
				So(got.Get("Referer"), ShouldEqual, "https://www.nba.com/")
				So(gotQuery.Get("TeamID"), ShouldEqual, "1610612747")
				So(gotQuery.Get("LeagueID"), ShouldEqual, "00")
			})
		})

		Convey("When the upstream fails once with a 5xx", func() {
			srv := statusServer(&hits, http.StatusBadGateway, http.StatusOK)
			defer srv.Close()

			body, err := newClient(sleeps).Get(ctx, "stats", srv.URL, nil)

			Convey("Then the retry succeeds after one backoff", func() {
				So(err, ShouldBeNil)
				So(body, ShouldNotBeEmpty)
				So(int(hits.Load()), ShouldEqual, 2)
				So(sleeps.Waits(), ShouldResemble, []time.Duration{time.Second})
			})
		})

		Convey("When the upstream keeps rate limiting", func() {
			srv := statusServer(&hits, http.StatusTooManyRequests)
			defer srv.Close()

			_, err := newClient(sleeps, upstream.WithAttempts(3)).Get(ctx, "rl", srv.URL, nil)

			Convey("Then every attempt is used with growing backoff", func() {
				So(errors.Is(err, upstream.ErrUpstreamUnavailable), ShouldBeTrue)
				So(int(hits.Load()), ShouldEqual, 3)
				So(sleeps.Waits(), ShouldResemble, []time.Duration{time.Second, 2 * time.Second})
			})
		})

		Convey("When backoff would exceed the cap", func() {
			srv := statusServer(&hits, http.StatusServiceUnavailable)
			defer srv.Close()

			c := newClient(sleeps, upstream.WithAttempts(5), upstream.WithBackoff(time.Second, 3*time.Second))
			_, _ = c.Get(ctx, "cap", srv.URL, nil)

			Convey("Then the delay is capped", func() {
				So(sleeps.Waits(), ShouldResemble, []time.Duration{time.Second, 2 * time.Second, 3 * time.Second, 3 * time.Second})
			})
		})

		Convey("When the upstream answers 404", func() {
			srv := statusServer(&hits, http.StatusNotFound)
			defer srv.Close()

			_, err := newClient(sleeps).Get(ctx, "nf", srv.URL, nil)

			Convey("Then it fails without retrying", func() {
				var se *upstream.StatusError
				So(errors.As(err, &se), ShouldBeTrue)
				So(se.Code, ShouldEqual, http.StatusNotFound)
				So(errors.Is(err, upstream.ErrUpstreamUnavailable), ShouldBeTrue)
				So(int(hits.Load()), ShouldEqual, 1)
				So(sleeps.Waits(), ShouldBeEmpty)
			})
		})

		Convey("When the upstream is unreachable", func() {
			srv := httptest.NewServer(http.NotFoundHandler())
			addr := srv.URL
			srv.Close()

			_, err := newClient(sleeps, upstream.WithAttempts(1)).Get(ctx, "down", addr, nil)

			Convey("Then the failure is reported as unavailable", func() {
				So(errors.Is(err, upstream.ErrUpstreamUnavailable), ShouldBeTrue)
			})
		})
	})
}

func TestClientPacing(t *testing.T) {
	Convey("Given a client paced at 60ms", t, func() {
		var hits atomic.Int32
		srv := statusServer(&hits, http.StatusOK)
		defer srv.Close()

		c := upstream.New(upstream.WithPace(60 * time.Millisecond))

		Convey("When three requests are issued back to back", func() {
			start := time.Now()
			for i := 0; i < 3; i++ {
				_, err := c.Get(context.Background(), "paced", srv.URL, nil)
				So(err, ShouldBeNil)
			}

			Convey("Then they are spread by the pace", func() {
				So(time.Since(start), ShouldBeGreaterThanOrEqualTo, 110*time.Millisecond)
				So(int(hits.Load()), ShouldEqual, 3)
			})
		})
	})
}

func TestClientBreaker(t *testing.T) {
	Convey("Given a source that always fails", t, func() {
		var hits atomic.Int32
		srv := statusServer(&hits, http.StatusInternalServerError)
		defer srv.Close()

		sleeps := &sleepRecorder{}
		c := newClient(sleeps, upstream.WithAttempts(1), upstream.WithBreakerTimeout(time.Hour))

		Convey("When it has failed three times", func() {
			for i := 0; i < 3; i++ {
				_, _ = c.Get(context.Background(), "flaky", srv.URL, nil)
			}
			_, err := c.Get(context.Background(), "flaky", srv.URL, nil)

			Convey("Then the breaker opens and fails fast", func() {
				So(errors.Is(err, upstream.ErrCircuitOpen), ShouldBeTrue)
				So(int(hits.Load()), ShouldEqual, 3)
				So(c.BreakerState("flaky"), ShouldEqual, gobreaker.StateOpen)
			})

			Convey("Then other sources are unaffected", func() {
				So(c.BreakerState("other"), ShouldEqual, gobreaker.StateClosed)
			})
		})
	})

	Convey("Given a source answering 404", t, func() {
		var hits atomic.Int32
		srv := statusServer(&hits, http.StatusNotFound)
		defer srv.Close()

		c := newClient(&sleepRecorder{}, upstream.WithAttempts(1))
		for i := 0; i < 5; i++ {
			_, _ = c.Get(context.Background(), "missing", srv.URL, nil)
		}

		Convey("Then the breaker stays closed", func() {
			So(c.BreakerState("missing"), ShouldEqual, gobreaker.StateClosed)
			So(int(hits.Load()), ShouldEqual, 5)
		})
	})
}
