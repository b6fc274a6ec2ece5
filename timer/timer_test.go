package timer

import (
	"bytes"
	"context"
	"errors"
	"runtime/debug"
	"strconv"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

// tickingClock yields strictly increasing timestamps, one step per call.
func tickingClock(start time.Time, step time.Duration) func() time.Time {
	var n int
	return func() time.Time {
		n++
		return start.Add(time.Duration(n) * step)
	}
}

func TestElapsedFromConfiguredClock(t *testing.T) {
	t.Parallel()
	base := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)
	tm := New(WithClock(tickingClock(base, 250*time.Millisecond)), WithVerbose(false))

	if _, ok := tm.Elapsed(); ok {
		t.Fatal("Elapsed should be unset before any scope has exited")
	}
	_, stop := tm.Start(context.Background())
	if _, ok := tm.Elapsed(); ok {
		t.Fatal("Elapsed should be unset between entry and exit")
	}
	stop()

	got, ok := tm.Elapsed()
	if !ok {
		t.Fatal("Elapsed should be set after exit")
	}
	if got != 250*time.Millisecond {
		t.Fatalf("expected one clock step of elapsed time, got %v", got)
	}
}

func TestRunPropagatesBodyError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	tm := New(WithVerbose(false), WithTimeout(time.Second))
	err := tm.Run(context.Background(), func(context.Context) error { return boom })
	if !errors.Is(err, boom) {
		t.Fatalf("expected body error unchanged, got %v", err)
	}
}

func TestTimeoutAbortsScope(t *testing.T) {
	t.Parallel()
	tm := New(WithVerbose(false), WithTimeout(50*time.Millisecond))
	start := time.Now()
	err := tm.Run(context.Background(), func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(5 * time.Second):
			t.Error("body was not interrupted by the scope deadline")
			return nil
		}
	})
	if !errors.Is(err, ErrTimeout) {
		t.Fatalf("expected ErrTimeout, got %v", err)
	}
	if waited := time.Since(start); waited > time.Second {
		t.Fatalf("timeout fired too late: %v", waited)
	}
	elapsed, ok := tm.Elapsed()
	if !ok || elapsed > time.Second {
		t.Fatalf("elapsed should reflect time up to interruption, got (%v, %v)", elapsed, ok)
	}
}

func TestNoResidualDeadline(t *testing.T) {
	t.Parallel()
	first := New(WithVerbose(false), WithTimeout(30*time.Millisecond))
	_ = first.Run(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	// A later scope with no timeout must never observe the expired deadline.
	second := New(WithVerbose(false))
	err := second.Run(context.Background(), func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			t.Error("unrelated scope observed a stray cancellation")
			return ctx.Err()
		case <-time.After(150 * time.Millisecond):
			return nil
		}
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestNoTimeoutNeverExpires(t *testing.T) {
	t.Parallel()
	tm := New(WithVerbose(false))
	err := tm.Run(context.Background(), func(ctx context.Context) error {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(200 * time.Millisecond):
			return nil
		}
	})
	if err != nil {
		t.Fatalf("unbounded scope should not fail, got %v", err)
	}
}

func TestParentDeadlineNotTranslated(t *testing.T) {
	t.Parallel()
	parent, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	tm := New(WithVerbose(false), WithTimeout(5*time.Second))
	err := tm.Run(parent, func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	if errors.Is(err, ErrTimeout) {
		t.Fatal("parent deadline must not be reported as the scope's timeout")
	}
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected parent DeadlineExceeded, got %v", err)
	}
}

func TestVerboseReportExactlyOnce(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	tm := New(WithOutput(&buf), WithClock(tickingClock(time.Now(), 100*time.Millisecond)))
	if err := tm.Run(context.Background(), func(context.Context) error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if got := strings.Count(out, "\n"); got != 1 {
		t.Fatalf("expected exactly one report line, got %d in %q", got, out)
	}
	if !strings.Contains(out, "Time taken: ") || !strings.Contains(out, "seconds") {
		t.Fatalf("report does not follow the default template: %q", out)
	}
}

func TestQuietScopeEmitsNothing(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	tm := New(WithOutput(&buf), WithVerbose(false))
	_ = tm.Run(context.Background(), func(context.Context) error { return nil })
	if buf.Len() != 0 {
		t.Fatalf("quiet scope wrote %q", buf.String())
	}
}

func TestFixedDelayMeasured(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	tm := New(WithOutput(&buf), WithTemplate("%f"))
	err := tm.Run(context.Background(), func(context.Context) error {
		time.Sleep(200 * time.Millisecond)
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	elapsed, ok := tm.Elapsed()
	if !ok {
		t.Fatal("elapsed not published")
	}
	if elapsed < 200*time.Millisecond || elapsed > time.Second {
		t.Fatalf("expected roughly 0.2s elapsed, got %v", elapsed)
	}
	reported, err := strconv.ParseFloat(strings.TrimSpace(buf.String()), 64)
	if err != nil {
		t.Fatalf("report is not the rendered elapsed seconds: %q", buf.String())
	}
	if got := elapsed.Seconds(); reported < got-0.001 || reported > got+0.001 {
		t.Fatalf("reported %v, measured %v", reported, got)
	}
}

func TestStopIdempotent(t *testing.T) {
	t.Parallel()
	tm := New(WithVerbose(false), WithClock(tickingClock(time.Now(), time.Millisecond)))
	_, stop := tm.Start(context.Background())
	stop()
	first, _ := tm.Elapsed()
	stop()
	second, _ := tm.Elapsed()
	if first != second {
		t.Fatalf("second Stop changed the published elapsed: %v vs %v", first, second)
	}
}

func TestGCRestoredAfterPanic(t *testing.T) {
	// Mutates the process-wide GC setting; keep sequential.
	prev := debug.SetGCPercent(100)
	defer debug.SetGCPercent(prev)

	tm := New(WithVerbose(false), WithGCDisabled(true))
	func() {
		defer func() {
			if recover() == nil {
				t.Error("expected the body panic to propagate")
			}
		}()
		_ = tm.Run(context.Background(), func(context.Context) error {
			if got := debug.SetGCPercent(-1); got != -1 {
				t.Errorf("collection not suspended inside the scope: %d", got)
			}
			panic("boom")
		})
	}()
	if got := debug.SetGCPercent(100); got != 100 {
		t.Fatalf("collection not restored after panic: %d", got)
	}
}

func TestGCStaysDisabled(t *testing.T) {
	// Mutates the process-wide GC setting; keep sequential.
	prev := debug.SetGCPercent(-1)
	defer debug.SetGCPercent(prev)

	tm := New(WithVerbose(false), WithGCDisabled(true))
	_ = tm.Run(context.Background(), func(context.Context) error { return nil })
	if got := debug.SetGCPercent(-1); got != -1 {
		t.Fatalf("scope re-enabled collection that was off before entry: %d", got)
	}
}

type countObserver struct {
	started  atomic.Int64
	finished atomic.Int64
	timeouts atomic.Int64
}

func (o *countObserver) ScopeStarted(_ context.Context) { o.started.Add(1) }
func (o *countObserver) ScopeFinished(_ context.Context, _ time.Duration, timedOut bool) {
	o.finished.Add(1)
	if timedOut {
		o.timeouts.Add(1)
	}
}

func TestObserverHooks(t *testing.T) {
	t.Parallel()
	obs := &countObserver{}
	timed := New(WithVerbose(false), WithObserver(obs), WithTimeout(20*time.Millisecond))
	_ = timed.Run(context.Background(), func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})
	unbounded := New(WithVerbose(false), WithObserver(obs))
	_, stop := unbounded.Start(context.Background())
	stop()
	stop()
	if obs.started.Load() != 2 || obs.finished.Load() != 2 {
		t.Fatalf("unexpected observer counts: started=%d finished=%d",
			obs.started.Load(), obs.finished.Load())
	}
	if obs.timeouts.Load() != 1 {
		t.Fatalf("expected exactly one timed-out scope, got %d", obs.timeouts.Load())
	}
}
