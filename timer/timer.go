package timer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

// DefaultTemplate renders the verbose report. A template must contain exactly
// one floating-point verb, which receives the elapsed time in seconds.
const DefaultTemplate = "Time taken: %f seconds"

// ErrTimeout is the cancellation cause of a scope whose deadline elapsed
// before its body completed. Run returns it in place of the context error.
var ErrTimeout = errors.New("timer: scope deadline exceeded")

type Option func(*Options)

type Options struct {
	Now       func() time.Time
	DisableGC bool
	Verbose   bool
	Timeout   time.Duration
	Template  string
	Output    io.Writer
	Observer  Observer
}

func defaultOptions() Options {
	return Options{Now: time.Now, Verbose: true, Template: DefaultTemplate, Output: os.Stdout}
}

// WithClock sets the timestamp source. It only affects measurement; the
// deadline from WithTimeout always follows the wall clock.
func WithClock(now func() time.Time) Option { return func(o *Options) { o.Now = now } }

// WithGCDisabled pauses automatic garbage collection for the scope duration.
// The prior setting is restored on exit, so collection is re-enabled only if
// it was enabled before entry.
func WithGCDisabled(v bool) Option { return func(o *Options) { o.DisableGC = v } }

func WithVerbose(v bool) Option { return func(o *Options) { o.Verbose = v } }

// WithTimeout arms a per-scope wall-clock deadline. Zero means unbounded.
func WithTimeout(d time.Duration) Option { return func(o *Options) { o.Timeout = d } }

func WithTemplate(s string) Option { return func(o *Options) { o.Template = s } }

func WithOutput(w io.Writer) Option { return func(o *Options) { o.Output = w } }

func WithObserver(obs Observer) Option { return func(o *Options) { o.Observer = obs } }

// Observer receives scope lifecycle notifications.
type Observer interface {
	ScopeStarted(ctx context.Context)
	ScopeFinished(ctx context.Context, elapsed time.Duration, timedOut bool)
}

// Timer measures wall time across scoped regions. A Timer is configured once
// and may bracket any number of scopes; it publishes the timing of the most
// recent one. Scopes of a single Timer are meant to run one at a time.
type Timer struct {
	opts Options
	obs  Observer

	mu      sync.Mutex
	start   time.Time
	end     time.Time
	elapsed time.Duration
	done    bool
}

func New(optFns ...Option) *Timer {
	t := &Timer{opts: defaultOptions()}
	for _, fn := range optFns {
		fn(&t.opts)
	}
	if t.opts.Now == nil {
		t.opts.Now = time.Now
	}
	if t.opts.Output == nil {
		t.opts.Output = os.Stdout
	}
	t.obs = t.opts.Observer
	return t
}

// StopFunc finalizes a scope: it disarms the deadline, restores garbage
// collection, publishes the elapsed time, and emits the report. It is
// idempotent; callers defer it right after Start so it runs on every exit
// path, panics included.
type StopFunc func()

// Start enters a scope. The returned context carries the configured deadline
// with ErrTimeout as its cancellation cause; each scope holds its own
// independent deadline, so overlapping scopes do not disturb one another.
func (t *Timer) Start(parent context.Context) (context.Context, StopFunc) {
	if parent == nil {
		parent = context.Background()
	}
	var gate gcGate
	if t.opts.DisableGC {
		gate.suspend()
	}
	var (
		ctx    context.Context
		cancel context.CancelFunc
	)
	if t.opts.Timeout > 0 {
		ctx, cancel = context.WithTimeoutCause(parent, t.opts.Timeout, ErrTimeout)
	} else {
		ctx, cancel = context.WithCancel(parent)
	}
	start := t.opts.Now()
	if t.obs != nil {
		t.obs.ScopeStarted(ctx)
	}

	var once sync.Once
	stop := func() {
		once.Do(func() {
			end := t.opts.Now()
			timedOut := context.Cause(ctx) == ErrTimeout
			cancel()
			gate.resume()
			elapsed := end.Sub(start)
			t.mu.Lock()
			t.start, t.end, t.elapsed, t.done = start, end, elapsed, true
			t.mu.Unlock()
			if t.opts.Verbose {
				fmt.Fprintf(t.opts.Output, t.opts.Template+"\n", elapsed.Seconds())
			}
			if t.obs != nil {
				t.obs.ScopeFinished(ctx, elapsed, timedOut)
			}
		})
	}
	return ctx, stop
}

// Run executes fn inside a scope, finalizing it on every exit path. When the
// scope's own deadline expired, Run returns ErrTimeout even if fn ignored the
// cancellation; otherwise fn's error is returned unchanged. A deadline
// inherited from parent is not translated and surfaces as the parent's error.
func (t *Timer) Run(parent context.Context, fn func(ctx context.Context) error) error {
	ctx, stop := t.Start(parent)
	defer stop()
	err := fn(ctx)
	stop()
	if context.Cause(ctx) == ErrTimeout {
		return ErrTimeout
	}
	return err
}

// Elapsed reports the most recent scope's elapsed time. It is false until the
// first scope has exited.
func (t *Timer) Elapsed() (time.Duration, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.elapsed, t.done
}
