// Package ctxtime provides an adapter that mimics context.WithTimeout
// semantics using the local timer implementation. It enables incremental
// migration of call sites that expect the context idiom while keeping
// scope measurement and the distinct timeout cause.
package ctxtime

import (
	"context"
	"time"

	"github.com/hjmark2010/provenance-kernel-evaluation/timer"
)

// WithTimeout mirrors context.WithTimeout on top of a timing scope. The
// returned context is canceled when d elapses or when cancel is called;
// cancel also settles the scope, publishing its elapsed time to any
// observer supplied through optFns. When the deadline fires,
// context.Cause reports timer.ErrTimeout.
func WithTimeout(parent context.Context, d time.Duration, optFns ...timer.Option) (context.Context, context.CancelFunc) {
	if d <= 0 {
		// context.WithTimeout treats a nonpositive d as already expired;
		// the scope needs a positive duration to arm its deadline.
		d = time.Nanosecond
	}
	opts := make([]timer.Option, 0, len(optFns)+2)
	opts = append(opts, timer.WithVerbose(false))
	opts = append(opts, optFns...)
	opts = append(opts, timer.WithTimeout(d))
	ctx, stop := timer.New(opts...).Start(parent)
	return ctx, context.CancelFunc(stop)
}

// WithDeadline is the absolute-time form of WithTimeout.
func WithDeadline(parent context.Context, at time.Time, optFns ...timer.Option) (context.Context, context.CancelFunc) {
	return WithTimeout(parent, time.Until(at), optFns...)
}
