// Package timer provides a scoped timing primitive for experiment
// instrumentation. A scope brackets a region of execution, measures its wall
// time with a configurable clock, and guarantees cleanup on every exit path:
// the pending deadline is disarmed, suspended garbage collection is restored,
// and the elapsed time is published and optionally reported.
package timer
