package zlog

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Observer logs scope transitions through a zerolog logger.
// It implements the timer.Observer interface.
type Observer struct {
	log zerolog.Logger
}

// New returns an observer that writes scope events to log.
func New(log zerolog.Logger) *Observer { return &Observer{log: log} }

// ScopeStarted logs scope entry.
func (o *Observer) ScopeStarted(_ context.Context) {
	o.log.Debug().Msg("scope started")
}

// ScopeFinished logs scope exit with the measured duration.
// Timed-out scopes are raised to warn level.
func (o *Observer) ScopeFinished(_ context.Context, elapsed time.Duration, timedOut bool) {
	evt := o.log.Info()
	if timedOut {
		evt = o.log.Warn().Bool("timed_out", true)
	}
	evt.Dur("elapsed", elapsed).Msg("scope finished")
}
