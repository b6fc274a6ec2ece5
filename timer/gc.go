// Package timer provides scoped timing primitives for experiment runs.
package timer

import "runtime/debug"

// gcGate suspends automatic garbage collection for one scope. The underlying
// knob is process-wide, so the gate snapshots the prior GC percent and
// restores it verbatim on resume: a scope entered with collection already off
// leaves it off. The snapshot is meaningful only between suspend and resume.
type gcGate struct {
	prev      int
	suspended bool
}

func (g *gcGate) suspend() {
	if g.suspended {
		return
	}
	g.prev = debug.SetGCPercent(-1)
	g.suspended = true
}

func (g *gcGate) resume() {
	if !g.suspended {
		return
	}
	debug.SetGCPercent(g.prev)
	g.prev = 0
	g.suspended = false
}
