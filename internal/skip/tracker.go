// Package skip implements the per-(model, program) timeout skip state
// machine: once a program times out on an instance, further instances of
// the same model are suppressed until the designated reset column changes.
package skip

// Tracker holds the skip state for one (model, program) pair. It is created
// fresh when the scheduler starts a model's sweep for a program and is
// never carried over to another model.
type Tracker struct {
	skipOnTimeout bool
	resetColumn   int // matrix column cancelling a skip, negative when unset
	skipping      bool
	last          []string
}

// NewTracker returns a tracker in the running state. resetColumn is the
// matrix column index whose value change cancels an active skip; pass a
// negative value when the model has no reset column.
func NewTracker(skipOnTimeout bool, resetColumn int) *Tracker {
	return &Tracker{skipOnTimeout: skipOnTimeout, resetColumn: resetColumn}
}

// ShouldSkip decides whether the instance with the given matrix tuple must
// be suppressed. The reset rule is applied first: when the reset column's
// value differs from the previously observed tuple, the tracker drops back
// to the running state before deciding.
func (t *Tracker) ShouldSkip(tuple []string) bool {
	if t.resetColumn >= 0 && t.last != nil && tuple[t.resetColumn] != t.last[t.resetColumn] {
		t.skipping = false
	}
	return t.skipOnTimeout && t.skipping
}

// Observe records the outcome of the current instance. The tuple is
// remembered regardless of outcome so the reset rule always compares
// consecutive instances in matrix order; a timeout arms the skip state when
// the policy is enabled.
func (t *Tracker) Observe(tuple []string, timedOut bool) {
	t.last = tuple
	if t.skipOnTimeout && timedOut {
		t.skipping = true
	}
}
