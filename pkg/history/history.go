// Package history implements two-stack undo/redo over whole-value snapshots.
//
// A History does not own the current value; callers pass it in on every
// transition and install whatever comes back. This keeps the package
// independent of what is being versioned.
//
// Each Record costs one copy of the snapshot, so memory grows linearly with
// both collection size and history depth. Use [WithLimit] to bound depth.
package history

// History holds past (older to newer) and future (soon to later) snapshots.
type History[T any] struct {
	past   []T
	future []T
	clone  func(T) T
	limit  int
}

// Option configures a History.
type Option[T any] func(*History[T])

// WithLimit bounds the number of past snapshots. When exceeded, the oldest
// snapshot is dropped. Zero or negative means unbounded.
func WithLimit[T any](n int) Option[T] {
	return func(h *History[T]) { h.limit = n }
}

// New creates an empty history. clone must return a deep copy of its
// argument; it is applied to every snapshot entering or leaving the stacks
// so callers can never alias stored state.
func New[T any](clone func(T) T, opts ...Option[T]) *History[T] {
	if clone == nil {
		clone = func(v T) T { return v }
	}
	h := &History[T]{clone: clone}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Record pushes the pre-mutation value onto past and discards all redo
// history. Call it before applying a direct mutation.
func (h *History[T]) Record(current T) {
	h.past = append(h.past, h.clone(current))
	h.future = h.future[:0:0]
	h.trim()
}

// CanUndo reports whether past is non-empty.
func (h *History[T]) CanUndo() bool { return len(h.past) > 0 }

// CanRedo reports whether future is non-empty.
func (h *History[T]) CanRedo() bool { return len(h.future) > 0 }

// Undo pops the newest past snapshot and pushes current onto the front of
// future. It returns the snapshot to install and true, or the zero value and
// false when there is nothing to undo.
func (h *History[T]) Undo(current T) (T, bool) {
	var zero T
	if len(h.past) == 0 {
		return zero, false
	}
	prev := h.past[len(h.past)-1]
	h.past = h.past[:len(h.past)-1]
	h.future = append([]T{h.clone(current)}, h.future...)
	return h.clone(prev), true
}

// Redo takes the first future snapshot and pushes current onto past. It
// returns the snapshot to install and true, or false when future is empty.
func (h *History[T]) Redo(current T) (T, bool) {
	var zero T
	if len(h.future) == 0 {
		return zero, false
	}
	next := h.future[0]
	h.future = h.future[1:]
	h.past = append(h.past, h.clone(current))
	h.trim()
	return h.clone(next), true
}

// Past returns copies of the past snapshots, oldest first.
func (h *History[T]) Past() []T { return h.copyAll(h.past) }

// Future returns copies of the future snapshots, soonest first.
func (h *History[T]) Future() []T { return h.copyAll(h.future) }

// Depth returns the lengths of past and future.
func (h *History[T]) Depth() (past, future int) { return len(h.past), len(h.future) }

// Restore replaces both stacks, e.g. when history is reloaded from storage.
func (h *History[T]) Restore(past, future []T) {
	h.past = h.copyAll(past)
	h.future = h.copyAll(future)
	h.trim()
}

// Reset discards all history.
func (h *History[T]) Reset() {
	h.past = nil
	h.future = nil
}

func (h *History[T]) trim() {
	if h.limit > 0 && len(h.past) > h.limit {
		drop := len(h.past) - h.limit
		h.past = append(h.past[:0:0], h.past[drop:]...)
	}
}

func (h *History[T]) copyAll(src []T) []T {
	out := make([]T, len(src))
	for i, v := range src {
		out[i] = h.clone(v)
	}
	return out
}
