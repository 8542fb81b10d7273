// Package async provides the uniform lifecycle every backend-bound action
// goes through: idle → pending → succeeded or failed, re-entrant from
// either terminal state.
package async

// Status is the lifecycle state of an operation slot
type Status int

const (
	StatusIdle Status = iota
	StatusPending
	StatusSucceeded
	StatusFailed
)

// String returns a short label for logging and the debug event panel
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusPending:
		return "pending"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Op is a single operation slot. Each invocation is tagged with a sequence
// number; a resolution whose sequence is not the latest issued is discarded,
// so a re-submitted request can never be overwritten by a stale in-flight
// response. Exactly one of result and error text is set in a terminal state.
type Op[T any] struct {
	status Status
	result T
	errMsg string
	seq    int
}

// Begin moves the slot to pending and returns the sequence number the
// eventual resolution must present. Calling Begin while already pending
// supersedes the in-flight invocation: its resolution will be stale.
func (o *Op[T]) Begin() int {
	o.seq++
	o.status = StatusPending
	var zero T
	o.result = zero
	o.errMsg = ""
	return o.seq
}

// Succeed resolves the invocation identified by seq with a result. It
// returns false, without touching the slot, when seq is stale.
func (o *Op[T]) Succeed(seq int, result T) bool {
	if seq != o.seq {
		return false
	}
	o.status = StatusSucceeded
	o.result = result
	o.errMsg = ""
	return true
}

// Fail resolves the invocation identified by seq with an error message. It
// returns false, without touching the slot, when seq is stale.
func (o *Op[T]) Fail(seq int, errMsg string) bool {
	if seq != o.seq {
		return false
	}
	o.status = StatusFailed
	var zero T
	o.result = zero
	o.errMsg = errMsg
	return true
}

// Reset returns the slot to idle and invalidates any in-flight invocation
func (o *Op[T]) Reset() {
	o.seq++
	o.status = StatusIdle
	var zero T
	o.result = zero
	o.errMsg = ""
}

// Status returns the current lifecycle state
func (o *Op[T]) Status() Status { return o.status }

// Pending reports whether an invocation is in flight
func (o *Op[T]) Pending() bool { return o.status == StatusPending }

// Succeeded reports whether the latest invocation resolved with a result
func (o *Op[T]) Succeeded() bool { return o.status == StatusSucceeded }

// Failed reports whether the latest invocation resolved with an error
func (o *Op[T]) Failed() bool { return o.status == StatusFailed }

// Result returns the success value; only meaningful when Succeeded
func (o *Op[T]) Result() T { return o.result }

// Err returns the failure text; empty unless Failed
func (o *Op[T]) Err() string { return o.errMsg }
