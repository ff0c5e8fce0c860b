package invocation

import (
	"errors"
	"fmt"

	"github.com/lni/dragonboat/v4"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IInvocationService is the port through which operations are submitted to a
// consensus group. Invoke must never block the calling goroutine: it registers
// the proposal and returns a *Pending that is completed exactly once, on a
// goroutine owned by the service, with either a Result or a classified error.
//
// Transient conditions (system busy, shard not yet ready after a leader
// change) are retried internally and are invisible to callers. Only terminal
// failures surface through the Pending.
type IInvocationService interface {
	// Invoke submits the serialized command to the consensus group identified
	// by groupID. The returned Pending yields exactly one completion.
	Invoke(groupID uint64, cmd []byte) *Pending

	// Close releases the service's resources. In-flight invocations still run
	// to completion: a proposal that may already be committed must not be
	// silently abandoned.
	Close() error
}

// Result is the value a consensus group's state machine produced for one
// committed operation. Value carries the state machine's return code, Data
// the operation-specific payload.
type Result struct {
	Value uint64
	Data  []byte
}

// --------------------------------------------------------------------------
// Failure Classification
// --------------------------------------------------------------------------

// FailureKind classifies a terminal invocation failure.
type FailureKind uint8

const (
	KindInternal       FailureKind = iota // Unclassified failure.
	KindGroupDestroyed                    // The consensus group no longer exists.
	KindTimedOut                          // The operation did not complete in time.
	KindRejected                          // The group permanently rejected the operation.
	KindSessionExpired                    // The proposal session is no longer valid.
)

func (k FailureKind) String() string {
	switch k {
	case KindGroupDestroyed:
		return "group destroyed"
	case KindTimedOut:
		return "timed out"
	case KindRejected:
		return "rejected"
	case KindSessionExpired:
		return "session expired"
	default:
		return "internal error"
	}
}

// Error is the terminal failure type reported through a Pending.
type Error struct {
	Kind FailureKind
	Msg  string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return fmt.Sprintf("InvocationError (%s): %s", e.Kind, e.Msg)
}

// NewInvocationError creates a new invocation Error with the given kind and message.
func NewInvocationError(kind FailureKind, msg string) *Error {
	return &Error{Kind: kind, Msg: msg}
}

// KindOf returns the FailureKind of err, or KindInternal if err carries none.
func KindOf(err error) FailureKind {
	var ie *Error
	if errors.As(err, &ie) {
		return ie.Kind
	}
	return KindInternal
}

// classify maps a dragonboat error to a terminal invocation Error.
func classify(err error) *Error {
	switch {
	case errors.Is(err, dragonboat.ErrShardNotFound),
		errors.Is(err, dragonboat.ErrShardClosed),
		errors.Is(err, dragonboat.ErrClosed):
		return NewInvocationError(KindGroupDestroyed, err.Error())
	case errors.Is(err, dragonboat.ErrTimeout),
		errors.Is(err, dragonboat.ErrCanceled):
		return NewInvocationError(KindTimedOut, err.Error())
	case errors.Is(err, dragonboat.ErrRejected):
		return NewInvocationError(KindRejected, err.Error())
	default:
		return NewInvocationError(KindInternal, err.Error())
	}
}

// isTransient reports whether err is retried internally and never surfaced.
func isTransient(err error) bool {
	return errors.Is(err, dragonboat.ErrSystemBusy) ||
		errors.Is(err, dragonboat.ErrShardNotReady)
}
