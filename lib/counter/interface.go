package counter

import (
	"fmt"
)

// --------------------------------------------------------------------------
// Interface Definition
// --------------------------------------------------------------------------

// IAtomicCounter is the generic interface for a named, linearizable counter.
// All operations return the counter value after the operation was committed
// (where applicable) along with a *Error (nil on success).
type IAtomicCounter interface {
	// Get returns the current value of the counter. The read is committed
	// through the consensus log (it is an add with delta zero), so it observes
	// every write that committed before it was issued.
	Get(name string) (value int64, err error)
	// AddAndGet atomically adds delta to the counter and returns the new value.
	AddAndGet(name string, delta int64) (value int64, err error)
	// GetAndAdd atomically adds delta to the counter and returns the old value.
	GetAndAdd(name string, delta int64) (value int64, err error)
	// Set unconditionally sets the counter to value.
	Set(name string, value int64) (err error)
	// CompareAndSet sets the counter to update if its current value equals
	// expect. The boolean return value indicates whether the swap happened.
	CompareAndSet(name string, expect, update int64) (swapped bool, err error)
	// Destroy removes the counter. Subsequent operations on the same name
	// fail with RetCDestroyed.
	Destroy(name string) (err error)
}

// --------------------------------------------------------------------------
// Custom Error Type
// --------------------------------------------------------------------------

// Error is a custom error type that wraps a return code (of type RetCode)
// and an error message.
type Error struct {
	Code RetCode // The return code
	Msg  string  // The error message.
}

// Error implements the error interface.
func (e *Error) Error() string {
	errorCode := ""
	switch e.Code {
	case RetCInternalError:
		errorCode = "InternalError"
	case RetCDestroyed:
		errorCode = "Destroyed"
	case RetCInvalidOperation:
		errorCode = "InvalidOperation"
	case RetCUnauthorized:
		errorCode = "Unauthorized"
	default:
		errorCode = "Unknown"
	}

	return fmt.Sprintf("CounterError (code %s): %s", errorCode, e.Msg)
}

// NewError creates a new counter Error with the given code and message.
func NewError(code RetCode, msg string) *Error {
	return &Error{
		Code: code,
		Msg:  msg,
	}
}

// --------------------------------------------------------------------------
// Return Codes
// --------------------------------------------------------------------------

type RetCode uint64

const (
	RetCSuccess          RetCode = iota // 0: Command executed successfully.
	RetCInternalError                   // 1: Command failed due to an internal error.
	RetCDestroyed                       // 2: The counter was destroyed.
	RetCInvalidOperation                // 3: Invalid operation.
	RetCUnauthorized                    // 4: The principal lacks the required permission.
	RetCCASFailed                       // 5: CompareAndSet expectation not met (not an error for clients).
)
