package dcounter

import (
	"github.com/ValentinKolb/dCount/lib/counter"
	"github.com/ValentinKolb/dCount/lib/counter/dcounter/internal"
	"github.com/ValentinKolb/dCount/lib/invocation"
)

// AsyncCounter is the non-blocking variant of the counter handle. Every
// operation registers a completion callback instead of awaiting the result,
// the callback runs exactly once on a goroutine owned by the invocation
// service. This is the handle the RPC server uses: a request worker can
// dispatch an operation and return, the response is sent from the callback.
type AsyncCounter struct {
	svc     invocation.IInvocationService
	groupID uint64
}

// NewAsyncCounter creates an async counter handle bound to one consensus group.
func NewAsyncCounter(svc invocation.IInvocationService, groupID uint64) *AsyncCounter {
	return &AsyncCounter{
		svc:     svc,
		groupID: groupID,
	}
}

// --------------------------------------------------------------------------
// Internal invoke helpers (used by the operation methods)
// --------------------------------------------------------------------------

// invoke proposes cmd and registers fn on the pending completion.
// Invocation failures and non-success return codes are mapped to
// *counter.Error before fn runs.
func (c *AsyncCounter) invoke(cmd internal.Command, fn func(res invocation.Result, err error)) {
	c.svc.Invoke(c.groupID, cmd.Serialize()).OnComplete(func(res invocation.Result, err error) {
		if err != nil {
			if invocation.KindOf(err) == invocation.KindGroupDestroyed {
				fn(invocation.Result{}, counter.NewError(counter.RetCDestroyed, err.Error()))
				return
			}
			fn(invocation.Result{}, counter.NewError(counter.RetCInternalError, err.Error()))
			return
		}
		if res.Value != uint64(counter.RetCSuccess) {
			fn(invocation.Result{}, counter.NewError(counter.RetCode(res.Value), string(res.Data)))
			return
		}
		fn(res, nil)
	})
}

// invokeValue proposes cmd and decodes the 8-byte value payload before
// handing it to fn.
func (c *AsyncCounter) invokeValue(cmd internal.Command, fn func(value int64, err error)) {
	c.invoke(cmd, func(res invocation.Result, err error) {
		if err != nil {
			fn(0, err)
			return
		}
		value, err := internal.DecodeValue(res.Data)
		if err != nil {
			fn(0, counter.NewError(counter.RetCInternalError, err.Error()))
			return
		}
		fn(value, nil)
	})
}

// --------------------------------------------------------------------------
// Operations (semantics see counter/interface.go)
// --------------------------------------------------------------------------

// Get reads the counter value. A read is an add with delta zero: it commits
// through the log and therefore observes every previously committed write.
func (c *AsyncCounter) Get(name string, fn func(value int64, err error)) {
	c.AddAndGet(name, 0, fn)
}

// AddAndGet adds delta and completes with the new value.
func (c *AsyncCounter) AddAndGet(name string, delta int64, fn func(value int64, err error)) {
	c.invokeValue(internal.Command{
		Type: internal.CommandTAddAndGet,
		Name: name,
		Arg1: delta,
	}, fn)
}

// GetAndAdd adds delta and completes with the previous value.
func (c *AsyncCounter) GetAndAdd(name string, delta int64, fn func(value int64, err error)) {
	c.invokeValue(internal.Command{
		Type: internal.CommandTGetAndAdd,
		Name: name,
		Arg1: delta,
	}, fn)
}

// Set sets the counter unconditionally.
func (c *AsyncCounter) Set(name string, value int64, fn func(err error)) {
	c.invoke(internal.Command{
		Type: internal.CommandTSet,
		Name: name,
		Arg1: value,
	}, func(_ invocation.Result, err error) {
		fn(err)
	})
}

// CompareAndSet sets the counter to update if the current value equals expect.
func (c *AsyncCounter) CompareAndSet(name string, expect, update int64, fn func(swapped bool, err error)) {
	c.invoke(internal.Command{
		Type: internal.CommandTCompareAndSet,
		Name: name,
		Arg1: expect,
		Arg2: update,
	}, func(res invocation.Result, err error) {
		if err != nil {
			fn(false, err)
			return
		}
		swapped, err := internal.DecodeBool(res.Data)
		if err != nil {
			fn(false, counter.NewError(counter.RetCInternalError, err.Error()))
			return
		}
		fn(swapped, nil)
	})
}

// Destroy removes the counter. Further operations on the name fail until the
// group itself is recreated, destruction is permanent within a group.
func (c *AsyncCounter) Destroy(name string, fn func(err error)) {
	c.invoke(internal.Command{
		Type: internal.CommandTDestroy,
		Name: name,
	}, func(_ invocation.Result, err error) {
		fn(err)
	})
}
