package dcounter

import (
	"context"

	"github.com/ValentinKolb/dCount/lib/counter"
	"github.com/ValentinKolb/dCount/lib/counter/dcounter/internal"
	"github.com/ValentinKolb/dCount/lib/invocation"
)

// counterImpl is the concrete implementation of the IAtomicCounter interface.
// It builds serialized commands and submits them through the invocation port;
// the port owns all consensus interaction including transient retries.
type counterImpl struct {
	svc     invocation.IInvocationService
	groupID uint64
}

// NewDistributedCounter creates a counter handle bound to one consensus
// group. Every operation - reads included - is committed through that group's
// log, which makes the handle linearizable across all nodes.
func NewDistributedCounter(svc invocation.IInvocationService, groupID uint64) counter.IAtomicCounter {
	return &counterImpl{
		svc:     svc,
		groupID: groupID,
	}
}

// --------------------------------------------------------------------------
// Internal invoke helper (used by interface methods)
// --------------------------------------------------------------------------

// invoke proposes cmd and waits for the committed result.
// It returns a *counter.Error if the invocation or the operation failed.
func (c *counterImpl) invoke(cmd internal.Command) (invocation.Result, error) {
	pending := c.svc.Invoke(c.groupID, cmd.Serialize())

	// The service guarantees exactly one completion, so awaiting without a
	// deadline cannot hang.
	res, err := pending.Await(context.Background())
	if err != nil {
		if invocation.KindOf(err) == invocation.KindGroupDestroyed {
			return invocation.Result{}, counter.NewError(counter.RetCDestroyed, err.Error())
		}
		return invocation.Result{}, counter.NewError(counter.RetCInternalError, err.Error())
	}
	if res.Value != uint64(counter.RetCSuccess) {
		return invocation.Result{}, counter.NewError(counter.RetCode(res.Value), string(res.Data))
	}
	return res, nil
}

// invokeValue proposes cmd and decodes the 8-byte value payload.
func (c *counterImpl) invokeValue(cmd internal.Command) (int64, error) {
	res, err := c.invoke(cmd)
	if err != nil {
		return 0, err
	}
	value, err := internal.DecodeValue(res.Data)
	if err != nil {
		return 0, counter.NewError(counter.RetCInternalError, err.Error())
	}
	return value, nil
}

// --------------------------------------------------------------------------
// Interface Methods (docs see counter/interface.go)
// --------------------------------------------------------------------------

func (c *counterImpl) Get(name string) (int64, error) {
	// A read is an add with delta zero: it commits through the log and
	// therefore observes every previously committed write.
	return c.AddAndGet(name, 0)
}

func (c *counterImpl) AddAndGet(name string, delta int64) (int64, error) {
	return c.invokeValue(internal.Command{
		Type: internal.CommandTAddAndGet,
		Name: name,
		Arg1: delta,
	})
}

func (c *counterImpl) GetAndAdd(name string, delta int64) (int64, error) {
	return c.invokeValue(internal.Command{
		Type: internal.CommandTGetAndAdd,
		Name: name,
		Arg1: delta,
	})
}

func (c *counterImpl) Set(name string, value int64) error {
	_, err := c.invoke(internal.Command{
		Type: internal.CommandTSet,
		Name: name,
		Arg1: value,
	})
	return err
}

func (c *counterImpl) CompareAndSet(name string, expect, update int64) (bool, error) {
	res, err := c.invoke(internal.Command{
		Type: internal.CommandTCompareAndSet,
		Name: name,
		Arg1: expect,
		Arg2: update,
	})
	if err != nil {
		return false, err
	}
	swapped, err := internal.DecodeBool(res.Data)
	if err != nil {
		return false, counter.NewError(counter.RetCInternalError, err.Error())
	}
	return swapped, nil
}

func (c *counterImpl) Destroy(name string) error {
	_, err := c.invoke(internal.Command{
		Type: internal.CommandTDestroy,
		Name: name,
	})
	return err
}
