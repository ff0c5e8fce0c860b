package server

import (
	"fmt"

	"github.com/ValentinKolb/dCount/lib/counter/dcounter"
	"github.com/ValentinKolb/dCount/rpc/common"
)

func NewCounterServerAdapter() IRPCServerAdapter {
	return &counterServerAdapterImpl{}
}

type counterServerAdapterImpl struct{}

func (adapter *counterServerAdapterImpl) Handle(req *common.Message, ctr *dcounter.AsyncCounter, done func(resp *common.Message)) {
	// Check for nil counter
	if ctr == nil {
		done(common.NewErrorResponse("handler: counter is nil"))
		return
	}

	// Handle different message types. Each operation registers a completion
	// callback, done fires once the consensus group committed the command.
	switch req.MsgType {
	case common.MsgTCtrGet:
		ctr.Get(req.Name, func(value int64, err error) {
			done(common.NewValueResponse(common.MsgTCtrGet, value, err))
		})
	case common.MsgTCtrAddAndGet:
		ctr.AddAndGet(req.Name, req.Delta, func(value int64, err error) {
			done(common.NewValueResponse(common.MsgTCtrAddAndGet, value, err))
		})
	case common.MsgTCtrGetAndAdd:
		ctr.GetAndAdd(req.Name, req.Delta, func(value int64, err error) {
			done(common.NewValueResponse(common.MsgTCtrGetAndAdd, value, err))
		})
	case common.MsgTCtrSet:
		ctr.Set(req.Name, req.Value, func(err error) {
			done(common.NewAckResponse(common.MsgTCtrSet, err))
		})
	case common.MsgTCtrCAS:
		ctr.CompareAndSet(req.Name, req.Expect, req.Value, func(swapped bool, err error) {
			done(common.NewCompareAndSetResponse(swapped, err))
		})
	case common.MsgTCtrDestroy:
		ctr.Destroy(req.Name, func(err error) {
			done(common.NewAckResponse(common.MsgTCtrDestroy, err))
		})
	default:
		done(common.NewErrorResponse(
			fmt.Sprintf("RPC CounterAdapter - Unsupported message type: %s", req.MsgType),
		))
	}
}
