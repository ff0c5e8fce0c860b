package server

import (
	"github.com/ValentinKolb/dCount/lib/counter/dcounter"
	"github.com/ValentinKolb/dCount/rpc/common"
)

// IRPCServerAdapter is the interface for all RPC server adapters
// It is responsible for executing a decoded and authorized request against
// the counters of one consensus group.
//
// Handle may return before the operation finished: done is invoked exactly
// once with the response, possibly from a consensus completion callback on
// another goroutine. If an error occurs, it must be set in the response.
type IRPCServerAdapter interface {
	Handle(req *common.Message, ctr *dcounter.AsyncCounter, done func(resp *common.Message))
}
