package client

import (
	"github.com/ValentinKolb/dCount/lib/counter"
	"github.com/ValentinKolb/dCount/rpc/common"
	"github.com/ValentinKolb/dCount/rpc/serializer"
	"github.com/ValentinKolb/dCount/rpc/transport"
)

// NewRPCCounter creates a new counter.IAtomicCounter client that forwards all
// operations to a remote server via RPC. It connects the transport layer
// before returning.
func NewRPCCounter(
	shardId uint64,
	config common.ClientConfig,
	transport transport.IRPCClientTransport,
	serializer serializer.IRPCSerializer,
) (counter.IAtomicCounter, error) {
	// Connect the transport layer
	if err := transport.Connect(config); err != nil {
		return nil, err
	}

	return &rpcCounterImpl{
		rpcClientAdapter{
			shardId:    shardId,
			config:     config,
			transport:  transport,
			serializer: serializer,
		},
	}, nil
}

// rpcCounterImpl implements counter.IAtomicCounter via RPC
type rpcCounterImpl struct {
	rpcClientAdapter
}

// invoke attaches the configured token and sends the request
func (c *rpcCounterImpl) invoke(req *common.Message) (*common.Message, error) {
	req.Token = c.config.Token
	return invokeRPCRequest(c.shardId, req, c.transport, c.serializer)
}

// --------------------------------------------------------------------------
// Interface Methods (docu see counter.IAtomicCounter)
// --------------------------------------------------------------------------

func (c *rpcCounterImpl) Get(name string) (int64, error) {
	resp, err := c.invoke(common.NewGetRequest(name))
	if err != nil {
		return 0, err
	}
	return resp.Value, nil
}

func (c *rpcCounterImpl) AddAndGet(name string, delta int64) (int64, error) {
	resp, err := c.invoke(common.NewAddAndGetRequest(name, delta))
	if err != nil {
		return 0, err
	}
	return resp.Value, nil
}

func (c *rpcCounterImpl) GetAndAdd(name string, delta int64) (int64, error) {
	resp, err := c.invoke(common.NewGetAndAddRequest(name, delta))
	if err != nil {
		return 0, err
	}
	return resp.Value, nil
}

func (c *rpcCounterImpl) Set(name string, value int64) error {
	_, err := c.invoke(common.NewSetRequest(name, value))
	return err
}

func (c *rpcCounterImpl) CompareAndSet(name string, expect, update int64) (bool, error) {
	resp, err := c.invoke(common.NewCompareAndSetRequest(name, expect, update))
	if err != nil {
		return false, err
	}
	return resp.Ok, nil
}

func (c *rpcCounterImpl) Destroy(name string) error {
	_, err := c.invoke(common.NewDestroyRequest(name))
	return err
}
