package client

import (
	"fmt"
	"time"

	"github.com/ValentinKolb/dCount/lib/clientcfg"
	"github.com/ValentinKolb/dCount/lib/counter"
	"github.com/ValentinKolb/dCount/rpc/common"
	"github.com/ValentinKolb/dCount/rpc/serializer"
	"github.com/ValentinKolb/dCount/rpc/transport"
	"github.com/ValentinKolb/dCount/rpc/transport/http"
	"github.com/ValentinKolb/dCount/rpc/transport/tcp"
	"github.com/ValentinKolb/dCount/rpc/transport/unix"
)

// NewFailoverCounter creates a counter client from a resolved failover
// configuration. The candidate clusters are tried in declaration order, the
// whole chain is retried up to TryCount times. The first cluster that
// accepts a connection wins.
//
// The configuration must already be resolved (see clientcfg.ResolveFailover),
// all candidates are therefore known to be compatible alternatives of the
// primary.
func NewFailoverCounter(shardId uint64, cfg *clientcfg.FailoverConfig) (counter.IAtomicCounter, error) {
	if cfg == nil || len(cfg.Configs) == 0 {
		return nil, fmt.Errorf("failover config has no candidate clusters")
	}

	// Pause between passes over the candidate list
	var retryPeriod time.Duration
	if primary := cfg.Primary(); primary.Network != nil {
		retryPeriod = primary.Network.ConnectionAttemptPeriod
	}

	var lastErr error
	for attempt := 0; attempt < cfg.TryCount; attempt++ {
		for _, candidate := range cfg.Configs {
			ctr, err := connectCandidate(shardId, candidate)
			if err == nil {
				Logger.Infof("connected to cluster %q", candidate.ClusterName)
				return ctr, nil
			}
			lastErr = err
			Logger.Warningf("failed to connect to cluster %q: %v", candidate.ClusterName, err)
		}
		if retryPeriod > 0 {
			time.Sleep(retryPeriod)
		}
	}

	return nil, fmt.Errorf("failed to connect to any cluster after %d attempts: %v", cfg.TryCount, lastErr)
}

// connectCandidate derives the transport configuration from one cluster
// config and connects to it
func connectCandidate(shardId uint64, cfg *clientcfg.ClientConfig) (counter.IAtomicCounter, error) {
	transportName := ""
	if cfg.Network != nil {
		transportName = cfg.Network.Discovery.Transport
	}
	clientTransport, err := TransportFor(transportName)
	if err != nil {
		return nil, err
	}

	format := ""
	if cfg.Serialization != nil {
		format = cfg.Serialization.Format
	}
	ser, err := SerializerFor(format)
	if err != nil {
		return nil, err
	}

	return NewRPCCounter(shardId, DeriveClientConfig(cfg), clientTransport, ser)
}

// --------------------------------------------------------------------------
// Config Derivation Helpers
// --------------------------------------------------------------------------

// DeriveClientConfig maps a cluster client config onto the transport level
// client config
func DeriveClientConfig(cfg *clientcfg.ClientConfig) common.ClientConfig {
	derived := common.ClientConfig{}

	if cfg.Credentials != nil {
		derived.Token = cfg.Credentials.Token
	}

	if cfg.Network != nil {
		derived.Endpoints = cfg.Network.Discovery.Endpoints
		derived.ConnectionsPerEndpoint = cfg.Network.Discovery.ConnectionsPerEndpoint
		derived.TimeoutSecond = int(cfg.Network.ConnectionTimeout / time.Second)
		derived.RetryCount = cfg.Network.ConnectionAttemptLimit

		derived.TCPNoDelay = cfg.Network.SocketOptions.TCPNoDelay
		derived.TCPKeepAliveSec = cfg.Network.SocketOptions.KeepAliveSec
		derived.TCPLingerSec = cfg.Network.SocketOptions.LingerSec
		derived.WriteBufferSize = cfg.Network.SocketOptions.WriteBufferSize
		derived.ReadBufferSize = cfg.Network.SocketOptions.ReadBufferSize
	}

	return derived
}

// TransportFor returns the client transport for the given name
func TransportFor(name string) (transport.IRPCClientTransport, error) {
	switch name {
	case "tcp":
		return tcp.NewTCPClientTransport(), nil
	case "unix":
		return unix.NewUnixClientTransport(), nil
	case "http", "":
		return http.NewHttpClientTransport(), nil
	default:
		return nil, fmt.Errorf("unknown transport: %s (must be one of tcp, unix, http)", name)
	}
}

// SerializerFor returns the serializer for the given format name
func SerializerFor(format string) (serializer.IRPCSerializer, error) {
	switch format {
	case "json", "":
		return serializer.NewJSONSerializer(), nil
	case "gob":
		return serializer.NewGOBSerializer(), nil
	case "binary":
		return serializer.NewBinarySerializer(), nil
	default:
		return nil, fmt.Errorf("unknown serializer: %s (must be one of json, gob, binary)", format)
	}
}
