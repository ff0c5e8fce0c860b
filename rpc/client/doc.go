// Package client implements RPC clients for the distributed counter service.
// It provides an implementation of the counter.IAtomicCounter interface that
// communicates with remote servers via RPC.
//
// The package focuses on:
//   - Transparent RPC access to remote atomic counters
//   - Integration with the transport and serialization layers
//   - Failover between alternative clusters based on a resolved failover
//     configuration
//   - Error handling and conversion between RPC and domain errors
//
// Key Components:
//
//   - NewRPCCounter: Factory function that creates a client implementing the
//     counter.IAtomicCounter interface. The client forwards all operations to
//     remote servers via the configured transport layer.
//
//   - NewFailoverCounter: Factory function that connects to the first reachable
//     cluster of a resolved failover configuration, deriving transport and
//     serializer from the cluster's own settings.
//
// Usage Example:
//
//	// Configure the client
//	config := common.ClientConfig{
//	  Endpoints:              []string{"localhost:5000"},
//	  TimeoutSecond:          5,
//	  RetryCount:             3,
//	  ConnectionsPerEndpoint: 1,
//	}
//
//	// Create a serializer
//	serializer := serializer.NewBinarySerializer()
//
//	// Create counter client
//	ctr, _ := client.NewRPCCounter(1, config, tcp.NewTCPClientTransport(), serializer)
//
//	// Use the counter
//	value, _ := ctr.AddAndGet("hits", 1)
//	current, _ := ctr.Get("hits")
//
// Performance Considerations:
//
//   - For applications that issue many concurrent operations, increasing
//     ConnectionsPerEndpoint can improve throughput by allowing parallel
//     requests.
//
//   - For low request rates, a single connection per endpoint is often more
//     efficient due to reduced connection overhead.
//
//   - The choice of serializer significantly affects performance. The binary
//     serializer provides the best performance and smallest payload size.
//
// Thread Safety:
//
//	All client implementations are thread-safe and can be used concurrently from
//	multiple goroutines without additional synchronization.
package client
