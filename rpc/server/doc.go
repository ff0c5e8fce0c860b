// Package server implements the RPC server for the distributed counter
// service. It drives every incoming request through a fixed lifecycle and
// manages the counter groups hosted by the node.
//
// Request Lifecycle:
//
// Each raw request frame becomes one request task that progresses strictly
// forward through its states:
//
//	created -> decoded -> authorized -> dispatched -> completed | failed
//
//   - Decode: the serializer turns the frame into a Message. A frame that
//     cannot be decoded is answered with an error response and never touches
//     a counter.
//
//   - Authorize: the token is checked against the permission the operation
//     requires. A denied request is never dispatched, and the denial does
//     not reveal whether the target counter exists.
//
//   - Dispatch: the adapter submits the operation to the counter group. The
//     dispatching goroutine returns immediately, the response is produced by
//     the consensus completion callback.
//
//   - Complete: the first completion wins. The response is encoded and sent
//     exactly once, a late duplicate completion is a no-op. If the client
//     connection died in the meantime the transport drops the write.
//
// Key Components:
//
//   - IRPCServerAdapter: Interface defining the contract for all server
//     adapters, with the Handle method that executes a request against a
//     dcounter.AsyncCounter and reports the response through a callback.
//
//   - NewCounterServerAdapter: Factory function creating the adapter for
//     counter operations, translating RPC requests to async counter calls.
//
//   - IAuthorizer: Token verification. NewJWTAuthorizer checks HMAC signed
//     bearer tokens, NewNoopAuthorizer grants everything when authorization
//     is disabled.
//
//   - NewRPCServer: Factory function creating a configured server with the
//     specified transport and serializer mechanisms.
//
// Usage Example:
//
//	// Create server configuration
//	config := common.ServerConfig{
//	  GroupIDs: []uint64{100, 200},
//	  Endpoint: "0.0.0.0:8080",
//	  TimeoutSecond: 5,
//	  ReplicaID: 1,
//	  ClusterMembers: map[uint64]string{1: "localhost:63001"},
//	  DataDir: "/tmp/dcount",
//	  RTTMillisecond: 100,
//	  LogLevel: "info",
//	}
//
//	// Create and start the server
//	s := server.NewRPCServer(
//	  config,
//	  tcp.NewTCPDefaultServerTransport(),
//	  serializer.NewBinarySerializer(),
//	)
//
//	// Start the server
//	if err := s.Serve(); err != nil {
//	  log.Fatalf("Server error: %v", err)
//	}
//
// Every counter group is a replicated state machine with its own raft log.
// Counters in different groups are independent, groups are the unit of
// scaling and placement. Reads commit through the log as zero-delta adds, so
// a value returned by Get reflects every previously committed write.
//
// Thread Safety:
//
//	The server implementation is thread-safe and can handle concurrent
//	requests across multiple connections. Each request is processed
//	independently. The Listen method is not thread-safe and should be
//	called only once.
package server
