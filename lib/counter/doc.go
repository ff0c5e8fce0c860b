// Package counter provides the high-level interface for named atomic counters
// with linearizable semantics and unified error handling. It is the primitive
// abstraction the rest of the system is built around: a counter is identified
// by name, owned by exactly one consensus group, and every operation on it -
// including reads - is committed through that group's log.
//
// The package focuses on:
//   - A unified interface (IAtomicCounter) shared by the consensus-backed
//     implementation and the RPC client proxy
//   - A structured error system using typed return codes
//
// Key Components:
//
//   - IAtomicCounter Interface: The core abstraction defining counter
//     operations (Get, AddAndGet, GetAndAdd, Set, CompareAndSet, Destroy).
//     All implementations share this interface, allowing applications to work
//     against a local consensus group or a remote server without code changes.
//
//   - Error System: A structured error reporting mechanism using typed error
//     codes and descriptive messages. The codes travel through the consensus
//     log as state machine results, so a client sees the same classification
//     regardless of which replica served it.
//
// Read Semantics:
//
//	Get is deliberately not a separate read-only code path. It is defined as
//	AddAndGet with a delta of zero: the read is itself a committed no-op write.
//	This guarantees that a Get observes every previously committed write and
//	is totally ordered with all other operations on the same counter, at the
//	cost of a log entry per read. A weaker local read from a non-leader
//	replica could return stale data and is intentionally not offered.
//
// Implementations:
//
//	- Distributed Counter (dcounter): Built on the Dragonboat RAFT consensus
//	  library via the invocation port. Appropriate for multi-node deployments.
//	  Available in the "github.com/ValentinKolb/dCount/lib/counter/dcounter" package.
//
//	- RPC Client (rpc/client): A proxy that forwards operations to a remote
//	  dCount server over a pluggable transport.
package counter
