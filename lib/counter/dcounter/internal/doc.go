// Package internal provides the communication protocol structures and
// serialization logic for the dcounter package. It defines the wire format
// used to transmit operations between the counter proxy and the distributed
// state machine.
//
// This package is intended for internal use by the dcounter implementation
// and should not be imported directly by external code.
//
// The package consists of two main components:
//
//   - Command System: Defines operations (AddAndGet, GetAndAdd, Set,
//     CompareAndSet, Destroy) that are serialized, proposed to the RAFT
//     group, executed on the state machine and produce results returned to
//     the caller. Reads are AddAndGet commands with a zero delta - there is
//     no read command type, by construction every read commits through the
//     log.
//
//   - Query System: Defines the read-only Info lookup used for diagnostics
//     and metrics. Queries are executed locally on the state machine and do
//     not require serialization.
//
// Command Format:
//
//	Commands are serialized into a binary format with the following structure:
//
//	- 1 byte: Command type
//	- 8 bytes: Arg1 (int64, big endian; delta / value / expect)
//	- 8 bytes: Arg2 (int64, big endian; update for CompareAndSet)
//	- 4 bytes: Name length (uint32, big endian)
//	- N bytes: Counter name
//
//	This fixed-header format keeps RAFT log entries compact and allows
//	allocation-free header parsing.
//
// Result Payloads:
//
//	A committed command produces a state machine result whose Value field
//	carries the counter.RetCode and whose Data field carries the
//	operation-specific payload: 8 bytes (big endian int64) for value-returning
//	commands, 1 byte for CompareAndSet, empty for Set and Destroy.
package internal
