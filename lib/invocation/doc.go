// Package invocation provides the port through which all operations reach a
// consensus group. It decouples the request-handling layer from the consensus
// library: callers submit a serialized command for a group ID and receive a
// single-assignment Pending handle, completed exactly once on a goroutine
// owned by the service.
//
// Suspension Model:
//
//	Invoke never blocks. The gap between dispatch and completion is realized
//	as registered continuations (Pending.OnComplete), not a blocked thread.
//	This matters because a single group may be slow - a leader election in
//	progress, for example - and must not starve goroutines handling requests
//	for other groups. A bounded in-flight limit caps the number of proposal
//	goroutines per service.
//
// Error Model:
//
//	Transient conditions (system busy, shard not ready) are retried inside
//	the service and never surface. Terminal failures are classified into
//	FailureKind values (group destroyed, timed out, rejected, session
//	expired) so the request layer can report them without knowing dragonboat
//	error values.
//
// Once an operation is dispatched it is never cancelled by this package: a
// proposal may already be committed even if the caller has gone away, so the
// Pending always runs to completion.
//
// The testing subpackage provides an in-memory fake service used by tests of
// the layers above.
package invocation
