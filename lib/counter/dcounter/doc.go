// Package dcounter provides the consensus-backed implementation of the
// IAtomicCounter interface. One CounterStateMachine instance per consensus
// group owns all counters of that group; a lightweight proxy created with
// NewDistributedCounter serializes operations into log commands and submits
// them through the invocation port.
//
// Consistency:
//
//	Every operation including Get commits through the RAFT log. Get is an
//	AddAndGet with delta zero, so it is totally ordered with all writes on
//	the same counter and can never observe stale state from a non-leader
//	replica. This is a deliberate trade of read latency for strict
//	linearizability.
//
// State:
//
//	The state machine keeps a name -> value map plus the set of destroyed
//	names. Operations on a destroyed name fail with RetCDestroyed (Destroy
//	itself is idempotent). Snapshots serialize the full state with gob.
package dcounter
