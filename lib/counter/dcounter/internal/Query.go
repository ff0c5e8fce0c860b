package internal

// QueryType defines the possible queries for the counter state machine.
type QueryType uint8

const (
	QueryTInfo QueryType = iota // Retrieve metadata about the group's counters.
)

func (q QueryType) String() string {
	switch q {
	case QueryTInfo:
		return "Info"
	default:
		return "Unknown"
	}
}

// Query defines the structure for lookup requests (read-only) sent via
// SyncRead or StaleRead. Queries never serve counter values: value reads go
// through the log as zero-delta add commands.
type Query struct {
	Type QueryType
}

// GroupInfo is the result of a QueryTInfo operation. It describes the
// counters a group currently owns and is used for diagnostics and metrics,
// not for client reads.
type GroupInfo struct {
	Counters  uint64 // Number of live counters.
	Destroyed uint64 // Number of destroyed counter names.
}
