package dcounter

import (
	"fmt"

	"github.com/ValentinKolb/dCount/lib/counter/dcounter/internal"
	"github.com/lni/dragonboat/v4"
)

// GroupStats describes the size of one consensus group's counter state.
type GroupStats struct {
	// Counters is the number of live counters in the group
	Counters uint64
	// Destroyed is the number of destroyed counter names the group remembers
	Destroyed uint64
}

// ReadGroupStats reads the group's counter statistics from the local replica.
// The read is stale by design: it serves diagnostics and metrics, never
// counter values.
func ReadGroupStats(nh *dragonboat.NodeHost, groupID uint64) (GroupStats, error) {
	v, err := nh.StaleRead(groupID, internal.Query{Type: internal.QueryTInfo})
	if err != nil {
		return GroupStats{}, err
	}
	info, ok := v.(internal.GroupInfo)
	if !ok {
		return GroupStats{}, fmt.Errorf("unexpected query result type: %T", v)
	}
	return GroupStats{
		Counters:  info.Counters,
		Destroyed: info.Destroyed,
	}, nil
}
