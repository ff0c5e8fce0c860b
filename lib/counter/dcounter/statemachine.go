package dcounter

import (
	"encoding/gob"
	"fmt"
	"io"
	"time"

	"github.com/ValentinKolb/dCount/lib/counter"
	"github.com/ValentinKolb/dCount/lib/counter/dcounter/internal"
	"github.com/lni/dragonboat/v4/logger"
	sm "github.com/lni/dragonboat/v4/statemachine"
)

var log = logger.GetLogger("counter")

// --------------------------------------------------------------------------
// State Machine Implementation
// --------------------------------------------------------------------------

// CounterStateMachine is a state machine implementation for Dragonboat RAFT.
// It owns the named counters of one consensus group. All access is serialized
// by the RAFT protocol, so no internal locking is needed.
type CounterStateMachine struct {
	replicaID uint64
	shardID   uint64
	values    map[string]int64
	destroyed map[string]struct{}
}

// CreateStateMachineFactory returns a function that can be used by dragonboat
// to create a new state machine for a node host.
func CreateStateMachineFactory() func(shardID uint64, replicaID uint64) sm.IStateMachine {
	return func(shardID uint64, replicaID uint64) sm.IStateMachine {
		return &CounterStateMachine{
			replicaID: replicaID,
			shardID:   shardID,
			values:    make(map[string]int64),
			destroyed: make(map[string]struct{}),
		}
	}
}

// Lookup handles read-only diagnostic queries. Counter values are never
// served here: value reads commit through the log as zero-delta adds.
func (fsm *CounterStateMachine) Lookup(itf interface{}) (interface{}, error) {
	q, ok := itf.(internal.Query)
	if !ok {
		return nil, counter.NewError(counter.RetCInternalError, fmt.Sprintf("invalid Query type: %T", itf))
	}

	switch q.Type {
	case internal.QueryTInfo:
		return internal.GroupInfo{
			Counters:  uint64(len(fsm.values)),
			Destroyed: uint64(len(fsm.destroyed)),
		}, nil
	default:
		return nil, counter.NewError(counter.RetCInvalidOperation, fmt.Sprintf("unknown Query operation: %d", q.Type))
	}
}

// Update applies one committed command to the counters of this group.
func (fsm *CounterStateMachine) Update(e sm.Entry) (sm.Result, error) {
	start := time.Now()

	if len(e.Cmd) == 0 {
		return sm.Result{
			Value: uint64(counter.RetCInvalidOperation),
			Data:  []byte("empty command ignored"),
		}, nil
	}

	cmd := internal.Command{}
	if err := cmd.Deserialize(e.Cmd); err != nil {
		return sm.Result{
			Value: uint64(counter.RetCInvalidOperation),
			Data:  []byte(fmt.Sprintf("failed to deserialize command: %v", err)),
		}, nil
	}

	result := fsm.apply(cmd)

	// Log if the update took long
	if elapsed := time.Since(start); elapsed > time.Millisecond {
		log.Infof("State machine took long to update (%s on %q), took %.2fms",
			cmd.Type, cmd.Name, float64(elapsed)/float64(time.Millisecond))
	}
	return result, nil
}

// apply executes a single deserialized command against the counter state.
func (fsm *CounterStateMachine) apply(cmd internal.Command) sm.Result {
	// Destroyed names reject everything except another Destroy (idempotent)
	if _, gone := fsm.destroyed[cmd.Name]; gone {
		if cmd.Type == internal.CommandTDestroy {
			return sm.Result{Value: uint64(counter.RetCSuccess)}
		}
		return sm.Result{
			Value: uint64(counter.RetCDestroyed),
			Data:  []byte(fmt.Sprintf("counter %q was destroyed", cmd.Name)),
		}
	}

	switch cmd.Type {
	case internal.CommandTAddAndGet:
		newValue := fsm.values[cmd.Name] + cmd.Arg1
		fsm.values[cmd.Name] = newValue
		return sm.Result{
			Value: uint64(counter.RetCSuccess),
			Data:  internal.EncodeValue(newValue),
		}
	case internal.CommandTGetAndAdd:
		oldValue := fsm.values[cmd.Name]
		fsm.values[cmd.Name] = oldValue + cmd.Arg1
		return sm.Result{
			Value: uint64(counter.RetCSuccess),
			Data:  internal.EncodeValue(oldValue),
		}
	case internal.CommandTSet:
		fsm.values[cmd.Name] = cmd.Arg1
		return sm.Result{Value: uint64(counter.RetCSuccess)}
	case internal.CommandTCompareAndSet:
		swapped := fsm.values[cmd.Name] == cmd.Arg1
		if swapped {
			fsm.values[cmd.Name] = cmd.Arg2
		}
		return sm.Result{
			Value: uint64(counter.RetCSuccess),
			Data:  internal.EncodeBool(swapped),
		}
	case internal.CommandTDestroy:
		delete(fsm.values, cmd.Name)
		fsm.destroyed[cmd.Name] = struct{}{}
		return sm.Result{Value: uint64(counter.RetCSuccess)}
	default:
		return sm.Result{
			Value: uint64(counter.RetCInvalidOperation),
			Data:  []byte(fmt.Sprintf("unknown Command operation: %s", cmd.Type)),
		}
	}
}

// --------------------------------------------------------------------------
// Snapshot Support
// --------------------------------------------------------------------------

// snapshot is the gob-encoded on-disk representation of the group state.
type snapshot struct {
	Values    map[string]int64
	Destroyed []string
}

// SaveSnapshot writes the complete counter state to the writer.
func (fsm *CounterStateMachine) SaveSnapshot(writer io.Writer, _ sm.ISnapshotFileCollection, _ <-chan struct{}) error {
	snap := snapshot{
		Values:    fsm.values,
		Destroyed: make([]string, 0, len(fsm.destroyed)),
	}
	for name := range fsm.destroyed {
		snap.Destroyed = append(snap.Destroyed, name)
	}
	return gob.NewEncoder(writer).Encode(snap)
}

// RecoverFromSnapshot restores the complete counter state from the reader.
func (fsm *CounterStateMachine) RecoverFromSnapshot(r io.Reader, _ []sm.SnapshotFile, _ <-chan struct{}) error {
	var snap snapshot
	if err := gob.NewDecoder(r).Decode(&snap); err != nil {
		return err
	}
	fsm.values = snap.Values
	if fsm.values == nil {
		fsm.values = make(map[string]int64)
	}
	fsm.destroyed = make(map[string]struct{}, len(snap.Destroyed))
	for _, name := range snap.Destroyed {
		fsm.destroyed[name] = struct{}{}
	}
	return nil
}

// Close performs any necessary cleanup.
func (fsm *CounterStateMachine) Close() error {
	return nil
}
