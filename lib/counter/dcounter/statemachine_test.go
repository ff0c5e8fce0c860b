package dcounter

import (
	"bytes"
	"testing"

	"github.com/ValentinKolb/dCount/lib/counter"
	"github.com/ValentinKolb/dCount/lib/counter/dcounter/internal"
	sm "github.com/lni/dragonboat/v4/statemachine"
)

func newTestMachine() *CounterStateMachine {
	return CreateStateMachineFactory()(1, 1).(*CounterStateMachine)
}

// applyCommand applies a command and fails the test on an unexpected error
func applyCommand(t *testing.T, fsm *CounterStateMachine, cmd internal.Command) sm.Result {
	t.Helper()
	res, err := fsm.Update(sm.Entry{Cmd: cmd.Serialize()})
	if err != nil {
		t.Fatalf("Update(%s %q) failed: %v", cmd.Type, cmd.Name, err)
	}
	return res
}

// TestAddAndGet tests that adds accumulate and return the new value
func TestAddAndGet(t *testing.T) {
	fsm := newTestMachine()

	deltas := []int64{5, 10, -3, 0}
	expected := []int64{5, 15, 12, 12}

	for i, delta := range deltas {
		res := applyCommand(t, fsm, internal.Command{Type: internal.CommandTAddAndGet, Name: "c", Arg1: delta})
		if res.Value != uint64(counter.RetCSuccess) {
			t.Fatalf("unexpected retcode %d", res.Value)
		}
		value, err := internal.DecodeValue(res.Data)
		if err != nil {
			t.Fatalf("failed to decode value: %v", err)
		}
		if value != expected[i] {
			t.Errorf("after delta %d: got %d, want %d", delta, value, expected[i])
		}
	}
}

// TestGetAndAdd tests that GetAndAdd returns the value before the add
func TestGetAndAdd(t *testing.T) {
	fsm := newTestMachine()

	res := applyCommand(t, fsm, internal.Command{Type: internal.CommandTGetAndAdd, Name: "c", Arg1: 7})
	value, _ := internal.DecodeValue(res.Data)
	if value != 0 {
		t.Errorf("first GetAndAdd: got %d, want 0", value)
	}

	res = applyCommand(t, fsm, internal.Command{Type: internal.CommandTGetAndAdd, Name: "c", Arg1: 1})
	value, _ = internal.DecodeValue(res.Data)
	if value != 7 {
		t.Errorf("second GetAndAdd: got %d, want 7", value)
	}
}

// TestCompareAndSet tests both the matching and the non-matching case
func TestCompareAndSet(t *testing.T) {
	fsm := newTestMachine()
	applyCommand(t, fsm, internal.Command{Type: internal.CommandTSet, Name: "c", Arg1: 10})

	tests := []struct {
		name        string
		expect      int64
		update      int64
		wantSwapped bool
		wantValue   int64
	}{
		{name: "expectation met", expect: 10, update: 20, wantSwapped: true, wantValue: 20},
		{name: "expectation not met", expect: 10, update: 99, wantSwapped: false, wantValue: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := applyCommand(t, fsm, internal.Command{
				Type: internal.CommandTCompareAndSet, Name: "c", Arg1: tt.expect, Arg2: tt.update,
			})
			swapped, err := internal.DecodeBool(res.Data)
			if err != nil {
				t.Fatalf("failed to decode bool: %v", err)
			}
			if swapped != tt.wantSwapped {
				t.Errorf("swapped = %v, want %v", swapped, tt.wantSwapped)
			}

			check := applyCommand(t, fsm, internal.Command{Type: internal.CommandTAddAndGet, Name: "c"})
			value, _ := internal.DecodeValue(check.Data)
			if value != tt.wantValue {
				t.Errorf("value = %d, want %d", value, tt.wantValue)
			}
		})
	}
}

// TestDestroy tests that destroyed counters reject all further operations
func TestDestroy(t *testing.T) {
	fsm := newTestMachine()
	applyCommand(t, fsm, internal.Command{Type: internal.CommandTSet, Name: "c", Arg1: 1})

	res := applyCommand(t, fsm, internal.Command{Type: internal.CommandTDestroy, Name: "c"})
	if res.Value != uint64(counter.RetCSuccess) {
		t.Fatalf("destroy failed with retcode %d", res.Value)
	}

	// Destroy is idempotent
	res = applyCommand(t, fsm, internal.Command{Type: internal.CommandTDestroy, Name: "c"})
	if res.Value != uint64(counter.RetCSuccess) {
		t.Errorf("second destroy failed with retcode %d", res.Value)
	}

	// Any other operation on the name is rejected
	res = applyCommand(t, fsm, internal.Command{Type: internal.CommandTAddAndGet, Name: "c", Arg1: 1})
	if res.Value != uint64(counter.RetCDestroyed) {
		t.Errorf("add on destroyed counter: retcode %d, want %d", res.Value, counter.RetCDestroyed)
	}
}

// TestUpdateMalformed tests that malformed log entries produce an error result
func TestUpdateMalformed(t *testing.T) {
	fsm := newTestMachine()

	for _, cmd := range [][]byte{nil, {1, 2, 3}} {
		res, err := fsm.Update(sm.Entry{Cmd: cmd})
		if err != nil {
			t.Fatalf("Update returned an error instead of an error result: %v", err)
		}
		if res.Value != uint64(counter.RetCInvalidOperation) {
			t.Errorf("retcode %d, want %d", res.Value, counter.RetCInvalidOperation)
		}
	}
}

// TestLookupInfo tests the diagnostic query
func TestLookupInfo(t *testing.T) {
	fsm := newTestMachine()
	applyCommand(t, fsm, internal.Command{Type: internal.CommandTSet, Name: "a", Arg1: 1})
	applyCommand(t, fsm, internal.Command{Type: internal.CommandTSet, Name: "b", Arg1: 2})
	applyCommand(t, fsm, internal.Command{Type: internal.CommandTDestroy, Name: "b"})

	res, err := fsm.Lookup(internal.Query{Type: internal.QueryTInfo})
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	info, ok := res.(internal.GroupInfo)
	if !ok {
		t.Fatalf("unexpected lookup result type %T", res)
	}
	if info.Counters != 1 || info.Destroyed != 1 {
		t.Errorf("info = %+v, want 1 live / 1 destroyed", info)
	}
}

// TestSnapshotRoundTrip tests that state survives SaveSnapshot/RecoverFromSnapshot
func TestSnapshotRoundTrip(t *testing.T) {
	fsm := newTestMachine()
	applyCommand(t, fsm, internal.Command{Type: internal.CommandTSet, Name: "a", Arg1: 42})
	applyCommand(t, fsm, internal.Command{Type: internal.CommandTDestroy, Name: "gone"})

	var buf bytes.Buffer
	if err := fsm.SaveSnapshot(&buf, nil, nil); err != nil {
		t.Fatalf("SaveSnapshot failed: %v", err)
	}

	restored := newTestMachine()
	if err := restored.RecoverFromSnapshot(&buf, nil, nil); err != nil {
		t.Fatalf("RecoverFromSnapshot failed: %v", err)
	}

	res := applyCommand(t, restored, internal.Command{Type: internal.CommandTAddAndGet, Name: "a"})
	value, _ := internal.DecodeValue(res.Data)
	if value != 42 {
		t.Errorf("restored value = %d, want 42", value)
	}

	res = applyCommand(t, restored, internal.Command{Type: internal.CommandTAddAndGet, Name: "gone"})
	if res.Value != uint64(counter.RetCDestroyed) {
		t.Errorf("destroyed set not restored, retcode %d", res.Value)
	}
}
