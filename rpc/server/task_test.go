package server

import (
	"strings"
	"sync"
	"testing"

	"github.com/ValentinKolb/dCount/lib/counter/dcounter"
	"github.com/ValentinKolb/dCount/lib/invocation"
	invtest "github.com/ValentinKolb/dCount/lib/invocation/testing"
	"github.com/ValentinKolb/dCount/rpc/common"
	"github.com/ValentinKolb/dCount/rpc/serializer"
	sm "github.com/lni/dragonboat/v4/statemachine"
)

// newTestShard wires a server shard to a fake invocation service that applies
// commands to a real state machine, serialized like the RAFT log would
func newTestShard() (serverShard, *invtest.FakeService) {
	fsm := dcounter.CreateStateMachineFactory()(128, 1)
	var mu sync.Mutex

	svc := invtest.NewSyncFakeService(func(_ uint64, cmd []byte) (invocation.Result, error) {
		mu.Lock()
		defer mu.Unlock()
		res, err := fsm.Update(sm.Entry{Cmd: cmd})
		if err != nil {
			return invocation.Result{}, err
		}
		return invocation.Result{Value: res.Value, Data: res.Data}, nil
	})

	return serverShard{
		Counter: dcounter.NewAsyncCounter(svc, 128),
		Adapter: NewCounterServerAdapter(),
	}, svc
}

// runTask drives one request message through the full task lifecycle and
// returns the decoded response
func runTask(t *testing.T, shard serverShard, authorizer IAuthorizer, req *common.Message) *common.Message {
	t.Helper()
	ser := serializer.NewBinarySerializer()

	raw, err := ser.Serialize(*req)
	if err != nil {
		t.Fatalf("failed to serialize request: %v", err)
	}

	var respBytes []byte
	replies := 0
	newRequestTask(128, raw, shard, ser, authorizer, func(resp []byte) {
		respBytes = resp
		replies++
	}).run()

	if replies != 1 {
		t.Fatalf("expected exactly one reply, got %d", replies)
	}

	var resp common.Message
	if err := ser.Deserialize(respBytes, &resp); err != nil {
		t.Fatalf("failed to deserialize response: %v", err)
	}
	return &resp
}

// TestTaskGetObservesAllCommittedAdds tests the central consistency property
// through the full request path: a Get issued after committed adds returns
// the sum of all deltas
func TestTaskGetObservesAllCommittedAdds(t *testing.T) {
	shard, _ := newTestShard()
	authorizer := NewNoopAuthorizer()

	deltas := []int64{3, -1, 10, 5}
	var sum int64
	for _, delta := range deltas {
		resp := runTask(t, shard, authorizer, common.NewAddAndGetRequest("hits", delta))
		sum += delta
		if resp.Err != "" {
			t.Fatalf("AddAndGet failed: %s", resp.Err)
		}
		if resp.Value != sum {
			t.Errorf("AddAndGet: got %d, want %d", resp.Value, sum)
		}
	}

	resp := runTask(t, shard, authorizer, common.NewGetRequest("hits"))
	if resp.Err != "" {
		t.Fatalf("Get failed: %s", resp.Err)
	}
	if resp.Value != sum {
		t.Errorf("Get after commits: got %d, want %d", resp.Value, sum)
	}
}

// TestTaskGetDispatchesInvocation tests that a Get commits through the log,
// it must count as a dispatched invocation
func TestTaskGetDispatchesInvocation(t *testing.T) {
	shard, svc := newTestShard()

	resp := runTask(t, shard, NewNoopAuthorizer(), common.NewGetRequest("hits"))
	if resp.Err != "" {
		t.Fatalf("Get failed: %s", resp.Err)
	}
	if got := svc.Invocations(); got != 1 {
		t.Errorf("Get dispatched %d invocations, want 1", got)
	}
}

// TestTaskOperations exercises every counter operation through the task path
func TestTaskOperations(t *testing.T) {
	shard, _ := newTestShard()
	authorizer := NewNoopAuthorizer()

	// Set
	resp := runTask(t, shard, authorizer, common.NewSetRequest("c", 40))
	if resp.Err != "" {
		t.Fatalf("Set failed: %s", resp.Err)
	}

	// GetAndAdd returns the previous value
	resp = runTask(t, shard, authorizer, common.NewGetAndAddRequest("c", 2))
	if resp.Err != "" || resp.Value != 40 {
		t.Errorf("GetAndAdd: got (%d, %q), want (40, no error)", resp.Value, resp.Err)
	}

	// CompareAndSet success and failure
	resp = runTask(t, shard, authorizer, common.NewCompareAndSetRequest("c", 42, 100))
	if resp.Err != "" || !resp.Ok {
		t.Errorf("CompareAndSet expected swap: got (ok=%t, err=%q)", resp.Ok, resp.Err)
	}
	resp = runTask(t, shard, authorizer, common.NewCompareAndSetRequest("c", 42, 200))
	if resp.Err != "" || resp.Ok {
		t.Errorf("CompareAndSet expected no swap: got (ok=%t, err=%q)", resp.Ok, resp.Err)
	}

	// Destroy, then any further operation fails
	resp = runTask(t, shard, authorizer, common.NewDestroyRequest("c"))
	if resp.Err != "" {
		t.Fatalf("Destroy failed: %s", resp.Err)
	}
	resp = runTask(t, shard, authorizer, common.NewGetRequest("c"))
	if resp.Err == "" {
		t.Error("Get on destroyed counter should fail")
	}
}

// TestTaskDecodeFailureNotDispatched tests that a request that cannot be
// decoded is answered with an error and never reaches the counter
func TestTaskDecodeFailureNotDispatched(t *testing.T) {
	shard, svc := newTestShard()
	ser := serializer.NewBinarySerializer()

	var respBytes []byte
	newRequestTask(128, []byte{0xff}, shard, ser, NewNoopAuthorizer(), func(resp []byte) {
		respBytes = resp
	}).run()

	var resp common.Message
	if err := ser.Deserialize(respBytes, &resp); err != nil {
		t.Fatalf("failed to deserialize response: %v", err)
	}
	if resp.MsgType != common.MsgTError || resp.Err == "" {
		t.Errorf("expected error response, got %+v", resp)
	}
	if got := svc.Invocations(); got != 0 {
		t.Errorf("decode failure dispatched %d invocations, want 0", got)
	}
}

// TestTaskDeniedRequestNotDispatched tests that a denied request is never
// dispatched and that the denial reveals nothing about the counter
func TestTaskDeniedRequestNotDispatched(t *testing.T) {
	shard, svc := newTestShard()
	authorizer := NewJWTAuthorizer("test-secret")

	req := common.NewAddAndGetRequest("secret-counter-name", 1)
	// No token set
	resp := runTask(t, shard, authorizer, req)

	if resp.MsgType != common.MsgTError || resp.Err == "" {
		t.Fatalf("expected error response, got %+v", resp)
	}
	if strings.Contains(resp.Err, "secret-counter-name") {
		t.Errorf("denial must not leak the counter name: %q", resp.Err)
	}
	if got := svc.Invocations(); got != 0 {
		t.Errorf("denied request dispatched %d invocations, want 0", got)
	}
}

// TestTaskUnknownMessageType tests that an unmapped message type fails
// without being dispatched
func TestTaskUnknownMessageType(t *testing.T) {
	shard, svc := newTestShard()

	resp := runTask(t, shard, NewNoopAuthorizer(), &common.Message{MsgType: common.MsgTCustom})
	if resp.MsgType != common.MsgTError || resp.Err == "" {
		t.Errorf("expected error response, got %+v", resp)
	}
	if got := svc.Invocations(); got != 0 {
		t.Errorf("unknown type dispatched %d invocations, want 0", got)
	}
}

// TestTaskRespondsExactlyOnce tests that repeated completions collapse into
// a single response
func TestTaskRespondsExactlyOnce(t *testing.T) {
	shard, _ := newTestShard()
	ser := serializer.NewBinarySerializer()

	replies := 0
	task := newRequestTask(128, nil, shard, ser, NewNoopAuthorizer(), func(_ []byte) {
		replies++
	})

	task.complete(common.NewValueResponse(common.MsgTCtrGet, 1, nil))
	task.complete(common.NewValueResponse(common.MsgTCtrGet, 2, nil))
	task.fail("late failure")

	if replies != 1 {
		t.Errorf("expected exactly one reply, got %d", replies)
	}
}
