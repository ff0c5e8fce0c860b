package server

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/ValentinKolb/dCount/rpc/common"
	"github.com/ValentinKolb/dCount/rpc/serializer"
	"github.com/VictoriaMetrics/metrics"
)

// --------------------------------------------------------------------------
// Task State
// --------------------------------------------------------------------------

// taskState tracks how far a request task has progressed. Transitions are
// strictly forward: Created -> Decoded -> Authorized -> Dispatched and from
// every state into Completed or Failed.
type taskState uint32

const (
	taskCreated taskState = iota
	taskDecoded
	taskAuthorized
	taskDispatched
	taskCompleted
	taskFailed
)

func (s taskState) String() string {
	switch s {
	case taskCreated:
		return "created"
	case taskDecoded:
		return "decoded"
	case taskAuthorized:
		return "authorized"
	case taskDispatched:
		return "dispatched"
	case taskCompleted:
		return "completed"
	case taskFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// --------------------------------------------------------------------------
// Request Task
// --------------------------------------------------------------------------

// requestTask drives one request through its lifecycle: decode the raw
// payload, authorize the operation, dispatch it to the adapter and send the
// response once the completion callback fires.
//
// The task sends exactly one response. The dispatch step does not block: the
// adapter's done callback may run on a consensus completion goroutine long
// after run returned. If the client connection died in the meantime, the
// transport drops the write, the task itself never errors on that.
type requestTask struct {
	shardID    uint64
	raw        []byte
	shard      serverShard
	serializer serializer.IRPCSerializer
	authorizer IAuthorizer
	reply      func(resp []byte)

	state     atomic.Uint32
	responded atomic.Bool
	started   time.Time
}

// newRequestTask creates a task for one raw request frame.
func newRequestTask(
	shardID uint64,
	raw []byte,
	shard serverShard,
	ser serializer.IRPCSerializer,
	authorizer IAuthorizer,
	reply func(resp []byte),
) *requestTask {
	return &requestTask{
		shardID:    shardID,
		raw:        raw,
		shard:      shard,
		serializer: ser,
		authorizer: authorizer,
		reply:      reply,
		started:    time.Now(),
	}
}

// run executes the synchronous part of the lifecycle. It returns as soon as
// the operation is dispatched, the response is sent from the completion
// callback.
func (t *requestTask) run() {
	// Decode
	var msg common.Message
	if err := t.serializer.Deserialize(t.raw, &msg); err != nil {
		t.fail(fmt.Sprintf("failed to deserialize request: %s", err))
		return
	}
	t.advance(taskDecoded)

	// Authorize before anything touches the counter. A denied request is
	// never dispatched and the denial does not reveal whether the counter
	// exists.
	required, err := permissionFor(msg.MsgType)
	if err != nil {
		t.fail(err.Error())
		return
	}
	if err := t.authorizer.Authorize(msg.Token, required); err != nil {
		metrics.GetOrCreateCounter(`dcount_requests_denied_total`).Inc()
		t.fail(err.Error())
		return
	}
	t.advance(taskAuthorized)

	// Dispatch
	t.advance(taskDispatched)
	t.shard.Adapter.Handle(&msg, t.shard.Counter, t.complete)
}

// --------------------------------------------------------------------------
// Completion (exactly once)
// --------------------------------------------------------------------------

// advance moves the task to the given state. Completed and Failed are set by
// complete/fail only.
func (t *requestTask) advance(next taskState) {
	t.state.Store(uint32(next))
}

// complete encodes resp and sends it. The first completion wins, any further
// call is a no-op.
func (t *requestTask) complete(resp *common.Message) {
	if !t.responded.CompareAndSwap(false, true) {
		return
	}

	if resp.Err != "" {
		t.state.Store(uint32(taskFailed))
		metrics.GetOrCreateCounter(fmt.Sprintf(`dcount_requests_failed_total{op=%q}`, resp.MsgType)).Inc()
	} else {
		t.state.Store(uint32(taskCompleted))
		metrics.GetOrCreateCounter(fmt.Sprintf(`dcount_requests_total{op=%q}`, resp.MsgType)).Inc()
	}

	data, err := t.serializer.Serialize(*resp)
	if err != nil {
		// Encoding the real response failed, fall back to a plain error
		// response so the client is never left waiting
		Logger.Errorf("failed to serialize response for shard %d: %v", t.shardID, err)
		data, _ = t.serializer.Serialize(*common.NewErrorResponse(
			fmt.Sprintf("failed to serialize response: %s", err),
		))
	}

	Logger.Debugf("request on shard %d finished in state %q after %s",
		t.shardID, taskState(t.state.Load()), time.Since(t.started))

	t.reply(data)
}

// fail completes the task with an error response.
func (t *requestTask) fail(msg string) {
	t.complete(common.NewErrorResponse(msg))
}
