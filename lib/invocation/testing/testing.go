package testing

import (
	"sync/atomic"

	"github.com/ValentinKolb/dCount/lib/invocation"
)

// ApplyFunc executes one serialized command against the fake group's state
// and returns the state machine result.
type ApplyFunc func(groupID uint64, cmd []byte) (invocation.Result, error)

// FakeService is an in-memory IInvocationService for tests. Commands are
// applied by the configured ApplyFunc on a separate goroutine, preserving the
// asynchronous completion contract of the real service.
type FakeService struct {
	apply ApplyFunc
	count atomic.Int64
	sync  bool
}

// NewFakeService creates a FakeService that completes invocations on a
// goroutine of its own, like the dragonboat backed service does.
func NewFakeService(apply ApplyFunc) *FakeService {
	return &FakeService{apply: apply}
}

// NewSyncFakeService creates a FakeService that completes invocations before
// Invoke returns. Useful for tests that assert on state immediately after the
// call.
func NewSyncFakeService(apply ApplyFunc) *FakeService {
	return &FakeService{apply: apply, sync: true}
}

// Invocations returns how many invocations were dispatched so far.
func (s *FakeService) Invocations() int64 {
	return s.count.Load()
}

// --------------------------------------------------------------------------
// Interface Methods (docs see invocation/interface.go)
// --------------------------------------------------------------------------

func (s *FakeService) Invoke(groupID uint64, cmd []byte) *invocation.Pending {
	s.count.Add(1)
	p := invocation.NewPending()

	run := func() {
		res, err := s.apply(groupID, cmd)
		p.Complete(res, err)
	}

	if s.sync {
		run()
	} else {
		go run()
	}
	return p
}

func (s *FakeService) Close() error {
	return nil
}
