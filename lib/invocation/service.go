package invocation

import (
	"context"
	"time"

	"github.com/lni/dragonboat/v4"
	"github.com/lni/dragonboat/v4/client"
	"github.com/lni/dragonboat/v4/logger"
	"github.com/puzpuzpuz/xsync/v3"
)

var (
	retries = 5
	log     = logger.GetLogger("invocation")
)

// serviceImpl is the dragonboat backed implementation of IInvocationService.
// It encapsulates a NodeHost and owns the goroutines on which proposals run
// and callbacks fire.
type serviceImpl struct {
	nh       *dragonboat.NodeHost
	timeout  time.Duration
	sessions *xsync.MapOf[uint64, *client.Session]
	inflight chan struct{}
	closed   chan struct{}
}

// NewService creates an invocation service on top of a dragonboat NodeHost.
// maxInFlight bounds the number of concurrently proposing goroutines so a
// slow group (e.g. leader election in progress) cannot exhaust resources
// needed by other groups.
func NewService(nh *dragonboat.NodeHost, timeout time.Duration, maxInFlight int) IInvocationService {
	if maxInFlight < 1 {
		maxInFlight = 1
	}
	return &serviceImpl{
		nh:       nh,
		timeout:  timeout,
		sessions: xsync.NewMapOf[uint64, *client.Session](),
		inflight: make(chan struct{}, maxInFlight),
		closed:   make(chan struct{}),
	}
}

// --------------------------------------------------------------------------
// Interface Methods (docs see interface.go)
// --------------------------------------------------------------------------

func (s *serviceImpl) Invoke(groupID uint64, cmd []byte) *Pending {
	p := NewPending()

	go func() {
		s.inflight <- struct{}{}
		defer func() { <-s.inflight }()
		s.propose(groupID, cmd, p)
	}()

	return p
}

func (s *serviceImpl) Close() error {
	close(s.closed)
	return nil
}

// --------------------------------------------------------------------------
// Helper Methods
// --------------------------------------------------------------------------

// session returns the NoOP proposal session for a group, creating it on first use.
func (s *serviceImpl) session(groupID uint64) *client.Session {
	cs, _ := s.sessions.LoadOrCompute(groupID, func() *client.Session {
		return s.nh.GetNoOPSession(groupID)
	})
	return cs
}

// propose submits cmd via SyncPropose and completes p exactly once.
// Transient errors are retried here, invisible to the caller.
func (s *serviceImpl) propose(groupID uint64, cmd []byte, p *Pending) {
	cs := s.session(groupID)

	for i := 0; i < retries; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
		res, err := s.nh.SyncPropose(ctx, cs, cmd)
		cancel()

		if isTransient(err) {
			log.Infof("SyncPropose: transient error on group %d, retrying (%d/%d): %v",
				groupID, i+1, retries, err)
			time.Sleep(s.timeout / 10)
			continue
		}

		if err != nil {
			p.Complete(Result{}, classify(err))
			return
		}

		p.Complete(Result{Value: res.Value, Data: res.Data}, nil)
		return
	}

	p.Complete(Result{}, NewInvocationError(KindTimedOut, "retries exhausted"))
}
