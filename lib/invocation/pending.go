package invocation

import (
	"context"
	"sync"
)

// Pending is the single-assignment handle for one in-flight invocation.
// It is written exactly once by the invocation service and observed by the
// caller either through a registered callback or by awaiting.
type Pending struct {
	done chan struct{}

	mu        sync.Mutex
	completed bool
	callbacks []func(Result, error)
	result    Result
	err       error
}

// NewPending creates an uncompleted Pending. Exported for service
// implementations and test fakes; application code never completes a Pending
// itself.
func NewPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Complete resolves the Pending with a result or a terminal error and runs
// all registered callbacks on the calling goroutine. Only the first call has
// an effect, later calls are ignored.
func (p *Pending) Complete(res Result, err error) {
	p.mu.Lock()
	if p.completed {
		p.mu.Unlock()
		return
	}
	p.completed = true
	p.result = res
	p.err = err
	callbacks := p.callbacks
	p.callbacks = nil
	close(p.done)
	p.mu.Unlock()

	for _, fn := range callbacks {
		fn(res, err)
	}
}

// OnComplete registers fn to run when the Pending resolves. If it already
// resolved, fn runs immediately on the calling goroutine. Each registered
// callback runs exactly once.
func (p *Pending) OnComplete(fn func(Result, error)) {
	p.mu.Lock()
	if !p.completed {
		p.callbacks = append(p.callbacks, fn)
		p.mu.Unlock()
		return
	}
	res, err := p.result, p.err
	p.mu.Unlock()

	fn(res, err)
}

// Await blocks until the Pending resolves or ctx is done. A context error
// does not cancel the invocation itself; once dispatched it is not
// retractable.
func (p *Pending) Await(ctx context.Context) (Result, error) {
	select {
	case <-p.done:
		p.mu.Lock()
		defer p.mu.Unlock()
		return p.result, p.err
	case <-ctx.Done():
		return Result{}, ctx.Err()
	}
}

// Done returns a channel that is closed once the Pending resolved.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}
