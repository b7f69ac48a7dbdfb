// Package reqreply implements a generic blocking request/reply bridge used
// to route engine-thread "ask the UI" calls (user input, user choice)
// across to the consumer thread and back.
package reqreply

import (
	"context"
	"errors"
	"sync"
)

// ErrCanceled is returned by Get when Cancel is called while its request is
// pending, or ctx is done before the consumer side answers.
var ErrCanceled = errors.New("reqreply: request canceled")

// ErrBusy is returned by Get when another request is already pending. The
// underlying provider only ever has one engine thread blocked on user
// input at a time, so this indicates a caller bug rather than a normal
// runtime condition.
var ErrBusy = errors.New("reqreply: a request is already pending")

type pending[Req, Reply any] struct {
	req   Req
	reply chan replyOrErr[Reply]
}

type replyOrErr[Reply any] struct {
	value Reply
	err   error
}

// Bridge disentangles a blocking request made from the engine thread from
// the answer supplied, asynchronously, by the consumer/UI thread. It is
// the Go generic generalization of the underlying engine's
// RequestHandlerQueue<Reply, Req> template, used for both GetUserValue
// (Req=InputRequest) and GetUserChoice (Req=ChoiceRequest).
//
// Get posts a request, invokes a caller-supplied wake callback (the
// cross-thread "a request is pending" signal), and blocks until Answer or
// Cancel is called for that request, or ctx is done.
type Bridge[Req, Reply any] struct {
	mu      sync.Mutex
	current *pending[Req, Reply]
}

// New constructs an empty Bridge.
func New[Req, Reply any]() *Bridge[Req, Reply] {
	return &Bridge[Req, Reply]{}
}

// Get posts req, invokes wake (if non-nil) to notify the consumer side a
// request is waiting, then blocks until a reply is supplied via Answer, the
// request is discarded via Cancel, or ctx is done.
func (b *Bridge[Req, Reply]) Get(ctx context.Context, req Req, wake func()) (Reply, error) {
	var zero Reply

	b.mu.Lock()
	if b.current != nil {
		b.mu.Unlock()
		return zero, ErrBusy
	}
	p := &pending[Req, Reply]{req: req, reply: make(chan replyOrErr[Reply], 1)}
	b.current = p
	b.mu.Unlock()

	if wake != nil {
		wake()
	}

	select {
	case r := <-p.reply:
		return r.value, r.err
	case <-ctx.Done():
		b.clearIfCurrent(p)
		return zero, ctx.Err()
	}
}

// Pending reports the currently outstanding request, if any. The consumer
// side calls this (mirroring OnInputRequest/OnDataRequest) to fetch what
// to ask the user.
func (b *Bridge[Req, Reply]) Pending() (Req, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == nil {
		var zero Req
		return zero, false
	}
	return b.current.req, true
}

// Answer supplies the reply for the currently pending request, unblocking
// the goroutine waiting in Get. It is a no-op if no request is pending.
func (b *Bridge[Req, Reply]) Answer(reply Reply) {
	p := b.takeCurrent()
	if p == nil {
		return
	}
	p.reply <- replyOrErr[Reply]{value: reply}
}

// Cancel discards the currently pending request, if any, unblocking the
// goroutine waiting in Get with ErrCanceled. It is used by the job
// handler's Stop to make sure no engine thread is left blocked forever
// waiting on user input after the job has been torn down.
func (b *Bridge[Req, Reply]) Cancel() {
	p := b.takeCurrent()
	if p == nil {
		return
	}
	var zero Reply
	p.reply <- replyOrErr[Reply]{value: zero, err: ErrCanceled}
}

func (b *Bridge[Req, Reply]) takeCurrent() *pending[Req, Reply] {
	b.mu.Lock()
	defer b.mu.Unlock()
	p := b.current
	b.current = nil
	return p
}

// clearIfCurrent drops p from current if it is still the pending request,
// so a context cancellation in Get does not leave a stale entry that a
// later Answer/Cancel would try to deliver to nobody.
func (b *Bridge[Req, Reply]) clearIfCurrent(p *pending[Req, Reply]) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.current == p {
		b.current = nil
	}
}
