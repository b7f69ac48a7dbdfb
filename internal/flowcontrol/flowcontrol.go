// Package flowcontrol gates the automation engine's tick loop between
// instructions: run free, sleep a fixed duration, or block until released
// one step at a time.
package flowcontrol

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/sup-codac/oac-tree-gui/internal/model"
)

// Controller gates the engine thread between ticks according to the
// current WaitingMode. It is grounded on the condition-variable wait in
// the underlying engine's ProcedureTicked/WaitForState (a mutex + condvar
// guarding a small set of fields), generalized to a pluggable mode instead
// of a single hard-coded sleep.
//
// SleepFor mode is paced by a token-bucket rate limiter (burst 1) instead
// of a bare time.Sleep, so the pacing can be retuned live via
// SetTickTimeout without racing a goroutine that is already sleeping.
type Controller struct {
	mu   sync.Mutex
	cond *sync.Cond

	mode        model.WaitingMode
	tickTimeout time.Duration
	limiter     *rate.Limiter

	stepToken   bool
	interrupted bool
}

// New constructs a Controller in WaitingModeProceed with no tick timeout.
func New() *Controller {
	c := &Controller{
		mode:    model.WaitingModeProceed,
		limiter: rate.NewLimiter(rate.Inf, 1),
	}
	c.cond = sync.NewCond(&c.mu)
	return c
}

// SetWaitingMode changes how the next and subsequent calls to Wait behave.
// A step token deposited by Step while not in WaitingModeWaitForRelease is
// remembered across the mode switch, so a Step issued just before Pause
// takes effect is not lost; any change wakes a goroutine currently blocked
// in Wait so it can observe the new mode.
func (c *Controller) SetWaitingMode(mode model.WaitingMode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = mode
	c.cond.Broadcast()
}

// WaitingMode reports the current waiting mode.
func (c *Controller) WaitingMode() model.WaitingMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.mode
}

// SetTickTimeout sets the pacing duration used in WaitingModeSleepFor and
// retunes the underlying rate limiter to match.
func (c *Controller) SetTickTimeout(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.tickTimeout = d
	if d <= 0 {
		c.limiter.SetLimit(rate.Inf)
		return
	}
	c.limiter.SetLimit(rate.Every(d))
	// SetLimit refills the bucket; take that token so the next SleepFor
	// Wait is paced by a full d instead of passing straight through.
	c.limiter.Allow()
}

// TickTimeout reports the current sleep-for pacing duration.
func (c *Controller) TickTimeout() time.Duration {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tickTimeout
}

// Step deposits one step token, which releases exactly one pending or
// future Wait call in WaitingModeWaitForRelease. A token deposited in any
// other mode is kept until such a Wait consumes it; a second Step before
// then does not add a second token.
func (c *Controller) Step() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.stepToken = true
	c.cond.Broadcast()
}

// Interrupt makes every current and future Wait call return immediately
// until Reset is called. The one exception is a SleepFor Wait already
// blocked in the rate limiter: it runs until the limiter releases it or
// its ctx ends. It is the cross-thread "stop waiting" signal used by
// Stop/Reset on the job handler.
func (c *Controller) Interrupt() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interrupted = true
	c.cond.Broadcast()
}

// Reset clears a sticky Interrupt, restoring normal Wait behavior.
func (c *Controller) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.interrupted = false
}

// Wait blocks the calling goroutine according to the current WaitingMode:
//   - Proceed returns immediately.
//   - SleepFor blocks for the configured tick timeout, paced by the rate
//     limiter.
//   - WaitForRelease blocks until Step is called.
//
// Wait returns early if Interrupt is called or ctx is canceled while
// blocked; in SleepFor mode Interrupt is checked only before the pacing
// wait begins. It returns ctx.Err() only when cancellation, rather than
// Interrupt, is why execution stopped waiting.
func (c *Controller) Wait(ctx context.Context) error {
	c.mu.Lock()
	mode := c.mode
	c.mu.Unlock()

	switch mode {
	case model.WaitingModeProceed:
		return nil
	case model.WaitingModeSleepFor:
		return c.waitSleepFor(ctx)
	case model.WaitingModeWaitForRelease:
		return c.waitForRelease(ctx)
	default:
		return nil
	}
}

func (c *Controller) waitSleepFor(ctx context.Context) error {
	c.mu.Lock()
	if c.interrupted {
		c.mu.Unlock()
		return nil
	}
	limiter := c.limiter
	c.mu.Unlock()

	if err := limiter.Wait(ctx); err != nil && ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}

// waitForRelease blocks on the condition variable until a step is granted,
// an interrupt is raised, or ctx is canceled. A context with a Done
// channel is translated into a condvar wakeup by a helper goroutine that
// exits once Wait returns, mirroring the cancellation pattern used
// elsewhere in the subsystem for blocking condvar waits.
func (c *Controller) waitForRelease(ctx context.Context) error {
	stop := context.AfterFunc(ctx, func() {
		c.mu.Lock()
		c.cond.Broadcast()
		c.mu.Unlock()
	})
	defer stop()

	c.mu.Lock()
	defer c.mu.Unlock()
	for !c.stepToken && !c.interrupted && ctx.Err() == nil {
		c.cond.Wait()
	}
	if c.stepToken {
		c.stepToken = false
	}
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return nil
}
