// Package jobservice wires the event queue, dispatcher, and job
// observer into the single object a runner holds per job: a Notifier to
// hand the engine, and the drain/wait/filter surface the rest of the
// subsystem uses to consume what that Notifier reports.
package jobservice

import (
	"context"
	"time"

	"github.com/sup-codac/oac-tree-gui/internal/dispatcher"
	"github.com/sup-codac/oac-tree-gui/internal/domainevent"
	"github.com/sup-codac/oac-tree-gui/internal/engine"
	"github.com/sup-codac/oac-tree-gui/internal/flowcontrol"
	"github.com/sup-codac/oac-tree-gui/internal/model"
	"github.com/sup-codac/oac-tree-gui/internal/observer"
	"github.com/sup-codac/oac-tree-gui/internal/telemetry"
)

// Service bundles a domainevent.Queue, a dispatcher.Dispatcher, and an
// observer.Observer behind one API: construct it once per job, hand
// JobInfoIO() to the engine backend as the job's Notifier, register
// event handlers via On, and call Drain (directly, or via the wake
// callback) from the consumer's single event-processing goroutine.
type Service struct {
	queue      *domainevent.Queue
	dispatcher *dispatcher.Dispatcher
	observer   *observer.Observer
	logger     telemetry.Logger
}

// Option configures a Service at construction time.
type Option func(*config)

type config struct {
	wake   func()
	logger telemetry.Logger
	flow   *flowcontrol.Controller
}

// WithWake registers a callback invoked whenever the queue transitions
// from empty to non-empty, e.g. to schedule a Drain call on a GUI event
// loop.
func WithWake(wake func()) Option {
	return func(c *config) { c.wake = wake }
}

// WithLogger sets the logger stored on the Service. Defaults to a no-op
// logger. The Service does not log unregistered event kinds; the
// dispatcher skips them silently.
func WithLogger(logger telemetry.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// WithFlowController supplies the flow controller the observer's
// ProcedureTicked delegates tick pacing to. Defaults to a fresh
// flowcontrol.New() in WaitingModeProceed.
func WithFlowController(flow *flowcontrol.Controller) Option {
	return func(c *config) { c.flow = flow }
}

// New constructs a Service ready to be handed to an engine backend as a
// job's Notifier.
func New(opts ...Option) *Service {
	cfg := config{logger: telemetry.NewNoopLogger(), flow: flowcontrol.New()}
	for _, opt := range opts {
		opt(&cfg)
	}

	queue := domainevent.NewQueue(cfg.wake)
	return &Service{
		queue:      queue,
		dispatcher: dispatcher.New(queue),
		observer:   observer.New(queue.Push, cfg.flow),
		logger:     cfg.logger,
	}
}

// JobInfoIO returns the engine.Notifier to hand to an engine backend
// when starting this job.
func (s *Service) JobInfoIO() engine.Notifier {
	return s.observer
}

// On registers handler for every event of the given kind, to be
// invoked the next time Drain is called after such an event is pushed.
func (s *Service) On(kind domainevent.Kind, handler dispatcher.Handler) {
	s.dispatcher.On(kind, handler)
}

// Drain processes every event currently queued, invoking each one's
// registered handler. It is a no-op, not an error, if Drain is already
// running on another goroutine.
func (s *Service) Drain() {
	s.dispatcher.Drain()
}

// EventCount reports the number of events currently queued and not yet
// drained.
func (s *Service) EventCount() int {
	return s.queue.Size()
}

// JobState returns the last state reported via JobStateUpdated.
func (s *Service) JobState() model.JobState {
	return s.observer.GetCurrentState()
}

// WaitForFinished blocks until the job reaches a terminal state, or ctx
// is done.
func (s *Service) WaitForFinished(ctx context.Context) model.JobState {
	return s.observer.WaitForFinished(ctx)
}

// WaitForState blocks until the job reaches state, or ctx is done.
func (s *Service) WaitForState(ctx context.Context, state model.JobState) bool {
	return s.observer.WaitForState(ctx, state)
}

// SetTickTimeout sets the per-tick pacing delay applied while the flow
// controller is in WaitingModeSleepFor.
func (s *Service) SetTickTimeout(d time.Duration) {
	s.observer.SetTickTimeout(d)
}

// SetInstructionActiveFilter replaces the filter applied to future
// active-instruction reports.
func (s *Service) SetInstructionActiveFilter(filter observer.ActiveFilter) {
	s.observer.SetInstructionActiveFilter(filter)
}

// AnswerUserValue delivers value as the answer to the oldest pending
// GetUserValue request.
func (s *Service) AnswerUserValue(value model.AnyValue) {
	s.observer.AnswerUserValue(value)
}

// PendingUserValueRequest returns the currently pending GetUserValue
// request, if any.
func (s *Service) PendingUserValueRequest() (model.InputRequest, bool) {
	return s.observer.PendingUserValueRequest()
}

// AnswerUserChoice delivers choice as the answer to the oldest pending
// GetUserChoice request.
func (s *Service) AnswerUserChoice(choice int) {
	s.observer.AnswerUserChoice(choice)
}

// PendingUserChoiceRequest returns the currently pending GetUserChoice
// request, if any.
func (s *Service) PendingUserChoiceRequest() (model.ChoiceRequest, bool) {
	return s.observer.PendingUserChoiceRequest()
}
