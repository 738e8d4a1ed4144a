// internal/contact/submit.go
//
// Folio – Contact subsystem: submission handler.
//
// Context
//   Handler drives a Form through its submission state machine:
//
//      Idle ──submit, all valid──▶ Submitting ──delay──▶ Succeeded ──reset delay──▶ Idle (cleared)
//      Idle ──submit, any invalid──▶ Idle (error map = exactly the invalid fields)
//
//   Validation failures are synchronous and come back as an ErrorMap, never
//   as an error value.  The remote call is simulated: a timer fires after
//   SubmitDelay, the accepted message is handed to the Dispatcher, and the
//   form moves to Succeeded.  Dispatcher failures are logged and counted but
//   cannot fail the submission.
//
// Workflow
//   •  Submit validates under the form lock, flips to Submitting, and arms a
//      time.AfterFunc continuation.  The caller returns immediately.
//   •  complete runs the Dispatcher with a DispatchTimeout deadline, moves to
//      Succeeded, fires the Notifier, and arms the reset continuation.
//   •  expire clears the form back to Idle.
//   •  Each continuation carries the form generation it was armed for and
//      becomes a no-op once Reset or Close has bumped it.
//
//------------------------------------------------------------------------------

package contact

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/metrics"
)

// Default timings.
const (
	DefaultSubmitDelay     = 1500 * time.Millisecond
	DefaultResetDelay      = 3 * time.Second
	DefaultDispatchTimeout = 10 * time.Second
)

// Dispatcher delivers an accepted message (email queue, archive, …).
type Dispatcher interface {
	Dispatch(ctx context.Context, msg Message) error
}

// DispatcherFunc adapts a plain function to Dispatcher.
type DispatcherFunc func(ctx context.Context, msg Message) error

func (fn DispatcherFunc) Dispatch(ctx context.Context, msg Message) error { return fn(ctx, msg) }

// Notifier receives a fire-and-forget success event for the form identified
// by formID.
type Notifier interface {
	Notify(formID string, msg Message)
}

// NotifierFunc adapts a plain function to Notifier.
type NotifierFunc func(formID string, msg Message)

func (fn NotifierFunc) Notify(formID string, msg Message) { fn(formID, msg) }

// Options configures a Handler.  Zero durations fall back to the defaults.
type Options struct {
	SubmitDelay     time.Duration
	ResetDelay      time.Duration
	DispatchTimeout time.Duration

	Dispatcher Dispatcher // optional
	Notifier   Notifier   // optional
	Logger     *zap.SugaredLogger

	// OnTransition, when set, is called with the form lock held after every
	// status change.  It must not call back into the Form.
	OnTransition func(formID string, from, to Status)
}

// Handler runs submissions.  One Handler serves every Form.
type Handler struct {
	opts Options
}

// NewHandler applies defaults to opts and returns a Handler.
func NewHandler(opts Options) *Handler {
	if opts.SubmitDelay <= 0 {
		opts.SubmitDelay = DefaultSubmitDelay
	}
	if opts.ResetDelay <= 0 {
		opts.ResetDelay = DefaultResetDelay
	}
	if opts.DispatchTimeout <= 0 {
		opts.DispatchTimeout = DefaultDispatchTimeout
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop().Sugar()
	}
	return &Handler{opts: opts}
}

// Submit validates f and, when every field is acceptable, starts the
// simulated submission.  It returns the field errors (empty when accepted)
// and whether the submission started.  Submitting a form that is not Idle
// is ignored and returns (nil, false).
func (h *Handler) Submit(f *Form) (ErrorMap, bool) {
	f.mu.Lock()
	if f.status != Idle || f.closed {
		f.mu.Unlock()
		return nil, false
	}

	accepted, errs := ValidateMessage(f.values)
	f.errors = errs
	if len(errs) > 0 {
		out := errs.clone()
		f.mu.Unlock()

		metrics.SubmissionsTotal.WithLabelValues("rejected").Inc()
		for field := range out {
			metrics.FieldErrorsTotal.WithLabelValues(string(field)).Inc()
		}
		h.opts.Logger.Debugw("contact submit rejected", "form", f.id, "fields", len(out))
		return out, false
	}

	h.transitionLocked(f, Submitting)
	gen := f.gen
	f.timer = time.AfterFunc(h.opts.SubmitDelay, func() { h.complete(f, gen, accepted) })
	f.mu.Unlock()

	metrics.SubmissionsTotal.WithLabelValues("accepted").Inc()
	h.opts.Logger.Infow("contact submit accepted", "form", f.id)
	return ErrorMap{}, true
}

// complete resolves the simulated remote call.
func (h *Handler) complete(f *Form, gen uint64, msg Message) {
	if !f.current(gen) {
		return
	}

	if h.opts.Dispatcher != nil {
		ctx, cancel := context.WithTimeout(context.Background(), h.opts.DispatchTimeout)
		err := h.opts.Dispatcher.Dispatch(ctx, msg)
		cancel()
		if err != nil {
			metrics.DispatchErrorsTotal.Inc()
			h.opts.Logger.Warnw("contact dispatch failed", "form", f.id, "err", err)
		}
	}

	f.mu.Lock()
	if f.gen != gen {
		f.mu.Unlock()
		return
	}
	h.transitionLocked(f, Succeeded)
	f.timer = time.AfterFunc(h.opts.ResetDelay, func() { h.expire(f, gen) })
	f.mu.Unlock()

	if h.opts.Notifier != nil {
		h.opts.Notifier.Notify(f.id, msg)
	}
}

// expire returns a Succeeded form to Idle with cleared fields.
func (h *Handler) expire(f *Form, gen uint64) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.gen != gen {
		return
	}
	f.timer = nil
	h.transitionLocked(f, Idle)
	f.resetLocked()
}

// transitionLocked records a status change.  Caller holds f.mu.
func (h *Handler) transitionLocked(f *Form, to Status) {
	from := f.status
	f.status = to
	metrics.StatusTransitionsTotal.WithLabelValues(from.String(), to.String()).Inc()
	if h.opts.OnTransition != nil {
		h.opts.OnTransition(f.id, from, to)
	}
}

// current reports whether gen is still the form's live generation.
func (f *Form) current(gen uint64) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.gen == gen
}
