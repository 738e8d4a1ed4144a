// internal/contact/form.go
//
// Folio – Contact subsystem: per-visitor form state.
//
// Context
//   A Form holds what one visitor has typed so far, the errors currently shown
//   next to each input, and the submission Status.  The presentation layer
//   mutates it on every input and blur event; the Handler (submit.go) drives
//   the Status transitions.
//
// Workflow
//   •  SetField updates a value and drops that field's error right away, so a
//      stale message never sits next to an input the visitor is retyping.
//   •  Errors come back only through explicit validation: Blur, Validate, or
//      a submit.
//   •  Reset clears everything and returns to Idle.
//
// Notes
//   Every mutation takes the form mutex.  The generation counter invalidates
//   timed continuations scheduled by the Handler whenever the form is reset
//   or closed.
//
//------------------------------------------------------------------------------

package contact

import (
	"sync"
	"time"
)

// Snapshot is an immutable copy of a Form, safe to render or encode.
type Snapshot struct {
	Values Message  `json:"values"`
	Errors ErrorMap `json:"errors"`
	Status Status   `json:"status"`
}

// Locked reports whether inputs and the submit control are disabled.
func (s Snapshot) Locked() bool { return s.Status != Idle }

// Form is the state of one visitor's contact form.  Safe for concurrent use.
type Form struct {
	id string

	mu     sync.Mutex
	values Message
	errors ErrorMap
	status Status
	gen    uint64      // bumped on reset/close; stale timers compare it
	timer  *time.Timer // pending continuation, if any
	closed bool
}

// NewForm returns an empty Idle form identified by id.
func NewForm(id string) *Form {
	return &Form{id: id, errors: make(ErrorMap)}
}

// ID returns the identifier given to NewForm (the visitor's session id).
func (f *Form) ID() string { return f.id }

// SetField stores value for field and removes that field's error entry,
// whatever the new value's validity.  It returns false, leaving the form
// untouched, while a submission is in progress.
func (f *Form) SetField(field Field, value string) bool {
	if _, ok := rules[field]; !ok {
		return false
	}

	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != Idle {
		return false
	}
	f.values.set(field, value)
	delete(f.errors, field)
	return true
}

// SetFieldError sets the error shown for field.  An empty msg removes it.
func (f *Form) SetFieldError(field Field, msg string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if msg == "" {
		delete(f.errors, field)
		return
	}
	f.errors[field] = msg
}

// Blur validates the current value of field and records the outcome in the
// error map.  It returns the message now shown for field ("" when valid).
func (f *Form) Blur(field Field) string {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != Idle {
		return f.errors[field]
	}

	if _, err := Validate(field, f.values.Value(field)); err != nil {
		msg := err.(*ValidationError).Message
		f.errors[field] = msg
		return msg
	}
	delete(f.errors, field)
	return ""
}

// Validate checks every field and replaces the error map with exactly the
// invalid fields.  It returns the accepted values and a copy of the errors.
// While a submission is in flight the form is left alone and ok is false.
func (f *Form) Validate() (accepted Message, errs ErrorMap, ok bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.status != Idle {
		return Message{}, f.errors.clone(), false
	}
	accepted, f.errors = ValidateMessage(f.values)
	return accepted, f.errors.clone(), true
}

// Reset clears all values and errors, sets Idle, and cancels any pending
// continuation.
func (f *Form) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.resetLocked()
}

// Snapshot returns a copy of the current state.
func (f *Form) Snapshot() Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()
	return Snapshot{
		Values: f.values,
		Errors: f.errors.clone(),
		Status: f.status,
	}
}

// Status returns the current submission status.
func (f *Form) Status() Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status
}

// Close cancels any pending continuation.  A closed form keeps its last state
// but never transitions again.
func (f *Form) Close() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed = true
	f.gen++
	f.stopTimerLocked()
}

// -----------------------------------------------------------------------------
// Lock-held helpers (callers hold f.mu)
// -----------------------------------------------------------------------------

func (f *Form) resetLocked() {
	f.values = Message{}
	f.errors = make(ErrorMap)
	f.status = Idle
	f.gen++
	f.stopTimerLocked()
}

func (f *Form) stopTimerLocked() {
	if f.timer != nil {
		f.timer.Stop()
		f.timer = nil
	}
}
