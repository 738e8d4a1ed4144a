// internal/delivery/delivery.go
//
// Folio – Post-submit delivery actions.
//
// Context
//   When the contact state machine accepts a message it hands it to a
//   Dispatcher.  The Dispatcher runs each configured Action in order:
//
//      email   → queue a notification to the site owner.
//      archive → insert the message into MySQL (only with a DSN).
//
//   Every action runs even if an earlier one failed; failures are logged
//   per action and returned together via errors.Join.  The caller decides
//   what a failure means (the contact handler only counts and logs it).
//
//------------------------------------------------------------------------------

package delivery

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/contact"
)

// Action is one delivery step.
type Action interface {
	Name() string
	Run(ctx context.Context, msg contact.Message) error
}

// Dispatcher runs Actions in order.  Satisfies contact.Dispatcher.
type Dispatcher struct {
	actions []Action
	log     *zap.SugaredLogger
}

// New returns a Dispatcher over actions.  A nil log falls back to zap.S().
func New(log *zap.SugaredLogger, actions ...Action) *Dispatcher {
	if log == nil {
		log = zap.S()
	}
	return &Dispatcher{actions: actions, log: log}
}

// Actions lists the configured action names, in run order.
func (d *Dispatcher) Actions() []string {
	names := make([]string, len(d.actions))
	for i, a := range d.actions {
		names[i] = a.Name()
	}
	return names
}

// Dispatch runs every action and joins their errors.
func (d *Dispatcher) Dispatch(ctx context.Context, msg contact.Message) error {
	var errs []error
	for _, a := range d.actions {
		start := time.Now()
		if err := a.Run(ctx, msg); err != nil {
			d.log.Warnw("delivery action failed",
				"action", a.Name(),
				"dur_ms", time.Since(start).Milliseconds(),
				"err", err,
			)
			errs = append(errs, fmt.Errorf("%s: %w", a.Name(), err))
			continue
		}
		d.log.Debugw("delivery action done",
			"action", a.Name(),
			"dur_ms", time.Since(start).Milliseconds(),
		)
	}
	return errors.Join(errs...)
}
