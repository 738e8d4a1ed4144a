// internal/message/toast.go
//
// Folio – Toast notifications.
//
// Context
//   When a contact submission succeeds the visitor sees a short toast.  The
//   submission handler fires the event from a timer goroutine, long after
//   the submitting request has returned, so toasts are parked per session in
//   a Box and drained by the next page or fragment render.
//
// Workflow
//   •  Push appends a toast for a session (bounded, oldest dropped).
//   •  Drain hands back and forgets everything pending for a session.
//   •  Render emits the #toasts container.  Fragment responses set oob so
//      HTMX appends the toasts out of band.  data-auto-dismiss is read by
//      the client script, which removes each toast after AutoDismissMillis.
//
//------------------------------------------------------------------------------

package message

import (
	"context"
	"html"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/a-h/templ"
)

// Toast levels.
const (
	LevelSuccess = "success"
	LevelInfo    = "info"
	LevelError   = "error"
)

// AutoDismissMillis is how long a toast stays on screen.
const AutoDismissMillis = 3000

// maxPending caps toasts parked per session.
const maxPending = 5

// Toast is a one-time notification.
type Toast struct {
	Level string
	Text  string
}

// Box parks toasts per session until the next render.  Safe for concurrent
// use.
type Box struct {
	mu      sync.Mutex
	pending map[string][]Toast
}

// NewBox returns an empty Box.
func NewBox() *Box {
	return &Box{pending: make(map[string][]Toast)}
}

// Push queues t for session.
func (b *Box) Push(session string, t Toast) {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := append(b.pending[session], t)
	if len(q) > maxPending {
		q = q[len(q)-maxPending:]
	}
	b.pending[session] = q
}

// Drain returns and clears the toasts pending for session.
func (b *Box) Drain(session string) []Toast {
	b.mu.Lock()
	defer b.mu.Unlock()

	q := b.pending[session]
	delete(b.pending, session)
	return q
}

// Forget drops anything pending for session.  Called when the session's
// form is evicted.
func (b *Box) Forget(session string) {
	b.mu.Lock()
	delete(b.pending, session)
	b.mu.Unlock()
}

// Render returns the toast container holding toasts.  With oob set the
// container carries hx-swap-oob="beforeend" and renders nothing when there
// is nothing to show.
func Render(toasts []Toast, oob bool) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		if oob && len(toasts) == 0 {
			return nil
		}

		var sb strings.Builder
		if oob {
			sb.WriteString(`<div id="toasts" hx-swap-oob="beforeend">`)
		} else {
			sb.WriteString(`<div id="toasts" class="toast-container" aria-live="polite">`)
		}
		for _, t := range toasts {
			sb.WriteString(`<div class="toast toast-`)
			sb.WriteString(html.EscapeString(t.Level))
			sb.WriteString(`" data-auto-dismiss="`)
			sb.WriteString(strconv.Itoa(AutoDismissMillis))
			sb.WriteString(`">`)
			sb.WriteString(html.EscapeString(t.Text))
			sb.WriteString(`</div>`)
		}
		sb.WriteString(`</div>`)

		_, err := io.WriteString(w, sb.String())
		return err
	})
}
