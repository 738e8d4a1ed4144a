// internal/web/server.go
//
// Folio – HTTP presentation layer.
//
// Context
//   Server renders the single-page portfolio with html/template and exposes
//   the contact form as small HTMX endpoints.  Form state lives on the
//   server (contact.Store, one Form per session cookie), so every endpoint
//   re-renders from a Snapshot rather than trusting client state.
//
// Routes
//   GET  /                             full page
//   GET  /projects/{slug}              project tile fragment
//   GET  /contact                      contact section (polled while busy)
//   POST /contact/fields/{field}       store a value, clear its error
//   POST /contact/fields/{field}/blur  store a value and validate it
//   POST /contact                      submit
//   GET  /contact/mailto               validate, then redirect to mailto:
//   GET  /healthz                      liveness
//   GET  /metrics                      Prometheus
//   GET  /static/*                     embedded assets
//
//   Only GET / issues the session cookie.  Form endpoints refuse requests
//   without a signed one, so a Form exists only for visitors who loaded the
//   page.
//
//------------------------------------------------------------------------------

package web

import (
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/contact"
	"github.com/yanizio/folio/internal/csrf"
	"github.com/yanizio/folio/internal/message"
	"github.com/yanizio/folio/internal/middleware"
	"github.com/yanizio/folio/internal/portfolio"
	"github.com/yanizio/folio/internal/requestinfo"
	"github.com/yanizio/folio/internal/session"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// HTMXScript is loaded by the page shell.
const HTMXScript = middleware.HTMXSource + "/htmx.org@2.0.4/dist/htmx.min.js"

// PollInterval is how often a busy contact section refreshes itself.
const PollInterval = 500 * time.Millisecond

// Options wires a Server.  Content, Forms, Submit, Tokens, and Sessions are
// required.
type Options struct {
	Content  *portfolio.Content
	Forms    *contact.Store
	Submit   *contact.Handler
	Tokens   *csrf.Tokens
	Sessions *session.Manager
	Toasts   *message.Box // nil disables toasts

	// Owner receives mailto links when the content names no email.
	Owner string

	ForceHTTPS bool
	Logger     *zap.SugaredLogger
}

// Server serves the portfolio.
type Server struct {
	opts Options
	tmpl *template.Template
	log  *zap.SugaredLogger
	now  func() time.Time
}

// New parses the embedded templates and returns a Server.
func New(opts Options) (*Server, error) {
	if opts.Content == nil || opts.Forms == nil || opts.Submit == nil || opts.Tokens == nil || opts.Sessions == nil {
		return nil, fmt.Errorf("web: Content, Forms, Submit, Tokens, and Sessions are required")
	}
	if opts.Logger == nil {
		opts.Logger = zap.S()
	}
	opts.Owner = opts.Content.OwnerEmail(opts.Owner)

	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("web: parse templates: %w", err)
	}
	return &Server{opts: opts, tmpl: tmpl, log: opts.Logger, now: time.Now}, nil
}

// ToastNotifier returns the contact.Notifier that parks a success toast in
// box for the submitting session.
func ToastNotifier(box *message.Box) contact.Notifier {
	return contact.NotifierFunc(func(formID string, msg contact.Message) {
		box.Push(formID, message.Toast{
			Level: message.LevelSuccess,
			Text:  successText(msg),
		})
	})
}

// Routes builds the chi router.
func (s *Server) Routes() chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.Recoverer)
	r.Use(requestinfo.Enrich)
	r.Use(middleware.AccessLog(s.log))
	r.Use(middleware.Security)
	if s.opts.ForceHTTPS {
		r.Use(middleware.ForceHTTPS)
	}

	r.Get("/", s.handlePage)
	r.Get("/projects/{slug}", s.handleProject)

	r.Route("/contact", func(r chi.Router) {
		r.Get("/", s.handleContact)
		r.Get("/mailto", s.handleMailto)

		r.Group(func(r chi.Router) {
			r.Use(s.requireToken)
			r.Post("/", s.handleSubmit)
			r.Post("/fields/{field}", s.handleField(false))
			r.Post("/fields/{field}/blur", s.handleField(true))
		})
	})

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte("ok"))
	})
	r.Handle("/metrics", promhttp.Handler())

	static, _ := fs.Sub(staticFS, "static")
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(static))))

	return r
}

// requireToken rejects mutations that carry neither a valid csrf_token nor
// the HX-Request header.  Browsers will not attach that header cross-origin
// without a CORS preflight we never grant.
func (s *Server) requireToken(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isHTMX(r) || s.opts.Tokens.Verify(r.PostFormValue("csrf_token")) {
			next.ServeHTTP(w, r)
			return
		}
		s.log.Warnw("csrf check failed", "path", r.URL.Path)
		http.Error(w, "invalid or expired form token", http.StatusForbidden)
	})
}

func successText(msg contact.Message) string {
	return "Thanks, " + msg.Name + ". Your message has been sent."
}
