package web

import (
	"bytes"
	"encoding/json"
	"html/template"
	"net/http"
	"strings"

	"github.com/a-h/templ"

	"github.com/yanizio/folio/internal/contact"
	"github.com/yanizio/folio/internal/message"
	"github.com/yanizio/folio/internal/portfolio"
)

type pageData struct {
	Content *portfolio.Content
	Contact contactData
	Toasts  template.HTML
	HTMXSrc string
	Year    int
}

type contactData struct {
	Status     string
	Locked     bool
	Polling    bool
	PollMillis int64
	CSRF       string
	Fields     []fieldData
}

type fieldData struct {
	Name        contact.Field
	Label       string
	Type        string
	Placeholder string
	Value       string
	Error       string
	Max         int
	Multiline   bool
	Locked      bool
}

var placeholders = map[contact.Field]string{
	contact.FieldName:    "Your name",
	contact.FieldEmail:   "you@example.com",
	contact.FieldMessage: "Tell me about your project…",
}

func (s *Server) contactData(snap contact.Snapshot) contactData {
	tok, err := s.opts.Tokens.Generate()
	if err != nil {
		s.log.Errorw("csrf token generation failed", "err", err)
	}

	cd := contactData{
		Status:     snap.Status.String(),
		Locked:     snap.Locked(),
		Polling:    snap.Locked(),
		PollMillis: PollInterval.Milliseconds(),
		CSRF:       tok,
	}
	for _, f := range contact.Fields {
		cd.Fields = append(cd.Fields, s.fieldData(f, snap))
	}
	return cd
}

func (s *Server) fieldData(f contact.Field, snap contact.Snapshot) fieldData {
	fd := fieldData{
		Name:        f,
		Label:       f.Label(),
		Type:        "text",
		Placeholder: placeholders[f],
		Value:       snap.Values.Value(f),
		Error:       snap.Errors[f],
		Max:         contact.MaxLength(f),
		Locked:      snap.Locked(),
	}
	switch f {
	case contact.FieldEmail:
		fd.Type = "email"
	case contact.FieldMessage:
		fd.Multiline = true
	}
	return fd
}

// renderContact writes the contact section followed by any pending toasts,
// out of band.
func (s *Server) renderContact(w http.ResponseWriter, r *http.Request, sid string, snap contact.Snapshot) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, "contact", s.contactData(snap)); err != nil {
		s.fail(w, "contact", err)
		return
	}
	buf.WriteString(string(s.toastsHTML(r, sid, true)))

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

// toastsHTML drains sid's toasts and renders them with the templ component.
func (s *Server) toastsHTML(r *http.Request, sid string, oob bool) template.HTML {
	toasts := s.drain(sid)
	html, err := templ.ToGoHTML(r.Context(), message.Render(toasts, oob))
	if err != nil {
		s.log.Errorw("toast render failed", "err", err)
		return ""
	}
	return html
}

// render executes a named template into a buffer first so a template error
// never leaves a half-written 200.
func (s *Server) render(w http.ResponseWriter, _ *http.Request, name string, data any) {
	var buf bytes.Buffer
	if err := s.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		s.fail(w, name, err)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) fail(w http.ResponseWriter, name string, err error) {
	s.log.Errorw("template render failed", "template", name, "err", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}
