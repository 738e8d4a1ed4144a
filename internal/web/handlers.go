package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/yanizio/folio/internal/contact"
	"github.com/yanizio/folio/internal/message"
)

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	sid := s.opts.Sessions.Issue(w, r)

	data := pageData{
		Content: s.opts.Content,
		Contact: s.contactData(s.snapshot(sid)),
		Toasts:  s.toastsHTML(r, sid, false),
		HTMXSrc: HTMXScript,
		Year:    s.now().Year(),
	}
	s.render(w, r, "page", data)
}

func (s *Server) handleProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.opts.Content.ProjectBySlug(chi.URLParam(r, "slug"))
	if !ok {
		http.NotFound(w, r)
		return
	}
	s.render(w, r, "project", p)
}

// handleContact re-renders the contact section.  While a submission is in
// flight the section polls this endpoint, which is also where a pending
// success toast gets picked up.
func (s *Server) handleContact(w http.ResponseWriter, r *http.Request) {
	sid, _ := s.opts.Sessions.Current(r)
	snap := s.snapshot(sid)

	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, snap)
		return
	}
	s.renderContact(w, r, sid, snap)
}

// handleField stores one value.  With blur set it also validates it, which
// is the only way a single field gains an error before submit.
func (s *Server) handleField(blur bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		field, ok := contact.ParseField(chi.URLParam(r, "field"))
		if !ok {
			http.NotFound(w, r)
			return
		}

		if err := r.ParseForm(); err != nil {
			http.Error(w, "bad form", http.StatusBadRequest)
			return
		}
		sid, ok := s.session(w, r)
		if !ok {
			return
		}
		form := s.opts.Forms.Get(sid)

		stored := true
		if vals, present := r.PostForm[string(field)]; present && len(vals) > 0 {
			stored = form.SetField(field, vals[0])
		}
		if blur && stored {
			form.Blur(field)
		}

		snap := form.Snapshot()
		if wantsJSON(r) {
			code := http.StatusOK
			if !stored {
				code = http.StatusConflict
			}
			writeJSON(w, code, snap)
			return
		}
		s.render(w, r, "field-error", s.fieldData(field, snap))
	}
}

// handleSubmit copies any posted values into the form and runs Submit.
func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "bad form", http.StatusBadRequest)
		return
	}
	sid, ok := s.session(w, r)
	if !ok {
		return
	}
	form := s.opts.Forms.Get(sid)

	for _, f := range contact.Fields {
		if vals, ok := r.PostForm[string(f)]; ok && len(vals) > 0 {
			form.SetField(f, vals[0])
		}
	}

	errs, started := s.opts.Submit.Submit(form)
	snap := form.Snapshot()

	switch {
	case wantsJSON(r):
		code := http.StatusAccepted
		switch {
		case errs == nil:
			code = http.StatusConflict // already busy
		case !started:
			code = http.StatusUnprocessableEntity
		}
		writeJSON(w, code, snap)
	case isHTMX(r):
		s.renderContact(w, r, sid, snap)
	default:
		http.Redirect(w, r, "/#contact", http.StatusSeeOther)
	}
}

// handleMailto validates the current values and, when they pass, hands the
// visitor a mailto: link for their own mail client.  Failing fields get
// their errors exactly as a submit would set them.  While a submission is
// in flight the link is withheld like the submit control.
func (s *Server) handleMailto(w http.ResponseWriter, r *http.Request) {
	sid, ok := s.session(w, r)
	if !ok {
		return
	}
	form := s.opts.Forms.Get(sid)

	accepted, errs, open := form.Validate()
	if !open || len(errs) > 0 {
		snap := form.Snapshot()
		code := http.StatusUnprocessableEntity
		if !open {
			code = http.StatusConflict
		}
		switch {
		case wantsJSON(r):
			writeJSON(w, code, snap)
		case isHTMX(r):
			s.renderContact(w, r, sid, snap)
		default:
			http.Redirect(w, r, "/#contact", http.StatusSeeOther)
		}
		return
	}

	link := contact.MailtoLink(s.opts.Owner, accepted)
	if wantsJSON(r) {
		writeJSON(w, http.StatusOK, map[string]string{"mailto": link})
		return
	}
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", link)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, link, http.StatusSeeOther)
}

// session returns the caller's signed session id, answering 403 when there
// is none.  Only the page hands out sessions, so a form endpoint hit
// without one never allocates a Form.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (string, bool) {
	sid, ok := s.opts.Sessions.Current(r)
	if !ok {
		s.log.Debugw("form request without session", "path", r.URL.Path)
		http.Error(w, "session expired, reload the page", http.StatusForbidden)
	}
	return sid, ok
}

// snapshot reads a session's form without creating one.
func (s *Server) snapshot(sid string) contact.Snapshot {
	if f, ok := s.opts.Forms.Lookup(sid); ok {
		return f.Snapshot()
	}
	return contact.Snapshot{Errors: contact.ErrorMap{}, Status: contact.Idle}
}

func (s *Server) drain(sid string) []message.Toast {
	if s.opts.Toasts == nil {
		return nil
	}
	return s.opts.Toasts.Drain(sid)
}
