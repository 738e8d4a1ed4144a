package web

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/yanizio/folio/internal/contact"
	"github.com/yanizio/folio/internal/csrf"
	"github.com/yanizio/folio/internal/message"
	"github.com/yanizio/folio/internal/portfolio"
	"github.com/yanizio/folio/internal/session"
)

type harness struct {
	t      *testing.T
	srv    *Server
	h      http.Handler
	forms  *contact.Store
	tokens *csrf.Tokens
	cookie *http.Cookie
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	tokens, err := csrf.New(bytes.Repeat([]byte{1}, csrf.MinKeyBytes))
	require.NoError(t, err)
	sessions, err := session.NewManager(bytes.Repeat([]byte{2}, session.MinKeyBytes))
	require.NoError(t, err)

	box := message.NewBox()
	forms := contact.NewStore(16, box.Forget)
	t.Cleanup(forms.Close)

	submit := contact.NewHandler(contact.Options{
		SubmitDelay: 20 * time.Millisecond,
		ResetDelay:  time.Hour, // stays Succeeded for the test
		Notifier:    ToastNotifier(box),
	})

	srv, err := New(Options{
		Content:  portfolio.Default(),
		Forms:    forms,
		Submit:   submit,
		Tokens:   tokens,
		Sessions: sessions,
		Toasts:   box,
		Owner:    "owner@example.com",
		Logger:   zap.NewNop().Sugar(),
	})
	require.NoError(t, err)

	hs := &harness{t: t, srv: srv, h: srv.Routes(), forms: forms, tokens: tokens}
	// Visitors get their session from the page, as a browser would.
	require.Equal(t, http.StatusOK, hs.get("/").Code)
	require.NotNil(t, hs.cookie)
	return hs
}

// do sends r with the harness session cookie, capturing a newly issued one.
func (hs *harness) do(r *http.Request) *httptest.ResponseRecorder {
	hs.t.Helper()
	if hs.cookie != nil {
		r.AddCookie(hs.cookie)
	}
	rr := httptest.NewRecorder()
	hs.h.ServeHTTP(rr, r)
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.CookieName {
			hs.cookie = c
		}
	}
	return rr
}

func (hs *harness) get(path string, hdr ...string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodGet, path, nil)
	for i := 0; i+1 < len(hdr); i += 2 {
		r.Header.Set(hdr[i], hdr[i+1])
	}
	return hs.do(r)
}

func (hs *harness) post(path string, form url.Values, hdr ...string) *httptest.ResponseRecorder {
	r := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for i := 0; i+1 < len(hdr); i += 2 {
		r.Header.Set(hdr[i], hdr[i+1])
	}
	return hs.do(r)
}

func (hs *harness) form() *contact.Form {
	hs.t.Helper()
	require.NotNil(hs.t, hs.cookie, "no session yet")
	f, ok := hs.forms.Lookup(hs.cookie.Value)
	require.True(hs.t, ok, "no form for session")
	return f
}

var htmx = []string{"HX-Request", "true"}

func TestPage(t *testing.T) {
	hs := newHarness(t)
	rr := hs.get("/")

	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, "Brand Identity")
	assert.Contains(t, body, `id="project-motion-graphics"`)
	assert.Contains(t, body, `name="csrf_token"`)
	assert.Contains(t, body, `data-status="idle"`)
	assert.Contains(t, body, `class="toast-container"`)
	assert.NotContains(t, body, "every 500ms", "idle form must not poll")
	assert.NotNil(t, hs.cookie, "session cookie issued")
	assert.Equal(t, "DENY", rr.Header().Get("X-Frame-Options"))

	assert.Equal(t, 0, hs.forms.Len(), "viewing the page does not allocate a form")
}

func TestProjectFragment(t *testing.T) {
	hs := newHarness(t)

	rr := hs.get("/projects/mobile-app")
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `id="project-mobile-app"`)
	assert.NotContains(t, rr.Body.String(), "<html")

	assert.Equal(t, http.StatusNotFound, hs.get("/projects/nope").Code)
}

func TestField_EditAndBlur(t *testing.T) {
	hs := newHarness(t)

	rr := hs.post("/contact/fields/name/blur", url.Values{"name": {""}}, htmx...)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `id="error-name"`)
	assert.Contains(t, rr.Body.String(), "Name is required.")
	assert.Equal(t, "Name is required.", hs.form().Snapshot().Errors[contact.FieldName])

	// Editing removes the error immediately, whatever the value.
	rr = hs.post("/contact/fields/name", url.Values{"name": {"A"}}, htmx...)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.NotContains(t, rr.Body.String(), "required")
	assert.NotContains(t, hs.form().Snapshot().Errors, contact.FieldName)
	assert.Equal(t, "A", hs.form().Snapshot().Values.Name)
}

func TestField_Unknown(t *testing.T) {
	hs := newHarness(t)
	rr := hs.post("/contact/fields/phone", url.Values{"phone": {"1"}}, htmx...)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestField_JSON(t *testing.T) {
	hs := newHarness(t)
	rr := hs.post("/contact/fields/email/blur", url.Values{"email": {"nope"}},
		"HX-Request", "true", "Accept", "application/json")
	require.Equal(t, http.StatusOK, rr.Code)

	var snap struct {
		Values map[string]string `json:"values"`
		Errors map[string]string `json:"errors"`
		Status string            `json:"status"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &snap))
	assert.Equal(t, "nope", snap.Values["email"])
	assert.Equal(t, "Enter a valid email address.", snap.Errors["email"])
	assert.Equal(t, "idle", snap.Status)
}

func TestSubmit_RequiresToken(t *testing.T) {
	hs := newHarness(t)

	rr := hs.post("/contact", url.Values{"name": {"Ana"}})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	tok, err := hs.tokens.Generate()
	require.NoError(t, err)
	rr = hs.post("/contact", url.Values{
		"csrf_token": {tok},
		"name":       {"Ana"},
		"email":      {"ana@example.com"},
		"message":    {"Hello"},
	})
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/#contact", rr.Header().Get("Location"))
	assert.NotEqual(t, contact.Idle, hs.form().Status(), "submission started")
}

func TestSubmit_InvalidShowsErrors(t *testing.T) {
	hs := newHarness(t)

	rr := hs.post("/contact", url.Values{"name": {"Ana"}, "email": {"bad"}}, htmx...)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `data-status="idle"`)
	assert.Contains(t, body, "Enter a valid email address.")
	assert.Contains(t, body, "Message is required.")
	assert.NotContains(t, body, "Name is required.")

	errs := hs.form().Snapshot().Errors
	assert.Len(t, errs, 2)
}

func TestSubmit_JSONCodes(t *testing.T) {
	hs := newHarness(t)
	jsonHdr := []string{"HX-Request", "true", "Accept", "application/json"}

	rr := hs.post("/contact", url.Values{}, jsonHdr...)
	assert.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	valid := url.Values{"name": {"Ana"}, "email": {"ana@example.com"}, "message": {"Hi"}}
	rr = hs.post("/contact", valid, jsonHdr...)
	assert.Equal(t, http.StatusAccepted, rr.Code)
	assert.Contains(t, rr.Body.String(), `"status":"submitting"`)

	rr = hs.post("/contact", valid, jsonHdr...)
	assert.Equal(t, http.StatusConflict, rr.Code, "second submit while busy")
}

func TestSubmit_FullCycleWithToast(t *testing.T) {
	hs := newHarness(t)

	rr := hs.post("/contact", url.Values{
		"name": {"Ana"}, "email": {"ana@example.com"}, "message": {"Hello"},
	}, htmx...)
	require.Equal(t, http.StatusOK, rr.Code)
	body := rr.Body.String()
	assert.Contains(t, body, `data-status="submitting"`)
	assert.Contains(t, body, `hx-trigger="every 500ms"`)
	assert.Contains(t, body, "disabled")

	// Inputs are locked while busy.
	rr = hs.post("/contact/fields/name", url.Values{"name": {"Bob"}},
		"HX-Request", "true", "Accept", "application/json")
	assert.Equal(t, http.StatusConflict, rr.Code)

	// The toast is parked right after the Succeeded transition; keep polling
	// the way the page does until it shows up.
	require.Eventually(t, func() bool {
		body = hs.get("/contact", htmx...).Body.String()
		return strings.Contains(body, "Thanks, Ana. Your message has been sent.")
	}, 2*time.Second, 5*time.Millisecond)
	assert.Contains(t, body, `data-status="succeeded"`)
	assert.Contains(t, body, `hx-swap-oob="beforeend"`)
	assert.Equal(t, contact.Succeeded, hs.form().Status())

	// Toasts are one-shot.
	assert.NotContains(t, hs.get("/contact", htmx...).Body.String(), "Thanks, Ana")
}

func TestMailto(t *testing.T) {
	hs := newHarness(t)

	rr := hs.get("/contact/mailto")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/#contact", rr.Header().Get("Location"))
	assert.Len(t, hs.form().Snapshot().Errors, 3)

	hs.post("/contact/fields/name", url.Values{"name": {"Ana"}}, htmx...)
	hs.post("/contact/fields/email", url.Values{"email": {"ana@example.com"}}, htmx...)
	hs.post("/contact/fields/message", url.Values{"message": {"Hi there"}}, htmx...)

	rr = hs.get("/contact/mailto")
	require.Equal(t, http.StatusSeeOther, rr.Code)
	loc := rr.Header().Get("Location")
	// The default content names an email, which wins over the configured owner.
	assert.True(t, strings.HasPrefix(loc, "mailto:hello@example.com?subject=Portfolio%20contact%20-%20Ana"), loc)

	rr = hs.get("/contact/mailto", htmx...)
	assert.Equal(t, loc, rr.Header().Get("HX-Redirect"))
}

func TestMailto_WithheldWhileLocked(t *testing.T) {
	hs := newHarness(t)

	rr := hs.post("/contact", url.Values{
		"name": {"Ana"}, "email": {"ana@example.com"}, "message": {"Hello"},
	}, htmx...)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "mailto-disabled")
	assert.NotContains(t, rr.Body.String(), `href="/contact/mailto"`)
	require.True(t, hs.form().Snapshot().Locked())

	// Submitting, then Succeeded (the harness never resets): both keep the
	// link closed.
	rr = hs.get("/contact/mailto")
	assert.Equal(t, http.StatusSeeOther, rr.Code)
	assert.Equal(t, "/#contact", rr.Header().Get("Location"))

	rr = hs.get("/contact/mailto", htmx...)
	assert.Empty(t, rr.Header().Get("HX-Redirect"))
	assert.Contains(t, rr.Body.String(), "mailto-disabled")

	rr = hs.get("/contact/mailto", "Accept", "application/json")
	assert.Equal(t, http.StatusConflict, rr.Code)
	assert.NotContains(t, rr.Body.String(), "mailto:")

	assert.Empty(t, hs.form().Snapshot().Errors)
}

func TestFormEndpoints_RequireSession(t *testing.T) {
	hs := newHarness(t)
	before := hs.forms.Len()

	hs.cookie = nil
	rr := hs.post("/contact/fields/name", url.Values{"name": {"Ana"}}, htmx...)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Nil(t, hs.cookie, "form endpoints never issue sessions")

	hs.cookie = &http.Cookie{Name: session.CookieName, Value: "AAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAAA"}
	rr = hs.post("/contact", url.Values{"name": {"Ana"}}, htmx...)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = hs.get("/contact/mailto")
	assert.Equal(t, http.StatusForbidden, rr.Code)

	hs.cookie = nil
	rr = hs.get("/contact", htmx...)
	assert.Equal(t, http.StatusOK, rr.Code, "polling without a session renders an empty form")

	assert.Equal(t, before, hs.forms.Len())
}

func TestHealthAndStatic(t *testing.T) {
	hs := newHarness(t)

	rr := hs.get("/healthz")
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "ok", rr.Body.String())

	assert.Equal(t, http.StatusOK, hs.get("/static/app.js").Code)
	assert.Equal(t, http.StatusOK, hs.get("/metrics").Code)
}

func TestNew_RequiresDeps(t *testing.T) {
	_, err := New(Options{})
	assert.Error(t, err)
}
