// internal/contact/mailto.go
//
// Folio – Contact subsystem: mailto fallback.
//
// Context
//   Visitors without JavaScript, or who prefer their own mail client, can
//   hand the message to a mailto: link instead of the simulated submission.
//   The link carries a subject naming the sender and a body holding the
//   message followed by the sender's address.
//
// Notes
//   RFC 6068 wants spaces as %20, not "+", so QueryEscape output is patched.
//
//------------------------------------------------------------------------------

package contact

import (
	"net/url"
	"strings"
)

// SubjectPrefix starts every subject line produced by MailtoLink.
const SubjectPrefix = "Portfolio contact - "

// MailtoLink builds a mailto: URI addressed to recipient for m.  Callers pass
// an accepted message (see ValidateMessage).
func MailtoLink(recipient string, m Message) string {
	q := "subject=" + escape(SubjectPrefix+m.Name) +
		"&body=" + escape(m.Message+"\n\nFrom: "+m.Email)

	u := url.URL{Scheme: "mailto", Opaque: recipient, RawQuery: q}
	return u.String()
}

func escape(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
