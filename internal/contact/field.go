// internal/contact/field.go
//
// Folio – Contact subsystem: vocabulary.
//
// Context
//   The contact form has exactly three inputs.  This file names them, defines
//   the Message payload a visitor submits, the per-field ErrorMap rendered
//   next to each input, and the tri-state Status that drives the submit
//   control (spinner, checkmark, disabled inputs).
//
//------------------------------------------------------------------------------

package contact

// Field names one input on the contact form.  The string value doubles as the
// HTML name attribute and the JSON key.
type Field string

const (
	FieldName    Field = "name"
	FieldEmail   Field = "email"
	FieldMessage Field = "message"
)

// Fields lists every form field in display order.
var Fields = []Field{FieldName, FieldEmail, FieldMessage}

// ParseField maps a raw name (route param, form key) onto a Field.  The
// boolean is false for anything outside the three known inputs.
func ParseField(s string) (Field, bool) {
	switch Field(s) {
	case FieldName, FieldEmail, FieldMessage:
		return Field(s), true
	default:
		return "", false
	}
}

// Label returns the human-readable input label.
func (f Field) Label() string {
	switch f {
	case FieldName:
		return "Name"
	case FieldEmail:
		return "Email"
	case FieldMessage:
		return "Message"
	default:
		return string(f)
	}
}

// Message is the three-field payload a visitor submits.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// Value returns the current value of field f.
func (m Message) Value(f Field) string {
	switch f {
	case FieldName:
		return m.Name
	case FieldEmail:
		return m.Email
	case FieldMessage:
		return m.Message
	default:
		return ""
	}
}

// set assigns v to field f.  Unknown fields are ignored.
func (m *Message) set(f Field, v string) {
	switch f {
	case FieldName:
		m.Name = v
	case FieldEmail:
		m.Email = v
	case FieldMessage:
		m.Message = v
	}
}

// ErrorMap holds one user-facing message per invalid field.  A missing key
// means the field is valid or has not been checked yet.
type ErrorMap map[Field]string

// clone returns a copy that callers may keep after the form lock is released.
func (e ErrorMap) clone() ErrorMap {
	out := make(ErrorMap, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// Status is the submission state of one form.
type Status int

const (
	Idle       Status = iota // initial; inputs enabled
	Submitting               // simulated remote call in flight
	Succeeded                // call resolved; reset timer running
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	default:
		return "unknown"
	}
}

// MarshalText encodes the status as its lowercase name for JSON output.
func (s Status) MarshalText() ([]byte, error) { return []byte(s.String()), nil }
