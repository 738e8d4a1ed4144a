// internal/contact/validate.go
//
// Folio – Contact subsystem: field validation.
//
// Context
//   Validate is the single source of truth for what the form accepts.  The
//   presentation layer calls it on blur, and the submission handler calls it
//   for every field on submit.  It is pure: no form state is touched here.
//
// Workflow
//   •  The raw value is trimmed of surrounding whitespace.
//   •  The trimmed value is checked against the field's validator rule
//      (`required`, `max`, and `email` for the address).  Rules stop at the
//      first failing tag, so each field yields at most one message.
//   •  go-playground FieldErrors are translated into short sentences that the
//      template renders next to the input.
//
// Notes
//   Lengths are counted in characters (runes), matching how validator's `max`
//   treats strings.
//
//------------------------------------------------------------------------------

package contact

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Length limits per field, in characters.
const (
	MaxNameLength    = 100
	MaxEmailLength   = 255
	MaxMessageLength = 1000
)

// -----------------------------------------------------------------------------
// Error type
// -----------------------------------------------------------------------------

// ValidationError is the only error kind the contact form produces.  It is
// always recoverable and always rendered inline next to Field.
type ValidationError struct {
	Field   Field
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// IsValidationError reports whether err (or anything it wraps) is a
// *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// -----------------------------------------------------------------------------
// Rules
// -----------------------------------------------------------------------------

var (
	validate = validator.New()

	rules = map[Field]string{
		FieldName:    fmt.Sprintf("required,max=%d", MaxNameLength),
		FieldEmail:   fmt.Sprintf("required,max=%d,email", MaxEmailLength),
		FieldMessage: fmt.Sprintf("required,max=%d", MaxMessageLength),
	}
)

// MaxLength returns the character limit for f, or 0 for unknown fields.
func MaxLength(f Field) int {
	switch f {
	case FieldName:
		return MaxNameLength
	case FieldEmail:
		return MaxEmailLength
	case FieldMessage:
		return MaxMessageLength
	default:
		return 0
	}
}

// -----------------------------------------------------------------------------
// Public API
// -----------------------------------------------------------------------------

// Validate checks one field value.  It returns the accepted (trimmed) value,
// or a *ValidationError describing the first violated constraint.
func Validate(f Field, value string) (string, error) {
	tag, ok := rules[f]
	if !ok {
		return "", &ValidationError{Field: f, Message: "Unknown field."}
	}

	val := strings.TrimSpace(value)
	if err := validate.Var(val, tag); err != nil {
		return "", &ValidationError{Field: f, Message: describe(f, err)}
	}
	return val, nil
}

// ValidateMessage validates every field of m.  It returns the accepted
// message and an ErrorMap holding exactly the invalid fields.  The map is
// empty (never nil) when m is acceptable.
func ValidateMessage(m Message) (Message, ErrorMap) {
	var accepted Message
	errs := make(ErrorMap)

	for _, f := range Fields {
		val, err := Validate(f, m.Value(f))
		if err != nil {
			var ve *ValidationError
			if errors.As(err, &ve) {
				errs[f] = ve.Message
			}
			continue
		}
		accepted.set(f, val)
	}
	return accepted, errs
}

// -----------------------------------------------------------------------------
// Message helpers
// -----------------------------------------------------------------------------

// describe turns a validator failure into a user-facing sentence.
func describe(f Field, err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return "Invalid input."
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "required":
		return f.Label() + " is required."
	case "max":
		return fmt.Sprintf("%s must be at most %s characters.", f.Label(), fe.Param())
	case "email":
		return "Enter a valid email address."
	default:
		return "Invalid input."
	}
}
