package contact

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	cases := []struct {
		name    string
		field   Field
		value   string
		want    string
		wantErr string
	}{
		{"name empty", FieldName, "", "", "Name is required."},
		{"name blank", FieldName, "   \t", "", "Name is required."},
		{"name too long", FieldName, strings.Repeat("a", 101), "", "Name must be at most 100 characters."},
		{"name at limit", FieldName, strings.Repeat("a", 100), strings.Repeat("a", 100), ""},
		{"name ok", FieldName, "Ana", "Ana", ""},
		{"name trimmed", FieldName, "  Ana  ", "Ana", ""},
		{"name counts runes", FieldName, strings.Repeat("ñ", 100), strings.Repeat("ñ", 100), ""},
		{"email empty", FieldEmail, "", "", "Email is required."},
		{"email ok", FieldEmail, "a@b.com", "a@b.com", ""},
		{"email trimmed", FieldEmail, " a@b.com ", "a@b.com", ""},
		{"email syntax", FieldEmail, "not-an-email", "", "Enter a valid email address."},
		{"email too long", FieldEmail, strings.Repeat("a", 250) + "@b.com", "", "Email must be at most 255 characters."},
		{"message empty", FieldMessage, "  ", "", "Message is required."},
		{"message too long", FieldMessage, strings.Repeat("x", 1001), "", "Message must be at most 1000 characters."},
		{"message ok", FieldMessage, "Let's work together.", "Let's work together.", ""},
		{"unknown field", Field("phone"), "123", "", "Unknown field."},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := Validate(tc.field, tc.value)
			if tc.wantErr == "" {
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
				return
			}

			require.Error(t, err)
			var ve *ValidationError
			require.True(t, errors.As(err, &ve))
			assert.Equal(t, tc.field, ve.Field)
			assert.Equal(t, tc.wantErr, ve.Message)
			assert.Empty(t, got)
		})
	}
}

func TestValidateMessage_ExactlyInvalidFields(t *testing.T) {
	accepted, errs := ValidateMessage(Message{Name: " Ana ", Email: "nope", Message: ""})

	assert.Len(t, errs, 2)
	assert.Contains(t, errs, FieldEmail)
	assert.Contains(t, errs, FieldMessage)
	assert.NotContains(t, errs, FieldName)
	assert.Equal(t, "Ana", accepted.Name)
}

func TestValidateMessage_AllValid(t *testing.T) {
	accepted, errs := ValidateMessage(Message{Name: "Ana", Email: "a@b.com", Message: " hi "})

	assert.NotNil(t, errs)
	assert.Empty(t, errs)
	assert.Equal(t, Message{Name: "Ana", Email: "a@b.com", Message: "hi"}, accepted)
}

func TestIsValidationError(t *testing.T) {
	_, err := Validate(FieldName, "")
	assert.True(t, IsValidationError(err))
	assert.True(t, IsValidationError(fmt.Errorf("wrapped: %w", err)))
	assert.False(t, IsValidationError(errors.New("boom")))
}

func TestParseField(t *testing.T) {
	for _, f := range Fields {
		got, ok := ParseField(string(f))
		assert.True(t, ok)
		assert.Equal(t, f, got)
	}
	_, ok := ParseField("subject")
	assert.False(t, ok)
}
