package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	FirstName    string `json:"firstName" validate:"required"`
	EmailAddress string `json:"emailAddress" validate:"required,email"`
}

func TestStructValid(t *testing.T) {
	v := New()
	assert.NoError(t, v.Struct(signup{FirstName: "Joe", EmailAddress: "joe@smith.com"}))
}

func TestStructReportsJSONFieldNames(t *testing.T) {
	v := New()

	err := v.Struct(signup{EmailAddress: "not-an-email"})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	require.Len(t, verr.Fields, 2)
	assert.Equal(t, FieldError{Field: "firstName", Message: "Please include first name"}, verr.Fields[0])
	assert.Equal(t, FieldError{Field: "emailAddress", Message: "Please provide a valid email address"}, verr.Fields[1])
	assert.Equal(t, []string{"Please include first name", "Please provide a valid email address"}, verr.Messages())
}

func TestStructMissingEmail(t *testing.T) {
	v := New()

	err := v.Struct(signup{FirstName: "Joe"})

	var verr *Error
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, []string{"Please include email address"}, verr.Messages())
}

func TestHumanize(t *testing.T) {
	assert.Equal(t, "materials needed", humanize("materialsNeeded"))
	assert.Equal(t, "title", humanize("title"))
}
