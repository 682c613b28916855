package domainerrors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWrapAndCode(t *testing.T) {
	base := errors.New("disk on fire")
	err := Wrap(base, CodeInternal, "failed to save lead")

	assert.True(t, HasCode(err, CodeInternal))
	assert.ErrorIs(t, err, base)
	assert.Equal(t, "failed to save lead: disk on fire", err.Error())
	assert.Nil(t, Wrap(nil, CodeInternal, "ignored"))
}

func TestCodeOfThroughFmtWrap(t *testing.T) {
	err := fmt.Errorf("submit: %w", New(CodeConflict, "form number taken"))
	assert.Equal(t, CodeConflict, CodeOf(err))
	assert.Equal(t, CodeInternal, CodeOf(errors.New("plain")))
}

func TestValidationFields(t *testing.T) {
	err := NewValidation("missing required fields", "email", "pincode")
	de, ok := As(err)
	require.True(t, ok)
	assert.Equal(t, CodeValidation, de.Code)
	assert.Equal(t, []string{"email", "pincode"}, de.Fields)
}

func TestHTTPStatus(t *testing.T) {
	cases := map[Code]int{
		CodeValidation:         http.StatusBadRequest,
		CodeBadRequest:         http.StatusBadRequest,
		CodeUnauthorized:       http.StatusUnauthorized,
		CodeForbidden:          http.StatusForbidden,
		CodeNotFound:           http.StatusNotFound,
		CodeConflict:           http.StatusConflict,
		CodeInvariantViolation: http.StatusUnprocessableEntity,
		CodeTimeout:            http.StatusGatewayTimeout,
		CodeUnavailable:        http.StatusServiceUnavailable,
		CodeInternal:           http.StatusInternalServerError,
		Code("unknown"):        http.StatusInternalServerError,
	}
	for code, want := range cases {
		assert.Equal(t, want, HTTPStatus(code), string(code))
	}
}
