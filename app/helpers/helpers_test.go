package helpers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBearerToken(t *testing.T) {
	r := httptest.NewRequest(http.MethodGet, "/", nil)
	assert.Empty(t, BearerToken(r))

	r.Header.Set("Authorization", "Bearer abc.def")
	assert.Equal(t, "abc.def", BearerToken(r))

	r.Header.Set("Authorization", "bearer  xyz ")
	assert.Equal(t, "xyz", BearerToken(r))

	r.Header.Set("Authorization", "Basic Zm9v")
	assert.Empty(t, BearerToken(r))
}

func TestDecodeJSONBody(t *testing.T) {
	var dst struct {
		Qty int `json:"qty"`
	}

	r := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"qty": 3}`))
	require.NoError(t, DecodeJSONBody(httptest.NewRecorder(), r, &dst))
	assert.Equal(t, 3, dst.Qty)

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"qty": 3, "extra": true}`))
	assert.Error(t, DecodeJSONBody(httptest.NewRecorder(), r, &dst))

	r = httptest.NewRequest(http.MethodPost, "/", strings.NewReader(""))
	assert.EqualError(t, DecodeJSONBody(httptest.NewRecorder(), r, &dst), "request body is empty")
}

func TestFormatValidationErrors(t *testing.T) {
	type payload struct {
		Mobile string `validate:"required"`
		Qty    int    `validate:"min=1"`
	}
	err := validator.New().Struct(payload{})
	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)

	msgs := FormatValidationErrors(verrs)
	assert.Equal(t, "Mobile is required.", msgs["mobile"])
	assert.Equal(t, "Qty must be at least 1.", msgs["qty"])
}
