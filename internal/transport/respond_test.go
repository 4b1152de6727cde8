package transport

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"tokoria-be/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatusFor(t *testing.T) {
	cases := []struct {
		code apperr.Code
		want int
	}{
		{apperr.CodeOrderNotFound, http.StatusNotFound},
		{apperr.CodeCartNotFound, http.StatusNotFound},
		{apperr.CodeInsufficientStock, http.StatusConflict},
		{apperr.CodeInvalidStatusTransition, http.StatusConflict},
		{apperr.CodeOrderNotCancellable, http.StatusConflict},
		{apperr.CodeInvalidInput, http.StatusUnprocessableEntity},
		{apperr.CodeInvalidCredentials, http.StatusUnauthorized},
		{apperr.CodeAccessDenied, http.StatusForbidden},
		{apperr.CodePaymentCreationFailed, http.StatusBadGateway},
		{apperr.CodePaymentCancellationFailed, http.StatusBadGateway},
		{apperr.CodeGatewayUnavailable, http.StatusGatewayTimeout},
		{apperr.Code("SOMETHING_ELSE"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		assert.Equalf(t, tc.want, statusFor(tc.code), "code %s", tc.code)
	}
}

func TestRespondError_TaggedError(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	err := apperr.New(apperr.CodeInsufficientStock, "insufficient stock").
		With("variant_id", "var-1")
	respondError(rec, req, err)

	assert.Equal(t, http.StatusConflict, rec.Code)

	var body errorBody
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, apperr.CodeInsufficientStock, body.Code)
	assert.Equal(t, "insufficient stock", body.Message)
	assert.Equal(t, "var-1", body.Meta["variant_id"])
}

func TestRespondError_PlainErrorHidden(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	respondError(rec, req, errors.New("pq: connection refused"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "pq:")
}

func TestRespondError_WrappedCauseKeepsCode(t *testing.T) {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)

	err := apperr.Wrap(apperr.CodePaymentCreationFailed, "failed to create payment session",
		errors.New("provider 500"))
	respondError(rec, req, err)

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	assert.NotContains(t, rec.Body.String(), "provider 500")
}
