package api

import (
	"net/http"
	"testing"
)

func TestDecodeFailure_StatusMapping(t *testing.T) {
	cases := []struct {
		status int
		kind   Kind
	}{
		{http.StatusBadRequest, KindAPI},
		{http.StatusUnauthorized, KindAuth},
		{http.StatusForbidden, KindAPI},
		{http.StatusNotFound, KindAPI},
		{http.StatusConflict, KindAPI},
		{http.StatusUnprocessableEntity, KindValidation},
		{http.StatusTooManyRequests, KindAPI},
		{http.StatusInternalServerError, KindAPI},
		{http.StatusBadGateway, KindAPI},
		{http.StatusServiceUnavailable, KindAPI},
	}

	for _, tc := range cases {
		err := decodeFailure(tc.status, nil)
		if err.Kind != tc.kind {
			t.Fatalf("status %d: expected kind %s, got %s", tc.status, tc.kind, err.Kind)
		}
		if err.Status != tc.status {
			t.Fatalf("status %d: status not carried, got %d", tc.status, err.Status)
		}
		if err.Code == "" || err.Message == "" {
			t.Fatalf("status %d: expected code and message, got %q %q", tc.status, err.Code, err.Message)
		}
	}
}

func TestDecodeFailure_EnvelopeFields(t *testing.T) {
	body := []byte(`{"message":"cnpj already registered","code":"EMPRESA_EXISTS"}`)
	err := decodeFailure(http.StatusConflict, body)

	if err.Message != "cnpj already registered" {
		t.Fatalf("expected envelope message, got %q", err.Message)
	}
	if err.Code != "EMPRESA_EXISTS" {
		t.Fatalf("expected envelope code, got %q", err.Code)
	}
}

func TestDecodeFailure_ValidationDetails(t *testing.T) {
	body := []byte(`{"message":"invalid","errors":{"cnpj":"must have 14 digits"}}`)
	err := decodeFailure(http.StatusUnprocessableEntity, body)

	if err.Kind != KindValidation {
		t.Fatalf("expected validation kind, got %s", err.Kind)
	}
	if err.Details["cnpj"] != "must have 14 digits" {
		t.Fatalf("expected field detail, got %v", err.Details)
	}
}

func TestDecodeFailure_DefaultCode(t *testing.T) {
	err := decodeFailure(http.StatusTeapot, []byte(`{}`))
	if err.Code != "HTTP_418" {
		t.Fatalf("expected HTTP_418 fallback code, got %q", err.Code)
	}
}

func TestErrorKind_NonAPIError(t *testing.T) {
	if kind := ErrorKind(http.ErrServerClosed); kind != KindUnknown {
		t.Fatalf("expected unknown kind for foreign errors, got %s", kind)
	}
	if !IsNetwork(networkError(http.ErrServerClosed)) {
		t.Fatalf("expected network error to report as network kind")
	}
}

func TestCheckInput_FieldDetails(t *testing.T) {
	in := struct {
		Username string `validate:"required"`
		Email    string `validate:"omitempty,email"`
	}{Email: "not-an-email"}

	err := checkInput(in)
	if err == nil {
		t.Fatalf("expected validation failure")
	}
	apiErr, ok := err.(*Error)
	if !ok || apiErr.Kind != KindValidation {
		t.Fatalf("expected *Error with validation kind, got %T %v", err, err)
	}
	if apiErr.Details["username"] != "username is required" {
		t.Fatalf("unexpected username detail: %v", apiErr.Details)
	}
	if apiErr.Details["email"] != "email must be a valid email" {
		t.Fatalf("unexpected email detail: %v", apiErr.Details)
	}
}
