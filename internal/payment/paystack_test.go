package payment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "sk_test_secret"

func TestSignAndVerify(t *testing.T) {
	body := []byte(`{"event":"charge.success","data":{"reference":"REF123"}}`)

	sig := Sign(testSecret, body)
	assert.True(t, VerifySignature(testSecret, body, sig))

	// Wrong secret, tampered body, empty header.
	assert.False(t, VerifySignature("sk_other", body, sig))
	assert.False(t, VerifySignature(testSecret, append(body, ' '), sig))
	assert.False(t, VerifySignature(testSecret, body, ""))
	assert.False(t, VerifySignature(testSecret, body, "deadbeef"))
}

func TestInitialize_Success(t *testing.T) {
	var gotAuth, gotPath string
	var gotPayload initializeRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotPayload))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"status": true,
			"message": "Authorization URL created",
			"data": {
				"authorization_url": "https://checkout.paystack.com/abc123",
				"access_code": "abc123",
				"reference": "REF123"
			}
		}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testSecret, "GHS", "https://shop.example/callback")

	checkout, err := c.Initialize(context.Background(), 2500, "buyer@example.com")
	require.NoError(t, err)

	assert.Equal(t, "https://checkout.paystack.com/abc123", checkout.AuthorizationURL)
	assert.Equal(t, "REF123", checkout.Reference)

	assert.Equal(t, "Bearer "+testSecret, gotAuth)
	assert.Equal(t, "/transaction/initialize", gotPath)
	assert.Equal(t, int64(2500), gotPayload.Amount)
	assert.Equal(t, "GHS", gotPayload.Currency)
	assert.Equal(t, "buyer@example.com", gotPayload.Email)
	assert.Equal(t, "https://shop.example/callback", gotPayload.CallbackURL)
}

func TestInitialize_MissingAuthorizationURL(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"status": true, "data": {"reference": "REF123"}}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testSecret, "GHS", "")

	_, err := c.Initialize(context.Background(), 1000, "buyer@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "authorization url")
}

func TestInitialize_NonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status": false, "message": "Invalid key"}`))
	}))
	defer srv.Close()

	c := NewClient(srv.URL, testSecret, "GHS", "")

	_, err := c.Initialize(context.Background(), 1000, "buyer@example.com")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "401")
}
