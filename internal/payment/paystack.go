package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha512"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// SignatureHeader carries the hex HMAC-SHA512 of the raw webhook body.
const SignatureHeader = "X-Signature"

const initializeTimeout = 15 * time.Second

// Checkout is the provider-issued payment session: a hosted page the buyer
// is sent to and an opaque reference correlating the later confirmation.
type Checkout struct {
	AuthorizationURL string
	Reference        string
}

type Client struct {
	BaseURL   string
	SecretKey string
	Currency  string
	// CallbackURL is where the provider sends the buyer after checkout.
	CallbackURL string

	HTTPClient *http.Client
}

func NewClient(baseURL, secretKey, currency, callbackURL string) *Client {
	return &Client{
		BaseURL:     baseURL,
		SecretKey:   secretKey,
		Currency:    currency,
		CallbackURL: callbackURL,
		HTTPClient:  &http.Client{Timeout: initializeTimeout},
	}
}

type initializeRequest struct {
	Currency    string `json:"currency"`
	Amount      int64  `json:"amount"`
	Email       string `json:"email"`
	CallbackURL string `json:"callback_url,omitempty"`
}

type initializeResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
	Data    struct {
		AuthorizationURL string `json:"authorization_url"`
		AccessCode       string `json:"access_code"`
		Reference        string `json:"reference"`
	} `json:"data"`
}

// Initialize opens a checkout session for the given amount in the currency's
// minor unit. A timeout here is a provider failure like any other: the caller
// must not assume a session exists.
func (c *Client) Initialize(ctx context.Context, amountMinorUnits int64, email string) (*Checkout, error) {
	payload := initializeRequest{
		Currency:    c.Currency,
		Amount:      amountMinorUnits,
		Email:       email,
		CallbackURL: c.CallbackURL,
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("paystack: marshal payload: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, initializeTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/transaction/initialize", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("paystack: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.SecretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("paystack: initialize request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("paystack: read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("paystack: initialize returned %d: %s", resp.StatusCode, string(body))
	}

	var parsed initializeResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("paystack: parse response: %w", err)
	}

	if parsed.Data.AuthorizationURL == "" {
		return nil, fmt.Errorf("paystack: response missing authorization url")
	}

	return &Checkout{
		AuthorizationURL: parsed.Data.AuthorizationURL,
		Reference:        parsed.Data.Reference,
	}, nil
}

// Sign computes the hex HMAC-SHA512 of body under the secret key.
func Sign(secretKey string, body []byte) string {
	mac := hmac.New(sha512.New, []byte(secretKey))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

// VerifySignature checks a webhook delivery against its signature header.
// The comparison is constant-time; a delivery that fails here must not be
// parsed, let alone acted on.
func VerifySignature(secretKey string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	expected := Sign(secretKey, body)
	return hmac.Equal([]byte(expected), []byte(signature))
}
