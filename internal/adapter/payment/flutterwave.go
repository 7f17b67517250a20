package payment

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/Realquiid/vendopage/internal/app/config"
)

// Client talks to the Flutterwave v3 REST API. It covers only what the
// premium-subscription flow needs: initializing a hosted payment, verifying a
// transaction, and checking webhook signatures.
type Client struct {
	baseURL    string
	secretKey  string
	httpClient *http.Client
}

type Customer struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

type InitializeRequest struct {
	TxRef       string   `json:"tx_ref"`
	Amount      string   `json:"amount"`
	Currency    string   `json:"currency"`
	RedirectURL string   `json:"redirect_url"`
	Customer    Customer `json:"customer"`
}

type InitializeData struct {
	Link string `json:"link"`
}

type InitializeResponse struct {
	Status  string         `json:"status"`
	Message string         `json:"message"`
	Data    InitializeData `json:"data"`
}

type VerifyData struct {
	ID       int64   `json:"id"`
	TxRef    string  `json:"tx_ref"`
	Status   string  `json:"status"`
	Amount   float64 `json:"amount"`
	Currency string  `json:"currency"`
}

type VerifyResponse struct {
	Status string     `json:"status"`
	Data   VerifyData `json:"data"`
}

func NewClient(cfg config.PaymentConfig) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		secretKey:  cfg.SecretKey,
		httpClient: &http.Client{Timeout: cfg.Timeout},
	}
}

func (c *Client) InitializePayment(ctx context.Context, req InitializeRequest) (*InitializeResponse, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/payments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build payment request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("payment initialization request failed: %w", err)
	}
	defer resp.Body.Close()

	var out InitializeResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode payment response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("payment initialization returned %d: %s", resp.StatusCode, out.Message)
	}
	return &out, nil
}

func (c *Client) VerifyTransaction(ctx context.Context, transactionID string) (*VerifyResponse, error) {
	url := fmt.Sprintf("%s/transactions/%s/verify", c.baseURL, transactionID)
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build verify request: %w", err)
	}
	c.setHeaders(httpReq)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("transaction verification request failed: %w", err)
	}
	defer resp.Body.Close()

	var out VerifyResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("failed to decode verify response: %w", err)
	}
	if resp.StatusCode >= 400 {
		return nil, fmt.Errorf("transaction verification returned %d", resp.StatusCode)
	}
	return &out, nil
}

// VerifyWebhookSignature checks the verif-hash header against an HMAC-SHA256
// of the raw payload keyed with the secret key.
func (c *Client) VerifyWebhookSignature(signature string, payload []byte) bool {
	if signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(c.secretKey))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")
}
