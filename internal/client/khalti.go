package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"elixa-backend/internal/config"
)

// ErrGatewayUnavailable wraps transport and provider-side failures so
// callers can map them to a retryable response.
var ErrGatewayUnavailable = errors.New("payment gateway unavailable")

const (
	GatewayStatusCompleted = "Completed"
	GatewayStatusPending   = "Pending"
)

type KhaltiClient interface {
	InitiatePayment(ctx context.Context, req *InitiateRequest) (*InitiateResponse, error)
	LookupPayment(ctx context.Context, pidx string) (*LookupResponse, error)
}

type InitiateRequest struct {
	// AmountPaisa is the charge in the gateway's minor unit (1 NPR = 100 paisa).
	AmountPaisa   int64
	OrderID       string
	OrderName     string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string
}

type InitiateResponse struct {
	Pidx       string `json:"pidx"`
	PaymentURL string `json:"payment_url"`
}

// LookupResponse carries the gateway's view of one payment intent. Status
// is Completed, Pending, or a provider-specific failure string (Expired,
// User canceled, Refunded, ...).
type LookupResponse struct {
	Pidx          string `json:"pidx"`
	Status        string `json:"status"`
	TransactionID string `json:"transaction_id"`
	TotalAmount   int64  `json:"total_amount"`
}

type khaltiClientImpl struct {
	httpClient *http.Client
	baseApiURL string
	secretKey  string
	returnURL  string
	websiteURL string
}

func NewKhaltiClient(khaltiCfg *config.Khalti, frontendURL string) KhaltiClient {
	return &khaltiClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseApiURL: khaltiCfg.BaseApiURL,
		secretKey:  khaltiCfg.SecretKey,
		returnURL:  frontendURL + "/payment/verify",
		websiteURL: frontendURL + "/",
	}
}

func (c *khaltiClientImpl) InitiatePayment(ctx context.Context, req *InitiateRequest) (*InitiateResponse, error) {
	payload := map[string]interface{}{
		"return_url":          c.returnURL,
		"website_url":         c.websiteURL,
		"amount":              req.AmountPaisa,
		"purchase_order_id":   req.OrderID,
		"purchase_order_name": req.OrderName,
		"customer_info": map[string]string{
			"name":  req.CustomerName,
			"email": req.CustomerEmail,
			"phone": req.CustomerPhone,
		},
	}

	var result InitiateResponse
	if err := c.post(ctx, "/epayment/initiate/", payload, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *khaltiClientImpl) LookupPayment(ctx context.Context, pidx string) (*LookupResponse, error) {
	payload := map[string]string{"pidx": pidx}

	var result LookupResponse
	if err := c.post(ctx, "/epayment/lookup/", payload, &result); err != nil {
		return nil, err
	}

	return &result, nil
}

func (c *khaltiClientImpl) post(ctx context.Context, path string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal req payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseApiURL+path, bytes.NewBuffer(body))
	if err != nil {
		return fmt.Errorf("http new request: %w", err)
	}
	req.Header.Set("Authorization", "Key "+c.secretKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGatewayUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("%w: khalti error %d: %s", ErrGatewayUnavailable, resp.StatusCode, string(b))
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode khalti response: %w", err)
	}

	return nil
}
