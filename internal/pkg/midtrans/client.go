// Package midtrans is a small client for the Snap hosted payment page and the core
// transaction status API.
package midtrans

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

var ErrGateway = errors.New("payment gateway error")

type Config struct {
	ServerKey string
	SnapURL   string
	APIURL    string
	// Timeout 0 means outbound calls are bounded only by the caller's context.
	Timeout time.Duration
}

type Client struct {
	serverKey string
	snapURL   string
	apiURL    string
	http      *http.Client
}

func NewClient(cfg Config) *Client {
	return &Client{
		serverKey: cfg.ServerKey,
		snapURL:   strings.TrimRight(cfg.SnapURL, "/"),
		apiURL:    strings.TrimRight(cfg.APIURL, "/"),
		http:      &http.Client{Timeout: cfg.Timeout},
	}
}

type TransactionDetails struct {
	OrderID     string `json:"order_id"`
	GrossAmount int64  `json:"gross_amount"`
}

type CustomerDetails struct {
	FirstName string `json:"first_name,omitempty"`
	Email     string `json:"email,omitempty"`
	Phone     string `json:"phone,omitempty"`
}

type ItemDetail struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Price    int64  `json:"price"`
	Quantity int    `json:"quantity"`
}

type Callbacks struct {
	Finish string `json:"finish,omitempty"`
}

type SnapRequest struct {
	TransactionDetails TransactionDetails `json:"transaction_details"`
	CustomerDetails    *CustomerDetails   `json:"customer_details,omitempty"`
	ItemDetails        []ItemDetail       `json:"item_details,omitempty"`
	Callbacks          *Callbacks         `json:"callbacks,omitempty"`
}

type SnapResponse struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// TransactionStatus is the gateway's view of one order, as returned by the status
// API and pushed in notifications.
type TransactionStatus struct {
	StatusCode        string `json:"status_code"`
	StatusMessage     string `json:"status_message,omitempty"`
	TransactionID     string `json:"transaction_id"`
	OrderID           string `json:"order_id"`
	GrossAmount       string `json:"gross_amount"`
	PaymentType       string `json:"payment_type"`
	TransactionTime   string `json:"transaction_time,omitempty"`
	TransactionStatus string `json:"transaction_status"`
	FraudStatus       string `json:"fraud_status,omitempty"`
	SettlementTime    string `json:"settlement_time,omitempty"`
	SignatureKey      string `json:"signature_key,omitempty"`
}

type errorBody struct {
	StatusCode    string   `json:"status_code"`
	StatusMessage string   `json:"status_message"`
	ErrorMessages []string `json:"error_messages"`
}

// CreateTransaction opens a Snap session for req and returns its token and redirect URL.
func (c *Client) CreateTransaction(ctx context.Context, req SnapRequest) (*SnapResponse, error) {
	var out SnapResponse
	if err := c.do(ctx, http.MethodPost, c.snapURL+"/transactions", req, &out); err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, fmt.Errorf("%w: empty snap token", ErrGateway)
	}
	return &out, nil
}

// GetStatus queries the live status of orderID.
func (c *Client) GetStatus(ctx context.Context, orderID string) (*TransactionStatus, error) {
	var out TransactionStatus
	if err := c.do(ctx, http.MethodGet, c.apiURL+"/"+url.PathEscape(orderID)+"/status", nil, &out); err != nil {
		return nil, err
	}
	// expired orders come back as 407 with a transaction status, so only an empty one is an error
	if out.TransactionStatus == "" {
		return nil, fmt.Errorf("%w: status %s for %s: %s", ErrGateway, out.StatusCode, orderID, out.StatusMessage)
	}
	return &out, nil
}

func (c *Client) do(ctx context.Context, method, endpoint string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.SetBasicAuth(c.serverKey, "")
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrGateway, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrGateway, err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var eb errorBody
		_ = json.Unmarshal(raw, &eb)
		msg := strings.Join(eb.ErrorMessages, "; ")
		if msg == "" {
			msg = eb.StatusMessage
		}
		if msg == "" {
			msg = strings.TrimSpace(string(raw))
		}
		return fmt.Errorf("%w: http %d: %s", ErrGateway, resp.StatusCode, msg)
	}

	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: decode response: %v", ErrGateway, err)
	}
	return nil
}
