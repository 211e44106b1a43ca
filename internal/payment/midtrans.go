package payment

import (
	"bytes"
	"context"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

// MidtransClient bicara ke Snap API. ServerKey dipakai buat basic auth
// dan verifikasi signature webhook.
type MidtransClient struct {
	BaseURL   string
	ServerKey string
	HTTP      *http.Client
}

func NewMidtransClient(baseURL, serverKey string) *MidtransClient {
	return &MidtransClient{
		BaseURL:   baseURL,
		ServerKey: serverKey,
		HTTP:      &http.Client{Timeout: 15 * time.Second},
	}
}

type snapRequest struct {
	TransactionDetails struct {
		OrderID     string `json:"order_id"`
		GrossAmount int64  `json:"gross_amount"`
	} `json:"transaction_details"`
	ItemDetails []Item `json:"item_details"`
}

// CreateTransaction bikin transaksi Snap untuk (orderID, grossCents).
// Respons tanpa token dianggap gateway unavailable.
func (c *MidtransClient) CreateTransaction(ctx context.Context, orderID string, grossCents int64, items []Item) (*Charge, error) {
	var req snapRequest
	req.TransactionDetails.OrderID = orderID
	req.TransactionDetails.GrossAmount = grossCents
	req.ItemDetails = items

	body, err := json.Marshal(req)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseURL+"/snap/v1/transactions", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.ServerKey, "")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var charge Charge
	if err := json.NewDecoder(resp.Body).Decode(&charge); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	if charge.Token == "" {
		return nil, fmt.Errorf("%w: empty transaction token", ErrUnavailable)
	}
	return &charge, nil
}

// VerifyNotification decode payload webhook dan cek signature:
// sha512(order_id + status_code + gross_amount + server_key).
func (c *MidtransClient) VerifyNotification(raw []byte) (*Notification, error) {
	var n Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, fmt.Errorf("decode notification: %w", err)
	}
	if n.OrderID == "" {
		return nil, fmt.Errorf("decode notification: missing order_id")
	}

	want := Signature(n.OrderID, n.StatusCode, n.GrossAmount, c.ServerKey)
	if subtle.ConstantTimeCompare([]byte(want), []byte(n.SignatureKey)) != 1 {
		return nil, fmt.Errorf("%w: order=%s", ErrInvalidSignature, n.OrderID)
	}
	return &n, nil
}

// CheckStatus tanya status transaksi langsung ke gateway (fallback manual,
// dipakai kalau webhook hilang).
func (c *MidtransClient) CheckStatus(ctx context.Context, orderID string) (*Notification, error) {
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseURL+"/v2/"+orderID+"/status", nil)
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Accept", "application/json")
	httpReq.SetBasicAuth(c.ServerKey, "")

	resp, err := c.HTTP.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return nil, fmt.Errorf("transaction not found: order=%s", orderID)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}

	var n Notification
	if err := json.NewDecoder(resp.Body).Decode(&n); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", ErrUnavailable, err)
	}
	return &n, nil
}

// Signature menghitung signature notifikasi versi gateway.
func Signature(orderID, statusCode, grossAmount, serverKey string) string {
	sum := sha512.Sum512([]byte(orderID + statusCode + grossAmount + serverKey))
	return hex.EncodeToString(sum[:])
}
