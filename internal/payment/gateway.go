package payment

import "errors"

var (
	// ErrUnavailable: call ke gateway gagal atau balasannya kosong.
	ErrUnavailable = errors.New("payment gateway unavailable")
	// ErrInvalidSignature: signature notifikasi tidak cocok (payload tampered).
	ErrInvalidSignature = errors.New("invalid notification signature")
)

// TransactionStatus adalah vocabulary status dari gateway. Closed set: mapping
// ke status order internal ada di internal/orders dan harus exhaustive.
type TransactionStatus string

const (
	StatusCapture           TransactionStatus = "capture"
	StatusSettlement        TransactionStatus = "settlement"
	StatusPending           TransactionStatus = "pending"
	StatusDeny              TransactionStatus = "deny"
	StatusCancel            TransactionStatus = "cancel"
	StatusExpire            TransactionStatus = "expire"
	StatusFailure           TransactionStatus = "failure"
	StatusRefund            TransactionStatus = "refund"
	StatusPartialRefund     TransactionStatus = "partial_refund"
	StatusChargeback        TransactionStatus = "chargeback"
	StatusPartialChargeback TransactionStatus = "partial_chargeback"
)

// Item descriptor per line yang dikirim saat create transaction.
type Item struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Category   string `json:"category,omitempty"`
	PriceCents int64  `json:"price"`
	Qty        int    `json:"quantity"`
}

// Charge hasil create transaction: token + redirect URL untuk checkout.
type Charge struct {
	Token       string `json:"token"`
	RedirectURL string `json:"redirect_url"`
}

// Notification adalah payload webhook yang sudah terverifikasi signature-nya.
type Notification struct {
	OrderID           string            `json:"order_id"`
	TransactionID     string            `json:"transaction_id"`
	TransactionStatus TransactionStatus `json:"transaction_status"`
	StatusCode        string            `json:"status_code"`
	GrossAmount       string            `json:"gross_amount"`
	FraudStatus       string            `json:"fraud_status"`
	SignatureKey      string            `json:"signature_key"`
}
