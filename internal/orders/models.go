package orders

import "time"

// CartLine: satu entri request order. Duplikat product_id dibiarkan sebagai
// line terpisah (tidak di-merge); masing-masing reserve ke counter stok yang sama.
type CartLine struct {
	ProductID  string `json:"product_id"`
	Qty        int    `json:"qty"`
	DiscountID string `json:"discount_id,omitempty"`
}

type Order struct {
	ID         string      `json:"id"`
	UserID     string      `json:"user_id"`
	Status     Status      `json:"status"`
	TotalCents int64       `json:"total_cents"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`
	Lines      []OrderLine `json:"lines,omitempty"`
}

// OrderLine adalah snapshot immutable: nama/harga/diskon di-copy saat order
// dibuat supaya edit katalog belakangan tidak mengubah record historis.
type OrderLine struct {
	ID                  string `json:"id"`
	OrderID             string `json:"order_id"`
	ProductID           string `json:"product_id"`
	ProductName         string `json:"product_name"`
	ProductDescription  string `json:"product_description,omitempty"`
	PriceCents          int64  `json:"price_cents"`
	CategoryName        string `json:"category_name,omitempty"`
	DiscountID          string `json:"discount_id,omitempty"`
	DiscountName        string `json:"discount_name,omitempty"`
	DiscountDescription string `json:"discount_description,omitempty"`
	DiscountCode        string `json:"discount_code,omitempty"`
	DiscountPercentage  int64  `json:"discount_percentage,omitempty"`
	DiscountStartDate   int64  `json:"discount_start_date,omitempty"`
	DiscountEndDate     int64  `json:"discount_end_date,omitempty"`
	Qty                 int    `json:"qty"`
	TotalCents          int64  `json:"total_cents"`
}
