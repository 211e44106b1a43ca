package discount

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/belanjaku/commerce-api/internal/catalog"
)

// ErrNotFound dipakai untuk dua kasus: diskon tidak terasosiasi dengan produk,
// atau ada tapi di luar rentang start/end. Klien terima pesan seragam.
var ErrNotFound = errors.New("discount not found for product")

var hundred = decimal.NewFromInt(100)

// LinePrice hasil evaluasi satu line.
// Kebijakan pembulatan (berlaku untuk seluruh codebase): harga satuan setelah
// diskon dibulatkan half-up ke unit minor, lalu total = satuan * qty. Dengan
// begitu gross amount selalu sama dengan jumlah item yang dikirim ke gateway.
type LinePrice struct {
	UnitCents  int64
	TotalCents int64
	Discount   *catalog.Discount // nil kalau tanpa diskon
}

// Apply memvalidasi diskon (kalau diminta) dan menghitung harga line.
func Apply(p catalog.Product, discountID string, qty int, now time.Time) (LinePrice, error) {
	if qty <= 0 {
		return LinePrice{}, fmt.Errorf("invalid qty %d for product %s", qty, p.ID)
	}

	if discountID == "" {
		return LinePrice{
			UnitCents:  p.PriceCents,
			TotalCents: p.PriceCents * int64(qty),
		}, nil
	}

	d := p.FindDiscount(discountID)
	if d == nil {
		return LinePrice{}, fmt.Errorf("%w: product=%s discount=%s", ErrNotFound, p.ID, discountID)
	}
	if !d.ActiveAt(now) {
		return LinePrice{}, fmt.Errorf("%w: discount %s (code=%s) is not valid at %d", ErrNotFound, d.ID, d.Code, now.Unix())
	}

	unit := decimal.NewFromInt(p.PriceCents).
		Mul(hundred.Sub(decimal.NewFromInt(d.Percentage))).
		Div(hundred).
		Round(0)
	unitCents := unit.IntPart()

	return LinePrice{
		UnitCents:  unitCents,
		TotalCents: unitCents * int64(qty),
		Discount:   d,
	}, nil
}
