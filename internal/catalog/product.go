package catalog

import "time"

// Product adalah snapshot read-side yang dipakai order assembler:
// harga + kategori + stok + daftar diskon yang terasosiasi, hasil satu batch query.
type Product struct {
	ID           string
	Name         string
	Description  string
	PriceCents   int64
	CategoryName string
	Stock        int
	Discounts    []Discount
}

type Discount struct {
	ID          string
	Code        string
	Name        string
	Description string
	Percentage  int64
	StartDate   int64 // unix seconds
	EndDate     int64
}

func (p Product) FindDiscount(id string) *Discount {
	for i := range p.Discounts {
		if p.Discounts[i].ID == id {
			return &p.Discounts[i]
		}
	}
	return nil
}

// ActiveAt: diskon hanya berlaku saat startDate <= now <= endDate.
func (d Discount) ActiveAt(now time.Time) bool {
	ts := now.Unix()
	return ts >= d.StartDate && ts <= d.EndDate
}
