package orders

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/belanjaku/commerce-api/internal/discount"
	"github.com/belanjaku/commerce-api/internal/payment"
)

// Assembler membangun order dari cart: validasi diskon, reserve stok, hitung
// total, persist order+lines, lalu create transaksi di gateway. Semuanya satu
// unit of work -- gagal di titik manapun membatalkan seluruhnya, termasuk
// reservasi stok.
type Assembler struct {
	Store   Store
	Gateway Gateway
	Log     *zap.Logger
	Now     func() time.Time
}

type CreatedOrder struct {
	Order       *Order
	Token       string
	RedirectURL string
}

func (a *Assembler) now() time.Time {
	if a.Now != nil {
		return a.Now()
	}
	return time.Now().UTC()
}

func (a *Assembler) CreateOrder(ctx context.Context, userID string, cart []CartLine) (*CreatedOrder, error) {
	now := a.now()
	var out *CreatedOrder

	err := a.Store.WithTx(ctx, func(tx Tx) error {
		ids := distinctProductIDs(cart)
		products, err := tx.ProductsForUpdate(ctx, ids)
		if err != nil {
			return err
		}
		if len(products) != len(ids) {
			var missing []string
			for _, id := range ids {
				if _, ok := products[id]; !ok {
					missing = append(missing, id)
				}
			}
			return &ProductsNotFoundError{IDs: missing}
		}

		orderID := uuid.NewString()
		var total int64
		lines := make([]OrderLine, 0, len(cart))
		items := make([]payment.Item, 0, len(cart))

		// Tiap line independen: duplikat product_id reserve berurutan ke
		// counter yang sama, jadi line belakangan bisa gagal karena stok
		// habis dimakan line sebelumnya.
		for _, cl := range cart {
			p := products[cl.ProductID]

			price, err := discount.Apply(p, cl.DiscountID, cl.Qty, now)
			if err != nil {
				return err
			}
			if err := tx.ReserveStock(ctx, cl.ProductID, cl.Qty); err != nil {
				return err
			}

			ln := OrderLine{
				ID:                 uuid.NewString(),
				OrderID:            orderID,
				ProductID:          p.ID,
				ProductName:        p.Name,
				ProductDescription: p.Description,
				PriceCents:         p.PriceCents,
				CategoryName:       p.CategoryName,
				Qty:                cl.Qty,
				TotalCents:         price.TotalCents,
			}
			if d := price.Discount; d != nil {
				ln.DiscountID = d.ID
				ln.DiscountName = d.Name
				ln.DiscountDescription = d.Description
				ln.DiscountCode = d.Code
				ln.DiscountPercentage = d.Percentage
				ln.DiscountStartDate = d.StartDate
				ln.DiscountEndDate = d.EndDate
			}
			lines = append(lines, ln)
			total += price.TotalCents

			items = append(items, payment.Item{
				ID:         p.ID,
				Name:       p.Name,
				Category:   p.CategoryName,
				PriceCents: price.UnitCents,
				Qty:        cl.Qty,
			})
		}

		o := &Order{
			ID:         orderID,
			UserID:     userID,
			Status:     StatusPending,
			TotalCents: total,
			CreatedAt:  now,
			UpdatedAt:  now,
			Lines:      lines,
		}
		if err := tx.InsertOrder(ctx, o); err != nil {
			return err
		}
		if err := tx.InsertLines(ctx, lines); err != nil {
			return err
		}

		// Gateway call sengaja di dalam scope transaksi: kalau remote gagal,
		// order + reservasi ikut batal. Tidak boleh ada order PENDING
		// menggantung tanpa handle gateway.
		charge, err := a.Gateway.CreateTransaction(ctx, orderID, total, items)
		if err != nil {
			return err
		}

		out = &CreatedOrder{Order: o, Token: charge.Token, RedirectURL: charge.RedirectURL}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if a.Log != nil {
		a.Log.Info("order created",
			zap.String("order_id", out.Order.ID),
			zap.String("user_id", userID),
			zap.Int64("total_cents", out.Order.TotalCents),
			zap.Int("lines", len(out.Order.Lines)),
		)
	}
	return out, nil
}

func distinctProductIDs(cart []CartLine) []string {
	seen := make(map[string]bool, len(cart))
	out := make([]string, 0, len(cart))
	for _, cl := range cart {
		if !seen[cl.ProductID] {
			seen[cl.ProductID] = true
			out = append(out, cl.ProductID)
		}
	}
	return out
}
