package orders

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/belanjaku/commerce-api/internal/catalog"
	"github.com/belanjaku/commerce-api/internal/inventory"
)

// PgStore: implementasi Store di atas pgx. Satu WithTx = satu transaksi;
// fn return error -> rollback via defer.
type PgStore struct{ DB *pgxpool.Pool }

func (s *PgStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	tx, err := s.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(&pgTx{tx: tx}); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

type pgTx struct{ tx pgx.Tx }

func (t *pgTx) ProductsForUpdate(ctx context.Context, ids []string) (map[string]catalog.Product, error) {
	// FOR UPDATE OF i: lock row inventory per produk sampai commit, penjaga
	// minimal terhadap oversell antar order konkuren.
	rows, err := t.tx.Query(ctx, `
		SELECT p.id, p.name, p.description, p.price_cents, c.name, i.quantity
		FROM products p
		JOIN categories c ON c.id = p.category_id
		JOIN inventories i ON i.product_id = p.id
		WHERE p.id = ANY($1) AND p.deleted_at IS NULL
		FOR UPDATE OF i`, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]catalog.Product, len(ids))
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.CategoryName, &p.Stock); err != nil {
			return nil, err
		}
		out[p.ID] = p
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return out, nil
	}

	drows, err := t.tx.Query(ctx, `
		SELECT pd.product_id, d.id, d.code, d.name, d.description, d.percentage, d.start_date, d.end_date
		FROM product_discounts pd
		JOIN discounts d ON d.id = pd.discount_id
		WHERE pd.product_id = ANY($1)`, ids)
	if err != nil {
		return nil, err
	}
	defer drows.Close()

	for drows.Next() {
		var pid string
		var d catalog.Discount
		if err := drows.Scan(&pid, &d.ID, &d.Code, &d.Name, &d.Description, &d.Percentage, &d.StartDate, &d.EndDate); err != nil {
			return nil, err
		}
		p := out[pid]
		p.Discounts = append(p.Discounts, d)
		out[pid] = p
	}
	return out, drows.Err()
}

func (t *pgTx) ReserveStock(ctx context.Context, productID string, qty int) error {
	return inventory.Reserve(ctx, t.tx, productID, qty)
}

func (t *pgTx) ReleaseStock(ctx context.Context, productID string, qty int) error {
	return inventory.Release(ctx, t.tx, productID, qty)
}

func (t *pgTx) InsertOrder(ctx context.Context, o *Order) error {
	_, err := t.tx.Exec(ctx, `
		INSERT INTO orders(id, user_id, status, total_cents, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)`,
		o.ID, o.UserID, string(o.Status), o.TotalCents, o.CreatedAt, o.UpdatedAt)
	return err
}

func (t *pgTx) InsertLines(ctx context.Context, lines []OrderLine) error {
	for _, ln := range lines {
		_, err := t.tx.Exec(ctx, `
			INSERT INTO order_lines(id, order_id, product_id, product_name, product_description,
				price_cents, category_name, discount_id, discount_name, discount_description,
				discount_code, discount_percentage, discount_start_date, discount_end_date,
				qty, total_cents)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)`,
			ln.ID, ln.OrderID, ln.ProductID, ln.ProductName, ln.ProductDescription,
			ln.PriceCents, ln.CategoryName, ln.DiscountID, ln.DiscountName, ln.DiscountDescription,
			ln.DiscountCode, ln.DiscountPercentage, ln.DiscountStartDate, ln.DiscountEndDate,
			ln.Qty, ln.TotalCents)
		if err != nil {
			return err
		}
	}
	return nil
}

func (t *pgTx) OrderForUpdate(ctx context.Context, orderID string) (*Order, error) {
	var o Order
	err := t.tx.QueryRow(ctx, `
		SELECT id, user_id, status, total_cents, created_at, updated_at
		FROM orders WHERE id=$1 AND deleted_at IS NULL
		FOR UPDATE`, orderID).
		Scan(&o.ID, &o.UserID, &o.Status, &o.TotalCents, &o.CreatedAt, &o.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}

	rows, err := t.tx.Query(ctx, `
		SELECT id, order_id, product_id, product_name, product_description,
			price_cents, category_name, discount_id, discount_name, discount_description,
			discount_code, discount_percentage, discount_start_date, discount_end_date,
			qty, total_cents
		FROM order_lines WHERE order_id=$1`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		var ln OrderLine
		if err := rows.Scan(&ln.ID, &ln.OrderID, &ln.ProductID, &ln.ProductName, &ln.ProductDescription,
			&ln.PriceCents, &ln.CategoryName, &ln.DiscountID, &ln.DiscountName, &ln.DiscountDescription,
			&ln.DiscountCode, &ln.DiscountPercentage, &ln.DiscountStartDate, &ln.DiscountEndDate,
			&ln.Qty, &ln.TotalCents); err != nil {
			return nil, err
		}
		o.Lines = append(o.Lines, ln)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return &o, nil
}

func (t *pgTx) UpdateOrderStatus(ctx context.Context, orderID string, st Status) error {
	ct, err := t.tx.Exec(ctx, `UPDATE orders SET status=$2, updated_at=now() WHERE id=$1`, orderID, string(st))
	if err != nil {
		return err
	}
	if ct.RowsAffected() != 1 {
		return ErrOrderNotFound
	}
	return nil
}

// GetOrderStatus: read path ringan di luar unit of work (fallback cache GET /orders/{id}).
func (s *PgStore) GetOrderStatus(ctx context.Context, orderID string) (Status, error) {
	var st string
	err := s.DB.QueryRow(ctx, `SELECT status FROM orders WHERE id=$1 AND deleted_at IS NULL`, orderID).Scan(&st)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", ErrOrderNotFound
	}
	if err != nil {
		return "", err
	}
	return Status(st), nil
}

// ListProducts buat katalog read-side (harga, stok, diskon aktif tidak difilter di sini).
func (s *PgStore) ListProducts(ctx context.Context) ([]catalog.Product, error) {
	rows, err := s.DB.Query(ctx, `
		SELECT p.id, p.name, p.description, p.price_cents, c.name, i.quantity
		FROM products p
		JOIN categories c ON c.id = p.category_id
		JOIN inventories i ON i.product_id = p.id
		WHERE p.deleted_at IS NULL
		ORDER BY p.name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []catalog.Product
	for rows.Next() {
		var p catalog.Product
		if err := rows.Scan(&p.ID, &p.Name, &p.Description, &p.PriceCents, &p.CategoryName, &p.Stock); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
