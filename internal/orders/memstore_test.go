package orders

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/belanjaku/commerce-api/internal/catalog"
	"github.com/belanjaku/commerce-api/internal/inventory"
	"github.com/belanjaku/commerce-api/internal/payment"
)

// memStore meniru semantik unit of work PgStore: fn jalan di atas copy state,
// commit = swap copy, error = copy dibuang (rollback).
type memStore struct {
	mu sync.Mutex
	st *memState
}

type memState struct {
	products map[string]catalog.Product
	orders   map[string]*Order
}

func newMemStore(products ...catalog.Product) *memStore {
	st := &memState{
		products: make(map[string]catalog.Product, len(products)),
		orders:   make(map[string]*Order),
	}
	for _, p := range products {
		st.products[p.ID] = p
	}
	return &memStore{st: st}
}

func (s *memState) clone() *memState {
	cp := &memState{
		products: make(map[string]catalog.Product, len(s.products)),
		orders:   make(map[string]*Order, len(s.orders)),
	}
	for k, v := range s.products {
		cp.products[k] = v
	}
	for k, v := range s.orders {
		o := *v
		o.Lines = append([]OrderLine(nil), v.Lines...)
		cp.orders[k] = &o
	}
	return cp
}

func (m *memStore) WithTx(ctx context.Context, fn func(tx Tx) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	work := m.st.clone()
	if err := fn(&memTx{st: work}); err != nil {
		return err
	}
	m.st = work
	return nil
}

func (m *memStore) stock(productID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.products[productID].Stock
}

func (m *memStore) order(orderID string) *Order {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.st.orders[orderID]
}

func (m *memStore) orderCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.st.orders)
}

func (m *memStore) seedOrder(o *Order) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.st.orders[o.ID] = o
}

type memTx struct{ st *memState }

func (t *memTx) ProductsForUpdate(ctx context.Context, ids []string) (map[string]catalog.Product, error) {
	out := make(map[string]catalog.Product, len(ids))
	for _, id := range ids {
		if p, ok := t.st.products[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (t *memTx) ReserveStock(ctx context.Context, productID string, qty int) error {
	p, ok := t.st.products[productID]
	if !ok {
		return fmt.Errorf("%w: product=%s", inventory.ErrNotFound, productID)
	}
	if p.Stock < qty {
		return &inventory.InsufficientStockError{ProductID: productID, Required: qty, Available: p.Stock}
	}
	p.Stock -= qty
	t.st.products[productID] = p
	return nil
}

func (t *memTx) ReleaseStock(ctx context.Context, productID string, qty int) error {
	p, ok := t.st.products[productID]
	if !ok {
		return fmt.Errorf("%w: product=%s", inventory.ErrNotFound, productID)
	}
	p.Stock += qty
	t.st.products[productID] = p
	return nil
}

func (t *memTx) InsertOrder(ctx context.Context, o *Order) error {
	cp := *o
	cp.Lines = nil
	t.st.orders[o.ID] = &cp
	return nil
}

func (t *memTx) InsertLines(ctx context.Context, lines []OrderLine) error {
	for _, ln := range lines {
		o, ok := t.st.orders[ln.OrderID]
		if !ok {
			return fmt.Errorf("order %s not inserted", ln.OrderID)
		}
		o.Lines = append(o.Lines, ln)
	}
	return nil
}

func (t *memTx) OrderForUpdate(ctx context.Context, orderID string) (*Order, error) {
	o, ok := t.st.orders[orderID]
	if !ok {
		return nil, ErrOrderNotFound
	}
	return o, nil
}

func (t *memTx) UpdateOrderStatus(ctx context.Context, orderID string, st Status) error {
	o, ok := t.st.orders[orderID]
	if !ok {
		return ErrOrderNotFound
	}
	o.Status = st
	return nil
}

// fakeGateway: create selalu sukses kecuali disuruh gagal; verify cuma decode
// JSON tanpa cek signature (signature dites di internal/payment).
type fakeGateway struct {
	failCreate bool
	created    int
	lastItems  []payment.Item
	lastGross  int64
}

func (g *fakeGateway) CreateTransaction(ctx context.Context, orderID string, grossCents int64, items []payment.Item) (*payment.Charge, error) {
	if g.failCreate {
		return nil, fmt.Errorf("%w: connection refused", payment.ErrUnavailable)
	}
	g.created++
	g.lastItems = items
	g.lastGross = grossCents
	return &payment.Charge{Token: "tok-" + orderID, RedirectURL: "https://pay.example/" + orderID}, nil
}

func (g *fakeGateway) VerifyNotification(raw []byte) (*payment.Notification, error) {
	var n payment.Notification
	if err := json.Unmarshal(raw, &n); err != nil {
		return nil, err
	}
	return &n, nil
}

type fakeDedup struct {
	mu   sync.Mutex
	seen map[string]bool
}

func newFakeDedup() *fakeDedup { return &fakeDedup{seen: make(map[string]bool)} }

func (d *fakeDedup) Seen(ctx context.Context, orderID, status string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.seen[orderID+":"+status], nil
}

func (d *fakeDedup) Mark(ctx context.Context, orderID, status string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.seen[orderID+":"+status] = true
	return nil
}

func notifJSON(orderID string, status payment.TransactionStatus) []byte {
	b, _ := json.Marshal(map[string]string{
		"order_id":           orderID,
		"transaction_status": string(status),
	})
	return b
}
