package shop

import (
	"context"
	"sort"
	"sync"

	"github.com/shopspring/decimal"
)

type memItem struct {
	id        int64
	userID    int64
	productID int64
	qty       int
}

// MemoryStore keeps catalog and carts in process memory. It implements both
// Catalog and Cart with the same semantics as the Postgres repos and is used
// for local runs without a database and in tests.
type MemoryStore struct {
	mu          sync.Mutex
	products    map[int64]Product
	items       map[int64]*memItem
	nextProduct int64
	nextItem    int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products: make(map[int64]Product),
		items:    make(map[int64]*memItem),
	}
}

func (m *MemoryStore) AddProduct(_ context.Context, name string, price decimal.Decimal) (int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.nextProduct++
	id := m.nextProduct
	m.products[id] = Product{ID: id, Name: name, Price: price}
	return id, nil
}

func (m *MemoryStore) ListProducts(_ context.Context) ([]Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Product, 0, len(m.products))
	for _, p := range m.products {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (m *MemoryStore) GetProduct(_ context.Context, id int64) (Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	p, ok := m.products[id]
	if !ok {
		return Product{}, ErrNotFound
	}
	return p, nil
}

func (m *MemoryStore) UpdateProduct(_ context.Context, id int64, name string, price decimal.Decimal) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	m.products[id] = Product{ID: id, Name: name, Price: price}
	return nil
}

func (m *MemoryStore) DeleteProduct(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[id]; !ok {
		return ErrNotFound
	}
	delete(m.products, id)
	for itemID, it := range m.items {
		if it.productID == id {
			delete(m.items, itemID)
		}
	}
	return nil
}

func (m *MemoryStore) AddToCart(_ context.Context, userID, productID int64, qty int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.products[productID]; !ok {
		return ErrNotFound
	}
	for _, it := range m.items {
		if it.userID == userID && it.productID == productID {
			it.qty += qty
			return nil
		}
	}
	m.nextItem++
	m.items[m.nextItem] = &memItem{id: m.nextItem, userID: userID, productID: productID, qty: qty}
	return nil
}

func (m *MemoryStore) ListCart(_ context.Context, userID int64) ([]CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.linesLocked(userID), nil
}

func (m *MemoryStore) RemoveFromCart(_ context.Context, userID, itemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	it, ok := m.items[itemID]
	if !ok || it.userID != userID {
		return ErrNotFound
	}
	delete(m.items, itemID)
	return nil
}

func (m *MemoryStore) ClearCart(_ context.Context, userID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for id, it := range m.items {
		if it.userID == userID {
			delete(m.items, id)
		}
	}
	return nil
}

func (m *MemoryStore) Checkout(_ context.Context, userID int64, fn CheckoutFunc) ([]CartLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	lines := m.linesLocked(userID)
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}
	if err := fn(lines); err != nil {
		return nil, err
	}
	for _, l := range lines {
		delete(m.items, l.ItemID)
	}
	return lines, nil
}

func (m *MemoryStore) linesLocked(userID int64) []CartLine {
	var out []CartLine
	for _, it := range m.items {
		if it.userID != userID {
			continue
		}
		p := m.products[it.productID]
		out = append(out, CartLine{
			ItemID:    it.id,
			ProductID: it.productID,
			Name:      p.Name,
			Price:     p.Price,
			Quantity:  it.qty,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ItemID < out[j].ItemID })
	return out
}
