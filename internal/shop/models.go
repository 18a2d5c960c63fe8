package shop

import (
	"context"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID    int64
	Name  string
	Price decimal.Decimal
}

// CartLine is one cart row joined with its product.
type CartLine struct {
	ItemID    int64
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int
}

func (l CartLine) Subtotal() decimal.Decimal {
	return l.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

// Total sums price x quantity over lines. Never stored.
func Total(lines []CartLine) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Subtotal())
	}
	return total
}

type Catalog interface {
	AddProduct(ctx context.Context, name string, price decimal.Decimal) (int64, error)
	ListProducts(ctx context.Context) ([]Product, error)
	GetProduct(ctx context.Context, id int64) (Product, error)
	UpdateProduct(ctx context.Context, id int64, name string, price decimal.Decimal) error
	DeleteProduct(ctx context.Context, id int64) error
}

// CheckoutFunc receives the locked cart contents. Returning an error
// aborts the checkout and leaves the cart untouched.
type CheckoutFunc func(lines []CartLine) error

type Cart interface {
	AddToCart(ctx context.Context, userID, productID int64, qty int) error
	ListCart(ctx context.Context, userID int64) ([]CartLine, error)
	RemoveFromCart(ctx context.Context, userID, itemID int64) error
	ClearCart(ctx context.Context, userID int64) error
	Checkout(ctx context.Context, userID int64, fn CheckoutFunc) ([]CartLine, error)
}
