package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

// Order is a finished checkout as kept in the order history.
type Order struct {
	ID        string
	ReceiptID string
	UserID    int64
	Customer  string
	Total     decimal.Decimal
	OrderedAt time.Time
	Lines     []Line
}

type Line struct {
	ProductID int64
	Name      string
	Price     decimal.Decimal
	Quantity  int
}
