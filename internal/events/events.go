package events

import (
	"encoding/json"
	"strconv"
	"time"
)

const (
	EventCartCheckedOut = "CartCheckedOut"

	TopicCartCheckedOut = "cart.checked_out"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	CorrelationID string          `json:"correlation_id,omitempty"` // receipt id
	Payload       json.RawMessage `json:"payload"`
}

// Line prices and totals travel as decimal strings ("12.50").
type CheckoutLine struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
}

type CartCheckedOutPayload struct {
	ReceiptID string         `json:"receipt_id"`
	UserID    int64          `json:"user_id"`
	Customer  string         `json:"customer"`
	Lines     []CheckoutLine `json:"lines"`
	Total     string         `json:"total"`
	OrderedAt time.Time      `json:"ordered_at"`
}

// PartitionKey keeps all checkouts of one user on one partition.
func PartitionKey(userID int64) []byte { return []byte(strconv.FormatInt(userID, 10)) }
