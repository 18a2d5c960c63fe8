package view

import (
	"errors"
	"strings"
	"text/template"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/korzinka-bot/internal/shop"
)

// Receipt is a snapshot of a cart at checkout time.
type Receipt struct {
	ID       string
	Customer string
	At       time.Time
	Lines    []shop.CartLine
}

func (r Receipt) Total() decimal.Decimal { return shop.Total(r.Lines) }

// Number is the short form printed on the receipt.
func (r Receipt) Number() string {
	n := strings.ReplaceAll(r.ID, "-", "")
	if len(n) > 8 {
		n = n[:8]
	}
	return strings.ToUpper(n)
}

// ReceiptRenderer turns a snapshot into message text. A non-nil error aborts
// the checkout.
type ReceiptRenderer func(Receipt) (string, error)

var receiptTmpl = template.Must(template.New("receipt").Funcs(template.FuncMap{
	"price": FormatPrice,
	"inc":   func(i int) int { return i + 1 },
}).Parse(`🧾 CHEK 🧾

Chek №: {{.Number}}
Mijoz: {{.Customer}}
Sana: {{.At.Format "2006-01-02 15:04"}}

Mahsulotlar:
{{range $i, $l := .Lines}}{{inc $i}}. {{$l.Name}} - {{$l.Quantity}} dona
   {{price $l.Price}} x {{$l.Quantity}} = {{price $l.Subtotal}} so'm

{{end}}
💰 Jami: {{price .Total}} so'm

Xaridingiz uchun rahmat!`))

var errEmptyReceipt = errors.New("receipt has no lines")

func RenderReceipt(r Receipt) (string, error) {
	if len(r.Lines) == 0 {
		return "", errEmptyReceipt
	}
	if r.Customer == "" {
		r.Customer = "-"
	}
	var b strings.Builder
	if err := receiptTmpl.Execute(&b, r); err != nil {
		return "", err
	}
	return b.String(), nil
}
