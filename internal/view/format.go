package view

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/ariefcatur/korzinka-bot/internal/shop"
)

const currency = "so'm"

// FormatPrice prints two decimals with thousands split by spaces: "12 500.00".
func FormatPrice(d decimal.Decimal) string {
	s := d.StringFixed(2)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(' ')
		}
		b.WriteRune(r)
	}
	b.WriteByte('.')
	b.WriteString(frac)
	return b.String()
}

func ProductLabel(p shop.Product) string {
	return fmt.Sprintf("%s - %s %s", p.Name, FormatPrice(p.Price), currency)
}

func ProductCard(p shop.Product) string {
	return fmt.Sprintf("📦 %s\n💰 Narxi: %s %s\n\n%s", p.Name, FormatPrice(p.Price), currency, MsgAskQuantity)
}

func ProductSummary(p shop.Product) string {
	return fmt.Sprintf("Mahsulot: %s, Narxi: %s %s\n\n%s", p.Name, FormatPrice(p.Price), currency, MsgEditWhat)
}

func ProductAdded(name string, price decimal.Decimal) string {
	return fmt.Sprintf("Mahsulot qo'shildi:\nNomi: %s\nNarxi: %s %s", name, FormatPrice(price), currency)
}

func ProductRenamed(name string) string {
	return "Mahsulot nomi o'zgartirildi:\nYangi nomi: " + name
}

func ProductRepriced(name string, price decimal.Decimal) string {
	return fmt.Sprintf("Mahsulot narxi o'zgartirildi:\nMahsulot: %s\nYangi narxi: %s %s", name, FormatPrice(price), currency)
}

func ProductDeleted(name string) string { return "Mahsulot o'chirildi: " + name }

func AddedToCart(name string, qty int) string {
	return fmt.Sprintf("%s savatga qo'shildi. Miqdori: %d", name, qty)
}

func writeLines(b *strings.Builder, lines []shop.CartLine) {
	for i, l := range lines {
		fmt.Fprintf(b, "%d. %s - %d dona\n   %s x %d = %s %s\n\n",
			i+1, l.Name, l.Quantity, FormatPrice(l.Price), l.Quantity, FormatPrice(l.Subtotal()), currency)
	}
}

// CartText lists every line with its subtotal and the cart total.
func CartText(lines []shop.CartLine) string {
	var b strings.Builder
	b.WriteString("🧺 Savatingizdagi mahsulotlar:\n\n")
	writeLines(&b, lines)
	fmt.Fprintf(&b, "\n💰 Jami: %s %s", FormatPrice(shop.Total(lines)), currency)
	return b.String()
}
