package view

import (
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ariefcatur/korzinka-bot/internal/shop"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormatPrice(t *testing.T) {
	cases := map[string]string{
		"0":          "0.00",
		"12.5":       "12.50",
		"999":        "999.00",
		"1000":       "1 000.00",
		"12500":      "12 500.00",
		"1234567.89": "1 234 567.89",
		"-4500":      "-4 500.00",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatPrice(dec(in)), in)
	}
}

func TestParseToken(t *testing.T) {
	good := map[string]Token{
		"product:12":   {Action: ActProduct, ID: 12},
		"edit:3":       {Action: ActEdit, ID: 3},
		"delete:4":     {Action: ActDelete, ID: 4},
		"remove:99":    {Action: ActRemove, ID: 99},
		"option:name":  {Action: ActOption, Option: OptionName},
		"option:price": {Action: ActOption, Option: OptionPrice},
		"checkout":     {Action: ActCheckout},
	}
	for in, want := range good {
		got, err := ParseToken(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
		assert.Equal(t, in, got.String(), "round trip %s", in)
	}

	for _, in := range []string{"", "product", "product:", "product:abc", "product:-1", "product:0",
		"option:size", "checkout:1", "buy:1", ":1"} {
		_, err := ParseToken(in)
		assert.ErrorIs(t, err, ErrBadToken, in)
	}
}

func TestKeyboards(t *testing.T) {
	products := []shop.Product{{ID: 1, Name: "Bread", Price: dec("12.50")}, {ID: 2, Name: "Milk", Price: dec("9")}}

	kb := ProductList(products, ActProduct)
	require.Equal(t, Inline, kb.Kind)
	require.Len(t, kb.Rows, 2)
	assert.Equal(t, Button{Label: "Bread - 12.50 so'm", Token: "product:1"}, kb.Rows[0][0])

	assert.Equal(t, "delete:2", ProductList(products, ActDelete).Rows[1][0].Token)

	cart := CartActions([]shop.CartLine{{ItemID: 7, Name: "Bread"}})
	require.Len(t, cart.Rows, 2)
	assert.Equal(t, "remove:7", cart.Rows[0][0].Token)
	assert.Equal(t, "checkout", cart.Rows[1][0].Token)

	pad := QuantityPad()
	assert.Equal(t, Menu, pad.Kind)
	require.Len(t, pad.Rows, 3)
	assert.Equal(t, "9", pad.Rows[2][2].Label)

	opts := EditOptions()
	assert.Equal(t, "option:name", opts.Rows[0][0].Token)
	assert.Equal(t, "option:price", opts.Rows[0][1].Token)

	assert.Equal(t, BtnProducts, MainMenu().Rows[0][0].Label)
	assert.Len(t, AdminMenu().Rows, 4)
}

func TestCartText(t *testing.T) {
	text := CartText([]shop.CartLine{{ItemID: 1, Name: "Bread", Price: dec("12.50"), Quantity: 3}})
	assert.Contains(t, text, "1. Bread - 3 dona")
	assert.Contains(t, text, "12.50 x 3 = 37.50 so'm")
	assert.True(t, strings.HasSuffix(text, "💰 Jami: 37.50 so'm"))
}

func TestRenderReceipt(t *testing.T) {
	r := Receipt{
		ID:       "3f1c2a9b-0000-4000-8000-000000000000",
		Customer: "Ali Valiyev",
		At:       time.Date(2026, 3, 1, 14, 5, 0, 0, time.UTC),
		Lines: []shop.CartLine{
			{ItemID: 1, Name: "Bread", Price: dec("12.50"), Quantity: 3},
			{ItemID: 2, Name: "Milk", Price: dec("9.99"), Quantity: 1},
		},
	}
	text, err := RenderReceipt(r)
	require.NoError(t, err)

	assert.Contains(t, text, "Chek №: 3F1C2A9B")
	assert.Contains(t, text, "Mijoz: Ali Valiyev")
	assert.Contains(t, text, "Sana: 2026-03-01 14:05")
	assert.Contains(t, text, "1. Bread - 3 dona")
	assert.Contains(t, text, "12.50 x 3 = 37.50 so'm")
	assert.Contains(t, text, "2. Milk - 1 dona")
	assert.Contains(t, text, "💰 Jami: 47.49 so'm")
	assert.Equal(t, "47.49", r.Total().StringFixed(2))

	_, err = RenderReceipt(Receipt{})
	assert.Error(t, err)
}
