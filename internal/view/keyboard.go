package view

import (
	"strconv"

	"github.com/ariefcatur/korzinka-bot/internal/shop"
)

type KeyboardKind int

const (
	// Menu is a persistent reply keyboard; pressing sends the label as text.
	Menu KeyboardKind = iota + 1
	// Inline is a one-shot list of buttons carrying action tokens.
	Inline
	// RemoveMenu hides any persistent keyboard.
	RemoveMenu
)

type Button struct {
	Label string
	Token string // empty for Menu buttons
}

// Keyboard is a transport-neutral description of a button set.
type Keyboard struct {
	Kind KeyboardKind
	Rows [][]Button
}

func menu(labels ...[]string) *Keyboard {
	kb := &Keyboard{Kind: Menu}
	for _, row := range labels {
		r := make([]Button, 0, len(row))
		for _, l := range row {
			r = append(r, Button{Label: l})
		}
		kb.Rows = append(kb.Rows, r)
	}
	return kb
}

func MainMenu() *Keyboard {
	return menu([]string{BtnProducts}, []string{BtnCart})
}

func AdminMenu() *Keyboard {
	return menu(
		[]string{BtnAddProduct},
		[]string{BtnEditProduct},
		[]string{BtnDeleteProduct},
		[]string{BtnMainMenu},
	)
}

// QuantityPad offers 1..9 in rows of three.
func QuantityPad() *Keyboard {
	kb := &Keyboard{Kind: Menu}
	for start := 1; start <= 9; start += 3 {
		row := make([]Button, 0, 3)
		for i := start; i < start+3; i++ {
			row = append(row, Button{Label: strconv.Itoa(i)})
		}
		kb.Rows = append(kb.Rows, row)
	}
	return kb
}

func NoKeyboard() *Keyboard { return &Keyboard{Kind: RemoveMenu} }

// ProductList renders one product per row; act picks what pressing does
// (ActProduct for shoppers, ActEdit or ActDelete for admins).
func ProductList(products []shop.Product, act Action) *Keyboard {
	kb := &Keyboard{Kind: Inline}
	for _, p := range products {
		kb.Rows = append(kb.Rows, []Button{{Label: ProductLabel(p), Token: idToken(act, p.ID)}})
	}
	return kb
}

func EditOptions() *Keyboard {
	return &Keyboard{Kind: Inline, Rows: [][]Button{{
		{Label: BtnEditName, Token: Token{Action: ActOption, Option: OptionName}.String()},
		{Label: BtnEditPrice, Token: Token{Action: ActOption, Option: OptionPrice}.String()},
	}}}
}

// CartActions lists a remove button per line followed by checkout.
func CartActions(lines []shop.CartLine) *Keyboard {
	kb := &Keyboard{Kind: Inline}
	for _, l := range lines {
		kb.Rows = append(kb.Rows, []Button{{Label: "❌ " + l.Name, Token: idToken(ActRemove, l.ItemID)}})
	}
	kb.Rows = append(kb.Rows, []Button{{Label: BtnCheckout, Token: string(ActCheckout)}})
	return kb
}
