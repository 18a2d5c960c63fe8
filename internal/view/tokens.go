package view

import (
	"errors"
	"strconv"
	"strings"
)

// Action is the verb part of a callback token.
type Action string

const (
	ActProduct  Action = "product"
	ActEdit     Action = "edit"
	ActDelete   Action = "delete"
	ActOption   Action = "option"
	ActRemove   Action = "remove"
	ActCheckout Action = "checkout"
)

const (
	OptionName  = "name"
	OptionPrice = "price"
)

var ErrBadToken = errors.New("malformed action token")

// Token is a parsed callback payload such as "product:12" or "option:price".
type Token struct {
	Action Action
	ID     int64
	Option string
}

func (t Token) String() string {
	switch t.Action {
	case ActCheckout:
		return string(ActCheckout)
	case ActOption:
		return string(ActOption) + ":" + t.Option
	default:
		return string(t.Action) + ":" + strconv.FormatInt(t.ID, 10)
	}
}

func ParseToken(s string) (Token, error) {
	if s == string(ActCheckout) {
		return Token{Action: ActCheckout}, nil
	}
	verb, arg, ok := strings.Cut(s, ":")
	if !ok || arg == "" {
		return Token{}, ErrBadToken
	}
	switch a := Action(verb); a {
	case ActOption:
		if arg != OptionName && arg != OptionPrice {
			return Token{}, ErrBadToken
		}
		return Token{Action: a, Option: arg}, nil
	case ActProduct, ActEdit, ActDelete, ActRemove:
		id, err := strconv.ParseInt(arg, 10, 64)
		if err != nil || id <= 0 {
			return Token{}, ErrBadToken
		}
		return Token{Action: a, ID: id}, nil
	}
	return Token{}, ErrBadToken
}

func idToken(a Action, id int64) string { return Token{Action: a, ID: id}.String() }
