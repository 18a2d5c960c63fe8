package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/ariefcatur/korzinka-bot/internal/dialog"
	"github.com/ariefcatur/korzinka-bot/internal/events"
	"github.com/ariefcatur/korzinka-bot/internal/shop"
	"github.com/ariefcatur/korzinka-bot/internal/view"
)

func (r *Router) start(_ context.Context, t *Turn) (Response, error) {
	name := t.FirstName
	if name == "" {
		name = t.FullName
	}
	return say(fmt.Sprintf(view.MsgWelcomeFmt, name), view.MainMenu()), nil
}

func (r *Router) cancel(context.Context, *Turn) (Response, error) {
	return say(view.MsgCancelled, view.MainMenu()), nil
}

func (r *Router) mainMenu(context.Context, *Turn) (Response, error) {
	return say(view.MsgBackToMain, view.MainMenu()), nil
}

func (r *Router) unknown(context.Context, *Turn) (Response, error) {
	return say(view.MsgUnknownCommand, view.MainMenu()), nil
}

func (r *Router) unknownAction(context.Context, *Turn) (Response, error) {
	return notice(view.MsgUnknownAction), nil
}

func (r *Router) browse(ctx context.Context, _ *Turn) (Response, error) {
	products, err := r.Catalog.ListProducts(ctx)
	if err != nil {
		return Response{}, err
	}
	if len(products) == 0 {
		return say(view.MsgNoProducts, nil), nil
	}
	return say(view.MsgProductList, view.ProductList(products, view.ActProduct)), nil
}

func (r *Router) selectProduct(ctx context.Context, t *Turn) (Response, error) {
	p, err := r.Catalog.GetProduct(ctx, t.Token.ID)
	if err != nil {
		return Response{}, err
	}
	t.Session.Set(dialog.State{}.With(dialog.StepQuantity,
		dialog.KeyProductID, strconv.FormatInt(p.ID, 10)))

	return say(view.ProductCard(p), view.QuantityPad()), nil
}

func quantityReprompt(err error) string {
	var ve *shop.ValidationError
	if errors.As(err, &ve) {
		switch ve.Reason {
		case shop.ReasonNotPositive:
			return view.MsgQtyPositive
		case shop.ReasonTooLarge:
			return view.MsgQtyTooLarge
		}
	}
	return view.MsgQtyNumber
}

func (r *Router) quantity(ctx context.Context, t *Turn) (Response, error) {
	qty, err := shop.ParseQuantity(t.Text)
	if err != nil {
		return say(quantityReprompt(err), nil), nil
	}

	pid, err := strconv.ParseInt(t.State.Data[dialog.KeyProductID], 10, 64)
	if err != nil {
		// quantity step without a product; start over
		t.Session.Clear()
		return say(view.MsgFailure, view.MainMenu()), nil
	}

	p, err := r.Catalog.GetProduct(ctx, pid)
	if err == nil {
		err = r.Cart.AddToCart(ctx, t.UserID, pid, qty)
	}
	if errors.Is(err, shop.ErrNotFound) {
		// deleted while the user was choosing; nothing left to wait for
		t.Session.Clear()
		return say(view.MsgNotFound, view.MainMenu()), nil
	}
	if err != nil {
		return Response{}, err
	}

	t.Session.Clear()
	return say(view.AddedToCart(p.Name, qty), view.MainMenu()), nil
}

func (r *Router) showCart(ctx context.Context, t *Turn) (Response, error) {
	lines, err := r.Cart.ListCart(ctx, t.UserID)
	if err != nil {
		return Response{}, err
	}
	if len(lines) == 0 {
		return say(view.MsgCartEmpty, view.MainMenu()), nil
	}
	return say(view.CartText(lines), view.CartActions(lines)), nil
}

func (r *Router) removeItem(ctx context.Context, t *Turn) (Response, error) {
	resp := notice(view.MsgRemoved)
	err := r.Cart.RemoveFromCart(ctx, t.UserID, t.Token.ID)
	switch {
	case errors.Is(err, shop.ErrNotFound):
		resp.Notice = view.MsgItemNotFound
	case err != nil:
		return Response{}, err
	}

	lines, err := r.Cart.ListCart(ctx, t.UserID)
	if err != nil {
		return Response{}, err
	}
	if len(lines) == 0 {
		resp.Edit = &Message{Text: view.MsgCartEmpty}
		resp.Messages = []Message{{Text: view.MsgCartEmpty, Keyboard: view.MainMenu()}}
		return resp, nil
	}
	resp.Edit = &Message{Text: view.CartText(lines), Keyboard: view.CartActions(lines)}
	return resp, nil
}

// checkout renders the receipt from the locked cart rows; the rows are only
// deleted once rendering succeeded.
func (r *Router) checkout(ctx context.Context, t *Turn) (Response, error) {
	receipt := view.Receipt{ID: r.newID(), Customer: t.FullName, At: r.now()}
	var text string

	lines, err := r.Cart.Checkout(ctx, t.UserID, func(lines []shop.CartLine) error {
		receipt.Lines = lines
		var err error
		text, err = r.render(receipt)
		if err != nil {
			return fmt.Errorf("render receipt: %w", err)
		}
		return nil
	})
	if errors.Is(err, shop.ErrEmptyCart) {
		return notice(view.MsgCartEmpty), nil
	}
	if err != nil {
		return Response{}, err
	}
	receipt.Lines = lines

	if r.Publisher != nil {
		if err := r.Publisher.PublishCheckout(ctx, checkoutEvent(t.UserID, receipt)); err != nil {
			r.logger().Warn("checkout event not published",
				zap.String("op", "checkout"),
				zap.Int64("user_id", t.UserID),
				zap.String("receipt_id", receipt.ID),
				zap.Error(err))
		}
	}

	return Response{
		Messages: []Message{
			{Text: text},
			{Text: view.MsgShopMore, Keyboard: view.MainMenu()},
		},
		Notice: view.MsgThanks,
	}, nil
}

func checkoutEvent(userID int64, rc view.Receipt) events.CartCheckedOutPayload {
	lines := make([]events.CheckoutLine, 0, len(rc.Lines))
	for _, l := range rc.Lines {
		lines = append(lines, events.CheckoutLine{
			ProductID: l.ProductID,
			Name:      l.Name,
			Price:     l.Price.StringFixed(2),
			Quantity:  l.Quantity,
		})
	}
	return events.CartCheckedOutPayload{
		ReceiptID: rc.ID,
		UserID:    userID,
		Customer:  rc.Customer,
		Lines:     lines,
		Total:     rc.Total().StringFixed(2),
		OrderedAt: rc.At.UTC(),
	}
}
