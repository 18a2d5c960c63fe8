package bot

import (
	"context"
	"errors"
	"strconv"

	"github.com/ariefcatur/korzinka-bot/internal/dialog"
	"github.com/ariefcatur/korzinka-bot/internal/shop"
	"github.com/ariefcatur/korzinka-bot/internal/view"
)

// Every handler here is reached only through routes marked admin.

func (r *Router) adminPanel(context.Context, *Turn) (Response, error) {
	return say(view.MsgAdminWelcome, view.AdminMenu()), nil
}

func nameReprompt(err error) string {
	var ve *shop.ValidationError
	if errors.As(err, &ve) && ve.Reason == shop.ReasonTooLong {
		return view.MsgNameTooLong
	}
	return view.MsgNameEmpty
}

func priceReprompt(err error) string {
	var ve *shop.ValidationError
	if errors.As(err, &ve) {
		switch ve.Reason {
		case shop.ReasonNotPositive:
			return view.MsgPricePositive
		case shop.ReasonTooPrecise:
			return view.MsgPriceTooPrecise
		case shop.ReasonTooLarge:
			return view.MsgPriceTooLarge
		}
	}
	return view.MsgEnterNumber
}

func (r *Router) addProductStart(_ context.Context, t *Turn) (Response, error) {
	t.Session.Set(dialog.State{Step: dialog.StepProductName})
	return say(view.MsgAskName, view.NoKeyboard()), nil
}

func (r *Router) addProductName(_ context.Context, t *Turn) (Response, error) {
	name, err := shop.NormalizeName(t.Text)
	if err != nil {
		return say(nameReprompt(err), nil), nil
	}
	t.Session.Set(t.State.With(dialog.StepProductPrice, dialog.KeyName, name))
	return say(view.MsgAskPrice, nil), nil
}

func (r *Router) addProductPrice(ctx context.Context, t *Turn) (Response, error) {
	price, err := shop.ParsePrice(t.Text)
	if err != nil {
		return say(priceReprompt(err), nil), nil
	}
	name := t.State.Data[dialog.KeyName]
	if name == "" {
		t.Session.Set(dialog.State{Step: dialog.StepProductName})
		return say(view.MsgAskName, nil), nil
	}

	if _, err := r.Catalog.AddProduct(ctx, name, price); err != nil {
		return Response{}, err
	}
	t.Session.Clear()
	return say(view.ProductAdded(name, price), view.AdminMenu()), nil
}

func (r *Router) editProductStart(ctx context.Context, _ *Turn) (Response, error) {
	return r.adminProductList(ctx, view.MsgChooseToEdit, view.ActEdit)
}

func (r *Router) deleteProductStart(ctx context.Context, _ *Turn) (Response, error) {
	return r.adminProductList(ctx, view.MsgChooseToDelete, view.ActDelete)
}

func (r *Router) adminProductList(ctx context.Context, prompt string, act view.Action) (Response, error) {
	products, err := r.Catalog.ListProducts(ctx)
	if err != nil {
		return Response{}, err
	}
	if len(products) == 0 {
		return say(view.MsgNoProducts, nil), nil
	}
	return say(prompt, view.ProductList(products, act)), nil
}

func (r *Router) editSelect(ctx context.Context, t *Turn) (Response, error) {
	p, err := r.Catalog.GetProduct(ctx, t.Token.ID)
	if err != nil {
		return Response{}, err
	}
	t.Session.Set(dialog.State{}.With(dialog.StepNone,
		dialog.KeyProductID, strconv.FormatInt(p.ID, 10)))
	return say(view.ProductSummary(p), view.EditOptions()), nil
}

func (r *Router) editOption(_ context.Context, t *Turn) (Response, error) {
	if t.State.Data[dialog.KeyProductID] == "" {
		return notice(view.MsgNotFound), nil
	}
	if t.Token.Option == view.OptionName {
		t.Session.Set(t.State.With(dialog.StepEditName))
		return say(view.MsgAskNewName, view.NoKeyboard()), nil
	}
	t.Session.Set(t.State.With(dialog.StepEditPrice))
	return say(view.MsgAskNewPrice, view.NoKeyboard()), nil
}

// pendingProduct loads the product an edit dialogue refers to.
func (r *Router) pendingProduct(ctx context.Context, t *Turn) (shop.Product, error) {
	pid, err := strconv.ParseInt(t.State.Data[dialog.KeyProductID], 10, 64)
	if err != nil {
		return shop.Product{}, shop.ErrNotFound
	}
	return r.Catalog.GetProduct(ctx, pid)
}

// productGone ends an edit dialogue whose product was deleted meanwhile.
func productGone(t *Turn) Response {
	t.Session.Clear()
	return say(view.MsgNotFound, view.AdminMenu())
}

func (r *Router) editProductName(ctx context.Context, t *Turn) (Response, error) {
	name, err := shop.NormalizeName(t.Text)
	if err != nil {
		return say(nameReprompt(err), nil), nil
	}
	p, err := r.pendingProduct(ctx, t)
	if err == nil {
		err = r.Catalog.UpdateProduct(ctx, p.ID, name, p.Price)
	}
	if errors.Is(err, shop.ErrNotFound) {
		return productGone(t), nil
	}
	if err != nil {
		return Response{}, err
	}
	t.Session.Clear()
	return say(view.ProductRenamed(name), view.AdminMenu()), nil
}

func (r *Router) editProductPrice(ctx context.Context, t *Turn) (Response, error) {
	price, err := shop.ParsePrice(t.Text)
	if err != nil {
		return say(priceReprompt(err), nil), nil
	}
	p, err := r.pendingProduct(ctx, t)
	if err == nil {
		err = r.Catalog.UpdateProduct(ctx, p.ID, p.Name, price)
	}
	if errors.Is(err, shop.ErrNotFound) {
		return productGone(t), nil
	}
	if err != nil {
		return Response{}, err
	}
	t.Session.Clear()
	return say(view.ProductRepriced(p.Name, price), view.AdminMenu()), nil
}

func (r *Router) deleteSelect(ctx context.Context, t *Turn) (Response, error) {
	p, err := r.Catalog.GetProduct(ctx, t.Token.ID)
	if err != nil {
		return Response{}, err
	}
	if err := r.Catalog.DeleteProduct(ctx, p.ID); err != nil {
		return Response{}, err
	}
	return say(view.ProductDeleted(p.Name), view.AdminMenu()), nil
}
