package bot

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ariefcatur/korzinka-bot/internal/dialog"
	"github.com/ariefcatur/korzinka-bot/internal/events"
	"github.com/ariefcatur/korzinka-bot/internal/shop"
	"github.com/ariefcatur/korzinka-bot/internal/view"
)

type CheckoutPublisher interface {
	PublishCheckout(ctx context.Context, c events.CartCheckedOutPayload) error
}

// Router turns one Event plus the sender's dialogue state into a Response.
// Events of the same user are serialized through the tracker session; events
// of different users run fully in parallel.
type Router struct {
	Catalog   shop.Catalog
	Cart      shop.Cart
	States    *dialog.Tracker
	Admins    Authorizer
	Publisher CheckoutPublisher    // optional
	Render    view.ReceiptRenderer // optional, view.RenderReceipt
	Log       *zap.Logger          // optional
	Now       func() time.Time     // optional
	NewID     func() string        // optional, receipt ids
}

// Turn is the per-event context handed to a handler.
type Turn struct {
	Event
	Session *dialog.Session
	State   dialog.State
	Token   view.Token
}

type handlerFunc func(ctx context.Context, t *Turn) (Response, error)

type route struct {
	op    string
	admin bool // checked once, before the handler runs
	reset bool // abandons any dialogue in progress
	h     handlerFunc
}

func (r *Router) Handle(ctx context.Context, ev Event) Response {
	sess := r.States.Acquire(ev.UserID)
	defer sess.Release()

	t := &Turn{Event: ev, Session: sess, State: sess.State()}
	rt := r.route(t)
	log := r.logger().With(
		zap.String("op", rt.op),
		zap.Int64("user_id", ev.UserID),
		zap.Stringer("kind", ev.Kind),
		zap.Stringer("step", t.State.Step),
	)

	if rt.admin && (r.Admins == nil || !r.Admins.IsAdmin(ev.UserID)) {
		log.Info("admin action refused")
		return r.reply(ev, view.MsgAdminOnly, nil)
	}

	prev := t.State
	if rt.reset {
		sess.Clear()
		t.State = dialog.State{}
	}

	resp, err := rt.h(ctx, t)
	if err == nil {
		log.Debug("handled")
		return resp
	}

	// Failed turns never move the dialogue.
	sess.Set(prev)
	if errors.Is(err, shop.ErrNotFound) {
		log.Info("stale reference", zap.Error(err))
		return r.reply(ev, view.MsgNotFound, nil)
	}
	log.Error("handle event", zap.Error(err))
	return r.reply(ev, view.MsgFailure, nil)
}

// reply answers callbacks with a notice and everything else with a message.
func (r *Router) reply(ev Event, text string, kb *view.Keyboard) Response {
	if ev.Kind == KindCallback {
		return notice(text)
	}
	return say(text, kb)
}

func (r *Router) menuRoute(text string) (route, bool) {
	switch text {
	case view.BtnProducts:
		return route{op: "browse", reset: true, h: r.browse}, true
	case view.BtnCart:
		return route{op: "show_cart", reset: true, h: r.showCart}, true
	case view.BtnMainMenu:
		return route{op: "main_menu", reset: true, h: r.mainMenu}, true
	case view.BtnAddProduct:
		return route{op: "add_product", admin: true, reset: true, h: r.addProductStart}, true
	case view.BtnEditProduct:
		return route{op: "edit_product", admin: true, reset: true, h: r.editProductStart}, true
	case view.BtnDeleteProduct:
		return route{op: "delete_product", admin: true, reset: true, h: r.deleteProductStart}, true
	}
	return route{}, false
}

func (r *Router) route(t *Turn) route {
	switch t.Kind {
	case KindCommand:
		switch t.Command {
		case "start":
			return route{op: "start", reset: true, h: r.start}
		case "admin":
			return route{op: "admin", admin: true, reset: true, h: r.adminPanel}
		case "cancel":
			return route{op: "cancel", reset: true, h: r.cancel}
		}
		return route{op: "unknown_command", h: r.unknown}

	case KindText:
		if rt, ok := r.menuRoute(t.Text); ok {
			return rt
		}
		switch t.State.Step {
		case dialog.StepProductName:
			return route{op: "add_product_name", admin: true, h: r.addProductName}
		case dialog.StepProductPrice:
			return route{op: "add_product_price", admin: true, h: r.addProductPrice}
		case dialog.StepEditName:
			return route{op: "edit_product_name", admin: true, h: r.editProductName}
		case dialog.StepEditPrice:
			return route{op: "edit_product_price", admin: true, h: r.editProductPrice}
		case dialog.StepQuantity:
			return route{op: "quantity", h: r.quantity}
		}
		return route{op: "unknown_text", h: r.unknown}

	case KindCallback:
		tok, err := view.ParseToken(t.Data)
		if err != nil {
			return route{op: "bad_token", h: r.unknownAction}
		}
		t.Token = tok
		switch tok.Action {
		case view.ActProduct:
			return route{op: "select_product", h: r.selectProduct}
		case view.ActRemove:
			return route{op: "remove_item", h: r.removeItem}
		case view.ActCheckout:
			return route{op: "checkout", h: r.checkout}
		case view.ActEdit:
			return route{op: "edit_select", admin: true, h: r.editSelect}
		case view.ActOption:
			return route{op: "edit_option", admin: true, h: r.editOption}
		case view.ActDelete:
			return route{op: "delete_select", admin: true, h: r.deleteSelect}
		}
	}
	return route{op: "unknown", h: r.unknownAction}
}

func (r *Router) logger() *zap.Logger {
	if r.Log == nil {
		return zap.NewNop()
	}
	return r.Log
}

func (r *Router) now() time.Time {
	if r.Now == nil {
		return time.Now()
	}
	return r.Now()
}

func (r *Router) newID() string {
	if r.NewID == nil {
		return uuid.NewString()
	}
	return r.NewID()
}

func (r *Router) render(rc view.Receipt) (string, error) {
	if r.Render == nil {
		return view.RenderReceipt(rc)
	}
	return r.Render(rc)
}
