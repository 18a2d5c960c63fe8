package telegram

import (
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/ariefcatur/korzinka-bot/internal/bot"
	"github.com/ariefcatur/korzinka-bot/internal/view"
)

// API is the part of *tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

func replyMarkup(kb *view.Keyboard) any {
	if kb == nil {
		return nil
	}
	switch kb.Kind {
	case view.Menu:
		rows := make([][]tgbotapi.KeyboardButton, 0, len(kb.Rows))
		for _, r := range kb.Rows {
			row := make([]tgbotapi.KeyboardButton, 0, len(r))
			for _, b := range r {
				row = append(row, tgbotapi.NewKeyboardButton(b.Label))
			}
			rows = append(rows, row)
		}
		m := tgbotapi.NewReplyKeyboard(rows...)
		m.ResizeKeyboard = true
		return m
	case view.Inline:
		return inlineMarkup(kb)
	case view.RemoveMenu:
		return tgbotapi.NewRemoveKeyboard(false)
	}
	return nil
}

func inlineMarkup(kb *view.Keyboard) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(kb.Rows))
	for _, r := range kb.Rows {
		row := make([]tgbotapi.InlineKeyboardButton, 0, len(r))
		for _, b := range r {
			row = append(row, tgbotapi.NewInlineKeyboardButtonData(b.Label, b.Token))
		}
		rows = append(rows, row)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

// deliver performs a Response. A failed call is logged and the rest still
// go out; a callback is always answered so the client stops its spinner.
func deliver(api API, log *zap.Logger, ev bot.Event, resp bot.Response) {
	log = log.With(zap.Int64("user_id", ev.UserID), zap.Stringer("kind", ev.Kind))

	if ev.Kind == bot.KindCallback && ev.CallbackID != "" {
		if _, err := api.Request(tgbotapi.NewCallback(ev.CallbackID, resp.Notice)); err != nil {
			log.Warn("answer callback", zap.String("op", "send"), zap.Error(err))
		}
	}

	if resp.Edit != nil && ev.MessageID != 0 {
		var edit tgbotapi.Chattable
		if resp.Edit.Keyboard != nil && resp.Edit.Keyboard.Kind == view.Inline {
			edit = tgbotapi.NewEditMessageTextAndMarkup(ev.ChatID, ev.MessageID, resp.Edit.Text, inlineMarkup(resp.Edit.Keyboard))
		} else {
			edit = tgbotapi.NewEditMessageText(ev.ChatID, ev.MessageID, resp.Edit.Text)
		}
		if _, err := api.Send(edit); err != nil {
			log.Warn("edit message", zap.String("op", "send"), zap.Error(err))
		}
	}

	for _, m := range resp.Messages {
		msg := tgbotapi.NewMessage(ev.ChatID, m.Text)
		if mk := replyMarkup(m.Keyboard); mk != nil {
			msg.ReplyMarkup = mk
		}
		if _, err := api.Send(msg); err != nil {
			log.Error("send message", zap.String("op", "send"), zap.Error(err))
		}
	}
}
