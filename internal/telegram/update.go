package telegram

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/ariefcatur/korzinka-bot/internal/bot"
)

// ToEvent strips an update down to what the router needs. Updates the bot
// does not handle (edits, channel posts, anonymous senders) report false.
func ToEvent(u tgbotapi.Update) (bot.Event, bool) {
	switch {
	case u.CallbackQuery != nil:
		cq := u.CallbackQuery
		if cq.From == nil {
			return bot.Event{}, false
		}
		ev := bot.Event{
			Kind:       bot.KindCallback,
			UserID:     cq.From.ID,
			ChatID:     cq.From.ID,
			FirstName:  cq.From.FirstName,
			FullName:   fullName(cq.From),
			Data:       cq.Data,
			CallbackID: cq.ID,
		}
		if cq.Message != nil && cq.Message.Chat != nil {
			ev.ChatID = cq.Message.Chat.ID
			ev.MessageID = cq.Message.MessageID
		}
		return ev, true

	case u.Message != nil:
		m := u.Message
		if m.From == nil || m.Chat == nil {
			return bot.Event{}, false
		}
		ev := bot.Event{
			UserID:    m.From.ID,
			ChatID:    m.Chat.ID,
			FirstName: m.From.FirstName,
			FullName:  fullName(m.From),
			MessageID: m.MessageID,
		}
		if m.IsCommand() {
			ev.Kind = bot.KindCommand
			ev.Command = strings.ToLower(m.Command())
			return ev, true
		}
		// stickers, photos and the like arrive with empty text and get
		// re-prompted like any other bad input
		ev.Kind = bot.KindText
		ev.Text = m.Text
		return ev, true
	}
	return bot.Event{}, false
}

func fullName(u *tgbotapi.User) string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}
