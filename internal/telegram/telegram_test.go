package telegram

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/ariefcatur/korzinka-bot/internal/bot"
	"github.com/ariefcatur/korzinka-bot/internal/view"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeAPI struct {
	mu       sync.Mutex
	sent     []tgbotapi.Chattable
	requests []tgbotapi.Chattable
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{}, nil
}

func (f *fakeAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func textUpdate(id int, userID int64, text string) tgbotapi.Update {
	return tgbotapi.Update{
		UpdateID: id,
		Message: &tgbotapi.Message{
			MessageID: id,
			From:      &tgbotapi.User{ID: userID, FirstName: "Ali", LastName: "Valiyev"},
			Chat:      &tgbotapi.Chat{ID: userID},
			Text:      text,
		},
	}
}

func TestToEvent(t *testing.T) {
	ev, ok := ToEvent(textUpdate(1, 42, "3"))
	require.True(t, ok)
	assert.Equal(t, bot.KindText, ev.Kind)
	assert.Equal(t, int64(42), ev.UserID)
	assert.Equal(t, "3", ev.Text)
	assert.Equal(t, "Ali Valiyev", ev.FullName)
	assert.Equal(t, "Ali", ev.FirstName)

	cmd := textUpdate(2, 42, "/Start@korzinka_bot")
	cmd.Message.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: 19}}
	ev, ok = ToEvent(cmd)
	require.True(t, ok)
	assert.Equal(t, bot.KindCommand, ev.Kind)
	assert.Equal(t, "start", ev.Command)

	ev, ok = ToEvent(tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb1",
		From:    &tgbotapi.User{ID: 42, FirstName: "Ali"},
		Message: &tgbotapi.Message{MessageID: 77, Chat: &tgbotapi.Chat{ID: -100}},
		Data:    "product:3",
	}})
	require.True(t, ok)
	assert.Equal(t, bot.KindCallback, ev.Kind)
	assert.Equal(t, int64(-100), ev.ChatID)
	assert.Equal(t, 77, ev.MessageID)
	assert.Equal(t, "product:3", ev.Data)
	assert.Equal(t, "cb1", ev.CallbackID)

	_, ok = ToEvent(tgbotapi.Update{EditedMessage: &tgbotapi.Message{Text: "x"}})
	assert.False(t, ok)
	_, ok = ToEvent(tgbotapi.Update{Message: &tgbotapi.Message{Text: "x", Chat: &tgbotapi.Chat{ID: 1}}})
	assert.False(t, ok, "no sender")
}

func TestReplyMarkup(t *testing.T) {
	assert.Nil(t, replyMarkup(nil))

	menu, ok := replyMarkup(view.MainMenu()).(tgbotapi.ReplyKeyboardMarkup)
	require.True(t, ok)
	assert.True(t, menu.ResizeKeyboard)
	require.Len(t, menu.Keyboard, 2)
	assert.Equal(t, view.BtnProducts, menu.Keyboard[0][0].Text)

	inline, ok := replyMarkup(view.EditOptions()).(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.Len(t, inline.InlineKeyboard, 1)
	require.NotNil(t, inline.InlineKeyboard[0][1].CallbackData)
	assert.Equal(t, "option:price", *inline.InlineKeyboard[0][1].CallbackData)

	_, ok = replyMarkup(view.NoKeyboard()).(tgbotapi.ReplyKeyboardRemove)
	assert.True(t, ok)
}

func TestDeliverCallback(t *testing.T) {
	api := &fakeAPI{}
	ev := bot.Event{Kind: bot.KindCallback, UserID: 42, ChatID: 42, CallbackID: "cb1", MessageID: 9}
	resp := bot.Response{
		Notice:   view.MsgRemoved,
		Edit:     &bot.Message{Text: "cart", Keyboard: &view.Keyboard{Kind: view.Inline, Rows: [][]view.Button{{{Label: "x", Token: "checkout"}}}}},
		Messages: []bot.Message{{Text: "hi", Keyboard: view.MainMenu()}},
	}
	deliver(api, zap.NewNop(), ev, resp)

	require.Len(t, api.requests, 1)
	cb := api.requests[0].(tgbotapi.CallbackConfig)
	assert.Equal(t, "cb1", cb.CallbackQueryID)
	assert.Equal(t, view.MsgRemoved, cb.Text)

	require.Len(t, api.sent, 2)
	edit := api.sent[0].(tgbotapi.EditMessageTextConfig)
	assert.Equal(t, 9, edit.MessageID)
	assert.Equal(t, "cart", edit.Text)
	require.NotNil(t, edit.ReplyMarkup)

	msg := api.sent[1].(tgbotapi.MessageConfig)
	assert.Equal(t, "hi", msg.Text)
	assert.IsType(t, tgbotapi.ReplyKeyboardMarkup{}, msg.ReplyMarkup)
}

type recordingHandler struct {
	mu  sync.Mutex
	got map[int64][]string
}

func (h *recordingHandler) Handle(_ context.Context, ev bot.Event) bot.Response {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.got == nil {
		h.got = map[int64][]string{}
	}
	h.got[ev.UserID] = append(h.got[ev.UserID], ev.Text)
	return bot.Response{Messages: []bot.Message{{Text: "ok"}}}
}

type memDedup struct {
	mu   sync.Mutex
	seen map[string]bool
}

func (d *memDedup) FirstSeen(_ context.Context, scope, id string) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.seen == nil {
		d.seen = map[string]bool{}
	}
	k := scope + ":" + id
	if d.seen[k] {
		return false, nil
	}
	d.seen[k] = true
	return true, nil
}

func TestDispatcherKeepsPerUserOrder(t *testing.T) {
	api := &fakeAPI{}
	h := &recordingHandler{}
	d := &Dispatcher{API: api, Handler: h, Dedup: &memDedup{}, Workers: 4, Log: zap.NewNop()}

	updates := make(chan tgbotapi.Update)
	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background(), updates) }()

	const users, perUser = 10, 20
	id := 0
	for i := 0; i < perUser; i++ {
		for u := int64(1); u <= users; u++ {
			id++
			updates <- textUpdate(id, u, fmt.Sprint(i))
		}
	}
	// redelivery of an already seen update
	updates <- textUpdate(1, 1, "dup")
	close(updates)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not stop")
	}

	for u := int64(1); u <= users; u++ {
		got := h.got[u]
		require.Len(t, got, perUser, "user %d", u)
		for i, s := range got {
			assert.Equal(t, fmt.Sprint(i), s)
		}
	}
	assert.Len(t, api.sent, users*perUser)
}

func TestDispatcherStopsOnCancel(t *testing.T) {
	d := &Dispatcher{API: &fakeAPI{}, Handler: &recordingHandler{}, Workers: 2, Log: zap.NewNop()}
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx, make(chan tgbotapi.Update)) }()
	cancel()

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
}

type blockingHandler struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (h *blockingHandler) Handle(context.Context, bot.Event) bot.Response {
	h.once.Do(func() { close(h.started) })
	<-h.release
	return bot.Response{}
}

func TestDispatcherFullQueueWaitsInsteadOfDropping(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	h := &blockingHandler{started: make(chan struct{}), release: make(chan struct{})}
	d := &Dispatcher{API: &fakeAPI{}, Handler: h, Workers: 1, QueueSize: 1, Log: zap.New(core)}

	updates := make(chan tgbotapi.Update)
	done := make(chan error, 1)
	go func() { done <- d.Run(context.Background(), updates) }()

	updates <- textUpdate(1, 42, "a")
	<-h.started
	updates <- textUpdate(2, 42, "b") // fills the queue
	updates <- textUpdate(3, 42, "c") // read loop now waits on the worker

	require.Eventually(t, func() bool {
		return logs.FilterMessage("worker queue full, polling paused").Len() == 1
	}, 2*time.Second, 5*time.Millisecond)

	close(h.release)
	close(updates)
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("dispatcher did not stop")
	}
	assert.Equal(t, 1, logs.FilterMessage("polling resumed").Len())
}
