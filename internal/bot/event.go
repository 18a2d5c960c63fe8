package bot

import "github.com/ariefcatur/korzinka-bot/internal/view"

type EventKind int

const (
	KindCommand EventKind = iota + 1
	KindText
	KindCallback
)

func (k EventKind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindText:
		return "text"
	case KindCallback:
		return "callback"
	}
	return "unknown"
}

// Event is one inbound update, already stripped of transport details.
type Event struct {
	Kind      EventKind
	UserID    int64
	ChatID    int64
	FirstName string
	FullName  string

	Command string // without the slash, KindCommand only
	Text    string // KindText only
	Data    string // action token, KindCallback only

	CallbackID string
	MessageID  int // message that carried the pressed button
}

type Message struct {
	Text     string
	Keyboard *view.Keyboard
}

// Response is everything the transport should do for one event.
type Response struct {
	Messages []Message
	Edit     *Message // replaces the text of the message a callback came from
	Notice   string   // short callback answer
}

func say(text string, kb *view.Keyboard) Response {
	return Response{Messages: []Message{{Text: text, Keyboard: kb}}}
}

func notice(text string) Response { return Response{Notice: text} }

// Authorizer decides who may manage the catalog.
type Authorizer interface {
	IsAdmin(userID int64) bool
}

// AllowList is a fixed set of admin user ids.
type AllowList map[int64]struct{}

func NewAllowList(ids []int64) AllowList {
	a := make(AllowList, len(ids))
	for _, id := range ids {
		a[id] = struct{}{}
	}
	return a
}

func (a AllowList) IsAdmin(userID int64) bool {
	_, ok := a[userID]
	return ok
}
