// Package chattest provides a recording in-memory chat transport used by
// scene and broadcaster tests.
package chattest

import (
	"context"
	"io"
	"sync"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// Message is one message the fake transport holds.
type Message struct {
	ID       int
	ChatID   int64
	Text     string
	Photo    bool
	Keyboard domain.Keyboard
	Deleted  bool
	Edits    int
}

// Transport implements ports.ChatTransport in memory, recording every
// message and mutation for assertions. Error fields, when set, make the
// corresponding operation fail.
type Transport struct {
	mu       sync.Mutex
	nextID   int
	messages []*Message

	SendErr   error
	EditErr   error
	DeleteErr error

	sendErrByChat map[int64]error
}

// New creates an empty fake transport.
func New() *Transport {
	return &Transport{sendErrByChat: make(map[int64]error)}
}

// SendErrFor makes sends to one chat fail while others succeed.
func (tr *Transport) SendErrFor(chatID int64, err error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	tr.sendErrByChat[chatID] = err
}

func (tr *Transport) SendMessage(ctx context.Context, chatID int64, text string, kb domain.Keyboard) (int, error) {
	return tr.record(chatID, text, false, kb)
}

func (tr *Transport) SendPhoto(ctx context.Context, chatID int64, photo io.Reader, caption string, kb domain.Keyboard) (int, error) {
	return tr.record(chatID, caption, true, kb)
}

func (tr *Transport) record(chatID int64, text string, photo bool, kb domain.Keyboard) (int, error) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.SendErr != nil {
		return 0, tr.SendErr
	}
	if err := tr.sendErrByChat[chatID]; err != nil {
		return 0, err
	}

	tr.nextID++
	tr.messages = append(tr.messages, &Message{
		ID:       tr.nextID,
		ChatID:   chatID,
		Text:     text,
		Photo:    photo,
		Keyboard: kb,
	})
	return tr.nextID, nil
}

func (tr *Transport) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, kb domain.Keyboard) error {
	return tr.edit(messageID, text, kb)
}

func (tr *Transport) EditMessageCaption(ctx context.Context, chatID int64, messageID int, caption string, kb domain.Keyboard) error {
	return tr.edit(messageID, caption, kb)
}

func (tr *Transport) edit(messageID int, text string, kb domain.Keyboard) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.EditErr != nil {
		return tr.EditErr
	}

	for _, m := range tr.messages {
		if m.ID == messageID && !m.Deleted {
			m.Text = text
			m.Keyboard = kb
			m.Edits++
			return nil
		}
	}
	return domain.ErrNotFound
}

func (tr *Transport) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	if tr.DeleteErr != nil {
		return tr.DeleteErr
	}

	for _, m := range tr.messages {
		if m.ChatID == chatID && m.ID == messageID && !m.Deleted {
			m.Deleted = true
			return nil
		}
	}
	return domain.ErrNotFound
}

func (tr *Transport) DeleteMessages(ctx context.Context, chatID int64, messageIDs []int) error {
	for _, id := range messageIDs {
		if err := tr.DeleteMessage(ctx, chatID, id); err != nil {
			return err
		}
	}
	return nil
}

// Live returns the messages currently visible in a chat.
func (tr *Transport) Live(chatID int64) []*Message {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	var live []*Message
	for _, m := range tr.messages {
		if m.ChatID == chatID && !m.Deleted {
			live = append(live, m)
		}
	}
	return live
}

// All returns every recorded message, deleted ones included.
func (tr *Transport) All() []*Message {
	tr.mu.Lock()
	defer tr.mu.Unlock()
	return append([]*Message(nil), tr.messages...)
}

// Get returns a message by id, nil when unknown.
func (tr *Transport) Get(messageID int) *Message {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	for _, m := range tr.messages {
		if m.ID == messageID {
			return m
		}
	}
	return nil
}

// ForceDelete marks a message deleted out of band, simulating external
// removal.
func (tr *Transport) ForceDelete(messageID int) {
	tr.mu.Lock()
	defer tr.mu.Unlock()

	for _, m := range tr.messages {
		if m.ID == messageID {
			m.Deleted = true
		}
	}
}
