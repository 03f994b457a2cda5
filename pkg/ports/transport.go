package ports

import (
	"context"
	"io"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// ChatTransport abstracts the messaging protocol's discrete send/edit/delete
// primitives. Message identity is owned by the transport once sent.
//
// All methods are best-effort from the engine's point of view: callers catch
// and log transport errors, they never abort a conversation turn.
type ChatTransport interface {
	// SendMessage creates a new text message and returns its id.
	SendMessage(ctx context.Context, chatID int64, text string, kb domain.Keyboard) (int, error)

	// SendPhoto creates a new photo message with a caption and returns its id.
	SendPhoto(ctx context.Context, chatID int64, photo io.Reader, caption string, kb domain.Keyboard) (int, error)

	// EditMessageText replaces the text and keyboard of an existing text message.
	EditMessageText(ctx context.Context, chatID int64, messageID int, text string, kb domain.Keyboard) error

	// EditMessageCaption replaces the caption and keyboard of an existing photo message.
	EditMessageCaption(ctx context.Context, chatID int64, messageID int, caption string, kb domain.Keyboard) error

	// DeleteMessage removes a single message.
	DeleteMessage(ctx context.Context, chatID int64, messageID int) error

	// DeleteMessages removes a batch of messages.
	DeleteMessages(ctx context.Context, chatID int64, messageIDs []int) error
}

// UpdateSource produces the inbound event feed consumed by the engine.
type UpdateSource interface {
	// Updates returns a channel of inbound events. The channel is closed
	// when the context is cancelled.
	Updates(ctx context.Context) <-chan domain.Update
}
