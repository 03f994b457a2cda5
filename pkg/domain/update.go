package domain

import (
	"fmt"
	"strings"
)

// UpdateKind discriminates inbound event types.
type UpdateKind string

const (
	UpdateMessage  UpdateKind = "message"  // free text
	UpdateCommand  UpdateKind = "command"  // slash command
	UpdateCallback UpdateKind = "callback" // inline button action
)

// Update is a single inbound chat event, normalized by the transport.
type Update struct {
	Kind UpdateKind
	Peer Peer

	// MessageID is the id of the inbound message, when the event is one.
	MessageID int

	// Text carries message text or command arguments.
	Text string

	// Command is the slash command name without the leading slash.
	Command string

	// Action is the callback payload of a pressed inline button.
	Action string
}

// ConversationKey returns the stable identifier scoping one user's exchange.
func (u Update) ConversationKey() string {
	return fmt.Sprintf("%d:%d", u.Peer.UserID, u.Peer.ChatID)
}

// NewMessageUpdate builds a message or command update from raw text.
func NewMessageUpdate(peer Peer, messageID int, text string) Update {
	u := Update{Kind: UpdateMessage, Peer: peer, MessageID: messageID, Text: text}

	if strings.HasPrefix(text, "/") {
		name, args, _ := strings.Cut(strings.TrimPrefix(text, "/"), " ")
		// Commands may be addressed as /cmd@botname in group chats.
		name, _, _ = strings.Cut(name, "@")
		u.Kind = UpdateCommand
		u.Command = name
		u.Text = strings.TrimSpace(args)
	}

	return u
}

// NewCallbackUpdate builds a button action update.
func NewCallbackUpdate(peer Peer, action string) Update {
	return Update{Kind: UpdateCallback, Peer: peer, Action: action}
}
