package domain

import (
	"encoding/json"
	"time"
)

// Session is the persisted per-conversation record. It is serialized as an
// opaque JSON document by the stores; the engine mutates it on every inbound
// event and writes it back (last write wins).
type Session struct {
	// Count is the total number of inbound events seen for this conversation.
	Count int `json:"count"`

	Username string `json:"username,omitempty"`
	UserID   int64  `json:"userId"`
	ChatID   int64  `json:"chatId"`

	// LastRequestDate is the timestamp of the most recent inbound event.
	// The zero value means the conversation has never been seen.
	LastRequestDate time.Time `json:"lastRequestDate"`

	// SessionsCount is the epoch counter: it increments when a new burst of
	// activity starts after an idle gap.
	SessionsCount int `json:"sessionsCount"`

	// SentMessageIDs tracks messages visible in the chat since the last
	// cleanup. Cleared whenever those messages are deleted.
	SentMessageIDs []int `json:"sentMessageIds"`

	// SceneID is the identifier of the active scene, empty when none.
	SceneID string `json:"sceneId,omitempty"`

	// SceneState is the opaque state blob the active scene was entered with.
	SceneState json.RawMessage `json:"state,omitempty"`
}

// NewSession creates a default session for a peer on first contact.
func NewSession(peer Peer) *Session {
	return &Session{
		Username:       peer.Username,
		UserID:         peer.UserID,
		ChatID:         peer.ChatID,
		SentMessageIDs: []int{},
	}
}

// SessionRecord pairs a conversation key with its session, as returned by
// store enumeration.
type SessionRecord struct {
	Key     string   `json:"key"`
	Session *Session `json:"session"`
}

// Peer identifies the sender of an inbound event.
type Peer struct {
	UserID    int64
	ChatID    int64
	Username  string
	FirstName string
}
