package telegram

import (
	"context"
	"time"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// Wire types for the subset of the Update object the engine consumes.
type wireUser struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
}

type wireChat struct {
	ID int64 `json:"id"`
}

type wireMessage struct {
	MessageID int       `json:"message_id"`
	From      *wireUser `json:"from"`
	Chat      wireChat  `json:"chat"`
	Text      string    `json:"text"`
}

type wireCallback struct {
	ID      string       `json:"id"`
	From    wireUser     `json:"from"`
	Message *wireMessage `json:"message"`
	Data    string       `json:"data"`
}

type wireUpdate struct {
	UpdateID      int64         `json:"update_id"`
	Message       *wireMessage  `json:"message"`
	CallbackQuery *wireCallback `json:"callback_query"`
}

// normalize maps a wire update to a domain update. The second return is
// false for update types the engine does not consume.
func normalize(u wireUpdate) (domain.Update, bool) {
	switch {
	case u.Message != nil && u.Message.From != nil:
		peer := domain.Peer{
			UserID:    u.Message.From.ID,
			ChatID:    u.Message.Chat.ID,
			Username:  u.Message.From.Username,
			FirstName: u.Message.From.FirstName,
		}
		return domain.NewMessageUpdate(peer, u.Message.MessageID, u.Message.Text), true

	case u.CallbackQuery != nil && u.CallbackQuery.Message != nil:
		peer := domain.Peer{
			UserID:    u.CallbackQuery.From.ID,
			ChatID:    u.CallbackQuery.Message.Chat.ID,
			Username:  u.CallbackQuery.From.Username,
			FirstName: u.CallbackQuery.From.FirstName,
		}
		return domain.NewCallbackUpdate(peer, u.CallbackQuery.Data), true
	}
	return domain.Update{}, false
}

// Updates long-polls getUpdates and emits normalized events. The
// channel closes when ctx is cancelled. Poll errors back off and retry.
func (c *Client) Updates(ctx context.Context) <-chan domain.Update {
	out := make(chan domain.Update)

	go func() {
		defer close(out)

		var offset int64
		for {
			if ctx.Err() != nil {
				return
			}

			var updates []wireUpdate
			err := c.call(ctx, "getUpdates", map[string]any{
				"offset":          offset,
				"timeout":         int(c.pollTimeout.Seconds()),
				"allowed_updates": []string{"message", "callback_query"},
			}, &updates)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				c.logger.Error("getUpdates failed, backing off", "err", err)
				select {
				case <-ctx.Done():
					return
				case <-time.After(3 * time.Second):
				}
				continue
			}

			for _, wu := range updates {
				if wu.UpdateID >= offset {
					offset = wu.UpdateID + 1
				}

				if wu.CallbackQuery != nil {
					if err := c.AnswerCallbackQuery(ctx, wu.CallbackQuery.ID); err != nil {
						c.logger.Warn("answerCallbackQuery failed", "err", err)
					}
				}

				update, ok := normalize(wu)
				if !ok {
					continue
				}
				select {
				case <-ctx.Done():
					return
				case out <- update:
				}
			}
		}
	}()

	return out
}
