package telegram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/gamebase54/gamebot/pkg/domain"
)

// inlineButton is one button of an inline keyboard in wire format.
type inlineButton struct {
	Text         string `json:"text"`
	CallbackData string `json:"callback_data,omitempty"`
	URL          string `json:"url,omitempty"`
}

type inlineKeyboard struct {
	InlineKeyboard [][]inlineButton `json:"inline_keyboard"`
}

func replyMarkup(kb domain.Keyboard) *inlineKeyboard {
	if len(kb) == 0 {
		return nil
	}
	rows := make([][]inlineButton, 0, len(kb))
	for _, row := range kb {
		wire := make([]inlineButton, 0, len(row))
		for _, b := range row {
			wire = append(wire, inlineButton{
				Text:         b.Text,
				CallbackData: b.Action,
				URL:          b.URL,
			})
		}
		rows = append(rows, wire)
	}
	return &inlineKeyboard{InlineKeyboard: rows}
}

type sentMessage struct {
	MessageID int `json:"message_id"`
}

// SendMessage creates a new text message and returns its id.
func (c *Client) SendMessage(ctx context.Context, chatID int64, text string, kb domain.Keyboard) (int, error) {
	params := map[string]any{
		"chat_id": chatID,
		"text":    text,
	}
	if markup := replyMarkup(kb); markup != nil {
		params["reply_markup"] = markup
	}

	var msg sentMessage
	if err := c.call(ctx, "sendMessage", params, &msg); err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

// SendPhoto uploads a photo with a caption and returns the message id.
func (c *Client) SendPhoto(ctx context.Context, chatID int64, photo io.Reader, caption string, kb domain.Keyboard) (int, error) {
	fields := map[string]string{
		"chat_id": strconv.FormatInt(chatID, 10),
		"caption": caption,
	}
	if markup := replyMarkup(kb); markup != nil {
		data, err := json.Marshal(markup)
		if err != nil {
			return 0, fmt.Errorf("telegram sendPhoto: encode keyboard: %w", err)
		}
		fields["reply_markup"] = string(data)
	}

	var msg sentMessage
	if err := c.callMultipart(ctx, "sendPhoto", fields, "photo", "photo.png", photo, &msg); err != nil {
		return 0, err
	}
	return msg.MessageID, nil
}

// EditMessageText replaces the text and keyboard of an existing message.
func (c *Client) EditMessageText(ctx context.Context, chatID int64, messageID int, text string, kb domain.Keyboard) error {
	params := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"text":       text,
	}
	if markup := replyMarkup(kb); markup != nil {
		params["reply_markup"] = markup
	}
	return c.call(ctx, "editMessageText", params, nil)
}

// EditMessageCaption replaces the caption and keyboard of a photo message.
func (c *Client) EditMessageCaption(ctx context.Context, chatID int64, messageID int, caption string, kb domain.Keyboard) error {
	params := map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
		"caption":    caption,
	}
	if markup := replyMarkup(kb); markup != nil {
		params["reply_markup"] = markup
	}
	return c.call(ctx, "editMessageCaption", params, nil)
}

// DeleteMessage removes a single message.
func (c *Client) DeleteMessage(ctx context.Context, chatID int64, messageID int) error {
	return c.call(ctx, "deleteMessage", map[string]any{
		"chat_id":    chatID,
		"message_id": messageID,
	}, nil)
}

// DeleteMessages removes a batch of messages. Missing messages are
// skipped; other failures are joined.
func (c *Client) DeleteMessages(ctx context.Context, chatID int64, messageIDs []int) error {
	var errs []error
	for _, id := range messageIDs {
		if err := c.DeleteMessage(ctx, chatID, id); err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				continue
			}
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// AnswerCallbackQuery acknowledges a pressed inline button so the
// client stops showing its spinner.
func (c *Client) AnswerCallbackQuery(ctx context.Context, callbackID string) error {
	return c.call(ctx, "answerCallbackQuery", map[string]any{
		"callback_query_id": callbackID,
	}, nil)
}
