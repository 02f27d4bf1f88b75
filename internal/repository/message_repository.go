package repository

import (
	"context"

	"titanchat/core/internal/ids"
	"titanchat/core/internal/models"
)

const (
	previewLimit  = 30
	previewPrefix = 27
	previewSuffix = "..."
)

type MessageRepository struct {
	c *collections
}

func (r *MessageRepository) List(ctx context.Context) models.MessageLog {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	messages, _ := r.c.messages(ctx)
	return messages
}

func (r *MessageRepository) ReplaceAll(ctx context.Context, messages models.MessageLog) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	return r.c.saveMessages(ctx, messages)
}

// ListForChat returns the chat's log in append order.
func (r *MessageRepository) ListForChat(ctx context.Context, chatID string) []models.Message {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	messages, _ := r.c.messages(ctx)
	if log, ok := messages[chatID]; ok {
		return log
	}
	return []models.Message{}
}

// Append assigns an id to msg, adds it to the chat's log and moves the
// chat's preview to it. The message is kept even when chatID names no chat;
// only the preview update is skipped then.
func (r *MessageRepository) Append(ctx context.Context, chatID string, msg models.Message) (models.Message, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	messages, err := r.c.messages(ctx)
	if err != nil {
		return models.Message{}, err
	}

	msg.ID = ids.New(ids.PrefixMessage)
	if msg.ChatID == "" {
		msg.ChatID = chatID
	}
	messages[chatID] = append(messages[chatID], msg)
	if err := r.c.saveMessages(ctx, messages); err != nil {
		return models.Message{}, err
	}

	chats, err := r.c.chats(ctx)
	if err != nil {
		return msg, err
	}
	for i := range chats {
		if chats[i].ID != chatID {
			continue
		}
		chats[i].LastMessage = Preview(msg.Content)
		chats[i].LastMessageTimestamp = msg.Timestamp
		if err := r.c.saveChats(ctx, chats); err != nil {
			return msg, err
		}
		break
	}

	return msg, nil
}

// Preview shortens content longer than 30 characters to its first 27
// followed by "...".
func Preview(content string) string {
	runes := []rune(content)
	if len(runes) <= previewLimit {
		return content
	}
	return string(runes[:previewPrefix]) + previewSuffix
}
