package service

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"titanchat/core/internal/models"
	"titanchat/core/internal/repository"
)

const fallbackChatName = "Chat User"

type InboxService struct {
	users    *repository.UserRepository
	chats    *repository.ChatRepository
	messages *repository.MessageRepository
	now      repository.Clock
	log      zerolog.Logger
}

func NewInboxService(repos *repository.Set, clock repository.Clock, log zerolog.Logger) *InboxService {
	if clock == nil {
		clock = time.Now
	}
	return &InboxService{
		users:    repos.Users,
		chats:    repos.Chats,
		messages: repos.Messages,
		now:      clock,
		log:      log.With().Str("component", "inbox").Logger(),
	}
}

// Chats lists the viewer's chats, most recent first. Individual chats are
// named after the other participant's current profile; stored records are
// left as they are.
func (s *InboxService) Chats(ctx context.Context, viewerID string) []models.Chat {
	chats := s.chats.ListForUser(ctx, viewerID)
	for i := range chats {
		s.resolveForViewer(ctx, &chats[i], viewerID)
	}
	sort.SliceStable(chats, func(i, j int) bool {
		return models.ParseTimestamp(chats[i].LastMessageTimestamp).After(models.ParseTimestamp(chats[j].LastMessageTimestamp))
	})
	return chats
}

func (s *InboxService) resolveForViewer(ctx context.Context, chat *models.Chat, viewerID string) {
	if chat.Type != models.ChatTypeIndividual {
		return
	}
	otherID, ok := chat.Counterpart(viewerID)
	if !ok {
		return
	}

	other, ok := s.users.FindByID(ctx, otherID)
	if !ok {
		if chat.Name == "" {
			chat.Name = fallbackChatName
		}
		return
	}

	switch {
	case other.Nickname != "":
		chat.Name = other.Nickname
	case other.Name != "":
		chat.Name = other.Name
	case chat.Name == "":
		chat.Name = fallbackChatName
	}
	chat.AvatarURL = other.AvatarURL
	chat.AvatarBgColor = other.AvatarBgColor
}

// StartChat opens or reuses the individual chat with targetID. ok is false
// when either user is unknown or the ids are the same.
func (s *InboxService) StartChat(ctx context.Context, viewerID string, targetID string) (models.Chat, bool, error) {
	chat, ok, err := s.chats.CreateOrGetIndividual(ctx, viewerID, targetID)
	if err != nil || !ok {
		return chat, ok, err
	}
	s.resolveForViewer(ctx, &chat, viewerID)
	return chat, true, nil
}

func (s *InboxService) SendText(ctx context.Context, chatID string, senderID string, content string) (models.Message, error) {
	msg, err := s.messages.Append(ctx, chatID, models.Message{
		ChatID:    chatID,
		SenderID:  senderID,
		Content:   content,
		Timestamp: models.FormatTimestamp(s.now()),
		Type:      models.MessageTypeText,
	})
	if err != nil {
		return models.Message{}, err
	}
	s.log.Debug().Str("chat_id", chatID).Str("message_id", msg.ID).Msg("message sent")
	return msg, nil
}
