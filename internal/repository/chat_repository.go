package repository

import (
	"context"

	"titanchat/core/internal/ids"
	"titanchat/core/internal/models"
)

// ChatStartedPreview is the preview text of a chat with no messages yet.
const ChatStartedPreview = "Chat started."

type ChatRepository struct {
	c *collections
}

func (r *ChatRepository) List(ctx context.Context) []models.Chat {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	chats, _ := r.c.chats(ctx)
	return chats
}

func (r *ChatRepository) ReplaceAll(ctx context.Context, chats []models.Chat) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	return r.c.saveChats(ctx, chats)
}

func (r *ChatRepository) Get(ctx context.Context, chatID string) (models.Chat, bool) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	chats, _ := r.c.chats(ctx)
	for _, chat := range chats {
		if chat.ID == chatID {
			return chat, true
		}
	}
	return models.Chat{}, false
}

// ListForUser returns the chats userID participates in, in stored order.
func (r *ChatRepository) ListForUser(ctx context.Context, userID string) []models.Chat {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	chats, _ := r.c.chats(ctx)
	out := []models.Chat{}
	for _, chat := range chats {
		if chat.HasParticipant(userID) {
			out = append(out, chat)
		}
	}
	return out
}

// CreateOrGetIndividual returns the one individual chat between userA and
// userB, creating it when absent. Both participant snapshots are refreshed,
// and the chat-level name and avatar are set from userB: the second
// argument is the counterpart as seen by the first. ok is false when either
// user is unknown. It is also false when both ids are the same: no chat with
// oneself is ever stored, where older data could hold a [a, a] chat.
func (r *ChatRepository) CreateOrGetIndividual(ctx context.Context, userA string, userB string) (models.Chat, bool, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	if userA == userB {
		return models.Chat{}, false, nil
	}
	a, okA := r.c.findUser(ctx, userA)
	b, okB := r.c.findUser(ctx, userB)
	if !okA || !okB {
		return models.Chat{}, false, nil
	}

	chats, err := r.c.chats(ctx)
	if err != nil {
		return models.Chat{}, false, err
	}

	details := map[string]models.ParticipantDetail{
		a.ID: a.Detail(),
		b.ID: b.Detail(),
	}

	for i := range chats {
		chat := &chats[i]
		if chat.Type != models.ChatTypeIndividual || !chat.IsPair(userA, userB) {
			continue
		}
		chat.ParticipantDetails = details
		mirrorCounterpart(chat, b)
		if err := r.c.saveChats(ctx, chats); err != nil {
			return models.Chat{}, false, err
		}
		return *chat, true, nil
	}

	chat := models.Chat{
		ID:                   ids.New(ids.PrefixChat),
		Type:                 models.ChatTypeIndividual,
		Participants:         []string{userA, userB},
		LastMessage:          ChatStartedPreview,
		LastMessageTimestamp: r.c.timestamp(),
		UnreadCount:          0,
		ParticipantDetails:   details,
	}
	mirrorCounterpart(&chat, b)

	if err := r.c.saveChats(ctx, append(chats, chat)); err != nil {
		return models.Chat{}, false, err
	}

	r.c.log.Debug().Str("chat_id", chat.ID).Msg("individual chat created")
	return chat, true, nil
}

func mirrorCounterpart(chat *models.Chat, counterpart models.User) {
	chat.Name = counterpart.DisplayName()
	chat.AvatarURL = counterpart.AvatarURL
	chat.AvatarBgColor = counterpart.AvatarBgColor
}

// refreshParticipantDetails rewrites the cached snapshot of user on every
// chat listing the user. It is the only place the snapshot cache is
// invalidated after a profile change. Reports whether any chat changed.
func refreshParticipantDetails(chats []models.Chat, user models.User) bool {
	changed := false
	for i := range chats {
		if !chats[i].HasParticipant(user.ID) {
			continue
		}
		if chats[i].ParticipantDetails == nil {
			chats[i].ParticipantDetails = make(map[string]models.ParticipantDetail)
		}
		chats[i].ParticipantDetails[user.ID] = user.Detail()
		changed = true
	}
	return changed
}

// removeParticipantChats drops every chat listing userID and strips the
// user's snapshot from the chats that remain.
func removeParticipantChats(chats []models.Chat, userID string) []models.Chat {
	surviving := make([]models.Chat, 0, len(chats))
	for _, chat := range chats {
		if chat.HasParticipant(userID) {
			continue
		}
		delete(chat.ParticipantDetails, userID)
		surviving = append(surviving, chat)
	}
	return surviving
}
