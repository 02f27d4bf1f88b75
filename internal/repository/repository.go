package repository

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"titanchat/core/internal/models"
	"titanchat/core/internal/storage"
)

// Clock supplies wall-clock time for generated timestamps.
type Clock func() time.Time

// Set groups the repositories sharing one store. Every operation of every
// repository in a Set runs under the same lock, so a multi-collection
// cascade is never observed half-applied from inside the process.
type Set struct {
	Users    *UserRepository
	Chats    *ChatRepository
	Messages *MessageRepository
	Sessions *SessionRepository
}

func New(store *storage.Accessor, log zerolog.Logger, clock Clock) *Set {
	if clock == nil {
		clock = time.Now
	}
	c := &collections{
		store: store,
		keys:  store.Keys(),
		log:   log.With().Str("component", "repository").Logger(),
		now:   clock,
	}
	return &Set{
		Users:    &UserRepository{c: c},
		Chats:    &ChatRepository{c: c},
		Messages: &MessageRepository{c: c},
		Sessions: &SessionRepository{c: c},
	}
}

// collections reads and writes whole collections. Read failures come back
// with the empty default; read-only operations ignore them (already logged),
// mutating operations return them rather than overwrite unreadable data.
type collections struct {
	mu    sync.Mutex
	store *storage.Accessor
	keys  storage.Keys
	log   zerolog.Logger
	now   Clock
}

func (c *collections) timestamp() string {
	return models.FormatTimestamp(c.now())
}

func (c *collections) users(ctx context.Context) ([]models.User, error) {
	return storage.Read(ctx, c.store, c.keys.Users, []models.User{})
}

func (c *collections) saveUsers(ctx context.Context, users []models.User) error {
	if users == nil {
		users = []models.User{}
	}
	return storage.Write(ctx, c.store, c.keys.Users, users)
}

func (c *collections) chats(ctx context.Context) ([]models.Chat, error) {
	return storage.Read(ctx, c.store, c.keys.Chats, []models.Chat{})
}

func (c *collections) saveChats(ctx context.Context, chats []models.Chat) error {
	if chats == nil {
		chats = []models.Chat{}
	}
	return storage.Write(ctx, c.store, c.keys.Chats, chats)
}

func (c *collections) messages(ctx context.Context) (models.MessageLog, error) {
	log, err := storage.Read(ctx, c.store, c.keys.Messages, models.MessageLog{})
	if log == nil {
		log = models.MessageLog{}
	}
	return log, err
}

func (c *collections) saveMessages(ctx context.Context, log models.MessageLog) error {
	if log == nil {
		log = models.MessageLog{}
	}
	return storage.Write(ctx, c.store, c.keys.Messages, log)
}

func (c *collections) currentUserID(ctx context.Context) (*string, error) {
	return storage.Read[*string](ctx, c.store, c.keys.CurrentUserID, nil)
}

func (c *collections) saveCurrentUserID(ctx context.Context, id *string) error {
	return storage.Write(ctx, c.store, c.keys.CurrentUserID, id)
}

func (c *collections) findUser(ctx context.Context, id string) (models.User, bool) {
	users, _ := c.users(ctx)
	for _, u := range users {
		if u.ID == id {
			return u, true
		}
	}
	return models.User{}, false
}
