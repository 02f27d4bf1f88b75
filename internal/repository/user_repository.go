package repository

import (
	"context"
	"fmt"
	"strings"

	"titanchat/core/internal/ids"
	"titanchat/core/internal/models"
)

type UserRepository struct {
	c *collections
}

// CreateUserInput carries a new user; empty optional fields take defaults.
type CreateUserInput struct {
	Name          string
	Nickname      string
	Email         string
	PasswordHash  string
	AvatarURL     string
	AvatarBgColor string
	Bio           string
	IsAdmin       bool
}

// UserUpdate lists the editable profile fields. Nil means unchanged. An
// empty AvatarURL or Bio clears the value; an empty Nickname or
// AvatarBgColor is ignored.
type UserUpdate struct {
	Name          *string
	Nickname      *string
	PasswordHash  *string
	AvatarURL     *string
	AvatarBgColor *string
	Status        *models.UserStatus
	Bio           *string
}

func (r *UserRepository) List(ctx context.Context) []models.User {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	users, _ := r.c.users(ctx)
	return users
}

func (r *UserRepository) ReplaceAll(ctx context.Context, users []models.User) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	return r.c.saveUsers(ctx, users)
}

func (r *UserRepository) Create(ctx context.Context, input CreateUserInput) (models.User, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	users, err := r.c.users(ctx)
	if err != nil {
		return models.User{}, err
	}

	ix := indexUsers(users)
	if ix.emailTaken(input.Email) {
		return models.User{}, ErrDuplicateEmail
	}
	if ix.nicknameTaken(input.Nickname, "") {
		return models.User{}, ErrDuplicateNickname
	}

	color := input.AvatarBgColor
	if color == "" {
		color = models.RandomAvatarColor()
	}

	user := models.User{
		ID:            ids.New(ids.PrefixUser),
		Name:          input.Name,
		Nickname:      input.Nickname,
		Email:         input.Email,
		PasswordHash:  input.PasswordHash,
		AvatarBgColor: models.StringPtr(color),
		Status:        models.UserStatusOnline,
		Bio:           models.StringPtr(input.Bio),
		IsAdmin:       models.BoolPtr(input.IsAdmin),
	}
	if input.AvatarURL != "" {
		user.AvatarURL = models.StringPtr(input.AvatarURL)
	}

	if err := r.c.saveUsers(ctx, append(users, user)); err != nil {
		return models.User{}, err
	}

	r.c.log.Debug().Str("user_id", user.ID).Msg("user created")
	return user, nil
}

// FindByEmail matches case-insensitively.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (models.User, bool) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	users, _ := r.c.users(ctx)
	return indexUsers(users).byEmailFold(email)
}

func (r *UserRepository) FindByID(ctx context.Context, id string) (models.User, bool) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	return r.c.findUser(ctx, id)
}

// ListExcept returns every user other than id.
func (r *UserRepository) ListExcept(ctx context.Context, id string) []models.User {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	users, _ := r.c.users(ctx)
	out := make([]models.User, 0, len(users))
	for _, u := range users {
		if u.ID != id {
			out = append(out, u)
		}
	}
	return out
}

// Search matches query as a case-insensitive substring of name or nickname.
// Queries shorter than two characters after trimming match nothing.
func (r *UserRepository) Search(ctx context.Context, query string, excludeID string) []models.User {
	q := fold(strings.TrimSpace(query))
	if len([]rune(q)) < 2 {
		return []models.User{}
	}

	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	users, _ := r.c.users(ctx)
	out := []models.User{}
	for _, u := range users {
		if u.ID == excludeID {
			continue
		}
		if strings.Contains(fold(u.Name), q) || strings.Contains(fold(u.Nickname), q) {
			out = append(out, u)
		}
	}
	return out
}

// Update merges the given fields into the user and refreshes the cached
// profile snapshot on every chat the user takes part in.
func (r *UserRepository) Update(ctx context.Context, id string, update UserUpdate) (models.User, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	users, err := r.c.users(ctx)
	if err != nil {
		return models.User{}, err
	}

	ix := indexUsers(users)
	existing, pos, ok := ix.get(id)
	if !ok {
		return models.User{}, ErrUserNotFound
	}

	if update.Nickname != nil && *update.Nickname != "" && fold(*update.Nickname) != fold(existing.Nickname) {
		if ix.nicknameTaken(*update.Nickname, id) {
			return models.User{}, ErrDuplicateNickname
		}
	}

	updated := applyUserUpdate(existing, update)
	users[pos] = updated
	if err := r.c.saveUsers(ctx, users); err != nil {
		return models.User{}, err
	}

	chats, err := r.c.chats(ctx)
	if err != nil {
		return updated, fmt.Errorf("refresh chat profiles: %w", err)
	}
	if refreshParticipantDetails(chats, updated) {
		if err := r.c.saveChats(ctx, chats); err != nil {
			return updated, fmt.Errorf("refresh chat profiles: %w", err)
		}
	}

	return updated, nil
}

func applyUserUpdate(u models.User, update UserUpdate) models.User {
	if update.Name != nil {
		u.Name = *update.Name
	}
	if update.Nickname != nil && *update.Nickname != "" {
		u.Nickname = *update.Nickname
	}
	if update.PasswordHash != nil {
		u.PasswordHash = *update.PasswordHash
	}
	if update.Status != nil {
		u.Status = *update.Status
	}
	if update.AvatarURL != nil {
		u.AvatarURL = nonEmpty(*update.AvatarURL)
	}
	if update.Bio != nil {
		u.Bio = nonEmpty(*update.Bio)
	}
	if update.AvatarBgColor != nil && *update.AvatarBgColor != "" {
		u.AvatarBgColor = models.StringPtr(*update.AvatarBgColor)
	}
	return u
}

func nonEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return models.StringPtr(s)
}

// Delete removes the user and cascades: chats including the user go away
// with their message logs, the user's messages leave surviving logs, and a
// session pointing at the user is cleared. Returns false when the id is
// unknown.
func (r *UserRepository) Delete(ctx context.Context, id string) (bool, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	return r.delete(ctx, id)
}

func (r *UserRepository) delete(ctx context.Context, id string) (bool, error) {
	users, err := r.c.users(ctx)
	if err != nil {
		return false, err
	}

	remaining := make([]models.User, 0, len(users))
	found := false
	for _, u := range users {
		if u.ID == id {
			found = true
			continue
		}
		remaining = append(remaining, u)
	}
	if !found {
		return false, nil
	}

	if err := r.c.saveUsers(ctx, remaining); err != nil {
		return false, err
	}

	chats, err := r.c.chats(ctx)
	if err != nil {
		return false, fmt.Errorf("cascade chats: %w", err)
	}
	surviving := removeParticipantChats(chats, id)
	if err := r.c.saveChats(ctx, surviving); err != nil {
		return false, fmt.Errorf("cascade chats: %w", err)
	}

	messages, err := r.c.messages(ctx)
	if err != nil {
		return false, fmt.Errorf("cascade messages: %w", err)
	}
	if err := r.c.saveMessages(ctx, pruneMessages(messages, surviving, id)); err != nil {
		return false, fmt.Errorf("cascade messages: %w", err)
	}

	current, _ := r.c.currentUserID(ctx)
	if current != nil && *current == id {
		if err := r.c.saveCurrentUserID(ctx, nil); err != nil {
			return false, fmt.Errorf("clear session: %w", err)
		}
	}

	r.c.log.Info().
		Str("user_id", id).
		Int("chats_removed", len(chats)-len(surviving)).
		Msg("user deleted")
	return true, nil
}

// pruneMessages drops logs of chats that no longer exist and the deleted
// user's messages from the rest.
func pruneMessages(messages models.MessageLog, surviving []models.Chat, userID string) models.MessageLog {
	alive := make(map[string]struct{}, len(surviving))
	for _, chat := range surviving {
		alive[chat.ID] = struct{}{}
	}

	out := make(models.MessageLog, len(messages))
	for chatID, log := range messages {
		if _, ok := alive[chatID]; !ok {
			continue
		}
		kept := make([]models.Message, 0, len(log))
		for _, m := range log {
			if m.SenderID != userID {
				kept = append(kept, m)
			}
		}
		out[chatID] = kept
	}
	return out
}

// AdminDelete deletes targetID on behalf of adminID. Admins may delete other
// admins, never themselves.
func (r *UserRepository) AdminDelete(ctx context.Context, adminID string, targetID string) (bool, error) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	users, err := r.c.users(ctx)
	if err != nil {
		return false, err
	}
	ix := indexUsers(users)

	admin, _, ok := ix.get(adminID)
	if !ok || !admin.Admin() {
		return false, ErrUnauthorized
	}
	if adminID == targetID {
		return false, ErrSelfDeleteForbidden
	}
	if _, _, ok := ix.get(targetID); !ok {
		return false, ErrUserNotFound
	}

	r.c.log.Info().Str("admin_id", adminID).Str("user_id", targetID).Msg("admin delete")
	return r.delete(ctx, targetID)
}
