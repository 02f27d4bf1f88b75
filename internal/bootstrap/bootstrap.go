package bootstrap

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"titanchat/core/internal/ids"
	"titanchat/core/internal/models"
	"titanchat/core/internal/observability"
	"titanchat/core/internal/storage"
)

type Options struct {
	// Seed fills an empty user collection with the sample profiles.
	Seed bool
}

// Report describes what a run changed. A second run over the same store
// reports nothing.
type Report struct {
	Seeded          int
	AdminCreated    bool
	AdminPatched    bool
	Migrated        int
	KeysInitialized []string
}

func (r Report) Changed() bool {
	return r.Seeded > 0 || r.AdminCreated || r.AdminPatched || r.Migrated > 0 || len(r.KeysInitialized) > 0
}

// Run brings the store up to the current schema. An unreadable collection is
// treated as empty and rewritten, which makes Run the repair point for
// corrupt records. Only write failures are returned.
func Run(ctx context.Context, store *storage.Accessor, log zerolog.Logger, opts Options) (Report, error) {
	log = log.With().Str("component", "bootstrap").Logger()
	keys := store.Keys()
	var report Report

	users, err := storage.Read(ctx, store, keys.Users, []models.User{})
	if err != nil {
		log.Warn().Err(err).Msg("user collection unreadable, rebuilding")
		users = []models.User{}
	}

	usersChanged := false
	if len(users) == 0 && opts.Seed {
		users = seedUsers()
		report.Seeded = len(users)
		usersChanged = true
	}

	users, created, patched := ensureAdmin(users)
	report.AdminCreated = created
	report.AdminPatched = patched
	if created || patched {
		usersChanged = true
	}

	for i := range users {
		if migrateUser(&users[i]) {
			report.Migrated++
			usersChanged = true
		}
	}

	if usersChanged || err != nil {
		if err := storage.Write(ctx, store, keys.Users, users); err != nil {
			return report, err
		}
	}

	initialized, err := ensureKey(ctx, store, keys.Chats, []models.Chat{})
	if err != nil {
		return report, err
	}
	if initialized {
		report.KeysInitialized = append(report.KeysInitialized, keys.Chats)
	}

	initialized, err = ensureKey(ctx, store, keys.Messages, models.MessageLog{})
	if err != nil {
		return report, err
	}
	if initialized {
		report.KeysInitialized = append(report.KeysInitialized, keys.Messages)
	}

	observability.IncBootstrapRun(report.Changed())
	log.Info().
		Int("seeded", report.Seeded).
		Bool("admin_created", report.AdminCreated).
		Bool("admin_patched", report.AdminPatched).
		Int("migrated", report.Migrated).
		Strs("keys_initialized", report.KeysInitialized).
		Msg("bootstrap complete")

	return report, nil
}

func seedUsers() []models.User {
	users := make([]models.User, 0, len(seedProfiles))
	for _, p := range seedProfiles {
		users = append(users, models.User{
			ID:            ids.New(ids.PrefixUser),
			Name:          p.name,
			Nickname:      p.nickname,
			Email:         p.email,
			PasswordHash:  p.password,
			AvatarBgColor: models.StringPtr(models.RandomAvatarColor()),
			Status:        p.status,
			Bio:           models.StringPtr(p.bio),
			IsAdmin:       models.BoolPtr(false),
		})
	}
	return users
}

// ensureAdmin matches the administrator by exact email.
func ensureAdmin(users []models.User) ([]models.User, bool, bool) {
	for i := range users {
		if users[i].Email != AdminEmail {
			continue
		}
		patched := false
		if !users[i].Admin() {
			users[i].IsAdmin = models.BoolPtr(true)
			patched = true
		}
		if models.Deref(users[i].AvatarBgColor) == "" {
			users[i].AvatarBgColor = models.StringPtr(adminColor)
			patched = true
		}
		return users, false, patched
	}

	admin := models.User{
		ID:            ids.New(ids.PrefixAdmin),
		Name:          adminName,
		Nickname:      adminNickname,
		Email:         AdminEmail,
		PasswordHash:  adminPassword,
		AvatarBgColor: models.StringPtr(adminColor),
		Status:        models.UserStatusOnline,
		Bio:           models.StringPtr(adminBio),
		IsAdmin:       models.BoolPtr(true),
	}
	return append(users, admin), true, false
}

// migrateUser backfills fields older records lack and clears placeholder
// avatars. Reports whether u changed.
func migrateUser(u *models.User) bool {
	changed := false
	if u.Bio == nil {
		u.Bio = models.StringPtr("")
		changed = true
	}
	if u.AvatarBgColor == nil {
		u.AvatarBgColor = models.StringPtr(models.RandomAvatarColor())
		changed = true
	}
	if u.AvatarURL != nil && strings.Contains(*u.AvatarURL, legacyAvatarHost) {
		u.AvatarURL = nil
		changed = true
	}
	if u.IsAdmin == nil {
		u.IsAdmin = models.BoolPtr(false)
		changed = true
	}
	return changed
}

// ensureKey writes empty when key is absent or unreadable.
func ensureKey[T any](ctx context.Context, store *storage.Accessor, key string, empty T) (bool, error) {
	if _, err := storage.Read(ctx, store, key, empty); err == nil {
		exists, err := store.Exists(ctx, key)
		if err == nil && exists {
			return false, nil
		}
	}
	if err := storage.Write(ctx, store, key, empty); err != nil {
		return false, err
	}
	return true, nil
}
