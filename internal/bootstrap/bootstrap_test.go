package bootstrap

import (
	"context"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titanchat/core/internal/ids"
	"titanchat/core/internal/models"
	"titanchat/core/internal/observability"
	"titanchat/core/internal/storage"
)

func newStore(t *testing.T) (*storage.Accessor, *storage.MemoryMedium) {
	t.Helper()
	medium := storage.NewMemoryMedium()
	return storage.NewAccessor(medium, storage.NewKeys("test", "v1"), 0, zerolog.Nop()), medium
}

func readUsers(t *testing.T, store *storage.Accessor) []models.User {
	t.Helper()
	users, err := storage.Read(context.Background(), store, store.Keys().Users, []models.User{})
	require.NoError(t, err)
	return users
}

func rawSnapshot(t *testing.T, store *storage.Accessor, medium *storage.MemoryMedium) map[string]string {
	t.Helper()
	out := map[string]string{}
	keys := store.Keys()
	for _, key := range []string{keys.Users, keys.Chats, keys.Messages} {
		raw, _, err := medium.Get(context.Background(), key)
		require.NoError(t, err)
		out[key] = raw
	}
	return out
}

func TestRunSeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	store, medium := newStore(t)

	report, err := Run(ctx, store, zerolog.Nop(), Options{Seed: true})
	require.NoError(t, err)

	assert.Equal(t, len(seedProfiles), report.Seeded)
	assert.True(t, report.AdminCreated)
	assert.False(t, report.AdminPatched)
	assert.Zero(t, report.Migrated)
	assert.ElementsMatch(t, []string{store.Keys().Chats, store.Keys().Messages}, report.KeysInitialized)

	users := readUsers(t, store)
	require.Len(t, users, len(seedProfiles)+1)
	for _, u := range users[:len(seedProfiles)] {
		assert.True(t, strings.HasPrefix(u.ID, ids.PrefixUser))
		assert.Nil(t, u.AvatarURL)
		assert.Contains(t, models.AvatarPalette, models.Deref(u.AvatarBgColor))
		assert.False(t, u.Admin())
		require.NotNil(t, u.Bio)
	}

	admin := users[len(users)-1]
	assert.True(t, strings.HasPrefix(admin.ID, ids.PrefixAdmin))
	assert.Equal(t, AdminEmail, admin.Email)
	assert.Equal(t, "admin", admin.PasswordHash)
	assert.Equal(t, "#D32F2F", models.Deref(admin.AvatarBgColor))
	assert.True(t, admin.Admin())

	snapshot := rawSnapshot(t, store, medium)
	assert.Equal(t, "[]", snapshot[store.Keys().Chats])
	assert.Equal(t, "{}", snapshot[store.Keys().Messages])
}

func TestRunIsIdempotent(t *testing.T) {
	ctx := context.Background()
	store, medium := newStore(t)

	_, err := Run(ctx, store, zerolog.Nop(), Options{Seed: true})
	require.NoError(t, err)
	first := rawSnapshot(t, store, medium)

	unchanged := observability.BootstrapRunCount(false)
	before := testutil.ToFloat64(unchanged)

	report, err := Run(ctx, store, zerolog.Nop(), Options{Seed: true})
	require.NoError(t, err)
	assert.False(t, report.Changed())
	assert.Equal(t, first, rawSnapshot(t, store, medium))
	assert.Equal(t, before+1, testutil.ToFloat64(unchanged))
}

func TestRunWithoutSeedOnlyCreatesAdmin(t *testing.T) {
	store, _ := newStore(t)

	report, err := Run(context.Background(), store, zerolog.Nop(), Options{Seed: false})
	require.NoError(t, err)
	assert.Zero(t, report.Seeded)
	assert.True(t, report.AdminCreated)

	users := readUsers(t, store)
	require.Len(t, users, 1)
	assert.Equal(t, AdminEmail, users[0].Email)
}

func TestRunMigratesLegacyUsers(t *testing.T) {
	ctx := context.Background()
	store, medium := newStore(t)
	legacy := `[
		{"id":"user1","name":"Old","nickname":"old","email":"old@example.com","passwordHash":"x","avatarUrl":"https://picsum.photos/200","status":"online"},
		{"id":"user2","name":"Kept","nickname":"kept","email":"kept@example.com","passwordHash":"y","avatarUrl":"https://cdn.example.com/k.png","avatarBgColor":"#123456","bio":"hello","isAdmin":false},
		{"id":"admin1","name":"Boss","nickname":"boss","email":"admin@example.com","passwordHash":"z","bio":"","isAdmin":false}
	]`
	require.NoError(t, medium.Set(ctx, store.Keys().Users, legacy))

	report, err := Run(ctx, store, zerolog.Nop(), Options{Seed: true})
	require.NoError(t, err)
	assert.Zero(t, report.Seeded)
	assert.False(t, report.AdminCreated)
	assert.True(t, report.AdminPatched)
	assert.Equal(t, 1, report.Migrated)

	users := readUsers(t, store)
	require.Len(t, users, 3)

	old := users[0]
	assert.Nil(t, old.AvatarURL)
	assert.Equal(t, "", models.Deref(old.Bio))
	require.NotNil(t, old.Bio)
	assert.Contains(t, models.AvatarPalette, models.Deref(old.AvatarBgColor))
	require.NotNil(t, old.IsAdmin)
	assert.False(t, *old.IsAdmin)

	kept := users[1]
	assert.Equal(t, "https://cdn.example.com/k.png", models.Deref(kept.AvatarURL))
	assert.Equal(t, "#123456", models.Deref(kept.AvatarBgColor))
	assert.Equal(t, "hello", models.Deref(kept.Bio))

	admin := users[2]
	assert.Equal(t, "admin1", admin.ID)
	assert.True(t, admin.Admin())
	assert.Equal(t, "#D32F2F", models.Deref(admin.AvatarBgColor))
	assert.Equal(t, "z", admin.PasswordHash)
}

func TestRunMatchesAdminEmailExactly(t *testing.T) {
	ctx := context.Background()
	store, medium := newStore(t)
	require.NoError(t, medium.Set(ctx, store.Keys().Users,
		`[{"id":"u1","name":"A","nickname":"a","email":"ADMIN@example.com","passwordHash":"p","avatarBgColor":"#000000","bio":"","isAdmin":false}]`))

	report, err := Run(ctx, store, zerolog.Nop(), Options{Seed: true})
	require.NoError(t, err)
	assert.True(t, report.AdminCreated)
	assert.Len(t, readUsers(t, store), 2)
}

func TestRunKeepsExistingCollections(t *testing.T) {
	ctx := context.Background()
	store, medium := newStore(t)
	chats := `[{"id":"chat_1","name":"x","type":"individual","participants":["a","b"],"lastMessage":"hi","lastMessageTimestamp":"","unreadCount":0}]`
	require.NoError(t, medium.Set(ctx, store.Keys().Chats, chats))
	require.NoError(t, medium.Set(ctx, store.Keys().Messages, `{}`))

	report, err := Run(ctx, store, zerolog.Nop(), Options{Seed: false})
	require.NoError(t, err)
	assert.Empty(t, report.KeysInitialized)

	raw, _, err := medium.Get(ctx, store.Keys().Chats)
	require.NoError(t, err)
	assert.Equal(t, chats, raw)
}

func TestRunRepairsCorruptRecords(t *testing.T) {
	ctx := context.Background()
	store, medium := newStore(t)
	require.NoError(t, medium.Set(ctx, store.Keys().Users, "{{"))
	require.NoError(t, medium.Set(ctx, store.Keys().Messages, "[1,2"))

	report, err := Run(ctx, store, zerolog.Nop(), Options{Seed: true})
	require.NoError(t, err)
	assert.Equal(t, len(seedProfiles), report.Seeded)
	assert.Contains(t, report.KeysInitialized, store.Keys().Messages)

	assert.Len(t, readUsers(t, store), len(seedProfiles)+1)
	raw, _, err := medium.Get(ctx, store.Keys().Messages)
	require.NoError(t, err)
	assert.Equal(t, "{}", raw)
}
