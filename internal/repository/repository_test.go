package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"titanchat/core/internal/models"
	"titanchat/core/internal/storage"
)

var fixedNow = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

// flakyMedium wraps a MemoryMedium and fails writes to the keys listed in
// failSet.
type flakyMedium struct {
	*storage.MemoryMedium
	mu      sync.Mutex
	failSet map[string]bool
}

func (m *flakyMedium) Set(ctx context.Context, key string, value string) error {
	m.mu.Lock()
	fail := m.failSet[key]
	m.mu.Unlock()
	if fail {
		return errors.New("quota exceeded")
	}
	return m.MemoryMedium.Set(ctx, key, value)
}

func (m *flakyMedium) failWrites(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failSet[key] = true
}

type fixture struct {
	set    *Set
	store  *storage.Accessor
	medium *flakyMedium
	keys   storage.Keys
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	medium := &flakyMedium{MemoryMedium: storage.NewMemoryMedium(), failSet: map[string]bool{}}
	keys := storage.NewKeys("test", "v1")
	store := storage.NewAccessor(medium, keys, 0, zerolog.Nop())
	return fixture{
		set:    New(store, zerolog.Nop(), func() time.Time { return fixedNow }),
		store:  store,
		medium: medium,
		keys:   keys,
	}
}

func (f fixture) createUser(t *testing.T, name, nickname, email string) models.User {
	t.Helper()
	u, err := f.set.Users.Create(context.Background(), CreateUserInput{
		Name:         name,
		Nickname:     nickname,
		Email:        email,
		PasswordHash: "secret",
	})
	require.NoError(t, err)
	return u
}

func (f fixture) rawUsers(t *testing.T) string {
	t.Helper()
	raw, _, err := f.medium.Get(context.Background(), f.keys.Users)
	require.NoError(t, err)
	return raw
}
