package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"titanchat/core/internal/models"
	"titanchat/core/internal/repository"
	"titanchat/core/internal/storage"
)

type fixture struct {
	repos *repository.Set
	auth  *AuthService
	inbox *InboxService
	clock *testClock
}

type testClock struct {
	now time.Time
}

func (c *testClock) Now() time.Time {
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := storage.NewAccessor(storage.NewMemoryMedium(), storage.NewKeys("test", "v1"), 0, zerolog.Nop())
	clock := &testClock{now: time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)}
	repos := repository.New(store, zerolog.Nop(), clock.Now)
	return fixture{
		repos: repos,
		auth:  NewAuthService(repos, zerolog.Nop()),
		inbox: NewInboxService(repos, clock.Now, zerolog.Nop()),
		clock: clock,
	}
}

func (f fixture) register(t *testing.T, name, nickname, email string) models.User {
	t.Helper()
	u, err := f.auth.Register(context.Background(), RegisterInput{
		Name: name, Nickname: nickname, Email: email, Password: "pw-" + nickname,
	})
	require.NoError(t, err)
	return u
}
