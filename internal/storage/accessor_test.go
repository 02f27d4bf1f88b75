package storage

import (
	"context"
	"errors"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"titanchat/core/internal/observability"
)

type record struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

type brokenMedium struct {
	getErr error
	setErr error
}

func (m brokenMedium) Get(context.Context, string) (string, bool, error) {
	return "", false, m.getErr
}

func (m brokenMedium) Set(context.Context, string, string) error { return m.setErr }
func (m brokenMedium) Delete(context.Context, string) error      { return nil }
func (m brokenMedium) Close() error                              { return nil }

func newTestAccessor(m Medium) *Accessor {
	return NewAccessor(m, NewKeys("test", "v1"), 0, zerolog.Nop())
}

func TestNewKeysEmbedsVersion(t *testing.T) {
	keys := NewKeys("titanChat", "v4")
	assert.Equal(t, "titanChatUsers_v4", keys.Users)
	assert.Equal(t, "titanChatChats_v4", keys.Chats)
	assert.Equal(t, "titanChatMessages_v4", keys.Messages)
	assert.Equal(t, "titanChatCurrentUserId_v4", keys.CurrentUserID)
}

func TestReadMissingReturnsDefault(t *testing.T) {
	a := newTestAccessor(NewMemoryMedium())

	got, err := Read(context.Background(), a, "absent", record{Name: "default"})
	require.NoError(t, err)
	assert.Equal(t, "default", got.Name)
}

func TestWriteThenRead(t *testing.T) {
	ctx := context.Background()
	a := newTestAccessor(NewMemoryMedium())

	require.NoError(t, Write(ctx, a, "r", record{Name: "alice", Items: []string{"x"}}))

	got, err := Read(ctx, a, "r", record{})
	require.NoError(t, err)
	assert.Equal(t, record{Name: "alice", Items: []string{"x"}}, got)

	ok, err := a.Exists(ctx, "r")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestReadCorruptValueDegradesToDefault(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryMedium()
	require.NoError(t, m.Set(ctx, "bad", "{not json"))
	a := newTestAccessor(m)

	before := testutil.ToFloat64(observability.StorageOpCount("read", "bad", observability.OutcomeDegraded))

	got, err := Read(ctx, a, "bad", []string{"fallback"})
	require.ErrorIs(t, err, ErrStorageRead)
	assert.Equal(t, []string{"fallback"}, got)

	after := testutil.ToFloat64(observability.StorageOpCount("read", "bad", observability.OutcomeDegraded))
	assert.Equal(t, before+1, after)
}

func TestReadDoesNotMergeIntoDefault(t *testing.T) {
	ctx := context.Background()
	a := newTestAccessor(NewMemoryMedium())
	require.NoError(t, Write(ctx, a, "m", map[string]int{"b": 2}))

	def := map[string]int{"a": 1}
	got, err := Read(ctx, a, "m", def)
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"b": 2}, got)
	assert.Equal(t, map[string]int{"a": 1}, def)
}

func TestReadMediumFailure(t *testing.T) {
	a := newTestAccessor(brokenMedium{getErr: errors.New("disk gone")})

	got, err := Read(context.Background(), a, "k", 7)
	require.ErrorIs(t, err, ErrStorageRead)
	assert.Equal(t, 7, got)

	_, err = a.Exists(context.Background(), "k")
	assert.ErrorIs(t, err, ErrStorageRead)
}

func TestWriteFailures(t *testing.T) {
	ctx := context.Background()

	a := newTestAccessor(brokenMedium{setErr: errors.New("quota exceeded")})
	err := Write(ctx, a, "k", 1)
	require.ErrorIs(t, err, ErrStorageWrite)
	assert.Contains(t, err.Error(), "quota exceeded")

	m := NewMemoryMedium()
	a = newTestAccessor(m)
	err = Write(ctx, a, "k", func() {})
	require.ErrorIs(t, err, ErrStorageWrite)
	_, found, _ := m.Get(ctx, "k")
	assert.False(t, found)
}

func TestResetDeletesCurrentVersionOnly(t *testing.T) {
	ctx := context.Background()
	m := NewMemoryMedium()
	a := newTestAccessor(m)
	keys := a.Keys()
	for _, key := range []string{keys.Users, keys.Chats, keys.Messages, keys.CurrentUserID} {
		require.NoError(t, Write(ctx, a, key, []string{}))
	}
	older := NewKeys("test", "v0").Users
	require.NoError(t, m.Set(ctx, older, "[]"))

	before := testutil.ToFloat64(observability.StorageOpCount("delete", keys.Users, observability.OutcomeOK))
	require.NoError(t, a.Reset(ctx))

	for _, key := range []string{keys.Users, keys.Chats, keys.Messages, keys.CurrentUserID} {
		ok, err := a.Exists(ctx, key)
		require.NoError(t, err)
		assert.False(t, ok, key)
	}
	_, found, err := m.Get(ctx, older)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, before+1, testutil.ToFloat64(observability.StorageOpCount("delete", keys.Users, observability.OutcomeOK)))
}

func TestDeleteFailure(t *testing.T) {
	a := newTestAccessor(deleteFailMedium{MemoryMedium: NewMemoryMedium()})

	err := a.Delete(context.Background(), "k")
	assert.ErrorIs(t, err, ErrStorageWrite)
	assert.ErrorIs(t, a.Reset(context.Background()), ErrStorageWrite)
}

type deleteFailMedium struct {
	*MemoryMedium
}

func (deleteFailMedium) Delete(context.Context, string) error {
	return errors.New("read-only")
}
