package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"titanchat/core/internal/observability"
)

var (
	ErrStorageRead  = errors.New("storage read failed")
	ErrStorageWrite = errors.New("storage write failed")
)

// Keys are the four top-level records. The schema version is part of every
// name: changing it starts from an empty store, old records stay untouched.
type Keys struct {
	Users         string
	Chats         string
	Messages      string
	CurrentUserID string
}

func NewKeys(namespace string, version string) Keys {
	return Keys{
		Users:         fmt.Sprintf("%sUsers_%s", namespace, version),
		Chats:         fmt.Sprintf("%sChats_%s", namespace, version),
		Messages:      fmt.Sprintf("%sMessages_%s", namespace, version),
		CurrentUserID: fmt.Sprintf("%sCurrentUserId_%s", namespace, version),
	}
}

// Accessor stores JSON documents under string keys of a Medium.
type Accessor struct {
	medium  Medium
	keys    Keys
	timeout time.Duration
	log     zerolog.Logger
}

func NewAccessor(medium Medium, keys Keys, timeout time.Duration, log zerolog.Logger) *Accessor {
	return &Accessor{
		medium:  medium,
		keys:    keys,
		timeout: timeout,
		log:     log.With().Str("component", "storage").Logger(),
	}
}

func (a *Accessor) Keys() Keys {
	return a.keys
}

func (a *Accessor) Close() error {
	return a.medium.Close()
}

func (a *Accessor) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, a.timeout)
}

// Exists reports whether key has ever been written.
func (a *Accessor) Exists(ctx context.Context, key string) (bool, error) {
	ctx, cancel := a.opContext(ctx)
	defer cancel()

	_, found, err := a.medium.Get(ctx, key)
	if err != nil {
		a.log.Error().Err(err).Str("op", "exists").Str("key", key).Msg("storage lookup failed")
		return false, fmt.Errorf("%w: %s: %v", ErrStorageRead, key, err)
	}
	return found, nil
}

// Delete removes key. Deleting an absent key is not an error.
func (a *Accessor) Delete(ctx context.Context, key string) error {
	ctx, cancel := a.opContext(ctx)
	defer cancel()

	if err := a.medium.Delete(ctx, key); err != nil {
		a.log.Error().Err(err).Str("op", "delete").Str("key", key).Msg("storage delete failed")
		observability.IncStorageOp("delete", key, observability.OutcomeFailed)
		return fmt.Errorf("%w: %s: %v", ErrStorageWrite, key, err)
	}
	observability.IncStorageOp("delete", key, observability.OutcomeOK)
	return nil
}

// Reset deletes the four records of the current schema version. Keys of
// other versions are left alone.
func (a *Accessor) Reset(ctx context.Context) error {
	for _, key := range []string{a.keys.Users, a.keys.Chats, a.keys.Messages, a.keys.CurrentUserID} {
		if err := a.Delete(ctx, key); err != nil {
			return err
		}
	}
	a.log.Warn().Msg("store reset")
	return nil
}

// Read decodes the value stored under key. A missing key yields def and no
// error. A medium or decode failure is logged and yields def together with
// an error wrapping ErrStorageRead, so callers may degrade or propagate.
func Read[T any](ctx context.Context, a *Accessor, key string, def T) (T, error) {
	ctx, cancel := a.opContext(ctx)
	defer cancel()

	raw, found, err := a.medium.Get(ctx, key)
	if err != nil {
		a.log.Error().Err(err).Str("op", "read").Str("key", key).Msg("storage read failed, using default")
		observability.IncStorageOp("read", key, observability.OutcomeDegraded)
		return def, fmt.Errorf("%w: %s: %v", ErrStorageRead, key, err)
	}
	if !found || raw == "" {
		observability.IncStorageOp("read", key, observability.OutcomeMissing)
		return def, nil
	}

	var out T
	if err := json.Unmarshal([]byte(raw), &out); err != nil {
		a.log.Error().Err(err).Str("op", "read").Str("key", key).Msg("stored value is corrupt, using default")
		observability.IncStorageOp("read", key, observability.OutcomeDegraded)
		return def, fmt.Errorf("%w: %s: %v", ErrStorageRead, key, err)
	}

	observability.IncStorageOp("read", key, observability.OutcomeOK)
	return out, nil
}

// Write replaces the whole value stored under key. Failures are logged and
// returned wrapped in ErrStorageWrite; nothing is written in that case.
func Write[T any](ctx context.Context, a *Accessor, key string, value T) error {
	payload, err := json.Marshal(value)
	if err != nil {
		a.log.Error().Err(err).Str("op", "write").Str("key", key).Msg("encode value failed")
		observability.IncStorageOp("write", key, observability.OutcomeFailed)
		return fmt.Errorf("%w: %s: %v", ErrStorageWrite, key, err)
	}

	ctx, cancel := a.opContext(ctx)
	defer cancel()

	if err := a.medium.Set(ctx, key, string(payload)); err != nil {
		a.log.Error().Err(err).Str("op", "write").Str("key", key).Msg("storage write failed")
		observability.IncStorageOp("write", key, observability.OutcomeFailed)
		return fmt.Errorf("%w: %s: %v", ErrStorageWrite, key, err)
	}

	observability.IncStorageOp("write", key, observability.OutcomeOK)
	return nil
}
