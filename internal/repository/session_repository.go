package repository

import (
	"context"

	"titanchat/core/internal/models"
)

// SessionRepository holds the single "who is logged in here" pointer.
type SessionRepository struct {
	c *collections
}

func (r *SessionRepository) CurrentUserID(ctx context.Context) (string, bool) {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	id, _ := r.c.currentUserID(ctx)
	if id == nil || *id == "" {
		return "", false
	}
	return *id, true
}

func (r *SessionRepository) SetCurrentUserID(ctx context.Context, userID string) error {
	r.c.mu.Lock()
	defer r.c.mu.Unlock()

	if userID == "" {
		return r.c.saveCurrentUserID(ctx, nil)
	}
	return r.c.saveCurrentUserID(ctx, models.StringPtr(userID))
}

func (r *SessionRepository) Clear(ctx context.Context) error {
	return r.SetCurrentUserID(ctx, "")
}
