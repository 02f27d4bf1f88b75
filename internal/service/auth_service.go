package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"titanchat/core/internal/models"
	"titanchat/core/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAdminSelfDelete    = errors.New("admin accounts cannot delete themselves")
	ErrNoSession          = errors.New("no active session")
)

type AuthService struct {
	users    *repository.UserRepository
	sessions *repository.SessionRepository
	log      zerolog.Logger
}

func NewAuthService(repos *repository.Set, log zerolog.Logger) *AuthService {
	return &AuthService{
		users:    repos.Users,
		sessions: repos.Sessions,
		log:      log.With().Str("component", "auth").Logger(),
	}
}

type RegisterInput struct {
	Name      string
	Nickname  string
	Email     string
	Password  string
	AvatarURL string
	Bio       string
}

// Register creates the account and logs it in.
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (models.User, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Nickname = strings.TrimSpace(input.Nickname)
	if input.Email == "" || input.Password == "" || input.Nickname == "" {
		return models.User{}, fmt.Errorf("email, nickname and password required")
	}

	user, err := s.users.Create(ctx, repository.CreateUserInput{
		Name:         strings.TrimSpace(input.Name),
		Nickname:     input.Nickname,
		Email:        input.Email,
		PasswordHash: input.Password,
		AvatarURL:    input.AvatarURL,
		Bio:          input.Bio,
	})
	if err != nil {
		return models.User{}, err
	}

	if err := s.sessions.SetCurrentUserID(ctx, user.ID); err != nil {
		return user, err
	}
	s.log.Info().Str("user_id", user.ID).Msg("user registered")
	return user, nil
}

// Login compares the stored password verbatim; accounts here are local
// profiles, not secrets.
func (s *AuthService) Login(ctx context.Context, email string, password string) (models.User, error) {
	user, ok := s.users.FindByEmail(ctx, strings.TrimSpace(email))
	if !ok || user.PasswordHash != password {
		return models.User{}, ErrInvalidCredentials
	}

	if err := s.sessions.SetCurrentUserID(ctx, user.ID); err != nil {
		return models.User{}, err
	}
	s.log.Info().Str("user_id", user.ID).Msg("user logged in")
	return user, nil
}

func (s *AuthService) Logout(ctx context.Context) error {
	return s.sessions.Clear(ctx)
}

// Restore returns the logged-in user. A pointer to a user that no longer
// exists is cleared.
func (s *AuthService) Restore(ctx context.Context) (models.User, error) {
	id, ok := s.sessions.CurrentUserID(ctx)
	if !ok {
		return models.User{}, ErrNoSession
	}

	user, ok := s.users.FindByID(ctx, id)
	if !ok {
		s.log.Warn().Str("user_id", id).Msg("session points at unknown user, clearing")
		if err := s.sessions.Clear(ctx); err != nil {
			return models.User{}, err
		}
		return models.User{}, ErrNoSession
	}
	return user, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID string, update repository.UserUpdate) (models.User, error) {
	return s.users.Update(ctx, userID, update)
}

// DeleteAccount removes the caller's own account. The cascade clears the
// session.
func (s *AuthService) DeleteAccount(ctx context.Context, userID string) error {
	user, ok := s.users.FindByID(ctx, userID)
	if !ok {
		return repository.ErrUserNotFound
	}
	if user.Admin() {
		return ErrAdminSelfDelete
	}

	if _, err := s.users.Delete(ctx, userID); err != nil {
		return err
	}
	s.log.Info().Str("user_id", userID).Msg("account deleted")
	return nil
}
