package models

type UserStatus string

const (
	UserStatusOnline  UserStatus = "online"
	UserStatusOffline UserStatus = "offline"
	UserStatusAway    UserStatus = "away"
)

// User is persisted as one element of the users collection. Pointer fields
// are optional in the stored JSON; records written by older schema
// versions may lack them until bootstrap backfills them.
type User struct {
	ID            string     `json:"id"`
	Name          string     `json:"name"`
	Nickname      string     `json:"nickname"`
	Email         string     `json:"email"`
	PasswordHash  string     `json:"passwordHash"`
	AvatarURL     *string    `json:"avatarUrl,omitempty"`
	AvatarBgColor *string    `json:"avatarBgColor,omitempty"`
	Status        UserStatus `json:"status,omitempty"`
	Bio           *string    `json:"bio,omitempty"`
	IsAdmin       *bool      `json:"isAdmin,omitempty"`
}

func (u User) Admin() bool {
	return u.IsAdmin != nil && *u.IsAdmin
}

// DisplayName is the nickname, falling back to the real name.
func (u User) DisplayName() string {
	if u.Nickname != "" {
		return u.Nickname
	}
	return u.Name
}

func (u User) Detail() ParticipantDetail {
	return ParticipantDetail{
		Name:          u.Name,
		Nickname:      u.Nickname,
		AvatarURL:     u.AvatarURL,
		AvatarBgColor: u.AvatarBgColor,
	}
}

func StringPtr(s string) *string {
	return &s
}

func BoolPtr(b bool) *bool {
	return &b
}

// Deref returns the pointed-to string or "".
func Deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
