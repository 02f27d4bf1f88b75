package models

type ChatType string

const (
	ChatTypeIndividual ChatType = "individual"
	ChatTypeGroup      ChatType = "group"
	ChatTypeChannel    ChatType = "channel"
)

// ParticipantDetail is the profile snapshot cached on a chat per participant.
type ParticipantDetail struct {
	Name          string  `json:"name"`
	Nickname      string  `json:"nickname"`
	AvatarURL     *string `json:"avatarUrl,omitempty"`
	AvatarBgColor *string `json:"avatarBgColor,omitempty"`
}

// Chat is one element of the chats collection. For individual chats Name,
// AvatarURL and AvatarBgColor mirror whichever participant was passed as the
// counterpart on the last create-or-get call; viewers must resolve their own
// counterpart instead of trusting these fields.
type Chat struct {
	ID                   string                       `json:"id"`
	Name                 string                       `json:"name"`
	Type                 ChatType                     `json:"type"`
	Participants         []string                     `json:"participants"`
	AvatarURL            *string                      `json:"avatarUrl,omitempty"`
	AvatarBgColor        *string                      `json:"avatarBgColor,omitempty"`
	LastMessage          string                       `json:"lastMessage,omitempty"`
	LastMessageTimestamp string                       `json:"lastMessageTimestamp,omitempty"`
	UnreadCount          int                          `json:"unreadCount"`
	Admins               []string                     `json:"admins,omitempty"`
	Owner                string                       `json:"owner,omitempty"`
	ParticipantDetails   map[string]ParticipantDetail `json:"participantDetails,omitempty"`
}

func (c Chat) HasParticipant(userID string) bool {
	for _, id := range c.Participants {
		if id == userID {
			return true
		}
	}
	return false
}

// Counterpart returns the first participant that is not userID.
func (c Chat) Counterpart(userID string) (string, bool) {
	for _, id := range c.Participants {
		if id != userID {
			return id, true
		}
	}
	return "", false
}

// IsPair reports whether the participant set is exactly {a, b}, in any order.
func (c Chat) IsPair(a, b string) bool {
	if len(c.Participants) != 2 {
		return false
	}
	p, q := c.Participants[0], c.Participants[1]
	return (p == a && q == b) || (p == b && q == a)
}
