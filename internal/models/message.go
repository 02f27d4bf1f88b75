package models

import "time"

type MessageType string

const (
	MessageTypeText     MessageType = "text"
	MessageTypeImage    MessageType = "image"
	MessageTypeFile     MessageType = "file"
	MessageTypeAudio    MessageType = "audio"
	MessageTypeLink     MessageType = "link"
	MessageTypeLocation MessageType = "location"
	MessageTypeSystem   MessageType = "system"
)

// TimestampLayout matches the ISO-8601 form browsers emit for dates.
const TimestampLayout = "2006-01-02T15:04:05.000Z07:00"

type Message struct {
	ID        string              `json:"id"`
	ChatID    string              `json:"chatId"`
	SenderID  string              `json:"senderId"`
	Content   string              `json:"content"`
	Timestamp string              `json:"timestamp"`
	Type      MessageType         `json:"type"`
	FileName  string              `json:"fileName,omitempty"`
	FileURL   string              `json:"fileUrl,omitempty"`
	Reactions map[string][]string `json:"reactions,omitempty"`
}

// MessageLog maps chat id to that chat's messages in append order.
type MessageLog map[string][]Message

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(TimestampLayout)
}

// ParseTimestamp returns the zero time for empty or malformed input.
func ParseTimestamp(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
