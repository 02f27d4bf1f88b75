package ids

import "github.com/segmentio/ksuid"

const (
	PrefixUser    = "user_"
	PrefixAdmin   = "admin_"
	PrefixChat    = "chat_"
	PrefixMessage = "msg_"
)

// New returns prefix followed by a KSUID: a second-resolution timestamp and
// 128 random bits, so values sort by creation time.
func New(prefix string) string {
	return prefix + ksuid.New().String()
}
