package model

import "time"

type Sender string

const (
	SenderUser Sender = "user"
	SenderBot  Sender = "bot"
)

func (s Sender) String() string {
	return string(s)
}

func (s Sender) Valid() bool {
	return s == SenderUser || s == SenderBot
}

type MessageStatus string

const (
	// StatusPending marks a user message not yet retrieved by the bot.
	StatusPending MessageStatus = "pending"
	// StatusSent marks a user message already handed to the bot by a poll.
	StatusSent MessageStatus = "sent"
	// StatusDeliveredToUser marks a bot reply visible in the conversation view.
	StatusDeliveredToUser MessageStatus = "delivered_to_user"
)

func (s MessageStatus) String() string {
	return string(s)
}

func (s MessageStatus) Valid() bool {
	return s == StatusPending || s == StatusSent || s == StatusDeliveredToUser
}

// RelayMessage is one turn of a relayed conversation. Messages are
// append-only: the only mutation after creation is the pending→sent
// transition performed by a drain.
type RelayMessage struct {
	ID        string        `json:"id"`
	Phone     string        `json:"phone"` // normalized conversation key
	Text      string        `json:"text"`
	Sender    Sender        `json:"sender"`
	Status    MessageStatus `json:"status"`
	CreatedAt time.Time     `json:"created_at"`
}
