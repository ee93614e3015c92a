package model

import "time"

// Chat senders.
const (
	SenderUser    = "You"
	SenderAdvisor = "AI Advisor"
	SenderSystem  = "System"
)

// ChatMessage is one line of the chat log.
type ChatMessage struct {
	ID     string
	Sender string
	Body   string
	Time   time.Time
}
