package models

import "time"

type Role string

const (
	User      Role = "user"
	Assistant Role = "assistant"
)

// Message is one entry of the rendered transcript.
type Message struct {
	ID        string
	Role      Role
	Text      string
	IsError   bool
	Loading   bool // placeholder shown while a request is outstanding
	Typing    bool // reply is still being animated, render raw
	CreatedAt time.Time
}
