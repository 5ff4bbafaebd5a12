package transport

import (
	"context"
	"time"
)

// ChatPath is the portfolio backend's chat endpoint.
const ChatPath = "/chat"

type ChatRequest struct {
	Message string `json:"message"`
}

type ChatReply struct {
	Reply string `json:"reply"`
}

// Exchanger performs a single attempt against a chat backend. Errors must be
// classified with chaterr so the retry loop can tell transport failures from
// terminal HTTP errors.
type Exchanger interface {
	Exchange(ctx context.Context, endpoint string, payload ChatRequest) (*ChatReply, error)
}

// PendingRequest describes the in-flight attempt.
type PendingRequest struct {
	Attempt   int
	StartedAt time.Time
}
