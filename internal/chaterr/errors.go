// Package chaterr classifies chat request failures and translates them into
// the fixed set of messages shown to the user.
package chaterr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindTimeout
	KindNetwork
	KindServer
	KindRateLimited
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindTimeout:
		return "timeout"
	case KindNetwork:
		return "network"
	case KindServer:
		return "server"
	case KindRateLimited:
		return "rate_limited"
	default:
		return "unknown"
	}
}

// User-facing texts. Raw error text is never displayed.
const (
	TimeoutText     = "Request timed out. Please check your connection and try again."
	NetworkText     = "Couldn't connect to the server. Please check if the backend is running."
	ServerText      = "Server error. Please try again in a moment."
	RateLimitedText = "Too many requests. Please wait a moment and try again."
	GenericText     = "Sorry, something went wrong. Please try again."
)

// Error is a classified chat failure.
type Error struct {
	Kind    Kind
	Status  int // HTTP status for server errors
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil && e.Message != "" {
		return e.Message + ": " + e.Err.Error()
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

func Validation(message string) *Error {
	return &Error{Kind: KindValidation, Message: message}
}

func Timeout(err error) *Error {
	return &Error{Kind: KindTimeout, Message: "request timed out", Err: err}
}

func Network(err error) *Error {
	return &Error{Kind: KindNetwork, Message: "network failure", Err: err}
}

// Server builds the error for a non-2xx response. An empty detail falls back
// to "Server error: <status>".
func Server(status int, detail string) *Error {
	if detail == "" {
		detail = fmt.Sprintf("Server error: %d", status)
	}
	kind := KindServer
	if status == http.StatusTooManyRequests {
		kind = KindRateLimited
	}
	return &Error{Kind: kind, Status: status, Message: detail}
}

func Unknown(message string, err error) *Error {
	return &Error{Kind: KindUnknown, Message: message, Err: err}
}

// KindOf reports the kind of err, KindUnknown when err is not classified.
func KindOf(err error) Kind {
	var ce *Error
	if errors.As(err, &ce) {
		return ce.Kind
	}
	return KindUnknown
}

// Retryable reports whether err is a transport-level failure. HTTP errors
// from a reachable server are never retried, 429 included.
func Retryable(err error) bool {
	switch KindOf(err) {
	case KindTimeout, KindNetwork:
		return true
	default:
		return false
	}
}

// Translate maps err to one of the fixed user-facing texts.
func Translate(err error) string {
	var ce *Error
	if !errors.As(err, &ce) {
		return GenericText
	}
	switch ce.Kind {
	case KindValidation:
		return ce.Message
	case KindTimeout:
		return TimeoutText
	case KindNetwork:
		return NetworkText
	case KindRateLimited:
		return RateLimitedText
	case KindServer:
		if ce.Status >= 500 {
			return ServerText
		}
		return GenericText
	default:
		return GenericText
	}
}
