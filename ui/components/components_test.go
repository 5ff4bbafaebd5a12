package components

import (
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/Rorical/FolioChat/internal/models"
)

func plain(s string) string {
	return ansi.Strip(s)
}

func TestRenderMessages(t *testing.T) {
	messages := []models.Message{
		{Role: models.User, Text: "what is **go**"},
		{Role: models.Assistant, Text: "a **language**"},
		{Role: models.Assistant, Text: "Request timed out", IsError: true},
		{Role: models.Assistant, Loading: true},
	}

	out := plain(RenderMessages(messages, 2, false))

	assert.Contains(t, out, "You: what is **go**", "user text is not formatted")
	assert.Contains(t, out, "Assistant: a language")
	assert.Contains(t, out, "Request timed out")
	assert.Contains(t, out, "Assistant: ...")
}

func TestRenderMessages_TypingTextIsRaw(t *testing.T) {
	out := plain(RenderMessages([]models.Message{{Role: models.Assistant, Text: "**par", Typing: true}}, 0, false))
	assert.Contains(t, out, "**par")
}

func TestRenderMessages_Timestamps(t *testing.T) {
	at := time.Date(2024, 5, 1, 9, 30, 0, 0, time.Local)
	msgs := []models.Message{{Role: models.User, Text: "hi", CreatedAt: at}}

	assert.Contains(t, plain(RenderMessages(msgs, 0, true)), "09:30")
	assert.NotContains(t, plain(RenderMessages(msgs, 0, false)), "09:30")
}

func TestRenderInput(t *testing.T) {
	assert.Contains(t, plain(RenderInput("hello", true, 40)), "hello")
	assert.Contains(t, plain(RenderInput("hello", false, 40)), "Waiting for reply")
	assert.Contains(t, plain(RenderInput("", true, 60)), "Ask about")
}

func TestRenderNotice(t *testing.T) {
	assert.Empty(t, RenderNotice(""))
	assert.True(t, strings.Contains(plain(RenderNotice("Please enter a message")), "Please enter a message"))
}
