package core

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Rorical/FolioChat/internal/models"
)

// Transcript is the ordered list of rendered messages. Entries are never
// mutated once appended, except that a placeholder may be replaced by ID.
type Transcript struct {
	mu       sync.RWMutex
	messages []models.Message
	now      func() time.Time
}

func NewTranscript() *Transcript {
	return &Transcript{
		messages: make([]models.Message, 0),
		now:      time.Now,
	}
}

func (t *Transcript) Messages() []models.Message {
	t.mu.RLock()
	defer t.mu.RUnlock()
	result := make([]models.Message, len(t.messages))
	copy(result, t.messages)
	return result
}

func (t *Transcript) Len() int {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return len(t.messages)
}

// Append stamps msg with an ID and creation time and appends it.
func (t *Transcript) Append(msg models.Message) string {
	t.mu.Lock()
	defer t.mu.Unlock()

	msg.ID = uuid.NewString()
	msg.CreatedAt = t.now()
	t.messages = append(t.messages, msg)
	return msg.ID
}

func (t *Transcript) AppendUser(text string) string {
	return t.Append(models.Message{Role: models.User, Text: text})
}

func (t *Transcript) AppendAssistant(text string) string {
	return t.Append(models.Message{Role: models.Assistant, Text: text})
}

// AppendPlaceholder adds the loading entry for an outstanding request.
func (t *Transcript) AppendPlaceholder() string {
	return t.Append(models.Message{Role: models.Assistant, Loading: true})
}

// Replace swaps the entry with the given ID for msg, keeping its position,
// ID and creation time. It reports whether the entry was found.
func (t *Transcript) Replace(id string, msg models.Message) bool {
	t.mu.Lock()
	defer t.mu.Unlock()

	for i := range t.messages {
		if t.messages[i].ID == id {
			msg.ID = id
			msg.CreatedAt = t.messages[i].CreatedAt
			t.messages[i] = msg
			return true
		}
	}
	return false
}

func (t *Transcript) Clear() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.messages = t.messages[:0]
}
