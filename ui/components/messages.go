package components

import (
	"strings"

	"github.com/Rorical/FolioChat/internal/format"
	"github.com/Rorical/FolioChat/internal/models"
	"github.com/Rorical/FolioChat/ui/styles"
)

// RenderMessages draws the transcript. Assistant text is formatted only once
// it is final; text still being typed out is shown as-is.
func RenderMessages(messages []models.Message, loadingDots int, timestamps bool) string {
	var b strings.Builder

	userStyle := styles.UserStyle()
	assistantStyle := styles.AssistantStyle()
	errorStyle := styles.ErrorStyle()
	timestampStyle := styles.TimestampStyle()

	for _, msg := range messages {
		if timestamps && !msg.CreatedAt.IsZero() {
			b.WriteString(timestampStyle.Render(msg.CreatedAt.Format("15:04")) + "\n")
		}

		switch {
		case msg.Role == models.User:
			b.WriteString(userStyle.Render("You: " + format.Escape(msg.Text)))
		case msg.Loading:
			b.WriteString(assistantStyle.Render("Assistant: " + strings.Repeat(".", loadingDots+1)))
		case msg.IsError:
			b.WriteString(errorStyle.Render(format.Escape(msg.Text)))
		case msg.Typing:
			b.WriteString(assistantStyle.Render("Assistant: " + format.Escape(msg.Text)))
		default:
			b.WriteString(assistantStyle.Render("Assistant: " + format.Terminal(msg.Text)))
		}
		b.WriteString("\n\n")
	}

	return b.String()
}
