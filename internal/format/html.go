// Package format renders message text for display. Raw text is always
// escaped for the target medium before formatting delimiters are
// interpreted, so delimiters can only ever wrap already-escaped content.
package format

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Rorical/FolioChat/internal/models"
)

var (
	htmlEscaper = strings.NewReplacer(
		"&", "&amp;",
		"<", "&lt;",
		">", "&gt;",
		`"`, "&#34;",
		"'", "&#39;",
	)

	boldRegex   = regexp.MustCompile(`\*\*(.*?)\*\*`)
	italicRegex = regexp.MustCompile(`\*(.*?)\*`)
	codeRegex   = regexp.MustCompile("`(.*?)`")
)

// HTML escapes text and then applies **bold**, *italic*, `code` and line
// breaks.
func HTML(text string) string {
	formatted := htmlEscaper.Replace(text)

	formatted = boldRegex.ReplaceAllString(formatted, "<strong>$1</strong>")
	formatted = italicRegex.ReplaceAllString(formatted, "<em>$1</em>")
	formatted = codeRegex.ReplaceAllString(formatted, "<code>$1</code>")
	formatted = strings.ReplaceAll(formatted, "\n", "<br>")

	return formatted
}

// MessageHTML renders msg as a transcript entry.
func MessageHTML(msg models.Message) string {
	class := "message " + string(msg.Role)
	if msg.IsError {
		class += " error"
	}
	if msg.Loading {
		class += " loading"
		return fmt.Sprintf(`<div class="%s"><span class="dot"></span><span class="dot"></span><span class="dot"></span></div>`, class)
	}
	return fmt.Sprintf(`<div class="%s">%s</div>`, class, HTML(msg.Text))
}
