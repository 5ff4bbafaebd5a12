package format

import (
	"regexp"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

func CodeStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Background(lipgloss.Color("236")).
		Padding(0, 1)
}

func BoldStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Bold(true)
}

func ItalicStyle() lipgloss.Style {
	return lipgloss.NewStyle().
		Italic(true)
}

var (
	termCodeRegex   = regexp.MustCompile("`([^`]*)`")
	termBoldRegex   = regexp.MustCompile(`\*\*([^*]|\*[^*])*\*\*`)
	termItalicRegex = regexp.MustCompile(`\*([^*\n]+)\*`)
)

// Escape removes terminal control sequences and stray control characters so
// text cannot restyle or move the cursor.
func Escape(text string) string {
	text = ansi.Strip(text)
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if r < 0x20 || r == 0x7f {
			return -1
		}
		return r
	}, text)
}

// Terminal escapes text and then applies code, bold and italic styling line
// by line. Code spans are styled first so their content stays literal.
func Terminal(text string) string {
	lines := strings.Split(Escape(text), "\n")
	for i, line := range lines {
		lines[i] = processInline(line)
	}
	return strings.Join(lines, "\n")
}

func processInline(line string) string {
	// Split around code spans so their content is not reinterpreted.
	var b strings.Builder
	last := 0
	for _, loc := range termCodeRegex.FindAllStringSubmatchIndex(line, -1) {
		b.WriteString(processEmphasis(line[last:loc[0]]))
		b.WriteString(CodeStyle().Render(line[loc[2]:loc[3]]))
		last = loc[1]
	}
	b.WriteString(processEmphasis(line[last:]))
	return b.String()
}

func processEmphasis(text string) string {
	text = termBoldRegex.ReplaceAllStringFunc(text, func(match string) string {
		content := strings.TrimSuffix(strings.TrimPrefix(match, "**"), "**")
		return BoldStyle().Render(processItalic(content))
	})
	return processItalic(text)
}

func processItalic(text string) string {
	return termItalicRegex.ReplaceAllStringFunc(text, func(match string) string {
		return ItalicStyle().Render(strings.Trim(match, "*"))
	})
}
