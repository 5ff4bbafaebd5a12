package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	assert.Equal(t, "red", Escape("\x1b[31mred\x1b[0m"))
	assert.Equal(t, "a\nb\tc", Escape("a\nb\tc"))
	assert.Equal(t, "bell", Escape("be\x07ll"))
}

func TestTerminal_RemovesDelimiters(t *testing.T) {
	out := Terminal("**bold** and *soft* and `code`")

	assert.Contains(t, out, "bold")
	assert.Contains(t, out, "soft")
	assert.Contains(t, out, "code")
	assert.NotContains(t, out, "**")
	assert.NotContains(t, out, "`")
}

func TestTerminal_CodeContentStaysLiteral(t *testing.T) {
	out := Terminal("`a **b** c`")
	assert.Contains(t, out, "**b**")
}

func TestTerminal_StripsInjectedSequences(t *testing.T) {
	out := Terminal("**\x1b[2Jwipe**\nline two")

	assert.NotContains(t, out, "\x1b[2J")
	assert.Contains(t, out, "wipe")
	assert.Contains(t, out, "line two")
}
