package components

import (
	"github.com/Rorical/FolioChat/internal/format"
	"github.com/Rorical/FolioChat/ui/styles"
)

const inputPlaceholder = "Ask about projects, skills, or experience..."

func RenderInput(input string, enabled bool, width int) string {
	if !enabled {
		return styles.DisabledInputStyle(width).Render("Waiting for reply...")
	}
	if input == "" {
		return styles.DisabledInputStyle(width).Render(inputPlaceholder)
	}
	return styles.InputStyle(width).Render(format.Escape(input) + "█")
}
