package components

import (
	"strings"

	"github.com/Rorical/FolioChat/ui/styles"
)

func RenderStatus(status string, loading bool, loadingDots int, width int) string {
	statusStyle := styles.StatusStyle(width)

	statusContent := status
	if loading {
		statusContent += strings.Repeat(".", loadingDots)
	}

	return statusStyle.Render(statusContent)
}

// RenderNotice returns an empty string when there is nothing to show.
func RenderNotice(notice string) string {
	if notice == "" {
		return ""
	}
	return styles.NoticeStyle().Render(notice)
}
