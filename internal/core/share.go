// ABOUTME: Share text for posts sent outside the app
// ABOUTME: Title, a preview of at most 100 characters, and the community tagline
package core

import (
	"strings"
	"unicode/utf8"
)

const (
	// SharePreviewLength is the number of characters of content included
	SharePreviewLength = 100
	// ShareTagline closes every shared post
	ShareTagline = "Join the GROWTH Tribe community!"
)

// ShareText formats a post for sharing. Content longer than
// SharePreviewLength characters is cut and marked with an ellipsis.
func ShareText(title, content string) string {
	preview := content
	if utf8.RuneCountInString(content) > SharePreviewLength {
		preview = string([]rune(content)[:SharePreviewLength]) + "..."
	}

	var b strings.Builder
	if title != "" {
		b.WriteString(title)
		b.WriteString("\n\n")
	}
	b.WriteString(preview)
	b.WriteString("\n\n")
	b.WriteString(ShareTagline)
	return b.String()
}
