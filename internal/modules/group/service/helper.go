package group

import (
	"strings"

	"github.com/gosimple/slug"
)

// generateSlug normalizes title into a URL-safe token no longer than maxLen.
func generateSlug(title string, maxLen int) string {
	s := slug.Make(title)
	if maxLen > 0 && len(s) > maxLen {
		s = strings.TrimRight(s[:maxLen], "-_")
	}
	return s
}
