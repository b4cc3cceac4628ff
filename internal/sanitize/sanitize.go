// Package sanitize escapes user-supplied text for safe inclusion in the
// HTML-mode notification body sent to the messaging provider.
package sanitize

import "strings"

// Escape replaces &, < and > with their named entities.
//
// The ampersand must be replaced first so the entities introduced by the
// later replacements are not double-escaped. Escaping already-escaped
// text re-escapes its ampersands; callers must escape exactly once.
func Escape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// OrPlaceholder substitutes "-" for values that are empty after
// trimming, so optional fields always render in the message template.
func OrPlaceholder(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
