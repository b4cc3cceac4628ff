package sanitize

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscape(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"plain text untouched", "hello world", "hello world"},
		{"angle brackets", "<b>bold</b>", "&lt;b&gt;bold&lt;/b&gt;"},
		{"ampersand", "a & b", "a &amp; b"},
		{"all three together", "<&>", "&lt;&amp;&gt;"},
		{"ampersand escaped before brackets", "&<", "&amp;&lt;"},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Escape(tt.input))
		})
	}
}

// Escaping is deliberately not idempotent: a second pass re-escapes the
// ampersands introduced by the first. Callers escape exactly once.
func TestEscapeTwiceReEscapesAmpersands(t *testing.T) {
	once := Escape("<x>")
	assert.Equal(t, "&lt;x&gt;", once)
	assert.Equal(t, "&amp;lt;x&amp;gt;", Escape(once))
}

func TestOrPlaceholder(t *testing.T) {
	assert.Equal(t, "-", OrPlaceholder(""))
	assert.Equal(t, "-", OrPlaceholder("   "))
	assert.Equal(t, "jane@x.com", OrPlaceholder("jane@x.com"))
}
