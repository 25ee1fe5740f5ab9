package title

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/baditaflorin/go_heading_command/internal/adapters/logger"
)

func TestFallbackReader(t *testing.T) {
	tests := []struct {
		name     string
		page     Page
		expected string
		ok       bool
	}{
		{
			name:     "display text wins",
			page:     Page{"#title": Field{Text: "Shown", FormValue: "Typed"}},
			expected: "Shown",
			ok:       true,
		},
		{
			name:     "form value when display text is empty",
			page:     Page{"#title": Field{FormValue: "Typed"}},
			expected: "Typed",
			ok:       true,
		},
		{
			name: "both empty",
			page: Page{"#title": Field{}},
			ok:   false,
		},
		{
			name: "element missing",
			page: Page{"#other": Field{Text: "Elsewhere"}},
			ok:   false,
		},
		{
			name:     "whitespace is not empty",
			page:     Page{"#title": Field{Text: " "}},
			expected: " ",
			ok:       true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			r := NewFallbackReader(tc.page, "#title", logger.NewDiscardLogger())
			text, ok := r.TitleText()
			assert.Equal(t, tc.expected, text)
			assert.Equal(t, tc.ok, ok)
		})
	}
}

func TestFallbackReaderWithoutLookup(t *testing.T) {
	r := NewFallbackReader(nil, "#title", logger.NewDiscardLogger())
	text, ok := r.TitleText()
	assert.Empty(t, text)
	assert.False(t, ok)
}

func TestStaticPage(t *testing.T) {
	el, ok := Static("#title", "Mein Titel").Lookup("#title")
	assert.True(t, ok)
	assert.Equal(t, "", el.InnerText())
	assert.Equal(t, "Mein Titel", el.Value())
}
