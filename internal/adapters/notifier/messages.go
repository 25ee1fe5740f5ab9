package notifier

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// MissingTitleKey is the catalog key of the "set a title first" alert.
const MissingTitleKey = "missing-title"

// Messages holds the localized user-facing texts.
type Messages struct {
	builder *catalog.Builder
	matcher language.Matcher
}

// NewMessages builds the message catalog. German is the fallback language.
func NewMessages() (*Messages, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.German))
	entries := []struct {
		tag language.Tag
		msg string
	}{
		{language.German, "\nBitte gib deinem Artikel zuerst einen Titel\n(Oberhalb des \"Editors\")\nDanke!"},
		{language.English, "\nPlease give your article a title first\n(above the \"editor\")\nThank you!"},
	}
	for _, e := range entries {
		if err := b.SetString(e.tag, MissingTitleKey, e.msg); err != nil {
			return nil, fmt.Errorf("set %s message for %s: %w", MissingTitleKey, e.tag, err)
		}
	}
	return &Messages{
		builder: b,
		matcher: language.NewMatcher([]language.Tag{language.German, language.English}),
	}, nil
}

// Lookup returns the message for key in the language closest to lang.
// Unknown or malformed language tags fall back to German.
func (m *Messages) Lookup(lang, key string) string {
	tag := language.German
	if parsed, err := language.Parse(lang); err == nil {
		if matched, _, conf := m.matcher.Match(parsed); conf != language.No {
			base, _ := matched.Base()
			tag = language.Make(base.String())
		}
	}
	return message.NewPrinter(tag, message.Catalog(m.builder)).Sprintf(key)
}

// MissingTitle returns the missing title alert for lang.
func (m *Messages) MissingTitle(lang string) string {
	return m.Lookup(lang, MissingTitleKey)
}
