package normalizer

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gosimple/slug"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"

	"github.com/baditaflorin/go_heading_command/internal/pool"
	"github.com/baditaflorin/go_heading_command/internal/ports"
)

// specialCharacters are removed before anything else happens.
const specialCharacters = "`~!@#$%^&*()_|+=?;:'\",.<>{}[]\\/"

// wordStart matches an ASCII word character sitting on an ASCII word boundary.
var wordStart = regexp.MustCompile(`\b\w`)

// HeadingNormalizer turns heading and title text into an identifier token.
//
// The pipeline is fixed and order dependent:
//
//  1. drop special characters
//  2. transliterate German umlauts and ß (no other accented letters)
//  3. upper-case the first rune, replace the first "-" with a space and
//     upper-case the first letter of every word
//  4. drop all whitespace
//
// Only the first hyphen is replaced; later hyphens stay in the token.
type HeadingNormalizer struct {
	// Pre-computed removal table for ASCII characters (0-127)
	removeTable [128]bool
	compose     bool
	bytePool    *pool.BufferPool
}

// NewHeadingNormalizer creates the default heading normalizer.
func NewHeadingNormalizer() ports.Normalizer {
	return newHeadingNormalizer(false)
}

// NewComposingNormalizer creates a heading normalizer that NFC-composes its
// input first, so decomposed umlauts (a + U+0308) are transliterated as well.
func NewComposingNormalizer() ports.Normalizer {
	return newHeadingNormalizer(true)
}

func newHeadingNormalizer(compose bool) *HeadingNormalizer {
	n := &HeadingNormalizer{
		compose:  compose,
		bytePool: pool.NewBufferPool(256),
	}
	for i := 0; i < len(specialCharacters); i++ {
		n.removeTable[specialCharacters[i]] = true
	}
	return n
}

// Normalize returns the identifier token for text. Empty input yields "".
func (n *HeadingNormalizer) Normalize(text string) string {
	if n.compose {
		text = norm.NFC.String(text)
	}
	text = n.stripAndTransliterate(text)
	if text == "" {
		return ""
	}
	text = capitalizeWords(text)
	return removeAllSpaces(text)
}

// transliterations spells German umlauts and ß as ASCII digraphs. Other
// accented letters are kept as they are.
var transliterations = map[rune]string{
	'ä': "ae",
	'Ä': "Ae",
	'ö': "oe",
	'Ö': "Oe",
	'ü': "ue",
	'Ü': "Ue",
	'ß': "ss",
}

// stripAndTransliterate runs steps 1 and 2.
func (n *HeadingNormalizer) stripAndTransliterate(text string) string {
	return slug.SubstituteRune(n.strip(text), transliterations)
}

// strip drops the special characters using the ASCII removal table.
func (n *HeadingNormalizer) strip(text string) string {
	buffer := n.bytePool.Get()
	defer n.bytePool.Put(buffer)

	buf := *buffer
	for i := 0; i < len(text); i++ {
		c := text[i]
		if c < utf8.RuneSelf && n.removeTable[c] {
			continue
		}
		buf = append(buf, c)
	}
	*buffer = buf
	return string(buf)
}

func capitalizeWords(text string) string {
	text = upperFirst(text)
	text = strings.Replace(text, "-", " ", 1)
	return wordStart.ReplaceAllStringFunc(text, strings.ToUpper)
}

func removeAllSpaces(text string) string {
	return strings.Map(func(r rune) rune {
		if isSpace(r) {
			return -1
		}
		return r
	}, strings.TrimFunc(text, isSpace))
}

// upperFirst upper-cases the first rune with full case mapping, so a
// ligature such as "ﬁ" becomes "FI".
func upperFirst(text string) string {
	first, size := utf8.DecodeRuneInString(text)
	if first < utf8.RuneSelf {
		return string(unicode.ToUpper(first)) + text[size:]
	}
	// A Caser keeps state and is not safe for concurrent use.
	return cases.Upper(language.Und).String(text[:size]) + text[size:]
}

// isSpace matches the ECMAScript whitespace set: Unicode White_Space plus
// U+FEFF, without U+0085.
func isSpace(r rune) bool {
	if r == '\u0085' {
		return false
	}
	return unicode.IsSpace(r) || r == '\uFEFF'
}
