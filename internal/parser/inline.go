// Package parser turns raw note text into Ideaflow tokens: inline elements
// within a line, line-level classification, and whole-note tokenization.
package parser

import (
	"regexp"
	"strings"

	"github.com/veidar/munin/internal/token"
)

// urlRe matches a URL at the start of a word: http or https scheme followed
// by URL-safe characters, including percent-encoded octets.
var urlRe = regexp.MustCompile(`^https?://(?:[a-zA-Z0-9$-_@.&+!*(),]|%[0-9a-fA-F]{2})+`)

// ParseInline splits a line of text into typed inline elements. Words are
// whitespace-delimited; consecutive words are rejoined with a single literal
// space element, so runs of internal whitespace collapse to one separator.
// Classification per word: URL, then hashtag, then plain text.
func ParseInline(text string) []token.Inline {
	words := strings.Fields(text)
	elems := make([]token.Inline, 0, 2*len(words))
	for i, word := range words {
		switch {
		case urlRe.MatchString(word):
			elems = append(elems, token.NewLink(word))
		case strings.HasPrefix(word, "#"):
			elems = append(elems, token.NewHashtag(word))
		default:
			elems = append(elems, token.NewText(word))
		}
		if i < len(words)-1 {
			elems = append(elems, token.NewText(" "))
		}
	}
	return elems
}
