package parser

import (
	"log/slog"
	"strings"
	"unicode"

	"github.com/veidar/munin/internal/ident"
	"github.com/veidar/munin/internal/mapping"
	"github.com/veidar/munin/internal/token"
)

// Kind tells the tokenizer how to embed a parsed line.
type Kind int

const (
	// KindParagraph lines are wrapped in a fresh paragraph by the caller.
	KindParagraph Kind = iota
	// KindList lines carry a complete list node appended as-is.
	KindList
)

// LineResult is the outcome of classifying one line. Node is set for
// KindList, Elems for KindParagraph.
type LineResult struct {
	Kind  Kind
	Node  token.List
	Elems []token.Inline
}

const (
	uncheckedPrefix = "- [ ] "
	checkedPrefix   = "- [x] "
)

// ParseLine classifies a single line as a list item, a checkbox line, or a
// plain paragraph, in that order, and parses its content. Cross-note
// [[links]] in plain lines resolve through titles; unknown titles mint a
// dangling identifier so the output stays structurally valid.
func ParseLine(line string, titles mapping.Table) LineResult {
	// Bullets: depth is derived from the original line's leading
	// whitespace, four columns per level.
	trimmed := strings.TrimLeft(line, " \t")
	if strings.HasPrefix(trimmed, "* ") {
		depth := (len(line) - len(trimmed)) / 4
		para := token.NewParagraph(ident.New(), ParseInline(trimmed[2:]))
		item := token.NewListItem([]token.Paragraph{para}, depth)
		return LineResult{Kind: KindList, Node: token.NewList([]token.ListItem{item})}
	}

	if strings.HasPrefix(line, uncheckedPrefix) || strings.HasPrefix(line, checkedPrefix) {
		elems := make([]token.Inline, 0, 1)
		elems = append(elems, token.NewCheckbox(strings.HasPrefix(line, checkedPrefix)))
		elems = append(elems, ParseInline(line[len(checkedPrefix):])...)
		return LineResult{Kind: KindParagraph, Elems: elems}
	}

	return LineResult{Kind: KindParagraph, Elems: parseWikilinks(line, titles)}
}

// parseWikilinks walks the line left to right emitting (plain-span, link)
// pairs. Each [[Title]] match is the shortest one possible, so adjacent
// links never merge into a single span. Whitespace touching a link is
// collapsed into a single separator element, so concatenating the element
// contents reproduces the line with whitespace runs collapsed.
func parseWikilinks(line string, titles mapping.Table) []token.Inline {
	elems := make([]token.Inline, 0)
	pos := 0
	for {
		open := strings.Index(line[pos:], "[[")
		if open < 0 {
			break
		}
		open += pos
		end := strings.Index(line[open+2:], "]]")
		if end < 0 {
			break
		}
		end += open + 2

		if open > pos {
			elems = appendSpan(elems, line[pos:open], pos > 0)
		}

		title := line[open+2 : end]
		target, ok := titles[title]
		if !ok {
			// The link points at no known note; keep the output valid
			// with a placeholder target.
			target = ident.New()
			slog.Warn("parser: unresolved wikilink", slog.String("title", title))
		}
		elems = append(elems, token.NewSpaceship(target, ident.New()))

		pos = end + 2
	}
	if rest := line[pos:]; rest != "" {
		if ts := ParseInline(rest); len(ts) > 0 {
			if len(elems) > 0 && hasLeadingSpace(rest) {
				elems = append(elems, token.NewText(" "))
			}
			elems = append(elems, ts...)
		}
	}
	return elems
}

// appendSpan parses a plain-text span preceding a link and appends its
// elements plus a single separator for the whitespace that touched the
// link. afterLink is true when the span follows an earlier link.
func appendSpan(elems []token.Inline, span string, afterLink bool) []token.Inline {
	ps := ParseInline(span)
	if len(ps) == 0 {
		// Whitespace-only span between two links keeps one separator.
		if afterLink && strings.TrimSpace(span) == "" && span != "" {
			elems = append(elems, token.NewText(" "))
		}
		return elems
	}
	if afterLink && hasLeadingSpace(span) {
		elems = append(elems, token.NewText(" "))
	}
	elems = append(elems, ps...)
	if hasTrailingSpace(span) {
		elems = append(elems, token.NewText(" "))
	}
	return elems
}

func hasLeadingSpace(s string) bool {
	return strings.TrimLeftFunc(s, unicode.IsSpace) != s
}

func hasTrailingSpace(s string) bool {
	return strings.TrimRightFunc(s, unicode.IsSpace) != s
}
