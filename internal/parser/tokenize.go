package parser

import (
	"strings"

	"github.com/veidar/munin/internal/ident"
	"github.com/veidar/munin/internal/mapping"
	"github.com/veidar/munin/internal/token"
)

// Tokenize converts a note's full text into an ordered sequence of
// line-level nodes. Blank lines become empty paragraphs so the token count
// matches the source line count exactly.
func Tokenize(text string, titles mapping.Table) []token.Node {
	lines := strings.Split(text, "\n")
	nodes := make([]token.Node, 0, len(lines))
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			nodes = append(nodes, token.NewParagraph(ident.New(), nil))
			continue
		}
		res := ParseLine(line, titles)
		if res.Kind == KindList {
			nodes = append(nodes, res.Node)
			continue
		}
		nodes = append(nodes, token.NewParagraph(ident.New(), res.Elems))
	}
	return nodes
}
