// Package token defines the Ideaflow token model: the inline elements and
// line-level nodes that make up a converted note body, plus the note record
// and top-level import document. Field names and shapes are fixed by the
// Ideaflow import format and must not change.
package token

// Inline is an inline-level element within a paragraph: a text run, a URL
// link, a hashtag, a checkbox marker, or a spaceship (cross-note reference).
type Inline interface {
	inline()
}

// Node is a line-level token in a note body: a paragraph or a list.
type Node interface {
	node()
}

// Text is a plain text run. Marks always marshals as an array, never null.
type Text struct {
	Type    string   `json:"type"`
	Marks   []string `json:"marks"`
	Content string   `json:"content"`
}

func (Text) inline() {}

// NewText creates a text element with an empty mark list.
func NewText(content string) Text {
	return Text{Type: "text", Marks: []string{}, Content: content}
}

// Link is a URL link. The literal word serves as both content and slug.
type Link struct {
	Type    string `json:"type"`
	Content string `json:"content"`
	Slug    string `json:"slug"`
}

func (Link) inline() {}

// NewLink creates a link element from a URL word.
func NewLink(url string) Link {
	return Link{Type: "link", Content: url, Slug: url}
}

// Hashtag is a #tag word, stored with its leading #.
type Hashtag struct {
	Type    string `json:"type"`
	Content string `json:"content"`
}

func (Hashtag) inline() {}

// NewHashtag creates a hashtag element.
func NewHashtag(content string) Hashtag {
	return Hashtag{Type: "hashtag", Content: content}
}

// Checkbox is the marker element at the start of a checkbox line.
type Checkbox struct {
	Type      string `json:"type"`
	IsChecked bool   `json:"isChecked"`
}

func (Checkbox) inline() {}

// NewCheckbox creates a checkbox marker.
func NewCheckbox(checked bool) Checkbox {
	return Checkbox{Type: "checkbox", IsChecked: checked}
}

// Spaceship is a cross-note reference resolved through the title mapping.
// LinkedNoteID is the target note's identifier; TokenID names this element.
type Spaceship struct {
	Type         string `json:"type"`
	LinkedNoteID string `json:"linkedNoteId"`
	TokenID      string `json:"tokenId"`
}

func (Spaceship) inline() {}

// NewSpaceship creates a cross-note reference element.
func NewSpaceship(linkedNoteID, tokenID string) Spaceship {
	return Spaceship{Type: "spaceship", LinkedNoteID: linkedNoteID, TokenID: tokenID}
}

// Paragraph wraps an ordered sequence of inline elements. Blank source lines
// become paragraphs with an empty (but non-null) content array.
type Paragraph struct {
	Type    string   `json:"type"`
	TokenID string   `json:"tokenId"`
	Content []Inline `json:"content"`
}

func (Paragraph) node() {}

// NewParagraph creates a paragraph node. A nil content slice is normalised
// to an empty one so it marshals as [].
func NewParagraph(tokenID string, content []Inline) Paragraph {
	if content == nil {
		content = []Inline{}
	}
	return Paragraph{Type: "paragraph", TokenID: tokenID, Content: content}
}

// ListItem is one bullet at a given indentation depth, wrapping a single
// paragraph.
type ListItem struct {
	Type    string      `json:"type"`
	Content []Paragraph `json:"content"`
	Depth   int         `json:"depth"`
}

// NewListItem creates a list item node.
func NewListItem(content []Paragraph, depth int) ListItem {
	return ListItem{Type: "listItem", Content: content, Depth: depth}
}

// List is the line-level wrapper around list items.
type List struct {
	Type    string     `json:"type"`
	Content []ListItem `json:"content"`
}

func (List) node() {}

// NewList creates a list node.
func NewList(items []ListItem) List {
	return List{Type: "list", Content: items}
}
