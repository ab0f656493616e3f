package parser

import (
	"strings"
	"testing"

	"github.com/veidar/munin/internal/mapping"
	"github.com/veidar/munin/internal/token"
)

func TestParseLine_ListDepth(t *testing.T) {
	for k := 0; k <= 3; k++ {
		line := strings.Repeat("    ", k) + "* item"
		res := ParseLine(line, nil)
		if res.Kind != KindList {
			t.Fatalf("depth %d: kind = %v, want list", k, res.Kind)
		}
		if len(res.Node.Content) != 1 {
			t.Fatalf("depth %d: items = %d, want 1", k, len(res.Node.Content))
		}
		if got := res.Node.Content[0].Depth; got != k {
			t.Errorf("indent %d spaces: depth = %d, want %d", 4*k, got, k)
		}
	}
}

func TestParseLine_ListWrapsSingleParagraph(t *testing.T) {
	res := ParseLine("* hello world", nil)
	item := res.Node.Content[0]
	if item.Type != "listItem" {
		t.Errorf("item type = %q", item.Type)
	}
	if len(item.Content) != 1 {
		t.Fatalf("paragraphs = %d, want 1", len(item.Content))
	}
	para := item.Content[0]
	if para.TokenID == "" {
		t.Error("paragraph has no tokenId")
	}
	if got := concat(para.Content); got != "hello world" {
		t.Errorf("content = %q", got)
	}
}

func TestParseLine_CheckboxUnchecked(t *testing.T) {
	res := ParseLine("- [ ] buy milk", nil)
	if res.Kind != KindParagraph {
		t.Fatalf("kind = %v, want paragraph", res.Kind)
	}
	cb, ok := res.Elems[0].(token.Checkbox)
	if !ok {
		t.Fatalf("element 0 = %#v, want checkbox", res.Elems[0])
	}
	if cb.IsChecked {
		t.Error("isChecked = true, want false")
	}
	if got := concat(res.Elems[1:]); got != "buy milk" {
		t.Errorf("remainder = %q", got)
	}
}

func TestParseLine_CheckboxChecked(t *testing.T) {
	res := ParseLine("- [x] done", nil)
	cb := res.Elems[0].(token.Checkbox)
	if !cb.IsChecked {
		t.Error("isChecked = false, want true")
	}
}

func TestParseLine_WikilinkResolved(t *testing.T) {
	titles := mapping.Table{"Note B": "idB00000"}
	res := ParseLine("Hello [[Note B]] bye", titles)
	if res.Kind != KindParagraph {
		t.Fatalf("kind = %v, want paragraph", res.Kind)
	}

	// Expected: text "Hello", space, spaceship, space, text "bye".
	if len(res.Elems) != 5 {
		t.Fatalf("elements = %d (%#v), want 5", len(res.Elems), res.Elems)
	}
	if txt := res.Elems[0].(token.Text); txt.Content != "Hello" {
		t.Errorf("element 0 = %q", txt.Content)
	}
	if sep := res.Elems[1].(token.Text); sep.Content != " " {
		t.Errorf("element 1 = %q, want space", sep.Content)
	}
	ship, ok := res.Elems[2].(token.Spaceship)
	if !ok {
		t.Fatalf("element 2 = %#v, want spaceship", res.Elems[2])
	}
	if ship.LinkedNoteID != "idB00000" {
		t.Errorf("linkedNoteId = %q, want %q", ship.LinkedNoteID, "idB00000")
	}
	if ship.TokenID == "" || ship.TokenID == ship.LinkedNoteID {
		t.Errorf("tokenId = %q, want fresh identifier", ship.TokenID)
	}
	if txt := res.Elems[4].(token.Text); txt.Content != "bye" {
		t.Errorf("element 4 = %q", txt.Content)
	}
}

func TestParseLine_WikilinkUnresolvedMintsDanglingID(t *testing.T) {
	res := ParseLine("[[Nowhere]]", mapping.Table{})
	ship, ok := res.Elems[0].(token.Spaceship)
	if !ok {
		t.Fatalf("element 0 = %#v, want spaceship", res.Elems[0])
	}
	if ship.LinkedNoteID == "" {
		t.Error("dangling link has empty target")
	}
}

func TestParseLine_AdjacentWikilinksStaySeparate(t *testing.T) {
	titles := mapping.Table{"A": "idA", "B": "idB"}
	res := ParseLine("[[A]][[B]]", titles)
	if len(res.Elems) != 2 {
		t.Fatalf("elements = %d (%#v), want 2", len(res.Elems), res.Elems)
	}
	if res.Elems[0].(token.Spaceship).LinkedNoteID != "idA" {
		t.Errorf("first target = %#v", res.Elems[0])
	}
	if res.Elems[1].(token.Spaceship).LinkedNoteID != "idB" {
		t.Errorf("second target = %#v", res.Elems[1])
	}
}

func TestParseLine_SpaceSeparatedWikilinks(t *testing.T) {
	titles := mapping.Table{"A": "idA", "B": "idB"}
	res := ParseLine("[[A]] [[B]]", titles)
	// spaceship, separator, spaceship
	if len(res.Elems) != 3 {
		t.Fatalf("elements = %d (%#v), want 3", len(res.Elems), res.Elems)
	}
	if sep := res.Elems[1].(token.Text); sep.Content != " " {
		t.Errorf("separator = %q", sep.Content)
	}
}

func TestParseLine_UnterminatedBracketsAreText(t *testing.T) {
	res := ParseLine("open [[never closed", nil)
	for _, e := range res.Elems {
		if _, ok := e.(token.Spaceship); ok {
			t.Fatalf("unexpected spaceship in %#v", res.Elems)
		}
	}
}

func TestParseLine_ClassificationOrder(t *testing.T) {
	// A bullet that also contains a checkbox-looking prefix classifies as a
	// list first.
	res := ParseLine("* - [ ] nested", nil)
	if res.Kind != KindList {
		t.Errorf("kind = %v, want list", res.Kind)
	}
}
