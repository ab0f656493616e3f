package exporter

import (
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/veidar/munin/internal/testutil"
	"github.com/veidar/munin/internal/token"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func fixedNow() time.Time {
	return time.Date(2023, 8, 21, 12, 30, 45, 123456000, time.UTC)
}

func TestConvert_EndToEnd(t *testing.T) {
	dir, store := testutil.TestVault(t)
	testutil.WriteNote(t, dir, "Note A.md", "Hello [[Note B]] #tag http://x.com")
	testutil.WriteNote(t, dir, "Note B.md", "")

	ex := New(store, ".md", nil, discardLogger())
	ex.now = fixedNow

	doc, summaries, err := ex.Convert()
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	if doc.Version != "08212023" {
		t.Errorf("version = %q", doc.Version)
	}
	if len(doc.Notes) != 2 {
		t.Fatalf("notes = %d, want 2", len(doc.Notes))
	}

	ids := make(map[string]string, len(summaries))
	for _, s := range summaries {
		ids[s.Title] = s.ID
	}
	if ids["Note A"] == "" || ids["Note B"] == "" {
		t.Fatalf("summaries missing titles: %v", summaries)
	}

	noteA := doc.Notes[ids["Note A"]]
	if noteA.ID != ids["Note A"] {
		t.Errorf("id mismatch: %q vs %q", noteA.ID, ids["Note A"])
	}

	// Token 0 is the prepended title line; token 1 is the body line.
	if len(noteA.Tokens) < 2 {
		t.Fatalf("tokens = %d, want >= 2", len(noteA.Tokens))
	}
	titlePara, ok := noteA.Tokens[0].(token.Paragraph)
	if !ok {
		t.Fatalf("token 0 = %#v, want paragraph", noteA.Tokens[0])
	}
	if got := titlePara.Content[0].(token.Text).Content; got != "Note" {
		t.Errorf("title first word = %q", got)
	}

	body := noteA.Tokens[1].(token.Paragraph)
	if len(body.Content) != 7 {
		t.Fatalf("body elements = %d (%#v), want 7", len(body.Content), body.Content)
	}
	if txt := body.Content[0].(token.Text); txt.Content != "Hello" {
		t.Errorf("element 0 = %q", txt.Content)
	}
	ship := body.Content[2].(token.Spaceship)
	if ship.LinkedNoteID != ids["Note B"] {
		t.Errorf("spaceship target = %q, want %q", ship.LinkedNoteID, ids["Note B"])
	}
	if tag := body.Content[4].(token.Hashtag); tag.Content != "#tag" {
		t.Errorf("element 4 = %#v", body.Content[4])
	}
	if link := body.Content[6].(token.Link); link.Content != "http://x.com" {
		t.Errorf("element 6 = %#v", body.Content[6])
	}
}

func TestConvert_NoteRecordFields(t *testing.T) {
	dir, store := testutil.TestVault(t)
	testutil.WriteNote(t, dir, "Solo.md", "body")

	ex := New(store, ".md", nil, discardLogger())
	ex.now = fixedNow

	doc, _, err := ex.Convert()
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	var note token.Note
	for _, n := range doc.Notes {
		note = n
	}
	if note.CreatedAt != "2023-08-21T12:30:45.123456Z" {
		t.Errorf("created_at = %q", note.CreatedAt)
	}
	if note.UpdatedAt != note.CreatedAt {
		t.Errorf("updated_at = %q, want %q", note.UpdatedAt, note.CreatedAt)
	}
	if note.InsertedAt != "20230821" {
		t.Errorf("inserted_at = %q", note.InsertedAt)
	}
	if note.Position != "aC" {
		t.Errorf("position = %q", note.Position)
	}
	if note.ImportSource != "Obsidian" {
		t.Errorf("import_source = %q", note.ImportSource)
	}
	if note.ReadAll {
		t.Error("read_all = true, want false")
	}
	if note.DeletedAt != nil || note.FolderID != nil || note.ImportBatch != nil {
		t.Error("nullable fields must stay null")
	}
}

func TestConvert_BlankLineParity(t *testing.T) {
	dir, store := testutil.TestVault(t)
	testutil.WriteNote(t, dir, "Gaps.md", "a\n\nb\n")

	ex := New(store, ".md", nil, discardLogger())
	doc, _, err := ex.Convert()
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	var note token.Note
	for _, n := range doc.Notes {
		note = n
	}
	// Title line + "a" + blank + "b" + trailing blank from final newline.
	if len(note.Tokens) != 5 {
		t.Errorf("tokens = %d, want 5", len(note.Tokens))
	}
}

func TestExport_WritesPrettyJSON(t *testing.T) {
	dir, store := testutil.TestVault(t)
	testutil.WriteNote(t, dir, "Out.md", "hello")
	output := filepath.Join(t.TempDir(), "ideaflow_import.if.json")

	ex := New(store, ".md", nil, discardLogger())
	if _, _, err := ex.Export(output); err != nil {
		t.Fatalf("Export: %v", err)
	}

	data, err := os.ReadFile(output)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if !strings.Contains(string(data), "    \"version\": \"08212023\"") {
		t.Errorf("output not pretty-printed with 4-space indent:\n%s", data[:min(len(data), 200)])
	}

	var decoded struct {
		Version string                    `json:"version"`
		Notes   map[string]map[string]any `json:"notes"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("output is not valid JSON: %v", err)
	}
	if len(decoded.Notes) != 1 {
		t.Errorf("notes = %d, want 1", len(decoded.Notes))
	}
	for id, n := range decoded.Notes {
		if n["id"] != id {
			t.Errorf("note key %q != id field %v", id, n["id"])
		}
		if _, ok := n["tokens"].([]any); !ok {
			t.Errorf("tokens field missing or wrong type: %v", n["tokens"])
		}
	}
}

func TestExport_NoPartialOutputOnReadFailure(t *testing.T) {
	if os.Getuid() == 0 {
		t.Skip("permission checks do not apply to root")
	}
	dir, store := testutil.TestVault(t)
	testutil.WriteNote(t, dir, "Locked.md", "secret")
	if err := os.Chmod(filepath.Join(dir, "Locked.md"), 0o000); err != nil {
		t.Fatal(err)
	}
	output := filepath.Join(t.TempDir(), "out.if.json")

	ex := New(store, ".md", nil, discardLogger())
	if _, _, err := ex.Export(output); err == nil {
		t.Fatal("expected error for unreadable note")
	}
	if _, err := os.Stat(output); err == nil {
		t.Error("output file written despite failed conversion")
	}
}

func TestConvert_StableIDsWithCache(t *testing.T) {
	dir, store := testutil.TestVault(t)
	testutil.WriteNote(t, dir, "Keep.md", "x")
	cache := testutil.TestCache(t)

	ex := New(store, ".md", cache, discardLogger())
	doc1, _, err := ex.Convert()
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	doc2, _, err := ex.Convert()
	if err != nil {
		t.Fatalf("Convert: %v", err)
	}
	for id := range doc1.Notes {
		if _, ok := doc2.Notes[id]; !ok {
			t.Errorf("identifier %q not stable across runs", id)
		}
	}
}
